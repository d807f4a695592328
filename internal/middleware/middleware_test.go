package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/communitree/backend/internal/auth"
	"github.com/communitree/backend/internal/models"
)

func do(router *gin.Engine, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestJWTMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := auth.NewJWTService("test-secret", 1)

	router := gin.New()
	router.GET("/protected", JWT(svc), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"email": c.GetString(auth.ContextUserEmail),
			"role":  c.GetString(auth.ContextUserRole),
		})
	})

	if w := do(router, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("no header = %d, want 401", w.Code)
	}
	if w := do(router, map[string]string{"Authorization": "Basic abc"}); w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong scheme = %d, want 401", w.Code)
	}
	if w := do(router, map[string]string{"Authorization": "Bearer junk"}); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token = %d, want 401", w.Code)
	}

	token, err := svc.Generate("v@example.com", models.RoleVolunteer)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	w := do(router, map[string]string{"Authorization": "Bearer " + token})
	if w.Code != http.StatusOK {
		t.Fatalf("valid token = %d, body %s", w.Code, w.Body.String())
	}
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	asRole := func(role string) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Set(auth.ContextUserRole, role)
			c.Next()
		}
	}

	router := gin.New()
	router.GET("/protected", asRole("Volunteer"), RequireRole(models.RoleNGO), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	if w := do(router, nil); w.Code != http.StatusForbidden {
		t.Fatalf("wrong role = %d, want 403", w.Code)
	}

	router = gin.New()
	router.GET("/protected", asRole("NGO"), RequireRole(models.RoleNGO), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	if w := do(router, nil); w.Code != http.StatusOK {
		t.Fatalf("right role = %d, want 200", w.Code)
	}

	router = gin.New()
	router.GET("/protected", RequireRole(models.RoleNGO), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	if w := do(router, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("missing context = %d, want 401", w.Code)
	}
}
