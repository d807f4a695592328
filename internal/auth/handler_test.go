package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/communitree/backend/pkg/docstore"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := NewRepository(docstore.New(docstore.NewMemory(), zap.NewNop()), false)
	handler := NewHandler(repo, NewJWTService("test-secret", 1), zap.NewNop())

	router := gin.New()
	router.POST("/auth/signup/ngo", handler.SignupNGO)
	router.POST("/auth/signup/volunteer", handler.SignupVolunteer)
	router.POST("/auth/login/:role", handler.Login)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func ngoSignupBody(email string) map[string]string {
	return map[string]string{
		"orgName":         "Green Roots",
		"contactName":     "Asha",
		"email":           email,
		"darpanId":        "12345",
		"password":        "longenough",
		"confirmPassword": "longenough",
	}
}

func TestSignupNGOEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/auth/signup/ngo", ngoSignupBody("org@example.com"))
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			Token string `json:"token"`
			Role  string `json:"role"`
			User  struct {
				OrgName string `json:"orgName"`
				Email   string `json:"email"`
			} `json:"user"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Success || envelope.Data.Token == "" || envelope.Data.Role != "NGO" {
		t.Fatalf("envelope = %+v", envelope)
	}
	if envelope.Data.User.OrgName != "Green Roots" {
		t.Fatalf("user = %+v", envelope.Data.User)
	}
	if bytes.Contains(w.Body.Bytes(), []byte("longenough")) {
		t.Fatal("response leaked the password")
	}
}

func TestSignupDuplicateEmailConflict(t *testing.T) {
	router := newTestRouter(t)

	if w := doJSON(t, router, http.MethodPost, "/auth/signup/ngo", ngoSignupBody("org@example.com")); w.Code != http.StatusCreated {
		t.Fatalf("first signup: %d", w.Code)
	}
	if w := doJSON(t, router, http.MethodPost, "/auth/signup/ngo", ngoSignupBody("org@example.com")); w.Code != http.StatusConflict {
		t.Fatalf("duplicate signup = %d, want 409", w.Code)
	}
}

func TestSignupValidationBadRequest(t *testing.T) {
	router := newTestRouter(t)

	body := ngoSignupBody("org@example.com")
	body["darpanId"] = "12"
	if w := doJSON(t, router, http.MethodPost, "/auth/signup/ngo", body); w.Code != http.StatusBadRequest {
		t.Fatalf("bad darpan = %d, want 400", w.Code)
	}
}

func TestLoginEndpoint(t *testing.T) {
	router := newTestRouter(t)
	if w := doJSON(t, router, http.MethodPost, "/auth/signup/ngo", ngoSignupBody("org@example.com")); w.Code != http.StatusCreated {
		t.Fatalf("signup: %d", w.Code)
	}

	login := map[string]string{"email": "org@example.com", "password": "longenough"}
	if w := doJSON(t, router, http.MethodPost, "/auth/login/ngo", login); w.Code != http.StatusOK {
		t.Fatalf("login = %d, body %s", w.Code, w.Body.String())
	}

	// same credentials against the other role's collection fail generically
	if w := doJSON(t, router, http.MethodPost, "/auth/login/volunteer", login); w.Code != http.StatusUnauthorized {
		t.Fatalf("cross-role login = %d, want 401", w.Code)
	}

	login["password"] = "wrongpass1"
	if w := doJSON(t, router, http.MethodPost, "/auth/login/ngo", login); w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password = %d, want 401", w.Code)
	}

	if w := doJSON(t, router, http.MethodPost, "/auth/login/admin", login); w.Code != http.StatusBadRequest {
		t.Fatalf("unknown role = %d, want 400", w.Code)
	}
}
