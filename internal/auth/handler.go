package auth

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/communitree/backend/internal/models"
	"github.com/communitree/backend/pkg/response"
)

// NGOSignupRequest is the body for POST /auth/signup/ngo.
type NGOSignupRequest struct {
	OrgName         string `json:"orgName" binding:"required"`
	ContactName     string `json:"contactName" binding:"required"`
	Email           string `json:"email" binding:"required"`
	DarpanID        string `json:"darpanId" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// VolunteerSignupRequest is the body for POST /auth/signup/volunteer.
type VolunteerSignupRequest struct {
	FullName        string `json:"fullName" binding:"required"`
	Email           string `json:"email" binding:"required"`
	AadhaarNo       string `json:"aadhaarNo" binding:"required"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

// LoginRequest is the body for POST /auth/login/:role.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse is the auth response with JWT and public account data.
type TokenResponse struct {
	Token string      `json:"token"`
	Role  models.Role `json:"role"`
	User  interface{} `json:"user"`
}

// Handler handles auth HTTP endpoints.
type Handler struct {
	repo   *Repository
	jwt    *JWTService
	logger *zap.Logger
}

// NewHandler creates an auth handler.
func NewHandler(repo *Repository, jwt *JWTService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, jwt: jwt, logger: logger}
}

// SignupNGO handles POST /auth/signup/ngo.
func (h *Handler) SignupNGO(c *gin.Context) {
	var req NGOSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	account, err := h.repo.CreateNGO(c.Request.Context(), NGOSignup{
		OrgName:         req.OrgName,
		ContactName:     req.ContactName,
		Email:           req.Email,
		DarpanID:        req.DarpanID,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		h.signupError(c, err)
		return
	}
	h.issue(c, models.RoleNGO, account.Email, account.ToPublic(), true)
}

// SignupVolunteer handles POST /auth/signup/volunteer.
func (h *Handler) SignupVolunteer(c *gin.Context) {
	var req VolunteerSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	account, err := h.repo.CreateVolunteer(c.Request.Context(), VolunteerSignup{
		FullName:        req.FullName,
		Email:           req.Email,
		AadhaarNo:       req.AadhaarNo,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		h.signupError(c, err)
		return
	}
	h.issue(c, models.RoleVolunteer, account.Email, account.ToPublic(), true)
}

// Login handles POST /auth/login/:role.
func (h *Handler) Login(c *gin.Context) {
	role, ok := models.ParseRole(c.Param("role"))
	if !ok {
		response.BadRequest(c, "unknown role")
		return
	}
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	var user interface{}
	switch role {
	case models.RoleNGO:
		account, err := h.repo.AuthenticateNGO(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			h.loginError(c, err)
			return
		}
		user = account.ToPublic()
	case models.RoleVolunteer:
		account, err := h.repo.AuthenticateVolunteer(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			h.loginError(c, err)
			return
		}
		user = account.ToPublic()
	}
	h.issue(c, role, req.Email, user, false)
}

// Logout handles POST /auth/logout.
func (h *Handler) Logout(c *gin.Context) {
	if err := h.repo.ClearSession(c.Request.Context()); err != nil {
		response.Internal(c, "failed to clear session")
		return
	}
	response.NoContent(c)
}

// Me handles GET /auth/me: resolves the caller's account from the token.
func (h *Handler) Me(c *gin.Context) {
	email := c.GetString(ContextUserEmail)
	role := models.Role(c.GetString(ContextUserRole))

	switch role {
	case models.RoleNGO:
		account, err := h.repo.ResolveNGO(c.Request.Context(), email)
		if err != nil {
			h.resolveError(c, err)
			return
		}
		response.OK(c, account.ToPublic())
	case models.RoleVolunteer:
		account, err := h.repo.ResolveVolunteer(c.Request.Context(), email)
		if err != nil {
			h.resolveError(c, err)
			return
		}
		response.OK(c, account.ToPublic())
	default:
		response.Unauthorized(c, "missing user context")
	}
}

// issue writes the session record and responds with a fresh token.
func (h *Handler) issue(c *gin.Context, role models.Role, email string, user interface{}, created bool) {
	if err := h.repo.SaveSession(c.Request.Context(), role, email); err != nil {
		h.logger.Error("save session failed", zap.Error(err))
		response.Internal(c, "failed to save session")
		return
	}
	token, err := h.jwt.Generate(email, role)
	if err != nil {
		response.Internal(c, "failed to generate token")
		return
	}
	body := TokenResponse{Token: token, Role: role, User: user}
	if created {
		response.Created(c, body)
		return
	}
	response.OK(c, body)
}

func (h *Handler) signupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.BadRequest(c, err.Error())
	case errors.Is(err, ErrDuplicateEmail):
		response.Conflict(c, err.Error())
	default:
		h.logger.Error("signup failed", zap.Error(err))
		response.Internal(c, "failed to create account")
	}
}

func (h *Handler) loginError(c *gin.Context, err error) {
	if errors.Is(err, ErrInvalidCredentials) {
		response.Unauthorized(c, err.Error())
		return
	}
	h.logger.Error("login failed", zap.Error(err))
	response.Internal(c, "failed to sign in")
}

func (h *Handler) resolveError(c *gin.Context, err error) {
	if errors.Is(err, ErrAccountNotFound) {
		response.NotFound(c, err.Error())
		return
	}
	h.logger.Error("resolve account failed", zap.Error(err))
	response.Internal(c, "failed to load account")
}
