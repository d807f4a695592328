package communities

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/communitree/backend/internal/auth"
	"github.com/communitree/backend/internal/models"
	"github.com/communitree/backend/internal/realtime"
	"github.com/communitree/backend/pkg/response"
)

// CreateRequest is the body for POST /communities.
type CreateRequest struct {
	Name       string         `json:"name" binding:"required"`
	Mission    string         `json:"mission" binding:"required"`
	Activities []string       `json:"activities" binding:"required"`
	NextMeetup *models.Meetup `json:"nextMeetup"`
}

// Handler handles community HTTP endpoints.
type Handler struct {
	repo     *Repository
	accounts *auth.Repository
	hub      *realtime.Hub
	logger   *zap.Logger
}

// NewHandler creates a communities handler.
func NewHandler(repo *Repository, accounts *auth.Repository, hub *realtime.Hub, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, accounts: accounts, hub: hub, logger: logger}
}

// Create handles POST /communities. Either role may create one; the
// creator is stamped with their display name.
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	email := c.GetString(auth.ContextUserEmail)
	role, ok := models.ParseRole(c.GetString(auth.ContextUserRole))
	if !ok {
		response.Unauthorized(c, "invalid role")
		return
	}

	community, err := h.repo.Create(c.Request.Context(), CreateInput{
		Name:       req.Name,
		Mission:    req.Mission,
		Activities: req.Activities,
		NextMeetup: req.NextMeetup,
		Creator:    models.CommunityCreator{Type: role, Name: h.creatorName(c, role, email)},
	})
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.BadRequest(c, err.Error())
			return
		}
		h.logger.Error("create community failed", zap.Error(err))
		response.Internal(c, "failed to create community")
		return
	}

	if h.hub != nil {
		h.hub.BroadcastAndPublish(realtime.TopicBoard, "community_created", community)
	}
	response.Created(c, community)
}

// List handles GET /communities.
func (h *Handler) List(c *gin.Context) {
	all, err := h.repo.ListAll(c.Request.Context())
	if err != nil {
		h.logger.Error("list communities failed", zap.Error(err))
		response.Internal(c, "failed to list communities")
		return
	}
	response.OK(c, all)
}

// creatorName resolves the display name for a creator, falling back to
// the email when the account cannot be loaded.
func (h *Handler) creatorName(c *gin.Context, role models.Role, email string) string {
	switch role {
	case models.RoleNGO:
		if account, err := h.accounts.ResolveNGO(c.Request.Context(), email); err == nil {
			return account.OrgName
		}
	case models.RoleVolunteer:
		if account, err := h.accounts.ResolveVolunteer(c.Request.Context(), email); err == nil {
			return account.FullName
		}
	}
	return email
}
