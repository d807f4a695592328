package listings

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/communitree/backend/internal/auth"
	"github.com/communitree/backend/internal/models"
	"github.com/communitree/backend/internal/realtime"
	"github.com/communitree/backend/pkg/response"
)

// CreateRequest is the body for POST /listings. Counter fields accept
// numbers or numeric strings; anything else coerces to zero.
type CreateRequest struct {
	Types          []models.Category `json:"types" binding:"required"`
	HaveVolunteers models.Count      `json:"haveVolunteers"`
	NeedVolunteers models.Count      `json:"needVolunteers"`
	Description    string            `json:"description" binding:"required"`
}

// Handler handles listing HTTP endpoints.
type Handler struct {
	repo     *Repository
	accounts *auth.Repository
	hub      *realtime.Hub
	logger   *zap.Logger
}

// NewHandler creates a listings handler.
func NewHandler(repo *Repository, accounts *auth.Repository, hub *realtime.Hub, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, accounts: accounts, hub: hub, logger: logger}
}

// Create handles POST /listings (NGO only).
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	email := c.GetString(auth.ContextUserEmail)
	account, err := h.accounts.ResolveNGO(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, auth.ErrAccountNotFound) {
			response.BadRequest(c, "no NGO account found; sign up and log in as NGO")
			return
		}
		h.logger.Error("resolve NGO account failed", zap.Error(err))
		response.Internal(c, "failed to load account")
		return
	}

	item, err := h.repo.Publish(c.Request.Context(), account, req.Types, req.HaveVolunteers, req.NeedVolunteers, req.Description)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.BadRequest(c, err.Error())
			return
		}
		h.logger.Error("publish listing failed", zap.Error(err))
		response.Internal(c, "failed to publish listing")
		return
	}

	if h.hub != nil {
		h.hub.BroadcastAndPublish(realtime.TopicBoard, "listing_published", item)
	}
	response.Created(c, item)
}

// Delete handles DELETE /listings/:id (NGO only, owner-checked).
func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	email := c.GetString(auth.ContextUserEmail)

	if err := h.repo.Remove(c.Request.Context(), id, email); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(c, err.Error())
		case errors.Is(err, ErrNotOwner):
			response.Forbidden(c, err.Error())
		default:
			h.logger.Error("remove listing failed", zap.Error(err))
			response.Internal(c, "failed to delete listing")
		}
		return
	}

	if h.hub != nil {
		h.hub.BroadcastAndPublish(realtime.TopicBoard, "listing_removed", gin.H{"id": id})
	}
	response.NoContent(c)
}

// Mine handles GET /listings/mine (NGO only).
func (h *Handler) Mine(c *gin.Context) {
	email := c.GetString(auth.ContextUserEmail)
	mine, err := h.repo.ListByOwner(c.Request.Context(), email)
	if err != nil {
		h.logger.Error("list own listings failed", zap.Error(err))
		response.Internal(c, "failed to list listings")
		return
	}
	response.OK(c, mine)
}

// Browse handles GET /listings (volunteer view). Query parameters:
// q (text search), types (comma-separated), needing (1/true), sort
// (recent|need|have). Filters compose as search, types, needing, sort.
func (h *Handler) Browse(c *gin.Context) {
	all, err := h.repo.ListAll(c.Request.Context())
	if err != nil {
		h.logger.Error("list listings failed", zap.Error(err))
		response.Internal(c, "failed to list listings")
		return
	}

	var selected []models.Category
	if raw := c.Query("types"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				selected = append(selected, models.Category(t))
			}
		}
	}
	onlyNeeding := c.Query("needing") == "1" || c.Query("needing") == "true"
	view := ApplyView(all, c.Query("q"), selected, onlyNeeding, ParseSortKey(c.Query("sort")))
	response.OK(c, view)
}
