package notifications

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/communitree/backend/internal/auth"
	"github.com/communitree/backend/pkg/response"
)

// Handler handles notification HTTP endpoints.
type Handler struct {
	repo   *Repository
	logger *zap.Logger
}

// NewHandler creates a notifications handler.
func NewHandler(repo *Repository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, logger: logger}
}

// Mine handles GET /notifications (Volunteer only).
func (h *Handler) Mine(c *gin.Context) {
	email := c.GetString(auth.ContextUserEmail)
	mine, err := h.repo.ListByRecipient(c.Request.Context(), email)
	if err != nil {
		h.logger.Error("list notifications failed", zap.Error(err))
		response.Internal(c, "failed to list notifications")
		return
	}
	response.OK(c, mine)
}
