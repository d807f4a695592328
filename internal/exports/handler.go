package exports

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/communitree/backend/pkg/response"
)

// Handler handles the export HTTP endpoint.
type Handler struct {
	exporter *Exporter
	logger   *zap.Logger
}

// NewHandler creates an exports handler. exporter may be nil when S3 is
// not configured; the endpoint then reports the feature as unavailable.
func NewHandler(exporter *Exporter, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{exporter: exporter, logger: logger}
}

// Export handles POST /export (NGO only).
func (h *Handler) Export(c *gin.Context) {
	if h.exporter == nil {
		response.BadRequest(c, "exports are not configured")
		return
	}
	result, err := h.exporter.Export(c.Request.Context())
	if err != nil {
		h.logger.Error("export failed", zap.Error(err))
		response.Internal(c, "failed to export board snapshot")
		return
	}
	response.OK(c, result)
}
