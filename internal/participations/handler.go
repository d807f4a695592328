package participations

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/communitree/backend/internal/auth"
	"github.com/communitree/backend/internal/listings"
	"github.com/communitree/backend/internal/realtime"
	"github.com/communitree/backend/pkg/queue"
	"github.com/communitree/backend/pkg/response"
)

// Handler handles participation HTTP endpoints.
type Handler struct {
	repo   *Repository
	jobs   *queue.Queue
	hub    *realtime.Hub
	logger *zap.Logger
}

// NewHandler creates a participations handler. jobs may be nil when no
// worker is deployed; commits still succeed, only the confirmation is skipped.
func NewHandler(repo *Repository, jobs *queue.Queue, hub *realtime.Hub, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, jobs: jobs, hub: hub, logger: logger}
}

// Commit handles POST /listings/:id/volunteer (Volunteer only).
func (h *Handler) Commit(c *gin.Context) {
	listingID := c.Param("id")
	email := c.GetString(auth.ContextUserEmail)

	participation, listing, err := h.repo.Commit(c.Request.Context(), email, listingID)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyCommitted):
			response.Conflict(c, err.Error())
		case errors.Is(err, listings.ErrNotFound):
			response.NotFound(c, err.Error())
		case errors.Is(err, listings.ErrNoCapacity):
			response.Conflict(c, err.Error())
		default:
			h.logger.Error("commit failed", zap.Error(err), zap.String("listing_id", listingID))
			response.Internal(c, "failed to volunteer for listing")
		}
		return
	}

	if h.jobs != nil {
		if err := h.jobs.EnqueueCommitConfirmation(c.Request.Context(), queue.CommitConfirmationPayload{
			ParticipationID: participation.ID,
			ListingID:       listing.ID,
			VolunteerEmail:  participation.VolunteerEmail,
			OrgName:         participation.OrgName,
			ProgramTitle:    participation.ProgramTitle,
		}); err != nil {
			// the commit already happened; confirmation is best-effort
			h.logger.Warn("enqueue confirmation failed", zap.Error(err), zap.String("participation_id", participation.ID))
		}
	}

	if h.hub != nil {
		h.hub.BroadcastAndPublish(realtime.TopicBoard, "listing_committed", gin.H{
			"listingId":      listing.ID,
			"haveVolunteers": listing.HaveVolunteers,
			"needVolunteers": listing.NeedVolunteers,
		})
	}

	response.Created(c, gin.H{"participation": participation, "listing": listing})
}

// Mine handles GET /participations (Volunteer only).
func (h *Handler) Mine(c *gin.Context) {
	email := c.GetString(auth.ContextUserEmail)
	mine, err := h.repo.ListByVolunteer(c.Request.Context(), email)
	if err != nil {
		h.logger.Error("list participations failed", zap.Error(err))
		response.Internal(c, "failed to list participations")
		return
	}
	response.OK(c, mine)
}
