package notifications

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/communitree/backend/internal/models"
	"github.com/communitree/backend/pkg/docstore"
)

const keyNotifications = "ct_notification_log"

// Repository stores the append-only notification log.
type Repository struct {
	store *docstore.Store
	mu    sync.Mutex
}

// NewRepository creates a notification log repository.
func NewRepository(store *docstore.Store) *Repository {
	return &Repository{store: store}
}

// Record appends a notification to the log and returns it with its ID
// and timestamp filled in.
func (r *Repository) Record(ctx context.Context, n models.Notification) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var log []models.Notification
	if err := r.store.Load(ctx, keyNotifications, &log); err != nil {
		return nil, err
	}
	n.ID = uuid.NewString()
	n.CreatedAt = time.Now().UnixMilli()
	log = append(log, n)
	if err := r.store.Save(ctx, keyNotifications, log); err != nil {
		return nil, err
	}
	return &n, nil
}

// HasParticipation reports whether a notification for the given
// participation was already logged. Used to keep job retries idempotent.
func (r *Repository) HasParticipation(ctx context.Context, participationID string) (bool, error) {
	var log []models.Notification
	if err := r.store.Load(ctx, keyNotifications, &log); err != nil {
		return false, err
	}
	for _, n := range log {
		if n.ParticipationID == participationID {
			return true, nil
		}
	}
	return false, nil
}

// ListByRecipient returns a recipient's notifications, newest first.
func (r *Repository) ListByRecipient(ctx context.Context, email string) ([]models.Notification, error) {
	var log []models.Notification
	if err := r.store.Load(ctx, keyNotifications, &log); err != nil {
		return nil, err
	}
	mine := make([]models.Notification, 0)
	for i := len(log) - 1; i >= 0; i-- {
		if log[i].RecipientEmail == email {
			mine = append(mine, log[i])
		}
	}
	return mine, nil
}
