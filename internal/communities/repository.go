package communities

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/communitree/backend/internal/models"
	"github.com/communitree/backend/pkg/docstore"
)

const keyCommunities = "ct_communities"

// ErrValidation wraps community input failures.
var ErrValidation = errors.New("validation failed")

// Repository stores community profiles. There is no update or delete;
// the only write is Create, serialized by the mutex.
type Repository struct {
	store *docstore.Store
	mu    sync.Mutex
}

// NewRepository creates a community repository.
func NewRepository(store *docstore.Store) *Repository {
	return &Repository{store: store}
}

// CreateInput carries the fields for a new community.
type CreateInput struct {
	Name       string
	Mission    string
	Activities []string
	NextMeetup *models.Meetup
	Creator    models.CommunityCreator
}

func (in *CreateInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Mission = strings.TrimSpace(in.Mission)
	if in.Name == "" {
		return fmt.Errorf("%w: community name is required", ErrValidation)
	}
	if in.Mission == "" {
		return fmt.Errorf("%w: mission is required", ErrValidation)
	}
	activities := make([]string, 0, len(in.Activities))
	for _, a := range in.Activities {
		if a = strings.TrimSpace(a); a != "" {
			activities = append(activities, a)
		}
	}
	if len(activities) == 0 {
		return fmt.Errorf("%w: at least one activity is required", ErrValidation)
	}
	in.Activities = activities
	return nil
}

// Create validates and prepends a new community. New communities start
// with a single member (the creator) and a New pulse.
func (r *Repository) Create(ctx context.Context, in CreateInput) (*models.Community, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var all []models.Community
	if err := r.store.Load(ctx, keyCommunities, &all); err != nil {
		return nil, err
	}

	community := models.Community{
		ID:         uuid.NewString(),
		Name:       in.Name,
		Mission:    in.Mission,
		Members:    1,
		Pulse:      models.PulseNew,
		CreatedBy:  in.Creator,
		Activities: in.Activities,
		NextMeetup: in.NextMeetup,
		CreatedAt:  time.Now().UnixMilli(),
	}
	all = append([]models.Community{community}, all...)
	if err := r.store.Save(ctx, keyCommunities, all); err != nil {
		return nil, err
	}
	return &community, nil
}

// ListAll returns every community, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]models.Community, error) {
	var all []models.Community
	if err := r.store.Load(ctx, keyCommunities, &all); err != nil {
		return nil, err
	}
	if all == nil {
		all = []models.Community{}
	}
	return all, nil
}
