package participations

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/communitree/backend/internal/listings"
	"github.com/communitree/backend/internal/models"
	"github.com/communitree/backend/pkg/docstore"
)

const keyParticipations = "ct_volunteer_participations"

// ErrAlreadyCommitted is returned when a volunteer commits to the same listing twice.
var ErrAlreadyCommitted = errors.New("you have already volunteered for this listing")

// Repository stores participation records and coordinates slot claims
// with the listing store. The mutex makes the duplicate check and the
// append a single step, so two commits for the same pair cannot both win.
type Repository struct {
	store    *docstore.Store
	listings *listings.Repository
	mu       sync.Mutex
}

// NewRepository creates a participation repository.
func NewRepository(store *docstore.Store, listingRepo *listings.Repository) *Repository {
	return &Repository{store: store, listings: listingRepo}
}

// Commit records that a volunteer has committed to a listing and claims one
// open slot on it. Checks run in order: duplicate, listing existence, capacity.
// Returns the new participation and the listing with its updated counters.
func (r *Repository) Commit(ctx context.Context, volunteerEmail, listingID string) (*models.Participation, *models.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var records []models.Participation
	if err := r.store.Load(ctx, keyParticipations, &records); err != nil {
		return nil, nil, err
	}
	for _, p := range records {
		if p.VolunteerEmail == volunteerEmail && p.ListingID == listingID {
			return nil, nil, ErrAlreadyCommitted
		}
	}

	updated, err := r.listings.ClaimSlot(ctx, listingID)
	if err != nil {
		return nil, nil, err
	}

	participation := models.Participation{
		ID:             uuid.NewString(),
		VolunteerEmail: volunteerEmail,
		ListingID:      updated.ID,
		OrgName:        updated.OrgName,
		ProgramTitle:   programTitle(updated),
		VolunteeredAt:  time.Now().UnixMilli(),
	}
	records = append(records, participation)
	if err := r.store.Save(ctx, keyParticipations, records); err != nil {
		return nil, nil, err
	}
	return &participation, updated, nil
}

// ListByVolunteer returns all participation records for a volunteer,
// most recent first.
func (r *Repository) ListByVolunteer(ctx context.Context, volunteerEmail string) ([]models.Participation, error) {
	var records []models.Participation
	if err := r.store.Load(ctx, keyParticipations, &records); err != nil {
		return nil, err
	}
	mine := make([]models.Participation, 0)
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].VolunteerEmail == volunteerEmail {
			mine = append(mine, records[i])
		}
	}
	return mine, nil
}

// programTitle derives a display title from the listing's categories.
func programTitle(l *models.Listing) string {
	parts := make([]string, 0, len(l.Types))
	for _, t := range l.Types {
		parts = append(parts, string(t))
	}
	return strings.Join(parts, ", ")
}
