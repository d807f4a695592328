package listings

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

// keyListings is the storage key for the shared listing collection.
const keyListings = "ct_ngo_listings"

var (
	// ErrValidation is wrapped by publish-time rejections.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned when no listing has the given id.
	ErrNotFound = errors.New("listing not found")
	// ErrNotOwner is returned when the caller does not own the listing.
	ErrNotOwner = errors.New("listing belongs to another organization")
	// ErrNoCapacity is returned by ClaimSlot when all needs are filled.
	ErrNoCapacity = errors.New("all volunteer needs are filled for this listing")
)

// Repository holds the shared listing collection. The mutex serializes
// every read-modify-write so two concurrent claims can never both observe
// the same stale need count.
type Repository struct {
	store *docstore.Store
	mu    sync.Mutex
}

// NewRepository creates a listing repository.
func NewRepository(store *docstore.Store) *Repository {
	return &Repository{store: store}
}

// Publish validates and creates a listing owned by the given NGO account.
// The new listing is prepended so the collection stays most-recent-first.
// Counter inputs arrive already coerced to non-negative ints (models.Count).
func (r *Repository) Publish(ctx context.Context, account *models.NGOAccount, types []models.Category, have, need models.Count, description string) (*models.Listing, error) {
	if account == nil {
		return nil, fmt.Errorf("%w: no NGO account", ErrValidation)
	}
	if len(types) == 0 {
		return nil, fmt.Errorf("%w: select at least one type", ErrValidation)
	}
	for _, t := range types {
		if !models.ValidCategory(t) {
			return nil, fmt.Errorf("%w: unknown type %q", ErrValidation, t)
		}
	}
	desc := strings.TrimSpace(description)
	if desc == "" {
		return nil, fmt.Errorf("%w: description is required", ErrValidation)
	}

	item := models.Listing{
		ID:             uuid.NewString(),
		OwnerRole:      models.RoleNGO,
		OrgName:        account.OrgName,
		OrgEmail:       account.Email,
		Types:          append([]models.Category(nil), types...),
		HaveVolunteers: have,
		NeedVolunteers: need,
		Description:    desc,
		CreatedAt:      time.Now().UnixMilli(),
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var all []models.Listing
	if err := r.store.Load(ctx, keyListings, &all); err != nil {
		return nil, err
	}
	all = append([]models.Listing{item}, all...)
	if err := r.store.Save(ctx, keyListings, all); err != nil {
		return nil, err
	}
	return &item, nil
}

// Remove deletes a listing after an explicit ownership check against the
// caller's email.
func (r *Repository) Remove(ctx context.Context, id, callerEmail string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var all []models.Listing
	if err := r.store.Load(ctx, keyListings, &all); err != nil {
		return err
	}
	idx := -1
	for i := range all {
		if all[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrNotFound
	}
	if all[idx].OrgEmail != callerEmail {
		return ErrNotOwner
	}
	all = append(all[:idx], all[idx+1:]...)
	return r.store.Save(ctx, keyListings, all)
}

// ListByOwner returns the listings published by the given org email, in
// store order.
func (r *Repository) ListByOwner(ctx context.Context, email string) ([]models.Listing, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	var mine []models.Listing
	for _, l := range all {
		if l.OrgEmail == email {
			mine = append(mine, l)
		}
	}
	return mine, nil
}

// ListAll returns every NGO-owned listing, in store order.
func (r *Repository) ListAll(ctx context.Context) ([]models.Listing, error) {
	var all []models.Listing
	if err := r.store.Load(ctx, keyListings, &all); err != nil {
		return nil, err
	}
	out := all[:0:0]
	for _, l := range all {
		if l.OwnerRole == models.RoleNGO {
			out = append(out, l)
		}
	}
	return out, nil
}

// GetByID returns a single listing.
func (r *Repository) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	var all []models.Listing
	if err := r.store.Load(ctx, keyListings, &all); err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, ErrNotFound
}

// ClaimSlot atomically transfers one unit of needed capacity to the have
// counter: need-1, have+1, floored at zero. It returns the updated listing,
// ErrNotFound when the listing is gone, or ErrNoCapacity when need is
// already zero.
func (r *Repository) ClaimSlot(ctx context.Context, id string) (*models.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var all []models.Listing
	if err := r.store.Load(ctx, keyListings, &all); err != nil {
		return nil, err
	}
	idx := -1
	for i := range all {
		if all[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrNotFound
	}
	if all[idx].NeedVolunteers <= 0 {
		return nil, ErrNoCapacity
	}
	all[idx].NeedVolunteers--
	all[idx].HaveVolunteers++
	if err := r.store.Save(ctx, keyListings, all); err != nil {
		return nil, err
	}
	updated := all[idx]
	return &updated, nil
}
