package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/communitree/backend/internal/models"
	"github.com/communitree/backend/pkg/docstore"
	"github.com/communitree/backend/pkg/utils"
)

// Storage keys for the account collections and the current-session record.
const (
	keyNGOUsers       = "ct_ngo_users"
	keyVolunteerUsers = "ct_volunteer_users"
	keySession        = "ct_auth"
)

var (
	// ErrValidation is wrapped by field-level signup rejections.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicateEmail is returned when the email already exists in the
	// role's collection. Checked at creation only, case-sensitively.
	ErrDuplicateEmail = errors.New("an account with this email already exists")
	// ErrInvalidCredentials is returned generically for unknown email and
	// wrong password alike.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountNotFound is returned by Resolve* when no account matches.
	ErrAccountNotFound = errors.New("account not found")
)

var (
	emailRe   = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	darpanRe  = regexp.MustCompile(`^\d{5}$`)
	aadhaarRe = regexp.MustCompile(`^\d{12}$`)
)

// Repository holds the NGO and volunteer account collections plus the
// current-session record. Every mutation is a serialized
// read-all/modify/write-all against the document store.
type Repository struct {
	store *docstore.Store
	mu    sync.Mutex

	// resolveLastFallback enables the original single-user shortcut of
	// resolving to the last-appended account when no email matches. Off by
	// default: it silently misattributes data with more than one account.
	resolveLastFallback bool
}

// NewRepository creates an account repository.
func NewRepository(store *docstore.Store, resolveLastFallback bool) *Repository {
	return &Repository{store: store, resolveLastFallback: resolveLastFallback}
}

// NGOSignup holds the NGO signup form fields.
type NGOSignup struct {
	OrgName         string
	ContactName     string
	Email           string
	DarpanID        string
	Password        string
	ConfirmPassword string
}

// VolunteerSignup holds the volunteer signup form fields.
type VolunteerSignup struct {
	FullName        string
	Email           string
	AadhaarNo       string
	Password        string
	ConfirmPassword string
}

func (p NGOSignup) validate() error {
	if strings.TrimSpace(p.OrgName) == "" {
		return fmt.Errorf("%w: organization name is required", ErrValidation)
	}
	if strings.TrimSpace(p.ContactName) == "" {
		return fmt.Errorf("%w: contact person name is required", ErrValidation)
	}
	if !emailRe.MatchString(p.Email) {
		return fmt.Errorf("%w: enter a valid email", ErrValidation)
	}
	if !darpanRe.MatchString(p.DarpanID) {
		return fmt.Errorf("%w: darpan id must be 5 digits", ErrValidation)
	}
	if len(p.Password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}
	if p.Password != p.ConfirmPassword {
		return fmt.Errorf("%w: passwords do not match", ErrValidation)
	}
	return nil
}

func (p VolunteerSignup) validate() error {
	if strings.TrimSpace(p.FullName) == "" {
		return fmt.Errorf("%w: full name is required", ErrValidation)
	}
	if !emailRe.MatchString(p.Email) {
		return fmt.Errorf("%w: enter a valid email", ErrValidation)
	}
	if !aadhaarRe.MatchString(p.AadhaarNo) {
		return fmt.Errorf("%w: aadhaar number must be 12 digits", ErrValidation)
	}
	if len(p.Password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrValidation)
	}
	if p.Password != p.ConfirmPassword {
		return fmt.Errorf("%w: passwords do not match", ErrValidation)
	}
	return nil
}

// CreateNGO validates, rejects duplicate emails within the NGO collection,
// appends, and persists the full collection.
func (r *Repository) CreateNGO(ctx context.Context, p NGOSignup) (*models.NGOAccount, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var users []models.NGOAccount
	if err := r.store.Load(ctx, keyNGOUsers, &users); err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Email == p.Email {
			return nil, ErrDuplicateEmail
		}
	}

	hash, err := utils.HashPassword(p.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	account := models.NGOAccount{
		OrgName:     p.OrgName,
		ContactName: p.ContactName,
		Email:       p.Email,
		DarpanID:    p.DarpanID,
		Password:    hash,
		CreatedAt:   time.Now().UnixMilli(),
	}
	users = append(users, account)
	if err := r.store.Save(ctx, keyNGOUsers, users); err != nil {
		return nil, err
	}
	return &account, nil
}

// CreateVolunteer is the volunteer-side counterpart of CreateNGO.
func (r *Repository) CreateVolunteer(ctx context.Context, p VolunteerSignup) (*models.VolunteerAccount, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var users []models.VolunteerAccount
	if err := r.store.Load(ctx, keyVolunteerUsers, &users); err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Email == p.Email {
			return nil, ErrDuplicateEmail
		}
	}

	hash, err := utils.HashPassword(p.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	account := models.VolunteerAccount{
		FullName:  p.FullName,
		Email:     p.Email,
		AadhaarNo: p.AadhaarNo,
		Password:  hash,
		CreatedAt: time.Now().UnixMilli(),
	}
	users = append(users, account)
	if err := r.store.Save(ctx, keyVolunteerUsers, users); err != nil {
		return nil, err
	}
	return &account, nil
}

// AuthenticateNGO checks (email, password) against the NGO collection.
// Unknown email and wrong password both return ErrInvalidCredentials.
func (r *Repository) AuthenticateNGO(ctx context.Context, email, password string) (*models.NGOAccount, error) {
	var users []models.NGOAccount
	if err := r.store.Load(ctx, keyNGOUsers, &users); err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Email == email && utils.CheckPassword(password, users[i].Password) {
			return &users[i], nil
		}
	}
	return nil, ErrInvalidCredentials
}

// AuthenticateVolunteer checks (email, password) against the volunteer
// collection.
func (r *Repository) AuthenticateVolunteer(ctx context.Context, email, password string) (*models.VolunteerAccount, error) {
	var users []models.VolunteerAccount
	if err := r.store.Load(ctx, keyVolunteerUsers, &users); err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Email == email && utils.CheckPassword(password, users[i].Password) {
			return &users[i], nil
		}
	}
	return nil, ErrInvalidCredentials
}

// ResolveNGO returns the NGO account for the given session email. With the
// last-account fallback enabled, an unmatched email resolves to the
// last-appended record instead of failing.
func (r *Repository) ResolveNGO(ctx context.Context, sessionEmail string) (*models.NGOAccount, error) {
	var users []models.NGOAccount
	if err := r.store.Load(ctx, keyNGOUsers, &users); err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Email == sessionEmail {
			return &users[i], nil
		}
	}
	if r.resolveLastFallback && len(users) > 0 {
		return &users[len(users)-1], nil
	}
	return nil, ErrAccountNotFound
}

// ResolveVolunteer is the volunteer-side counterpart of ResolveNGO.
func (r *Repository) ResolveVolunteer(ctx context.Context, sessionEmail string) (*models.VolunteerAccount, error) {
	var users []models.VolunteerAccount
	if err := r.store.Load(ctx, keyVolunteerUsers, &users); err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].Email == sessionEmail {
			return &users[i], nil
		}
	}
	if r.resolveLastFallback && len(users) > 0 {
		return &users[len(users)-1], nil
	}
	return nil, ErrAccountNotFound
}

// SaveSession overwrites the single current-session record.
func (r *Repository) SaveSession(ctx context.Context, role models.Role, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Save(ctx, keySession, models.Session{Role: role, UserEmail: email})
}

// ClearSession deletes the current-session record.
func (r *Repository) ClearSession(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.store.Remove(ctx, keySession)
}

// CurrentSession returns the persisted session, or nil when none exists.
func (r *Repository) CurrentSession(ctx context.Context) (*models.Session, error) {
	var s models.Session
	if err := r.store.Load(ctx, keySession, &s); err != nil {
		return nil, err
	}
	if s.Role == "" {
		return nil, nil
	}
	return &s, nil
}
