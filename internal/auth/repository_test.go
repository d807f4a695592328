package auth

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/communitree/backend/internal/models"
	"github.com/communitree/backend/pkg/docstore"
)

func newTestRepo(t *testing.T, fallback bool) *Repository {
	t.Helper()
	return NewRepository(docstore.New(docstore.NewMemory(), zap.NewNop()), fallback)
}

func validNGO(email string) NGOSignup {
	return NGOSignup{
		OrgName:         "Green Roots",
		ContactName:     "Asha",
		Email:           email,
		DarpanID:        "12345",
		Password:        "longenough",
		ConfirmPassword: "longenough",
	}
}

func validVolunteer(email string) VolunteerSignup {
	return VolunteerSignup{
		FullName:        "Ravi Kumar",
		Email:           email,
		AadhaarNo:       "123456789012",
		Password:        "longenough",
		ConfirmPassword: "longenough",
	}
}

func TestNGOSignupValidation(t *testing.T) {
	repo := newTestRepo(t, false)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*NGOSignup)
	}{
		{"blank org name", func(p *NGOSignup) { p.OrgName = "  " }},
		{"blank contact", func(p *NGOSignup) { p.ContactName = "" }},
		{"bad email", func(p *NGOSignup) { p.Email = "not-an-email" }},
		{"short darpan", func(p *NGOSignup) { p.DarpanID = "1234" }},
		{"alpha darpan", func(p *NGOSignup) { p.DarpanID = "12a45" }},
		{"short password", func(p *NGOSignup) { p.Password, p.ConfirmPassword = "short", "short" }},
		{"mismatched confirm", func(p *NGOSignup) { p.ConfirmPassword = "different1" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validNGO("org@example.com")
			tt.mutate(&p)
			if _, err := repo.CreateNGO(ctx, p); !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestVolunteerSignupValidation(t *testing.T) {
	repo := newTestRepo(t, false)
	ctx := context.Background()

	p := validVolunteer("v@example.com")
	p.AadhaarNo = "12345678901" // 11 digits
	if _, err := repo.CreateVolunteer(ctx, p); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestSignupThenAuthenticate(t *testing.T) {
	repo := newTestRepo(t, false)
	ctx := context.Background()

	created, err := repo.CreateNGO(ctx, validNGO("org@example.com"))
	if err != nil {
		t.Fatalf("CreateNGO: %v", err)
	}
	if created.Password == "longenough" {
		t.Fatal("password stored in plaintext")
	}

	got, err := repo.AuthenticateNGO(ctx, "org@example.com", "longenough")
	if err != nil {
		t.Fatalf("AuthenticateNGO: %v", err)
	}
	if got.OrgName != "Green Roots" {
		t.Fatalf("wrong account: %v", got)
	}

	if _, err := repo.AuthenticateNGO(ctx, "org@example.com", "wrongpass1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: %v", err)
	}
	if _, err := repo.AuthenticateNGO(ctx, "nobody@example.com", "longenough"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: %v", err)
	}
}

func TestDuplicateEmailPerRole(t *testing.T) {
	repo := newTestRepo(t, false)
	ctx := context.Background()

	if _, err := repo.CreateNGO(ctx, validNGO("shared@example.com")); err != nil {
		t.Fatalf("CreateNGO: %v", err)
	}
	if _, err := repo.CreateNGO(ctx, validNGO("shared@example.com")); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
	// uniqueness is per collection: the same email may exist for both roles
	if _, err := repo.CreateVolunteer(ctx, validVolunteer("shared@example.com")); err != nil {
		t.Fatalf("cross-role signup rejected: %v", err)
	}
	// duplicate check is case-sensitive
	if _, err := repo.CreateNGO(ctx, validNGO("SHARED@example.com")); err != nil {
		t.Fatalf("case-variant email rejected: %v", err)
	}
}

func TestResolveFallback(t *testing.T) {
	ctx := context.Background()

	strict := newTestRepo(t, false)
	if _, err := strict.CreateNGO(ctx, validNGO("first@example.com")); err != nil {
		t.Fatalf("CreateNGO: %v", err)
	}
	if _, err := strict.ResolveNGO(ctx, "ghost@example.com"); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("strict resolve: %v", err)
	}

	legacy := newTestRepo(t, true)
	if _, err := legacy.CreateNGO(ctx, validNGO("first@example.com")); err != nil {
		t.Fatalf("CreateNGO: %v", err)
	}
	if _, err := legacy.CreateNGO(ctx, validNGO("last@example.com")); err != nil {
		t.Fatalf("CreateNGO: %v", err)
	}
	got, err := legacy.ResolveNGO(ctx, "ghost@example.com")
	if err != nil {
		t.Fatalf("legacy resolve: %v", err)
	}
	if got.Email != "last@example.com" {
		t.Fatalf("fallback should pick the last-appended account, got %s", got.Email)
	}
}

func TestSessionLifecycle(t *testing.T) {
	repo := newTestRepo(t, false)
	ctx := context.Background()

	s, err := repo.CurrentSession(ctx)
	if err != nil || s != nil {
		t.Fatalf("fresh store session = %v, %v", s, err)
	}

	if err := repo.SaveSession(ctx, models.RoleVolunteer, "v@example.com"); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	s, err = repo.CurrentSession(ctx)
	if err != nil || s == nil || s.Role != models.RoleVolunteer || s.UserEmail != "v@example.com" {
		t.Fatalf("session = %v, %v", s, err)
	}

	if err := repo.ClearSession(ctx); err != nil {
		t.Fatalf("ClearSession: %v", err)
	}
	s, err = repo.CurrentSession(ctx)
	if err != nil || s != nil {
		t.Fatalf("cleared session = %v, %v", s, err)
	}
}
