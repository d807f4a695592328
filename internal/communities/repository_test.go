package communities

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/communitree/backend/internal/models"
	"github.com/communitree/backend/pkg/docstore"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	return NewRepository(docstore.New(docstore.NewMemory(), zap.NewNop()))
}

func TestCreateValidation(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   CreateInput
	}{
		{"blank name", CreateInput{Name: " ", Mission: "m", Activities: []string{"a"}}},
		{"blank mission", CreateInput{Name: "n", Mission: "", Activities: []string{"a"}}},
		{"no activities", CreateInput{Name: "n", Mission: "m"}},
		{"whitespace activities", CreateInput{Name: "n", Mission: "m", Activities: []string{"  ", ""}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := repo.Create(ctx, tt.in); !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestCreateDefaults(t *testing.T) {
	repo := newTestRepo(t)

	got, err := repo.Create(context.Background(), CreateInput{
		Name:       "River Guardians",
		Mission:    "keep the ghats clean",
		Activities: []string{" cleanup drives ", "awareness walks"},
		Creator:    models.CommunityCreator{Type: models.RoleVolunteer, Name: "Ravi"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.Members != 1 || got.Pulse != models.PulseNew {
		t.Fatalf("defaults = members %d pulse %s", got.Members, got.Pulse)
	}
	if got.ID == "" || got.CreatedAt == 0 {
		t.Fatalf("identity not stamped: %+v", got)
	}
	if len(got.Activities) != 2 || got.Activities[0] != "cleanup drives" {
		t.Fatalf("activities not trimmed: %v", got.Activities)
	}
}

func TestListAllNewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	in := CreateInput{Mission: "m", Activities: []string{"a"}, Creator: models.CommunityCreator{Type: models.RoleNGO, Name: "Org"}}
	in.Name = "first"
	if _, err := repo.Create(ctx, in); err != nil {
		t.Fatalf("Create: %v", err)
	}
	in.Name = "second"
	if _, err := repo.Create(ctx, in); err != nil {
		t.Fatalf("Create: %v", err)
	}

	all, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(all) != 2 || all[0].Name != "second" || all[1].Name != "first" {
		t.Fatalf("order = %v", all)
	}
}

func TestListAllEmptyStore(t *testing.T) {
	repo := newTestRepo(t)
	all, err := repo.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if all == nil || len(all) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", all)
	}
}
