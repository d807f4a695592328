package notifications

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/communitree/backend/internal/models"
	"github.com/communitree/backend/pkg/docstore"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	return NewRepository(docstore.New(docstore.NewMemory(), zap.NewNop()))
}

func TestRecordStampsIdentity(t *testing.T) {
	repo := newTestRepo(t)

	got, err := repo.Record(context.Background(), models.Notification{
		ParticipationID: "p1",
		RecipientEmail:  "v@x.in",
		Subject:         "You're in: Green Roots",
		Status:          "logged",
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if got.ID == "" || got.CreatedAt == 0 {
		t.Fatalf("identity not stamped: %+v", got)
	}
}

func TestHasParticipation(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	seen, err := repo.HasParticipation(ctx, "p1")
	if err != nil || seen {
		t.Fatalf("fresh log HasParticipation = %v, %v", seen, err)
	}

	if _, err := repo.Record(ctx, models.Notification{ParticipationID: "p1", RecipientEmail: "v@x.in"}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	seen, err = repo.HasParticipation(ctx, "p1")
	if err != nil || !seen {
		t.Fatalf("HasParticipation after record = %v, %v", seen, err)
	}
}

func TestListByRecipientNewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, n := range []models.Notification{
		{ParticipationID: "p1", RecipientEmail: "a@x.in", Subject: "first"},
		{ParticipationID: "p2", RecipientEmail: "a@x.in", Subject: "second"},
		{ParticipationID: "p3", RecipientEmail: "b@x.in", Subject: "other"},
	} {
		if _, err := repo.Record(ctx, n); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	mine, err := repo.ListByRecipient(ctx, "a@x.in")
	if err != nil {
		t.Fatalf("ListByRecipient: %v", err)
	}
	if len(mine) != 2 || mine[0].Subject != "second" || mine[1].Subject != "first" {
		t.Fatalf("ListByRecipient = %v", mine)
	}
}
