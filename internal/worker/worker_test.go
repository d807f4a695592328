package worker

import (
	"context"
	"encoding/json"
	"testing"

	"go.uber.org/zap"

	"github.com/communitree/backend/internal/notifications"
	"github.com/communitree/backend/pkg/docstore"
	"github.com/communitree/backend/pkg/queue"
)

func confirmationJob(t *testing.T, payload queue.CommitConfirmationPayload) *queue.Job {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return &queue.Job{ID: "j1", Type: queue.JobTypeCommitConfirmation, Payload: raw}
}

func TestProcessLogsConfirmation(t *testing.T) {
	repo := notifications.NewRepository(docstore.New(docstore.NewMemory(), zap.NewNop()))
	p := NewNotificationProcessor(repo, nil, zap.NewNop())
	ctx := context.Background()

	job := confirmationJob(t, queue.CommitConfirmationPayload{
		ParticipationID: "p1",
		ListingID:       "l1",
		VolunteerEmail:  "v@x.in",
		OrgName:         "Green Roots",
		ProgramTitle:    "Environment",
	})
	if err := p.Process(ctx, job); err != nil {
		t.Fatalf("Process: %v", err)
	}

	mine, err := repo.ListByRecipient(ctx, "v@x.in")
	if err != nil {
		t.Fatalf("ListByRecipient: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("expected one logged notification, got %d", len(mine))
	}
	got := mine[0]
	if got.Subject != "You're in: Green Roots" || got.Status != "logged" || got.ListingID != "l1" {
		t.Fatalf("notification = %+v", got)
	}
}

func TestProcessIsIdempotentPerParticipation(t *testing.T) {
	repo := notifications.NewRepository(docstore.New(docstore.NewMemory(), zap.NewNop()))
	p := NewNotificationProcessor(repo, nil, zap.NewNop())
	ctx := context.Background()

	payload := queue.CommitConfirmationPayload{ParticipationID: "p1", VolunteerEmail: "v@x.in", OrgName: "Green Roots"}
	if err := p.Process(ctx, confirmationJob(t, payload)); err != nil {
		t.Fatalf("first Process: %v", err)
	}
	// a redelivered job for the same participation is skipped
	if err := p.Process(ctx, confirmationJob(t, payload)); err != nil {
		t.Fatalf("second Process: %v", err)
	}

	mine, err := repo.ListByRecipient(ctx, "v@x.in")
	if err != nil {
		t.Fatalf("ListByRecipient: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("redelivery duplicated the log: %d entries", len(mine))
	}
}

func TestProcessRejectsUnknownJobType(t *testing.T) {
	repo := notifications.NewRepository(docstore.New(docstore.NewMemory(), zap.NewNop()))
	p := NewNotificationProcessor(repo, nil, zap.NewNop())

	err := p.Process(context.Background(), &queue.Job{ID: "j1", Type: "mystery"})
	if err == nil {
		t.Fatal("unknown job type accepted")
	}
}
