package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/communitree/backend/internal/models"
	"github.com/communitree/backend/internal/notifications"
	"github.com/communitree/backend/pkg/queue"
)

// NotificationProcessor processes commit confirmation jobs: compose the
// confirmation message and append it to the notification log.
type NotificationProcessor struct {
	notifRepo *notifications.Repository
	queue     *queue.Queue
	logger    *zap.Logger
}

// NewNotificationProcessor creates a confirmation notification processor.
func NewNotificationProcessor(notifRepo *notifications.Repository, q *queue.Queue, logger *zap.Logger) *NotificationProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationProcessor{notifRepo: notifRepo, queue: q, logger: logger}
}

// Process executes one commit confirmation job. A participation that was
// already notified is skipped, so retries never duplicate log entries.
func (p *NotificationProcessor) Process(ctx context.Context, job *queue.Job) error {
	if job.Type != queue.JobTypeCommitConfirmation {
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
	var payload queue.CommitConfirmationPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	seen, err := p.notifRepo.HasParticipation(ctx, payload.ParticipationID)
	if err != nil {
		return fmt.Errorf("check notification log: %w", err)
	}
	if seen {
		p.logger.Info("participation already notified", zap.String("participation_id", payload.ParticipationID))
		return nil
	}

	subject := fmt.Sprintf("You're in: %s", payload.OrgName)
	body := fmt.Sprintf("Thanks for volunteering with %s", payload.OrgName)
	if payload.ProgramTitle != "" {
		body = fmt.Sprintf("Thanks for volunteering with %s for %s", payload.OrgName, payload.ProgramTitle)
	}

	recorded, err := p.notifRepo.Record(ctx, models.Notification{
		ParticipationID: payload.ParticipationID,
		ListingID:       payload.ListingID,
		RecipientEmail:  payload.VolunteerEmail,
		Subject:         subject,
		Body:            body,
		Status:          "logged",
	})
	if err != nil {
		return fmt.Errorf("record notification: %w", err)
	}

	p.logger.Info("commit confirmation logged",
		zap.String("notification_id", recorded.ID),
		zap.String("participation_id", payload.ParticipationID),
		zap.String("recipient", payload.VolunteerEmail))
	return nil
}

// Run starts the worker loop: dequeue, process, retry on error.
func (p *NotificationProcessor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("notification worker stopping")
			return
		default:
		}

		job, err := p.queue.Dequeue(ctx)
		if err != nil {
			p.logger.Warn("dequeue error", zap.Error(err))
			time.Sleep(queue.RetryBackoff)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			if reErr := p.queue.Retry(ctx, job); reErr != nil {
				p.logger.Error("retry enqueue failed", zap.Error(reErr))
			}
			time.Sleep(queue.RetryBackoff)
			continue
		}
	}
}
