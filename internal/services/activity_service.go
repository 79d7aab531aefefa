package services

import (
	"context"
	"log/slog"

	"pantrypal/internal/amqp"
	"pantrypal/internal/core"
	"pantrypal/internal/storage"
)

// ActivityService appends audit rows and fans the same event out over AMQP
// when a broker is configured. The database write is authoritative; the
// publish is best-effort and never fails the request.
type ActivityService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewActivityService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *ActivityService {
	return &ActivityService{storage: storage, amqpClient: amqpClient}
}

// Record appends one activity row. Calls without an authenticated user
// (userID == 0) are silently dropped; activity is only tracked for
// logged-in actions.
func (s *ActivityService) Record(ctx context.Context, userID int64, typ core.ActivityType, details string) error {
	if userID == 0 {
		return nil
	}

	if err := s.storage.RecordActivity(ctx, userID, typ, details); err != nil {
		return err
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.PublishActivity(ctx, amqp.NewActivityMessage(userID, typ, details)); err != nil {
			slog.WarnContext(ctx, "Failed to publish activity event",
				"error", err, "user_id", userID, "activity_type", string(typ))
		}
	}

	return nil
}

// Recent returns at most limit rows, newest first.
func (s *ActivityService) Recent(ctx context.Context, userID int64, limit int) ([]core.Activity, error) {
	if limit <= 0 {
		limit = 5
	}
	return s.storage.RecentActivity(ctx, userID, limit)
}

func (s *ActivityService) CountByType(ctx context.Context, userID int64, typ core.ActivityType) (int64, error) {
	return s.storage.CountActivityByType(ctx, userID, typ)
}
