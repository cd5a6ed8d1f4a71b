package notifications

import (
	"context"
	"fmt"
	"time"

	"medistock/internal/core/apperror"
	"medistock/internal/core/id"
	"medistock/internal/core/tx"
	"medistock/internal/domain/catalogs/medicine"
	"medistock/pkg/logger"
)

// MedicineLister provides the inventory snapshot the generator scans.
type MedicineLister interface {
	ListAll(ctx context.Context) ([]*medicine.Medicine, error)
}

// Service generates and manages notifications.
type Service struct {
	repo      Repository
	medicines MedicineLister
	txManager tx.Manager
}

// NewService creates a new notification service.
func NewService(repo Repository, medicines MedicineLister, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		medicines: medicines,
		txManager: txManager,
	}
}

// Generate scans the inventory and creates the alerts it warrants.
// Alerts already raised within the type's deduplication window are
// skipped. Returns the number of created notifications.
func (s *Service) Generate(ctx context.Context) (int, error) {
	meds, err := s.medicines.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("list medicines: %w", err)
	}

	now := time.Now().UTC()
	created := 0

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, m := range meds {
			if m.DeletionMark {
				continue
			}
			for _, n := range EvaluateMedicine(m, now) {
				exists, err := s.repo.ExistsRecent(ctx, n.Type, n.MedicineID, now.Add(-n.Type.DedupWindow()))
				if err != nil {
					return fmt.Errorf("check recent: %w", err)
				}
				if exists {
					continue
				}
				if err := s.repo.Create(ctx, n); err != nil {
					return fmt.Errorf("create notification: %w", err)
				}
				created++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	logger.Info(ctx, "generated notifications", "created", created, "scanned", len(meds))
	return created, nil
}

// List retrieves notifications with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Notification, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.repo.List(ctx, filter)
}

// MarkRead marks one notification as read.
func (s *Service) MarkRead(ctx context.Context, notificationID id.ID) error {
	if _, err := s.repo.GetByID(ctx, notificationID); err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewNotFound("notification", notificationID.String())
		}
		return err
	}
	return s.repo.MarkRead(ctx, notificationID)
}

// MarkAllRead marks every notification as read.
func (s *Service) MarkAllRead(ctx context.Context) (int64, error) {
	return s.repo.MarkAllRead(ctx)
}

// Delete removes one notification.
func (s *Service) Delete(ctx context.Context, notificationID id.ID) error {
	if _, err := s.repo.GetByID(ctx, notificationID); err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewNotFound("notification", notificationID.String())
		}
		return err
	}
	return s.repo.Delete(ctx, notificationID)
}

// ClearRead removes all read notifications.
func (s *Service) ClearRead(ctx context.Context) (int64, error) {
	return s.repo.DeleteRead(ctx)
}

// GetSummary aggregates unread notifications by type and priority.
func (s *Service) GetSummary(ctx context.Context) (Summary, error) {
	return s.repo.GetSummary(ctx)
}
