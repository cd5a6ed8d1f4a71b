// Package notification_repo provides the PostgreSQL notification store.
package notification_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"medistock/internal/core/apperror"
	"medistock/internal/core/id"
	"medistock/internal/domain/notifications"
	"medistock/internal/infrastructure/storage/postgres"
)

const notificationsTable = "sys_notifications"

// NotificationRepo implements notifications.Repository.
type NotificationRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

var _ notifications.Repository = (*NotificationRepo)(nil)

// NewNotificationRepo creates a new notification repository.
func NewNotificationRepo(txm *postgres.TxManager) *NotificationRepo {
	return &NotificationRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *NotificationRepo) querier(ctx context.Context) postgres.Querier {
	return r.txm.GetQuerier(ctx)
}

var notificationColumns = []string{
	"id", "type", "priority", "title", "message",
	"medicine_id", "medicine_name", "read", "created_at",
}

// Create inserts a notification.
func (r *NotificationRepo) Create(ctx context.Context, n notifications.Notification) error {
	q := r.builder.Insert(notificationsTable).
		Columns(notificationColumns...).
		Values(
			n.ID, n.Type, n.Priority, n.Title, n.Message,
			n.MedicineID, n.MedicineName, n.Read, n.CreatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}

	return nil
}

// GetByID retrieves a notification by ID.
func (r *NotificationRepo) GetByID(ctx context.Context, notificationID id.ID) (notifications.Notification, error) {
	var n notifications.Notification

	q := r.builder.Select(notificationColumns...).
		From(notificationsTable).
		Where(squirrel.Eq{"id": notificationID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return n, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), &n, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return n, apperror.NewNotFound("notification", notificationID.String())
		}
		return n, fmt.Errorf("get notification: %w", err)
	}

	return n, nil
}

// ExistsRecent reports whether a notification of the given type for the
// medicine was created after the cutoff.
func (r *NotificationRepo) ExistsRecent(ctx context.Context, nType notifications.Type, medicineID id.ID, since time.Time) (bool, error) {
	q := r.builder.Select("1").
		From(notificationsTable).
		Where(squirrel.Eq{"type": nType}).
		Where(squirrel.Eq{"medicine_id": medicineID}).
		Where(squirrel.GtOrEq{"created_at": since}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var exists int
	err = r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&exists)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists recent: %w", err)
	}

	return true, nil
}

// List retrieves notifications with filtering, newest first.
func (r *NotificationRepo) List(ctx context.Context, f notifications.ListFilter) ([]notifications.Notification, error) {
	q := r.builder.Select(notificationColumns...).
		From(notificationsTable)

	if f.Type != nil {
		q = q.Where(squirrel.Eq{"type": *f.Type})
	}

	if f.Priority != nil {
		q = q.Where(squirrel.Eq{"priority": *f.Priority})
	}

	if f.UnreadOnly {
		q = q.Where(squirrel.Eq{"read": false})
	}

	q = q.OrderBy("created_at DESC")

	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []notifications.Notification
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	return items, nil
}

// MarkRead marks a single notification as read.
func (r *NotificationRepo) MarkRead(ctx context.Context, notificationID id.ID) error {
	q := r.builder.Update(notificationsTable).
		Set("read", true).
		Where(squirrel.Eq{"id": notificationID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build mark read: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("mark read: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("notification", notificationID.String())
	}

	return nil
}

// MarkAllRead marks every unread notification as read.
func (r *NotificationRepo) MarkAllRead(ctx context.Context) (int64, error) {
	q := r.builder.Update(notificationsTable).
		Set("read", true).
		Where(squirrel.Eq{"read": false})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build mark all read: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("mark all read: %w", err)
	}

	return result.RowsAffected(), nil
}

// Delete removes a notification.
func (r *NotificationRepo) Delete(ctx context.Context, notificationID id.ID) error {
	q := r.builder.Delete(notificationsTable).
		Where(squirrel.Eq{"id": notificationID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("notification", notificationID.String())
	}

	return nil
}

// DeleteRead removes all read notifications.
func (r *NotificationRepo) DeleteRead(ctx context.Context) (int64, error) {
	q := r.builder.Delete(notificationsTable).
		Where(squirrel.Eq{"read": true})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete read: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("delete read: %w", err)
	}

	return result.RowsAffected(), nil
}

// GetSummary aggregates unread notifications by priority and type.
func (r *NotificationRepo) GetSummary(ctx context.Context) (notifications.Summary, error) {
	summary := notifications.Summary{
		ByPriority: make(map[notifications.Priority]int64),
		ByType:     make(map[notifications.Type]int64),
	}

	sql := `
		SELECT type, priority, COUNT(*)
		FROM sys_notifications
		WHERE read = false
		GROUP BY type, priority
	`

	rows, err := r.querier(ctx).Query(ctx, sql)
	if err != nil {
		return summary, fmt.Errorf("notification summary: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var nType notifications.Type
		var priority notifications.Priority
		var count int64
		if err := rows.Scan(&nType, &priority, &count); err != nil {
			return summary, fmt.Errorf("scan summary: %w", err)
		}
		summary.ByType[nType] += count
		summary.ByPriority[priority] += count
		summary.TotalUnread += count
	}

	return summary, rows.Err()
}
