package repository

import (
	"context"

	"summit-scheduler/core/database"
	"summit-scheduler/core/logger"
	"summit-scheduler/core/params"
	"summit-scheduler/modules/notification/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const notificationColumns = `id, user_id, title, message, type, data, is_read, created_at, updated_at`

type NotificationRepository struct {
	DB database.Database
	q  database.Querier
}

func NewNotificationRepository(db database.Database) *NotificationRepository {
	return &NotificationRepository{DB: db, q: db.SQLx()}
}

type NotificationRepositoryInterface interface {
	Create(ctx context.Context, notification *entity.Notification) error
	GetByUserID(ctx context.Context, userID uuid.UUID, params params.QueryParams) (*entity.PaginatedNotificationEntity, error)
	MarkAsRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error)
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
}

func (r *NotificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	query := `
		INSERT INTO notifications (user_id, title, message, type, data)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	row := r.q.QueryRowxContext(ctx, query,
		notification.UserID, notification.Title, notification.Message, notification.Type, notification.Data)
	if err := row.Scan(&notification.ID, &notification.CreatedAt, &notification.UpdatedAt); err != nil {
		logger.Error("NotificationRepository:Create", err)
		return err
	}
	return nil
}

func (r *NotificationRepository) GetByUserID(ctx context.Context, userID uuid.UUID, params params.QueryParams) (*entity.PaginatedNotificationEntity, error) {
	var totalItems int
	if err := sqlx.GetContext(ctx, r.q, &totalItems,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1`, userID); err != nil {
		logger.Error("NotificationRepository:GetByUserID:Count", err)
		return nil, err
	}

	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	notifications := []entity.Notification{}
	if err := sqlx.SelectContext(ctx, r.q, &notifications, query, userID, params.PageSize, params.Offset()); err != nil {
		logger.Error("NotificationRepository:GetByUserID:Select", err)
		return nil, err
	}

	return &entity.PaginatedNotificationEntity{
		Items:      notifications,
		TotalItems: totalItems,
		PageNumber: params.PageNumber,
		PageSize:   params.PageSize,
	}, nil
}

// MarkAsRead only touches rows owned by userID and returns how many changed.
func (r *NotificationRepository) MarkAsRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query, args, err := sqlx.In(`UPDATE notifications SET is_read = TRUE, updated_at = NOW()
		WHERE user_id = ? AND is_read = FALSE AND id IN (?)`, userID, ids)
	if err != nil {
		return 0, err
	}

	res, err := r.q.ExecContext(ctx, r.q.Rebind(query), args...)
	if err != nil {
		logger.Error("NotificationRepository:MarkAsRead", err)
		return 0, err
	}
	return res.RowsAffected()
}

func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	res, err := r.q.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE, updated_at = NOW() WHERE user_id = $1 AND is_read = FALSE`, userID)
	if err != nil {
		logger.Error("NotificationRepository:MarkAllAsRead", err)
		return 0, err
	}
	return res.RowsAffected()
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	if err := sqlx.GetContext(ctx, r.q, &count,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`, userID); err != nil {
		logger.Error("NotificationRepository:CountUnread", err)
		return 0, err
	}
	return count, nil
}
