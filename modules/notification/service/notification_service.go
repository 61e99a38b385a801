package service

import (
	"context"
	"fmt"
	"strings"

	"summit-scheduler/core/errors"
	"summit-scheduler/core/jobs"
	"summit-scheduler/core/logger"
	"summit-scheduler/core/params"
	"summit-scheduler/modules/notification/dto"
	"summit-scheduler/modules/notification/entity"
	"summit-scheduler/modules/notification/repository"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type NotificationService struct {
	repo repository.NotificationRepositoryInterface
}

type NotificationServiceInterface interface {
	Create(ctx context.Context, req *dto.CreateNotificationRequest) (*entity.Notification, *errors.AppError)
	GetMyNotifications(ctx context.Context, userID uuid.UUID, queryParams params.QueryParams) (*dto.NotificationListResponse, *errors.AppError)
	MarkAsRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, *errors.AppError)
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, *errors.AppError)
	CountUnread(ctx context.Context, userID uuid.UUID) (int, *errors.AppError)
	HandleModerationNotice(ctx context.Context, task *asynq.Task) error
}

var _ NotificationServiceInterface = (*NotificationService)(nil)

func NewNotificationService(repo repository.NotificationRepositoryInterface) *NotificationService {
	return &NotificationService{repo: repo}
}

func (s *NotificationService) Create(ctx context.Context, req *dto.CreateNotificationRequest) (*entity.Notification, *errors.AppError) {
	if req.UserID == uuid.Nil || strings.TrimSpace(req.Title) == "" {
		return nil, errors.NewValidationError("Notification needs a recipient and a title")
	}

	notif := &entity.Notification{
		UserID:  req.UserID,
		Title:   req.Title,
		Message: req.Message,
		Type:    req.Type,
		Data:    entity.JSONB(req.Data),
	}
	if err := s.repo.Create(ctx, notif); err != nil {
		return nil, errors.NewPersistenceError("Failed to create notification", err)
	}
	return notif, nil
}

func (s *NotificationService) GetMyNotifications(ctx context.Context, userID uuid.UUID, queryParams params.QueryParams) (*dto.NotificationListResponse, *errors.AppError) {
	page, err := s.repo.GetByUserID(ctx, userID, queryParams)
	if err != nil {
		return nil, errors.NewPersistenceError("Failed to get notifications", err)
	}
	return dto.ToNotificationListResponse(page), nil
}

func (s *NotificationService) MarkAsRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, *errors.AppError) {
	if len(ids) == 0 {
		return 0, errors.NewValidationError("At least one notification id is required")
	}
	updated, err := s.repo.MarkAsRead(ctx, userID, ids)
	if err != nil {
		return 0, errors.NewPersistenceError("Failed to mark as read", err)
	}
	return updated, nil
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, *errors.AppError) {
	updated, err := s.repo.MarkAllAsRead(ctx, userID)
	if err != nil {
		return 0, errors.NewPersistenceError("Failed to mark all as read", err)
	}
	return updated, nil
}

func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int, *errors.AppError) {
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, errors.NewPersistenceError("Failed to count unread", err)
	}
	return count, nil
}

// HandleModerationNotice is the worker handler for jobs.TypeModerationNotice.
// Malformed payloads are not retried.
func (s *NotificationService) HandleModerationNotice(ctx context.Context, task *asynq.Task) error {
	notice, err := jobs.ParseModerationNotice(task)
	if err != nil {
		logger.Error("NotificationService:HandleModerationNotice:Parse", err)
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	_, appErr := s.Create(ctx, &dto.CreateNotificationRequest{
		UserID:  notice.RecipientID,
		Title:   notice.Title,
		Message: notice.Message,
		Type:    entity.TypeModeration,
		Data: map[string]any{
			"request_id":  notice.RequestID.String(),
			"activity_id": notice.ActivityID.String(),
			"status":      notice.Status,
		},
	})
	if appErr != nil {
		if appErr.Code == errors.ErrValidation {
			logger.Warn("NotificationService:HandleModerationNotice:Invalid", "request_id", notice.RequestID, "error", appErr)
			return fmt.Errorf("%w: %v", asynq.SkipRetry, appErr)
		}
		return appErr
	}

	logger.Info("NotificationService:HandleModerationNotice", "recipient_id", notice.RecipientID, "request_id", notice.RequestID)
	return nil
}
