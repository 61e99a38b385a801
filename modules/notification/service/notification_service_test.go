package service

import (
	"context"
	stderrors "errors"
	"testing"

	"summit-scheduler/core/errors"
	"summit-scheduler/core/jobs"
	"summit-scheduler/core/params"
	"summit-scheduler/modules/notification/dto"
	"summit-scheduler/modules/notification/entity"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	created   []*entity.Notification
	createErr error
	marked    []uuid.UUID
}

func (r *stubRepo) Create(ctx context.Context, n *entity.Notification) error {
	if r.createErr != nil {
		return r.createErr
	}
	n.ID = uuid.New()
	r.created = append(r.created, n)
	return nil
}

func (r *stubRepo) GetByUserID(ctx context.Context, userID uuid.UUID, p params.QueryParams) (*entity.PaginatedNotificationEntity, error) {
	items := []entity.Notification{}
	for _, n := range r.created {
		if n.UserID == userID {
			items = append(items, *n)
		}
	}
	return &entity.PaginatedNotificationEntity{Items: items, TotalItems: len(items), PageNumber: p.PageNumber, PageSize: p.PageSize}, nil
}

func (r *stubRepo) MarkAsRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	r.marked = append(r.marked, ids...)
	return int64(len(ids)), nil
}

func (r *stubRepo) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return int64(len(r.created)), nil
}

func (r *stubRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return len(r.created), nil
}

func noticeTask(t *testing.T, notice jobs.ModerationNotice) *asynq.Task {
	t.Helper()
	task, err := jobs.NewModerationNoticeTask(notice)
	require.NoError(t, err)
	return task
}

func TestHandleModerationNoticePersistsNotification(t *testing.T) {
	repo := &stubRepo{}
	svc := NewNotificationService(repo)
	notice := jobs.ModerationNotice{
		RecipientID: uuid.New(),
		RequestID:   uuid.New(),
		ActivityID:  uuid.New(),
		Status:      "approved",
		Title:       "Moderation request approved",
		Message:     "You will moderate \"Keynote\" at Go Summit",
	}

	require.NoError(t, svc.HandleModerationNotice(context.Background(), noticeTask(t, notice)))

	require.Len(t, repo.created, 1)
	n := repo.created[0]
	assert.Equal(t, notice.RecipientID, n.UserID)
	assert.Equal(t, notice.Title, n.Title)
	assert.Equal(t, entity.TypeModeration, n.Type)
	assert.Equal(t, notice.RequestID.String(), n.Data["request_id"])
	assert.Equal(t, "approved", n.Data["status"])
}

func TestHandleModerationNoticeSkipsRetryOnBadPayload(t *testing.T) {
	svc := NewNotificationService(&stubRepo{})

	err := svc.HandleModerationNotice(context.Background(), asynq.NewTask(jobs.TypeModerationNotice, []byte("{")))

	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleModerationNoticeRetriesOnPersistenceError(t *testing.T) {
	svc := NewNotificationService(&stubRepo{createErr: stderrors.New("db down")})
	notice := jobs.ModerationNotice{RecipientID: uuid.New(), Title: "x"}

	err := svc.HandleModerationNotice(context.Background(), noticeTask(t, notice))

	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
	assert.True(t, errors.Is(err, errors.ErrPersistence))
}

func TestMarkAsReadRequiresIDs(t *testing.T) {
	svc := NewNotificationService(&stubRepo{})

	_, appErr := svc.MarkAsRead(context.Background(), uuid.New(), nil)

	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrValidation, appErr.Code)
}

func TestGetMyNotificationsMapsPage(t *testing.T) {
	repo := &stubRepo{}
	svc := NewNotificationService(repo)
	userID := uuid.New()
	for i := 0; i < 3; i++ {
		_, appErr := svc.Create(context.Background(), &dto.CreateNotificationRequest{
			UserID: userID,
			Title:  "Moderation request approved",
			Type:   entity.TypeModeration,
		})
		require.Nil(t, appErr)
	}

	page, appErr := svc.GetMyNotifications(context.Background(), userID, params.QueryParams{PageNumber: 1, PageSize: 2})

	require.Nil(t, appErr)
	assert.Len(t, page.Items, 3)
	assert.Equal(t, 2, page.TotalPages)
}
