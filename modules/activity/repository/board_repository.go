package repository

import (
	"context"
	"database/sql"
	"errors"

	"summit-scheduler/core/database"
	"summit-scheduler/core/logger"
	"summit-scheduler/modules/activity/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const (
	taskColumns     = `id, activity_id, title, description, participant_id, created_by, created_at`
	resourceColumns = `id, activity_id, name, object_key, content_type, size_bytes, uploaded_by, uploaded_at`
)

// BoardRepository stores the tasks and resources of activities.
type BoardRepository struct {
	DB database.Database
	q  database.Querier
}

func NewBoardRepository(db database.Database) *BoardRepository {
	return &BoardRepository{DB: db, q: db.SQLx()}
}

type BoardRepositoryInterface interface {
	CreateTask(ctx context.Context, task entity.Task) (*entity.Task, error)
	GetTasks(ctx context.Context, activityID uuid.UUID) ([]entity.Task, error)
	// DeleteTask reports false when the task does not belong to the activity.
	DeleteTask(ctx context.Context, activityID, taskID uuid.UUID) (bool, error)

	CreateResource(ctx context.Context, resource entity.Resource) (*entity.Resource, error)
	GetResource(ctx context.Context, activityID, resourceID uuid.UUID) (*entity.Resource, error)
	GetResources(ctx context.Context, activityID uuid.UUID) ([]entity.Resource, error)
	DeleteResource(ctx context.Context, activityID, resourceID uuid.UUID) (bool, error)
}

// ===================== Tasks =====================

func (r *BoardRepository) CreateTask(ctx context.Context, task entity.Task) (*entity.Task, error) {
	query := `
		INSERT INTO activity_tasks (activity_id, title, description, participant_id, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + taskColumns

	var created entity.Task
	if err := sqlx.GetContext(ctx, r.q, &created, query,
		task.ActivityID, task.Title, task.Description, task.ParticipantID, task.CreatedBy); err != nil {
		logger.Error("BoardRepository:CreateTask", err)
		return nil, err
	}
	return &created, nil
}

func (r *BoardRepository) GetTasks(ctx context.Context, activityID uuid.UUID) ([]entity.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM activity_tasks WHERE activity_id = $1 ORDER BY created_at, id`

	tasks := []entity.Task{}
	if err := sqlx.SelectContext(ctx, r.q, &tasks, query, activityID); err != nil {
		logger.Error("BoardRepository:GetTasks", err)
		return nil, err
	}
	return tasks, nil
}

func (r *BoardRepository) DeleteTask(ctx context.Context, activityID, taskID uuid.UUID) (bool, error) {
	return r.deleteOne(ctx, "DeleteTask",
		`DELETE FROM activity_tasks WHERE id = $1 AND activity_id = $2`, taskID, activityID)
}

// ===================== Resources =====================

func (r *BoardRepository) CreateResource(ctx context.Context, resource entity.Resource) (*entity.Resource, error) {
	query := `
		INSERT INTO activity_resources (activity_id, name, object_key, content_type, size_bytes, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + resourceColumns

	var created entity.Resource
	if err := sqlx.GetContext(ctx, r.q, &created, query,
		resource.ActivityID, resource.Name, resource.ObjectKey, resource.ContentType,
		resource.SizeBytes, resource.UploadedBy); err != nil {
		logger.Error("BoardRepository:CreateResource", err)
		return nil, err
	}
	return &created, nil
}

func (r *BoardRepository) GetResource(ctx context.Context, activityID, resourceID uuid.UUID) (*entity.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM activity_resources WHERE id = $1 AND activity_id = $2`

	var resource entity.Resource
	if err := sqlx.GetContext(ctx, r.q, &resource, query, resourceID, activityID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("BoardRepository:GetResource", err)
		return nil, err
	}
	return &resource, nil
}

func (r *BoardRepository) GetResources(ctx context.Context, activityID uuid.UUID) ([]entity.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM activity_resources WHERE activity_id = $1 ORDER BY uploaded_at, id`

	resources := []entity.Resource{}
	if err := sqlx.SelectContext(ctx, r.q, &resources, query, activityID); err != nil {
		logger.Error("BoardRepository:GetResources", err)
		return nil, err
	}
	return resources, nil
}

func (r *BoardRepository) DeleteResource(ctx context.Context, activityID, resourceID uuid.UUID) (bool, error) {
	return r.deleteOne(ctx, "DeleteResource",
		`DELETE FROM activity_resources WHERE id = $1 AND activity_id = $2`, resourceID, activityID)
}

func (r *BoardRepository) deleteOne(ctx context.Context, op, query string, args ...any) (bool, error) {
	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		logger.Error("BoardRepository:"+op, err)
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
