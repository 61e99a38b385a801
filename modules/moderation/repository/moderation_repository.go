package repository

import (
	"context"
	"database/sql"
	"errors"

	"summit-scheduler/core/database"
	"summit-scheduler/core/logger"
	"summit-scheduler/modules/moderation/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const (
	requestColumns = `mr.id, mr.activity_id, mr.moderator_id, mr.status, mr.conflict_activity_id,
		mr.response_message, mr.decline_reason, mr.created_at, mr.updated_at,
		a.title AS activity_title, a.start_time AS activity_start, a.end_time AS activity_end,
		e.id AS event_id, e.title AS event_title, e.organizer_id`
	requestJoins = `
		JOIN activities a ON a.id = mr.activity_id
		JOIN events e ON e.id = a.event_id`
	activeStatuses = `('pending', 'approved')`
)

// StatusUpdate carries a transition. Nil message fields keep the stored value.
type StatusUpdate struct {
	Status          entity.RequestStatus
	ResponseMessage *string
	DeclineReason   *string
}

type ModerationRepository struct {
	DB database.Database
	q  database.Querier
}

func NewModerationRepository(db database.Database) *ModerationRepository {
	return &ModerationRepository{DB: db, q: db.SQLx()}
}

type ModerationRepositoryInterface interface {
	Create(ctx context.Context, req entity.ModerationRequest) (*entity.ModerationRequest, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.ModerationRequest, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, update StatusUpdate) error

	FindActiveByActivityAndModerator(ctx context.Context, activityID, moderatorID uuid.UUID) (*entity.ModerationRequest, error)
	FindActiveByModerator(ctx context.Context, moderatorID uuid.UUID) ([]entity.ModerationRequest, error)
	FindByModerator(ctx context.Context, moderatorID uuid.UUID) ([]entity.ModerationRequest, error)
	FindApprovedByModerator(ctx context.Context, moderatorID uuid.UUID) ([]entity.ModerationRequest, error)
	FindByEvent(ctx context.Context, organizerID, eventID uuid.UUID) ([]entity.ModerationRequest, error)
	FindPendingByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]entity.ModerationRequest, error)
	FindEventsWithPending(ctx context.Context, organizerID uuid.UUID) ([]entity.EventPendingSummary, error)

	GetActivity(ctx context.Context, activityID uuid.UUID) (*entity.ActivityWindow, error)

	// WithModeratorLock runs fn in a transaction holding an advisory lock
	// scoped to the moderator, so claims by one moderator are serialized.
	WithModeratorLock(ctx context.Context, moderatorID uuid.UUID, fn func(repo ModerationRepositoryInterface) error) error
}

// Create inserts the request and returns it with its joined activity fields.
func (r *ModerationRepository) Create(ctx context.Context, req entity.ModerationRequest) (*entity.ModerationRequest, error) {
	query := `
		WITH mr AS (
			INSERT INTO moderation_requests (activity_id, moderator_id, status, conflict_activity_id, response_message)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING *
		)
		SELECT ` + requestColumns + `
		FROM mr` + requestJoins

	var created entity.ModerationRequest
	err := sqlx.GetContext(ctx, r.q, &created, query,
		req.ActivityID, req.ModeratorID, req.Status, req.ConflictActivityID, req.ResponseMessage)
	if err != nil {
		logger.Error("ModerationRepository:Create", err)
		return nil, err
	}
	return &created, nil
}

func (r *ModerationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.ModerationRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM moderation_requests mr` + requestJoins + ` WHERE mr.id = $1`

	var req entity.ModerationRequest
	if err := sqlx.GetContext(ctx, r.q, &req, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("ModerationRepository:GetByID", err)
		return nil, err
	}
	return &req, nil
}

func (r *ModerationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, update StatusUpdate) error {
	query := `
		UPDATE moderation_requests
		SET status = $2,
			response_message = COALESCE($3, response_message),
			decline_reason = COALESCE($4, decline_reason),
			updated_at = NOW()
		WHERE id = $1
	`
	if _, err := r.q.ExecContext(ctx, query, id, update.Status, update.ResponseMessage, update.DeclineReason); err != nil {
		logger.Error("ModerationRepository:UpdateStatus", err)
		return err
	}
	return nil
}

// ===================== Moderator queries =====================

func (r *ModerationRepository) FindActiveByActivityAndModerator(ctx context.Context, activityID, moderatorID uuid.UUID) (*entity.ModerationRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM moderation_requests mr` + requestJoins + `
		WHERE mr.activity_id = $1 AND mr.moderator_id = $2 AND mr.status IN ` + activeStatuses + `
		ORDER BY mr.created_at DESC
		LIMIT 1
	`

	var req entity.ModerationRequest
	if err := sqlx.GetContext(ctx, r.q, &req, query, activityID, moderatorID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("ModerationRepository:FindActiveByActivityAndModerator", err)
		return nil, err
	}
	return &req, nil
}

func (r *ModerationRepository) FindActiveByModerator(ctx context.Context, moderatorID uuid.UUID) ([]entity.ModerationRequest, error) {
	return r.selectRequests(ctx, "FindActiveByModerator",
		`WHERE mr.moderator_id = $1 AND mr.status IN `+activeStatuses+` ORDER BY a.start_time, mr.id`, moderatorID)
}

func (r *ModerationRepository) FindByModerator(ctx context.Context, moderatorID uuid.UUID) ([]entity.ModerationRequest, error) {
	return r.selectRequests(ctx, "FindByModerator",
		`WHERE mr.moderator_id = $1 ORDER BY mr.created_at DESC`, moderatorID)
}

func (r *ModerationRepository) FindApprovedByModerator(ctx context.Context, moderatorID uuid.UUID) ([]entity.ModerationRequest, error) {
	return r.selectRequests(ctx, "FindApprovedByModerator",
		`WHERE mr.moderator_id = $1 AND mr.status = 'approved' ORDER BY a.start_time, mr.id`, moderatorID)
}

// ===================== Organizer queries =====================

func (r *ModerationRepository) FindByEvent(ctx context.Context, organizerID, eventID uuid.UUID) ([]entity.ModerationRequest, error) {
	return r.selectRequests(ctx, "FindByEvent",
		`WHERE e.id = $1 AND e.organizer_id = $2 ORDER BY a.start_time, mr.created_at`, eventID, organizerID)
}

func (r *ModerationRepository) FindPendingByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]entity.ModerationRequest, error) {
	return r.selectRequests(ctx, "FindPendingByOrganizer",
		`WHERE e.organizer_id = $1 AND mr.status = 'pending' ORDER BY mr.created_at`, organizerID)
}

func (r *ModerationRepository) FindEventsWithPending(ctx context.Context, organizerID uuid.UUID) ([]entity.EventPendingSummary, error) {
	query := `
		SELECT e.id AS event_id, e.title AS event_title, e.start_time, COUNT(mr.id) AS pending_count
		FROM events e
		JOIN activities a ON a.event_id = e.id
		JOIN moderation_requests mr ON mr.activity_id = a.id AND mr.status = 'pending'
		WHERE e.organizer_id = $1
		GROUP BY e.id, e.title, e.start_time
		ORDER BY e.start_time
	`

	summaries := []entity.EventPendingSummary{}
	if err := sqlx.SelectContext(ctx, r.q, &summaries, query, organizerID); err != nil {
		logger.Error("ModerationRepository:FindEventsWithPending", err)
		return nil, err
	}
	return summaries, nil
}

func (r *ModerationRepository) GetActivity(ctx context.Context, activityID uuid.UUID) (*entity.ActivityWindow, error) {
	query := `
		SELECT a.id, a.title, a.start_time, a.end_time, e.id AS event_id, e.title AS event_title, e.organizer_id
		FROM activities a
		JOIN events e ON e.id = a.event_id
		WHERE a.id = $1
	`

	var activity entity.ActivityWindow
	if err := sqlx.GetContext(ctx, r.q, &activity, query, activityID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("ModerationRepository:GetActivity", err)
		return nil, err
	}
	return &activity, nil
}

func (r *ModerationRepository) WithModeratorLock(ctx context.Context, moderatorID uuid.UUID, fn func(repo ModerationRepositoryInterface) error) error {
	return r.DB.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, moderatorID.String()); err != nil {
			logger.Error("ModerationRepository:WithModeratorLock", err)
			return err
		}
		return fn(&ModerationRepository{DB: r.DB, q: tx})
	})
}

func (r *ModerationRepository) selectRequests(ctx context.Context, op string, where string, args ...any) ([]entity.ModerationRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM moderation_requests mr` + requestJoins + ` ` + where

	requests := []entity.ModerationRequest{}
	if err := sqlx.SelectContext(ctx, r.q, &requests, query, args...); err != nil {
		logger.Error("ModerationRepository:"+op, err)
		return nil, err
	}
	return requests, nil
}
