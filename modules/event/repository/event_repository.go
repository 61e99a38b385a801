package repository

import (
	"context"
	"database/sql"
	"errors"

	"summit-scheduler/core/database"
	"summit-scheduler/core/logger"
	"summit-scheduler/modules/event/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const (
	eventColumns = `id, organizer_id, title, slug, description, direction, city, logo_key,
		start_time, end_time, created_at, updated_at`
	activityColumns = `id, event_id, title, description, start_time, end_time, created_at`
)

// EventRepository handles events, their activities and jury assignments.
type EventRepository struct {
	DB database.Database
	q  database.Querier
}

func NewEventRepository(db database.Database) *EventRepository {
	return &EventRepository{DB: db, q: db.SQLx()}
}

type EventRepositoryInterface interface {
	CreateEvent(ctx context.Context, event entity.Event, activities []entity.ActivityWithJury) (*entity.EventDetails, error)
	GetEventByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	GetEventsByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]entity.Event, error)
	UpdateLogo(ctx context.Context, eventID uuid.UUID, logoKey string) error

	// Activities are always returned ordered by start time.
	GetActivitiesByEvent(ctx context.Context, eventID uuid.UUID) ([]entity.Activity, error)
	GetJuryByEvent(ctx context.Context, eventID uuid.UUID) ([]entity.ActivityJury, error)
	AddActivity(ctx context.Context, activity entity.ActivityWithJury) (*entity.ActivityWithJury, error)

	// WithEventLock runs fn in a transaction holding a row lock on the event.
	WithEventLock(ctx context.Context, eventID uuid.UUID, fn func(repo EventRepositoryInterface) error) error
}

// ===================== Events =====================

// CreateEvent stores the event, its activities and their jury in one
// transaction and returns the stored graph.
func (r *EventRepository) CreateEvent(ctx context.Context, event entity.Event, activities []entity.ActivityWithJury) (*entity.EventDetails, error) {
	var details *entity.EventDetails
	err := r.DB.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO events (organizer_id, title, slug, description, direction, city, start_time, end_time)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING ` + eventColumns

		var created entity.Event
		if err := sqlx.GetContext(ctx, tx, &created, query,
			event.OrganizerID, event.Title, event.Slug, event.Description,
			event.Direction, event.City, event.StartTime, event.EndTime); err != nil {
			return err
		}

		stored := make([]entity.ActivityWithJury, 0, len(activities))
		for _, a := range activities {
			a.EventID = created.ID
			saved, err := insertActivity(ctx, tx, a)
			if err != nil {
				return err
			}
			stored = append(stored, *saved)
		}

		details = &entity.EventDetails{Event: created, Activities: stored}
		return nil
	})
	if err != nil {
		logger.Error("EventRepository:CreateEvent", err)
		return nil, err
	}
	return details, nil
}

func (r *EventRepository) GetEventByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	var event entity.Event
	err := sqlx.GetContext(ctx, r.q, &event, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("EventRepository:GetEventByID", err)
		return nil, err
	}
	return &event, nil
}

func (r *EventRepository) GetEventsByOrganizer(ctx context.Context, organizerID uuid.UUID) ([]entity.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE organizer_id = $1
		ORDER BY start_time DESC
	`

	events := []entity.Event{}
	if err := sqlx.SelectContext(ctx, r.q, &events, query, organizerID); err != nil {
		logger.Error("EventRepository:GetEventsByOrganizer", err)
		return nil, err
	}
	return events, nil
}

func (r *EventRepository) UpdateLogo(ctx context.Context, eventID uuid.UUID, logoKey string) error {
	query := `UPDATE events SET logo_key = $2, updated_at = NOW() WHERE id = $1`
	if _, err := r.q.ExecContext(ctx, query, eventID, logoKey); err != nil {
		logger.Error("EventRepository:UpdateLogo", err)
		return err
	}
	return nil
}

// ===================== Activities =====================

func (r *EventRepository) GetActivitiesByEvent(ctx context.Context, eventID uuid.UUID) ([]entity.Activity, error) {
	query := `
		SELECT ` + activityColumns + `
		FROM activities
		WHERE event_id = $1
		ORDER BY start_time, id
	`

	activities := []entity.Activity{}
	if err := sqlx.SelectContext(ctx, r.q, &activities, query, eventID); err != nil {
		logger.Error("EventRepository:GetActivitiesByEvent", err)
		return nil, err
	}
	return activities, nil
}

func (r *EventRepository) GetJuryByEvent(ctx context.Context, eventID uuid.UUID) ([]entity.ActivityJury, error) {
	query := `
		SELECT aj.activity_id, aj.jury_id
		FROM activity_jury aj
		JOIN activities a ON a.id = aj.activity_id
		WHERE a.event_id = $1
		ORDER BY aj.activity_id, aj.jury_id
	`

	jury := []entity.ActivityJury{}
	if err := sqlx.SelectContext(ctx, r.q, &jury, query, eventID); err != nil {
		logger.Error("EventRepository:GetJuryByEvent", err)
		return nil, err
	}
	return jury, nil
}

func (r *EventRepository) AddActivity(ctx context.Context, activity entity.ActivityWithJury) (*entity.ActivityWithJury, error) {
	saved, err := insertActivity(ctx, r.q, activity)
	if err != nil {
		logger.Error("EventRepository:AddActivity", err)
		return nil, err
	}
	return saved, nil
}

func (r *EventRepository) WithEventLock(ctx context.Context, eventID uuid.UUID, fn func(repo EventRepositoryInterface) error) error {
	return r.DB.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `SELECT id FROM events WHERE id = $1 FOR UPDATE`, eventID); err != nil {
			logger.Error("EventRepository:WithEventLock", err)
			return err
		}
		return fn(&EventRepository{DB: r.DB, q: tx})
	})
}

func insertActivity(ctx context.Context, q database.Querier, activity entity.ActivityWithJury) (*entity.ActivityWithJury, error) {
	query := `
		INSERT INTO activities (event_id, title, description, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + activityColumns

	var created entity.Activity
	if err := sqlx.GetContext(ctx, q, &created, query,
		activity.EventID, activity.Title, activity.Description, activity.StartTime, activity.EndTime); err != nil {
		return nil, err
	}

	jury := make([]uuid.UUID, 0, len(activity.JuryIDs))
	for _, juryID := range activity.JuryIDs {
		if _, err := q.ExecContext(ctx,
			`INSERT INTO activity_jury (activity_id, jury_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			created.ID, juryID); err != nil {
			return nil, err
		}
		jury = append(jury, juryID)
	}

	return &entity.ActivityWithJury{Activity: created, JuryIDs: jury}, nil
}
