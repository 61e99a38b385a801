package entity

import (
	"time"

	"github.com/google/uuid"
)

type ActivityStatus string

const (
	ActivityStatusUpcoming   ActivityStatus = "upcoming"
	ActivityStatusInProgress ActivityStatus = "in_progress"
	ActivityStatusFinished   ActivityStatus = "finished"
)

type Activity struct {
	ID          uuid.UUID `db:"id" json:"id"`
	EventID     uuid.UUID `db:"event_id" json:"event_id"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description,omitempty"`
	StartTime   time.Time `db:"start_time" json:"start_time"`
	EndTime     time.Time `db:"end_time" json:"end_time"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

func (a Activity) StatusAt(now time.Time) ActivityStatus {
	switch {
	case !now.Before(a.EndTime):
		return ActivityStatusFinished
	case !now.Before(a.StartTime):
		return ActivityStatusInProgress
	default:
		return ActivityStatusUpcoming
	}
}

type ActivityJury struct {
	ActivityID uuid.UUID `db:"activity_id" json:"activity_id"`
	JuryID     uuid.UUID `db:"jury_id" json:"jury_id"`
}

type ActivityWithJury struct {
	Activity
	JuryIDs []uuid.UUID
}
