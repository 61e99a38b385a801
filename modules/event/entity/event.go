package entity

import (
	"time"

	"github.com/google/uuid"
)

type Event struct {
	ID          uuid.UUID `db:"id" json:"id"`
	OrganizerID uuid.UUID `db:"organizer_id" json:"organizer_id"`
	Title       string    `db:"title" json:"title"`
	Slug        string    `db:"slug" json:"slug"`
	Description *string   `db:"description" json:"description,omitempty"`
	Direction   string    `db:"direction" json:"direction"`
	City        string    `db:"city" json:"city"`
	LogoKey     *string   `db:"logo_key" json:"logo_key,omitempty"`
	StartTime   time.Time `db:"start_time" json:"start_time"`
	EndTime     time.Time `db:"end_time" json:"end_time"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

func (e Event) Duration() time.Duration {
	return e.EndTime.Sub(e.StartTime)
}

// EventDetails is an event together with its full activity schedule.
type EventDetails struct {
	Event      Event
	Activities []ActivityWithJury
}
