package entity

import (
	"time"

	"github.com/google/uuid"
)

type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusApproved  RequestStatus = "approved"
	StatusDeclined  RequestStatus = "declined"
	StatusCancelled RequestStatus = "cancelled"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusDeclined, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no transition may leave s.
func (s RequestStatus) IsTerminal() bool {
	return s == StatusDeclined || s == StatusCancelled
}

// IsActive reports whether a request in s still holds the moderator's time.
func (s RequestStatus) IsActive() bool {
	return s == StatusPending || s == StatusApproved
}

// CanTransitionTo follows pending -> {approved, declined, cancelled} and
// approved -> {declined, cancelled}.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusApproved || next == StatusDeclined || next == StatusCancelled
	case StatusApproved:
		return next == StatusDeclined || next == StatusCancelled
	}
	return false
}

// ModerationRequest is a moderator's claim on one activity. The activity and
// event fields are read from joins and are never written back.
type ModerationRequest struct {
	ID                 uuid.UUID     `db:"id" json:"id"`
	ActivityID         uuid.UUID     `db:"activity_id" json:"activity_id"`
	ModeratorID        uuid.UUID     `db:"moderator_id" json:"moderator_id"`
	Status             RequestStatus `db:"status" json:"status"`
	ConflictActivityID *uuid.UUID    `db:"conflict_activity_id" json:"conflict_activity_id"`
	ResponseMessage    *string       `db:"response_message" json:"response_message"`
	DeclineReason      *string       `db:"decline_reason" json:"decline_reason"`
	CreatedAt          time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time     `db:"updated_at" json:"updated_at"`

	ActivityTitle string    `db:"activity_title" json:"activity_title"`
	ActivityStart time.Time `db:"activity_start" json:"activity_start"`
	ActivityEnd   time.Time `db:"activity_end" json:"activity_end"`
	EventID       uuid.UUID `db:"event_id" json:"event_id"`
	EventTitle    string    `db:"event_title" json:"event_title"`
	OrganizerID   uuid.UUID `db:"organizer_id" json:"organizer_id"`
}

// ActivityWindow is the slice of an activity the workflow needs.
type ActivityWindow struct {
	ID          uuid.UUID `db:"id"`
	Title       string    `db:"title"`
	StartTime   time.Time `db:"start_time"`
	EndTime     time.Time `db:"end_time"`
	EventID     uuid.UUID `db:"event_id"`
	EventTitle  string    `db:"event_title"`
	OrganizerID uuid.UUID `db:"organizer_id"`
}

// EventPendingSummary counts pending requests for one organizer event.
type EventPendingSummary struct {
	EventID      uuid.UUID `db:"event_id" json:"event_id"`
	EventTitle   string    `db:"event_title" json:"event_title"`
	StartTime    time.Time `db:"start_time" json:"start_time"`
	PendingCount int       `db:"pending_count" json:"pending_count"`
}
