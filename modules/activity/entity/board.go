package entity

import (
	"time"

	"github.com/google/uuid"
)

// Task is a work item attached to one activity, optionally assigned to a
// participant.
type Task struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	ActivityID    uuid.UUID  `db:"activity_id" json:"activity_id"`
	Title         string     `db:"title" json:"title"`
	Description   *string    `db:"description" json:"description,omitempty"`
	ParticipantID *uuid.UUID `db:"participant_id" json:"participant_id,omitempty"`
	CreatedBy     uuid.UUID  `db:"created_by" json:"created_by"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}

// Resource is a file shared for an activity. The bytes live in object
// storage under ObjectKey.
type Resource struct {
	ID          uuid.UUID `db:"id" json:"id"`
	ActivityID  uuid.UUID `db:"activity_id" json:"activity_id"`
	Name        string    `db:"name" json:"name"`
	ObjectKey   string    `db:"object_key" json:"object_key"`
	ContentType string    `db:"content_type" json:"content_type"`
	SizeBytes   int64     `db:"size_bytes" json:"size_bytes"`
	UploadedBy  uuid.UUID `db:"uploaded_by" json:"uploaded_by"`
	UploadedAt  time.Time `db:"uploaded_at" json:"uploaded_at"`
}
