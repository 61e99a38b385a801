package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"summit-scheduler/core/entity"

	"github.com/google/uuid"
)

const TypeModeration = "moderation"

type Notification struct {
	UserID  uuid.UUID `db:"user_id" json:"user_id"`
	Title   string    `db:"title" json:"title"`
	Message string    `db:"message" json:"message"`
	Type    string    `db:"type" json:"type"`
	Data    JSONB     `db:"data" json:"data"`
	IsRead  bool      `db:"is_read" json:"is_read"`
	entity.BaseEntity
}

type JSONB map[string]any

func (a JSONB) Value() (driver.Value, error) {
	if a == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(a)
}

func (a *JSONB) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*a = JSONB{}
		return nil
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return fmt.Errorf("jsonb: unsupported type %T", value)
	}
}

type PaginatedNotificationEntity = entity.Pagination[Notification]
