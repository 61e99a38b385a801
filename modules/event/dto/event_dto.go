package dto

import (
	"time"

	"summit-scheduler/modules/event/entity"

	"github.com/google/uuid"
)

// ===================== Request DTOs =====================

type ActivityWindow struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// PreviewSlotsRequest asks for free slots of a draft event that is not yet
// stored. Activities are the slots the caller has already picked.
type PreviewSlotsRequest struct {
	StartTime  time.Time        `json:"start_time"`
	EndTime    time.Time        `json:"end_time"`
	Activities []ActivityWindow `json:"activities"`
}

type ActivityInput struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	StartTime   time.Time   `json:"start_time"`
	EndTime     time.Time   `json:"end_time"`
	JuryIDs     []uuid.UUID `json:"jury_ids"`
}

type CreateEventRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Direction   string          `json:"direction"`
	City        string          `json:"city"`
	StartTime   time.Time       `json:"start_time"`
	EndTime     time.Time       `json:"end_time"`
	Activities  []ActivityInput `json:"activities"`
}

// ===================== Response DTOs =====================

type SlotResponse struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

type SlotsResponse struct {
	EventID                 *uuid.UUID     `json:"event_id,omitempty"`
	ActivityDurationMinutes int            `json:"activity_duration_minutes"`
	BreakMinutes            int            `json:"break_minutes"`
	Slots                   []SlotResponse `json:"slots"`
}

type ActivityResponse struct {
	ID          uuid.UUID   `json:"id"`
	EventID     uuid.UUID   `json:"event_id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	StartTime   time.Time   `json:"start_time"`
	EndTime     time.Time   `json:"end_time"`
	Status      string      `json:"status"`
	JuryIDs     []uuid.UUID `json:"jury_ids"`
}

type EventResponse struct {
	ID          uuid.UUID          `json:"id"`
	OrganizerID uuid.UUID          `json:"organizer_id"`
	Title       string             `json:"title"`
	Slug        string             `json:"slug"`
	Description string             `json:"description,omitempty"`
	Direction   string             `json:"direction"`
	City        string             `json:"city"`
	LogoURL     string             `json:"logo_url,omitempty"`
	StartTime   time.Time          `json:"start_time"`
	EndTime     time.Time          `json:"end_time"`
	Activities  []ActivityResponse `json:"activities,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

// ===================== Mappers =====================

func ToActivityResponse(a entity.ActivityWithJury, now time.Time) ActivityResponse {
	jury := a.JuryIDs
	if jury == nil {
		jury = []uuid.UUID{}
	}
	return ActivityResponse{
		ID:          a.ID,
		EventID:     a.EventID,
		Title:       a.Title,
		Description: deref(a.Description),
		StartTime:   a.StartTime,
		EndTime:     a.EndTime,
		Status:      string(a.StatusAt(now)),
		JuryIDs:     jury,
	}
}

// ToEventResponse builds the response once every child record is loaded.
func ToEventResponse(e *entity.Event, activities []entity.ActivityWithJury, logoURL string, now time.Time) *EventResponse {
	resp := &EventResponse{
		ID:          e.ID,
		OrganizerID: e.OrganizerID,
		Title:       e.Title,
		Slug:        e.Slug,
		Description: deref(e.Description),
		Direction:   e.Direction,
		City:        e.City,
		LogoURL:     logoURL,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		CreatedAt:   e.CreatedAt,
	}
	if len(activities) > 0 {
		resp.Activities = make([]ActivityResponse, 0, len(activities))
		for _, a := range activities {
			resp.Activities = append(resp.Activities, ToActivityResponse(a, now))
		}
	}
	return resp
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
