package dto

import (
	"time"

	"summit-scheduler/modules/moderation/entity"

	"github.com/google/uuid"
)

// ===================== Request DTOs =====================

type ClaimRequest struct {
	ActivityID uuid.UUID `json:"activity_id"`
}

// ResolveConflictRequest cancels one conflicting request in favour of a new
// claim on ActivityID.
type ResolveConflictRequest struct {
	ActivityID      uuid.UUID `json:"activity_id"`
	CancelRequestID uuid.UUID `json:"cancel_request_id"`
}

// DecisionRequest carries an organizer decision. Message is the decline
// reason when Outcome is "declined" and is then required.
type DecisionRequest struct {
	Outcome string `json:"outcome"`
	Message string `json:"message"`
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

// ===================== Response DTOs =====================

type ModerationRequestResponse struct {
	ID                 uuid.UUID  `json:"id"`
	ActivityID         uuid.UUID  `json:"activity_id"`
	ModeratorID        uuid.UUID  `json:"moderator_id"`
	Status             string     `json:"status"`
	ConflictActivityID *uuid.UUID `json:"conflict_activity_id,omitempty"`
	ResponseMessage    *string    `json:"response_message,omitempty"`
	DeclineReason      *string    `json:"decline_reason,omitempty"`
	ActivityTitle      string     `json:"activity_title"`
	ActivityStart      time.Time  `json:"activity_start"`
	ActivityEnd        time.Time  `json:"activity_end"`
	EventID            uuid.UUID  `json:"event_id"`
	EventTitle         string     `json:"event_title"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// DecisionResponse reports Changed=false with a Notice when the request
// already held the requested status.
type DecisionResponse struct {
	Request ModerationRequestResponse `json:"request"`
	Changed bool                      `json:"changed"`
	Notice  string                    `json:"notice,omitempty"`
}

type EventPendingResponse struct {
	EventID      uuid.UUID `json:"event_id"`
	EventTitle   string    `json:"event_title"`
	StartTime    time.Time `json:"start_time"`
	PendingCount int       `json:"pending_count"`
}

func ToModerationRequestResponse(r entity.ModerationRequest) ModerationRequestResponse {
	return ModerationRequestResponse{
		ID:                 r.ID,
		ActivityID:         r.ActivityID,
		ModeratorID:        r.ModeratorID,
		Status:             string(r.Status),
		ConflictActivityID: r.ConflictActivityID,
		ResponseMessage:    r.ResponseMessage,
		DeclineReason:      r.DeclineReason,
		ActivityTitle:      r.ActivityTitle,
		ActivityStart:      r.ActivityStart,
		ActivityEnd:        r.ActivityEnd,
		EventID:            r.EventID,
		EventTitle:         r.EventTitle,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

func ToModerationRequestResponses(requests []entity.ModerationRequest) []ModerationRequestResponse {
	out := make([]ModerationRequestResponse, 0, len(requests))
	for _, r := range requests {
		out = append(out, ToModerationRequestResponse(r))
	}
	return out
}

func ToEventPendingResponses(summaries []entity.EventPendingSummary) []EventPendingResponse {
	out := make([]EventPendingResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, EventPendingResponse{
			EventID:      s.EventID,
			EventTitle:   s.EventTitle,
			StartTime:    s.StartTime,
			PendingCount: s.PendingCount,
		})
	}
	return out
}
