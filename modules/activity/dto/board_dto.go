package dto

import (
	"io"
	"time"

	"summit-scheduler/modules/activity/entity"

	"github.com/google/uuid"
)

// ===================== Request DTOs =====================

type CreateTaskRequest struct {
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	ParticipantID *uuid.UUID `json:"participant_id"`
}

// ResourceUpload carries one uploaded file. Name falls back to FileName.
type ResourceUpload struct {
	Name        string
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ===================== Response DTOs =====================

type TaskResponse struct {
	ID            uuid.UUID  `json:"id"`
	ActivityID    uuid.UUID  `json:"activity_id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	ParticipantID *uuid.UUID `json:"participant_id,omitempty"`
	CreatedBy     uuid.UUID  `json:"created_by"`
	CreatedAt     time.Time  `json:"created_at"`
}

type ResourceResponse struct {
	ID          uuid.UUID `json:"id"`
	ActivityID  uuid.UUID `json:"activity_id"`
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	UploadedBy  uuid.UUID `json:"uploaded_by"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// BoardResponse is everything attached to one activity.
type BoardResponse struct {
	ActivityID    uuid.UUID          `json:"activity_id"`
	ActivityTitle string             `json:"activity_title"`
	EventID       uuid.UUID          `json:"event_id"`
	Tasks         []TaskResponse     `json:"tasks"`
	Resources     []ResourceResponse `json:"resources"`
}

// ===================== Mappers =====================

func ToTaskResponse(t entity.Task) TaskResponse {
	resp := TaskResponse{
		ID:            t.ID,
		ActivityID:    t.ActivityID,
		Title:         t.Title,
		ParticipantID: t.ParticipantID,
		CreatedBy:     t.CreatedBy,
		CreatedAt:     t.CreatedAt,
	}
	if t.Description != nil {
		resp.Description = *t.Description
	}
	return resp
}

func ToResourceResponse(r entity.Resource, url string) ResourceResponse {
	return ResourceResponse{
		ID:          r.ID,
		ActivityID:  r.ActivityID,
		Name:        r.Name,
		URL:         url,
		ContentType: r.ContentType,
		SizeBytes:   r.SizeBytes,
		UploadedBy:  r.UploadedBy,
		UploadedAt:  r.UploadedAt,
	}
}
