package dto

import (
	"time"

	"summit-scheduler/modules/notification/entity"

	"github.com/google/uuid"
)

type NotificationResponse struct {
	ID        uuid.UUID      `json:"id"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Type      string         `json:"type"`
	Data      map[string]any `json:"data"`
	IsRead    bool           `json:"is_read"`
	CreatedAt time.Time      `json:"created_at"`
}

type NotificationListResponse struct {
	Items      []NotificationResponse `json:"items"`
	TotalItems int                    `json:"total_items"`
	TotalPages int                    `json:"total_pages"`
	PageNumber int                    `json:"page_number"`
	PageSize   int                    `json:"page_size"`
}

type MarkAsReadRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

type CreateNotificationRequest struct {
	UserID  uuid.UUID      `json:"user_id"`
	Title   string         `json:"title"`
	Message string         `json:"message"`
	Type    string         `json:"type"`
	Data    map[string]any `json:"data"`
}

func ToNotificationListResponse(page *entity.PaginatedNotificationEntity) *NotificationListResponse {
	items := make([]NotificationResponse, 0, len(page.Items))
	for _, n := range page.Items {
		items = append(items, NotificationResponse{
			ID:        n.ID,
			Title:     n.Title,
			Message:   n.Message,
			Type:      n.Type,
			Data:      n.Data,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}
	return &NotificationListResponse{
		Items:      items,
		TotalItems: page.TotalItems,
		TotalPages: page.TotalPages(),
		PageNumber: page.PageNumber,
		PageSize:   page.PageSize,
	}
}
