package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const (
	TypeModerationNotice = "moderation:notice"

	QueueDefault = "default"
)

// ModerationNotice tells one account that a moderation request changed.
type ModerationNotice struct {
	RecipientID uuid.UUID `json:"recipient_id"`
	RequestID   uuid.UUID `json:"request_id"`
	ActivityID  uuid.UUID `json:"activity_id"`
	Status      string    `json:"status"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
}

type Enqueuer interface {
	EnqueueModerationNotice(ctx context.Context, notice ModerationNotice) error
}

func NewModerationNoticeTask(notice ModerationNotice) (*asynq.Task, error) {
	payload, err := json.Marshal(notice)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeModerationNotice, payload,
		asynq.MaxRetry(5),
		asynq.Timeout(30*time.Second),
		asynq.Queue(QueueDefault),
	), nil
}

func ParseModerationNotice(t *asynq.Task) (ModerationNotice, error) {
	var notice ModerationNotice
	if err := json.Unmarshal(t.Payload(), &notice); err != nil {
		return notice, fmt.Errorf("decode %s payload: %w", TypeModerationNotice, err)
	}
	return notice, nil
}

// Client enqueues tasks onto the shared redis broker.
type Client struct {
	client *asynq.Client
}

func NewClient(opt asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(opt)}
}

func (c *Client) EnqueueModerationNotice(ctx context.Context, notice ModerationNotice) error {
	task, err := NewModerationNoticeTask(notice)
	if err != nil {
		return err
	}
	_, err = c.client.EnqueueContext(ctx, task)
	return err
}

func (c *Client) Close() error {
	return c.client.Close()
}
