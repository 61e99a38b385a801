package jobs

import (
	"context"

	"summit-scheduler/core/logger"

	"github.com/hibiken/asynq"
)

// NewServer builds the asynq worker. Handlers are registered by the caller
// on the returned mux.
func NewServer(opt asynq.RedisClientOpt, concurrency int) (*asynq.Server, *asynq.ServeMux) {
	srv := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			QueueDefault: 1,
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			logger.Error("Worker:TaskFailed", "type", task.Type(), "error", err)
		}),
	})
	return srv, asynq.NewServeMux()
}
