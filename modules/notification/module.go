package notification

import (
	"summit-scheduler/core/database"
	"summit-scheduler/core/jobs"
	"summit-scheduler/core/middleware"
	"summit-scheduler/modules/notification/controller"
	"summit-scheduler/modules/notification/repository"
	"summit-scheduler/modules/notification/router"
	"summit-scheduler/modules/notification/service"

	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4"
)

// Init wires the notification HTTP API.
func Init(e *echo.Echo, db database.Database, mw *middleware.Middleware) service.NotificationServiceInterface {
	svc := service.NewNotificationService(repository.NewNotificationRepository(db))
	ctrl := controller.NewNotificationController(svc)
	router.NewNotificationRouter(ctrl).Setup(e, mw)
	return svc
}

// RegisterWorker attaches the notice handler to a worker mux.
func RegisterWorker(mux *asynq.ServeMux, db database.Database) {
	svc := service.NewNotificationService(repository.NewNotificationRepository(db))
	mux.HandleFunc(jobs.TypeModerationNotice, svc.HandleModerationNotice)
}
