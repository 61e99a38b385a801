package moderation

import (
	"summit-scheduler/core/database"
	"summit-scheduler/core/jobs"
	"summit-scheduler/core/middleware"
	"summit-scheduler/modules/moderation/controller"
	"summit-scheduler/modules/moderation/repository"
	"summit-scheduler/modules/moderation/router"
	"summit-scheduler/modules/moderation/service"

	"github.com/labstack/echo/v4"
)

// Init wires the moderation module and registers its routes.
func Init(e *echo.Echo, db database.Database, enqueuer jobs.Enqueuer, mw *middleware.Middleware) service.ModerationServiceInterface {
	repo := repository.NewModerationRepository(db)
	svc := service.NewModerationService(repo, enqueuer)
	ctrl := controller.NewModerationController(svc)
	router.NewModerationRouter(ctrl).Setup(e, mw)
	return svc
}
