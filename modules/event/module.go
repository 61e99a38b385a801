package event

import (
	"summit-scheduler/core/cache"
	"summit-scheduler/core/database"
	"summit-scheduler/core/middleware"
	"summit-scheduler/core/storage"
	"summit-scheduler/modules/event/controller"
	"summit-scheduler/modules/event/repository"
	"summit-scheduler/modules/event/router"
	"summit-scheduler/modules/event/service"

	"github.com/labstack/echo/v4"
)

// Init wires the event module and registers its routes.
func Init(e *echo.Echo, db database.Database, c cache.Cache, store storage.ObjectStorage, mw *middleware.Middleware, cfg service.EventServiceConfig) service.EventServiceInterface {
	repo := repository.NewEventRepository(db)
	svc := service.NewEventService(repo, c, store, cfg)
	ctrl := controller.NewEventController(svc)
	router.NewEventRouter(ctrl).Setup(e, mw)
	return svc
}
