package activity

import (
	"summit-scheduler/core/database"
	"summit-scheduler/core/middleware"
	"summit-scheduler/core/storage"
	"summit-scheduler/modules/activity/controller"
	"summit-scheduler/modules/activity/repository"
	"summit-scheduler/modules/activity/router"
	"summit-scheduler/modules/activity/service"
	moderationRepository "summit-scheduler/modules/moderation/repository"

	"github.com/labstack/echo/v4"
)

// Init wires the activity board. Edit rights are read from the moderation
// store.
func Init(e *echo.Echo, db database.Database, store storage.ObjectStorage, mw *middleware.Middleware) service.BoardServiceInterface {
	repo := repository.NewBoardRepository(db)
	schedule := moderationRepository.NewModerationRepository(db)
	svc := service.NewBoardService(repo, schedule, store)
	ctrl := controller.NewBoardController(svc)
	router.NewBoardRouter(ctrl).Setup(e, mw)
	return svc
}
