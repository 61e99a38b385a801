package router

import (
	"summit-scheduler/core/entity"
	"summit-scheduler/core/middleware"
	"summit-scheduler/modules/activity/controller"

	"github.com/labstack/echo/v4"
)

type BoardRouter struct {
	BoardController *controller.BoardController
}

func NewBoardRouter(boardController *controller.BoardController) *BoardRouter {
	return &BoardRouter{
		BoardController: boardController,
	}
}

// Setup registers activity board routes under /api/v1/private/activities.
func (r *BoardRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	privateRoutes := e.Group("/api/v1").Group("/private")
	activityRoutes := privateRoutes.Group("/activities", mw.AuthMiddleware())
	editors := mw.RequireRole(entity.RoleOrganizer, entity.RoleModerator)

	activityRoutes.GET("/:id/board", r.BoardController.GetBoard)
	activityRoutes.POST("/:id/tasks", r.BoardController.AddTask, editors)
	activityRoutes.DELETE("/:id/tasks/:taskId", r.BoardController.DeleteTask, editors)
	activityRoutes.POST("/:id/resources", r.BoardController.UploadResource, editors)
	activityRoutes.DELETE("/:id/resources/:resourceId", r.BoardController.DeleteResource, editors)
}
