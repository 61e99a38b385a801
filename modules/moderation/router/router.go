package router

import (
	"summit-scheduler/core/entity"
	"summit-scheduler/core/middleware"
	"summit-scheduler/modules/moderation/controller"

	"github.com/labstack/echo/v4"
)

type ModerationRouter struct {
	ModerationController *controller.ModerationController
}

func NewModerationRouter(moderationController *controller.ModerationController) *ModerationRouter {
	return &ModerationRouter{
		ModerationController: moderationController,
	}
}

// Setup registers moderation routes under /api/v1/private/moderation.
func (r *ModerationRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	privateRoutes := e.Group("/api/v1").Group("/private")
	moderationRoutes := privateRoutes.Group("/moderation", mw.AuthMiddleware())

	moderator := moderationRoutes.Group("", mw.RequireRole(entity.RoleModerator))
	moderator.POST("/claims", r.ModerationController.SubmitClaim)
	moderator.POST("/claims/resolve", r.ModerationController.ResolveConflict)
	moderator.GET("/conflicts", r.ModerationController.GetConflicts)
	moderator.GET("/requests/mine", r.ModerationController.GetMyRequests)
	moderator.GET("/schedule", r.ModerationController.GetSchedule)
	moderator.POST("/requests/:id/cancel", r.ModerationController.CancelRequest)

	organizer := moderationRoutes.Group("", mw.RequireRole(entity.RoleOrganizer))
	organizer.GET("/requests/pending", r.ModerationController.GetPending)
	organizer.POST("/requests/:id/decision", r.ModerationController.Decide)
	organizer.GET("/events", r.ModerationController.GetEventsWithPending)
	organizer.GET("/events/:id/requests", r.ModerationController.GetEventRequests)
}
