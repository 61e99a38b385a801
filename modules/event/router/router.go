package router

import (
	"summit-scheduler/core/entity"
	"summit-scheduler/core/middleware"
	"summit-scheduler/modules/event/controller"

	"github.com/labstack/echo/v4"
)

type EventRouter struct {
	EventController *controller.EventController
}

func NewEventRouter(eventController *controller.EventController) *EventRouter {
	return &EventRouter{
		EventController: eventController,
	}
}

// Setup registers event routes under /api/v1/private/events.
func (r *EventRouter) Setup(e *echo.Echo, mw *middleware.Middleware) {
	privateRoutes := e.Group("/api/v1").Group("/private")
	eventRoutes := privateRoutes.Group("/events", mw.AuthMiddleware())
	organizerOnly := mw.RequireRole(entity.RoleOrganizer)

	eventRoutes.POST("/slots/preview", r.EventController.PreviewSlots, organizerOnly)
	eventRoutes.POST("", r.EventController.CreateEvent, organizerOnly)
	eventRoutes.GET("", r.EventController.GetMyEvents, organizerOnly)
	eventRoutes.GET("/:id", r.EventController.GetEvent)
	eventRoutes.GET("/:id/slots", r.EventController.GetAvailableSlots)
	eventRoutes.POST("/:id/activities", r.EventController.AddActivity, organizerOnly)
	eventRoutes.PUT("/:id/logo", r.EventController.UploadLogo, organizerOnly)
}
