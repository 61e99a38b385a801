package controller

import (
	"summit-scheduler/core/controller"
	"summit-scheduler/core/errors"
	"summit-scheduler/modules/event/dto"
	"summit-scheduler/modules/event/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// EventController handles event HTTP requests
type EventController struct {
	controller.BaseController
	EventService service.EventServiceInterface
}

func NewEventController(svc service.EventServiceInterface) *EventController {
	return &EventController{
		BaseController: controller.NewBaseController(),
		EventService:   svc,
	}
}

// PreviewSlots handles POST /events/slots/preview
// @Summary Preview free slots
// @Description Computes free activity slots for a draft event window
// @Tags Event
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.PreviewSlotsRequest true "Event window and picked slots"
// @Success 200 {object} dto.SlotsResponse
// @Failure 400 {object} controller.ErrorResponse
// @Router /private/events/slots/preview [post]
func (c *EventController) PreviewSlots(ctx echo.Context) error {
	var req dto.PreviewSlotsRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.EventService.PreviewSlots(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// CreateEvent handles POST /events
// @Summary Create event
// @Description Creates an event together with its scheduled activities
// @Tags Event
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateEventRequest true "Event with activities"
// @Success 200 {object} dto.EventResponse
// @Failure 400 {object} controller.ErrorResponse
// @Router /private/events [post]
func (c *EventController) CreateEvent(ctx echo.Context) error {
	claims, appErr := controller.GetTokenClaims(ctx)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	var req dto.CreateEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.EventService.CreateEvent(ctx.Request().Context(), claims.UserID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Event created successfully")
}

// GetMyEvents handles GET /events
// @Summary List organizer events
// @Tags Event
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.EventResponse
// @Router /private/events [get]
func (c *EventController) GetMyEvents(ctx echo.Context) error {
	claims, appErr := controller.GetTokenClaims(ctx)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	result, appErr := c.EventService.GetOrganizerEvents(ctx.Request().Context(), claims.UserID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// GetEvent handles GET /events/:id
// @Summary Get event
// @Tags Event
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.EventResponse
// @Failure 404 {object} controller.ErrorResponse
// @Router /private/events/{id} [get]
func (c *EventController) GetEvent(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	result, appErr := c.EventService.GetEvent(ctx.Request().Context(), eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// GetAvailableSlots handles GET /events/:id/slots
// @Summary Free slots of an event
// @Tags Event
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.SlotsResponse
// @Router /private/events/{id}/slots [get]
func (c *EventController) GetAvailableSlots(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	result, appErr := c.EventService.AvailableSlots(ctx.Request().Context(), eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// AddActivity handles POST /events/:id/activities
// @Summary Schedule an activity into a free slot
// @Tags Event
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body dto.ActivityInput true "Activity"
// @Success 200 {object} dto.ActivityResponse
// @Router /private/events/{id}/activities [post]
func (c *EventController) AddActivity(ctx echo.Context) error {
	claims, appErr := controller.GetTokenClaims(ctx)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	var req dto.ActivityInput
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.EventService.AddActivity(ctx.Request().Context(), claims.UserID, eventID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Activity scheduled successfully")
}

// UploadLogo handles PUT /events/:id/logo (multipart field "logo")
// @Summary Upload event logo
// @Tags Event
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Event ID"
// @Param logo formData file true "Logo image"
// @Success 200 {object} dto.EventResponse
// @Router /private/events/{id}/logo [put]
func (c *EventController) UploadLogo(ctx echo.Context) error {
	claims, appErr := controller.GetTokenClaims(ctx)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	fileHeader, err := ctx.FormFile("logo")
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Logo file is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Cannot read logo file")
	}
	defer file.Close()

	result, appErr := c.EventService.UploadLogo(ctx.Request().Context(), claims.UserID, eventID,
		file, fileHeader.Size, fileHeader.Header.Get("Content-Type"))
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Logo uploaded successfully")
}
