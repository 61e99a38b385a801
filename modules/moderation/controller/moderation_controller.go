package controller

import (
	"summit-scheduler/core/controller"
	"summit-scheduler/core/errors"
	"summit-scheduler/modules/moderation/dto"
	"summit-scheduler/modules/moderation/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ModerationController handles moderation request HTTP requests
type ModerationController struct {
	controller.BaseController
	ModerationService service.ModerationServiceInterface
}

func NewModerationController(svc service.ModerationServiceInterface) *ModerationController {
	return &ModerationController{
		BaseController:    controller.NewBaseController(),
		ModerationService: svc,
	}
}

// SubmitClaim handles POST /moderation/claims
// @Summary Claim an activity
// @Description Creates a pending moderation request; returns 409 with the conflicting requests on overlap
// @Tags Moderation
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.ClaimRequest true "Activity to moderate"
// @Success 200 {object} dto.ModerationRequestResponse
// @Failure 409 {object} controller.ErrorResponse
// @Router /private/moderation/claims [post]
func (c *ModerationController) SubmitClaim(ctx echo.Context) error {
	claims, appErr := controller.GetTokenClaims(ctx)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	var req dto.ClaimRequest
	if err := ctx.Bind(&req); err != nil || req.ActivityID == uuid.Nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.ModerationService.SubmitClaim(ctx.Request().Context(), claims.UserID, req.ActivityID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Request sent, awaiting organizer confirmation")
}

// ResolveConflict handles POST /moderation/claims/resolve
// @Summary Replace a conflicting request
// @Tags Moderation
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.ResolveConflictRequest true "New activity and the request to cancel"
// @Success 200 {object} dto.ModerationRequestResponse
// @Failure 409 {object} controller.ErrorResponse
// @Router /private/moderation/claims/resolve [post]
func (c *ModerationController) ResolveConflict(ctx echo.Context) error {
	claims, appErr := controller.GetTokenClaims(ctx)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	var req dto.ResolveConflictRequest
	if err := ctx.Bind(&req); err != nil || req.ActivityID == uuid.Nil || req.CancelRequestID == uuid.Nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.ModerationService.ResolveConflict(ctx.Request().Context(), claims.UserID, req.ActivityID, req.CancelRequestID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Conflict resolved, request sent")
}

// GetConflicts handles GET /moderation/conflicts?activity_id=
// @Summary Conflicts for an activity
// @Tags Moderation
// @Security BearerAuth
// @Produce json
// @Param activity_id query string true "Activity ID"
// @Success 200 {array} dto.ModerationRequestResponse
// @Router /private/moderation/conflicts [get]
func (c *ModerationController) GetConflicts(ctx echo.Context) error {
	claims, appErr := controller.GetTokenClaims(ctx)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	activityID, err := uuid.Parse(ctx.QueryParam("activity_id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid activity ID")
	}

	result, appErr := c.ModerationService.FindConflictsForActivity(ctx.Request().Context(), claims.UserID, activityID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// GetMyRequests handles GET /moderation/requests/mine
// @Summary Moderator's requests
// @Tags Moderation
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.ModerationRequestResponse
// @Router /private/moderation/requests/mine [get]
func (c *ModerationController) GetMyRequests(ctx echo.Context) error {
	claims, appErr := controller.GetTokenClaims(ctx)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	result, appErr := c.ModerationService.ListForModerator(ctx.Request().Context(), claims.UserID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// GetSchedule handles GET /moderation/schedule
// @Summary Moderator's approved schedule
// @Tags Moderation
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.ModerationRequestResponse
// @Router /private/moderation/schedule [get]
func (c *ModerationController) GetSchedule(ctx echo.Context) error {
	claims, appErr := controller.GetTokenClaims(ctx)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	result, appErr := c.ModerationService.ListModeratorSchedule(ctx.Request().Context(), claims.UserID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// CancelRequest handles POST /moderation/requests/:id/cancel
// @Summary Cancel a pending request
// @Tags Moderation
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param request body dto.CancelRequest false "Reason"
// @Success 200 {object} dto.ModerationRequestResponse
// @Router /private/moderation/requests/{id}/cancel [post]
func (c *ModerationController) CancelRequest(ctx echo.Context) error {
	claims, appErr := controller.GetTokenClaims(ctx)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	requestID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request ID")
	}

	var req dto.CancelRequest
	if ctx.Request().ContentLength > 0 {
		if err := ctx.Bind(&req); err != nil {
			return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
		}
	}

	result, appErr := c.ModerationService.Cancel(ctx.Request().Context(), claims.UserID, requestID, req.Reason)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Request cancelled")
}

// Decide handles POST /moderation/requests/:id/decision
// @Summary Approve or decline a request
// @Tags Moderation
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param request body dto.DecisionRequest true "Outcome and message"
// @Success 200 {object} dto.DecisionResponse
// @Router /private/moderation/requests/{id}/decision [post]
func (c *ModerationController) Decide(ctx echo.Context) error {
	claims, appErr := controller.GetTokenClaims(ctx)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	requestID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request ID")
	}

	var req dto.DecisionRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.ModerationService.Decide(ctx.Request().Context(), claims.UserID, requestID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	message := "Decision saved"
	if !result.Changed {
		message = result.Notice
	}
	return c.SuccessResponse(ctx, result, message)
}

// GetPending handles GET /moderation/requests/pending
// @Summary Pending requests across the organizer's events
// @Tags Moderation
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.ModerationRequestResponse
// @Router /private/moderation/requests/pending [get]
func (c *ModerationController) GetPending(ctx echo.Context) error {
	claims, appErr := controller.GetTokenClaims(ctx)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	result, appErr := c.ModerationService.ListPendingForOrganizer(ctx.Request().Context(), claims.UserID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// GetEventsWithPending handles GET /moderation/events
// @Summary Organizer events with pending requests
// @Tags Moderation
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.EventPendingResponse
// @Router /private/moderation/events [get]
func (c *ModerationController) GetEventsWithPending(ctx echo.Context) error {
	claims, appErr := controller.GetTokenClaims(ctx)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	result, appErr := c.ModerationService.ListOrganizerEventsWithPending(ctx.Request().Context(), claims.UserID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// GetEventRequests handles GET /moderation/events/:id/requests
// @Summary Requests for one event
// @Tags Moderation
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {array} dto.ModerationRequestResponse
// @Router /private/moderation/events/{id}/requests [get]
func (c *ModerationController) GetEventRequests(ctx echo.Context) error {
	claims, appErr := controller.GetTokenClaims(ctx)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	result, appErr := c.ModerationService.ListForEvent(ctx.Request().Context(), claims.UserID, eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}
