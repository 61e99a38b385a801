package controller

import (
	"summit-scheduler/core/controller"
	"summit-scheduler/core/errors"
	"summit-scheduler/modules/activity/dto"
	"summit-scheduler/modules/activity/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// BoardController handles activity task and resource requests
type BoardController struct {
	controller.BaseController
	BoardService service.BoardServiceInterface
}

func NewBoardController(svc service.BoardServiceInterface) *BoardController {
	return &BoardController{
		BaseController: controller.NewBaseController(),
		BoardService:   svc,
	}
}

// GetBoard handles GET /activities/:id/board
// @Summary Activity tasks and resources
// @Tags Activity
// @Security BearerAuth
// @Produce json
// @Param id path string true "Activity ID"
// @Success 200 {object} dto.BoardResponse
// @Failure 404 {object} controller.ErrorResponse
// @Router /private/activities/{id}/board [get]
func (c *BoardController) GetBoard(ctx echo.Context) error {
	activityID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid activity ID")
	}

	result, appErr := c.BoardService.GetBoard(ctx.Request().Context(), activityID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Success")
}

// AddTask handles POST /activities/:id/tasks
// @Summary Add a task to an activity
// @Tags Activity
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Activity ID"
// @Param request body dto.CreateTaskRequest true "Task"
// @Success 200 {object} dto.TaskResponse
// @Failure 403 {object} controller.ErrorResponse
// @Router /private/activities/{id}/tasks [post]
func (c *BoardController) AddTask(ctx echo.Context) error {
	claims, appErr := controller.GetTokenClaims(ctx)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	activityID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid activity ID")
	}

	var req dto.CreateTaskRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request body")
	}

	result, appErr := c.BoardService.AddTask(ctx.Request().Context(), claims.UserID, claims.Role, activityID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Task added successfully")
}

// DeleteTask handles DELETE /activities/:id/tasks/:taskId
// @Summary Delete an activity task
// @Tags Activity
// @Security BearerAuth
// @Produce json
// @Param id path string true "Activity ID"
// @Param taskId path string true "Task ID"
// @Success 200 {object} controller.SuccessResponse
// @Router /private/activities/{id}/tasks/{taskId} [delete]
func (c *BoardController) DeleteTask(ctx echo.Context) error {
	claims, appErr := controller.GetTokenClaims(ctx)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	activityID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid activity ID")
	}
	taskID, err := uuid.Parse(ctx.Param("taskId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid task ID")
	}

	if appErr := c.BoardService.DeleteTask(ctx.Request().Context(), claims.UserID, claims.Role, activityID, taskID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Task deleted successfully")
}

// UploadResource handles POST /activities/:id/resources (multipart field "file", optional "name")
// @Summary Upload an activity resource
// @Tags Activity
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Activity ID"
// @Param file formData file true "Resource file"
// @Param name formData string false "Display name"
// @Success 200 {object} dto.ResourceResponse
// @Router /private/activities/{id}/resources [post]
func (c *BoardController) UploadResource(ctx echo.Context) error {
	claims, appErr := controller.GetTokenClaims(ctx)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	activityID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid activity ID")
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Resource file is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Cannot read resource file")
	}
	defer file.Close()

	result, appErr := c.BoardService.AddResource(ctx.Request().Context(), claims.UserID, claims.Role, activityID, dto.ResourceUpload{
		Name:        ctx.FormValue("name"),
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Body:        file,
	})
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Resource uploaded successfully")
}

// DeleteResource handles DELETE /activities/:id/resources/:resourceId
// @Summary Delete an activity resource
// @Tags Activity
// @Security BearerAuth
// @Produce json
// @Param id path string true "Activity ID"
// @Param resourceId path string true "Resource ID"
// @Success 200 {object} controller.SuccessResponse
// @Router /private/activities/{id}/resources/{resourceId} [delete]
func (c *BoardController) DeleteResource(ctx echo.Context) error {
	claims, appErr := controller.GetTokenClaims(ctx)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	activityID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid activity ID")
	}
	resourceID, err := uuid.Parse(ctx.Param("resourceId"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid resource ID")
	}

	if appErr := c.BoardService.DeleteResource(ctx.Request().Context(), claims.UserID, claims.Role, activityID, resourceID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, nil, "Resource deleted successfully")
}
