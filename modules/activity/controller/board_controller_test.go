package controller

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"summit-scheduler/core/constants"
	"summit-scheduler/core/entity"
	"summit-scheduler/core/errors"
	"summit-scheduler/core/utils"
	"summit-scheduler/modules/activity/dto"
	"summit-scheduler/modules/activity/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBoardService struct {
	service.BoardServiceInterface
	addTaskFn     func(ctx context.Context, userID uuid.UUID, role entity.Role, activityID uuid.UUID, req *dto.CreateTaskRequest) (*dto.TaskResponse, *errors.AppError)
	addResourceFn func(ctx context.Context, userID uuid.UUID, role entity.Role, activityID uuid.UUID, upload dto.ResourceUpload) (*dto.ResourceResponse, *errors.AppError)
	deleteTaskFn  func(ctx context.Context, userID uuid.UUID, role entity.Role, activityID, taskID uuid.UUID) *errors.AppError
}

func (s *stubBoardService) AddTask(ctx context.Context, userID uuid.UUID, role entity.Role, activityID uuid.UUID, req *dto.CreateTaskRequest) (*dto.TaskResponse, *errors.AppError) {
	return s.addTaskFn(ctx, userID, role, activityID, req)
}

func (s *stubBoardService) AddResource(ctx context.Context, userID uuid.UUID, role entity.Role, activityID uuid.UUID, upload dto.ResourceUpload) (*dto.ResourceResponse, *errors.AppError) {
	return s.addResourceFn(ctx, userID, role, activityID, upload)
}

func (s *stubBoardService) DeleteTask(ctx context.Context, userID uuid.UUID, role entity.Role, activityID, taskID uuid.UUID) *errors.AppError {
	return s.deleteTaskFn(ctx, userID, role, activityID, taskID)
}

func newContext(req *http.Request, claims *utils.TokenClaims) (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	ctx := echo.New().NewContext(req, rec)
	if claims != nil {
		ctx.Set(constants.ContextTokenData, claims)
	}
	return ctx, rec
}

func TestAddTaskPassesCallerAndRole(t *testing.T) {
	moderatorID, activityID := uuid.New(), uuid.New()
	svc := &stubBoardService{
		addTaskFn: func(ctx context.Context, userID uuid.UUID, role entity.Role, id uuid.UUID, req *dto.CreateTaskRequest) (*dto.TaskResponse, *errors.AppError) {
			assert.Equal(t, moderatorID, userID)
			assert.Equal(t, entity.RoleModerator, role)
			assert.Equal(t, activityID, id)
			assert.Equal(t, "Agenda", req.Title)
			return &dto.TaskResponse{ID: uuid.New(), Title: req.Title}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"Agenda"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	ctx, rec := newContext(req, &utils.TokenClaims{UserID: moderatorID, Role: entity.RoleModerator})
	ctx.SetParamNames("id")
	ctx.SetParamValues(activityID.String())

	require.NoError(t, NewBoardController(svc).AddTask(ctx))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Task added successfully")
}

func TestAddTaskForbiddenIs403(t *testing.T) {
	svc := &stubBoardService{
		addTaskFn: func(ctx context.Context, userID uuid.UUID, role entity.Role, id uuid.UUID, req *dto.CreateTaskRequest) (*dto.TaskResponse, *errors.AppError) {
			return nil, errors.NewAppError(errors.ErrForbidden, "Only the event organizer or the approved moderator can change this activity", nil)
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"Agenda"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	ctx, rec := newContext(req, &utils.TokenClaims{UserID: uuid.New(), Role: entity.RoleModerator})
	ctx.SetParamNames("id")
	ctx.SetParamValues(uuid.NewString())

	require.NoError(t, NewBoardController(svc).AddTask(ctx))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUploadResourceReadsMultipart(t *testing.T) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", "slides.pdf")
	require.NoError(t, err)
	_, _ = part.Write([]byte("%PDF-1.7"))
	require.NoError(t, form.WriteField("name", "Opening slides"))
	require.NoError(t, form.Close())

	svc := &stubBoardService{
		addResourceFn: func(ctx context.Context, userID uuid.UUID, role entity.Role, id uuid.UUID, upload dto.ResourceUpload) (*dto.ResourceResponse, *errors.AppError) {
			assert.Equal(t, "Opening slides", upload.Name)
			assert.Equal(t, "slides.pdf", upload.FileName)
			assert.Equal(t, int64(8), upload.Size)
			raw, err := io.ReadAll(upload.Body)
			require.NoError(t, err)
			assert.Equal(t, "%PDF-1.7", string(raw))
			return &dto.ResourceResponse{ID: uuid.New(), Name: upload.Name}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set(echo.HeaderContentType, form.FormDataContentType())
	ctx, rec := newContext(req, &utils.TokenClaims{UserID: uuid.New(), Role: entity.RoleOrganizer})
	ctx.SetParamNames("id")
	ctx.SetParamValues(uuid.NewString())

	require.NoError(t, NewBoardController(svc).UploadResource(ctx))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Opening slides")
}

func TestUploadResourceWithoutFile(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	ctx, _ := newContext(req, &utils.TokenClaims{UserID: uuid.New(), Role: entity.RoleOrganizer})
	ctx.SetParamNames("id")
	ctx.SetParamValues(uuid.NewString())

	err := NewBoardController(&stubBoardService{}).UploadResource(ctx)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestDeleteTaskRejectsBadTaskID(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	ctx, _ := newContext(req, &utils.TokenClaims{UserID: uuid.New(), Role: entity.RoleOrganizer})
	ctx.SetParamNames("id", "taskId")
	ctx.SetParamValues(uuid.NewString(), "nope")

	err := NewBoardController(&stubBoardService{}).DeleteTask(ctx)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestDeleteTaskNotFoundIs404(t *testing.T) {
	svc := &stubBoardService{
		deleteTaskFn: func(ctx context.Context, userID uuid.UUID, role entity.Role, activityID, taskID uuid.UUID) *errors.AppError {
			return errors.NewAppError(errors.ErrNotFound, "Task not found", nil)
		},
	}
	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	ctx, rec := newContext(req, &utils.TokenClaims{UserID: uuid.New(), Role: entity.RoleOrganizer})
	ctx.SetParamNames("id", "taskId")
	ctx.SetParamValues(uuid.NewString(), uuid.NewString())

	require.NoError(t, NewBoardController(svc).DeleteTask(ctx))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
