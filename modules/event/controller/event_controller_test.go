package controller

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"summit-scheduler/core/constants"
	"summit-scheduler/core/entity"
	"summit-scheduler/core/errors"
	"summit-scheduler/core/utils"
	"summit-scheduler/modules/event/dto"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEventService struct {
	createFn func(ctx context.Context, organizerID uuid.UUID, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError)
	getFn    func(ctx context.Context, eventID uuid.UUID) (*dto.EventResponse, *errors.AppError)
}

func (s *stubEventService) PreviewSlots(ctx context.Context, req *dto.PreviewSlotsRequest) (*dto.SlotsResponse, *errors.AppError) {
	return &dto.SlotsResponse{}, nil
}

func (s *stubEventService) CreateEvent(ctx context.Context, organizerID uuid.UUID, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError) {
	return s.createFn(ctx, organizerID, req)
}

func (s *stubEventService) GetEvent(ctx context.Context, eventID uuid.UUID) (*dto.EventResponse, *errors.AppError) {
	return s.getFn(ctx, eventID)
}

func (s *stubEventService) GetOrganizerEvents(ctx context.Context, organizerID uuid.UUID) ([]dto.EventResponse, *errors.AppError) {
	return nil, nil
}

func (s *stubEventService) AvailableSlots(ctx context.Context, eventID uuid.UUID) (*dto.SlotsResponse, *errors.AppError) {
	return &dto.SlotsResponse{}, nil
}

func (s *stubEventService) AddActivity(ctx context.Context, organizerID uuid.UUID, eventID uuid.UUID, req *dto.ActivityInput) (*dto.ActivityResponse, *errors.AppError) {
	return nil, nil
}

func (s *stubEventService) UploadLogo(ctx context.Context, organizerID uuid.UUID, eventID uuid.UUID, body io.Reader, size int64, contentType string) (*dto.EventResponse, *errors.AppError) {
	return nil, nil
}

func newContext(method, target, body string, userID uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	if userID != uuid.Nil {
		ctx.Set(constants.ContextTokenData, &utils.TokenClaims{UserID: userID, Role: entity.RoleOrganizer})
	}
	return ctx, rec
}

func TestCreateEventPassesOrganizer(t *testing.T) {
	organizerID := uuid.New()
	var got *dto.CreateEventRequest
	svc := &stubEventService{
		createFn: func(ctx context.Context, id uuid.UUID, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError) {
			assert.Equal(t, organizerID, id)
			got = req
			return &dto.EventResponse{ID: uuid.New(), Title: req.Title}, nil
		},
	}

	body := `{"title":"Go Summit","direction":"Backend","city":"Berlin","start_time":"2026-05-14T09:00:00Z","end_time":"2026-05-14T13:00:00Z"}`
	ctx, rec := newContext(http.MethodPost, "/api/v1/private/events", body, organizerID)

	require.NoError(t, NewEventController(svc).CreateEvent(ctx))
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2026, 5, 14, 9, 0, 0, 0, time.UTC), got.StartTime)
	assert.Contains(t, rec.Body.String(), "Event created successfully")
}

func TestCreateEventValidationErrorIs400(t *testing.T) {
	svc := &stubEventService{
		createFn: func(ctx context.Context, id uuid.UUID, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError) {
			return nil, errors.NewValidationError("At least one activity is required")
		},
	}

	ctx, rec := newContext(http.MethodPost, "/api/v1/private/events", `{"title":"x"}`, uuid.New())

	require.NoError(t, NewEventController(svc).CreateEvent(ctx))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

func TestCreateEventWithoutClaimsIs401(t *testing.T) {
	ctx, rec := newContext(http.MethodPost, "/api/v1/private/events", `{}`, uuid.Nil)

	require.NoError(t, NewEventController(&stubEventService{}).CreateEvent(ctx))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetEventRejectsBadID(t *testing.T) {
	ctx, _ := newContext(http.MethodGet, "/api/v1/private/events/nope", "", uuid.New())
	ctx.SetParamNames("id")
	ctx.SetParamValues("nope")

	err := NewEventController(&stubEventService{}).GetEvent(ctx)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestGetEventNotFoundIs404(t *testing.T) {
	svc := &stubEventService{
		getFn: func(ctx context.Context, id uuid.UUID) (*dto.EventResponse, *errors.AppError) {
			return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
		},
	}
	id := uuid.New()
	ctx, rec := newContext(http.MethodGet, "/api/v1/private/events/"+id.String(), "", uuid.New())
	ctx.SetParamNames("id")
	ctx.SetParamValues(id.String())

	require.NoError(t, NewEventController(svc).GetEvent(ctx))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
