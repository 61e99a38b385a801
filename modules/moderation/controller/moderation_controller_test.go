package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"summit-scheduler/core/constants"
	"summit-scheduler/core/entity"
	"summit-scheduler/core/errors"
	"summit-scheduler/core/utils"
	"summit-scheduler/modules/moderation/dto"
	"summit-scheduler/modules/moderation/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubModerationService struct {
	service.ModerationServiceInterface
	submitFn func(ctx context.Context, moderatorID, activityID uuid.UUID) (*dto.ModerationRequestResponse, *errors.AppError)
	decideFn func(ctx context.Context, organizerID, requestID uuid.UUID, req *dto.DecisionRequest) (*dto.DecisionResponse, *errors.AppError)
	cancelFn func(ctx context.Context, moderatorID, requestID uuid.UUID, reason string) (*dto.ModerationRequestResponse, *errors.AppError)
}

func (s *stubModerationService) SubmitClaim(ctx context.Context, moderatorID, activityID uuid.UUID) (*dto.ModerationRequestResponse, *errors.AppError) {
	return s.submitFn(ctx, moderatorID, activityID)
}

func (s *stubModerationService) Decide(ctx context.Context, organizerID, requestID uuid.UUID, req *dto.DecisionRequest) (*dto.DecisionResponse, *errors.AppError) {
	return s.decideFn(ctx, organizerID, requestID, req)
}

func (s *stubModerationService) Cancel(ctx context.Context, moderatorID, requestID uuid.UUID, reason string) (*dto.ModerationRequestResponse, *errors.AppError) {
	return s.cancelFn(ctx, moderatorID, requestID, reason)
}

func newContext(method, target, body string, userID uuid.UUID, role entity.Role) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.Set(constants.ContextTokenData, &utils.TokenClaims{UserID: userID, Role: role})
	return ctx, rec
}

func TestSubmitClaimConflictReturns409WithDetails(t *testing.T) {
	moderatorID := uuid.New()
	activityID := uuid.New()
	conflictID := uuid.New()
	svc := &stubModerationService{
		submitFn: func(ctx context.Context, gotModerator, gotActivity uuid.UUID) (*dto.ModerationRequestResponse, *errors.AppError) {
			assert.Equal(t, moderatorID, gotModerator)
			assert.Equal(t, activityID, gotActivity)
			return nil, errors.NewAppError(errors.ErrScheduleConflict, "conflict", nil).
				WithDetails([]dto.ModerationRequestResponse{{ID: conflictID}})
		},
	}

	ctx, rec := newContext(http.MethodPost, "/api/v1/private/moderation/claims",
		`{"activity_id":"`+activityID.String()+`"}`, moderatorID, entity.RoleModerator)

	require.NoError(t, NewModerationController(svc).SubmitClaim(ctx))
	assert.Equal(t, http.StatusConflict, rec.Code)

	var body struct {
		Code    string                          `json:"code"`
		Details []dto.ModerationRequestResponse `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, string(errors.ErrScheduleConflict), body.Code)
	require.Len(t, body.Details, 1)
	assert.Equal(t, conflictID, body.Details[0].ID)
}

func TestSubmitClaimRequiresActivityID(t *testing.T) {
	ctx, _ := newContext(http.MethodPost, "/api/v1/private/moderation/claims", `{}`, uuid.New(), entity.RoleModerator)

	err := NewModerationController(&stubModerationService{}).SubmitClaim(ctx)

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestDecideUnchangedUsesNotice(t *testing.T) {
	requestID := uuid.New()
	svc := &stubModerationService{
		decideFn: func(ctx context.Context, organizerID, gotRequest uuid.UUID, req *dto.DecisionRequest) (*dto.DecisionResponse, *errors.AppError) {
			assert.Equal(t, requestID, gotRequest)
			assert.Equal(t, "approved", req.Outcome)
			return &dto.DecisionResponse{Changed: false, Notice: "Request is already approved"}, nil
		},
	}

	ctx, rec := newContext(http.MethodPost, "/", `{"outcome":"approved"}`, uuid.New(), entity.RoleOrganizer)
	ctx.SetParamNames("id")
	ctx.SetParamValues(requestID.String())

	require.NoError(t, NewModerationController(svc).Decide(ctx))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Request is already approved")
}

func TestDecideValidationErrorIs400(t *testing.T) {
	svc := &stubModerationService{
		decideFn: func(ctx context.Context, organizerID, requestID uuid.UUID, req *dto.DecisionRequest) (*dto.DecisionResponse, *errors.AppError) {
			return nil, errors.NewValidationError("Decline reason is required")
		},
	}

	ctx, rec := newContext(http.MethodPost, "/", `{"outcome":"declined"}`, uuid.New(), entity.RoleOrganizer)
	ctx.SetParamNames("id")
	ctx.SetParamValues(uuid.New().String())

	require.NoError(t, NewModerationController(svc).Decide(ctx))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCancelWithoutBodyPassesEmptyReason(t *testing.T) {
	moderatorID := uuid.New()
	svc := &stubModerationService{
		cancelFn: func(ctx context.Context, gotModerator, requestID uuid.UUID, reason string) (*dto.ModerationRequestResponse, *errors.AppError) {
			assert.Equal(t, moderatorID, gotModerator)
			assert.Empty(t, reason)
			return &dto.ModerationRequestResponse{ID: requestID, Status: "cancelled"}, nil
		},
	}

	ctx, rec := newContext(http.MethodPost, "/", "", moderatorID, entity.RoleModerator)
	ctx.SetParamNames("id")
	ctx.SetParamValues(uuid.New().String())

	require.NoError(t, NewModerationController(svc).CancelRequest(ctx))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCancelAlreadyTerminalIs409(t *testing.T) {
	svc := &stubModerationService{
		cancelFn: func(ctx context.Context, moderatorID, requestID uuid.UUID, reason string) (*dto.ModerationRequestResponse, *errors.AppError) {
			return nil, errors.NewAppError(errors.ErrAlreadyTerminal, "Request is already cancelled", nil)
		},
	}

	ctx, rec := newContext(http.MethodPost, "/", "", uuid.New(), entity.RoleModerator)
	ctx.SetParamNames("id")
	ctx.SetParamValues(uuid.New().String())

	require.NoError(t, NewModerationController(svc).CancelRequest(ctx))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), string(errors.ErrAlreadyTerminal))
}
