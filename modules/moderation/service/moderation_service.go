package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"summit-scheduler/core/constants"
	"summit-scheduler/core/errors"
	"summit-scheduler/core/jobs"
	"summit-scheduler/core/logger"
	"summit-scheduler/core/metrics"
	"summit-scheduler/modules/moderation/dto"
	"summit-scheduler/modules/moderation/entity"
	"summit-scheduler/modules/moderation/repository"

	"github.com/google/uuid"
)

const (
	claimCreated   = "created"
	claimDuplicate = "duplicate"
	claimConflict  = "conflict"
	claimResolved  = "resolved"
)

type ModerationService struct {
	repo     repository.ModerationRepositoryInterface
	enqueuer jobs.Enqueuer
	now      func() time.Time
}

type ModerationServiceInterface interface {
	SubmitClaim(ctx context.Context, moderatorID, activityID uuid.UUID) (*dto.ModerationRequestResponse, *errors.AppError)
	ResolveConflict(ctx context.Context, moderatorID, activityID, cancelRequestID uuid.UUID) (*dto.ModerationRequestResponse, *errors.AppError)
	Decide(ctx context.Context, organizerID, requestID uuid.UUID, req *dto.DecisionRequest) (*dto.DecisionResponse, *errors.AppError)
	Cancel(ctx context.Context, moderatorID, requestID uuid.UUID, reason string) (*dto.ModerationRequestResponse, *errors.AppError)

	FindConflictsForActivity(ctx context.Context, moderatorID, activityID uuid.UUID) ([]dto.ModerationRequestResponse, *errors.AppError)
	ListForModerator(ctx context.Context, moderatorID uuid.UUID) ([]dto.ModerationRequestResponse, *errors.AppError)
	ListModeratorSchedule(ctx context.Context, moderatorID uuid.UUID) ([]dto.ModerationRequestResponse, *errors.AppError)
	ListForEvent(ctx context.Context, organizerID, eventID uuid.UUID) ([]dto.ModerationRequestResponse, *errors.AppError)
	ListPendingForOrganizer(ctx context.Context, organizerID uuid.UUID) ([]dto.ModerationRequestResponse, *errors.AppError)
	ListOrganizerEventsWithPending(ctx context.Context, organizerID uuid.UUID) ([]dto.EventPendingResponse, *errors.AppError)
}

var _ ModerationServiceInterface = (*ModerationService)(nil)

// NewModerationService accepts a nil enqueuer, in which case no notices are sent.
func NewModerationService(repo repository.ModerationRepositoryInterface, enqueuer jobs.Enqueuer) *ModerationService {
	return &ModerationService{
		repo:     repo,
		enqueuer: enqueuer,
		now:      time.Now,
	}
}

// ===================== Transitions =====================

// SubmitClaim creates a pending request for the moderator on the activity.
// A ScheduleConflict error carries the overlapping requests in Details.
func (s *ModerationService) SubmitClaim(ctx context.Context, moderatorID, activityID uuid.UUID) (*dto.ModerationRequestResponse, *errors.AppError) {
	var created *entity.ModerationRequest
	var appErr *errors.AppError

	err := s.repo.WithModeratorLock(ctx, moderatorID, func(repo repository.ModerationRepositoryInterface) error {
		activity, claimErr := s.checkClaim(ctx, repo, moderatorID, activityID)
		if claimErr != nil {
			appErr = claimErr
			return claimErr
		}

		conflicts, cErr := s.conflictsFor(ctx, repo, moderatorID, activity)
		if cErr != nil {
			return cErr
		}
		if len(conflicts) > 0 {
			appErr = conflictError(conflicts)
			return appErr
		}

		var createErr error
		created, createErr = s.create(ctx, repo, moderatorID, activityID, nil)
		return createErr
	})
	if appErr != nil {
		s.recordClaim(appErr)
		return nil, appErr
	}
	if err != nil {
		logger.Error("ModerationService:SubmitClaim", err)
		return nil, errors.NewPersistenceError("Failed to submit claim", err)
	}

	metrics.ModerationClaimOutcomes.WithLabelValues(claimCreated).Inc()
	logger.Info("ModerationService:SubmitClaim:Created", "request_id", created.ID, "moderator_id", moderatorID, "activity_id", activityID)
	s.notify(ctx, created.OrganizerID, created, "New moderation request",
		fmt.Sprintf("A moderator asked to moderate %q at %s", created.ActivityTitle, created.EventTitle))

	resp := dto.ToModerationRequestResponse(*created)
	return &resp, nil
}

// ResolveConflict cancels cancelRequestID, which must be one of the requests
// blocking a claim on activityID, then checks the schedule once more. The
// cancellation is kept even when other conflicts remain.
func (s *ModerationService) ResolveConflict(ctx context.Context, moderatorID, activityID, cancelRequestID uuid.UUID) (*dto.ModerationRequestResponse, *errors.AppError) {
	var (
		created   *entity.ModerationRequest
		displaced *entity.ModerationRequest
		prev      entity.RequestStatus
		appErr    *errors.AppError
	)

	err := s.repo.WithModeratorLock(ctx, moderatorID, func(repo repository.ModerationRepositoryInterface) error {
		activity, claimErr := s.checkClaim(ctx, repo, moderatorID, activityID)
		if claimErr != nil {
			appErr = claimErr
			return claimErr
		}

		conflicts, err := s.conflictsFor(ctx, repo, moderatorID, activity)
		if err != nil {
			return err
		}
		var target *entity.ModerationRequest
		for i := range conflicts {
			if conflicts[i].ID == cancelRequestID {
				target = &conflicts[i]
				break
			}
		}
		if target == nil {
			appErr = errors.NewValidationError("Request to cancel is not among the conflicting requests")
			return appErr
		}
		if !target.Status.CanTransitionTo(entity.StatusCancelled) {
			appErr = errors.NewAppError(errors.ErrInvalidStatusTransition,
				fmt.Sprintf("Request cannot move from %q to %s", target.Status, entity.StatusCancelled), nil)
			return appErr
		}

		reason := constants.ReasonConflictResolution
		if err := repo.UpdateStatus(ctx, target.ID, repository.StatusUpdate{
			Status:          entity.StatusCancelled,
			ResponseMessage: &reason,
		}); err != nil {
			return err
		}
		prev = target.Status
		target.Status = entity.StatusCancelled
		target.ResponseMessage = &reason
		target.UpdatedAt = s.now()
		displaced = target

		remaining, err := s.conflictsFor(ctx, repo, moderatorID, activity)
		if err != nil {
			return err
		}
		if len(remaining) > 0 {
			appErr = conflictError(remaining)
			return nil
		}

		created, err = s.create(ctx, repo, moderatorID, activityID, &target.ActivityID)
		return err
	})
	if err != nil {
		if appErr != nil {
			s.recordClaim(appErr)
			return nil, appErr
		}
		logger.Error("ModerationService:ResolveConflict", err)
		return nil, errors.NewPersistenceError("Failed to resolve conflict", err)
	}

	s.recordTransition(prev, entity.StatusCancelled)
	s.notify(ctx, displaced.ModeratorID, displaced, "Moderation request cancelled",
		fmt.Sprintf("Your request for %q was cancelled: %s", displaced.ActivityTitle, constants.ReasonConflictResolution))

	if appErr != nil {
		logger.Warn("ModerationService:ResolveConflict:StillConflicting", "moderator_id", moderatorID, "activity_id", activityID)
		s.recordClaim(appErr)
		return nil, appErr
	}

	metrics.ModerationClaimOutcomes.WithLabelValues(claimResolved).Inc()
	logger.Info("ModerationService:ResolveConflict:Created", "request_id", created.ID, "cancelled_request_id", displaced.ID)
	s.notify(ctx, created.OrganizerID, created, "New moderation request",
		fmt.Sprintf("A moderator asked to moderate %q at %s", created.ActivityTitle, created.EventTitle))

	resp := dto.ToModerationRequestResponse(*created)
	return &resp, nil
}

// Decide applies an organizer decision. Repeating the current status is
// reported through DecisionResponse.Notice and changes nothing.
func (s *ModerationService) Decide(ctx context.Context, organizerID, requestID uuid.UUID, req *dto.DecisionRequest) (*dto.DecisionResponse, *errors.AppError) {
	outcome := entity.RequestStatus(strings.ToLower(strings.TrimSpace(req.Outcome)))
	if outcome != entity.StatusApproved && outcome != entity.StatusDeclined {
		return nil, errors.NewValidationError("Outcome must be approved or declined")
	}
	message := strings.TrimSpace(req.Message)
	if outcome == entity.StatusDeclined && message == "" {
		return nil, errors.NewValidationError("Decline reason is required")
	}

	existing, appErr := s.getOwned(ctx, requestID)
	if appErr != nil {
		return nil, appErr
	}
	if existing.OrganizerID != organizerID {
		return nil, errors.NewAppError(errors.ErrForbidden, "Only the event organizer can decide on this request", nil)
	}

	var (
		result  *dto.DecisionResponse
		decided *entity.ModerationRequest
		prev    entity.RequestStatus
	)
	err := s.repo.WithModeratorLock(ctx, existing.ModeratorID, func(repo repository.ModerationRepositoryInterface) error {
		current, err := repo.GetByID(ctx, requestID)
		if err != nil {
			return err
		}
		if current == nil {
			appErr = errors.NewAppError(errors.ErrNotFound, "Moderation request not found", nil)
			return appErr
		}
		if current.Status.IsTerminal() {
			appErr = errors.NewAppError(errors.ErrAlreadyTerminal,
				fmt.Sprintf("Request is already %s", current.Status), nil)
			return appErr
		}
		if current.Status == outcome {
			result = &dto.DecisionResponse{
				Request: dto.ToModerationRequestResponse(*current),
				Changed: false,
				Notice:  fmt.Sprintf("Request is already %s", outcome),
			}
			return nil
		}
		if !current.Status.CanTransitionTo(outcome) {
			appErr = errors.NewAppError(errors.ErrInvalidStatusTransition,
				fmt.Sprintf("Request cannot move from %q to %s", current.Status, outcome), nil)
			return appErr
		}

		update := repository.StatusUpdate{Status: outcome}
		if outcome == entity.StatusApproved {
			approved, err := repo.FindApprovedByModerator(ctx, current.ModeratorID)
			if err != nil {
				return err
			}
			conflicts := FindConflicts(current.ModeratorID, current.ActivityStart, current.ActivityEnd,
				excludeActivity(approved, current.ActivityID))
			if len(conflicts) > 0 {
				appErr = conflictError(conflicts)
				return appErr
			}
			if message != "" {
				update.ResponseMessage = &message
			}
		} else {
			update.DeclineReason = &message
		}

		if err := repo.UpdateStatus(ctx, current.ID, update); err != nil {
			return err
		}
		prev = current.Status
		current.Status = outcome
		if update.ResponseMessage != nil {
			current.ResponseMessage = update.ResponseMessage
		}
		if update.DeclineReason != nil {
			current.DeclineReason = update.DeclineReason
		}
		current.UpdatedAt = s.now()
		decided = current

		result = &dto.DecisionResponse{Request: dto.ToModerationRequestResponse(*current), Changed: true}
		return nil
	})
	if appErr != nil {
		return nil, appErr
	}
	if err != nil {
		logger.Error("ModerationService:Decide", err)
		return nil, errors.NewPersistenceError("Failed to record decision", err)
	}
	if !result.Changed {
		logger.Info("ModerationService:Decide:Unchanged", "request_id", requestID, "status", outcome)
		return result, nil
	}

	s.recordTransition(prev, outcome)
	logger.Info("ModerationService:Decide", "request_id", requestID, "from", prev, "to", outcome)

	title, body := "Moderation request approved",
		fmt.Sprintf("You will moderate %q at %s", decided.ActivityTitle, decided.EventTitle)
	if outcome == entity.StatusDeclined {
		title, body = "Moderation request declined",
			fmt.Sprintf("Your request for %q was declined: %s", decided.ActivityTitle, message)
	}
	s.notify(ctx, decided.ModeratorID, decided, title, body)
	return result, nil
}

// Cancel withdraws the moderator's own pending request. Approved requests
// are only released through conflict resolution.
func (s *ModerationService) Cancel(ctx context.Context, moderatorID, requestID uuid.UUID, reason string) (*dto.ModerationRequestResponse, *errors.AppError) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = constants.ReasonModeratorCancelled
	}

	existing, appErr := s.getOwned(ctx, requestID)
	if appErr != nil {
		return nil, appErr
	}
	if existing.ModeratorID != moderatorID {
		return nil, errors.NewAppError(errors.ErrForbidden, "Only the requesting moderator can cancel this request", nil)
	}

	var cancelled *entity.ModerationRequest
	err := s.repo.WithModeratorLock(ctx, moderatorID, func(repo repository.ModerationRepositoryInterface) error {
		current, err := repo.GetByID(ctx, requestID)
		if err != nil {
			return err
		}
		if current == nil {
			appErr = errors.NewAppError(errors.ErrNotFound, "Moderation request not found", nil)
			return appErr
		}
		switch {
		case current.Status.IsTerminal():
			appErr = errors.NewAppError(errors.ErrAlreadyTerminal,
				fmt.Sprintf("Request is already %s", current.Status), nil)
			return appErr
		case !current.Status.CanTransitionTo(entity.StatusCancelled), current.Status == entity.StatusApproved:
			appErr = errors.NewAppError(errors.ErrInvalidStatusTransition,
				"Only pending requests can be cancelled", nil)
			return appErr
		}

		if err := repo.UpdateStatus(ctx, current.ID, repository.StatusUpdate{
			Status:          entity.StatusCancelled,
			ResponseMessage: &reason,
		}); err != nil {
			return err
		}
		current.Status = entity.StatusCancelled
		current.ResponseMessage = &reason
		current.UpdatedAt = s.now()
		cancelled = current
		return nil
	})
	if appErr != nil {
		return nil, appErr
	}
	if err != nil {
		logger.Error("ModerationService:Cancel", err)
		return nil, errors.NewPersistenceError("Failed to cancel request", err)
	}

	s.recordTransition(entity.StatusPending, entity.StatusCancelled)
	logger.Info("ModerationService:Cancel", "request_id", requestID, "moderator_id", moderatorID)
	s.notify(ctx, cancelled.OrganizerID, cancelled, "Moderation request withdrawn",
		fmt.Sprintf("The moderator withdrew from %q: %s", cancelled.ActivityTitle, reason))

	resp := dto.ToModerationRequestResponse(*cancelled)
	return &resp, nil
}

// ===================== Queries =====================

// FindConflictsForActivity lists the moderator's active requests that would
// block a claim on activityID.
func (s *ModerationService) FindConflictsForActivity(ctx context.Context, moderatorID, activityID uuid.UUID) ([]dto.ModerationRequestResponse, *errors.AppError) {
	activity, err := s.repo.GetActivity(ctx, activityID)
	if err != nil {
		logger.Error("ModerationService:FindConflictsForActivity", err)
		return nil, errors.NewPersistenceError("Failed to load activity", err)
	}
	if activity == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Activity not found", nil)
	}

	conflicts, err := s.conflictsFor(ctx, s.repo, moderatorID, activity)
	if err != nil {
		logger.Error("ModerationService:FindConflictsForActivity", err)
		return nil, errors.NewPersistenceError("Failed to load moderator requests", err)
	}
	return dto.ToModerationRequestResponses(conflicts), nil
}

func (s *ModerationService) ListForModerator(ctx context.Context, moderatorID uuid.UUID) ([]dto.ModerationRequestResponse, *errors.AppError) {
	return s.list("ListForModerator", func() ([]entity.ModerationRequest, error) {
		return s.repo.FindByModerator(ctx, moderatorID)
	})
}

// ListModeratorSchedule returns the approved requests ordered by activity start.
func (s *ModerationService) ListModeratorSchedule(ctx context.Context, moderatorID uuid.UUID) ([]dto.ModerationRequestResponse, *errors.AppError) {
	return s.list("ListModeratorSchedule", func() ([]entity.ModerationRequest, error) {
		return s.repo.FindApprovedByModerator(ctx, moderatorID)
	})
}

func (s *ModerationService) ListForEvent(ctx context.Context, organizerID, eventID uuid.UUID) ([]dto.ModerationRequestResponse, *errors.AppError) {
	return s.list("ListForEvent", func() ([]entity.ModerationRequest, error) {
		return s.repo.FindByEvent(ctx, organizerID, eventID)
	})
}

func (s *ModerationService) ListPendingForOrganizer(ctx context.Context, organizerID uuid.UUID) ([]dto.ModerationRequestResponse, *errors.AppError) {
	return s.list("ListPendingForOrganizer", func() ([]entity.ModerationRequest, error) {
		return s.repo.FindPendingByOrganizer(ctx, organizerID)
	})
}

func (s *ModerationService) ListOrganizerEventsWithPending(ctx context.Context, organizerID uuid.UUID) ([]dto.EventPendingResponse, *errors.AppError) {
	summaries, err := s.repo.FindEventsWithPending(ctx, organizerID)
	if err != nil {
		logger.Error("ModerationService:ListOrganizerEventsWithPending", err)
		return nil, errors.NewPersistenceError("Failed to load events", err)
	}
	return dto.ToEventPendingResponses(summaries), nil
}

// ===================== Helpers =====================

// checkClaim loads the activity and rejects a second active claim on it.
func (s *ModerationService) checkClaim(ctx context.Context, repo repository.ModerationRepositoryInterface, moderatorID, activityID uuid.UUID) (*entity.ActivityWindow, *errors.AppError) {
	activity, err := repo.GetActivity(ctx, activityID)
	if err != nil {
		return nil, errors.NewPersistenceError("Failed to load activity", err)
	}
	if activity == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Activity not found", nil)
	}

	existing, err := repo.FindActiveByActivityAndModerator(ctx, activityID, moderatorID)
	if err != nil {
		return nil, errors.NewPersistenceError("Failed to check existing claims", err)
	}
	if existing != nil {
		return nil, errors.NewAppError(errors.ErrDuplicateClaim,
			fmt.Sprintf("You already have a %s request for this activity", existing.Status), nil)
	}
	return activity, nil
}

func (s *ModerationService) conflictsFor(ctx context.Context, repo repository.ModerationRepositoryInterface, moderatorID uuid.UUID, activity *entity.ActivityWindow) ([]entity.ModerationRequest, error) {
	active, err := repo.FindActiveByModerator(ctx, moderatorID)
	if err != nil {
		return nil, err
	}
	return FindConflicts(moderatorID, activity.StartTime, activity.EndTime, excludeActivity(active, activity.ID)), nil
}

func (s *ModerationService) create(ctx context.Context, repo repository.ModerationRepositoryInterface, moderatorID, activityID uuid.UUID, conflictActivityID *uuid.UUID) (*entity.ModerationRequest, error) {
	message := constants.MessageAwaitingConfirmation
	return repo.Create(ctx, entity.ModerationRequest{
		ActivityID:         activityID,
		ModeratorID:        moderatorID,
		Status:             entity.StatusPending,
		ConflictActivityID: conflictActivityID,
		ResponseMessage:    &message,
	})
}

func (s *ModerationService) getOwned(ctx context.Context, requestID uuid.UUID) (*entity.ModerationRequest, *errors.AppError) {
	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		logger.Error("ModerationService:GetByID", err)
		return nil, errors.NewPersistenceError("Failed to load moderation request", err)
	}
	if req == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Moderation request not found", nil)
	}
	return req, nil
}

func (s *ModerationService) list(op string, find func() ([]entity.ModerationRequest, error)) ([]dto.ModerationRequestResponse, *errors.AppError) {
	requests, err := find()
	if err != nil {
		logger.Error("ModerationService:"+op, err)
		return nil, errors.NewPersistenceError("Failed to load moderation requests", err)
	}
	return dto.ToModerationRequestResponses(requests), nil
}

// notify never fails the transition that triggered it.
func (s *ModerationService) notify(ctx context.Context, recipientID uuid.UUID, req *entity.ModerationRequest, title, message string) {
	if s.enqueuer == nil {
		return
	}
	notice := jobs.ModerationNotice{
		RecipientID: recipientID,
		RequestID:   req.ID,
		ActivityID:  req.ActivityID,
		Status:      string(req.Status),
		Title:       title,
		Message:     message,
	}
	if err := s.enqueuer.EnqueueModerationNotice(ctx, notice); err != nil {
		logger.Warn("ModerationService:notify", "request_id", req.ID, "recipient_id", recipientID, "error", err)
	}
}

func (s *ModerationService) recordClaim(appErr *errors.AppError) {
	switch appErr.Code {
	case errors.ErrDuplicateClaim:
		metrics.ModerationClaimOutcomes.WithLabelValues(claimDuplicate).Inc()
	case errors.ErrScheduleConflict:
		metrics.ModerationClaimOutcomes.WithLabelValues(claimConflict).Inc()
	}
}

func (s *ModerationService) recordTransition(from, to entity.RequestStatus) {
	metrics.ModerationTransitions.WithLabelValues(string(from), string(to)).Inc()
}

func conflictError(conflicts []entity.ModerationRequest) *errors.AppError {
	return errors.NewAppError(errors.ErrScheduleConflict,
		fmt.Sprintf("The activity overlaps %d of your active requests", len(conflicts)), nil).
		WithDetails(dto.ToModerationRequestResponses(conflicts))
}
