package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"time"

	"summit-scheduler/core/cache"
	"summit-scheduler/core/constants"
	"summit-scheduler/core/errors"
	"summit-scheduler/core/logger"
	"summit-scheduler/core/metrics"
	"summit-scheduler/core/storage"
	"summit-scheduler/core/utils"
	"summit-scheduler/modules/event/dto"
	"summit-scheduler/modules/event/entity"
	"summit-scheduler/modules/event/repository"

	"github.com/google/uuid"
)

var allowedLogoTypes = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/webp":    ".webp",
	"image/svg+xml": ".svg",
}

type EventServiceConfig struct {
	ActivityDuration time.Duration
	BreakDuration    time.Duration
	MaxEventDuration time.Duration
	SlotCacheTTL     time.Duration
}

// EventService builds events out of planner slots and keeps the per-event
// slot list cached.
type EventService struct {
	repo        repository.EventRepositoryInterface
	planner     *SlotPlanner
	cache       cache.Cache
	storage     storage.ObjectStorage
	maxDuration time.Duration
	cacheTTL    time.Duration
	now         func() time.Time
}

type EventServiceInterface interface {
	PreviewSlots(ctx context.Context, req *dto.PreviewSlotsRequest) (*dto.SlotsResponse, *errors.AppError)
	CreateEvent(ctx context.Context, organizerID uuid.UUID, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError)
	GetEvent(ctx context.Context, eventID uuid.UUID) (*dto.EventResponse, *errors.AppError)
	GetOrganizerEvents(ctx context.Context, organizerID uuid.UUID) ([]dto.EventResponse, *errors.AppError)
	AvailableSlots(ctx context.Context, eventID uuid.UUID) (*dto.SlotsResponse, *errors.AppError)
	AddActivity(ctx context.Context, organizerID uuid.UUID, eventID uuid.UUID, req *dto.ActivityInput) (*dto.ActivityResponse, *errors.AppError)
	UploadLogo(ctx context.Context, organizerID uuid.UUID, eventID uuid.UUID, body io.Reader, size int64, contentType string) (*dto.EventResponse, *errors.AppError)
}

var _ EventServiceInterface = (*EventService)(nil)

// NewEventService accepts a nil cache or storage; slot caching and logo
// upload are then disabled.
func NewEventService(repo repository.EventRepositoryInterface, c cache.Cache, store storage.ObjectStorage, cfg EventServiceConfig) *EventService {
	maxDuration := cfg.MaxEventDuration
	if maxDuration <= 0 {
		maxDuration = 24 * time.Hour
	}
	ttl := cfg.SlotCacheTTL
	if ttl <= 0 {
		ttl = constants.DefaultSlotCacheTTL
	}
	return &EventService{
		repo:        repo,
		planner:     NewSlotPlanner(cfg.ActivityDuration, cfg.BreakDuration),
		cache:       c,
		storage:     store,
		maxDuration: maxDuration,
		cacheTTL:    ttl,
		now:         time.Now,
	}
}

// ===================== Slots =====================

func (s *EventService) PreviewSlots(ctx context.Context, req *dto.PreviewSlotsRequest) (*dto.SlotsResponse, *errors.AppError) {
	if req == nil {
		return nil, errors.NewValidationError("Request body is required")
	}
	if appErr := s.validateWindow(req.StartTime, req.EndTime); appErr != nil {
		return nil, appErr
	}

	drafts := make([]entity.Activity, 0, len(req.Activities))
	for _, w := range req.Activities {
		drafts = append(drafts, entity.Activity{StartTime: w.StartTime, EndTime: w.EndTime})
	}

	slots := s.planner.ComputeAvailableSlots(req.StartTime, req.EndTime, drafts)
	return s.toSlotsResponse(nil, slots), nil
}

func (s *EventService) AvailableSlots(ctx context.Context, eventID uuid.UUID) (*dto.SlotsResponse, *errors.AppError) {
	key := slotCacheKey(eventID)
	if s.cache != nil {
		var cached dto.SlotsResponse
		found, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			logger.Warn("EventService:AvailableSlots:CacheGet", "event_id", eventID, "error", err)
		} else if found {
			metrics.SlotComputations.WithLabelValues("hit").Inc()
			return &cached, nil
		}
	}

	event, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewPersistenceError("Failed to get event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}

	activities, err := s.repo.GetActivitiesByEvent(ctx, eventID)
	if err != nil {
		return nil, errors.NewPersistenceError("Failed to get activities", err)
	}

	metrics.SlotComputations.WithLabelValues("miss").Inc()
	resp := s.toSlotsResponse(&event.ID, s.planner.ComputeAvailableSlots(event.StartTime, event.EndTime, activities))

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, resp, s.cacheTTL); err != nil {
			logger.Warn("EventService:AvailableSlots:CacheSet", "event_id", eventID, "error", err)
		}
	}
	return resp, nil
}

// ===================== Events =====================

func (s *EventService) CreateEvent(ctx context.Context, organizerID uuid.UUID, req *dto.CreateEventRequest) (*dto.EventResponse, *errors.AppError) {
	if req == nil {
		return nil, errors.NewValidationError("Request body is required")
	}
	if appErr := s.validateCreate(req); appErr != nil {
		return nil, appErr
	}

	event := entity.Event{
		OrganizerID: organizerID,
		Title:       strings.TrimSpace(req.Title),
		Slug:        utils.GenerateSlug(req.Title),
		Description: optional(req.Description),
		Direction:   strings.TrimSpace(req.Direction),
		City:        strings.TrimSpace(req.City),
		StartTime:   req.StartTime.UTC(),
		EndTime:     req.EndTime.UTC(),
	}

	activities := make([]entity.ActivityWithJury, 0, len(req.Activities))
	for _, in := range req.Activities {
		activities = append(activities, toActivity(in))
	}
	sort.SliceStable(activities, func(i, j int) bool {
		return activities[i].StartTime.Before(activities[j].StartTime)
	})

	details, err := s.repo.CreateEvent(ctx, event, activities)
	if err != nil {
		return nil, errors.NewPersistenceError("Failed to create event", err)
	}

	logger.Info("EventService:CreateEvent:Created",
		"event_id", details.Event.ID,
		"organizer_id", organizerID,
		"activities", len(details.Activities))

	return dto.ToEventResponse(&details.Event, details.Activities, s.logoURL(&details.Event), s.now()), nil
}

func (s *EventService) GetEvent(ctx context.Context, eventID uuid.UUID) (*dto.EventResponse, *errors.AppError) {
	event, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewPersistenceError("Failed to get event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}

	activities, err := s.repo.GetActivitiesByEvent(ctx, eventID)
	if err != nil {
		return nil, errors.NewPersistenceError("Failed to get activities", err)
	}
	jury, err := s.repo.GetJuryByEvent(ctx, eventID)
	if err != nil {
		return nil, errors.NewPersistenceError("Failed to get jury", err)
	}

	return dto.ToEventResponse(event, withJury(activities, jury), s.logoURL(event), s.now()), nil
}

func (s *EventService) GetOrganizerEvents(ctx context.Context, organizerID uuid.UUID) ([]dto.EventResponse, *errors.AppError) {
	events, err := s.repo.GetEventsByOrganizer(ctx, organizerID)
	if err != nil {
		return nil, errors.NewPersistenceError("Failed to get events", err)
	}

	result := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		result = append(result, *dto.ToEventResponse(&events[i], nil, s.logoURL(&events[i]), s.now()))
	}
	return result, nil
}

// AddActivity schedules one more activity into a free slot of a stored
// event. The slot must be one the planner currently offers.
func (s *EventService) AddActivity(ctx context.Context, organizerID uuid.UUID, eventID uuid.UUID, req *dto.ActivityInput) (*dto.ActivityResponse, *errors.AppError) {
	if req == nil {
		return nil, errors.NewValidationError("Request body is required")
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, errors.NewValidationError("Activity title is required")
	}

	var (
		saved  *entity.ActivityWithJury
		appErr *errors.AppError
	)
	err := s.repo.WithEventLock(ctx, eventID, func(repo repository.EventRepositoryInterface) error {
		event, err := repo.GetEventByID(ctx, eventID)
		if err != nil {
			return err
		}
		if event == nil {
			appErr = errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
			return nil
		}
		if event.OrganizerID != organizerID {
			appErr = errors.NewAppError(errors.ErrForbidden, "Only the event organizer can add activities", nil)
			return nil
		}

		existing, err := repo.GetActivitiesByEvent(ctx, eventID)
		if err != nil {
			return err
		}
		if !s.planner.IsAvailable(event.StartTime, event.EndTime, existing, req.StartTime, req.EndTime) {
			appErr = errors.NewValidationError("Selected time is not an available slot")
			return nil
		}

		activity := toActivity(*req)
		activity.EventID = eventID
		saved, err = repo.AddActivity(ctx, activity)
		return err
	})
	if err != nil {
		return nil, errors.NewPersistenceError("Failed to add activity", err)
	}
	if appErr != nil {
		return nil, appErr
	}

	s.invalidateSlots(ctx, eventID)
	resp := dto.ToActivityResponse(*saved, s.now())
	return &resp, nil
}

func (s *EventService) UploadLogo(ctx context.Context, organizerID uuid.UUID, eventID uuid.UUID, body io.Reader, size int64, contentType string) (*dto.EventResponse, *errors.AppError) {
	if s.storage == nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Logo storage is not configured", nil)
	}
	ext, ok := allowedLogoTypes[contentType]
	if !ok {
		return nil, errors.NewValidationError("Logo must be a PNG, JPEG, WebP or SVG image")
	}
	if size <= 0 || size > constants.MaxLogoSize {
		return nil, errors.NewValidationError(fmt.Sprintf("Logo must be between 1 byte and %d bytes", constants.MaxLogoSize))
	}

	event, err := s.repo.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewPersistenceError("Failed to get event", err)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}
	if event.OrganizerID != organizerID {
		return nil, errors.NewAppError(errors.ErrForbidden, "Only the event organizer can change the logo", nil)
	}

	key := path.Join("events", eventID.String(), "logo-"+utils.GenerateID()+ext)
	if err := s.storage.Put(ctx, key, body, size, contentType); err != nil {
		return nil, errors.NewPersistenceError("Failed to store logo", err)
	}
	if err := s.repo.UpdateLogo(ctx, eventID, key); err != nil {
		return nil, errors.NewPersistenceError("Failed to save logo", err)
	}
	if event.LogoKey != nil && *event.LogoKey != "" {
		if err := s.storage.Delete(ctx, *event.LogoKey); err != nil {
			logger.Warn("EventService:UploadLogo:DeletePrevious", "event_id", eventID, "key", *event.LogoKey, "error", err)
		}
	}

	logger.Info("EventService:UploadLogo:Stored", "event_id", eventID, "key", key)
	return s.GetEvent(ctx, eventID)
}

// ===================== Validation =====================

func (s *EventService) validateWindow(start, end time.Time) *errors.AppError {
	if start.IsZero() || end.IsZero() {
		return errors.NewValidationError("Event start and end time are required")
	}
	if !end.After(start) {
		return errors.NewValidationError("Event end time must be after its start time")
	}
	if end.Sub(start) > s.maxDuration {
		return errors.NewValidationError(fmt.Sprintf("Event cannot last longer than %s", s.maxDuration))
	}
	return nil
}

func (s *EventService) validateCreate(req *dto.CreateEventRequest) *errors.AppError {
	if strings.TrimSpace(req.Title) == "" {
		return errors.NewValidationError("Event title is required")
	}
	if strings.TrimSpace(req.Direction) == "" {
		return errors.NewValidationError("Event direction is required")
	}
	if strings.TrimSpace(req.City) == "" {
		return errors.NewValidationError("Event city is required")
	}
	if appErr := s.validateWindow(req.StartTime, req.EndTime); appErr != nil {
		return appErr
	}
	if len(req.Activities) == 0 {
		return errors.NewValidationError("At least one activity is required")
	}

	windows := make([]dto.ActivityInput, len(req.Activities))
	copy(windows, req.Activities)
	sort.SliceStable(windows, func(i, j int) bool {
		return windows[i].StartTime.Before(windows[j].StartTime)
	})

	for i, a := range windows {
		if strings.TrimSpace(a.Title) == "" {
			return errors.NewValidationError("Every activity needs a title")
		}
		if a.EndTime.Sub(a.StartTime) != s.planner.ActivityDuration {
			return errors.NewValidationError(fmt.Sprintf("Activity %q must last exactly %s", a.Title, s.planner.ActivityDuration))
		}
		if a.StartTime.Before(req.StartTime) || a.EndTime.After(req.EndTime) {
			return errors.NewValidationError(fmt.Sprintf("Activity %q is outside the event window", a.Title))
		}
		if i == 0 {
			continue
		}
		prev := windows[i-1]
		if utils.Overlaps(prev.StartTime, prev.EndTime, a.StartTime, a.EndTime) {
			return errors.NewValidationError(fmt.Sprintf("Activities %q and %q overlap", prev.Title, a.Title))
		}
		if a.StartTime.Before(prev.EndTime.Add(s.planner.BreakDuration)) {
			return errors.NewValidationError(fmt.Sprintf("Activities %q and %q need a break of at least %s between them",
				prev.Title, a.Title, s.planner.BreakDuration))
		}
	}
	return nil
}

// ===================== Helpers =====================

func (s *EventService) toSlotsResponse(eventID *uuid.UUID, slots []TimeSlot) *dto.SlotsResponse {
	out := make([]dto.SlotResponse, 0, len(slots))
	for _, slot := range slots {
		out = append(out, dto.SlotResponse{StartTime: slot.Start(), EndTime: slot.End()})
	}
	return &dto.SlotsResponse{
		EventID:                 eventID,
		ActivityDurationMinutes: int(s.planner.ActivityDuration / time.Minute),
		BreakMinutes:            int(s.planner.BreakDuration / time.Minute),
		Slots:                   out,
	}
}

func (s *EventService) invalidateSlots(ctx context.Context, eventID uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, slotCacheKey(eventID)); err != nil {
		logger.Warn("EventService:InvalidateSlots", "event_id", eventID, "error", err)
	}
}

func (s *EventService) logoURL(event *entity.Event) string {
	if event.LogoKey == nil || s.storage == nil {
		return ""
	}
	return s.storage.URL(*event.LogoKey)
}

func slotCacheKey(eventID uuid.UUID) string {
	return constants.SlotCacheKeyPrefix + eventID.String()
}

func toActivity(in dto.ActivityInput) entity.ActivityWithJury {
	seen := make(map[uuid.UUID]struct{}, len(in.JuryIDs))
	jury := make([]uuid.UUID, 0, len(in.JuryIDs))
	for _, id := range in.JuryIDs {
		if _, dup := seen[id]; dup || id == uuid.Nil {
			continue
		}
		seen[id] = struct{}{}
		jury = append(jury, id)
	}
	return entity.ActivityWithJury{
		Activity: entity.Activity{
			Title:       strings.TrimSpace(in.Title),
			Description: optional(in.Description),
			StartTime:   in.StartTime.UTC(),
			EndTime:     in.EndTime.UTC(),
		},
		JuryIDs: jury,
	}
}

// withJury attaches jury ids to activities, keeping the activity order.
func withJury(activities []entity.Activity, jury []entity.ActivityJury) []entity.ActivityWithJury {
	byActivity := make(map[uuid.UUID][]uuid.UUID, len(activities))
	for _, j := range jury {
		byActivity[j.ActivityID] = append(byActivity[j.ActivityID], j.JuryID)
	}
	out := make([]entity.ActivityWithJury, 0, len(activities))
	for _, a := range activities {
		out = append(out, entity.ActivityWithJury{Activity: a, JuryIDs: byActivity[a.ID]})
	}
	return out
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
