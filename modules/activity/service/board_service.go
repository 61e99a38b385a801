package service

import (
	"context"
	"fmt"
	"path"
	"strings"

	"summit-scheduler/core/constants"
	coreEntity "summit-scheduler/core/entity"
	"summit-scheduler/core/errors"
	"summit-scheduler/core/logger"
	"summit-scheduler/core/storage"
	"summit-scheduler/core/utils"
	"summit-scheduler/modules/activity/dto"
	"summit-scheduler/modules/activity/entity"
	"summit-scheduler/modules/activity/repository"
	moderationEntity "summit-scheduler/modules/moderation/entity"

	"github.com/google/uuid"
)

const defaultContentType = "application/octet-stream"

// ScheduleLookup is the part of the moderation store the board reads to
// decide who may edit an activity.
type ScheduleLookup interface {
	GetActivity(ctx context.Context, activityID uuid.UUID) (*moderationEntity.ActivityWindow, error)
	FindApprovedByModerator(ctx context.Context, moderatorID uuid.UUID) ([]moderationEntity.ModerationRequest, error)
}

// BoardService manages the tasks and resources of an activity. Writes are
// open to the event organizer and to the moderator whose claim on the
// activity was approved.
type BoardService struct {
	repo     repository.BoardRepositoryInterface
	schedule ScheduleLookup
	storage  storage.ObjectStorage
}

type BoardServiceInterface interface {
	GetBoard(ctx context.Context, activityID uuid.UUID) (*dto.BoardResponse, *errors.AppError)
	AddTask(ctx context.Context, userID uuid.UUID, role coreEntity.Role, activityID uuid.UUID, req *dto.CreateTaskRequest) (*dto.TaskResponse, *errors.AppError)
	DeleteTask(ctx context.Context, userID uuid.UUID, role coreEntity.Role, activityID, taskID uuid.UUID) *errors.AppError
	AddResource(ctx context.Context, userID uuid.UUID, role coreEntity.Role, activityID uuid.UUID, upload dto.ResourceUpload) (*dto.ResourceResponse, *errors.AppError)
	DeleteResource(ctx context.Context, userID uuid.UUID, role coreEntity.Role, activityID, resourceID uuid.UUID) *errors.AppError
}

var _ BoardServiceInterface = (*BoardService)(nil)

// NewBoardService accepts a nil storage; resource upload is then disabled.
func NewBoardService(repo repository.BoardRepositoryInterface, schedule ScheduleLookup, store storage.ObjectStorage) *BoardService {
	return &BoardService{
		repo:     repo,
		schedule: schedule,
		storage:  store,
	}
}

func (s *BoardService) GetBoard(ctx context.Context, activityID uuid.UUID) (*dto.BoardResponse, *errors.AppError) {
	activity, appErr := s.getActivity(ctx, activityID)
	if appErr != nil {
		return nil, appErr
	}

	tasks, err := s.repo.GetTasks(ctx, activityID)
	if err != nil {
		return nil, errors.NewPersistenceError("Failed to get tasks", err)
	}
	resources, err := s.repo.GetResources(ctx, activityID)
	if err != nil {
		return nil, errors.NewPersistenceError("Failed to get resources", err)
	}

	resp := &dto.BoardResponse{
		ActivityID:    activity.ID,
		ActivityTitle: activity.Title,
		EventID:       activity.EventID,
		Tasks:         make([]dto.TaskResponse, 0, len(tasks)),
		Resources:     make([]dto.ResourceResponse, 0, len(resources)),
	}
	for _, t := range tasks {
		resp.Tasks = append(resp.Tasks, dto.ToTaskResponse(t))
	}
	for _, r := range resources {
		resp.Resources = append(resp.Resources, dto.ToResourceResponse(r, s.url(r.ObjectKey)))
	}
	return resp, nil
}

// ===================== Tasks =====================

func (s *BoardService) AddTask(ctx context.Context, userID uuid.UUID, role coreEntity.Role, activityID uuid.UUID, req *dto.CreateTaskRequest) (*dto.TaskResponse, *errors.AppError) {
	if req == nil {
		return nil, errors.NewValidationError("Request body is required")
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, errors.NewValidationError("Task title is required")
	}
	if req.ParticipantID != nil && *req.ParticipantID == uuid.Nil {
		return nil, errors.NewValidationError("Participant ID is invalid")
	}

	if appErr := s.authorize(ctx, userID, role, activityID); appErr != nil {
		return nil, appErr
	}

	task := entity.Task{
		ActivityID:    activityID,
		Title:         title,
		ParticipantID: req.ParticipantID,
		CreatedBy:     userID,
	}
	if desc := strings.TrimSpace(req.Description); desc != "" {
		task.Description = &desc
	}

	created, err := s.repo.CreateTask(ctx, task)
	if err != nil {
		return nil, errors.NewPersistenceError("Failed to add task", err)
	}

	logger.Info("BoardService:AddTask", "activity_id", activityID, "task_id", created.ID, "user_id", userID)
	resp := dto.ToTaskResponse(*created)
	return &resp, nil
}

func (s *BoardService) DeleteTask(ctx context.Context, userID uuid.UUID, role coreEntity.Role, activityID, taskID uuid.UUID) *errors.AppError {
	if appErr := s.authorize(ctx, userID, role, activityID); appErr != nil {
		return appErr
	}

	found, err := s.repo.DeleteTask(ctx, activityID, taskID)
	if err != nil {
		return errors.NewPersistenceError("Failed to delete task", err)
	}
	if !found {
		return errors.NewAppError(errors.ErrNotFound, "Task not found", nil)
	}

	logger.Info("BoardService:DeleteTask", "activity_id", activityID, "task_id", taskID, "user_id", userID)
	return nil
}

// ===================== Resources =====================

// AddResource stores the file first and the row second. A failed insert
// removes the stored object again.
func (s *BoardService) AddResource(ctx context.Context, userID uuid.UUID, role coreEntity.Role, activityID uuid.UUID, upload dto.ResourceUpload) (*dto.ResourceResponse, *errors.AppError) {
	if s.storage == nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Resource storage is not configured", nil)
	}
	name := strings.TrimSpace(upload.Name)
	if name == "" {
		name = strings.TrimSpace(path.Base(upload.FileName))
	}
	if name == "" || name == "." || name == "/" {
		return nil, errors.NewValidationError("Resource name is required")
	}
	if upload.Body == nil || upload.Size <= 0 || upload.Size > constants.MaxResourceSize {
		return nil, errors.NewValidationError(fmt.Sprintf("Resource must be between 1 byte and %d bytes", constants.MaxResourceSize))
	}
	contentType := upload.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	if appErr := s.authorize(ctx, userID, role, activityID); appErr != nil {
		return nil, appErr
	}

	key := path.Join("activities", activityID.String(), "resources",
		utils.GenerateID()+strings.ToLower(path.Ext(upload.FileName)))
	if err := s.storage.Put(ctx, key, upload.Body, upload.Size, contentType); err != nil {
		return nil, errors.NewPersistenceError("Failed to store resource", err)
	}

	created, err := s.repo.CreateResource(ctx, entity.Resource{
		ActivityID:  activityID,
		Name:        name,
		ObjectKey:   key,
		ContentType: contentType,
		SizeBytes:   upload.Size,
		UploadedBy:  userID,
	})
	if err != nil {
		s.removeObject(ctx, key)
		return nil, errors.NewPersistenceError("Failed to save resource", err)
	}

	logger.Info("BoardService:AddResource", "activity_id", activityID, "resource_id", created.ID, "key", key)
	resp := dto.ToResourceResponse(*created, s.url(key))
	return &resp, nil
}

func (s *BoardService) DeleteResource(ctx context.Context, userID uuid.UUID, role coreEntity.Role, activityID, resourceID uuid.UUID) *errors.AppError {
	if appErr := s.authorize(ctx, userID, role, activityID); appErr != nil {
		return appErr
	}

	resource, err := s.repo.GetResource(ctx, activityID, resourceID)
	if err != nil {
		return errors.NewPersistenceError("Failed to get resource", err)
	}
	if resource == nil {
		return errors.NewAppError(errors.ErrNotFound, "Resource not found", nil)
	}

	found, err := s.repo.DeleteResource(ctx, activityID, resourceID)
	if err != nil {
		return errors.NewPersistenceError("Failed to delete resource", err)
	}
	if !found {
		return errors.NewAppError(errors.ErrNotFound, "Resource not found", nil)
	}
	s.removeObject(ctx, resource.ObjectKey)

	logger.Info("BoardService:DeleteResource", "activity_id", activityID, "resource_id", resourceID, "user_id", userID)
	return nil
}

// ===================== Helpers =====================

func (s *BoardService) getActivity(ctx context.Context, activityID uuid.UUID) (*moderationEntity.ActivityWindow, *errors.AppError) {
	activity, err := s.schedule.GetActivity(ctx, activityID)
	if err != nil {
		return nil, errors.NewPersistenceError("Failed to get activity", err)
	}
	if activity == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Activity not found", nil)
	}
	return activity, nil
}

// authorize lets the event organizer and the approved moderator of the
// activity through.
func (s *BoardService) authorize(ctx context.Context, userID uuid.UUID, role coreEntity.Role, activityID uuid.UUID) *errors.AppError {
	activity, appErr := s.getActivity(ctx, activityID)
	if appErr != nil {
		return appErr
	}

	switch role {
	case coreEntity.RoleOrganizer:
		if activity.OrganizerID == userID {
			return nil
		}
	case coreEntity.RoleModerator:
		approved, err := s.schedule.FindApprovedByModerator(ctx, userID)
		if err != nil {
			return errors.NewPersistenceError("Failed to check moderator schedule", err)
		}
		for _, req := range approved {
			if req.ActivityID == activityID {
				return nil
			}
		}
	}

	logger.Warn("BoardService:Authorize:Denied", "activity_id", activityID, "user_id", userID, "role", role)
	return errors.NewAppError(errors.ErrForbidden,
		"Only the event organizer or the approved moderator can change this activity", nil)
}

func (s *BoardService) removeObject(ctx context.Context, key string) {
	if s.storage == nil {
		return
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		logger.Warn("BoardService:RemoveObject", "key", key, "error", err)
	}
}

func (s *BoardService) url(key string) string {
	if s.storage == nil {
		return ""
	}
	return s.storage.URL(key)
}
