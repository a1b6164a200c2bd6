package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/camma-system/models"
	"github.com/Dosada05/camma-system/repositories"
)

type TaskService interface {
	CreateTask(ctx context.Context, creatorID int, input CreateTaskInput) (*models.Task, error)
	GetTask(ctx context.Context, id int) (*models.Task, error)
	ListTasks(ctx context.Context, currentUserID int, assignedToMe bool, page repositories.Pagination) ([]models.Task, error)
	UpdateTask(ctx context.Context, id int, input TaskUpdate) (*models.Task, error)
	DeleteTask(ctx context.Context, id, currentUserID int) error
}

type CreateTaskInput struct {
	Title          string               `json:"title"`
	Description    *string              `json:"description"`
	Status         *models.TaskStatus   `json:"status"`
	Priority       *models.TaskPriority `json:"priority"`
	AssignedToID   *int                 `json:"assigned_to_id"`
	DueDate        *time.Time           `json:"due_date"`
	EventID        *int                 `json:"event_id"`
	ChecklistItems []string             `json:"checklist_items"`
}

// TaskUpdate: ChecklistItems != nil заменяет чек-лист целиком.
type TaskUpdate struct {
	Title          *string              `json:"title"`
	Description    *string              `json:"description"`
	Status         *models.TaskStatus   `json:"status"`
	Priority       *models.TaskPriority `json:"priority"`
	AssignedToID   *int                 `json:"assigned_to_id"`
	DueDate        *time.Time           `json:"due_date"`
	EventID        *int                 `json:"event_id"`
	ChecklistItems []string             `json:"checklist_items"`
}

type taskService struct {
	taskRepo  repositories.TaskRepository
	relations *RelationChecker
	now       func() time.Time
}

func NewTaskService(taskRepo repositories.TaskRepository, relations *RelationChecker) TaskService {
	return &taskService{
		taskRepo:  taskRepo,
		relations: relations,
		now:       time.Now,
	}
}

func validateTask(v *validator, t *models.Task) {
	v.length(t.Title, "title", 1, 200)
	v.check(t.Status.IsValid(), "status", "unknown task status")
	v.check(t.Priority.IsValid(), "priority", "must be one of low, medium, high")
	for _, item := range t.ChecklistItems {
		if item == "" {
			v.check(false, "checklist_items", "items must not be empty")
			break
		}
	}
}

func (s *taskService) checkTaskRelations(ctx context.Context, assignedTo, eventID *int) error {
	if assignedTo != nil {
		if err := s.relations.User(ctx, *assignedTo); err != nil {
			return err
		}
	}
	if eventID != nil {
		if err := s.relations.Event(ctx, *eventID); err != nil {
			return err
		}
	}
	return nil
}

func (s *taskService) CreateTask(ctx context.Context, creatorID int, in CreateTaskInput) (*models.Task, error) {
	task := &models.Task{
		Title:          in.Title,
		Description:    in.Description,
		Status:         models.TaskTodo,
		Priority:       models.PriorityMedium,
		AssignedToID:   in.AssignedToID,
		CreatedByID:    creatorID,
		DueDate:        in.DueDate,
		EventID:        in.EventID,
		ChecklistItems: in.ChecklistItems,
	}
	setIfNotNil(&task.Status, in.Status)
	setIfNotNil(&task.Priority, in.Priority)
	if task.ChecklistItems == nil {
		task.ChecklistItems = []string{}
	}
	if task.Status == models.TaskDone {
		now := s.now().UTC()
		task.CompletedDate = &now
	}

	v := newValidator()
	validateTask(v, task)
	if err := v.err(); err != nil {
		return nil, err
	}
	if err := s.checkTaskRelations(ctx, in.AssignedToID, in.EventID); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, mapTaskRepoError(err)
	}
	return task, nil
}

func (s *taskService) GetTask(ctx context.Context, id int) (*models.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapTaskRepoError(err)
	}
	return task, nil
}

func (s *taskService) ListTasks(ctx context.Context, currentUserID int, assignedToMe bool, page repositories.Pagination) ([]models.Task, error) {
	var assignedTo *int
	if assignedToMe {
		assignedTo = &currentUserID
	}
	tasks, err := s.taskRepo.List(ctx, assignedTo, page)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

func (s *taskService) UpdateTask(ctx context.Context, id int, in TaskUpdate) (*models.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapTaskRepoError(err)
	}
	wasDone := task.Status == models.TaskDone

	setIfNotNil(&task.Title, in.Title)
	setPtrIfNotNil(&task.Description, in.Description)
	setIfNotNil(&task.Status, in.Status)
	setIfNotNil(&task.Priority, in.Priority)
	setPtrIfNotNil(&task.AssignedToID, in.AssignedToID)
	setPtrIfNotNil(&task.DueDate, in.DueDate)
	setPtrIfNotNil(&task.EventID, in.EventID)
	if in.ChecklistItems != nil {
		task.ChecklistItems = in.ChecklistItems
	}

	switch {
	case task.Status == models.TaskDone && !wasDone:
		now := s.now().UTC()
		task.CompletedDate = &now
	case task.Status != models.TaskDone:
		task.CompletedDate = nil
	}

	v := newValidator()
	validateTask(v, task)
	if err := v.err(); err != nil {
		return nil, err
	}
	if err := s.checkTaskRelations(ctx, in.AssignedToID, in.EventID); err != nil {
		return nil, err
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, mapTaskRepoError(err)
	}
	return task, nil
}

// DeleteTask разрешён только создателю или исполнителю задачи.
func (s *taskService) DeleteTask(ctx context.Context, id, currentUserID int) error {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return mapTaskRepoError(err)
	}
	isAssignee := task.AssignedToID != nil && *task.AssignedToID == currentUserID
	if task.CreatedByID != currentUserID && !isAssignee {
		return ErrForbiddenOperation
	}
	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return mapTaskRepoError(err)
	}
	return nil
}

func mapTaskRepoError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrTaskNotFound):
		return ErrTaskNotFound
	case errors.Is(err, repositories.ErrTaskInvalidReference):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	default:
		return err
	}
}
