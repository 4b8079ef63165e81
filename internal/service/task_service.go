package service

import (
	"errors"

	"skillify_backend/internal/model"
	"skillify_backend/internal/repository"
	"skillify_backend/internal/util"

	"gorm.io/gorm"
)

var ErrInvalidTaskStatus = errors.New("status must be todo, doing or done")

const defaultTaskTag = "General"

type TaskInput struct {
	Title   *string
	Status  *string
	Tag     *string
	DueDate *string
}

// TaskService manages the kanban board of a user. Every operation is scoped to
// the owner.
type TaskService struct {
	TaskRepo *repository.TaskRepository
}

func NewTaskService(taskRepo *repository.TaskRepository) *TaskService {
	return &TaskService{TaskRepo: taskRepo}
}

func validStatus(s string) bool {
	switch model.TaskStatus(s) {
	case model.TaskTodo, model.TaskDoing, model.TaskDone:
		return true
	}
	return false
}

func (s *TaskService) List(userID uint) ([]model.Task, error) {
	return s.TaskRepo.FindByUserID(userID)
}

func (s *TaskService) Create(userID uint, in TaskInput) (*model.Task, error) {
	task := &model.Task{
		UserID: userID,
		Status: model.TaskTodo,
		Tag:    defaultTaskTag,
	}
	if in.Title != nil {
		task.Title = *in.Title
	}
	if in.Status != nil && *in.Status != "" {
		if !validStatus(*in.Status) {
			return nil, ErrInvalidTaskStatus
		}
		task.Status = model.TaskStatus(*in.Status)
	}
	if in.Tag != nil && *in.Tag != "" {
		task.Tag = *in.Tag
	}
	if in.DueDate != nil {
		task.DueDate = *in.DueDate
	}

	if err := s.TaskRepo.Create(task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Update(userID, taskID uint, in TaskInput) (*model.Task, error) {
	task, err := s.owned(userID, taskID)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		task.Title = *in.Title
	}
	if in.Status != nil {
		if !validStatus(*in.Status) {
			return nil, ErrInvalidTaskStatus
		}
		task.Status = model.TaskStatus(*in.Status)
	}
	if in.Tag != nil {
		task.Tag = *in.Tag
	}
	if in.DueDate != nil {
		task.DueDate = *in.DueDate
	}
	if err := s.TaskRepo.Update(task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Delete(userID, taskID uint) error {
	task, err := s.owned(userID, taskID)
	if err != nil {
		return err
	}
	return s.TaskRepo.Delete(task)
}

func (s *TaskService) owned(userID, taskID uint) (*model.Task, error) {
	task, err := s.TaskRepo.FindOwned(taskID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	return task, err
}
