package repository

import (
	"skillify_backend/internal/model"

	"gorm.io/gorm"
)

type TaskRepository struct {
	DB *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{DB: db}
}

func (r *TaskRepository) Create(task *model.Task) error {
	return r.DB.Create(task).Error
}

// FindOwned loads a task only if it belongs to userID.
func (r *TaskRepository) FindOwned(id, userID uint) (*model.Task, error) {
	var task model.Task
	err := r.DB.Where("id = ? AND user_id = ?", id, userID).First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) FindByUserID(userID uint) ([]model.Task, error) {
	var tasks []model.Task
	err := r.DB.Where("user_id = ?", userID).Order("id ASC").Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepository) Update(task *model.Task) error {
	return r.DB.Save(task).Error
}

func (r *TaskRepository) Delete(task *model.Task) error {
	return r.DB.Delete(task).Error
}

func (r *TaskRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Task{}).Count(&count).Error
	return count, err
}

func (r *TaskRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Task{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *TaskRepository) FindLatest(limit int) ([]model.Task, error) {
	var tasks []model.Task
	err := r.DB.Preload("User").Order("created_at DESC").Limit(limit).Find(&tasks).Error
	return tasks, err
}
