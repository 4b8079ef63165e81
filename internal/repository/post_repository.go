package repository

import (
	"skillify_backend/internal/model"

	"gorm.io/gorm"
)

type PostRepository struct {
	DB *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{DB: db}
}

func (r *PostRepository) FindWithPagination(offset, limit int) ([]model.Post, int64, error) {
	var posts []model.Post
	var total int64

	if err := r.DB.Model(&model.Post{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.DB.Preload("User").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error
	return posts, total, err
}

func (r *PostRepository) Create(post *model.Post) error {
	return r.DB.Create(post).Error
}

func (r *PostRepository) FindByID(id string) (*model.Post, error) {
	var post model.Post
	if err := r.DB.Preload("User").Where("id = ?", id).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PostRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Post{}).Count(&count).Error
	return count, err
}

func (r *PostRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Post{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *PostRepository) FindLatest(limit int) ([]model.Post, error) {
	var posts []model.Post
	err := r.DB.Preload("User").Order("created_at DESC").Limit(limit).Find(&posts).Error
	return posts, err
}
