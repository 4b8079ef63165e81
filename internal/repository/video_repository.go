package repository

import (
	"errors"

	"skillify_backend/internal/model"

	"gorm.io/gorm"
)

// VideoRepository stores likes and comments on videos.
type VideoRepository struct {
	DB *gorm.DB
}

func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{DB: db}
}

// ToggleLike flips the user's like on a video and reports the new state.
func (r *VideoRepository) ToggleLike(userID uint, videoID string) (bool, error) {
	liked := false
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var existing model.VideoLike
		err := tx.Where("user_id = ? AND video_id = ?", userID, videoID).First(&existing).Error
		switch {
		case err == nil:
			return tx.Delete(&existing).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			liked = true
			return tx.Create(&model.VideoLike{UserID: userID, VideoID: videoID}).Error
		default:
			return err
		}
	})
	return liked, err
}

func (r *VideoRepository) CountLikes(videoID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.VideoLike{}).Where("video_id = ?", videoID).Count(&count).Error
	return count, err
}

func (r *VideoRepository) IsLiked(userID uint, videoID string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.VideoLike{}).
		Where("user_id = ? AND video_id = ?", userID, videoID).
		Count(&count).Error
	return count > 0, err
}

func (r *VideoRepository) CountLikesByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.VideoLike{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *VideoRepository) CreateComment(c *model.VideoComment) error {
	return r.DB.Create(c).Error
}

func (r *VideoRepository) FindComment(id string) (*model.VideoComment, error) {
	var c model.VideoComment
	if err := r.DB.Preload("User").Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *VideoRepository) FindComments(videoID string) ([]model.VideoComment, error) {
	var list []model.VideoComment
	err := r.DB.Where("video_id = ?", videoID).
		Preload("User").
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *VideoRepository) DeleteComment(id string) error {
	return r.DB.Where("id = ?", id).Delete(&model.VideoComment{}).Error
}

func (r *VideoRepository) CountCommentsByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.VideoComment{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
