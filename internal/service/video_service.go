package service

import (
	"context"
	"errors"

	"skillify_backend/internal/model"
	"skillify_backend/internal/repository"
	"skillify_backend/internal/util"

	"gorm.io/gorm"
)

// VideoService handles likes and comments on videos.
type VideoService struct {
	VideoRepo *repository.VideoRepository
	Dashboard *DashboardService
}

func NewVideoService(videoRepo *repository.VideoRepository, dashboard *DashboardService) *VideoService {
	return &VideoService{VideoRepo: videoRepo, Dashboard: dashboard}
}

// ToggleLike flips the user's like on videoID and reports the new state.
func (s *VideoService) ToggleLike(ctx context.Context, userID uint, videoID string) (bool, error) {
	liked, err := s.VideoRepo.ToggleLike(userID, videoID)
	if err != nil {
		return false, err
	}
	if s.Dashboard != nil {
		s.Dashboard.Invalidate(ctx, userID)
	}
	return liked, nil
}

func (s *VideoService) CountLikes(videoID string) (int64, error) {
	return s.VideoRepo.CountLikes(videoID)
}

func (s *VideoService) IsLiked(userID uint, videoID string) (bool, error) {
	return s.VideoRepo.IsLiked(userID, videoID)
}

func (s *VideoService) AddComment(ctx context.Context, userID uint, videoID, content string) (*model.VideoComment, error) {
	comment := &model.VideoComment{UserID: userID, VideoID: videoID, Content: content}
	if err := s.VideoRepo.CreateComment(comment); err != nil {
		return nil, err
	}
	if s.Dashboard != nil {
		s.Dashboard.Invalidate(ctx, userID)
	}
	return s.VideoRepo.FindComment(comment.ID)
}

func (s *VideoService) Comments(videoID string) ([]model.VideoComment, error) {
	return s.VideoRepo.FindComments(videoID)
}

// DeleteComment removes a comment written by userID.
func (s *VideoService) DeleteComment(ctx context.Context, userID uint, commentID string) error {
	comment, err := s.VideoRepo.FindComment(commentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrNotFound
	}
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		return util.ErrPermissionDenied
	}
	if err := s.VideoRepo.DeleteComment(commentID); err != nil {
		return err
	}
	if s.Dashboard != nil {
		s.Dashboard.Invalidate(ctx, userID)
	}
	return nil
}
