package service

import (
	"skillify_backend/internal/model"
	"skillify_backend/internal/repository"
	"skillify_backend/internal/util"
)

type CommunityService struct {
	PostRepo *repository.PostRepository
	UserRepo *repository.UserRepository
}

func NewCommunityService(postRepo *repository.PostRepository, userRepo *repository.UserRepository) *CommunityService {
	return &CommunityService{PostRepo: postRepo, UserRepo: userRepo}
}

// ListPosts returns one page of posts, newest first, with their authors.
func (s *CommunityService) ListPosts(page, limit int) ([]model.Post, int64, error) {
	return s.PostRepo.FindWithPagination((page-1)*limit, limit)
}

func (s *CommunityService) CreatePost(userID uint, content string) (*model.Post, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	post := &model.Post{
		UserID:         userID,
		Content:        content,
		AuthorName:     user.Username,
		AuthorInitials: util.Initials(user.Username),
	}
	if err := s.PostRepo.Create(post); err != nil {
		return nil, err
	}
	return s.PostRepo.FindByID(post.ID)
}
