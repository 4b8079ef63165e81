package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"skillify_backend/internal/model"
	"skillify_backend/internal/repository"
	"skillify_backend/internal/util"
	"skillify_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ProfileUpdate carries the editable profile fields; nil leaves a field as is.
type ProfileUpdate struct {
	Username *string
	Bio      *string
	Location *string
	Website  *string
}

type UserService struct {
	UserRepo  *repository.UserRepository
	Storage   *StorageService
	Dashboard *DashboardService
}

func NewUserService(userRepo *repository.UserRepository, storage *StorageService, dashboard *DashboardService) *UserService {
	return &UserService{
		UserRepo:  userRepo,
		Storage:   storage,
		Dashboard: dashboard,
	}
}

func (s *UserService) GetProfile(userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	return user, err
}

func (s *UserService) UpdateProfile(userID uint, in ProfileUpdate) (*model.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	if in.Username != nil && *in.Username != "" && *in.Username != user.Username {
		taken, err := s.UserRepo.ExistsByUsernameOrEmail(*in.Username, "")
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, util.ErrUserExists
		}
		user.Username = *in.Username
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}
	if in.Location != nil {
		user.Location = *in.Location
	}
	if in.Website != nil {
		user.Website = *in.Website
	}

	if err := s.UserRepo.Update(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrUserExists
		}
		return nil, err
	}
	return user, nil
}

// ChangePassword checks current only when the account has a password; Google
// accounts may set their first one.
func (s *UserService) ChangePassword(userID uint, current, next string) error {
	user, err := s.GetProfile(userID)
	if err != nil {
		return err
	}
	if user.PasswordHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
			return util.ErrWrongPassword
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hashed)
	return s.UserRepo.Update(user)
}

func (s *UserService) DeleteAccount(userID uint) error {
	if _, err := s.GetProfile(userID); err != nil {
		return err
	}
	if err := s.UserRepo.Delete(userID); err != nil {
		return err
	}
	logger.Log.Info("Account deleted", zap.Uint("userId", userID))
	return nil
}

// SetXP overwrites the user's XP; the level follows on save.
func (s *UserService) SetXP(ctx context.Context, userID uint, xp int) (*model.Stats, error) {
	if xp < 0 {
		return nil, util.ErrNegativeXP
	}
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}
	user.XP = xp
	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	if s.Dashboard != nil {
		s.Dashboard.Invalidate(ctx, userID)
	}
	stats := user.Stats()
	return &stats, nil
}

func (s *UserService) AddFocusHours(userID uint, hours float64) (float64, error) {
	if hours <= 0 {
		return 0, util.ErrNegativeHours
	}
	user, err := s.GetProfile(userID)
	if err != nil {
		return 0, err
	}
	user.FocusHours += hours
	if err := s.UserRepo.Update(user); err != nil {
		return 0, err
	}
	return user.FocusHours, nil
}

// UploadAvatar stores an image under avatars/ and points the profile at it.
func (s *UserService) UploadAvatar(ctx context.Context, userID uint, originalName string, reader io.Reader, size int64, contentType string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	allowed := false
	for _, a := range util.AllowedAvatarExtensions {
		if ext == a {
			allowed = true
			break
		}
	}
	if !allowed || !util.IsImage(contentType) {
		return "", util.ErrUnsupportedFileType
	}

	user, err := s.GetProfile(userID)
	if err != nil {
		return "", err
	}

	filename := fmt.Sprintf("avatars/user-%d-%d%s", userID, time.Now().UnixNano(), ext)
	url, err := s.Storage.Upload(ctx, filename, reader, size, contentType)
	if err != nil {
		return "", fmt.Errorf("upload avatar: %w", err)
	}

	user.Avatar = url
	if err := s.UserRepo.Update(user); err != nil {
		return "", err
	}
	return url, nil
}
