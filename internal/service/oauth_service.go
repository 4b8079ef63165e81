package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"

	"skillify_backend/internal/config"
	"skillify_backend/internal/model"
	"skillify_backend/internal/repository"
	"skillify_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

var (
	ErrOAuthDisabled = errors.New("google login is not configured")
	ErrOAuthProfile  = errors.New("google profile has no email")

	nonUsernameChars = regexp.MustCompile(`[^a-zA-Z0-9_]+`)
)

type GoogleProfile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type OAuthService struct {
	Auth     *AuthService
	UserRepo *repository.UserRepository
	Config   *oauth2.Config
}

func NewOAuthService(auth *AuthService, userRepo *repository.UserRepository, cfg *config.OAuthConfig) *OAuthService {
	s := &OAuthService{Auth: auth, UserRepo: userRepo}
	if cfg.GoogleEnabled() {
		s.Config = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"profile", "email"},
			Endpoint:     google.Endpoint,
		}
	}
	return s
}

func (s *OAuthService) Enabled() bool {
	return s.Config != nil
}

// NewState returns a random value to round-trip through the consent screen.
func NewState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func (s *OAuthService) AuthCodeURL(state string) (string, error) {
	if !s.Enabled() {
		return "", ErrOAuthDisabled
	}
	return s.Config.AuthCodeURL(state), nil
}

// HandleCallback exchanges the authorization code and signs the Google user in.
func (s *OAuthService) HandleCallback(ctx context.Context, code string) (*LoginResult, error) {
	if !s.Enabled() {
		return nil, ErrOAuthDisabled
	}
	token, err := s.Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	resp, err := s.Config.Client(ctx, token).Get(googleUserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("fetch google profile: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch google profile: status %d", resp.StatusCode)
	}

	var profile GoogleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decode google profile: %w", err)
	}
	return s.LoginWithProfile(profile)
}

// LoginWithProfile finds the account linked to the Google id, links an account
// with the same email, or creates a verified one.
func (s *OAuthService) LoginWithProfile(profile GoogleProfile) (*LoginResult, error) {
	if profile.Email == "" || profile.ID == "" {
		return nil, ErrOAuthProfile
	}

	user, err := s.UserRepo.FindByGoogleID(profile.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if user == nil {
		user, err = s.UserRepo.FindByEmail(profile.Email)
		switch {
		case err == nil:
			user.GoogleID = &profile.ID
			user.IsVerified = true
			if err := s.UserRepo.Update(user); err != nil {
				return nil, err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			user, err = s.createGoogleUser(profile)
			if err != nil {
				return nil, err
			}
		default:
			return nil, err
		}
	}

	logger.Log.Info("Google login", zap.Uint("userId", user.ID))
	return s.Auth.startSession(user)
}

func (s *OAuthService) createGoogleUser(profile GoogleProfile) (*model.User, error) {
	base := nonUsernameChars.ReplaceAllString(profile.Name, "_")
	if len(base) < 3 {
		base = "user"
	}
	username := base
	for i := 1; ; i++ {
		taken, err := s.UserRepo.ExistsByUsernameOrEmail(username, profile.Email)
		if err != nil {
			return nil, err
		}
		if !taken {
			break
		}
		username = fmt.Sprintf("%s_%d", base, i)
	}

	googleID := profile.ID
	user := &model.User{
		Username:   username,
		Email:      profile.Email,
		GoogleID:   &googleID,
		IsVerified: true,
	}
	if err := s.UserRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}
