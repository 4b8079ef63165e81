package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/mail"
	"strings"
	"time"

	"skillify_backend/internal/config"
	"skillify_backend/internal/gamification"
	"skillify_backend/internal/model"
	"skillify_backend/internal/repository"
	"skillify_backend/internal/util"
	"skillify_backend/pkg/logger"
	"skillify_backend/pkg/mailer"
	"skillify_backend/pkg/monitoring"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type LoginResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

type AuthService struct {
	UserRepo *repository.UserRepository
	OTPStore OTPStore
	Mailer   mailer.Sender
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, otpStore OTPStore, sender mailer.Sender, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		OTPStore: otpStore,
		Mailer:   sender,
		Cfg:      cfg,
	}
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

// SendOTP stores a fresh code for email and mails it. An address that already
// belongs to a verified account is rejected.
func (s *AuthService) SendOTP(ctx context.Context, email string) error {
	existing, err := s.UserRepo.FindByEmail(email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if existing != nil && existing.IsVerified {
		return util.ErrEmailRegistered
	}

	code, err := generateOTP()
	if err != nil {
		return err
	}
	entry := OTPEntry{Code: code, ExpiresAt: time.Now().Add(OTPTTL)}
	if err := s.OTPStore.Put(ctx, email, entry); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}

	err = s.Mailer.Send(ctx, mailer.Message{
		To:      mail.Address{Address: email},
		Subject: "Skillify Verification Code",
		Text:    fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, int(OTPTTL.Minutes())),
		HTML:    otpHTML(code),
	})
	if err != nil {
		monitoring.OTPSent.WithLabelValues("failed").Inc()
		return err
	}
	monitoring.OTPSent.WithLabelValues("sent").Inc()
	logger.Log.Info("OTP sent", zap.String("email", email))
	return nil
}

func otpHTML(code string) string {
	return `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">` +
		`<h2>Verification Code</h2>` +
		`<p>Use the following code to verify your email address. This code will expire in 10 minutes.</p>` +
		`<p style="font-size: 24px; font-weight: bold; letter-spacing: 5px;">` + code + `</p>` +
		`<p style="color: #999; font-size: 12px;">If you didn't request this, please ignore this email.</p>` +
		`</div>`
}

// VerifyOTP checks code against the pending entry for email, then against the
// code saved on an existing account.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) error {
	code = strings.TrimSpace(code)

	entry, err := s.OTPStore.Get(ctx, email)
	if err != nil {
		return err
	}
	if entry != nil {
		if entry.Expired(time.Now()) {
			if err := s.OTPStore.Delete(ctx, email); err != nil {
				logger.Log.Warn("Failed to drop expired OTP", zap.Error(err))
			}
			return util.ErrOTPExpired
		}
		if entry.Code == code {
			entry.Verified = true
			return s.OTPStore.Put(ctx, email, *entry)
		}
	}

	user, err := s.UserRepo.FindByEmail(email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrOTPInvalid
	}
	if err != nil {
		return err
	}
	if user.OTPSecret == "" || user.OTPSecret != code {
		return util.ErrOTPInvalid
	}
	user.IsVerified = true
	user.OTPSecret = ""
	user.OTPExpiresAt = nil
	return s.UserRepo.Update(user)
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	exists, err := s.UserRepo.ExistsByUsernameOrEmail(in.Username, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.ErrUserExists
	}

	entry, err := s.OTPStore.Get(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	preVerified := entry != nil && entry.Verified

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hashed),
		IsVerified:   preVerified,
	}
	if err := s.UserRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrUserExists
		}
		return nil, err
	}

	if preVerified {
		if err := s.OTPStore.Delete(ctx, in.Email); err != nil {
			logger.Log.Warn("Failed to clear OTP", zap.Error(err))
		}
	}
	logger.Log.Info("User registered", zap.Uint("userId", user.ID), zap.Bool("verified", preVerified))
	return user, nil
}

// Login accepts a username or an email, applies the daily streak rule and
// returns a signed token.
func (s *AuthService) Login(login, password string) (*LoginResult, error) {
	user, err := s.UserRepo.FindByLogin(login)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !user.IsVerified {
		return nil, util.ErrEmailNotVerified
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}
	return s.startSession(user)
}

func (s *AuthService) startSession(user *model.User) (*LoginResult, error) {
	now := time.Now()
	user.Streak, user.LastLoginDate = gamification.OnLogin(user.Streak, user.LastLoginDate, now)
	user.LastSeen = now
	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: user}, nil
}

func (s *AuthService) GetCurrentUser(userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	return user, err
}
