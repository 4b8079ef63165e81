package service

import (
	"testing"
	"time"

	"skillify_backend/internal/config"
	"skillify_backend/internal/course"
	"skillify_backend/internal/model"
	"skillify_backend/internal/repository"
	"skillify_backend/internal/testutil"
	"skillify_backend/pkg/mailer"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fixture struct {
	DB           *gorm.DB
	Users        *repository.UserRepository
	ProgressRepo *repository.ProgressRepository
	Catalog      *course.Catalog
	Mailer       *mailer.ConsoleSender
	OTP          *MemoryOTPStore
	Cfg          *config.Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	return &fixture{
		DB:           db,
		Users:        repository.NewUserRepository(db),
		ProgressRepo: repository.NewProgressRepository(db),
		Catalog:      course.Default(),
		Mailer:       mailer.NewConsoleSender(),
		OTP:          NewMemoryOTPStore(),
		Cfg: &config.Config{
			JWT: config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour},
		},
	}
}

func (f *fixture) user(t *testing.T, name string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.User{
		Username:     name,
		Email:        name + "@example.com",
		PasswordHash: string(hash),
		IsVerified:   true,
	}
	require.NoError(t, f.Users.Create(u))
	return u
}

func (f *fixture) progressService() *ProgressService {
	return NewProgressService(f.ProgressRepo, f.Users, f.Catalog, nil, nil)
}

func (f *fixture) dashboardService() *DashboardService {
	return NewDashboardService(f.ProgressRepo, repository.NewVideoRepository(f.DB), f.Users, f.Catalog, nil)
}

func (f *fixture) authService() *AuthService {
	return NewAuthService(f.Users, f.OTP, f.Mailer, f.Cfg)
}
