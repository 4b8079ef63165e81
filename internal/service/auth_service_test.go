package service

import (
	"context"
	"testing"
	"time"

	"skillify_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOTPFlow_RegisterVerified(t *testing.T) {
	f := newFixture(t)
	auth := f.authService()
	ctx := context.Background()
	email := "new@example.com"

	require.NoError(t, auth.SendOTP(ctx, email))
	sent := f.Mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, email, sent[0].To.Address)

	entry, err := f.OTP.Get(ctx, email)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Len(t, entry.Code, 6)
	assert.Contains(t, sent[0].Text, entry.Code)

	assert.ErrorIs(t, auth.VerifyOTP(ctx, email, "000000x"), util.ErrOTPInvalid)
	require.NoError(t, auth.VerifyOTP(ctx, email, " "+entry.Code+" "))

	user, err := auth.Register(ctx, RegisterInput{Username: "newbie", Email: email, Password: "secret1"})
	require.NoError(t, err)
	assert.True(t, user.IsVerified)

	entry, err = f.OTP.Get(ctx, email)
	require.NoError(t, err)
	assert.Nil(t, entry, "verified entry is cleared on registration")

	res, err := auth.Login("newbie", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	claims, err := util.ParseJWT(res.Token, f.Cfg.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	assert.ErrorIs(t, auth.SendOTP(ctx, email), util.ErrEmailRegistered)
}

func TestVerifyOTP_Expired(t *testing.T) {
	f := newFixture(t)
	auth := f.authService()
	ctx := context.Background()

	require.NoError(t, f.OTP.Put(ctx, "late@example.com", OTPEntry{Code: "123456", ExpiresAt: time.Now().Add(-time.Second)}))
	assert.ErrorIs(t, auth.VerifyOTP(ctx, "late@example.com", "123456"), util.ErrOTPExpired)

	entry, err := f.OTP.Get(ctx, "late@example.com")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestVerifyOTP_FallsBackToAccountCode(t *testing.T) {
	f := newFixture(t)
	auth := f.authService()
	u := f.user(t, "legacy")
	u.IsVerified = false
	u.OTPSecret = "654321"
	require.NoError(t, f.Users.Update(u))

	require.NoError(t, auth.VerifyOTP(context.Background(), u.Email, "654321"))
	got, err := f.Users.FindByID(u.ID)
	require.NoError(t, err)
	assert.True(t, got.IsVerified)
	assert.Empty(t, got.OTPSecret)
}

func TestRegister_Duplicate(t *testing.T) {
	f := newFixture(t)
	auth := f.authService()
	f.user(t, "taken")

	_, err := auth.Register(context.Background(), RegisterInput{Username: "taken", Email: "other@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, util.ErrUserExists)
	_, err = auth.Register(context.Background(), RegisterInput{Username: "other", Email: "taken@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, util.ErrUserExists)
}

func TestLogin_Rules(t *testing.T) {
	f := newFixture(t)
	auth := f.authService()
	ctx := context.Background()

	_, err := auth.Register(ctx, RegisterInput{Username: "unverified", Email: "u@example.com", Password: "secret1"})
	require.NoError(t, err)
	_, err = auth.Login("unverified", "secret1")
	assert.ErrorIs(t, err, util.ErrEmailNotVerified)

	f.user(t, "ann")
	_, err = auth.Login("ann", "wrong-password")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
	_, err = auth.Login("ghost", "secret1")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	res, err := auth.Login("ann@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "ann", res.User.Username)
}

func TestLogin_Streak(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		streak  int
		want    int
	}{
		{"next day", 25 * time.Hour, 3, 4},
		{"gap resets", 72 * time.Hour, 3, 1},
		{"same day", time.Hour, 3, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			auth := f.authService()
			u := f.user(t, "streaker")
			u.Streak = tt.streak
			u.LastLoginDate = time.Now().Add(-tt.elapsed)
			require.NoError(t, f.Users.Update(u))

			res, err := auth.Login("streaker", "secret1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.User.Streak)

			got, err := f.Users.FindByID(u.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Streak)
			assert.WithinDuration(t, time.Now(), got.LastLoginDate, time.Minute)
		})
	}
}

func TestOAuth_LoginWithProfile(t *testing.T) {
	f := newFixture(t)
	auth := f.authService()
	oauth := NewOAuthService(auth, f.Users, &f.Cfg.OAuth)
	assert.False(t, oauth.Enabled())

	existing := f.user(t, "linked")
	res, err := oauth.LoginWithProfile(GoogleProfile{ID: "g-1", Email: existing.Email, Name: "Linked"})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, res.User.ID)
	require.NotNil(t, res.User.GoogleID)
	assert.Equal(t, "g-1", *res.User.GoogleID)

	res, err = oauth.LoginWithProfile(GoogleProfile{ID: "g-2", Email: "fresh@example.com", Name: "linked"})
	require.NoError(t, err)
	assert.Equal(t, "linked_1", res.User.Username)
	assert.True(t, res.User.IsVerified)

	again, err := oauth.LoginWithProfile(GoogleProfile{ID: "g-2", Email: "changed@example.com", Name: "whatever"})
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, again.User.ID)

	_, err = oauth.LoginWithProfile(GoogleProfile{ID: "g-3"})
	assert.ErrorIs(t, err, ErrOAuthProfile)
}

func TestMemoryOTPStore_Sweep(t *testing.T) {
	store := NewMemoryOTPStore()
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "old@example.com", OTPEntry{Code: "1", ExpiresAt: now.Add(-2 * otpRetention)}))
	require.NoError(t, store.Put(ctx, "late@example.com", OTPEntry{Code: "2", ExpiresAt: now.Add(-time.Minute)}))
	require.NoError(t, store.Put(ctx, "fresh@example.com", OTPEntry{Code: "3", ExpiresAt: now.Add(OTPTTL)}))

	assert.Equal(t, 1, store.Sweep())

	late, err := store.Get(ctx, "late@example.com")
	require.NoError(t, err)
	require.NotNil(t, late)
	assert.True(t, late.Expired(now))

	now = now.Add(2 * otpRetention)
	fresh, err := store.Get(ctx, "fresh@example.com")
	require.NoError(t, err)
	assert.Nil(t, fresh)
}
