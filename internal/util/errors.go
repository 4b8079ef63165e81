package util

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailRegistered     = errors.New("email already registered")
	ErrUserExists          = errors.New("username or email exists")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrEmailNotVerified    = errors.New("email not verified")
	ErrWrongPassword       = errors.New("current password is incorrect")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrNotFound            = errors.New("not found")
	ErrOTPExpired          = errors.New("OTP expired")
	ErrOTPInvalid          = errors.New("invalid OTP")
	ErrNegativeXP          = errors.New("xp must not be negative")
	ErrNegativeHours       = errors.New("hours must be positive")
	ErrCannotDeleteAdmin   = errors.New("cannot delete admin accounts via API")
	ErrAlreadyAdmin        = errors.New("user is already an admin")
	ErrNotAdmin            = errors.New("user is not an admin")
	ErrUnsupportedFileType = errors.New("unsupported file type")
)
