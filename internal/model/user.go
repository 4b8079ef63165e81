package model

import (
	"time"

	"skillify_backend/internal/gamification"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Username      string     `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Email         string     `gorm:"size:191;uniqueIndex;not null" json:"email"`
	PasswordHash  string     `gorm:"size:100" json:"-"`
	GoogleID      *string    `gorm:"size:64;uniqueIndex" json:"-"`
	Role          UserRole   `gorm:"size:20;default:'user'" json:"role"`
	XP            int        `gorm:"default:0" json:"xp"`
	Level         int        `gorm:"default:1" json:"level"`
	IsVerified    bool       `gorm:"default:false" json:"verified"`
	Streak        int        `gorm:"default:0" json:"streak"`
	FocusHours    float64    `gorm:"default:0" json:"focusHours"`
	LastLoginDate time.Time  `json:"lastLoginDate"`
	LastSeen      time.Time  `json:"-"`
	OTPSecret     string     `gorm:"size:16" json:"-"`
	OTPExpiresAt  *time.Time `json:"-"`
	Avatar        string     `gorm:"size:255" json:"avatar"`
	Bio           string     `gorm:"type:text" json:"bio"`
	Location      string     `gorm:"size:255" json:"location"`
	Website       string     `gorm:"size:255" json:"website"`
}

func (User) TableName() string {
	return "users"
}

// BeforeSave keeps Level derived from XP on every write.
func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.XP < 0 {
		u.XP = 0
	}
	u.Level = gamification.LevelFromXP(u.XP)
	return nil
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.LastLoginDate.IsZero() {
		u.LastLoginDate = time.Now()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Stats is the gamification view of a user.
type Stats struct {
	XP     int `json:"xp"`
	Level  int `json:"level"`
	Streak int `json:"streak"`
}

func (u *User) Stats() Stats {
	return Stats{XP: u.XP, Level: gamification.LevelFromXP(u.XP), Streak: u.Streak}
}
