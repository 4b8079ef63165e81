package model

import (
	"time"

	"skillify_backend/internal/gamification"
)

// VideoProgress is the watch state of one video for one user. The
// (user_id, video_id) pair is unique and is the locking key for progress reports.
type VideoProgress struct {
	ID             uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
	UserID         uint       `gorm:"uniqueIndex:idx_user_video;not null" json:"userId"`
	VideoID        string     `gorm:"uniqueIndex:idx_user_video;size:64;not null" json:"videoId"`
	CourseFile     string     `gorm:"size:100;index;not null" json:"courseFile"`
	ModuleIndex    int        `gorm:"default:0" json:"moduleIndex"`
	WatchedPercent int        `gorm:"default:0" json:"watchedPercent"`
	Completed      bool       `gorm:"default:false;index" json:"completed"`
	CompletedAt    *time.Time `json:"completedAt"`
}

func (VideoProgress) TableName() string {
	return "video_progress"
}

func (p *VideoProgress) Record() *gamification.Record {
	return &gamification.Record{
		WatchedPercent: p.WatchedPercent,
		Completed:      p.Completed,
		CompletedAt:    p.CompletedAt,
	}
}

func (p *VideoProgress) Apply(r gamification.Record) {
	p.WatchedPercent = r.WatchedPercent
	p.Completed = r.Completed
	p.CompletedAt = r.CompletedAt
}

type VideoLike struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UserID    uint      `gorm:"uniqueIndex:idx_user_video_like;not null" json:"userId"`
	VideoID   string    `gorm:"uniqueIndex:idx_user_video_like;size:64;not null;index" json:"videoId"`
}

func (VideoLike) TableName() string {
	return "video_likes"
}

type VideoComment struct {
	UUIDBase
	UserID  uint   `gorm:"index;not null" json:"userId"`
	User    User   `gorm:"foreignKey:UserID" json:"user"`
	VideoID string `gorm:"size:64;index;not null" json:"videoId"`
	Content string `gorm:"type:text;not null" json:"content"`
}

func (VideoComment) TableName() string {
	return "video_comments"
}
