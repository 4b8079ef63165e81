package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skillify_backend/internal/course"
	"skillify_backend/internal/gamification"
	"skillify_backend/internal/model"
	"skillify_backend/internal/repository"
	"skillify_backend/pkg/logger"
	"skillify_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// maxProgressAttempts bounds retries of a report that lost the first-insert race.
const maxProgressAttempts = 3

type ProgressReport struct {
	VideoID        string
	CourseFile     string
	ModuleIndex    int
	WatchedPercent int
}

type ProgressResult struct {
	Progress      *model.VideoProgress `json:"progress"`
	JustCompleted bool                 `json:"justCompleted"`
	XPAwarded     int                  `json:"xpAwarded"`
	Stats         *model.Stats         `json:"stats,omitempty"`
}

// VideoState is one catalog entry with the user's progress and lock state.
type VideoState struct {
	VideoID        string     `json:"videoId"`
	Index          int        `json:"index"`
	WatchedPercent int        `json:"watchedPercent"`
	Completed      bool       `json:"completed"`
	CompletedAt    *time.Time `json:"completedAt"`
	Unlocked       bool       `json:"unlocked"`
}

type CourseProgress struct {
	CourseFile string       `json:"courseFile"`
	Title      string       `json:"title"`
	Completed  int          `json:"completed"`
	Total      int          `json:"total"`
	Percent    int          `json:"percent"`
	Videos     []VideoState `json:"videos"`
}

type ProgressService struct {
	ProgressRepo *repository.ProgressRepository
	UserRepo     *repository.UserRepository
	Catalog      *course.Catalog
	Hub          *NotificationHub
	Dashboard    *DashboardService
}

func NewProgressService(
	progressRepo *repository.ProgressRepository,
	userRepo *repository.UserRepository,
	catalog *course.Catalog,
	hub *NotificationHub,
	dashboard *DashboardService,
) *ProgressService {
	return &ProgressService{
		ProgressRepo: progressRepo,
		UserRepo:     userRepo,
		Catalog:      catalog,
		Hub:          hub,
		Dashboard:    dashboard,
	}
}

// ReportProgress records a watch report for the user. The (user, video) row and
// the user row are updated in one transaction holding row locks, so the
// completion XP is granted at most once however many reports race.
func (s *ProgressService) ReportProgress(ctx context.Context, userID uint, report ProgressReport) (*ProgressResult, error) {
	report.WatchedPercent = gamification.ClampPercent(report.WatchedPercent)
	if idx := s.Catalog.IndexOf(report.CourseFile, report.VideoID); idx >= 0 {
		report.ModuleIndex = idx
	}

	var (
		result *ProgressResult
		err    error
	)
	for attempt := 1; attempt <= maxProgressAttempts; attempt++ {
		result, err = s.reportOnce(ctx, userID, report)
		if err == nil || !repository.IsRetryable(err) {
			break
		}
		monitoring.ProgressRetries.Inc()
		logger.Log.Debug("Retrying progress report",
			zap.Uint("userId", userID),
			zap.String("videoId", report.VideoID),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("report progress: %w", err)
	}

	if result.JustCompleted {
		s.onCompleted(ctx, userID, result)
	}
	return result, nil
}

func (s *ProgressService) reportOnce(ctx context.Context, userID uint, report ProgressReport) (*ProgressResult, error) {
	result := &ProgressResult{}
	err := s.ProgressRepo.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		progressRepo := s.ProgressRepo.WithTx(tx)

		row, err := progressRepo.FindForUpdate(userID, report.VideoID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var existing *gamification.Record
		if row != nil {
			existing = row.Record()
		}
		next, justCompleted := gamification.ReportProgress(existing, report.WatchedPercent, time.Now())

		if row == nil {
			row = &model.VideoProgress{
				UserID:      userID,
				VideoID:     report.VideoID,
				CourseFile:  report.CourseFile,
				ModuleIndex: report.ModuleIndex,
			}
			row.Apply(next)
			if err := progressRepo.Create(row); err != nil {
				return err
			}
		} else {
			row.Apply(next)
			if err := progressRepo.Save(row); err != nil {
				return err
			}
		}
		result.Progress = row
		result.JustCompleted = justCompleted

		if !justCompleted {
			return nil
		}

		userRepo := s.UserRepo.WithTx(tx)
		user, err := userRepo.FindForUpdate(userID)
		if err != nil {
			return err
		}
		user.XP = gamification.AwardVideoCompletionXP(user.XP)
		if err := userRepo.Update(user); err != nil {
			return err
		}
		stats := user.Stats()
		result.Stats = &stats
		result.XPAwarded = gamification.VideoCompletionXP
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *ProgressService) onCompleted(ctx context.Context, userID uint, result *ProgressResult) {
	monitoring.VideoCompletions.WithLabelValues(result.Progress.CourseFile).Inc()
	monitoring.XPAwarded.Add(float64(result.XPAwarded))

	logger.Log.Info("Video completed",
		zap.Uint("userId", userID),
		zap.String("videoId", result.Progress.VideoID),
		zap.String("courseFile", result.Progress.CourseFile),
		zap.Int("xp", result.Stats.XP),
	)

	if s.Dashboard != nil {
		s.Dashboard.Invalidate(ctx, userID)
	}
	if s.Hub != nil {
		s.Hub.Notify(ctx, userID, WSMessage{
			Type: "notification",
			Data: map[string]interface{}{
				"kind":       "video_completed",
				"videoId":    result.Progress.VideoID,
				"courseFile": result.Progress.CourseFile,
				"xpAwarded":  result.XPAwarded,
				"xp":         result.Stats.XP,
				"level":      result.Stats.Level,
			},
		})
	}
}

func (s *ProgressService) GetProgress(userID uint) ([]model.VideoProgress, error) {
	return s.ProgressRepo.FindByUser(userID)
}

// GetCourseProgress lists the course's videos in unlock order with the user's
// progress on each.
func (s *ProgressService) GetCourseProgress(userID uint, courseFile string) (*CourseProgress, error) {
	c, err := s.Catalog.Get(courseFile)
	if err != nil {
		return nil, err
	}

	rows, err := s.ProgressRepo.FindByUserAndCourse(userID, courseFile)
	if err != nil {
		return nil, err
	}
	byVideo := make(map[string]model.VideoProgress, len(rows))
	completion := make(map[string]bool, len(rows))
	for _, r := range rows {
		byVideo[r.VideoID] = r
		completion[r.VideoID] = r.Completed
	}

	unlocked := gamification.UnlockStates(c.Videos, completion)
	out := &CourseProgress{
		CourseFile: c.Key,
		Title:      c.Title,
		Total:      len(c.Videos),
		Videos:     make([]VideoState, len(c.Videos)),
	}
	for i, videoID := range c.Videos {
		r := byVideo[videoID]
		out.Videos[i] = VideoState{
			VideoID:        videoID,
			Index:          i,
			WatchedPercent: r.WatchedPercent,
			Completed:      r.Completed,
			CompletedAt:    r.CompletedAt,
			Unlocked:       unlocked[i],
		}
		if r.Completed {
			out.Completed++
		}
	}
	out.Percent = gamification.Aggregate(map[string]gamification.CourseTotals{
		c.Key: {Completed: out.Completed, Total: out.Total},
	}).OverallPercent
	return out, nil
}

// IsUnlocked reports whether the video at index of courseFile may be played.
func (s *ProgressService) IsUnlocked(userID uint, courseFile string, index int) (bool, error) {
	videos, err := s.Catalog.Videos(courseFile)
	if err != nil {
		return false, err
	}
	rows, err := s.ProgressRepo.FindByUserAndCourse(userID, courseFile)
	if err != nil {
		return false, err
	}
	completion := make(map[string]bool, len(rows))
	for _, r := range rows {
		completion[r.VideoID] = r.Completed
	}
	return gamification.IsUnlocked(videos, completion, index)
}
