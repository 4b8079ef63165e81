package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"skillify_backend/internal/course"
	"skillify_backend/internal/gamification"
	"skillify_backend/internal/model"
	"skillify_backend/internal/repository"
	"skillify_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const dashboardCacheTTL = time.Minute

type CourseStat struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
	Percent   int `json:"percent"`
}

type DashboardStats struct {
	CourseStats     map[string]CourseStat     `json:"courseStats"`
	OverallProgress int                       `json:"overallProgress"`
	CompletedVideos int                       `json:"completedVideos"`
	TotalVideos     int                       `json:"totalVideos"`
	ActivityData    []gamification.HeatmapDay `json:"activityData"`
	RecentActivity  []gamification.Activity   `json:"recentActivity"`
	TotalLikes      int64                     `json:"totalLikes"`
	TotalComments   int64                     `json:"totalComments"`
	model.Stats
}

type DashboardService struct {
	ProgressRepo *repository.ProgressRepository
	VideoRepo    *repository.VideoRepository
	UserRepo     *repository.UserRepository
	Catalog      *course.Catalog
	Redis        *redis.Client
}

func NewDashboardService(
	progressRepo *repository.ProgressRepository,
	videoRepo *repository.VideoRepository,
	userRepo *repository.UserRepository,
	catalog *course.Catalog,
	rdb *redis.Client,
) *DashboardService {
	return &DashboardService{
		ProgressRepo: progressRepo,
		VideoRepo:    videoRepo,
		UserRepo:     userRepo,
		Catalog:      catalog,
		Redis:        rdb,
	}
}

func dashboardCacheKey(userID uint) string {
	return fmt.Sprintf("dashboard:stats:%d", userID)
}

// GetStats returns the user's dashboard. Course aggregates are served from
// Redis when a fresh copy exists; XP, level and streak are always read from the user row.
func (s *DashboardService) GetStats(ctx context.Context, userID uint) (*DashboardStats, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, dashboardCacheKey(userID)).Bytes(); err == nil {
			var stats DashboardStats
			if err := json.Unmarshal(cached, &stats); err == nil {
				stats.Stats = user.Stats()
				return &stats, nil
			}
		}
	}

	stats, err := s.compute(userID, time.Now())
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if data, err := json.Marshal(stats); err == nil {
			if err := s.Redis.Set(ctx, dashboardCacheKey(userID), data, dashboardCacheTTL).Err(); err != nil {
				logger.Log.Warn("Failed to cache dashboard stats", zap.Error(err), zap.Uint("userId", userID))
			}
		}
	}
	stats.Stats = user.Stats()
	return stats, nil
}

// Invalidate drops the cached dashboard of a user.
func (s *DashboardService) Invalidate(ctx context.Context, userID uint) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, dashboardCacheKey(userID)).Err(); err != nil {
		logger.Log.Warn("Failed to invalidate dashboard cache", zap.Error(err), zap.Uint("userId", userID))
	}
}

func (s *DashboardService) compute(userID uint, now time.Time) (*DashboardStats, error) {
	completed, err := s.ProgressRepo.CompletedVideoIDs(userID)
	if err != nil {
		return nil, err
	}
	totals := make(map[string]gamification.CourseTotals)
	for _, key := range s.Catalog.Keys() {
		videos, err := s.Catalog.Videos(key)
		if err != nil {
			return nil, err
		}
		totals[key] = gamification.CourseTotals{
			Completed: countInCatalog(completed[key], videos),
			Total:     len(videos),
		}
	}
	summary := gamification.Aggregate(totals)

	courseStats := make(map[string]CourseStat, len(totals))
	for key, t := range totals {
		courseStats[key] = CourseStat{Completed: t.Completed, Total: t.Total, Percent: summary.PerCoursePercent[key]}
	}

	since := now.AddDate(0, 0, -gamification.HeatmapWindowDays)
	windowRows, err := s.ProgressRepo.CompletionsSince(userID, since)
	if err != nil {
		return nil, err
	}
	completions := make([]time.Time, 0, len(windowRows))
	for _, r := range windowRows {
		if r.CompletedAt != nil {
			completions = append(completions, *r.CompletedAt)
		}
	}

	recentRows, err := s.ProgressRepo.RecentCompletions(userID, gamification.RecentActivityLen)
	if err != nil {
		return nil, err
	}
	activity := make([]gamification.Activity, 0, len(recentRows))
	for _, r := range recentRows {
		if r.CompletedAt != nil {
			activity = append(activity, gamification.Activity{VideoID: r.VideoID, CourseFile: r.CourseFile, CompletedAt: *r.CompletedAt})
		}
	}

	likes, err := s.VideoRepo.CountLikesByUser(userID)
	if err != nil {
		return nil, err
	}
	comments, err := s.VideoRepo.CountCommentsByUser(userID)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		CourseStats:     courseStats,
		OverallProgress: summary.OverallPercent,
		CompletedVideos: summary.CompletedVideos,
		TotalVideos:     summary.TotalVideos,
		ActivityData:    gamification.ActivityHeatmap(completions, now),
		RecentActivity:  gamification.RecentActivity(activity),
		TotalLikes:      likes,
		TotalComments:   comments,
	}, nil
}

// countInCatalog counts the distinct ids of done that belong to videos.
func countInCatalog(done, videos []string) int {
	known := make(map[string]struct{}, len(videos))
	for _, v := range videos {
		known[v] = struct{}{}
	}
	n := 0
	for _, id := range done {
		if _, ok := known[id]; ok {
			delete(known, id)
			n++
		}
	}
	return n
}
