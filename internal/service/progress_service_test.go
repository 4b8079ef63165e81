package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"skillify_backend/internal/course"
	"skillify_backend/internal/gamification"
	"skillify_backend/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const firstWebVideo = "UB1O30fR-EE"

func TestReportProgress_Lifecycle(t *testing.T) {
	f := newFixture(t)
	svc := f.progressService()
	u := f.user(t, "ann")
	ctx := context.Background()
	report := ProgressReport{VideoID: firstWebVideo, CourseFile: "web.html"}

	report.WatchedPercent = 40
	res, err := svc.ReportProgress(ctx, u.ID, report)
	require.NoError(t, err)
	assert.False(t, res.JustCompleted)
	assert.Equal(t, 40, res.Progress.WatchedPercent)
	assert.Zero(t, res.XPAwarded)

	// lower reports never move the percent back
	report.WatchedPercent = 10
	res, err = svc.ReportProgress(ctx, u.ID, report)
	require.NoError(t, err)
	assert.Equal(t, 40, res.Progress.WatchedPercent)

	report.WatchedPercent = 92
	res, err = svc.ReportProgress(ctx, u.ID, report)
	require.NoError(t, err)
	assert.True(t, res.JustCompleted)
	assert.Equal(t, gamification.VideoCompletionXP, res.XPAwarded)
	require.NotNil(t, res.Stats)
	assert.Equal(t, 100, res.Stats.XP)
	assert.Equal(t, 2, res.Stats.Level)
	require.NotNil(t, res.Progress.CompletedAt)

	report.WatchedPercent = 100
	res, err = svc.ReportProgress(ctx, u.ID, report)
	require.NoError(t, err)
	assert.False(t, res.JustCompleted)
	assert.True(t, res.Progress.Completed)
	assert.Equal(t, 100, res.Progress.WatchedPercent)

	user, err := f.Users.FindByID(u.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, user.XP)
	assert.Equal(t, 2, user.Level)
}

func TestReportProgress_ClampsOutOfRange(t *testing.T) {
	f := newFixture(t)
	svc := f.progressService()
	u := f.user(t, "bob")

	res, err := svc.ReportProgress(context.Background(), u.ID, ProgressReport{VideoID: "v", CourseFile: "web.html", WatchedPercent: 150})
	require.NoError(t, err)
	assert.Equal(t, 100, res.Progress.WatchedPercent)
	assert.True(t, res.JustCompleted)

	res, err = svc.ReportProgress(context.Background(), u.ID, ProgressReport{VideoID: "w", CourseFile: "web.html", WatchedPercent: -5})
	require.NoError(t, err)
	assert.Zero(t, res.Progress.WatchedPercent)
}

func TestReportProgress_ConcurrentCompletionAwardsOnce(t *testing.T) {
	f := newFixture(t)
	svc := f.progressService()
	u := f.user(t, "cat")

	const reporters = 12
	var wg sync.WaitGroup
	var mu sync.Mutex
	completed := 0
	errs := make(chan error, reporters)

	for i := 0; i < reporters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := svc.ReportProgress(context.Background(), u.ID, ProgressReport{
				VideoID:        firstWebVideo,
				CourseFile:     "web.html",
				WatchedPercent: 90 + i%10,
			})
			if err != nil {
				errs <- err
				return
			}
			if res.JustCompleted {
				mu.Lock()
				completed++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	assert.Equal(t, 1, completed)
	user, err := f.Users.FindByID(u.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, user.XP)

	rows, err := f.ProgressRepo.FindByUser(u.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestReportProgress_SetsModuleIndexFromCatalog(t *testing.T) {
	f := newFixture(t)
	svc := f.progressService()
	u := f.user(t, "dan")

	videos, err := f.Catalog.Videos("web.html")
	require.NoError(t, err)

	res, err := svc.ReportProgress(context.Background(), u.ID, ProgressReport{VideoID: videos[3], CourseFile: "web.html", ModuleIndex: 99, WatchedPercent: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Progress.ModuleIndex)
}

func TestGetCourseProgress_UnlockStates(t *testing.T) {
	f := newFixture(t)
	svc := f.progressService()
	u := f.user(t, "eve")
	ctx := context.Background()

	videos, err := f.Catalog.Videos("game.html")
	require.NoError(t, err)

	cp, err := svc.GetCourseProgress(u.ID, "game.html")
	require.NoError(t, err)
	require.Len(t, cp.Videos, len(videos))
	assert.True(t, cp.Videos[0].Unlocked)
	assert.False(t, cp.Videos[1].Unlocked)

	_, err = svc.ReportProgress(ctx, u.ID, ProgressReport{VideoID: videos[0], CourseFile: "game.html", WatchedPercent: 95})
	require.NoError(t, err)
	_, err = svc.ReportProgress(ctx, u.ID, ProgressReport{VideoID: videos[1], CourseFile: "game.html", WatchedPercent: 30})
	require.NoError(t, err)

	cp, err = svc.GetCourseProgress(u.ID, "game.html")
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true, false}, []bool{cp.Videos[0].Unlocked, cp.Videos[1].Unlocked, cp.Videos[2].Unlocked})
	assert.Equal(t, 30, cp.Videos[1].WatchedPercent)
	assert.Equal(t, 1, cp.Completed)
	assert.Equal(t, 17, cp.Percent)

	unlocked, err := svc.IsUnlocked(u.ID, "game.html", 2)
	require.NoError(t, err)
	assert.False(t, unlocked)

	_, err = svc.IsUnlocked(u.ID, "game.html", len(videos))
	assert.ErrorIs(t, err, gamification.ErrIndexOutOfRange)

	_, err = svc.GetCourseProgress(u.ID, "nope.html")
	assert.ErrorIs(t, err, course.ErrUnknownCourse)
}

func TestReportProgress_NotifiesRoom(t *testing.T) {
	f := newFixture(t)
	hub := NewNotificationHub(nil)
	svc := NewProgressService(f.ProgressRepo, f.Users, f.Catalog, hub, nil)
	u := f.user(t, "fay")

	client := &Client{Hub: hub, Send: make(chan []byte, 4), UserID: u.ID}
	hub.register(client)

	_, err := svc.ReportProgress(context.Background(), u.ID, ProgressReport{VideoID: firstWebVideo, CourseFile: "web.html", WatchedPercent: 95})
	require.NoError(t, err)

	select {
	case msg := <-client.Send:
		assert.Contains(t, string(msg), `"video_completed"`)
	default:
		t.Fatal("expected a completion notification")
	}
}

func TestDashboardStats(t *testing.T) {
	f := newFixture(t)
	progress := f.progressService()
	dash := f.dashboardService()
	u := f.user(t, "gus")
	ctx := context.Background()

	_, err := progress.ReportProgress(ctx, u.ID, ProgressReport{VideoID: firstWebVideo, CourseFile: "web.html", WatchedPercent: 100})
	require.NoError(t, err)
	_, err = progress.ReportProgress(ctx, u.ID, ProgressReport{VideoID: "ai-01", CourseFile: "ai.html", WatchedPercent: 90})
	require.NoError(t, err)
	_, err = progress.ReportProgress(ctx, u.ID, ProgressReport{VideoID: "ai-02", CourseFile: "ai.html", WatchedPercent: 50})
	require.NoError(t, err)

	videoSvc := NewVideoService(dash.VideoRepo, dash)
	_, err = videoSvc.ToggleLike(ctx, u.ID, firstWebVideo)
	require.NoError(t, err)
	_, err = videoSvc.AddComment(ctx, u.ID, firstWebVideo, "great")
	require.NoError(t, err)

	stats, err := dash.GetStats(ctx, u.ID)
	require.NoError(t, err)

	assert.Equal(t, CourseStat{Completed: 1, Total: 9, Percent: 11}, stats.CourseStats["web.html"])
	assert.Equal(t, CourseStat{Completed: 1, Total: 6, Percent: 17}, stats.CourseStats["ai.html"])
	assert.Equal(t, CourseStat{Completed: 0, Total: 6, Percent: 0}, stats.CourseStats["cv.html"])
	assert.Equal(t, 2, stats.CompletedVideos)
	assert.Equal(t, 45, stats.TotalVideos)
	assert.Equal(t, 4, stats.OverallProgress)

	require.Len(t, stats.ActivityData, gamification.HeatmapWindowDays)
	assert.Equal(t, 2, stats.ActivityData[len(stats.ActivityData)-1].Count)
	assert.Len(t, stats.RecentActivity, 2)

	assert.EqualValues(t, 1, stats.TotalLikes)
	assert.EqualValues(t, 1, stats.TotalComments)
	assert.Equal(t, 200, stats.XP)
	assert.Equal(t, 2, stats.Level)
}

func TestDashboardStats_IgnoresVideosOutsideCatalog(t *testing.T) {
	f := newFixture(t)
	progress := f.progressService()
	dash := f.dashboardService()
	u := f.user(t, "hal")
	ctx := context.Background()

	for i := 0; i < 9; i++ {
		_, err := progress.ReportProgress(ctx, u.ID, ProgressReport{VideoID: fmt.Sprintf("unlisted-%d", i), CourseFile: "web.html", WatchedPercent: 95})
		require.NoError(t, err)
	}
	_, err := progress.ReportProgress(ctx, u.ID, ProgressReport{VideoID: firstWebVideo, CourseFile: "web.html", WatchedPercent: 95})
	require.NoError(t, err)

	stats, err := dash.GetStats(ctx, u.ID)
	require.NoError(t, err)
	cp, err := progress.GetCourseProgress(u.ID, "web.html")
	require.NoError(t, err)

	assert.Equal(t, CourseStat{Completed: 1, Total: 9, Percent: 11}, stats.CourseStats["web.html"])
	assert.Equal(t, cp.Completed, stats.CourseStats["web.html"].Completed)
	assert.Equal(t, cp.Percent, stats.CourseStats["web.html"].Percent)
	assert.Equal(t, 1, stats.CompletedVideos)
}

func TestDashboardStats_CachedReadsCurrentStreak(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	f := newFixture(t)
	dash := NewDashboardService(f.ProgressRepo, repository.NewVideoRepository(f.DB), f.Users, f.Catalog, rdb)
	auth := f.authService()
	u := f.user(t, "ida")
	u.Streak = 3
	u.LastLoginDate = time.Now().Add(-25 * time.Hour)
	require.NoError(t, f.Users.Update(u))
	ctx := context.Background()

	before, err := dash.GetStats(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, before.Streak)
	assert.True(t, mr.Exists(dashboardCacheKey(u.ID)))

	_, err = auth.Login("ida", "secret1")
	require.NoError(t, err)

	after, err := dash.GetStats(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, mr.Exists(dashboardCacheKey(u.ID)))
	assert.Equal(t, 4, after.Streak)
	assert.Equal(t, before.CourseStats, after.CourseStats)
}
