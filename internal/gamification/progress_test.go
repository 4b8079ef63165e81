package gamification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func TestReportProgress_MonotonicPercent(t *testing.T) {
	reports := []int{10, 45, 30, 60, 0, 85}
	var rec *Record
	maxSeen := 0
	for i, p := range reports {
		next, just := ReportProgress(rec, p, t0.Add(time.Duration(i)*time.Minute))
		if p > maxSeen {
			maxSeen = p
		}
		assert.Equal(t, maxSeen, next.WatchedPercent, "report %d", i)
		assert.False(t, just)
		assert.False(t, next.Completed)
		assert.Nil(t, next.CompletedAt)
		rec = &next
	}
	assert.Equal(t, InProgress, rec.State())
}

func TestReportProgress_CompletionLatch(t *testing.T) {
	first, just := ReportProgress(nil, 92, t0)
	require.True(t, just)
	require.True(t, first.Completed)
	require.NotNil(t, first.CompletedAt)
	assert.Equal(t, t0, *first.CompletedAt)
	assert.Equal(t, Completed, first.State())

	later := t0.Add(48 * time.Hour)
	for _, p := range []int{0, 50, 95, 100} {
		next, again := ReportProgress(&first, p, later)
		assert.False(t, again, "percent %d must not re-complete", p)
		assert.True(t, next.Completed)
		assert.Equal(t, t0, *next.CompletedAt, "completedAt is set once")
		assert.GreaterOrEqual(t, next.WatchedPercent, 92)
	}
}

func TestReportProgress_ThresholdBoundary(t *testing.T) {
	rec, just := ReportProgress(nil, 89, t0)
	assert.False(t, just)
	assert.False(t, rec.Completed)

	rec, just = ReportProgress(&rec, 90, t0)
	assert.True(t, just)
	assert.True(t, rec.Completed)
	assert.Equal(t, 90, rec.WatchedPercent)
}

func TestReportProgress_DoesNotMutateExisting(t *testing.T) {
	existing := Record{WatchedPercent: 40}
	_, _ = ReportProgress(&existing, 95, t0)
	assert.Equal(t, 40, existing.WatchedPercent)
	assert.False(t, existing.Completed)
}

func TestReportProgress_XPAwardedOnce(t *testing.T) {
	xp := 0
	var rec *Record
	for _, p := range []int{50, 91, 91, 100, 95} {
		next, just := ReportProgress(rec, p, t0)
		if just {
			xp = AwardVideoCompletionXP(xp)
		}
		rec = &next
	}
	assert.Equal(t, VideoCompletionXP, xp)
}

func TestRecordState(t *testing.T) {
	var rec *Record
	assert.Equal(t, NotStarted, rec.State())
	assert.Equal(t, InProgress, (&Record{WatchedPercent: 0}).State())
	assert.Equal(t, Completed, (&Record{WatchedPercent: 90, Completed: true}).State())
}

func TestClampPercent(t *testing.T) {
	cases := map[int]int{-5: 0, 0: 0, 57: 57, 100: 100, 250: 100}
	for in, want := range cases {
		assert.Equal(t, want, ClampPercent(in), "clamp(%d)", in)
	}
}
