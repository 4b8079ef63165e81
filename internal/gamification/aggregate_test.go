package gamification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate_RatioOverTotals(t *testing.T) {
	s := Aggregate(map[string]CourseTotals{
		"A": {Completed: 1, Total: 1},
		"B": {Completed: 1, Total: 9},
	})
	assert.Equal(t, 20, s.OverallPercent)
	assert.Equal(t, 100, s.PerCoursePercent["A"])
	assert.Equal(t, 11, s.PerCoursePercent["B"])
	assert.Equal(t, 2, s.CompletedVideos)
	assert.Equal(t, 10, s.TotalVideos)
}

func TestAggregate_RoundHalfUp(t *testing.T) {
	s := Aggregate(map[string]CourseTotals{
		"eighth": {Completed: 1, Total: 8}, // 12.5
		"third":  {Completed: 2, Total: 3}, // 66.67
	})
	assert.Equal(t, 13, s.PerCoursePercent["eighth"])
	assert.Equal(t, 67, s.PerCoursePercent["third"])
	assert.Equal(t, 27, s.OverallPercent) // 3/11 = 27.27
}

func TestAggregate_EmptyAndZeroTotals(t *testing.T) {
	s := Aggregate(nil)
	assert.Equal(t, 0, s.OverallPercent)
	assert.Empty(t, s.PerCoursePercent)

	s = Aggregate(map[string]CourseTotals{"empty": {}})
	assert.Equal(t, 0, s.PerCoursePercent["empty"])
	assert.Equal(t, 0, s.OverallPercent)
}

func TestActivityHeatmap_ContiguousWindow(t *testing.T) {
	now := time.Date(2025, 6, 30, 15, 0, 0, 0, time.UTC)
	completions := []time.Time{
		now.Add(-time.Hour),
		now.Add(-2 * time.Hour),
		now.AddDate(0, 0, -3),
		now.AddDate(0, 0, -89),
		now.AddDate(0, 0, -90), // outside window
		now.AddDate(0, 0, 1),   // future
	}

	days := ActivityHeatmap(completions, now)
	require.Len(t, days, HeatmapWindowDays)
	assert.Equal(t, "2025-04-02", days[0].Date)
	assert.Equal(t, "2025-06-30", days[len(days)-1].Date)

	byDate := make(map[string]HeatmapDay, len(days))
	total := 0
	for _, d := range days {
		byDate[d.Date] = d
		total += d.Count
	}
	assert.Equal(t, 4, total)
	assert.Equal(t, 2, byDate["2025-06-30"].Count)
	assert.Equal(t, 2, byDate["2025-06-30"].Intensity)
	assert.Equal(t, 1, byDate["2025-06-27"].Count)
	assert.Equal(t, 1, byDate["2025-04-02"].Count)
	assert.Equal(t, 0, byDate["2025-05-15"].Count)
	assert.Equal(t, 0, byDate["2025-05-15"].Intensity)
}

func TestActivityHeatmap_Intensity(t *testing.T) {
	assert.Equal(t, 0, intensity(0))
	assert.Equal(t, 1, intensity(1))
	assert.Equal(t, 2, intensity(3))
	assert.Equal(t, 3, intensity(4))
}

func TestRecentActivity(t *testing.T) {
	var items []Activity
	for i := 0; i < 7; i++ {
		items = append(items, Activity{VideoID: string(rune('a' + i)), CompletedAt: t0.Add(time.Duration(i) * time.Hour)})
	}

	got := RecentActivity(items)
	require.Len(t, got, RecentActivityLen)
	assert.Equal(t, "g", got[0].VideoID)
	assert.Equal(t, "c", got[4].VideoID)
	assert.Equal(t, "a", items[0].VideoID, "input order untouched")
}
