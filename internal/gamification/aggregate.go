package gamification

import (
	"sort"
	"time"
)

const (
	HeatmapWindowDays = 90
	RecentActivityLen = 5
)

type CourseTotals struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

type Summary struct {
	OverallPercent   int            `json:"overallPercent"`
	PerCoursePercent map[string]int `json:"perCoursePercent"`
	CompletedVideos  int            `json:"completedVideos"`
	TotalVideos      int            `json:"totalVideos"`
}

// percent rounds 100*n/d half up using integer arithmetic.
func percent(n, d int) int {
	if d <= 0 {
		return 0
	}
	return (200*n + d) / (2 * d)
}

// Aggregate computes per-course and overall completion percentages. The
// overall figure is one ratio over all videos, not a mean of course percents.
func Aggregate(totals map[string]CourseTotals) Summary {
	s := Summary{PerCoursePercent: make(map[string]int, len(totals))}
	for key, t := range totals {
		s.PerCoursePercent[key] = percent(t.Completed, t.Total)
		s.CompletedVideos += t.Completed
		s.TotalVideos += t.Total
	}
	s.OverallPercent = percent(s.CompletedVideos, s.TotalVideos)
	return s
}

type HeatmapDay struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	// Intensity is the render bucket: 0 none, 1 single, 2 up to three, 3 more.
	Intensity int `json:"intensity"`
}

func intensity(count int) int {
	switch {
	case count == 0:
		return 0
	case count == 1:
		return 1
	case count <= 3:
		return 2
	default:
		return 3
	}
}

// ActivityHeatmap buckets completion times by calendar day (in now's location)
// over the HeatmapWindowDays days ending on now's day, oldest first. Every day
// of the window is present, including days without completions.
func ActivityHeatmap(completions []time.Time, now time.Time) []HeatmapDay {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	first := today.AddDate(0, 0, -(HeatmapWindowDays - 1))

	counts := make(map[string]int)
	for _, t := range completions {
		t = t.In(loc)
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
		if day.Before(first) || day.After(today) {
			continue
		}
		counts[day.Format(dateLayout)]++
	}

	days := make([]HeatmapDay, 0, HeatmapWindowDays)
	for d := first; !d.After(today); d = d.AddDate(0, 0, 1) {
		key := d.Format(dateLayout)
		days = append(days, HeatmapDay{Date: key, Count: counts[key], Intensity: intensity(counts[key])})
	}
	return days
}

const dateLayout = "2006-01-02"

type Activity struct {
	VideoID     string    `json:"videoId"`
	CourseFile  string    `json:"courseFile"`
	CompletedAt time.Time `json:"completedAt"`
}

// RecentActivity returns the RecentActivityLen latest completions, newest first.
func RecentActivity(items []Activity) []Activity {
	sorted := make([]Activity, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CompletedAt.After(sorted[j].CompletedAt)
	})
	if len(sorted) > RecentActivityLen {
		sorted = sorted[:RecentActivityLen]
	}
	return sorted
}
