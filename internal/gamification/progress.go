package gamification

import "time"

const (
	// CompletionThreshold is the watched percent at which a video counts as completed.
	CompletionThreshold = 90
	// VideoCompletionXP is awarded once per (user, video) on first completion.
	VideoCompletionXP = 100
)

type ProgressState string

const (
	NotStarted ProgressState = "not_started"
	InProgress ProgressState = "in_progress"
	Completed  ProgressState = "completed"
)

// Record is the watch state of one video for one user.
type Record struct {
	WatchedPercent int        `json:"watchedPercent"`
	Completed      bool       `json:"completed"`
	CompletedAt    *time.Time `json:"completedAt"`
}

// State maps a record onto the progress state machine. A nil record has not started.
func (r *Record) State() ProgressState {
	switch {
	case r == nil:
		return NotStarted
	case r.Completed:
		return Completed
	default:
		return InProgress
	}
}

// ClampPercent forces a client-reported percent into [0, 100].
func ClampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// ReportProgress applies one progress report to the existing record (nil when
// the video was never reported) and returns the new record. justCompleted is
// true only on the report that first crosses the completion threshold; the
// caller awards VideoCompletionXP exactly when it is true.
//
// incoming must already be clamped to [0, 100].
func ReportProgress(existing *Record, incoming int, now time.Time) (next Record, justCompleted bool) {
	if existing != nil {
		next = *existing
	}
	if incoming > next.WatchedPercent {
		next.WatchedPercent = incoming
	}

	if next.Completed {
		return next, false
	}

	if next.WatchedPercent >= CompletionThreshold {
		completedAt := now
		next.Completed = true
		next.CompletedAt = &completedAt
		return next, true
	}

	return next, false
}
