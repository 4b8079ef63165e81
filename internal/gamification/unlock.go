package gamification

import (
	"errors"
	"fmt"
)

var ErrIndexOutOfRange = errors.New("video index out of range")

// IsUnlocked reports whether the video at index of course may be played. The
// first video is always open; any later video opens only once the video
// immediately before it is completed. A predecessor missing from completion
// counts as not completed.
func IsUnlocked(course []string, completion map[string]bool, index int) (bool, error) {
	if index < 0 || index >= len(course) {
		return false, fmt.Errorf("%w: %d (course has %d videos)", ErrIndexOutOfRange, index, len(course))
	}
	if index == 0 {
		return true, nil
	}
	return completion[course[index-1]], nil
}

// UnlockStates evaluates IsUnlocked for every position of course.
func UnlockStates(course []string, completion map[string]bool) []bool {
	states := make([]bool, len(course))
	for i := range course {
		states[i], _ = IsUnlocked(course, completion, i)
	}
	return states
}
