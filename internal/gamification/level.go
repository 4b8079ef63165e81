package gamification

import (
	"math"
	"time"
)

// LevelFromXP derives the level from total XP: floor(sqrt(xp/100)) + 1.
// Level is never stored on its own; recompute it whenever XP changes.
func LevelFromXP(xp int) int {
	if xp <= 0 {
		return 1
	}
	return int(math.Floor(math.Sqrt(float64(xp)/100))) + 1
}

func AwardVideoCompletionXP(currentXP int) int {
	return currentXP + VideoCompletionXP
}

// OnLogin updates a login streak. Days are whole 24h periods of elapsed time
// between the two logins, not calendar dates: logins at 23:59 and 00:01 the
// next day are 0 days apart and leave the streak unchanged.
func OnLogin(streak int, lastLogin, now time.Time) (newStreak int, newLastLogin time.Time) {
	elapsed := now.Sub(lastLogin)
	if elapsed < 0 {
		elapsed = -elapsed
	}
	diffDays := int(elapsed / (24 * time.Hour))

	switch {
	case diffDays == 1:
		newStreak = streak + 1
	case diffDays > 1:
		newStreak = 1
	default:
		newStreak = streak
	}
	return newStreak, now
}
