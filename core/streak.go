package core

import "time"

// DailyBonus is awarded at most once per calendar day of activity.
const DailyBonus = 3

// ApplyStreak updates the day-granularity activity streak. Called only for
// activity events (topic/post creation), never for likes.
//
// Rules, with dates truncated to UTC day boundaries:
//   - first ever activity: streak starts at 1, daily bonus awarded
//   - same calendar day: no-op, so repeated same-day activity is idempotent
//   - next calendar day: streak extends by one, daily bonus awarded
//   - gap of more than one day: streak restarts at 1, daily bonus awarded
//   - today before the recorded date (clock skew): treated as same-day
//
// LongestStreak is re-compared after every mutation so it never falls
// below CurrentStreak.
func ApplyStreak(stats UserStats, today time.Time) UserStats {
	day := TruncateDay(today)

	if stats.LastActivityDate == nil {
		stats.CurrentStreak = 1
		stats.TotalScore += DailyBonus
		stats.LastActivityDate = &day
	} else {
		switch days := DaysBetween(*stats.LastActivityDate, day); {
		case days <= 0:
			// Same day, or out-of-order event: nothing to do.
			return stats
		case days == 1:
			stats.CurrentStreak++
			stats.TotalScore += DailyBonus
			stats.LastActivityDate = &day
		default:
			stats.CurrentStreak = 1
			stats.TotalScore += DailyBonus
			stats.LastActivityDate = &day
		}
	}

	if stats.LongestStreak < stats.CurrentStreak {
		stats.LongestStreak = stats.CurrentStreak
	}
	return stats
}

// StreakStale reports whether the recorded activity date is more than one
// day behind today, meaning the current streak is broken.
func StreakStale(stats UserStats, today time.Time) bool {
	if stats.LastActivityDate == nil {
		return false
	}
	return DaysBetween(*stats.LastActivityDate, TruncateDay(today)) > 1
}
