package core

import "fmt"

// levelThresholds[i] is the cumulative score needed to reach level i+1.
// Static business constants; the table is monotonically increasing.
var levelThresholds = []int{0, 50, 150, 300, 500, 800, 1200, 1700, 2300, 3000, 4000, 5500, 7500, 10000}

// MaxLevel is the highest reachable level.
var MaxLevel = len(levelThresholds)

// ResolveLevel maps a cumulative score to a level. Level is always a pure
// function of score: the highest i with score >= levelThresholds[i], plus one.
func ResolveLevel(totalScore int) int {
	for i := len(levelThresholds) - 1; i >= 0; i-- {
		if totalScore >= levelThresholds[i] {
			return i + 1
		}
	}
	return 1
}

// LevelBadge names the badge awarded when a level is first reached.
func LevelBadge(level int) string {
	return fmt.Sprintf("LEVEL_%d", level)
}

// ApplyLevel re-resolves the level from the current score. The stored level
// is a high-water mark: it is raised on level-up (with a LEVEL_<n> badge
// appended) but never lowered when score later drops, e.g. after unlikes.
// Returns the new snapshot and whether a level-up happened.
func ApplyLevel(stats UserStats) (UserStats, bool) {
	resolved := ResolveLevel(stats.TotalScore)
	if resolved <= stats.Level {
		return stats, false
	}
	stats.Level = resolved
	stats.AddBadge(LevelBadge(resolved))
	return stats, true
}

// Progress reports how far a score is through its level band as a fraction
// in [0,1], plus the points remaining to the next level. At the final
// level progress is 1 and zero points remain.
func Progress(totalScore, level int) (float64, int) {
	if level < 1 {
		level = 1
	}
	if level >= MaxLevel {
		return 1, 0
	}
	lo := levelThresholds[level-1]
	hi := levelThresholds[level]
	p := float64(totalScore-lo) / float64(hi-lo)
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	remaining := hi - totalScore
	if remaining < 0 {
		remaining = 0
	}
	return p, remaining
}
