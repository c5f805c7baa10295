package core

// Achievement pairs an id with its unlock predicate over a stats snapshot.
type Achievement struct {
	ID       string
	Unlocked func(UserStats) bool
}

// Registry is the static, ordered achievement table. Evaluation follows
// table order so unlock sequences are deterministic. Fixed business
// constants, not configuration.
var Registry = []Achievement{
	{"FIRST_POST", func(s UserStats) bool { return s.PostsCreated >= 1 }},
	{"FIRST_TOPIC", func(s UserStats) bool { return s.TopicsCreated >= 1 }},
	{"POPULAR_POSTER", func(s UserStats) bool { return s.LikesReceived >= 50 }},
	{"DISCUSSION_STARTER", func(s UserStats) bool { return s.TopicsCreated >= 10 }},
	{"ACTIVE_PARTICIPANT", func(s UserStats) bool { return s.PostsCreated >= 50 }},
	{"STREAK_MASTER", func(s UserStats) bool { return s.LongestStreak >= 7 }},
	{"KNOWLEDGE_SHARER", func(s UserStats) bool { return s.TopicsCreated >= 25 }},
	{"COMMUNITY_FAVORITE", func(s UserStats) bool { return s.LikesReceived >= 100 }},
}

// ApplyAchievements scans the registry against the snapshot and appends any
// newly unlocked ids. Append-only and idempotent: re-running on unchanged
// stats adds nothing, and unlocked ids are never removed even if the
// underlying counters later drop below their thresholds.
func ApplyAchievements(stats UserStats) (UserStats, []string) {
	var unlocked []string
	for _, a := range Registry {
		if stats.HasAchievement(a.ID) {
			continue
		}
		if a.Unlocked(stats) {
			stats.AddAchievement(a.ID)
			unlocked = append(unlocked, a.ID)
		}
	}
	return stats, unlocked
}
