package analytics

import (
	"context"
	"time"

	"forumkit/engine"
)

// Report summarizes the gamification state of the whole user base, for
// moderator dashboards. Computed on demand with a full stats scan.
type Report struct {
	Users          int            `json:"users"`
	ActiveStreaks  int            `json:"active_streaks"`
	TotalScore     int            `json:"total_score"`
	MeanScore      float64        `json:"mean_score"`
	MaxScore       int            `json:"max_score"`
	TopicsCreated  int            `json:"topics_created"`
	PostsCreated   int            `json:"posts_created"`
	LikesReceived  int            `json:"likes_received"`
	LevelCounts    map[int]int    `json:"level_counts"`
	AchievementTop map[string]int `json:"achievement_counts"`
	GeneratedAt    time.Time      `json:"generated_at"`
}

// Reporter computes Reports from a UserStore.
type Reporter struct {
	users engine.UserStore
}

func NewReporter(users engine.UserStore) *Reporter {
	return &Reporter{users: users}
}

// Compute scans all user stats and aggregates them. Store failures
// propagate; a partial report would be misleading.
func (r *Reporter) Compute(ctx context.Context) (Report, error) {
	all, err := r.users.ListAll(ctx)
	if err != nil {
		return Report{}, err
	}
	report := Report{
		LevelCounts:    make(map[int]int),
		AchievementTop: make(map[string]int),
		GeneratedAt:    time.Now().UTC(),
	}
	for _, u := range all {
		report.Users++
		report.TotalScore += u.TotalScore
		if u.TotalScore > report.MaxScore {
			report.MaxScore = u.TotalScore
		}
		if u.CurrentStreak > 0 {
			report.ActiveStreaks++
		}
		report.TopicsCreated += u.TopicsCreated
		report.PostsCreated += u.PostsCreated
		report.LikesReceived += u.LikesReceived
		report.LevelCounts[u.Level]++
		for _, id := range u.Achievements {
			report.AchievementTop[id]++
		}
	}
	if report.Users > 0 {
		report.MeanScore = float64(report.TotalScore) / float64(report.Users)
	}
	return report, nil
}

// UnlockRate returns the fraction of users holding the achievement.
func UnlockRate(report Report, id string) float64 {
	if report.Users == 0 {
		return 0
	}
	return float64(report.AchievementTop[id]) / float64(report.Users)
}
