package core

import (
	"errors"
	"strings"
	"time"
)

// UserID uniquely identifies a forum user in the gamification domain.
type UserID string

// UserStats is a snapshot of one user's gamification state. The engine
// loads a snapshot, mutates it through the update pipeline, and writes it
// back in full; callers should treat snapshots as values and use Clone
// before sharing across goroutines.
type UserStats struct {
	UserID           UserID     `json:"user_id"`
	TotalScore       int        `json:"total_score"`
	Level            int        `json:"level"`
	TopicsCreated    int        `json:"topics_created"`
	PostsCreated     int        `json:"posts_created"`
	LikesReceived    int        `json:"likes_received"`
	CurrentStreak    int        `json:"current_streak"`
	LongestStreak    int        `json:"longest_streak"`
	LastActivityDate *time.Time `json:"last_activity_date,omitempty"`
	Badges           []string   `json:"badges"`
	Achievements     []string   `json:"achievements"`
	Updated          time.Time  `json:"updated"`
}

// NewUserStats returns the zero state a freshly registered user starts with.
func NewUserStats(id UserID) UserStats {
	return UserStats{UserID: id, Level: 1, Updated: time.Now().UTC()}
}

// Clone returns a deep copy of the snapshot.
func (s UserStats) Clone() UserStats {
	cp := s
	if s.LastActivityDate != nil {
		d := *s.LastActivityDate
		cp.LastActivityDate = &d
	}
	cp.Badges = append([]string(nil), s.Badges...)
	cp.Achievements = append([]string(nil), s.Achievements...)
	return cp
}

// HasBadge reports whether the badge is already present.
func (s UserStats) HasBadge(badge string) bool {
	for _, b := range s.Badges {
		if b == badge {
			return true
		}
	}
	return false
}

// HasAchievement reports whether the achievement id is already present.
func (s UserStats) HasAchievement(id string) bool {
	for _, a := range s.Achievements {
		if a == id {
			return true
		}
	}
	return false
}

// AddBadge appends the badge if absent. Badges are append-only; the set
// never shrinks. Returns true when the badge was newly added.
func (s *UserStats) AddBadge(badge string) bool {
	if s.HasBadge(badge) {
		return false
	}
	s.Badges = append(s.Badges, badge)
	return true
}

// AddAchievement appends the achievement id if absent. Returns true when
// the id was newly added.
func (s *UserStats) AddAchievement(id string) bool {
	if s.HasAchievement(id) {
		return false
	}
	s.Achievements = append(s.Achievements, id)
	return true
}

// PostRef is the slice of a forum post the likes leaderboard needs.
type PostRef struct {
	AuthorID UserID `json:"author_id"`
	Likes    int    `json:"likes"`
}

// NormalizeUserID trims and lowercases user identifiers.
func NormalizeUserID(id UserID) (UserID, error) {
	s := strings.TrimSpace(string(id))
	if s == "" {
		return "", errors.New("empty user id")
	}
	return UserID(strings.ToLower(s)), nil
}

// TruncateDay discards the time-of-day component, keeping the UTC calendar day.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole number of calendar days from a to b,
// both truncated to day boundaries. Negative when b precedes a.
func DaysBetween(a, b time.Time) int {
	da := TruncateDay(a)
	db := TruncateDay(b)
	return int(db.Sub(da).Hours() / 24)
}
