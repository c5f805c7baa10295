package sdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// UserStats mirrors the public JSON surface of the user stats summary.
type UserStats struct {
	UserID            string   `json:"user_id"`
	TotalScore        int      `json:"total_score"`
	Level             int      `json:"level"`
	TopicsCreated     int      `json:"topics_created"`
	PostsCreated      int      `json:"posts_created"`
	LikesReceived     int      `json:"likes_received"`
	CurrentStreak     int      `json:"current_streak"`
	LongestStreak     int      `json:"longest_streak"`
	Badges            []string `json:"badges"`
	Achievements      []string `json:"achievements"`
	LevelProgress     float64  `json:"level_progress"`
	PointsToNextLevel int      `json:"points_to_next_level"`
}

// LeaderboardEntry is one ranked row.
type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	UserID     string `json:"user_id"`
	TotalScore int    `json:"total_score,omitempty"`
	TotalLikes int    `json:"total_likes,omitempty"`
	Level      int    `json:"level,omitempty"`
}

// Leaderboard is the /leaderboard response.
type Leaderboard struct {
	Kind    string             `json:"kind"`
	Entries []LeaderboardEntry `json:"entries"`
}

// HealthStatus describes the /healthz response.
type HealthStatus struct {
	Status string                 `json:"status"`
	Checks map[string]interface{} `json:"checks"`
}

func decodeJSON(resp *http.Response, target any) error {
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("request failed: status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(target)
}

// ErrEmptyUserID is returned when user id is empty.
var ErrEmptyUserID = errors.New("user id is required")
