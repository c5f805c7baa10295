package leaderboard

import (
	"context"
	"sort"

	"forumkit/core"
	"forumkit/engine"
)

// DefaultLimit is the overall leaderboard size when the caller passes none.
const DefaultLimit = 50

// Entry is one row of the overall leaderboard.
type Entry struct {
	Rank       int         `json:"rank"`
	UserID     core.UserID `json:"user_id"`
	TotalScore int         `json:"total_score"`
	Level      int         `json:"level"`
}

// LikesEntry is one row of the likes leaderboard.
type LikesEntry struct {
	Rank       int         `json:"rank"`
	UserID     core.UserID `json:"user_id"`
	TotalLikes int         `json:"total_likes"`
}

// Builder produces ranked read-only views over the stores. It never
// mutates state; store failures propagate to the caller since a partial
// leaderboard is meaningless.
type Builder struct {
	users engine.UserStore
	posts engine.PostStore
}

func NewBuilder(users engine.UserStore, posts engine.PostStore) *Builder {
	return &Builder{users: users, posts: posts}
}

// BuildOverall returns the top users by total score. Rank is the 1-based
// position; equal scores are ordered by user id ascending so repeated
// calls over unchanged data return identical sequences regardless of the
// store's internal ordering.
func (b *Builder) BuildOverall(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	users, err := b.users.TopNByScore(ctx, limit)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(users, func(i, j int) bool {
		if users[i].TotalScore == users[j].TotalScore {
			return users[i].UserID < users[j].UserID
		}
		return users[i].TotalScore > users[j].TotalScore
	})
	entries := make([]Entry, 0, len(users))
	for i, u := range users {
		entries = append(entries, Entry{
			Rank:       i + 1,
			UserID:     u.UserID,
			TotalScore: u.TotalScore,
			Level:      u.Level,
		})
	}
	return entries, nil
}

// BuildByLikes sums likes per author over a full post scan and returns
// authors ranked by total likes received. O(posts) at query time; fine at
// forum scale, revisit if post volume grows.
func (b *Builder) BuildByLikes(ctx context.Context) ([]LikesEntry, error) {
	posts, err := b.posts.AllPosts(ctx)
	if err != nil {
		return nil, err
	}
	totals := make(map[core.UserID]int)
	for _, p := range posts {
		totals[p.AuthorID] += p.Likes
	}
	entries := make([]LikesEntry, 0, len(totals))
	for id, likes := range totals {
		entries = append(entries, LikesEntry{UserID: id, TotalLikes: likes})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalLikes == entries[j].TotalLikes {
			return entries[i].UserID < entries[j].UserID
		}
		return entries[i].TotalLikes > entries[j].TotalLikes
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}
