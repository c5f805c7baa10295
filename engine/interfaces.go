package engine

import (
	"context"
	"errors"
	"time"

	"forumkit/core"
)

// ErrNotFound is returned by stores when the referenced user does not exist.
// The engine never creates stats records; users are seeded at registration
// by the surrounding application.
var ErrNotFound = errors.New("user stats not found")

// UserStore abstracts persistence of per-user stats. Save has overwrite
// semantics: the full record replaces whatever is stored.
type UserStore interface {
	Get(ctx context.Context, id core.UserID) (core.UserStats, error)
	Save(ctx context.Context, stats core.UserStats) error
	ListAll(ctx context.Context) ([]core.UserStats, error)
	TopNByScore(ctx context.Context, n int) ([]core.UserStats, error)
}

// PostStore exposes the post ownership data the likes leaderboard scans.
type PostStore interface {
	AllPosts(ctx context.Context) ([]core.PostRef, error)
}

// Clock supplies the current day for streak logic; injectable for
// deterministic tests.
type Clock interface {
	Today() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Today() time.Time { return core.TruncateDay(time.Now()) }

// FixedClock always reports the same day.
type FixedClock struct{ Day time.Time }

func (c FixedClock) Today() time.Time { return core.TruncateDay(c.Day) }
