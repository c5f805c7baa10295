package engine

import (
	"context"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	"forumkit/core"
)

// Engine turns content events into persistent score, level, streak, and
// achievement state. Each event runs the fixed pipeline
// load -> score -> streak (activity only) -> achievements -> level -> save
// with exactly one load and one save per call.
//
// The load-modify-save sequence for one user is serialized by a striped
// per-user lock, so two concurrent events for the same author cannot lose
// an increment to a last-writer-wins overwrite.
type Engine struct {
	users UserStore
	clock Clock
	bus   *EventBus
	log   *slog.Logger
	locks userLocks
}

func NewEngine(users UserStore, clock Clock, bus *EventBus, log *slog.Logger) *Engine {
	if users == nil || bus == nil {
		panic("NewEngine requires non-nil store and bus")
	}
	if clock == nil {
		clock = SystemClock{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Engine{users: users, clock: clock, bus: bus, log: log}
}

// OnTopicCreated records a topic creation for the user. Fire-and-forget:
// bookkeeping failures are logged and swallowed so the forum operation that
// triggered the event never fails because of them.
func (e *Engine) OnTopicCreated(ctx context.Context, user core.UserID) {
	e.swallow(ctx, user, core.EventTopicCreated)
}

// OnPostCreated records a post creation for the user.
func (e *Engine) OnPostCreated(ctx context.Context, user core.UserID) {
	e.swallow(ctx, user, core.EventPostCreated)
}

// OnLikeReceived credits the post author with a received like. Not an
// activity event; the streak is untouched.
func (e *Engine) OnLikeReceived(ctx context.Context, author core.UserID) {
	e.swallow(ctx, author, core.EventLikeReceived)
}

// OnLikeRemoved reverses a like for the post author, floored at zero.
func (e *Engine) OnLikeRemoved(ctx context.Context, author core.UserID) {
	e.swallow(ctx, author, core.EventLikeRemoved)
}

func (e *Engine) swallow(ctx context.Context, user core.UserID, kind core.EventKind) {
	if err := e.Record(ctx, user, kind); err != nil {
		e.log.Error("gamification update failed",
			"user", string(user), "kind", string(kind), "error", err)
	}
}

// Record runs the update pipeline for one event and propagates any failure
// to the caller. The four On* entry points wrap it with the log-and-swallow
// policy; callers holding their own error policy may use Record directly.
// An unknown event kind is a programming error and is rejected here.
func (e *Engine) Record(ctx context.Context, user core.UserID, kind core.EventKind) error {
	id, err := core.NormalizeUserID(user)
	if err != nil {
		return err
	}

	unlock := e.locks.lock(id)
	defer unlock()

	stats, err := e.users.Get(ctx, id)
	if err != nil {
		return err
	}
	before := stats

	stats, err = core.ApplyScore(stats, kind)
	if err != nil {
		return err
	}
	if kind.IsActivity() {
		stats = core.ApplyStreak(stats, e.clock.Today())
	}
	stats, unlocked := core.ApplyAchievements(stats)
	stats, leveledUp := core.ApplyLevel(stats)
	stats.Updated = time.Now().UTC()

	if err := e.users.Save(ctx, stats); err != nil {
		return err
	}

	e.publish(ctx, before, stats, kind, unlocked, leveledUp)
	return nil
}

func (e *Engine) publish(ctx context.Context, before, after core.UserStats, kind core.EventKind, unlocked []string, leveledUp bool) {
	if d := after.TotalScore - before.TotalScore; d != 0 {
		e.bus.Publish(ctx, core.NewPointsAdded(after.UserID, kind, d, after.TotalScore))
	}
	if after.CurrentStreak != before.CurrentStreak {
		e.bus.Publish(ctx, core.NewStreakExtended(after.UserID, after.CurrentStreak))
	}
	for _, id := range unlocked {
		e.bus.Publish(ctx, core.NewAchievementUnlocked(after.UserID, id))
	}
	if leveledUp {
		e.bus.Publish(ctx, core.NewLevelUp(after.UserID, after.Level))
		e.bus.Publish(ctx, core.NewBadgeAwarded(after.UserID, core.LevelBadge(after.Level)))
	}
}

// Subscribe registers a handler on the engine's event bus.
func (e *Engine) Subscribe(typ core.EventType, handler func(context.Context, core.Event)) func() {
	return e.bus.Subscribe(typ, handler)
}

// Publish forwards an event to the bus. Exposed for bridging to realtime
// consumers.
func (e *Engine) Publish(ctx context.Context, ev core.Event) {
	e.bus.Publish(ctx, ev)
}

// Close stops the event bus workers.
func (e *Engine) Close() { e.bus.Close() }

// Summary is the read model returned to profile pages.
type Summary struct {
	UserID            core.UserID `json:"user_id"`
	TotalScore        int         `json:"total_score"`
	Level             int         `json:"level"`
	TopicsCreated     int         `json:"topics_created"`
	PostsCreated      int         `json:"posts_created"`
	LikesReceived     int         `json:"likes_received"`
	CurrentStreak     int         `json:"current_streak"`
	LongestStreak     int         `json:"longest_streak"`
	Badges            []string    `json:"badges"`
	Achievements      []string    `json:"achievements"`
	LevelProgress     float64     `json:"level_progress"`
	PointsToNextLevel int         `json:"points_to_next_level"`
}

// GetUserStatsSummary returns the user's stats with level progress derived
// from the threshold table. Unlike the event entry points this is a query:
// store failures propagate to the caller.
func (e *Engine) GetUserStatsSummary(ctx context.Context, user core.UserID) (Summary, error) {
	id, err := core.NormalizeUserID(user)
	if err != nil {
		return Summary{}, err
	}
	stats, err := e.users.Get(ctx, id)
	if err != nil {
		return Summary{}, err
	}
	progress, remaining := core.Progress(stats.TotalScore, stats.Level)
	return Summary{
		UserID:            stats.UserID,
		TotalScore:        stats.TotalScore,
		Level:             stats.Level,
		TopicsCreated:     stats.TopicsCreated,
		PostsCreated:      stats.PostsCreated,
		LikesReceived:     stats.LikesReceived,
		CurrentStreak:     stats.CurrentStreak,
		LongestStreak:     stats.LongestStreak,
		Badges:            append([]string(nil), stats.Badges...),
		Achievements:      append([]string(nil), stats.Achievements...),
		LevelProgress:     progress,
		PointsToNextLevel: remaining,
	}, nil
}

// ResetStaleStreaks zeroes the current streak of every user whose last
// activity is more than one day behind today. Invoked by the periodic
// scheduler; per-user failures are logged and skipped so one bad record
// does not abort the sweep. Returns the number of streaks reset.
func (e *Engine) ResetStaleStreaks(ctx context.Context, today time.Time) (int, error) {
	users, err := e.users.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	reset := 0
	for _, u := range users {
		if u.CurrentStreak == 0 || !core.StreakStale(u, today) {
			continue
		}
		if err := e.resetStreak(ctx, u.UserID, today); err != nil {
			e.log.Error("streak reset failed", "user", string(u.UserID), "error", err)
			continue
		}
		reset++
	}
	return reset, nil
}

func (e *Engine) resetStreak(ctx context.Context, id core.UserID, today time.Time) error {
	unlock := e.locks.lock(id)
	defer unlock()

	// Re-read under the lock; an activity event may have raced the sweep.
	stats, err := e.users.Get(ctx, id)
	if err != nil {
		return err
	}
	if stats.CurrentStreak == 0 || !core.StreakStale(stats, today) {
		return nil
	}
	stats.CurrentStreak = 0
	stats.Updated = time.Now().UTC()
	return e.users.Save(ctx, stats)
}

// userLocks stripes per-user mutexes over a fixed shard array. Collisions
// only cost contention, never correctness.
type userLocks struct {
	shards [64]sync.Mutex
}

func (l *userLocks) lock(id core.UserID) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	m := &l.shards[h.Sum32()%uint32(len(l.shards))]
	m.Lock()
	return m.Unlock
}
