// Package forum assembles the gamification engine, leaderboard, and event
// consumers behind a single constructor, the way the surrounding forum
// application embeds them.
package forum

import (
	"context"
	"log/slog"

	mem "forumkit/adapters/memory"
	"forumkit/analytics"
	"forumkit/core"
	"forumkit/engine"
	"forumkit/integrations/webhook"
	"forumkit/leaderboard"
	"forumkit/realtime"
)

// Option configures the service builder.
type Option func(*config)

type config struct {
	users engine.UserStore
	posts engine.PostStore
	clock engine.Clock
	mode  engine.DispatchMode
	log   *slog.Logger
	hub   *realtime.Hub
	sink  *webhook.Sink
}

// WithUserStore sets the stats persistence adapter.
func WithUserStore(s engine.UserStore) Option { return func(c *config) { c.users = s } }

// WithPostStore sets the post source for the likes leaderboard.
func WithPostStore(s engine.PostStore) Option { return func(c *config) { c.posts = s } }

// WithClock injects the day source for streak logic.
func WithClock(clock engine.Clock) Option { return func(c *config) { c.clock = clock } }

// WithDispatchMode selects sync or async event dispatch.
func WithDispatchMode(m engine.DispatchMode) Option { return func(c *config) { c.mode = m } }

// WithLogger sets the structured logger used at the swallow boundary.
func WithLogger(log *slog.Logger) Option { return func(c *config) { c.log = log } }

// WithRealtime wires a realtime hub to receive all engine events.
func WithRealtime(h *realtime.Hub) Option { return func(c *config) { c.hub = h } }

// WithWebhook wires a webhook sink to receive all engine events.
func WithWebhook(s *webhook.Sink) Option { return func(c *config) { c.sink = s } }

// Service bundles the write side (Engine) and the read side (Board, Live).
type Service struct {
	Engine *engine.Engine
	Board  *leaderboard.Builder
	Live   *analytics.LiveMetrics
}

var allEventTypes = []core.EventType{
	core.EventPointsAdded,
	core.EventStreakExtended,
	core.EventAchievementUnlocked,
	core.EventLevelUp,
	core.EventBadgeAwarded,
}

// New builds a configured Service. Defaults: in-memory storage, async
// dispatch, system clock.
func New(opts ...Option) *Service {
	cfg := &config{mode: engine.DispatchAsync}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.users == nil {
		cfg.users = mem.New()
	}
	if cfg.posts == nil {
		// Stores like memory and mongo serve both roles.
		if ps, ok := cfg.users.(engine.PostStore); ok {
			cfg.posts = ps
		} else {
			cfg.posts = emptyPosts{}
		}
	}

	bus := engine.NewEventBus(cfg.mode)
	eng := engine.NewEngine(cfg.users, cfg.clock, bus, cfg.log)

	live := analytics.NewLiveMetrics()
	for _, typ := range allEventTypes {
		bus.Subscribe(typ, func(_ context.Context, e core.Event) { live.OnEvent(e) })
	}

	if cfg.hub != nil {
		for _, typ := range allEventTypes {
			bus.Subscribe(typ, func(ctx context.Context, e core.Event) { cfg.hub.Broadcast(ctx, e) })
		}
	}
	if cfg.sink != nil {
		for _, typ := range allEventTypes {
			bus.Subscribe(typ, func(_ context.Context, e core.Event) { cfg.sink.OnEvent(e) })
		}
	}

	return &Service{
		Engine: eng,
		Board:  leaderboard.NewBuilder(cfg.users, cfg.posts),
		Live:   live,
	}
}

// Close releases the engine's event bus workers.
func (s *Service) Close() { s.Engine.Close() }

// emptyPosts backs the likes leaderboard when no post source is wired.
type emptyPosts struct{}

func (emptyPosts) AllPosts(context.Context) ([]core.PostRef, error) { return nil, nil }
