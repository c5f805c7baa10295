package memory

import (
	"context"
	"sync"
	"time"

	"forumkit/core"
	"forumkit/engine"
	"forumkit/leaderboard"
)

// Store is a concurrent in-memory UserStore and PostStore. It backs tests
// and demo deployments, and keeps a skip-list ranking current on every
// save so TopNByScore does not re-sort the user set.
type Store struct {
	users sync.Map // map[core.UserID]*userRecord
	index *leaderboard.SkipList

	postsMu sync.RWMutex
	posts   []core.PostRef
}

type userRecord struct {
	mu    sync.Mutex
	stats core.UserStats
}

func New() *Store {
	return &Store{index: leaderboard.NewSkipList()}
}

// Seed registers a user with zero stats, mirroring what the forum's user
// registration does in production.
func (s *Store) Seed(id core.UserID) {
	_ = s.Save(context.Background(), core.NewUserStats(id))
}

func (s *Store) Get(_ context.Context, id core.UserID) (core.UserStats, error) {
	v, ok := s.users.Load(id)
	if !ok {
		return core.UserStats{}, engine.ErrNotFound
	}
	rec := v.(*userRecord)
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.stats.Clone(), nil
}

func (s *Store) Save(_ context.Context, stats core.UserStats) error {
	v, _ := s.users.LoadOrStore(stats.UserID, &userRecord{})
	rec := v.(*userRecord)
	rec.mu.Lock()
	rec.stats = stats.Clone()
	if rec.stats.Updated.IsZero() {
		rec.stats.Updated = time.Now().UTC()
	}
	rec.mu.Unlock()
	s.index.Update(stats.UserID, stats.TotalScore)
	return nil
}

func (s *Store) ListAll(_ context.Context) ([]core.UserStats, error) {
	var out []core.UserStats
	s.users.Range(func(_, v any) bool {
		rec := v.(*userRecord)
		rec.mu.Lock()
		out = append(out, rec.stats.Clone())
		rec.mu.Unlock()
		return true
	})
	return out, nil
}

func (s *Store) TopNByScore(ctx context.Context, n int) ([]core.UserStats, error) {
	ranked := s.index.TopN(n)
	out := make([]core.UserStats, 0, len(ranked))
	for _, r := range ranked {
		stats, err := s.Get(ctx, r.User)
		if err != nil {
			// Removed between ranking and fetch; skip.
			continue
		}
		out = append(out, stats)
	}
	return out, nil
}

// AddPost records a post reference for the likes leaderboard.
func (s *Store) AddPost(author core.UserID, likes int) {
	s.postsMu.Lock()
	s.posts = append(s.posts, core.PostRef{AuthorID: author, Likes: likes})
	s.postsMu.Unlock()
}

func (s *Store) AllPosts(_ context.Context) ([]core.PostRef, error) {
	s.postsMu.RLock()
	defer s.postsMu.RUnlock()
	return append([]core.PostRef(nil), s.posts...), nil
}

var _ engine.UserStore = (*Store)(nil)
var _ engine.PostStore = (*Store)(nil)
