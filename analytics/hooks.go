package analytics

import (
	"sync"
	"time"

	"forumkit/core"
)

// Hook receives derived events for KPI aggregation.
type Hook interface {
	OnEvent(e core.Event)
}

// DAU tracks daily active users from the event stream.
type DAU struct {
	mu   sync.Mutex
	days map[string]map[core.UserID]struct{}
}

func NewDAU() *DAU { return &DAU{days: map[string]map[core.UserID]struct{}{}} }

func (d *DAU) OnEvent(e core.Event) {
	day := e.Time.UTC().Format("2006-01-02")
	d.mu.Lock()
	defer d.mu.Unlock()
	m := d.days[day]
	if m == nil {
		m = map[core.UserID]struct{}{}
		d.days[day] = m
	}
	m[e.UserID] = struct{}{}
}

func (d *DAU) Count(day string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.days[day])
}

// LiveMetrics accumulates rolling counters from the event stream, unlike
// Reporter which scans the store on demand. Attach it to the engine bus.
type LiveMetrics struct {
	mu sync.Mutex

	activeByDay map[string]map[core.UserID]struct{}

	pointsByDay  map[string]int
	pointsByKind map[core.EventKind]int

	levelUpsByDay     map[string]int
	levelDistribution map[int]int

	unlocksByDay map[string]int
	unlocksByID  map[string]int

	streakExtensions int
}

func NewLiveMetrics() *LiveMetrics {
	return &LiveMetrics{
		activeByDay:       map[string]map[core.UserID]struct{}{},
		pointsByDay:       map[string]int{},
		pointsByKind:      map[core.EventKind]int{},
		levelUpsByDay:     map[string]int{},
		levelDistribution: map[int]int{},
		unlocksByDay:      map[string]int{},
		unlocksByID:       map[string]int{},
	}
}

func (m *LiveMetrics) OnEvent(e core.Event) {
	day := e.Time.UTC().Format("2006-01-02")

	m.mu.Lock()
	defer m.mu.Unlock()

	users := m.activeByDay[day]
	if users == nil {
		users = map[core.UserID]struct{}{}
		m.activeByDay[day] = users
	}
	users[e.UserID] = struct{}{}

	switch e.Type {
	case core.EventPointsAdded:
		if e.Delta > 0 {
			m.pointsByDay[day] += e.Delta
			m.pointsByKind[e.Kind] += e.Delta
		}
	case core.EventLevelUp:
		m.levelUpsByDay[day]++
		m.levelDistribution[e.Level]++
	case core.EventAchievementUnlocked:
		m.unlocksByDay[day]++
		m.unlocksByID[e.Achievement]++
	case core.EventStreakExtended:
		m.streakExtensions++
	}
}

// LiveSnapshot is a point-in-time copy of the rolling counters.
type LiveSnapshot struct {
	ActiveUsers       int                    `json:"active_users"`
	PointsAwarded     int                    `json:"points_awarded"`
	PointsByKind      map[core.EventKind]int `json:"points_by_kind"`
	LevelUps          int                    `json:"level_ups"`
	LevelDistribution map[int]int            `json:"level_distribution"`
	Unlocks           int                    `json:"unlocks"`
	UnlocksByID       map[string]int         `json:"unlocks_by_id"`
	StreakExtensions  int                    `json:"streak_extensions"`
	Day               string                 `json:"day"`
}

// SnapshotFor summarizes the counters for one UTC day.
func (m *LiveMetrics) SnapshotFor(day time.Time) LiveSnapshot {
	key := day.UTC().Format("2006-01-02")

	m.mu.Lock()
	defer m.mu.Unlock()

	snap := LiveSnapshot{
		Day:               key,
		ActiveUsers:       len(m.activeByDay[key]),
		PointsAwarded:     m.pointsByDay[key],
		PointsByKind:      map[core.EventKind]int{},
		LevelUps:          m.levelUpsByDay[key],
		LevelDistribution: map[int]int{},
		Unlocks:           m.unlocksByDay[key],
		UnlocksByID:       map[string]int{},
		StreakExtensions:  m.streakExtensions,
	}
	for k, v := range m.pointsByKind {
		snap.PointsByKind[k] = v
	}
	for k, v := range m.levelDistribution {
		snap.LevelDistribution[k] = v
	}
	for k, v := range m.unlocksByID {
		snap.UnlocksByID[k] = v
	}
	return snap
}
