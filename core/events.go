package core

import "time"

// EventKind enumerates the content events that drive scoring.
type EventKind string

const (
	EventTopicCreated EventKind = "topic_created"
	EventPostCreated  EventKind = "post_created"
	EventLikeReceived EventKind = "like_received"
	EventLikeRemoved  EventKind = "like_removed"
)

// IsActivity reports whether the kind counts toward the daily streak.
// Likes are not activity events.
func (k EventKind) IsActivity() bool {
	return k == EventTopicCreated || k == EventPostCreated
}

// EventType enumerates derived domain events emitted by the engine.
type EventType string

const (
	EventPointsAdded         EventType = "points_added"
	EventBadgeAwarded        EventType = "badge_awarded"
	EventAchievementUnlocked EventType = "achievement_unlocked"
	EventLevelUp             EventType = "level_up"
	EventStreakExtended      EventType = "streak_extended"
)

// Event represents an immutable derived event.
type Event struct {
	Type        EventType `json:"type"`
	Time        time.Time `json:"time"`
	UserID      UserID    `json:"user_id"`
	Kind        EventKind `json:"kind,omitempty"`
	Delta       int       `json:"delta,omitempty"`
	Total       int       `json:"total,omitempty"`
	Badge       string    `json:"badge,omitempty"`
	Achievement string    `json:"achievement,omitempty"`
	Level       int       `json:"level,omitempty"`
	Streak      int       `json:"streak,omitempty"`
}

func NewPointsAdded(user UserID, kind EventKind, delta, total int) Event {
	return Event{Type: EventPointsAdded, Time: time.Now().UTC(), UserID: user, Kind: kind, Delta: delta, Total: total}
}

func NewBadgeAwarded(user UserID, badge string) Event {
	return Event{Type: EventBadgeAwarded, Time: time.Now().UTC(), UserID: user, Badge: badge}
}

func NewAchievementUnlocked(user UserID, id string) Event {
	return Event{Type: EventAchievementUnlocked, Time: time.Now().UTC(), UserID: user, Achievement: id}
}

func NewLevelUp(user UserID, level int) Event {
	return Event{Type: EventLevelUp, Time: time.Now().UTC(), UserID: user, Level: level}
}

func NewStreakExtended(user UserID, streak int) Event {
	return Event{Type: EventStreakExtended, Time: time.Now().UTC(), UserID: user, Streak: streak}
}
