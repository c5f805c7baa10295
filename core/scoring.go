package core

import "fmt"

// Score deltas per event kind. These are fixed business constants, not
// configuration.
const (
	ScoreTopicCreated = 10
	ScorePostCreated  = 5
	ScoreLikeReceived = 2
	ScoreLikeRemoved  = -2
)

var scoreDeltas = map[EventKind]int{
	EventTopicCreated: ScoreTopicCreated,
	EventPostCreated:  ScorePostCreated,
	EventLikeReceived: ScoreLikeReceived,
	EventLikeRemoved:  ScoreLikeRemoved,
}

// ScoreDelta returns the point value of an event kind.
func ScoreDelta(kind EventKind) (int, error) {
	d, ok := scoreDeltas[kind]
	if !ok {
		return 0, fmt.Errorf("unknown event kind %q", kind)
	}
	return d, nil
}

// ApplyScore applies the point delta and counter bump for the event kind
// to the numeric fields of the snapshot. TotalScore and LikesReceived are
// floored at zero. Streak, achievements, and level are untouched; those
// belong to later pipeline stages.
func ApplyScore(stats UserStats, kind EventKind) (UserStats, error) {
	delta, err := ScoreDelta(kind)
	if err != nil {
		return stats, err
	}
	stats.TotalScore += delta
	if stats.TotalScore < 0 {
		stats.TotalScore = 0
	}
	switch kind {
	case EventTopicCreated:
		stats.TopicsCreated++
	case EventPostCreated:
		stats.PostsCreated++
	case EventLikeReceived:
		stats.LikesReceived++
	case EventLikeRemoved:
		if stats.LikesReceived > 0 {
			stats.LikesReceived--
		}
	}
	return stats, nil
}
