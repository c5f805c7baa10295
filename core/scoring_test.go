package core

import "testing"

func TestApplyScoreDeltas(t *testing.T) {
	cases := []struct {
		kind      EventKind
		wantScore int
	}{
		{EventTopicCreated, 10},
		{EventPostCreated, 5},
		{EventLikeReceived, 2},
	}
	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			out, err := ApplyScore(NewUserStats("u"), tc.kind)
			if err != nil {
				t.Fatal(err)
			}
			if out.TotalScore != tc.wantScore {
				t.Fatalf("score = %d, want %d", out.TotalScore, tc.wantScore)
			}
		})
	}
}

func TestApplyScoreCounters(t *testing.T) {
	s := NewUserStats("u")
	s, _ = ApplyScore(s, EventTopicCreated)
	s, _ = ApplyScore(s, EventPostCreated)
	s, _ = ApplyScore(s, EventLikeReceived)
	if s.TopicsCreated != 1 || s.PostsCreated != 1 || s.LikesReceived != 1 {
		t.Fatalf("counters = %d/%d/%d", s.TopicsCreated, s.PostsCreated, s.LikesReceived)
	}
}

func TestApplyScoreUnlikeRoundTrip(t *testing.T) {
	s := NewUserStats("u")
	s.TotalScore = 40
	s, _ = ApplyScore(s, EventLikeReceived)
	s, _ = ApplyScore(s, EventLikeRemoved)
	if s.TotalScore != 40 {
		t.Fatalf("score after like/unlike = %d, want 40", s.TotalScore)
	}
	if s.LikesReceived != 0 {
		t.Fatalf("likes after like/unlike = %d, want 0", s.LikesReceived)
	}
}

func TestApplyScoreFloorsAtZero(t *testing.T) {
	s := NewUserStats("u")
	s, _ = ApplyScore(s, EventLikeRemoved)
	if s.TotalScore != 0 {
		t.Fatalf("score = %d, want 0", s.TotalScore)
	}
	if s.LikesReceived != 0 {
		t.Fatalf("likes = %d, want 0", s.LikesReceived)
	}
}

func TestApplyScoreUnknownKind(t *testing.T) {
	if _, err := ApplyScore(NewUserStats("u"), EventKind("debate_won")); err == nil {
		t.Fatal("expected error for unknown event kind")
	}
}
