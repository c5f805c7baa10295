package leaderboard

import (
	"fmt"
	"sync"
	"testing"

	"forumkit/core"
)

func TestSkipListOrdering(t *testing.T) {
	s := NewSkipList()
	s.Update("alice", 50)
	s.Update("bob", 200)
	s.Update("carol", 200)
	s.Update("dave", 10)

	top := s.TopN(10)
	want := []core.UserID{"bob", "carol", "alice", "dave"}
	if len(top) != len(want) {
		t.Fatalf("len = %d, want %d", len(top), len(want))
	}
	for i, id := range want {
		if top[i].User != id {
			t.Fatalf("top = %v, want order %v", top, want)
		}
	}
}

func TestSkipListUpdateMovesUser(t *testing.T) {
	s := NewSkipList()
	s.Update("alice", 10)
	s.Update("bob", 20)
	s.Update("alice", 100)

	top := s.TopN(2)
	if top[0].User != "alice" || top[0].Score != 100 {
		t.Fatalf("top = %v", top)
	}
	if s.Len() != 2 {
		t.Fatalf("len = %d, want 2", s.Len())
	}
}

func TestSkipListRemove(t *testing.T) {
	s := NewSkipList()
	s.Update("alice", 10)
	s.Update("bob", 20)
	s.Remove("bob")

	if _, ok := s.Get("bob"); ok {
		t.Fatal("bob still present after remove")
	}
	top := s.TopN(10)
	if len(top) != 1 || top[0].User != "alice" {
		t.Fatalf("top = %v", top)
	}
}

func TestSkipListTopNTruncates(t *testing.T) {
	s := NewSkipList()
	for i := 0; i < 100; i++ {
		s.Update(core.UserID(fmt.Sprintf("user%03d", i)), i)
	}
	top := s.TopN(5)
	if len(top) != 5 {
		t.Fatalf("len = %d, want 5", len(top))
	}
	if top[0].Score != 99 {
		t.Fatalf("best score = %d, want 99", top[0].Score)
	}
}

func TestSkipListConcurrent(t *testing.T) {
	s := NewSkipList()
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				s.Update(core.UserID(fmt.Sprintf("u%d-%d", g, i%10)), i)
				s.TopN(3)
			}
		}(g)
	}
	wg.Wait()
	if s.Len() != 80 {
		t.Fatalf("len = %d, want 80", s.Len())
	}
}
