package sdk

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"forumkit/core"
)

func TestClient_ReportEventStatsLeaderboardHealth(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	client, err := NewClient(srv.URL+"/api", WithAPIKey("k1"))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	ctx := context.Background()

	if err := client.ReportEvent(ctx, "topic_created", "alice"); err != nil {
		t.Fatalf("report event: %v", err)
	}

	stats, err := client.GetUserStats(ctx, "alice")
	if err != nil {
		t.Fatalf("get stats: %v", err)
	}
	if stats.UserID != "alice" || stats.TotalScore != 13 || stats.Level != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	board, err := client.Leaderboard(ctx, "overall", 10)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if board.Kind != "overall" || len(board.Entries) != 1 || board.Entries[0].UserID != "alice" {
		t.Fatalf("unexpected board: %+v", board)
	}

	health, err := client.Health(ctx)
	if err != nil || health.Status != "healthy" {
		t.Fatalf("health: %+v err=%v", health, err)
	}
}

func TestClient_ReportEventRejectsEmptyUser(t *testing.T) {
	client, err := NewClient("http://localhost:1/api")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if err := client.ReportEvent(context.Background(), "post_created", "  "); err != ErrEmptyUserID {
		t.Fatalf("err = %v, want ErrEmptyUserID", err)
	}
}

func TestClient_SubscribeEvents(t *testing.T) {
	srv := newTestServer()
	defer srv.Close()

	client, err := NewClient(srv.URL + "/api")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	events, err := client.SubscribeEvents(ctx)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	select {
	case evt := <-events:
		if evt.Type != core.EventPointsAdded {
			t.Fatalf("unexpected event type: %s", evt.Type)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for event")
	}
}

// test server implementing the minimal API surface expected by the SDK.
func newTestServer() *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"healthy","checks":{"storage":"ok"}}`))
	})
	mux.HandleFunc("/api/events/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"accepted":true}`))
	})
	mux.HandleFunc("/api/users/", func(w http.ResponseWriter, r *http.Request) {
		// /api/users/{id}/stats
		path := r.URL.Path[len("/api/users/"):]
		parts := strings.Split(path, "/")
		if len(parts) != 2 || parts[1] != "stats" || r.Method != http.MethodGet {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user_id":"` + parts[0] + `","total_score":13,"level":1,` +
			`"topics_created":1,"current_streak":1,"badges":[],"achievements":["FIRST_TOPIC"],` +
			`"level_progress":0.26,"points_to_next_level":37}`))
	})
	mux.HandleFunc("/api/leaderboard", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"kind":"overall","entries":[{"rank":1,"user_id":"alice","total_score":13,"level":1}]}`))
	})

	upgrader := websocket.Upgrader{}
	mux.HandleFunc("/api/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		evt := core.NewPointsAdded("alice", core.EventTopicCreated, 10, 10)
		_ = conn.WriteJSON(evt)
	})

	return httptest.NewServer(mux)
}
