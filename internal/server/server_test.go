package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"zombieland-server/internal/engine"
	"zombieland-server/internal/version"
	"zombieland-server/pkg/api"
	"zombieland-server/pkg/worldmap"

	"github.com/gorilla/websocket"
)

func newTestServer(t *testing.T) (*engine.GameService, *httptest.Server) {
	t.Helper()
	world, err := worldmap.Default()
	if err != nil {
		t.Fatalf("world: %v", err)
	}
	cfg := engine.NewConfig()
	cfg.Seed = 7
	svc := engine.NewService(cfg, world, nil)

	ts := httptest.NewServer(New(svc, "").Handler())
	t.Cleanup(ts.Close)
	return svc, ts
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK && out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Errorf("health = %d %q", resp.StatusCode, body)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Error("CORS header missing")
	}
}

func TestVersion(t *testing.T) {
	_, ts := newTestServer(t)

	var info version.VersionInfo
	if code := getJSON(t, ts.URL+"/version", &info); code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if info.Protocol != api.ProtocolVersion {
		t.Errorf("protocol = %d", info.Protocol)
	}
}

func TestDebugRoutes(t *testing.T) {
	_, ts := newTestServer(t)

	t.Run("World", func(t *testing.T) {
		var sum engine.WorldSummary
		if code := getJSON(t, ts.URL+"/debug/world", &sum); code != http.StatusOK {
			t.Fatalf("status %d", code)
		}
		if sum.Seed != 7 || len(sum.Areas) != 3 {
			t.Errorf("summary = %+v", sum)
		}
	})

	t.Run("Players", func(t *testing.T) {
		var players []engine.PlayerSummary
		if code := getJSON(t, ts.URL+"/debug/players", &players); code != http.StatusOK {
			t.Fatalf("status %d", code)
		}
		if code := getJSON(t, ts.URL+"/debug/players?name=nobody", nil); code != http.StatusNotFound {
			t.Errorf("unknown player status %d", code)
		}
	})

	t.Run("Stats", func(t *testing.T) {
		var stats map[string]any
		if code := getJSON(t, ts.URL+"/debug/stats", &stats); code != http.StatusOK {
			t.Fatalf("status %d", code)
		}
		if _, ok := stats["overruns"]; !ok {
			t.Errorf("stats = %v", stats)
		}
	})
}

func TestObserverFeed(t *testing.T) {
	svc, ts := newTestServer(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var first engine.WorldSummary
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("initial summary: %v", err)
	}
	if first.Seed != 7 {
		t.Errorf("initial summary seed = %d", first.Seed)
	}

	svc.Hub.Broadcast([]byte(`{"tick":99}`))
	var next engine.WorldSummary
	if err := conn.ReadJSON(&next); err != nil {
		t.Fatalf("streamed summary: %v", err)
	}
	if next.Tick != 99 {
		t.Errorf("streamed tick = %d", next.Tick)
	}
}
