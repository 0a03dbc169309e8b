package diagnostics

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/annel0/genesys/internal/assets"
	"github.com/annel0/genesys/internal/logging"
	"github.com/annel0/genesys/internal/vec"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *Store, *prometheus.Registry) {
	t.Helper()
	store := NewStore()
	reg := prometheus.NewRegistry()
	var buf bytes.Buffer
	srv := NewServer(ServerConfig{
		Addr:      "127.0.0.1:0",
		PushEvery: 10 * time.Millisecond,
		Store:     store,
		Registry:  reg,
		Logger:    logging.NewWriterLogger("diagnostics", &buf, logging.WARN),
	})
	return srv, store, reg
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestFPSCounter(t *testing.T) {
	f := NewFPSCounter(4)
	assert.Equal(t, 0.0, f.FPS())

	for i := 0; i < 4; i++ {
		f.Observe(1.0 / 30)
	}
	assert.InDelta(t, 30.0, f.FPS(), 1e-9)

	// Окно вытесняет старые кадры
	for i := 0; i < 4; i++ {
		f.Observe(1.0 / 60)
	}
	assert.InDelta(t, 60.0, f.FPS(), 1e-6)

	f.Observe(0)
	assert.InDelta(t, 60.0, f.FPS(), 1e-6, "Нулевая длительность игнорируется")
}

func TestHoveredCell(t *testing.T) {
	assert.Equal(t, [2]int{1, -2}, HoveredCell(vec.Vec3Float{X: 1.7, Y: 1, Z: -1.2}))
	assert.Equal(t, [2]int{0, 0}, HoveredCell(vec.Vec3Float{}))
}

func TestFormatUptime(t *testing.T) {
	assert.Equal(t, "5с", formatUptime(5*time.Second))
	assert.Equal(t, "2м 3с", formatUptime(2*time.Minute+3*time.Second))
	assert.Equal(t, "1д 1ч 0м 0с", formatUptime(25*time.Hour))
}

func TestSystemSampler(t *testing.T) {
	s := NewSystemSampler()
	info := s.Sample()
	assert.Greater(t, info.Goroutines, 0)
	assert.Greater(t, info.HeapAllocMB, 0.0)
	assert.Equal(t, info, s.Latest())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()
	<-done
}

func TestStore_LatestIsCopy(t *testing.T) {
	store := NewStore()
	_, ok := store.Latest()
	assert.False(t, ok)

	store.Publish(Snapshot{Tick: 3, Entities: map[string]int{"block": 10}})
	snap, ok := store.Latest()
	require.True(t, ok)
	snap.Entities["block"] = 0

	again, _ := store.Latest()
	assert.Equal(t, 10, again.Entities["block"], "Снимок не разделяет карту с хранилищем")
}

func TestServer_Endpoints(t *testing.T) {
	srv, store, reg := newTestServer(t)
	h := srv.Handler()

	w := get(t, h, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)

	assert.Equal(t, http.StatusServiceUnavailable, get(t, h, "/debug/state").Code, "До первого тика данных нет")
	assert.Equal(t, http.StatusServiceUnavailable, get(t, h, "/debug/assets").Code)

	store.Publish(Snapshot{Tick: 42, FPS: 60, Player: PlayerState{Animation: "idle"}})
	w = get(t, h, "/debug/state")
	require.Equal(t, http.StatusOK, w.Code)
	var snap Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, uint64(42), snap.Tick)
	assert.Equal(t, "idle", snap.Player.Animation)

	reg2 := assets.NewRegistry(assets.NewMemoryLoader())
	require.NoError(t, assets.LoadTable(reg2, assets.DefaultTable()))
	srv.SetAssets(reg2.Seal())
	w = get(t, h, "/debug/assets")
	require.Equal(t, http.StatusOK, w.Code)
	var listed struct {
		Models     []string `json:"models"`
		Animations []string `json:"animations"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Len(t, listed.Models, 7)
	assert.Equal(t, []string{"player_idle", "player_walk"}, listed.Animations)

	m := NewMetrics(reg)
	m.ObserveTick(time.Millisecond, 60)
	m.Spawned("block")
	m.SetEntities(map[string]int{"block": 900})
	w = get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "sandbox_ticks_total 1")
	assert.Contains(t, body, `sandbox_entities{class="block"} 900`)
	assert.Contains(t, body, "diagnostics_http_request_duration_seconds")
}

func TestServer_Stream(t *testing.T) {
	srv, store, _ := newTestServer(t)
	store.Publish(Snapshot{Tick: 7})

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/debug/stream"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var first Snapshot
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, uint64(7), first.Tick)

	store.Publish(Snapshot{Tick: 8})
	assert.Eventually(t, func() bool {
		var next Snapshot
		if err := conn.ReadJSON(&next); err != nil {
			return false
		}
		return next.Tick == 8
	}, 2*time.Second, time.Millisecond, "Поток отдает свежие снимки")
}

func TestServer_StartShutdown(t *testing.T) {
	srv, _, _ := newTestServer(t)
	require.NoError(t, srv.Start())

	resp, err := http.Get("http://" + srv.Addr() + "/health")
	require.NoError(t, err)
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, srv.Shutdown(ctx))
}
