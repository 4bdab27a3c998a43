package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kvcache/internal/auth"
	"kvcache/internal/cache"
	"kvcache/internal/config"
	"kvcache/internal/metrics"
	"kvcache/internal/realtime"
	"kvcache/internal/store"
)

type fixture struct {
	router *gin.Engine
	cache  cache.Cache
	hub    *realtime.Hub
	issuer *auth.Issuer
}

func newFixture(t *testing.T, withAuth bool) fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	hub := realtime.NewHub(zerolog.Nop())

	c, err := cache.New(config.CacheConfig{SweepInterval: 3600, DefaultTTL: 300}, store.NewMemoryStore(), zerolog.Nop(),
		cache.WithObserver(m), cache.WithObserver(hub))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	var issuer *auth.Issuer
	if withAuth {
		issuer = auth.NewIssuer(config.AuthConfig{
			Secret: "test-secret", Issuer: "kvcache", Audience: "kvcache-clients", TokenTTL: time.Hour,
		})
	}

	return fixture{
		router: SetupRoutes(Dependencies{Cache: c, Hub: hub, Gatherer: reg, Issuer: issuer, Logger: zerolog.Nop()}),
		cache:  c,
		hub:    hub,
		issuer: issuer,
	}
}

func TestHealth(t *testing.T) {
	f := newFixture(t, false)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	f.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t, false)
	_, _, err := f.cache.Get(context.Background(), "absent")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "kvcache_misses_total 1")
}

func TestAPIRequiresTokenWhenAuthEnabled(t *testing.T) {
	f := newFixture(t, true)

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/cache/k", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := f.issuer.GenerateToken("svc-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/cache/k", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPIIsOpenWhenAuthDisabled(t *testing.T) {
	f := newFixture(t, false)

	req := httptest.NewRequest(http.MethodPut, "/api/cache/k", strings.NewReader(`{"value":[1,2]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
}

func TestEventsAreStreamedOverWebsocket(t *testing.T) {
	// GIVEN
	f := newFixture(t, true)
	srv := httptest.NewServer(f.router)
	t.Cleanup(srv.Close)

	token, err := f.issuer.GenerateToken("svc-1")
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/events?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.Eventually(t, func() bool { return f.hub.Subscribers() == 1 }, 2*time.Second, 10*time.Millisecond)

	// WHEN
	require.NoError(t, f.cache.Put(context.Background(), "k", "v"))

	// THEN
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var evt cache.Event
	require.NoError(t, json.Unmarshal(msg, &evt))
	assert.Equal(t, cache.EventPut, evt.Type)
	assert.Equal(t, "k", evt.Key)
}
