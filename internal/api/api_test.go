package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"movie-catalog-backend/config"
	"movie-catalog-backend/internal/auth"
	"movie-catalog-backend/internal/calendar"
	"movie-catalog-backend/internal/catalog"
	"movie-catalog-backend/internal/db/dbtest"
	"movie-catalog-backend/internal/notification"
	"movie-catalog-backend/internal/storage"
	"movie-catalog-backend/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testNow = time.Date(2024, 3, 21, 12, 0, 0, 0, time.UTC)

// recordingNotifier captures direct emails.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (n *recordingNotifier) Send(_ context.Context, to, movieTitle, watchURL string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, to+"|"+movieTitle+"|"+watchURL)
	return nil
}

type testAPI struct {
	router   *gin.Engine
	db       *gorm.DB
	store    store.Store
	tokens   auth.TokenManager
	notifier *recordingNotifier
	registry *prometheus.Registry
}

func newTestAPI(t *testing.T, opts ...func(*Deps)) *testAPI {
	t.Helper()

	gdb := dbtest.New(t)
	s := store.NewGormStore(gdb)
	tokens, err := auth.NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)
	blobs, err := storage.NewLocalStorage(t.TempDir(), 1024)
	require.NoError(t, err)

	log := zerolog.Nop()
	clock := calendar.FixedClock(testNow)
	reg := prometheus.NewRegistry()
	subscriptions := notification.NewSubscriptionService(s, s, log, notification.NewMetrics(reg))
	notifier := &recordingNotifier{}

	deps := Deps{
		Store:          s,
		Users:          catalog.NewUserService(s, tokens, log),
		Movies:         catalog.NewMovieService(s, subscriptions, clock, log),
		Files:          catalog.NewFileService(s, blobs, log),
		Subscriptions:  subscriptions,
		Notifier:       notifier,
		Clock:          clock,
		MaxUploadBytes: 1024,
		Log:            log,
	}
	for _, opt := range opts {
		opt(&deps)
	}

	router := NewRouter(NewHandler(deps), RouterConfig{
		Server: config.ServerConfig{
			RateLimitPerSec: 1000,
			RateLimitBurst:  1000,
			CacheTTL:        time.Minute,
		},
		Tokens:   tokens,
		Registry: reg,
		Log:      log,
	})

	return &testAPI{router: router, db: gdb, store: s, tokens: tokens, notifier: notifier, registry: reg}
}

func (a *testAPI) token(t *testing.T, userID string) string {
	t.Helper()
	token, err := a.tokens.Generate(userID)
	require.NoError(t, err)
	return token
}

// do sends a JSON request. An empty token sends no Authorization header.
func (a *testAPI) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

// envelopeOf decodes a {data, meta} body, unmarshalling data into dst.
func envelopeOf(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) map[string]interface{} {
	t.Helper()
	var body struct {
		Data json.RawMessage        `json:"data"`
		Meta map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	if dst != nil {
		require.NoError(t, json.Unmarshal(body.Data, dst))
	}
	return body.Meta
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body["error"]
}

var errTransport = errors.New("smtp down")

func withWebpush(opts *webpush.Options) func(*Deps) {
	return func(d *Deps) { d.Webpush = opts }
}
