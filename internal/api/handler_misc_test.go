package api

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movie-catalog-backend/internal/db/dbtest"
	"movie-catalog-backend/internal/model"
)

func TestSendMovieAvailableEmail(t *testing.T) {
	a := newTestAPI(t)
	ana := dbtest.CreateUser(t, a.db, "ana@example.com")
	token := a.token(t, ana.ID)

	w := a.do(t, http.MethodPost, "/email/send-movie-available", map[string]string{
		"to": "bia@example.com", "movieName": "Bacurau", "watchUrl": "http://localhost:3001/movies/bacurau",
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []string{"bia@example.com|Bacurau|http://localhost:3001/movies/bacurau"}, a.notifier.sent)

	w = a.do(t, http.MethodPost, "/email/send-movie-available", map[string]string{
		"to": "not-an-email", "movieName": "Bacurau", "watchUrl": "http://localhost:3001/movies/bacurau",
	}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "to must be a valid email", errorOf(t, w))

	a.notifier.err = errTransport
	w = a.do(t, http.MethodPost, "/email/send-movie-available", map[string]string{
		"to": "bia@example.com", "movieName": "Bacurau", "watchUrl": "http://localhost:3001/movies/bacurau",
	}, token)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "failed to send email", errorOf(t, w))
	assert.Len(t, a.notifier.sent, 1)
}

func TestVAPIDPublicKey(t *testing.T) {
	a := newTestAPI(t)
	ana := dbtest.CreateUser(t, a.db, "ana@example.com")

	w := a.do(t, http.MethodGet, "/push/vapid-public-key", nil, a.token(t, ana.ID))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	a = newTestAPI(t, withWebpush(&webpush.Options{VAPIDPublicKey: "BPublicKey"}))
	ana = dbtest.CreateUser(t, a.db, "ana@example.com")
	w = a.do(t, http.MethodGet, "/push/vapid-public-key", nil, a.token(t, ana.ID))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"publicKey":"BPublicKey"}`, w.Body.String())
}

func TestPushDevices(t *testing.T) {
	a := newTestAPI(t)
	ana := dbtest.CreateUser(t, a.db, "ana@example.com")
	token := a.token(t, ana.ID)
	device := map[string]string{
		"endpoint": "https://push.example.com/send/abc",
		"p256dh":   "p256dh-key",
		"auth":     "auth-secret",
	}

	for i := 0; i < 2; i++ {
		w := a.do(t, http.MethodPut, "/push/subscriptions", device, token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
	devices, err := a.store.ListPushDevices(context.Background(), ana.ID)
	require.NoError(t, err)
	require.Len(t, devices, 1)

	w := a.do(t, http.MethodPut, "/push/subscriptions", map[string]string{"endpoint": "nope", "p256dh": "k", "auth": "a"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "endpoint must be a valid url", errorOf(t, w))

	w = a.do(t, http.MethodDelete, "/push/subscriptions", map[string]string{"endpoint": device["endpoint"]}, token)
	assert.Equal(t, http.StatusNoContent, w.Code)

	var count int64
	require.NoError(t, a.db.Model(&model.PushDevice{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestHealth(t *testing.T) {
	a := newTestAPI(t)

	w := a.do(t, http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","database":"up"}`, w.Body.String())

	sqlDB, err := a.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w = a.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"status":"error","database":"down"}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	a := newTestAPI(t)
	ana := dbtest.CreateUser(t, a.db, "ana@example.com")
	a.do(t, http.MethodGet, "/movies/genres", nil, a.token(t, ana.ID))

	w := a.do(t, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `movie_catalog_http_requests_total{method="GET",route="/movies/genres",status="200"} 1`), body)
}
