package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mountedHandler(client *Client) http.Handler {
	r := chi.NewRouter()
	NewHandler(nil, client, discardLogger()).MountRoutes(r)
	return r
}

func TestHealthWithoutInspector(t *testing.T) {
	rec := httptest.NewRecorder()
	mountedHandler(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"queue":"default","pending":0}`, rec.Body.String())
}

func TestWarmupWithoutClientUnavailable(t *testing.T) {
	rec := httptest.NewRecorder()
	mountedHandler(nil).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/warmup", nil))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

type stubRefresher struct {
	calls int
	err   error
}

func (s *stubRefresher) RefreshAll(ctx context.Context) error {
	s.calls++
	return s.err
}

func TestViewsWarmupHandler(t *testing.T) {
	refresher := &stubRefresher{}
	handler := ViewsWarmupHandler(refresher, discardLogger())

	require.NoError(t, handler(context.Background(), NewViewsWarmupTask()))
	require.Equal(t, 1, refresher.calls)

	refresher.err = errors.New("feed down")
	require.Error(t, handler(context.Background(), NewViewsWarmupTask()))
	require.Equal(t, 2, refresher.calls)
}
