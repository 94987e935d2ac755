package httpview

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realTimeDash/internal/domain"
)

type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

func sampleSnapshot() domain.Snapshot {
	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return domain.Snapshot{
		Session: "s-1",
		Tick:    3,
		TakenAt: ts,
		Series: []domain.Series{
			{Name: domain.SeriesGenerated, Points: []domain.Observation{domain.NewObservation(ts, 12.5)}, Outcome: domain.OutcomeOK},
			{Name: domain.SeriesDatabase, Points: []domain.Observation{{ID: 1, Time: ts, Value: 12.5}}, Outcome: domain.OutcomeOK},
			{Name: domain.SeriesStock, Symbol: "AAPL", Points: []domain.Observation{domain.NewObservation(ts, 0)}, Outcome: domain.OutcomeFallback},
		},
	}
}

func TestView_BeforeFirstPublish(t *testing.T) {
	v, err := New(&mockLogger{})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	v.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/series", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	_, ok := v.Latest()
	assert.False(t, ok)
}

func TestView_ServesLatestSnapshot(t *testing.T) {
	v, err := New(&mockLogger{})
	require.NoError(t, err)
	require.NoError(t, v.Publish(context.Background(), sampleSnapshot()))

	rec := httptest.NewRecorder()
	v.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/series", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got domain.Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, uint64(3), got.Tick)
	require.Len(t, got.Series, 3)
	assert.Equal(t, "stock:AAPL", got.Series[2].Key())
	assert.Equal(t, domain.OutcomeFallback, got.Series[2].Outcome)
}

func TestView_ServesSingleSeries(t *testing.T) {
	v, err := New(&mockLogger{})
	require.NoError(t, err)
	require.NoError(t, v.Publish(context.Background(), sampleSnapshot()))

	tests := []struct {
		path     string
		wantCode int
	}{
		{"/series/generated", http.StatusOK},
		{"/series/database", http.StatusOK},
		{"/series/stock:AAPL", http.StatusOK},
		{"/series/stock:MSFT", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			v.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestView_RejectsWrites(t *testing.T) {
	v, err := New(&mockLogger{})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	v.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/series", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestView_HealthAndMetrics(t *testing.T) {
	v, err := New(&mockLogger{})
	require.NoError(t, err)

	for _, path := range []string{"/healthz", "/metrics"} {
		rec := httptest.NewRecorder()
		v.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}
