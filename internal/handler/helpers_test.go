package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/pilgrimages/backend/internal/domain"
	"github.com/pkordes/pilgrimages/backend/internal/handler"
)

// mockPilgrimageServicer is a test double for handler.PilgrimageServicer.
// Set only the method fields your test needs.
type mockPilgrimageServicer struct {
	list                func(ctx context.Context, f domain.ListFilter) ([]domain.Pilgrimage, error)
	getByID             func(ctx context.Context, id string) (domain.Pilgrimage, error)
	create              func(ctx context.Context, f domain.Fields) (domain.Pilgrimage, error)
	update              func(ctx context.Context, id string, f domain.Fields) (domain.Pilgrimage, error)
	delete              func(ctx context.Context, id string) error
	calendarByMonth     func(ctx context.Context, month string) ([]domain.MonthEvent, error)
	calendarByDay       func(ctx context.Context, date string) ([]domain.DayEvent, error)
	statsByChurch       func(ctx context.Context) (map[string]domain.StatusCounts, error)
	statsByOrganization func(ctx context.Context) (map[string]domain.StatusCounts, error)
	upcoming            func(ctx context.Context) ([]domain.UpcomingItem, error)
}

func (m *mockPilgrimageServicer) List(ctx context.Context, f domain.ListFilter) ([]domain.Pilgrimage, error) {
	return m.list(ctx, f)
}
func (m *mockPilgrimageServicer) GetByID(ctx context.Context, id string) (domain.Pilgrimage, error) {
	return m.getByID(ctx, id)
}
func (m *mockPilgrimageServicer) Create(ctx context.Context, f domain.Fields) (domain.Pilgrimage, error) {
	return m.create(ctx, f)
}
func (m *mockPilgrimageServicer) Update(ctx context.Context, id string, f domain.Fields) (domain.Pilgrimage, error) {
	return m.update(ctx, id, f)
}
func (m *mockPilgrimageServicer) Delete(ctx context.Context, id string) error {
	return m.delete(ctx, id)
}
func (m *mockPilgrimageServicer) CalendarByMonth(ctx context.Context, month string) ([]domain.MonthEvent, error) {
	return m.calendarByMonth(ctx, month)
}
func (m *mockPilgrimageServicer) CalendarByDay(ctx context.Context, date string) ([]domain.DayEvent, error) {
	return m.calendarByDay(ctx, date)
}
func (m *mockPilgrimageServicer) StatsByChurch(ctx context.Context) (map[string]domain.StatusCounts, error) {
	return m.statsByChurch(ctx)
}
func (m *mockPilgrimageServicer) StatsByOrganization(ctx context.Context) (map[string]domain.StatusCounts, error) {
	return m.statsByOrganization(ctx)
}
func (m *mockPilgrimageServicer) Upcoming(ctx context.Context) ([]domain.UpcomingItem, error) {
	return m.upcoming(ctx)
}

// compile-time check: mockPilgrimageServicer must satisfy handler.PilgrimageServicer.
var _ handler.PilgrimageServicer = (*mockPilgrimageServicer)(nil)

// ---- helpers ---------------------------------------------------------------

// envelope mirrors the response body shape for decoding in tests.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func newHTTPHandler(svc handler.PilgrimageServicer) http.Handler {
	return handler.NewServer(svc, nil).Handler()
}

func do(t *testing.T, h http.Handler, method, target string, body io.Reader) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&env))
	}
	return rec, env
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}
