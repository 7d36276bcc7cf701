package carwash

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suchimauz/carwash-schedule-board/internal/config"
	"github.com/suchimauz/carwash-schedule-board/internal/core/domain"
	"github.com/suchimauz/carwash-schedule-board/internal/core/ports/out"
)

type nopLogger struct{}

func (nopLogger) Debug(string, out.LogFields)               {}
func (nopLogger) Info(string, out.LogFields)                {}
func (nopLogger) Warn(string, out.LogFields)                {}
func (nopLogger) Error(string, out.LogFields)               {}
func (l nopLogger) WithFields(out.LogFields) out.LoggerPort { return l }
func (l nopLogger) WithModule(string) out.LoggerPort        { return l }

type staticSession struct {
	session domain.Session
}

func (s staticSession) Current() domain.Session { return s.session }

func newTestAdapter(serverURL string) *CarwashAdapter {
	cfg := &config.Config{}
	cfg.Backend.URL = serverURL
	cfg.Backend.RequestTimeout = 2 * time.Second
	cfg.Backend.DeleteTimeout = 2 * time.Second

	return NewCarwashAdapter(cfg, staticSession{session: domain.Session{
		UserID:   "u1",
		UserName: "Operator",
	}}, nopLogger{})
}

func TestGetCurrentAssignmentsEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/schedule/assign/current", r.URL.Path)
		assert.Equal(t, "u1", r.Header.Get("X-User-ID"))
		assert.Equal(t, "Operator", r.Header.Get("X-User-Name"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"assignments":[{"customerId":"c1","day":"Monday","time":"9:00 AM","isLocked":"TRUE"}]}`))
	}))
	defer server.Close()

	assignments, err := newTestAdapter(server.URL).GetCurrentAssignments(context.Background())
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, "c1", assignments[0].CustomerID)
	assert.Equal(t, domain.DayMonday, assignments[0].Day)
	assert.True(t, bool(assignments[0].IsLocked))
}

func TestGetCurrentAssignmentsBareArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"customerId":"c1","day":"Tuesday","time":"10:00 AM","isLocked":""}]`))
	}))
	defer server.Close()

	assignments, err := newTestAdapter(server.URL).GetCurrentAssignments(context.Background())
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, domain.DayTuesday, assignments[0].Day)
	assert.False(t, bool(assignments[0].IsLocked))
}

func TestGetCurrentAssignmentsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := newTestAdapter(server.URL).GetCurrentAssignments(context.Background())
	assert.Error(t, err)
}

func TestBatchUpdateSendsChanges(t *testing.T) {
	var received struct {
		Changes []domain.ChangeRecord `json:"changes"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/schedule/assign/batch-update", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
	}))
	defer server.Close()

	change := domain.ChangeRecord{
		ID:          uuid.New(),
		Type:        domain.ChangeTypeWashType,
		TaskID:      "c1-Monday-9:00 AM-A-111",
		CustomerID:  "c1",
		CarPlate:    "A-111",
		OldWashType: domain.WashTypeExt,
		NewWashType: domain.WashTypeInt,
	}
	require.NoError(t, newTestAdapter(server.URL).BatchUpdate(context.Background(), []domain.ChangeRecord{change}))

	require.Len(t, received.Changes, 1)
	assert.Equal(t, change.ID, received.Changes[0].ID)
	assert.Equal(t, domain.ChangeTypeWashType, received.Changes[0].Type)
}

func TestDeleteTaskSendsTaskID(t *testing.T) {
	var received struct {
		TaskID string `json:"taskId"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/schedule/assign/delete-task", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
	}))
	defer server.Close()

	require.NoError(t, newTestAdapter(server.URL).DeleteTask(context.Background(), "c1-Monday-9:00 AM-A-111"))
	assert.Equal(t, "c1-Monday-9:00 AM-A-111", received.TaskID)
}

func TestGetWashHistoryPassesLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/schedule/assign/wash-history/c1", r.URL.Path)
		assert.Equal(t, "12", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"day":"Monday","time":"9:00 AM","carPlate":"A-111","washType":"EXT"}]`))
	}))
	defer server.Close()

	history, err := newTestAdapter(server.URL).GetWashHistory(context.Background(), "c1", 12)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.WashTypeExt, history[0].WashType)
}

func TestBasicAuthForwarded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "svc", username)
		assert.Equal(t, "secret", password)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	cfg := &config.Config{}
	cfg.Backend.URL = server.URL
	cfg.Backend.RequestTimeout = 2 * time.Second
	cfg.Backend.Username = "svc"
	cfg.Backend.Password = "secret"

	adapter := NewCarwashAdapter(cfg, staticSession{}, nopLogger{})
	_, err := adapter.GetCurrentAssignments(context.Background())
	require.NoError(t, err)
}

func TestTimeoutMappedToErrTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer server.Close()

	cfg := &config.Config{}
	cfg.Backend.URL = server.URL
	cfg.Backend.RequestTimeout = 2 * time.Second
	cfg.Backend.DeleteTimeout = 20 * time.Millisecond

	adapter := NewCarwashAdapter(cfg, staticSession{}, nopLogger{})
	err := adapter.DeleteTask(context.Background(), "c1-Monday-9:00 AM-A-111")
	assert.ErrorIs(t, err, out.ErrTimeout)
}
