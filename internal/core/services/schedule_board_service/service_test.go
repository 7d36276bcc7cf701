package schedule_board_service

import (
	"context"
	"sync"
	"testing"
	"time"

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

type fakeBackend struct {
	mu sync.Mutex

	assignments []domain.Appointment
	batches     [][]domain.ChangeRecord
	deleted     []string

	batchErr  error
	deleteErr error

	customer     *domain.Customer
	history      []domain.WashHistoryEntry
	historyCalls int
	historyLimit int
	historyErr   error
}

func (f *fakeBackend) GetCurrentAssignments(ctx context.Context) ([]domain.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	list := make([]domain.Appointment, len(f.assignments))
	copy(list, f.assignments)
	return list, nil
}

func (f *fakeBackend) BatchUpdate(ctx context.Context, changes []domain.ChangeRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.batchErr != nil {
		return f.batchErr
	}
	f.batches = append(f.batches, changes)
	return nil
}

func (f *fakeBackend) DeleteTask(ctx context.Context, taskID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, taskID)
	return nil
}

func (f *fakeBackend) GetCustomer(ctx context.Context, customerID string) (*domain.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.customer, nil
}

func (f *fakeBackend) GetWashHistory(ctx context.Context, customerID string, limit int) ([]domain.WashHistoryEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.historyErr != nil {
		return nil, f.historyErr
	}
	f.historyCalls++
	f.historyLimit = limit
	return f.history, nil
}

func (f *fakeBackend) batchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.batches)
}

func (f *fakeBackend) lastBatch() []domain.ChangeRecord {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.batches) == 0 {
		return nil
	}
	return f.batches[len(f.batches)-1]
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Board.SavedFlashTTL = 30 * time.Millisecond
	return cfg
}

func newTestService(t *testing.T, assignments []domain.Appointment) (*ScheduleBoardService, *fakeBackend) {
	t.Helper()

	backend := &fakeBackend{assignments: assignments}
	service := NewScheduleBoardService(backend, nil, nopLogger{}, testConfig())

	_, err := service.LoadBoard(context.Background())
	require.NoError(t, err)

	return service, backend
}

func appt(customerID string, day domain.Day, timeSlot, workerID, workerName, carPlate string, washType domain.WashType) domain.Appointment {
	return domain.Appointment{
		CustomerID:   customerID,
		CustomerName: "Customer " + customerID,
		Villa:        "Villa " + customerID,
		CarPlate:     carPlate,
		Day:          day,
		Time:         timeSlot,
		WorkerID:     workerID,
		WorkerName:   workerName,
		WashType:     washType,
	}
}
