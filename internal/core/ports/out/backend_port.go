package out

import (
	"context"
	"errors"

	"github.com/suchimauz/carwash-schedule-board/internal/core/domain"
)

// ErrTimeout - запрос к бэкенду не уложился в таймаут
// Отличается от обычной сетевой ошибки, чтобы наверх ушло отдельное сообщение
var ErrTimeout = errors.New("backend request timed out")

type BackendPort interface {
	// Текущее недельное расписание одним плоским списком
	GetCurrentAssignments(ctx context.Context) ([]domain.Appointment, error)

	// Батч атомарных изменений (перенос, своп, смена типа мойки, смена работника)
	BatchUpdate(ctx context.Context, changes []domain.ChangeRecord) error

	// Удаление одной задачи по проводному taskId
	DeleteTask(ctx context.Context, taskID string) error

	// Профиль клиента и ограниченная история моек
	GetCustomer(ctx context.Context, customerID string) (*domain.Customer, error)
	GetWashHistory(ctx context.Context, customerID string, limit int) ([]domain.WashHistoryEntry, error)
}
