package out

import (
	"context"

	"github.com/suchimauz/carwash-schedule-board/internal/core/domain"
)

type CachePort interface {
	// Кэширование профилей клиентов
	GetCustomer(ctx context.Context, customerID string) (*domain.Customer, bool)
	StoreCustomer(ctx context.Context, customer domain.Customer)
	InvalidateCustomer(ctx context.Context, customerID string)

	// Кэширование истории моек
	GetWashHistory(ctx context.Context, customerID string, limit int) ([]domain.WashHistoryEntry, bool)
	StoreWashHistory(ctx context.Context, customerID string, limit int, entries []domain.WashHistoryEntry)
	InvalidateWashHistory(ctx context.Context, customerID string)

	InvalidateAll(ctx context.Context)
}
