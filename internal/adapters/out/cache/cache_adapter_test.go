package cache

import (
	"context"
	"testing"

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

func newTestCache(t *testing.T) *CacheAdapter {
	t.Helper()

	cfg := &config.Config{}
	cfg.Cache.Enabled = true
	cfg.Cache.CustomersSize = 10
	cfg.Cache.HistorySize = 10

	adapter, err := NewCacheAdapter(cfg, nopLogger{})
	require.NoError(t, err)
	require.NotNil(t, adapter)
	return adapter
}

func TestCacheDisabledReturnsNil(t *testing.T) {
	cfg := &config.Config{}
	cfg.Cache.Enabled = false

	adapter, err := NewCacheAdapter(cfg, nopLogger{})
	require.NoError(t, err)
	assert.Nil(t, adapter)
}

func TestCustomerRoundTrip(t *testing.T) {
	adapter := newTestCache(t)
	ctx := context.Background()

	_, exists := adapter.GetCustomer(ctx, "c1")
	assert.False(t, exists)

	adapter.StoreCustomer(ctx, domain.Customer{ID: "c1", Name: "Test Customer"})

	customer, exists := adapter.GetCustomer(ctx, "c1")
	require.True(t, exists)
	assert.Equal(t, "Test Customer", customer.Name)

	adapter.InvalidateCustomer(ctx, "c1")
	_, exists = adapter.GetCustomer(ctx, "c1")
	assert.False(t, exists)
}

func TestWashHistoryLimits(t *testing.T) {
	adapter := newTestCache(t)
	ctx := context.Background()

	entries := []domain.WashHistoryEntry{
		{Day: domain.DayMonday, Time: "9:00 AM", CarPlate: "A-111", WashType: domain.WashTypeExt},
		{Day: domain.DayWednesday, Time: "9:00 AM", CarPlate: "A-111", WashType: domain.WashTypeInt},
	}
	adapter.StoreWashHistory(ctx, "c1", 6, entries)

	// Запрошенная глубина не больше закэшированной - отдаем срез
	cached, exists := adapter.GetWashHistory(ctx, "c1", 6)
	require.True(t, exists)
	assert.Len(t, cached, 2)

	cached, exists = adapter.GetWashHistory(ctx, "c1", 1)
	require.True(t, exists)
	assert.Len(t, cached, 1)

	// Просят глубже чем закэшировано - это промах
	_, exists = adapter.GetWashHistory(ctx, "c1", 12)
	assert.False(t, exists)
}

func TestInvalidateAll(t *testing.T) {
	adapter := newTestCache(t)
	ctx := context.Background()

	adapter.StoreCustomer(ctx, domain.Customer{ID: "c1"})
	adapter.StoreWashHistory(ctx, "c1", 6, []domain.WashHistoryEntry{})

	adapter.InvalidateAll(ctx)

	_, customerExists := adapter.GetCustomer(ctx, "c1")
	_, historyExists := adapter.GetWashHistory(ctx, "c1", 6)
	assert.False(t, customerExists)
	assert.False(t, historyExists)
}
