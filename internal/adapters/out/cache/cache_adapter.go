package cache

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/suchimauz/carwash-schedule-board/internal/config"
	"github.com/suchimauz/carwash-schedule-board/internal/core/domain"
	"github.com/suchimauz/carwash-schedule-board/internal/core/ports/out"
)

type historyCacheEntry struct {
	Limit   int
	Entries []domain.WashHistoryEntry
}

type CacheAdapter struct {
	customersCache *lru.Cache[string, *domain.Customer]
	historyCache   *lru.Cache[string, *historyCacheEntry]
	mu             sync.RWMutex
	logger         out.LoggerPort
}

func NewCacheAdapter(cfg *config.Config, logger out.LoggerPort) (*CacheAdapter, error) {
	if !cfg.Cache.Enabled {
		logger.Info("cache.disabled", out.LogFields{
			"message": "Cache is disabled",
		})
		return nil, nil
	}

	customersCache, err := lru.New[string, *domain.Customer](cfg.Cache.CustomersSize)
	if err != nil {
		logger.Error("cache.customers.init.failed", out.LogFields{
			"error": err.Error(),
			"size":  cfg.Cache.CustomersSize,
		})
		return nil, err
	}

	historyCache, err := lru.New[string, *historyCacheEntry](cfg.Cache.HistorySize)
	if err != nil {
		logger.Error("cache.history.init.failed", out.LogFields{
			"error": err.Error(),
			"size":  cfg.Cache.HistorySize,
		})
		return nil, err
	}

	return &CacheAdapter{
		customersCache: customersCache,
		historyCache:   historyCache,
		logger:         logger.WithModule("CacheAdapter"),
	}, nil
}

// Кэширование профилей клиентов

func (c *CacheAdapter) GetCustomer(ctx context.Context, customerID string) (*domain.Customer, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	customer, exists := c.customersCache.Get(customerID)
	if !exists {
		c.logger.Debug("cache.customer.get.miss", out.LogFields{
			"customerId": customerID,
		})
		return nil, false
	}

	c.logger.Debug("cache.customer.get.hit", out.LogFields{
		"customerId": customerID,
	})
	return customer, true
}

func (c *CacheAdapter) StoreCustomer(ctx context.Context, customer domain.Customer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.customersCache.Add(customer.ID, &customer)
}

func (c *CacheAdapter) InvalidateCustomer(ctx context.Context, customerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.customersCache.Remove(customerID)
}

// Кэширование истории моек

func (c *CacheAdapter) GetWashHistory(ctx context.Context, customerID string, limit int) ([]domain.WashHistoryEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.historyCache.Get(customerID)
	if !exists {
		c.logger.Debug("cache.history.get.miss", out.LogFields{
			"customerId": customerID,
		})
		return nil, false
	}

	// Закэшированная глубина меньше запрошенной - идем на бэкенд
	if entry.Limit < limit {
		c.logger.Debug("cache.history.get.limit_mismatch", out.LogFields{
			"customerId":     customerID,
			"requestedLimit": limit,
			"cachedLimit":    entry.Limit,
		})
		return nil, false
	}

	entries := entry.Entries
	if len(entries) > limit {
		entries = entries[:limit]
	}

	c.logger.Debug("cache.history.get.hit", out.LogFields{
		"customerId": customerID,
		"count":      len(entries),
	})
	return entries, true
}

func (c *CacheAdapter) StoreWashHistory(ctx context.Context, customerID string, limit int, entries []domain.WashHistoryEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.historyCache.Add(customerID, &historyCacheEntry{
		Limit:   limit,
		Entries: entries,
	})
}

func (c *CacheAdapter) InvalidateWashHistory(ctx context.Context, customerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.historyCache.Remove(customerID)
}

func (c *CacheAdapter) InvalidateAll(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.customersCache.Purge()
	c.historyCache.Purge()
}
