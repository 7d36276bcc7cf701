package schedule_board_service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/suchimauz/carwash-schedule-board/internal/config"
	"github.com/suchimauz/carwash-schedule-board/internal/core/domain"
	"github.com/suchimauz/carwash-schedule-board/internal/core/ports/out"
)

// ScheduleBoardService держит недельную доску в памяти: плоский список записей,
// мемоизированный индекс слотов и состояние активного перетаскивания.
// Все мутации применяются локально сразу, персист идет на бэкенд следом,
// при ошибке состояние откатывается к снапшоту до мутации
type ScheduleBoardService struct {
	backendPort out.BackendPort
	cachePort   out.CachePort
	logger      out.LoggerPort
	cfg         *config.Config

	mu            sync.RWMutex
	appointments  []domain.Appointment
	revision      uint64
	index         map[domain.SlotKey][]domain.Appointment
	indexRevision uint64

	drag  *domain.GroupKey
	plans map[uuid.UUID]*pendingPlan

	status *saveStatusTracker
}

func NewScheduleBoardService(
	backendPort out.BackendPort,
	cachePort out.CachePort,
	logger out.LoggerPort,
	cfg *config.Config,
) *ScheduleBoardService {
	return &ScheduleBoardService{
		backendPort: backendPort,
		cachePort:   cachePort,
		logger:      logger.WithModule("ScheduleBoardService"),
		cfg:         cfg,
		plans:       make(map[uuid.UUID]*pendingPlan),
		status:      newSaveStatusTracker(cfg.Board.SavedFlashTTL),
	}
}

func (s *ScheduleBoardService) LoadBoard(ctx context.Context) ([]domain.Appointment, error) {
	s.logger.Info("board.load.started", out.LogFields{})

	appointments, err := s.backendPort.GetCurrentAssignments(ctx)
	if err != nil {
		s.logger.Error("board.load.fetch_failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("board.load.fetch_failed: %w", err)
	}

	s.mu.Lock()
	s.appointments = appointments
	s.revision++
	// Перезагрузка сбрасывает транзиентное состояние: незавершенный drag
	// и подвисшие планы распространения больше не валидны
	s.drag = nil
	s.plans = make(map[uuid.UUID]*pendingPlan)
	s.mu.Unlock()

	s.status.Reset()

	s.logger.Info("board.load.finished", out.LogFields{
		"appointmentsCount": len(appointments),
	})

	return s.Appointments(), nil
}

func (s *ScheduleBoardService) RefreshBoard(ctx context.Context) error {
	_, err := s.LoadBoard(ctx)
	return err
}

// Appointments возвращает копию списка, отсортированную по дню и времени
func (s *ScheduleBoardService) Appointments() []domain.Appointment {
	s.mu.RLock()
	list := make([]domain.Appointment, len(s.appointments))
	copy(list, s.appointments)
	s.mu.RUnlock()

	return AppointmentSlice(list).quickSort()
}

func (s *ScheduleBoardService) SaveStates() map[domain.TaskRef]domain.SaveState {
	return s.status.States()
}

func (s *ScheduleBoardService) CustomerProfile(ctx context.Context, customerID string) (*domain.Customer, error) {
	if s.cachePort != nil && s.cfg.Cache.Enabled {
		if customer, exists := s.cachePort.GetCustomer(ctx, customerID); exists {
			s.logger.Debug("board.customer.cache.hit", out.LogFields{
				"customerId": customerID,
			})
			return customer, nil
		}
	}

	customer, err := s.backendPort.GetCustomer(ctx, customerID)
	if err != nil {
		s.logger.Error("board.customer.fetch_failed", out.LogFields{
			"customerId": customerID,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("board.customer.fetch_failed: %w", err)
	}

	if s.cachePort != nil && s.cfg.Cache.Enabled && customer != nil {
		s.cachePort.StoreCustomer(ctx, *customer)
	}

	return customer, nil
}

func (s *ScheduleBoardService) InvalidateCustomerCache(ctx context.Context, customerID string) {
	if s.cachePort == nil || !s.cfg.Cache.Enabled {
		return
	}

	s.cachePort.InvalidateCustomer(ctx, customerID)
	s.cachePort.InvalidateWashHistory(ctx, customerID)
}

// InvalidateAllCaches сбрасывает кэши профилей и историй целиком
// Вызывается при перегенерации расписания на бэкенде
func (s *ScheduleBoardService) InvalidateAllCaches(ctx context.Context) {
	if s.cachePort == nil || !s.cfg.Cache.Enabled {
		return
	}

	s.cachePort.InvalidateAll(ctx)
	s.logger.Info("board.cache.invalidated_all", out.LogFields{})
}
