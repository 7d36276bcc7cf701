package schedule_board_service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/suchimauz/carwash-schedule-board/internal/core/domain"
	"github.com/suchimauz/carwash-schedule-board/internal/core/json_types"
	"github.com/suchimauz/carwash-schedule-board/internal/core/ports/out"
)

var ErrPlanNotFound = errors.New("week pattern plan not found")

const (
	washHistoryLimit         = 6
	washHistoryLimitBiWeekly = 12
)

// washPreImage - значения полей записи до локальной правки плана
// Откат при ошибке персиста возвращает только их: пока диалог открыт,
// чужие правки успевают сохраниться и трогать их нельзя
type washPreImage struct {
	ref      domain.TaskRef
	washType domain.WashType
	isLocked json_types.LockedFlag
}

// pendingPlan - незакрытый план распространения: сам план, пре-образ
// исходной правки и лениво подгруженная история моек
type pendingPlan struct {
	plan           domain.WeekPatternPlan
	origin         washPreImage
	history        []domain.WashHistoryEntry
	historyFetched bool
}

// patternDay - день-образец недели клиента: понедельник, если он есть
// в расписании, иначе хронологически первый день
// Бизнес-правило унаследовано как есть, обоснование за стейкхолдерами
func patternDay(appointments []domain.Appointment) domain.Day {
	first := appointments[0].Day
	for _, appointment := range appointments {
		if appointment.Day == domain.DayMonday {
			return domain.DayMonday
		}
		if appointment.Day.Order() < first.Order() {
			first = appointment.Day
		}
	}
	return first
}

func (s *ScheduleBoardService) buildWeekPatternPlan(
	edited domain.Appointment,
	oldType, newType domain.WashType,
	origin domain.ChangeRecord,
	customerAppointments []domain.Appointment,
) domain.WeekPatternPlan {
	others := make([]domain.WeekPatternItem, 0, len(customerAppointments)-1)
	for _, appointment := range customerAppointments {
		if appointment.Ref() == edited.Ref() {
			continue
		}
		// Завершенные и отмененные записи не переключаются
		if appointment.WashType.IsTerminal() {
			continue
		}
		others = append(others, domain.WeekPatternItem{
			Ref:     appointment.Ref(),
			Current: appointment.WashType,
		})
	}

	limit := washHistoryLimit
	if edited.IsBiWeekly() {
		limit = washHistoryLimitBiWeekly
	}

	return domain.WeekPatternPlan{
		ID:           uuid.New(),
		CustomerID:   edited.CustomerID,
		CustomerName: edited.CustomerName,
		OriginRef:    edited.Ref(),
		OldWashType:  oldType,
		NewWashType:  newType,
		Origin:       origin,
		Others:       others,
		HistoryLimit: limit,
	}
}

// ConfirmJustToday закрывает план, сохраняя только исходную правку
// Локально она уже применена, при ошибке персиста откатывается
func (s *ScheduleBoardService) ConfirmJustToday(ctx context.Context, planID uuid.UUID) error {
	pending, ok := s.popPlan(planID)
	if !ok {
		return ErrPlanNotFound
	}

	plan := pending.plan

	if err := s.backendPort.BatchUpdate(ctx, []domain.ChangeRecord{plan.Origin}); err != nil {
		s.revertWashTypes([]washPreImage{pending.origin})
		s.status.Clear(plan.OriginRef)

		s.logger.Error("board.week_pattern.just_today_failed", out.LogFields{
			"planId": planID,
			"taskId": plan.OriginRef.TaskID(),
			"error":  err.Error(),
		})
		return fmt.Errorf("board.week_pattern.just_today_failed: %w", err)
	}

	s.status.MarkSaved(plan.OriginRef)

	s.logger.Info("board.week_pattern.just_today", out.LogFields{
		"planId": planID,
		"taskId": plan.OriginRef.TaskID(),
	})

	return nil
}

// ApplyWeekPattern считает дифф между пре-сидом и выбором оператора,
// применяет изменившиеся записи локально и шлет один батч:
// исходная правка плюс по одной записи на каждую реально измененную
func (s *ScheduleBoardService) ApplyWeekPattern(ctx context.Context, planID uuid.UUID, selections map[domain.TaskRef]domain.WashType) error {
	pending, ok := s.popPlan(planID)
	if !ok {
		return ErrPlanNotFound
	}

	plan := pending.plan

	changes := []domain.ChangeRecord{plan.Origin}
	refs := []domain.TaskRef{plan.OriginRef}
	applied := make(map[domain.TaskRef]domain.WashType)

	for _, item := range plan.Others {
		selected, ok := selections[item.Ref]
		if !ok || !selected.IsSelectable() {
			continue
		}
		// Непереключенные записи в батч не попадают
		if selected == item.Current {
			continue
		}

		changes = append(changes, domain.ChangeRecord{
			ID:          uuid.New(),
			Type:        domain.ChangeTypeWashType,
			TaskID:      item.Ref.TaskID(),
			CustomerID:  item.Ref.CustomerID,
			CarPlate:    item.Ref.CarPlate,
			OldWashType: item.Current,
			NewWashType: selected,
		})
		refs = append(refs, item.Ref)
		applied[item.Ref] = selected
	}

	preImages := []washPreImage{pending.origin}
	if len(applied) > 0 {
		s.mu.Lock()
		for i := range s.appointments {
			if newType, ok := applied[s.appointments[i].Ref()]; ok {
				preImages = append(preImages, washPreImage{
					ref:      s.appointments[i].Ref(),
					washType: s.appointments[i].WashType,
					isLocked: s.appointments[i].IsLocked,
				})
				s.appointments[i].WashType = newType
				s.appointments[i].IsLocked = true
			}
		}
		s.revision++
		s.mu.Unlock()
	}

	s.status.MarkSaving(refs...)

	if err := s.backendPort.BatchUpdate(ctx, changes); err != nil {
		// Откат возвращает исходную правку и недельный дифф по пре-образам,
		// не затрагивая записи, измененные пока диалог был открыт
		s.revertWashTypes(preImages)
		s.status.Clear(refs...)

		s.logger.Error("board.week_pattern.apply_failed", out.LogFields{
			"planId":       planID,
			"changesCount": len(changes),
			"error":        err.Error(),
		})
		return fmt.Errorf("board.week_pattern.apply_failed: %w", err)
	}

	s.status.MarkSaved(refs...)

	s.logger.Info("board.week_pattern.applied", out.LogFields{
		"planId":       planID,
		"customerId":   plan.CustomerID,
		"changesCount": len(changes),
	})

	return nil
}

// WeekPatternHistory лениво подгружает ограниченную историю моек клиента
// В рамках одного плана бэкенд дергается не больше одного раза
func (s *ScheduleBoardService) WeekPatternHistory(ctx context.Context, planID uuid.UUID) ([]domain.WashHistoryEntry, error) {
	s.mu.RLock()
	pending, ok := s.plans[planID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrPlanNotFound
	}

	s.mu.Lock()
	if pending.historyFetched {
		history := pending.history
		s.mu.Unlock()
		return history, nil
	}
	s.mu.Unlock()

	plan := pending.plan

	var history []domain.WashHistoryEntry
	cacheHit := false
	if s.cachePort != nil && s.cfg.Cache.Enabled {
		history, cacheHit = s.cachePort.GetWashHistory(ctx, plan.CustomerID, plan.HistoryLimit)
	}

	if !cacheHit {
		var err error
		history, err = s.backendPort.GetWashHistory(ctx, plan.CustomerID, plan.HistoryLimit)
		if err != nil {
			s.logger.Error("board.week_pattern.history_fetch_failed", out.LogFields{
				"planId":     planID,
				"customerId": plan.CustomerID,
				"error":      err.Error(),
			})
			return nil, fmt.Errorf("board.week_pattern.history_fetch_failed: %w", err)
		}

		if s.cachePort != nil && s.cfg.Cache.Enabled {
			s.cachePort.StoreWashHistory(ctx, plan.CustomerID, plan.HistoryLimit, history)
		}
	}

	s.mu.Lock()
	pending.history = history
	pending.historyFetched = true
	s.mu.Unlock()

	return history, nil
}

func (s *ScheduleBoardService) popPlan(planID uuid.UUID) (*pendingPlan, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending, ok := s.plans[planID]
	if ok {
		delete(s.plans, planID)
	}
	return pending, ok
}

// revertWashTypes возвращает затронутым записям значения из пре-образов
// Записи, которых на доске уже нет (удалены или перенесены), пропускаются
func (s *ScheduleBoardService) revertWashTypes(preImages []washPreImage) {
	s.mu.Lock()
	for i := range s.appointments {
		for _, pre := range preImages {
			if s.appointments[i].Ref() == pre.ref {
				s.appointments[i].WashType = pre.washType
				s.appointments[i].IsLocked = pre.isLocked
			}
		}
	}
	s.revision++
	s.mu.Unlock()
}
