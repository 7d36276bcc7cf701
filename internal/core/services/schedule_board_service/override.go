package schedule_board_service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/suchimauz/carwash-schedule-board/internal/core/domain"
	"github.com/suchimauz/carwash-schedule-board/internal/core/ports/out"
)

// ChangeWashType меняет тип мойки одной записи. Терминальные статусы
// (CANCELLED/COMPLETED) не редактируются - молчаливый no-op, не ошибка.
// Если правка попала на день-образец недели клиента и у него больше одной
// записи, изменение применяется локально, но персист откладывается:
// возвращается план распространения на неделю
func (s *ScheduleBoardService) ChangeWashType(ctx context.Context, ref domain.TaskRef, newType domain.WashType) (domain.WashTypeOutcome, error) {
	if !newType.IsSelectable() {
		s.logger.Debug("board.wash_type.invalid_type", out.LogFields{
			"taskId":      ref.TaskID(),
			"newWashType": newType,
		})
		return domain.WashTypeOutcome{}, nil
	}

	s.mu.Lock()

	var current *domain.Appointment
	var customerAppointments []domain.Appointment
	for i := range s.appointments {
		appointment := s.appointments[i]
		if appointment.CustomerID == ref.CustomerID {
			customerAppointments = append(customerAppointments, appointment)
		}
		if appointment.Ref() == ref {
			current = &s.appointments[i]
		}
	}

	if current == nil {
		s.mu.Unlock()
		s.logger.Debug("board.wash_type.task_not_found", out.LogFields{
			"taskId": ref.TaskID(),
		})
		return domain.WashTypeOutcome{}, nil
	}

	if current.WashType.IsTerminal() {
		s.mu.Unlock()
		s.logger.Debug("board.wash_type.terminal_state", out.LogFields{
			"taskId":   ref.TaskID(),
			"washType": current.WashType,
		})
		return domain.WashTypeOutcome{}, nil
	}

	edited := *current
	oldType := edited.WashType

	record := domain.ChangeRecord{
		ID:          uuid.New(),
		Type:        domain.ChangeTypeWashType,
		TaskID:      ref.TaskID(),
		CustomerID:  ref.CustomerID,
		CarPlate:    ref.CarPlate,
		OldWashType: oldType,
		NewWashType: newType,
	}

	if len(customerAppointments) > 1 && ref.Day == patternDay(customerAppointments) {
		// День-образец: применяем локально, запись об изменении держим
		// в плане до решения оператора (только сегодня / вся неделя)
		current.WashType = newType
		current.IsLocked = true
		s.revision++

		plan := s.buildWeekPatternPlan(edited, oldType, newType, record, customerAppointments)
		s.plans[plan.ID] = &pendingPlan{
			plan: plan,
			origin: washPreImage{
				ref:      ref,
				washType: edited.WashType,
				isLocked: edited.IsLocked,
			},
		}
		s.mu.Unlock()

		s.status.MarkSaving(ref)

		s.logger.Info("board.wash_type.week_pattern_offered", out.LogFields{
			"taskId":      ref.TaskID(),
			"planId":      plan.ID,
			"othersCount": len(plan.Others),
		})

		planCopy := plan
		return domain.WashTypeOutcome{Applied: true, Plan: &planCopy}, nil
	}
	s.mu.Unlock()

	mutate := func(list []domain.Appointment) []domain.Appointment {
		for i := range list {
			if list[i].Ref() == ref {
				list[i].WashType = newType
				list[i].IsLocked = true
			}
		}
		return list
	}

	result := s.withOptimisticUpdate(ctx, []domain.TaskRef{ref}, mutate, func(ctx context.Context) error {
		return s.backendPort.BatchUpdate(ctx, []domain.ChangeRecord{record})
	})
	if result.err != nil {
		s.logger.Error("board.wash_type.persist_failed", out.LogFields{
			"taskId": ref.TaskID(),
			"error":  result.err.Error(),
		})
		return domain.WashTypeOutcome{}, fmt.Errorf("board.wash_type.persist_failed: %w", result.err)
	}

	s.logger.Info("board.wash_type.changed", out.LogFields{
		"taskId":      ref.TaskID(),
		"oldWashType": oldType,
		"newWashType": newType,
	})

	return domain.WashTypeOutcome{Applied: true}, nil
}

// ChangeWorker переназначает запись другому работнику, тип мойки не трогает
func (s *ScheduleBoardService) ChangeWorker(ctx context.Context, ref domain.TaskRef, workerID, workerName string) error {
	s.mu.RLock()
	var current *domain.Appointment
	for i := range s.appointments {
		if s.appointments[i].Ref() == ref {
			current = &s.appointments[i]
			break
		}
	}
	if current == nil {
		s.mu.RUnlock()
		s.logger.Debug("board.worker.task_not_found", out.LogFields{
			"taskId": ref.TaskID(),
		})
		return nil
	}
	if current.WashType.IsTerminal() {
		s.mu.RUnlock()
		s.logger.Debug("board.worker.terminal_state", out.LogFields{
			"taskId":   ref.TaskID(),
			"washType": current.WashType,
		})
		return nil
	}
	s.mu.RUnlock()

	record := domain.ChangeRecord{
		ID:            uuid.New(),
		Type:          domain.ChangeTypeWorkerChange,
		TaskID:        ref.TaskID(),
		CustomerID:    ref.CustomerID,
		CarPlate:      ref.CarPlate,
		NewWorkerID:   workerID,
		NewWorkerName: workerName,
	}

	mutate := func(list []domain.Appointment) []domain.Appointment {
		for i := range list {
			if list[i].Ref() == ref {
				list[i].WorkerID = workerID
				list[i].WorkerName = workerName
				list[i].IsLocked = true
			}
		}
		return list
	}

	result := s.withOptimisticUpdate(ctx, []domain.TaskRef{ref}, mutate, func(ctx context.Context) error {
		return s.backendPort.BatchUpdate(ctx, []domain.ChangeRecord{record})
	})
	if result.err != nil {
		s.logger.Error("board.worker.persist_failed", out.LogFields{
			"taskId": ref.TaskID(),
			"error":  result.err.Error(),
		})
		return fmt.Errorf("board.worker.persist_failed: %w", result.err)
	}

	s.logger.Info("board.worker.changed", out.LogFields{
		"taskId":        ref.TaskID(),
		"newWorkerId":   workerID,
		"newWorkerName": workerName,
	})

	return nil
}

// DeleteTask убирает запись с доски и удаляет задачу на бэкенде,
// при ошибке возвращается полный снапшот до удаления.
// Подтверждение пользователя - забота вызывающей стороны
func (s *ScheduleBoardService) DeleteTask(ctx context.Context, ref domain.TaskRef) error {
	s.mu.RLock()
	found := false
	for i := range s.appointments {
		if s.appointments[i].Ref() == ref {
			found = true
			break
		}
	}
	s.mu.RUnlock()

	if !found {
		s.logger.Debug("board.delete.task_not_found", out.LogFields{
			"taskId": ref.TaskID(),
		})
		return nil
	}

	mutate := func(list []domain.Appointment) []domain.Appointment {
		remaining := list[:0]
		for _, appointment := range list {
			if appointment.Ref() != ref {
				remaining = append(remaining, appointment)
			}
		}
		return remaining
	}

	result := s.withOptimisticUpdate(ctx, []domain.TaskRef{ref}, mutate, func(ctx context.Context) error {
		return s.backendPort.DeleteTask(ctx, ref.TaskID())
	})
	if result.err != nil {
		s.logger.Error("board.delete.persist_failed", out.LogFields{
			"taskId": ref.TaskID(),
			"error":  result.err.Error(),
		})
		return fmt.Errorf("board.delete.persist_failed: %w", result.err)
	}

	// Задачи больше нет, отметка "saved" ей не нужна
	s.status.Clear(ref)

	s.logger.Info("board.delete.finished", out.LogFields{
		"taskId": ref.TaskID(),
	})

	return nil
}
