package schedule_board_service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/suchimauz/carwash-schedule-board/internal/core/domain"
	"github.com/suchimauz/carwash-schedule-board/internal/core/ports/out"
)

// StartDrag запоминает исходные координаты перетаскиваемой группы
func (s *ScheduleBoardService) StartDrag(group domain.GroupKey) {
	s.mu.Lock()
	s.drag = &group
	s.mu.Unlock()

	s.logger.Debug("board.drag.started", out.LogFields{
		"customerId": group.CustomerID,
		"day":        group.Day,
		"time":       group.Time,
		"workerId":   group.WorkerID,
	})
}

// Drop переносит группу в целевой слот, либо свопит ее с текущими
// обитателями слота, если он занят. Группа - все записи клиента в исходном
// слоте - двигается атомарно. Обе стороны свопа получают isLocked,
// чтобы ручную правку не перетерла массовая регенерация расписания
func (s *ScheduleBoardService) Drop(ctx context.Context, target domain.SlotKey, targetWorkerName string) error {
	s.mu.Lock()
	drag := s.drag
	s.drag = nil

	if drag == nil {
		s.mu.Unlock()
		s.logger.Debug("board.drop.no_active_drag", out.LogFields{})
		return nil
	}

	source := *drag
	if source.Slot() == target {
		s.mu.Unlock()
		s.logger.Debug("board.drop.same_slot", out.LogFields{
			"day":      target.Day,
			"time":     target.Time,
			"workerId": target.WorkerID,
		})
		return nil
	}

	var group, occupants []domain.Appointment
	for _, appointment := range s.appointments {
		switch {
		case matchesGroup(appointment, source):
			group = append(group, appointment)
		case matchesSlot(appointment, target):
			occupants = append(occupants, appointment)
		}
	}
	s.mu.Unlock()

	if len(group) == 0 {
		s.logger.Warn("board.drop.group_not_found", out.LogFields{
			"customerId": source.CustomerID,
			"day":        source.Day,
			"time":       source.Time,
			"workerId":   source.WorkerID,
		})
		return nil
	}

	isSwap := len(occupants) > 0
	sourceWorkerName := group[0].WorkerName

	refs := make([]domain.TaskRef, 0, len(group)+len(occupants))
	for _, appointment := range group {
		refs = append(refs, appointment.Ref())
	}
	for _, appointment := range occupants {
		refs = append(refs, appointment.Ref())
	}

	mutate := func(list []domain.Appointment) []domain.Appointment {
		for i := range list {
			appointment := &list[i]
			switch {
			case matchesGroup(*appointment, source):
				appointment.Day = target.Day
				appointment.Time = target.Time
				appointment.WorkerID = target.WorkerID
				appointment.WorkerName = targetWorkerName
				appointment.IsLocked = true
			case isSwap && matchesSlot(*appointment, target):
				appointment.Day = source.Day
				appointment.Time = source.Time
				appointment.WorkerID = source.WorkerID
				appointment.WorkerName = sourceWorkerName
				appointment.IsLocked = true
			}
		}
		return list
	}

	changes := []domain.ChangeRecord{{
		ID:            uuid.New(),
		Type:          domain.ChangeTypeDragDrop,
		TaskID:        group[0].Ref().TaskID(),
		CustomerID:    source.CustomerID,
		CarPlate:      group[0].CarPlate,
		NewWorkerID:   target.WorkerID,
		NewWorkerName: targetWorkerName,
		SourceDay:     source.Day,
		SourceTime:    source.Time,
		TargetDay:     target.Day,
		TargetTime:    target.Time,
		IsSlotSwap:    isSwap,
	}}

	if isSwap {
		// Вторая запись свопа, чтобы бэкенд применил обе стороны
		changes = append(changes, domain.ChangeRecord{
			ID:            uuid.New(),
			Type:          domain.ChangeTypeDragDrop,
			TaskID:        occupants[0].Ref().TaskID(),
			CustomerID:    occupants[0].CustomerID,
			CarPlate:      occupants[0].CarPlate,
			NewWorkerID:   source.WorkerID,
			NewWorkerName: sourceWorkerName,
			SourceDay:     target.Day,
			SourceTime:    target.Time,
			TargetDay:     source.Day,
			TargetTime:    source.Time,
			IsSlotSwap:    true,
		})
	}

	result := s.withOptimisticUpdate(ctx, refs, mutate, func(ctx context.Context) error {
		return s.backendPort.BatchUpdate(ctx, changes)
	})
	if result.err != nil {
		s.logger.Error("board.drop.persist_failed", out.LogFields{
			"customerId": source.CustomerID,
			"isSlotSwap": isSwap,
			"error":      result.err.Error(),
		})
		return fmt.Errorf("board.drop.persist_failed: %w", result.err)
	}

	s.logger.Info("board.drop.finished", out.LogFields{
		"customerId":     source.CustomerID,
		"movedCount":     len(group),
		"swappedCount":   len(occupants),
		"isSlotSwap":     isSwap,
		"targetDay":      target.Day,
		"targetTime":     target.Time,
		"targetWorkerId": target.WorkerID,
	})

	return nil
}

func matchesGroup(appointment domain.Appointment, group domain.GroupKey) bool {
	return appointment.CustomerID == group.CustomerID &&
		appointment.Day == group.Day &&
		appointment.Time == group.Time &&
		appointment.WorkerID == group.WorkerID
}

func matchesSlot(appointment domain.Appointment, slot domain.SlotKey) bool {
	return appointment.WorkerID == slot.WorkerID &&
		appointment.Day == slot.Day &&
		appointment.Time == slot.Time
}
