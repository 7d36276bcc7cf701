package schedule_board_service

import (
	"context"

	"github.com/suchimauz/carwash-schedule-board/internal/core/domain"
	"github.com/suchimauz/carwash-schedule-board/internal/core/ports/out"
)

// updateResult - итог оптимистичной мутации вместо ошибок как control flow
type updateResult struct {
	err        error
	rolledBack bool
}

// withOptimisticUpdate - единая схема для всех мутаций доски:
// снапшот -> локальная мутация -> персист -> при ошибке откат ровно к снапшоту
func (s *ScheduleBoardService) withOptimisticUpdate(
	ctx context.Context,
	refs []domain.TaskRef,
	mutate func(list []domain.Appointment) []domain.Appointment,
	persist func(ctx context.Context) error,
) updateResult {
	s.mu.Lock()
	snapshot := make([]domain.Appointment, len(s.appointments))
	copy(snapshot, s.appointments)

	working := make([]domain.Appointment, len(s.appointments))
	copy(working, s.appointments)
	s.appointments = mutate(working)
	s.revision++
	s.mu.Unlock()

	s.status.MarkSaving(refs...)

	if err := persist(ctx); err != nil {
		s.mu.Lock()
		s.appointments = snapshot
		s.revision++
		s.mu.Unlock()

		s.status.Clear(refs...)

		s.logger.Warn("board.optimistic.rolled_back", out.LogFields{
			"tasksCount": len(refs),
			"error":      err.Error(),
		})

		return updateResult{err: err, rolledBack: true}
	}

	s.status.MarkSaved(refs...)
	return updateResult{}
}
