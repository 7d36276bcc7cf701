package schedule_board_service

import (
	"github.com/suchimauz/carwash-schedule-board/internal/core/domain"
	"github.com/suchimauz/carwash-schedule-board/internal/utils"
)

// SlotAppointments возвращает записи в ячейке (работник, день, время)
// Индекс - чистая производная от списка записей, пересобирается лениво
// когда ревизия списка ушла вперед
func (s *ScheduleBoardService) SlotAppointments(key domain.SlotKey) []domain.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index == nil || s.indexRevision != s.revision {
		s.index = buildSlotIndex(s.appointments)
		s.indexRevision = s.revision
	}

	entries := s.index[key]
	result := make([]domain.Appointment, len(entries))
	copy(result, entries)
	return result
}

func buildSlotIndex(appointments []domain.Appointment) map[domain.SlotKey][]domain.Appointment {
	index := make(map[domain.SlotKey][]domain.Appointment)

	for _, appointment := range appointments {
		// Legacy-формат мог склеить несколько временных меток в одну строку,
		// такая запись активна в каждом из извлеченных слотов
		tokens := utils.ExtractTimeTokens(appointment.Time)
		if len(tokens) == 0 {
			// Непарсящееся время не ошибка, запись живет под своей сырой строкой
			tokens = []string{appointment.Time}
		}

		for _, token := range tokens {
			key := domain.SlotKey{
				WorkerID: appointment.WorkerID,
				Day:      appointment.Day,
				Time:     token,
			}
			index[key] = append(index[key], appointment)
		}
	}

	return index
}
