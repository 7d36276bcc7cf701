package schedule_board_service

import (
	"github.com/suchimauz/carwash-schedule-board/internal/core/domain"
	"github.com/suchimauz/carwash-schedule-board/internal/utils"
)

type AppointmentSlice []domain.Appointment

// quickSort - сортировка записей по дню недели и времени слота
func (s AppointmentSlice) quickSort() AppointmentSlice {
	if len(s) < 2 {
		return s
	}

	// Выбираем опорный элемент
	pivot := appointmentOrder(s[len(s)/2])

	// Разделяем слайс на три части
	less := AppointmentSlice{}
	equal := AppointmentSlice{}
	greater := AppointmentSlice{}

	for _, appointment := range s {
		order := appointmentOrder(appointment)
		if order < pivot {
			less = append(less, appointment)
		} else if order == pivot {
			equal = append(equal, appointment)
		} else {
			greater = append(greater, appointment)
		}
	}

	// Рекурсивно сортируем подмассивы и объединяем их
	return append(append(less.quickSort(), equal...), greater.quickSort()...)
}

func appointmentOrder(appointment domain.Appointment) int {
	timeField := appointment.Time
	// У составных строк порядок задается первым токеном
	if tokens := utils.ExtractTimeTokens(timeField); len(tokens) > 0 {
		timeField = tokens[0]
	}

	return appointment.Day.Order()*10000 + utils.TimeOrder(timeField)
}
