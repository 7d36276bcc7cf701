package domain

type Day string

const (
	DayMonday    Day = "Monday"
	DayTuesday   Day = "Tuesday"
	DayWednesday Day = "Wednesday"
	DayThursday  Day = "Thursday"
	DayFriday    Day = "Friday"
	DaySaturday  Day = "Saturday"
	DaySunday    Day = "Sunday"
)

// WorkWeek - рабочая неделя мойки, шесть дней, воскресенья в сетке нет
var WorkWeek = []Day{
	DayMonday,
	DayTuesday,
	DayWednesday,
	DayThursday,
	DayFriday,
	DaySaturday,
}

var dayOrder = map[Day]int{
	DayMonday:    1,
	DayTuesday:   2,
	DayWednesday: 3,
	DayThursday:  4,
	DayFriday:    5,
	DaySaturday:  6,
	DaySunday:    7,
}

// Order возвращает порядковый номер дня в неделе (пн=1 ... вс=7)
// Неизвестные дни уходят в конец сортировки
func (d Day) Order() int {
	if order, ok := dayOrder[d]; ok {
		return order
	}
	return len(dayOrder) + 1
}

func (d Day) Known() bool {
	_, ok := dayOrder[d]
	return ok
}
