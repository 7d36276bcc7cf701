package utils

import (
	"regexp"
	"time"
)

// Часовые слоты сетки, с 6 утра до 6 вечера
var TimeSlots = []string{
	"6:00 AM", "7:00 AM", "8:00 AM", "9:00 AM", "10:00 AM", "11:00 AM",
	"12:00 PM", "1:00 PM", "2:00 PM", "3:00 PM", "4:00 PM", "5:00 PM", "6:00 PM",
}

// Токен времени вида H:MM AM/PM, допускаем слепленные legacy-строки
// вроде "9:00 AM10:00 AM"
var timeTokenRegexp = regexp.MustCompile(`(1[0-2]|0?[1-9]):[0-5][0-9]\s?(AM|PM)`)

// ExtractTimeTokens достает из (возможно составной) строки времени все
// атомарные токены. Пустой результат значит что строка вообще не парсится,
// такие записи индексируются под своей сырой строкой
func ExtractTimeTokens(raw string) []string {
	return timeTokenRegexp.FindAllString(raw, -1)
}

// TimeOrder возвращает минуты с полуночи для сортировки слотов
// Непарсящееся время уходит в конец
func TimeOrder(raw string) int {
	parsed, err := time.Parse("3:04 PM", raw)
	if err != nil {
		return 24 * 60
	}
	return parsed.Hour()*60 + parsed.Minute()
}
