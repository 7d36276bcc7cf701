package domain

import "fmt"

// SlotKey - координата ячейки в недельной сетке (работник, день, время)
// В одной ячейке может быть ноль и больше записей
type SlotKey struct {
	WorkerID string `json:"workerId"`
	Day      Day    `json:"day"`
	Time     string `json:"time"`
}

// GroupKey - группа записей одного клиента в одной ячейке
// Один клиент может держать несколько машин в одном слоте,
// перетаскиваются они всегда вместе
type GroupKey struct {
	CustomerID string `json:"customerId"`
	Day        Day    `json:"day"`
	Time       string `json:"time"`
	WorkerID   string `json:"workerId"`
}

func (g GroupKey) Slot() SlotKey {
	return SlotKey{
		WorkerID: g.WorkerID,
		Day:      g.Day,
		Time:     g.Time,
	}
}

// TaskRef - идентичность одной записи (клиент, день, время, номер машины)
// Значимое сравнение структурой, а не склейкой строк: дефис в номере машины
// не должен ломать идентичность
type TaskRef struct {
	CustomerID string `json:"customerId"`
	Day        Day    `json:"day"`
	Time       string `json:"time"`
	CarPlate   string `json:"carPlate"`
}

// TaskID - проводная форма идентификатора, такую ждет бэкенд в taskId
// Используется только на границе HTTP, внутри сервиса везде TaskRef
func (r TaskRef) TaskID() string {
	return fmt.Sprintf("%s-%s-%s-%s", r.CustomerID, r.Day, r.Time, r.CarPlate)
}
