package domain

import (
	"strings"

	"github.com/suchimauz/carwash-schedule-board/internal/core/json_types"
)

type WashType string

const (
	WashTypeExt       WashType = "EXT"
	WashTypeInt       WashType = "INT"
	WashTypeCancelled WashType = "CANCELLED"
	WashTypeCompleted WashType = "COMPLETED"
)

// IsTerminal - CANCELLED и COMPLETED выставляются только через отдельный
// процесс завершения задач, после них ячейка в сетке больше не редактируется
func (w WashType) IsTerminal() bool {
	return w == WashTypeCancelled || w == WashTypeCompleted
}

// IsSelectable - типы мойки, которые оператор может выставить вручную
func (w WashType) IsSelectable() bool {
	return w == WashTypeExt || w == WashTypeInt
}

type Appointment struct {
	CustomerID   string                `json:"customerId"`
	CustomerName string                `json:"customerName"`
	Villa        string                `json:"villa"`
	CarPlate     string                `json:"carPlate"`
	Day          Day                   `json:"day"`
	Time         string                `json:"time"`
	WorkerID     string                `json:"workerId"`
	WorkerName   string                `json:"workerName"`
	WashType     WashType              `json:"washType"`
	IsLocked     json_types.LockedFlag `json:"isLocked"`
	PackageType  string                `json:"packageType"`
}

func (a Appointment) Ref() TaskRef {
	return TaskRef{
		CustomerID: a.CustomerID,
		Day:        a.Day,
		Time:       a.Time,
		CarPlate:   a.CarPlate,
	}
}

func (a Appointment) Group() GroupKey {
	return GroupKey{
		CustomerID: a.CustomerID,
		Day:        a.Day,
		Time:       a.Time,
		WorkerID:   a.WorkerID,
	}
}

// IsBiWeekly - пакеты с "bi week" в названии, у них глубина истории моек больше
func (a Appointment) IsBiWeekly() bool {
	return strings.Contains(strings.ToLower(a.PackageType), "bi week")
}
