package domain

import "github.com/suchimauz/carwash-schedule-board/internal/core/json_types"

type Customer struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Villa       string   `json:"villa"`
	Phone       string   `json:"phone"`
	CarPlates   []string `json:"carPlates"`
	PackageType string   `json:"packageType"`
}

type WashHistoryEntry struct {
	Date       json_types.Date `json:"date"`
	Day        Day             `json:"day"`
	Time       string          `json:"time"`
	CarPlate   string          `json:"carPlate"`
	WashType   WashType        `json:"washType"`
	WorkerName string          `json:"workerName"`
}
