package domain

import "github.com/google/uuid"

type ChangeType string

const (
	ChangeTypeDragDrop     ChangeType = "dragDrop"
	ChangeTypeWashType     ChangeType = "washTypeChange"
	ChangeTypeWorkerChange ChangeType = "workerChange"
)

// ChangeRecord - атомарное изменение для батч-запроса на бэкенд
// При свопе слотов отправляются две записи, по одной на каждую сторону
type ChangeRecord struct {
	ID     uuid.UUID  `json:"id"`
	Type   ChangeType `json:"type"`
	TaskID string     `json:"taskId"`

	CustomerID string `json:"customerId,omitempty"`
	CarPlate   string `json:"carPlate,omitempty"`

	OldWashType WashType `json:"oldWashType,omitempty"`
	NewWashType WashType `json:"newWashType,omitempty"`

	NewWorkerID   string `json:"newWorkerId,omitempty"`
	NewWorkerName string `json:"newWorkerName,omitempty"`

	SourceDay  Day    `json:"sourceDay,omitempty"`
	SourceTime string `json:"sourceTime,omitempty"`
	TargetDay  Day    `json:"targetDay,omitempty"`
	TargetTime string `json:"targetTime,omitempty"`
	IsSlotSwap bool   `json:"isSlotSwap,omitempty"`
}
