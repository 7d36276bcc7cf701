package in

import (
	"context"

	"github.com/google/uuid"
	"github.com/suchimauz/carwash-schedule-board/internal/core/domain"
)

type ScheduleBoardUseCase interface {
	// Загрузка и перечитывание недельного расписания из удаленного хранилища
	LoadBoard(ctx context.Context) ([]domain.Appointment, error)
	RefreshBoard(ctx context.Context) error

	// Чтение локального состояния доски
	Appointments() []domain.Appointment
	SlotAppointments(key domain.SlotKey) []domain.Appointment
	SaveStates() map[domain.TaskRef]domain.SaveState

	// Перетаскивание группы записей между слотами
	StartDrag(group domain.GroupKey)
	Drop(ctx context.Context, target domain.SlotKey, targetWorkerName string) error

	// Контекстные действия по ячейке
	ChangeWashType(ctx context.Context, ref domain.TaskRef, newType domain.WashType) (domain.WashTypeOutcome, error)
	ChangeWorker(ctx context.Context, ref domain.TaskRef, workerID, workerName string) error
	DeleteTask(ctx context.Context, ref domain.TaskRef) error

	// Распространение смены типа мойки на неделю
	ConfirmJustToday(ctx context.Context, planID uuid.UUID) error
	ApplyWeekPattern(ctx context.Context, planID uuid.UUID, selections map[domain.TaskRef]domain.WashType) error
	WeekPatternHistory(ctx context.Context, planID uuid.UUID) ([]domain.WashHistoryEntry, error)

	// Профиль клиента для инфо-попапа и шапки диалога
	CustomerProfile(ctx context.Context, customerID string) (*domain.Customer, error)

	InvalidateCustomerCache(ctx context.Context, customerID string)
	InvalidateAllCaches(ctx context.Context)
}
