package schedule_board_service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suchimauz/carwash-schedule-board/internal/core/domain"
)

func TestChangeWashTypeAppliedAndPersisted(t *testing.T) {
	source := appt("c1", domain.DayWednesday, "9:00 AM", "w1", "Ivan", "A-111", domain.WashTypeExt)
	service, backend := newTestService(t, []domain.Appointment{source})

	outcome, err := service.ChangeWashType(context.Background(), source.Ref(), domain.WashTypeInt)
	require.NoError(t, err)
	assert.True(t, outcome.Applied)
	assert.Nil(t, outcome.Plan)

	list := service.Appointments()
	require.Len(t, list, 1)
	assert.Equal(t, domain.WashTypeInt, list[0].WashType)
	assert.True(t, bool(list[0].IsLocked))

	batch := backend.lastBatch()
	require.Len(t, batch, 1)
	assert.Equal(t, domain.ChangeTypeWashType, batch[0].Type)
	assert.Equal(t, domain.WashTypeExt, batch[0].OldWashType)
	assert.Equal(t, domain.WashTypeInt, batch[0].NewWashType)
	assert.Equal(t, source.Ref().TaskID(), batch[0].TaskID)
}

func TestChangeWashTypeSavedFlashExpires(t *testing.T) {
	source := appt("c1", domain.DayWednesday, "9:00 AM", "w1", "Ivan", "A-111", domain.WashTypeExt)
	service, _ := newTestService(t, []domain.Appointment{source})

	_, err := service.ChangeWashType(context.Background(), source.Ref(), domain.WashTypeInt)
	require.NoError(t, err)

	states := service.SaveStates()
	assert.Equal(t, domain.SaveStateSaved, states[source.Ref()])

	// Отметка "saved" живет ограниченное время и снимается сама
	assert.Eventually(t, func() bool {
		_, ok := service.SaveStates()[source.Ref()]
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestChangeWashTypeTerminalIsNoop(t *testing.T) {
	for _, terminal := range []domain.WashType{domain.WashTypeCancelled, domain.WashTypeCompleted} {
		source := appt("c1", domain.DayWednesday, "9:00 AM", "w1", "Ivan", "A-111", terminal)
		service, backend := newTestService(t, []domain.Appointment{source})

		outcome, err := service.ChangeWashType(context.Background(), source.Ref(), domain.WashTypeExt)
		require.NoError(t, err)
		assert.False(t, outcome.Applied)

		list := service.Appointments()
		require.Len(t, list, 1)
		assert.Equal(t, terminal, list[0].WashType)
		assert.Zero(t, backend.batchCount())
	}
}

func TestChangeWashTypeInvalidTypeIsNoop(t *testing.T) {
	source := appt("c1", domain.DayWednesday, "9:00 AM", "w1", "Ivan", "A-111", domain.WashTypeExt)
	service, backend := newTestService(t, []domain.Appointment{source})

	outcome, err := service.ChangeWashType(context.Background(), source.Ref(), domain.WashTypeCancelled)
	require.NoError(t, err)
	assert.False(t, outcome.Applied)
	assert.Zero(t, backend.batchCount())
}

func TestChangeWashTypeUnknownTaskIsNoop(t *testing.T) {
	service, backend := newTestService(t, []domain.Appointment{
		appt("c1", domain.DayWednesday, "9:00 AM", "w1", "Ivan", "A-111", domain.WashTypeExt),
	})

	outcome, err := service.ChangeWashType(context.Background(), domain.TaskRef{
		CustomerID: "c9",
		Day:        domain.DayMonday,
		Time:       "9:00 AM",
		CarPlate:   "Z-999",
	}, domain.WashTypeInt)
	require.NoError(t, err)
	assert.False(t, outcome.Applied)
	assert.Zero(t, backend.batchCount())
}

func TestChangeWashTypeRollsBackOnPersistFailure(t *testing.T) {
	source := appt("c1", domain.DayWednesday, "9:00 AM", "w1", "Ivan", "A-111", domain.WashTypeExt)
	service, backend := newTestService(t, []domain.Appointment{source})
	backend.batchErr = errors.New("backend down")

	before := service.Appointments()

	_, err := service.ChangeWashType(context.Background(), source.Ref(), domain.WashTypeInt)
	require.Error(t, err)

	assert.Equal(t, before, service.Appointments())
	assert.Empty(t, service.SaveStates())
}

func TestChangeWorker(t *testing.T) {
	source := appt("c1", domain.DayWednesday, "9:00 AM", "w1", "Ivan", "A-111", domain.WashTypeExt)
	service, backend := newTestService(t, []domain.Appointment{source})

	require.NoError(t, service.ChangeWorker(context.Background(), source.Ref(), "w2", "Petr"))

	list := service.Appointments()
	require.Len(t, list, 1)
	assert.Equal(t, "w2", list[0].WorkerID)
	assert.Equal(t, "Petr", list[0].WorkerName)
	// Тип мойки переназначение не трогает
	assert.Equal(t, domain.WashTypeExt, list[0].WashType)
	assert.True(t, bool(list[0].IsLocked))

	batch := backend.lastBatch()
	require.Len(t, batch, 1)
	assert.Equal(t, domain.ChangeTypeWorkerChange, batch[0].Type)
	assert.Equal(t, "w2", batch[0].NewWorkerID)
}

func TestChangeWorkerTerminalIsNoop(t *testing.T) {
	source := appt("c1", domain.DayWednesday, "9:00 AM", "w1", "Ivan", "A-111", domain.WashTypeCompleted)
	service, backend := newTestService(t, []domain.Appointment{source})

	require.NoError(t, service.ChangeWorker(context.Background(), source.Ref(), "w2", "Petr"))

	list := service.Appointments()
	assert.Equal(t, "w1", list[0].WorkerID)
	assert.Zero(t, backend.batchCount())
}

func TestDeleteTask(t *testing.T) {
	first := appt("c1", domain.DayWednesday, "9:00 AM", "w1", "Ivan", "A-111", domain.WashTypeExt)
	second := appt("c2", domain.DayThursday, "10:00 AM", "w2", "Petr", "B-222", domain.WashTypeInt)
	service, backend := newTestService(t, []domain.Appointment{first, second})

	require.NoError(t, service.DeleteTask(context.Background(), first.Ref()))

	list := service.Appointments()
	require.Len(t, list, 1)
	assert.Equal(t, "c2", list[0].CustomerID)

	require.Len(t, backend.deleted, 1)
	assert.Equal(t, first.Ref().TaskID(), backend.deleted[0])
	assert.Empty(t, service.SaveStates())
}

func TestDeleteTaskRollsBackOnPersistFailure(t *testing.T) {
	source := appt("c1", domain.DayWednesday, "9:00 AM", "w1", "Ivan", "A-111", domain.WashTypeExt)
	service, backend := newTestService(t, []domain.Appointment{source})
	backend.deleteErr = errors.New("backend down")

	before := service.Appointments()

	require.Error(t, service.DeleteTask(context.Background(), source.Ref()))

	assert.Equal(t, before, service.Appointments())
	assert.Empty(t, service.SaveStates())
}
