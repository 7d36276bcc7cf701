package schedule_board_service

import (
	"sync"
	"time"

	"github.com/suchimauz/carwash-schedule-board/internal/core/domain"
)

// saveStatusTracker - визуальные отметки "saving"/"saved" по задачам
// Отметки независимы: несколько правок могут лететь на бэкенд одновременно,
// откат одной не трогает остальные. "saved" гаснет сама через ttl
type saveStatusTracker struct {
	mu     sync.Mutex
	ttl    time.Duration
	states map[domain.TaskRef]domain.SaveState
	timers map[domain.TaskRef]*time.Timer
}

func newSaveStatusTracker(ttl time.Duration) *saveStatusTracker {
	return &saveStatusTracker{
		ttl:    ttl,
		states: make(map[domain.TaskRef]domain.SaveState),
		timers: make(map[domain.TaskRef]*time.Timer),
	}
}

func (t *saveStatusTracker) MarkSaving(refs ...domain.TaskRef) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, ref := range refs {
		t.stopTimerLocked(ref)
		t.states[ref] = domain.SaveStateSaving
	}
}

func (t *saveStatusTracker) MarkSaved(refs ...domain.TaskRef) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, ref := range refs {
		t.stopTimerLocked(ref)
		t.states[ref] = domain.SaveStateSaved

		ref := ref
		t.timers[ref] = time.AfterFunc(t.ttl, func() {
			t.expire(ref)
		})
	}
}

func (t *saveStatusTracker) Clear(refs ...domain.TaskRef) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, ref := range refs {
		t.stopTimerLocked(ref)
		delete(t.states, ref)
	}
}

func (t *saveStatusTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for ref := range t.timers {
		t.stopTimerLocked(ref)
	}
	t.states = make(map[domain.TaskRef]domain.SaveState)
}

func (t *saveStatusTracker) States() map[domain.TaskRef]domain.SaveState {
	t.mu.Lock()
	defer t.mu.Unlock()

	states := make(map[domain.TaskRef]domain.SaveState, len(t.states))
	for ref, state := range t.states {
		states[ref] = state
	}
	return states
}

func (t *saveStatusTracker) expire(ref domain.TaskRef) {
	t.mu.Lock()
	defer t.mu.Unlock()

	// Гасим только "saved": пока таймер ждал, могла начаться новая правка
	if t.states[ref] == domain.SaveStateSaved {
		delete(t.states, ref)
	}
	delete(t.timers, ref)
}

func (t *saveStatusTracker) stopTimerLocked(ref domain.TaskRef) {
	if timer, ok := t.timers[ref]; ok {
		timer.Stop()
		delete(t.timers, ref)
	}
}
