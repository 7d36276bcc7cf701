package session

import (
	"sync"

	"github.com/suchimauz/carwash-schedule-board/internal/config"
	"github.com/suchimauz/carwash-schedule-board/internal/core/domain"
)

// SessionAdapter отдает текущего пользователя для аудита изменений
// Стартовые значения берутся из конфига, дальше их может переопределить
// HTTP-слой заголовками запроса
type SessionAdapter struct {
	mu      sync.RWMutex
	current domain.Session
}

func NewSessionAdapter(cfg *config.Config) *SessionAdapter {
	return &SessionAdapter{
		current: domain.Session{
			UserID:   cfg.Session.UserID,
			UserName: cfg.Session.UserName,
		},
	}
}

func (s *SessionAdapter) Current() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.current
}

func (s *SessionAdapter) Set(session domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = session
}
