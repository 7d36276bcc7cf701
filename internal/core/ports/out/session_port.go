package out

import "github.com/suchimauz/carwash-schedule-board/internal/core/domain"

// SessionPort - откуда берется текущий пользователь для аудита
// Сессия прокидывается зависимостью, а не читается из глобального состояния
// в каждом месте вызова
type SessionPort interface {
	Current() domain.Session
}
