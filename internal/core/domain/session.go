package domain

// Session - кто именно правит расписание, уходит на бэкенд
// в заголовках X-User-ID / X-User-Name для аудита
type Session struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}
