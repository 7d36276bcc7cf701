package domain

import "github.com/google/uuid"

// WeekPatternItem - одна из остальных записей клиента на этой неделе
// Current - значение до открытия диалога, от него считается дифф
type WeekPatternItem struct {
	Ref     TaskRef  `json:"ref"`
	Current WashType `json:"current"`
}

// WeekPatternPlan - предложение распространить смену типа мойки на всю неделю
// Origin уже применен локально, но еще не сохранен: JustToday отправит только
// его, ApplyWeek - его вместе с диффом по остальным записям
type WeekPatternPlan struct {
	ID           uuid.UUID         `json:"id"`
	CustomerID   string            `json:"customerId"`
	CustomerName string            `json:"customerName"`
	OriginRef    TaskRef           `json:"originRef"`
	OldWashType  WashType          `json:"oldWashType"`
	NewWashType  WashType          `json:"newWashType"`
	Origin       ChangeRecord      `json:"origin"`
	Others       []WeekPatternItem `json:"others"`
	HistoryLimit int               `json:"historyLimit"`
}

// WashTypeOutcome - результат смены типа мойки
// Applied=false значит операция молча проигнорирована (терминальный статус,
// запись не найдена, недопустимый тип) - это не ошибка
// Plan != nil значит изменение попало на день-образец и держится в плане
// до решения оператора
type WashTypeOutcome struct {
	Applied bool             `json:"applied"`
	Plan    *WeekPatternPlan `json:"plan,omitempty"`
}

type SaveState string

const (
	SaveStateSaving SaveState = "saving"
	SaveStateSaved  SaveState = "saved"
)
