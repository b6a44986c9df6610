package models

// Действия единственной конечной точки хранилища.
const (
	ActionGet  = "get"
	ActionSave = "save"
	ActionSync = "sync"
)

// StorageRequest тело запроса к конечной точке хранилища. Subscriptions
// заполняется только для действий save и sync.
type StorageRequest struct {
	Action        string         `json:"action" validate:"required,oneof=get save sync"`
	Email         string         `json:"email" validate:"required,email"`
	Subscriptions []Subscription `json:"subscriptions,omitempty"`
}

// StorageResponse тело ответа конечной точки хранилища. Для get заполняется
// Subscriptions, для save — OK, для sync — OK и MergedCount; при ошибке
// возвращается только Error. Subscriptions сериализуется всегда: пустой
// список у get отдается как [], а не пропадает из ответа.
type StorageResponse struct {
	Subscriptions []Subscription `json:"subscriptions"`
	OK            bool           `json:"ok,omitempty"`
	MergedCount   int            `json:"mergedCount,omitempty"`
	Error         string         `json:"error,omitempty"`
}

// RenewalReminder сообщение о предстоящем списании, публикуемое
// планировщиком в очередь напоминаний.
type RenewalReminder struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	Currency    string `json:"currency"`
	RenewsOn    string `json:"renews_on"`
	MonthlyRate string `json:"monthly_rate"`
}
