package models

import "time"

// FlushJob маркер «у пользователя есть несинхронизированное локальное
// состояние». ID равен email, поэтому повторная постановка в очередь
// перезаписывает существующее задание — очередь работает по принципу
// last-write-wins, а не как упорядоченный журнал.
type FlushJob struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// NewFlushJob создаёт задание на отложенную синхронизацию для пользователя.
func NewFlushJob(email string) FlushJob {
	return FlushJob{
		ID:        email,
		Email:     email,
		CreatedAt: time.Now(),
	}
}
