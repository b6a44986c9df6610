// Package models содержит доменную модель пользователя: учётную запись
// с email, хэшем пароля и датой регистрации.
package models

import "time"

// User зарегистрированный пользователь Trakio. Email уникален и служит
// ключом для списка подписок в удалённом хранилище.
type User struct {
	UID          string    // Уникальный идентификатор пользователя
	Email        string    // Электронная почта
	PasswordHash string    // Хэш пароля пользователя
	CreatedAt    time.Time // Дата регистрации
}
