// Package models содержит доменные структуры Trakio: подписку с историей
// платежей, периодичность списаний и задание на отложенную синхронизацию.
// Даты платежей хранятся строками в формате 2006-01-02 — в таком виде они
// приходят с клиента и уходят по сети.
package models

import (
	"github.com/shopspring/decimal"
)

// DefaultCurrency трёхбуквенный код валюты по умолчанию для новых подписок.
const DefaultCurrency = "EUR"

// Frequency периодичность списаний по подписке.
type Frequency string

// Допустимые значения периодичности.
const (
	FrequencyWeekly     Frequency = "weekly"
	FrequencyBiweekly   Frequency = "biweekly"
	FrequencyMonthly    Frequency = "monthly"
	FrequencyQuarterly  Frequency = "quarterly"
	FrequencySemiannual Frequency = "semiannual"
	FrequencyYearly     Frequency = "yearly"
	FrequencyBiennial   Frequency = "biennial"
	FrequencyTriennial  Frequency = "triennial"
)

// Valid проверяет, что значение входит в фиксированный набор периодичностей.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly, FrequencyQuarterly,
		FrequencySemiannual, FrequencyYearly, FrequencyBiennial, FrequencyTriennial:
		return true
	}
	return false
}

// Payment одно списание по подписке.
type Payment struct {
	ID       string          `json:"id"`
	Date     string          `json:"date" validate:"required,datetime=2006-01-02"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// Subscription основная модель подписки. ID генерируется на клиенте и
// неизменяем; Payments — append-only история списаний, дедуплицированная
// по кортежу (date, amount, currency); DatePaid — производное поле,
// равное дате последнего платежа.
type Subscription struct {
	ID        string          `json:"id" validate:"required"`
	Name      string          `json:"name" validate:"required"`
	Price     decimal.Decimal `json:"price"`
	Currency  string          `json:"currency,omitempty"`
	Frequency Frequency       `json:"frequency" validate:"required"`
	Category  string          `json:"category,omitempty"`
	Payments  []Payment       `json:"payments,omitempty"`
	DatePaid  string          `json:"datePaid,omitempty"`
}

// AddPayment добавляет платёж, если платежа с тем же кортежем
// (date, amount, currency) ещё нет. Возвращает true, если запись добавлена.
// Поле DatePaid обновляется до самой поздней даты платежа.
func (s *Subscription) AddPayment(p Payment) bool {
	for _, existing := range s.Payments {
		if existing.Date == p.Date && existing.Amount.Equal(p.Amount) && existing.Currency == p.Currency {
			return false
		}
	}
	s.Payments = append(s.Payments, p)
	if p.Date > s.DatePaid {
		s.DatePaid = p.Date
	}
	return true
}

// Normalize проставляет валюту по умолчанию и пересобирает историю платежей
// без дубликатов. Вызывается на пути сохранения, а не в хранилище.
func (s *Subscription) Normalize() {
	if s.Currency == "" {
		s.Currency = DefaultCurrency
	}
	if len(s.Payments) == 0 {
		return
	}
	payments := s.Payments
	s.Payments = nil
	s.DatePaid = ""
	for _, p := range payments {
		if p.Currency == "" {
			p.Currency = s.Currency
		}
		s.AddPayment(p)
	}
}
