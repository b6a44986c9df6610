// Package renewal содержит арифметику дат списаний: вычисление следующей
// даты продления для заданной периодичности и приведение цены подписки
// к месячной ставке для подсчёта расходов.
package renewal

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/trakio/trakio/internal/models"
)

// DateLayout формат дат платежей, принятый во всём приложении.
const DateLayout = "2006-01-02"

// Next возвращает дату следующего списания после from для заданной периодичности.
// Неизвестная периодичность трактуется как месячная.
func Next(from time.Time, f models.Frequency) time.Time {
	switch f {
	case models.FrequencyWeekly:
		return from.AddDate(0, 0, 7)
	case models.FrequencyBiweekly:
		return from.AddDate(0, 0, 14)
	case models.FrequencyQuarterly:
		return from.AddDate(0, 3, 0)
	case models.FrequencySemiannual:
		return from.AddDate(0, 6, 0)
	case models.FrequencyYearly:
		return from.AddDate(1, 0, 0)
	case models.FrequencyBiennial:
		return from.AddDate(2, 0, 0)
	case models.FrequencyTriennial:
		return from.AddDate(3, 0, 0)
	default:
		return from.AddDate(0, 1, 0)
	}
}

// MonthlyRate приводит цену подписки к месячной ставке.
// Недельные периоды считаются через 52 недели в году.
func MonthlyRate(price decimal.Decimal, f models.Frequency) decimal.Decimal {
	twelve := decimal.NewFromInt(12)
	switch f {
	case models.FrequencyWeekly:
		return price.Mul(decimal.NewFromInt(52)).DivRound(twelve, 4)
	case models.FrequencyBiweekly:
		return price.Mul(decimal.NewFromInt(26)).DivRound(twelve, 4)
	case models.FrequencyQuarterly:
		return price.DivRound(decimal.NewFromInt(3), 4)
	case models.FrequencySemiannual:
		return price.DivRound(decimal.NewFromInt(6), 4)
	case models.FrequencyYearly:
		return price.DivRound(twelve, 4)
	case models.FrequencyBiennial:
		return price.DivRound(decimal.NewFromInt(24), 4)
	case models.FrequencyTriennial:
		return price.DivRound(decimal.NewFromInt(36), 4)
	default:
		return price
	}
}

// DueOn возвращает дату следующего списания для подписки, отталкиваясь от
// даты последнего платежа. Если платежей ещё не было, возвращает нулевое
// время и false.
func DueOn(sub models.Subscription) (time.Time, bool) {
	if sub.DatePaid == "" {
		return time.Time{}, false
	}
	paid, err := time.Parse(DateLayout, sub.DatePaid)
	if err != nil {
		return time.Time{}, false
	}
	return Next(paid, sub.Frequency), true
}

// DueTomorrow сообщает, приходится ли следующее списание на завтрашний
// день относительно now.
func DueTomorrow(sub models.Subscription, now time.Time) bool {
	due, ok := DueOn(sub)
	if !ok {
		return false
	}
	tomorrow := now.AddDate(0, 0, 1)
	return due.Year() == tomorrow.Year() && due.Month() == tomorrow.Month() && due.Day() == tomorrow.Day()
}
