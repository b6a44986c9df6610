package renewal

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/trakio/trakio/internal/models"
)

func TestNext(t *testing.T) {
	from := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		frequency models.Frequency
		want      time.Time
	}{
		{models.FrequencyWeekly, time.Date(2024, 1, 22, 0, 0, 0, 0, time.UTC)},
		{models.FrequencyBiweekly, time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC)},
		{models.FrequencyMonthly, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)},
		{models.FrequencyQuarterly, time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)},
		{models.FrequencySemiannual, time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)},
		{models.FrequencyYearly, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)},
		{models.FrequencyBiennial, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)},
		{models.FrequencyTriennial, time.Date(2027, 1, 15, 0, 0, 0, 0, time.UTC)},
		{models.Frequency("unknown"), time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(string(tt.frequency), func(t *testing.T) {
			assert.Equal(t, tt.want, Next(from, tt.frequency))
		})
	}
}

func TestMonthlyRate(t *testing.T) {
	tests := []struct {
		name      string
		price     decimal.Decimal
		frequency models.Frequency
		want      string
	}{
		{"monthly passes through", decimal.NewFromFloat(9.99), models.FrequencyMonthly, "9.99"},
		{"yearly divided by 12", decimal.NewFromInt(120), models.FrequencyYearly, "10"},
		{"quarterly divided by 3", decimal.NewFromInt(30), models.FrequencyQuarterly, "10"},
		{"semiannual divided by 6", decimal.NewFromInt(60), models.FrequencySemiannual, "10"},
		{"weekly times 52 over 12", decimal.NewFromInt(3), models.FrequencyWeekly, "13"},
		{"biennial divided by 24", decimal.NewFromInt(240), models.FrequencyBiennial, "10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MonthlyRate(tt.price, tt.frequency)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", got, tt.want)
		})
	}
}

func TestDueOn(t *testing.T) {
	sub := models.Subscription{
		ID:        "sub-1",
		Name:      "Netflix",
		Frequency: models.FrequencyMonthly,
		DatePaid:  "2024-01-15",
	}
	due, ok := DueOn(sub)
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), due)

	sub.DatePaid = ""
	_, ok = DueOn(sub)
	assert.False(t, ok)

	sub.DatePaid = "15/01/2024"
	_, ok = DueOn(sub)
	assert.False(t, ok)
}

func TestDueTomorrow(t *testing.T) {
	now := time.Date(2024, 2, 14, 10, 0, 0, 0, time.UTC)

	due := models.Subscription{Frequency: models.FrequencyMonthly, DatePaid: "2024-01-15"}
	assert.True(t, DueTomorrow(due, now))

	notDue := models.Subscription{Frequency: models.FrequencyMonthly, DatePaid: "2024-01-20"}
	assert.False(t, DueTomorrow(notDue, now))

	never := models.Subscription{Frequency: models.FrequencyMonthly}
	assert.False(t, DueTomorrow(never, now))
}
