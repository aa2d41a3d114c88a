package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
	}{
		{"locale thousands and decimals", "22.300,00", 22300.0},
		{"locale decimals only", "2600,50", 2600.5},
		{"plain integer", "5900", 5900.0},
		{"plain float", "5900.5", 5900.5},
		{"currency sign", "$2600", 2600.0},
		{"currency sign with space", "$ 1.500,25", 1500.25},
		{"thousands without decimals", "22.300", 22300.0},
		{"millions", "1.234.567", 1234567.0},
		{"empty cell", "", 0},
		{"whitespace only", "   ", 0},
		{"garbage never raises", "precio a confirmar", 0},
		{"lone sign", "$", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseMoney(tt.input))
		})
	}
}

func TestParseDay(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *time.Time
	}{
		{"iso date", "2026-03-15", datePtr(2026, 3, 15)},
		{"slash date", "15/03/2026", datePtr(2026, 3, 15)},
		{"short slash date", "5/3/2026", datePtr(2026, 3, 5)},
		{"empty", "", nil},
		{"garbage", "el martes que viene", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDay(tt.input)
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			if assert.NotNil(t, got) {
				assert.Equal(t, tt.expected.Format("2006-01-02"), got.Format("2006-01-02"))
			}
		})
	}
}

func TestParseDaySerial(t *testing.T) {
	// xlsx serial 45000 is 2023-03-15
	got := ParseDay("45000")
	if assert.NotNil(t, got) {
		assert.Equal(t, "2023-03-15", got.Format("2006-01-02"))
	}
}

func datePtr(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}
