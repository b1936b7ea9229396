package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"serviceman_backend/platform/apperr"
)

func TestValidateSlotDate(t *testing.T) {
	// 08:00 UTC is 11:30 in Tehran, so the market date matches the UTC date.
	now := time.Date(2026, time.March, 14, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		date     string
		now      time.Time
		wantFail bool
	}{
		{"yesterday rejected", "2026-03-13", now, true},
		{"today accepted", "2026-03-14", now, false},
		{"tomorrow accepted", "2026-03-15", now, false},
		{
			// 21:00 UTC on the 14th is already past midnight on the 15th
			// in Tehran, so the 14th is no longer bookable.
			"day rolled over in market time",
			"2026-03-14",
			time.Date(2026, time.March, 14, 21, 0, 0, 0, time.UTC),
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scheduled, err := time.Parse(dateLayout, tt.date)
			if err != nil {
				t.Fatalf("parse date: %v", err)
			}
			verr := validateSlotDate(scheduled, tt.now)
			if tt.wantFail {
				if !apperr.Is(verr, apperr.KindValidation) {
					t.Errorf("validateSlotDate(%s) = %v, want validation error", tt.date, verr)
				}
				return
			}
			if verr != nil {
				t.Errorf("validateSlotDate(%s) = %v, want nil", tt.date, verr)
			}
		})
	}
}

func TestSlotStart(t *testing.T) {
	day := time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		slot string
		want time.Time
	}{
		{"valid slot", "14:30", time.Date(2026, time.March, 14, 14, 30, 0, 0, time.UTC)},
		{"midnight slot", "00:00", day},
		{"unparseable slot falls back to day start", "afternoon", day},
		{"empty slot falls back to day start", "", day},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := slotStart(day, tt.slot); !got.Equal(tt.want) {
				t.Errorf("slotStart(%q) = %v, want %v", tt.slot, got, tt.want)
			}
		})
	}
}

func TestVATComputation(t *testing.T) {
	tests := []struct {
		name      string
		amount    string
		wantVAT   string
		wantTotal string
	}{
		{"round amount", "1000000.00", "90000.00", "1090000.00"},
		{"fractional amount rounds half up", "150.50", "13.55", "164.05"},
		{"small amount", "1.00", "0.09", "1.09"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, err := decimal.NewFromString(tt.amount)
			if err != nil {
				t.Fatalf("parse amount: %v", err)
			}
			vat := amount.Mul(vatRate).Round(2)
			total := amount.Add(vat)
			if got := vat.StringFixed(2); got != tt.wantVAT {
				t.Errorf("vat = %s, want %s", got, tt.wantVAT)
			}
			if got := total.StringFixed(2); got != tt.wantTotal {
				t.Errorf("total = %s, want %s", got, tt.wantTotal)
			}
		})
	}
}
