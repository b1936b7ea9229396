package projector

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestRevenue(t *testing.T) {
	tests := []struct {
		name   string
		prices []string
		want   string
	}{
		{"empty", nil, "0"},
		{"single", []string{"150.00"}, "150"},
		{"sum", []string{"150.00", "99.50", "0.50"}, "250"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prices := make([]decimal.Decimal, 0, len(tt.prices))
			for _, p := range tt.prices {
				prices = append(prices, decimal.RequireFromString(p))
			}
			got := Revenue(prices)
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("Revenue() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestAverageRating(t *testing.T) {
	tests := []struct {
		name    string
		ratings []int
		want    string
	}{
		{"empty is zero not NaN", nil, "0"},
		{"single", []int{5}, "5"},
		{"mean rounded to one decimal", []int{5, 3, 4}, "4"},
		{"rounds halves", []int{4, 5}, "4.5"},
		{"repeating decimal", []int{5, 5, 4}, "4.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AverageRating(tt.ratings)
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("AverageRating(%v) = %s, want %s", tt.ratings, got, tt.want)
			}
		})
	}
}

func TestPopularityPreservesOrder(t *testing.T) {
	plumbing := uuid.New()
	electrical := uuid.New()
	cleaning := uuid.New()

	counts := []ServiceCount{
		{ServiceID: plumbing, Name: "plumbing", Count: 3},
		{ServiceID: electrical, Name: "electrical", Count: 1},
		{ServiceID: cleaning, Name: "cleaning", Count: 0},
	}

	got := Popularity(counts)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i, sc := range counts {
		if got[i].ServiceID != sc.ServiceID {
			t.Errorf("position %d = %s, want %s", i, got[i].Name, sc.Name)
		}
	}
	if want := decimal.RequireFromString("75"); !got[0].Percent.Equal(want) {
		t.Errorf("plumbing percent = %s, want %s", got[0].Percent, want)
	}
	if want := decimal.RequireFromString("25"); !got[1].Percent.Equal(want) {
		t.Errorf("electrical percent = %s, want %s", got[1].Percent, want)
	}
	if !got[2].Percent.IsZero() {
		t.Errorf("cleaning percent = %s, want 0", got[2].Percent)
	}
}

func TestPopularityEmptyTotal(t *testing.T) {
	got := Popularity([]ServiceCount{{ServiceID: uuid.New(), Name: "plumbing", Count: 0}})
	if len(got) != 1 || !got[0].Percent.IsZero() {
		t.Fatalf("expected zero percent with zero total, got %+v", got)
	}
}
