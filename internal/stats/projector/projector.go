// Package projector holds the pure aggregation functions behind the stats
// endpoints. No I/O: callers fetch rows, the projector folds them.
package projector

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Revenue sums accepted-quote prices. Zero when the slice is empty.
func Revenue(prices []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, price := range prices {
		total = total.Add(price)
	}
	return total
}

// AverageRating is the mean rating rounded to one decimal. Zero for an empty
// slice, never NaN.
func AverageRating(ratings []int) decimal.Decimal {
	if len(ratings) == 0 {
		return decimal.Zero
	}
	sum := 0
	for _, rating := range ratings {
		sum += rating
	}
	return decimal.NewFromInt(int64(sum)).
		Div(decimal.NewFromInt(int64(len(ratings)))).
		Round(1)
}

// ServiceCount is a per-service request tally as fetched from storage.
type ServiceCount struct {
	ServiceID uuid.UUID
	Name      string
	Count     int
}

// ServicePopularity is a per-service share of all requests.
type ServicePopularity struct {
	ServiceID uuid.UUID       `json:"serviceId"`
	Name      string          `json:"name"`
	Count     int             `json:"count"`
	Percent   decimal.Decimal `json:"percent"`
}

// Popularity converts tallies into percentage shares, preserving input order.
func Popularity(counts []ServiceCount) []ServicePopularity {
	total := 0
	for _, sc := range counts {
		total += sc.Count
	}

	out := make([]ServicePopularity, 0, len(counts))
	for _, sc := range counts {
		percent := decimal.Zero
		if total > 0 {
			percent = decimal.NewFromInt(int64(sc.Count)).
				Mul(decimal.NewFromInt(100)).
				Div(decimal.NewFromInt(int64(total))).
				Round(1)
		}
		out = append(out, ServicePopularity{
			ServiceID: sc.ServiceID,
			Name:      sc.Name,
			Count:     sc.Count,
			Percent:   percent,
		})
	}
	return out
}
