package store

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name  string
		lines []Line
		want  Summary
	}{
		{
			name: "empty",
			want: Summary{},
		},
		{
			name: "rounds tax half up",
			lines: []Line{
				{ProductID: 1, Price: decimal.RequireFromString("109.95"), Quantity: 1},
				{ProductID: 2, Price: decimal.RequireFromString("22.3"), Quantity: 2},
			},
			want: Summary{
				TotalItems: 3,
				Subtotal:   decimal.RequireFromString("154.55"),
				Tax:        decimal.RequireFromString("15.46"),
				Total:      decimal.RequireFromString("170.01"),
			},
		},
		{
			name:  "whole amounts",
			lines: []Line{{ProductID: 3, Price: decimal.NewFromInt(15), Quantity: 4}},
			want: Summary{
				TotalItems: 4,
				Subtotal:   decimal.NewFromInt(60),
				Tax:        decimal.NewFromInt(6),
				Total:      decimal.NewFromInt(66),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(tt.lines)
			assert.Equal(t, tt.want.TotalItems, got.TotalItems)
			assert.True(t, tt.want.Subtotal.Equal(got.Subtotal), "subtotal %s", got.Subtotal)
			assert.True(t, got.Shipping.IsZero(), "shipping %s", got.Shipping)
			assert.True(t, tt.want.Tax.Equal(got.Tax), "tax %s", got.Tax)
			assert.True(t, tt.want.Total.Equal(got.Total), "total %s", got.Total)
		})
	}
}

func TestStoreSummary(t *testing.T) {
	s := New()
	s.AddToCart(product(1, "9.99"), 3)

	summary := s.Summary()
	assert.True(t, decimal.RequireFromString("29.97").Equal(summary.Subtotal))
	assert.True(t, decimal.RequireFromString("3").Equal(summary.Tax))
	assert.True(t, decimal.RequireFromString("32.97").Equal(summary.Total))
}
