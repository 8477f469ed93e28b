package core

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profast-backend-go/internal/models"
)

func TestCalculateCost(t *testing.T) {
	tests := []struct {
		name     string
		typ      models.ParcelType
		weight   float64
		from, to string
		want     models.CostBreakdown
	}{
		{"document same region", models.ParcelTypeDocument, 0, "Dhaka", "Dhaka",
			models.CostBreakdown{BaseFare: 60, Total: 60}},
		{"document cross region", models.ParcelTypeDocument, 0, "Dhaka", "Sylhet",
			models.CostBreakdown{BaseFare: 80, Total: 80}},
		{"document ignores weight", models.ParcelTypeDocument, 12, "Dhaka", "Dhaka",
			models.CostBreakdown{BaseFare: 60, Total: 60}},
		{"non-document same region light", models.ParcelTypeNonDocument, 2, "Dhaka", "Dhaka",
			models.CostBreakdown{BaseFare: 110, Total: 110}},
		{"non-document same region at threshold", models.ParcelTypeNonDocument, 3, "Dhaka", "Dhaka",
			models.CostBreakdown{BaseFare: 110, Total: 110}},
		{"non-document same region heavy", models.ParcelTypeNonDocument, 5, "Dhaka", "Dhaka",
			models.CostBreakdown{BaseFare: 110, WeightCharge: 80, Total: 190}},
		{"non-document partial kg rounds up", models.ParcelTypeNonDocument, 3.2, "Dhaka", "Dhaka",
			models.CostBreakdown{BaseFare: 110, WeightCharge: 40, Total: 150}},
		{"non-document cross region light", models.ParcelTypeNonDocument, 2, "Dhaka", "Khulna",
			models.CostBreakdown{BaseFare: 150, Total: 150}},
		{"non-document cross region heavy", models.ParcelTypeNonDocument, 5, "Dhaka", "Khulna",
			models.CostBreakdown{BaseFare: 150, WeightCharge: 80, OutsideCityCharge: 40, Total: 270}},
		{"empty regions are cross region", models.ParcelTypeDocument, 0, "", "",
			models.CostBreakdown{BaseFare: 80, Total: 80}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CalculateCost(tc.typ, tc.weight, tc.from, tc.to)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCalculateCost_Rejects(t *testing.T) {
	_, err := CalculateCost("Fragile", 1, "Dhaka", "Dhaka")
	assert.True(t, errors.Is(err, ErrInvalidParcel))

	for _, w := range []float64{-1, MaxParcelWeightKg + 0.5, 1e18, 1e300, math.Inf(1), math.Inf(-1), math.NaN()} {
		_, err = CalculateCost(models.ParcelTypeNonDocument, w, "Dhaka", "Dhaka")
		assert.True(t, errors.Is(err, ErrInvalidParcel), "weight %v: got %v", w, err)
	}

	b, err := CalculateCost(models.ParcelTypeNonDocument, MaxParcelWeightKg, "Dhaka", "Khulna")
	require.NoError(t, err)
	assert.Equal(t, 150+97*40+40, b.Total)
}

func TestCalculateCost_Deterministic(t *testing.T) {
	a, err := CalculateCost(models.ParcelTypeNonDocument, 7.5, "Rajshahi", "Rangpur")
	require.NoError(t, err)
	b, err := CalculateCost(models.ParcelTypeNonDocument, 7.5, "Rajshahi", "Rangpur")
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, a.BaseFare+a.WeightCharge+a.OutsideCityCharge, a.Total)
}

func TestNewTrackingID(t *testing.T) {
	id := NewTrackingID(fixedNow())
	assert.Regexp(t, `^ZAP1760400000000[0-9A-F]{6}$`, id)
	assert.NotEqual(t, id, NewTrackingID(fixedNow()))
}
