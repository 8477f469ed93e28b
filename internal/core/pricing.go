package core

import (
	"fmt"
	"math"

	"profast-backend-go/internal/models"
)

// Fares in whole taka.
const (
	documentSameRegionFare     = 60
	documentCrossRegionFare    = 80
	nonDocumentSameRegionFare  = 110
	nonDocumentCrossRegionFare = 150

	freeWeightKg      = 3
	perExtraKgCharge  = 40
	outsideCityCharge = 40
)

// MaxParcelWeightKg is the heaviest parcel accepted for booking. The request
// binding tags carry the same limit.
const MaxParcelWeightKg = 100

// SameRegion reports whether a parcel stays inside one region. Both regions
// must be known for that to be true.
func SameRegion(senderRegion, receiverRegion string) bool {
	return senderRegion != "" && senderRegion == receiverRegion
}

// CalculateCost prices a parcel. Weight is ignored for documents.
func CalculateCost(parcelType models.ParcelType, weight float64, senderRegion, receiverRegion string) (models.CostBreakdown, error) {
	same := SameRegion(senderRegion, receiverRegion)
	var b models.CostBreakdown

	switch parcelType {
	case models.ParcelTypeDocument:
		b.BaseFare = documentCrossRegionFare
		if same {
			b.BaseFare = documentSameRegionFare
		}
	case models.ParcelTypeNonDocument:
		if math.IsNaN(weight) || weight < 0 || weight > MaxParcelWeightKg {
			return b, fmt.Errorf("%w: weight %v kg, must be between 0 and %d", ErrInvalidParcel, weight, MaxParcelWeightKg)
		}
		b.BaseFare = nonDocumentCrossRegionFare
		if same {
			b.BaseFare = nonDocumentSameRegionFare
		}
		if weight > freeWeightKg {
			b.WeightCharge = int(math.Ceil(weight-freeWeightKg)) * perExtraKgCharge
			if !same {
				b.OutsideCityCharge = outsideCityCharge
			}
		}
	default:
		return b, fmt.Errorf("%w: unknown parcel type %q", ErrInvalidParcel, parcelType)
	}

	b.Total = b.BaseFare + b.WeightCharge + b.OutsideCityCharge
	return b, nil
}

// Quote prices the editable fields of a parcel.
func Quote(d models.ParcelDetails) (models.CostBreakdown, error) {
	return CalculateCost(d.ParcelType, d.ParcelWeight, d.SenderRegion, d.ReceiverRegion)
}
