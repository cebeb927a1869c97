package core

import (
	"fmt"
	"math"
)

const (
	// MinDaysScheduled and MaxDaysScheduled bound the scheduled shipping days slider
	MinDaysScheduled = 0
	MaxDaysScheduled = 6

	// MinQuantity is the smallest accepted item quantity
	MinQuantity = 1
)

// Form field names shared by the HTML form, the JSON API and validation messages
const (
	FieldDaysScheduled = "days_scheduled"
	FieldShippingMode  = "shipping_mode"
	FieldOrderRegion   = "order_region"
	FieldOrderRegionID = "order_region_id"
	FieldSales         = "sales"
	FieldQuantity      = "quantity"
	FieldMarket        = "market"
)

// ShipmentInput holds the raw widget values of one submission
type ShipmentInput struct {
	DaysScheduled int     `json:"days_scheduled" form:"days_scheduled"`
	ShippingMode  string  `json:"shipping_mode" form:"shipping_mode"`
	OrderRegion   string  `json:"order_region,omitempty" form:"order_region"`
	OrderRegionID *int    `json:"order_region_id,omitempty" form:"order_region_id"`
	Sales         float64 `json:"sales" form:"sales"`
	Quantity      int     `json:"quantity" form:"quantity"`
	Market        string  `json:"market" form:"market"`
}

// DefaultInput returns the values the dashboard widgets start with
func DefaultInput() ShipmentInput {
	return ShipmentInput{
		DaysScheduled: 3,
		ShippingMode:  "Standard Class",
		OrderRegion:   "Southeast Asia",
		Sales:         100.0,
		Quantity:      1,
		Market:        "Pacific Asia",
	}
}

// Record is the single inference row built from one submission
type Record struct {
	DaysScheduled int     `json:"days_scheduled"`
	ShippingMode  int     `json:"shipping_mode"`
	OrderRegion   int     `json:"order_region"`
	Sales         float64 `json:"sales"`
	Quantity      int     `json:"quantity"`
	Market        int     `json:"market"`
}

// Encode validates the input and maps every label to its training code.
// All rejected fields are reported together as ValidationErrors.
func (in ShipmentInput) Encode() (Record, error) {
	var errs ValidationErrors
	rec := Record{
		DaysScheduled: in.DaysScheduled,
		Sales:         in.Sales,
		Quantity:      in.Quantity,
	}

	if in.DaysScheduled < MinDaysScheduled || in.DaysScheduled > MaxDaysScheduled {
		errs = append(errs, FieldError{FieldDaysScheduled,
			fmt.Sprintf("must be between %d and %d", MinDaysScheduled, MaxDaysScheduled)})
	}

	if code, err := EncodeShippingMode(in.ShippingMode); err != nil {
		errs = append(errs, FieldError{FieldShippingMode, fmt.Sprintf("unknown shipping mode %q", in.ShippingMode)})
	} else {
		rec.ShippingMode = code
	}

	switch {
	case in.OrderRegionID != nil:
		id := *in.OrderRegionID
		if id < MinRegionID || id > MaxRegionID {
			errs = append(errs, FieldError{FieldOrderRegionID,
				fmt.Sprintf("must be between %d and %d", MinRegionID, MaxRegionID)})
		} else {
			rec.OrderRegion = id
		}
	default:
		if code, err := EncodeRegion(in.OrderRegion); err != nil {
			errs = append(errs, FieldError{FieldOrderRegion, fmt.Sprintf("unknown order region %q", in.OrderRegion)})
		} else {
			rec.OrderRegion = code
		}
	}

	if math.IsNaN(in.Sales) || math.IsInf(in.Sales, 0) || in.Sales < 0 {
		errs = append(errs, FieldError{FieldSales, "must be a non-negative amount"})
	}

	if in.Quantity < MinQuantity {
		errs = append(errs, FieldError{FieldQuantity, fmt.Sprintf("must be at least %d", MinQuantity)})
	}

	if code, err := EncodeMarket(in.Market); err != nil {
		errs = append(errs, FieldError{FieldMarket, fmt.Sprintf("unknown market %q", in.Market)})
	} else {
		rec.Market = code
	}

	if len(errs) > 0 {
		return Record{}, errs
	}
	return rec, nil
}

// Feature identifies one column of the inference row
type Feature int

// Columns known to the classifier, in the default training order
const (
	FeatureDaysScheduled Feature = iota
	FeatureShippingMode
	FeatureOrderRegion
	FeatureSales
	FeatureQuantity
	FeatureMarket
)

var featureNames = map[Feature]string{
	FeatureDaysScheduled: "Days for shipment (scheduled)",
	FeatureShippingMode:  "Shipping Mode",
	FeatureOrderRegion:   "Order Region",
	FeatureSales:         "Sales",
	FeatureQuantity:      "Order Item Quantity",
	FeatureMarket:        "Market",
}

// DefaultFeatures is the six-column layout used when the artifact names none
var DefaultFeatures = []Feature{
	FeatureDaysScheduled,
	FeatureShippingMode,
	FeatureOrderRegion,
	FeatureSales,
	FeatureQuantity,
	FeatureMarket,
}

// String returns the training column name
func (f Feature) String() string {
	if name, ok := featureNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Feature(%d)", int(f))
}

// ParseFeature maps a training column name to a Feature
func ParseFeature(name string) (Feature, error) {
	for f, n := range featureNames {
		if n == name {
			return f, nil
		}
	}
	return 0, EncodingError(fmt.Sprintf("feature %q", name), ErrUnknownLabel)
}

// Value returns the record's value for a column
func (r Record) Value(f Feature) float64 {
	switch f {
	case FeatureDaysScheduled:
		return float64(r.DaysScheduled)
	case FeatureShippingMode:
		return float64(r.ShippingMode)
	case FeatureOrderRegion:
		return float64(r.OrderRegion)
	case FeatureSales:
		return r.Sales
	case FeatureQuantity:
		return float64(r.Quantity)
	case FeatureMarket:
		return float64(r.Market)
	}
	return 0
}

// Vector lays the record out as one row in the given column order
func (r Record) Vector(layout []Feature) []float64 {
	row := make([]float64, len(layout))
	for i, f := range layout {
		row[i] = r.Value(f)
	}
	return row
}
