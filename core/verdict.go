package core

import (
	"fmt"
	"math"
)

// Class labels produced by the classifier
const (
	LabelOnTime = 0
	LabelLate   = 1
)

// RiskBand is the narrative bucket of a late-delivery probability.
// It is display-only and never changes the predicted label.
type RiskBand string

const (
	BandSafe     RiskBand = "safe"
	BandCaution  RiskBand = "caution"
	BandHighRisk RiskBand = "high_risk"
)

// Band thresholds on the late-delivery probability
const (
	CautionThreshold  = 0.30
	HighRiskThreshold = 0.60
)

// BandFor buckets a late-delivery probability: below 30% safe, 30% to 60% caution, above 60% high risk
func BandFor(lateProbability float64) RiskBand {
	switch {
	case lateProbability < CautionThreshold:
		return BandSafe
	case lateProbability <= HighRiskThreshold:
		return BandCaution
	default:
		return BandHighRisk
	}
}

// Title is the short heading for the band
func (b RiskBand) Title() string {
	switch b {
	case BandSafe:
		return "Safe"
	case BandCaution:
		return "Caution"
	case BandHighRisk:
		return "High risk"
	}
	return string(b)
}

// Narrative is the explanatory text shown under the verdict
func (b RiskBand) Narrative() string {
	switch b {
	case BandSafe:
		return "Late-delivery risk is below 30%. The shipment is expected to arrive inside its scheduled window."
	case BandCaution:
		return "Late-delivery risk is between 30% and 60%. Keep an eye on this order and consider a faster shipping mode."
	case BandHighRisk:
		return "Late-delivery risk is above 60%. Expect a delay: upgrade the shipping mode or warn the customer early."
	}
	return ""
}

// Verdict is the predicted label together with its displayed probabilities
type Verdict struct {
	Label             int      `json:"label"`
	Late              bool     `json:"late"`
	LateProbability   float64  `json:"late_probability"`
	OnTimeProbability float64  `json:"on_time_probability"`
	LatePercent       float64  `json:"late_percent"`
	OnTimePercent     float64  `json:"on_time_percent"`
	Band              RiskBand `json:"band"`
}

// Evaluate builds a verdict from the classifier's label and class probabilities.
// Probabilities are normalised; the displayed percentages always sum to 100.
func Evaluate(label int, proba [2]float64) (Verdict, error) {
	if label != LabelOnTime && label != LabelLate {
		return Verdict{}, InferenceError(fmt.Sprintf("unexpected class label %d", label), nil)
	}
	for _, p := range proba {
		if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
			return Verdict{}, InferenceError(fmt.Sprintf("invalid class probabilities %v", proba), nil)
		}
	}
	total := proba[0] + proba[1]
	if total <= 0 {
		return Verdict{}, InferenceError(fmt.Sprintf("invalid class probabilities %v", proba), nil)
	}

	late := proba[1] / total
	latePct := roundPercent(late * 100)
	onTimePct := roundPercent(100 - latePct)

	return Verdict{
		Label:             label,
		Late:              label == LabelLate,
		LateProbability:   late,
		OnTimeProbability: 1 - late,
		LatePercent:       latePct,
		OnTimePercent:     onTimePct,
		Band:              BandFor(late),
	}, nil
}

// Percent is the probability shown with the verdict branch
func (v Verdict) Percent() float64 {
	if v.Late {
		return v.LatePercent
	}
	return v.OnTimePercent
}

// Headline renders the verdict line with two decimals
func (v Verdict) Headline() string {
	if v.Late {
		return fmt.Sprintf("⚠️ LATE DELIVERY RISK: %.2f%%", v.LatePercent)
	}
	return fmt.Sprintf("✅ ON TIME: %.2f%%", v.OnTimePercent)
}

func roundPercent(p float64) float64 {
	return math.Round(p*100) / 100
}
