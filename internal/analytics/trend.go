package analytics

import "math"

type TrendClassification string

const (
	TrendUp               TrendClassification = "up"
	TrendDown             TrendClassification = "down"
	TrendFlat             TrendClassification = "flat"
	TrendInsufficientData TrendClassification = "insufficient_data"
)

// minPointsForFit is the minimum number of sessions needed before a trend
// fit is attempted at all.
const minPointsForFit = 3

// TrendResult is a least-squares line over a progress series plus a coarse
// direction label. Slope and intercept are on the session-index scale.
type TrendResult struct {
	Slope          float64             `json:"slope"`
	Intercept      float64             `json:"intercept"`
	Classification TrendClassification `json:"classification"`
	ChangePercent  *float64            `json:"changePercent"`
}

// FitTrend fits ordinary least squares to (index, value) pairs, index being
// the chronological session number. Session cadence is irregular, so fitting
// on calendar dates would let long gaps dominate the fit; index-based
// regression weighs every session equally on purpose.
//
// ChangePercent compares the fitted line's endpoints rather than the raw
// first/last samples, which keeps a single outlier session from swinging
// the classification.
func FitTrend(points []ProgressPoint) TrendResult {
	if len(points) < minPointsForFit {
		return TrendResult{
			Classification: TrendInsufficientData,
		}
	}

	n := float64(len(points))
	var sumX, sumY, sumXY, sumX2 float64
	for i, p := range points {
		x := float64(i)
		sumX += x
		sumY += p.Value
		sumXY += x * p.Value
		sumX2 += x * x
	}

	var slope, intercept float64
	denom := n*sumX2 - sumX*sumX
	if math.Abs(denom) < 1e-10 {
		intercept = sumY / n
	} else {
		slope = (n*sumXY - sumX*sumY) / denom
		intercept = (sumY - slope*sumX) / n
	}

	result := TrendResult{
		Slope:     slope,
		Intercept: intercept,
	}

	firstFitted := intercept
	lastFitted := intercept + slope*(n-1)
	if firstFitted == 0 {
		// no baseline to compare against, classify on the slope sign alone
		result.Classification = classifySlope(slope)
		return result
	}

	changePercent := (lastFitted - firstFitted) / firstFitted * 100
	result.ChangePercent = &changePercent

	switch {
	case changePercent > progressionThresholdPercent:
		result.Classification = TrendUp
	case changePercent < -progressionThresholdPercent:
		result.Classification = TrendDown
	default:
		result.Classification = TrendFlat
	}

	return result
}

func classifySlope(slope float64) TrendClassification {
	switch {
	case slope > 0:
		return TrendUp
	case slope < 0:
		return TrendDown
	default:
		return TrendFlat
	}
}
