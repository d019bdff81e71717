// Package stats holds the numeric primitives behind every insight:
// trailing moving average, least-squares trend, z-score outliers and
// exponential smoothing. All functions are pure and expect chronological
// input; nothing here re-sorts.
package stats

import "math"

const (
	DefaultWindowSize = 3
	DefaultThreshold  = 2.0
	DefaultAlpha      = 0.3

	// trendSlopeThreshold is an absolute slope per step and is not scaled to
	// the magnitude of the series.
	trendSlopeThreshold = 0.1

	minTrendPoints   = 2
	minAnomalyPoints = 3
)

type Trend string

const (
	TrendIncreasing       Trend = "increasing"
	TrendDecreasing       Trend = "decreasing"
	TrendStable           Trend = "stable"
	TrendInsufficientData Trend = "insufficient data"
)

type Anomaly struct {
	Index  int
	Value  float64
	ZScore float64
}

// MovingAverage returns, for every index i, the mean of
// data[max(0, i-windowSize+1) .. i]. The window narrows at the start.
func MovingAverage(data []float64, windowSize int) []float64 {
	if len(data) == 0 {
		return nil
	}
	if windowSize < 1 {
		windowSize = 1
	}

	out := make([]float64, len(data))
	for i := range data {
		start := max(0, i-windowSize+1)
		sum := 0.0
		for _, v := range data[start : i+1] {
			sum += v
		}
		out[i] = sum / float64(i-start+1)
	}
	return out
}

// Slope fits y = a + b*x by ordinary least squares with x = 0..n-1 and
// returns b. Fewer than two points yield 0.
func Slope(data []float64) float64 {
	n := float64(len(data))
	if len(data) < minTrendPoints {
		return 0
	}

	var sumX, sumY, sumXY, sumX2 float64
	for i, y := range data {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}

	denominator := n*sumX2 - sumX*sumX
	if denominator == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denominator
}

func DetectTrend(data []float64) Trend {
	if len(data) < minTrendPoints {
		return TrendInsufficientData
	}

	slope := Slope(data)
	switch {
	case slope > trendSlopeThreshold:
		return TrendIncreasing
	case slope < -trendSlopeThreshold:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

// MeanStdDev returns the population mean and standard deviation (divide by n).
func MeanStdDev(data []float64) (mean, stdDev float64) {
	if len(data) == 0 {
		return 0, 0
	}

	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	var variance float64
	for _, v := range data {
		d := v - mean
		variance += d * d
	}
	return mean, math.Sqrt(variance / float64(len(data)))
}

// DetectAnomalies flags values whose absolute z-score is greater than or
// equal to threshold, so a point sitting exactly on the threshold counts.
// Series shorter than three points or with zero variance have no anomalies.
func DetectAnomalies(data []float64, threshold float64) []Anomaly {
	anomalies := []Anomaly{}
	if len(data) < minAnomalyPoints {
		return anomalies
	}

	mean, stdDev := MeanStdDev(data)
	if !(stdDev > 0) {
		return anomalies
	}

	for i, v := range data {
		z := math.Abs(v-mean) / stdDev
		if z >= threshold {
			anomalies = append(anomalies, Anomaly{Index: i, Value: v, ZScore: z})
		}
	}
	return anomalies
}

// PredictNext smooths data exponentially and extends it by periods values.
//
// The continuation feeds each prediction back as both the observation and the
// prior smoothed value, so every forecast period repeats the last smoothed
// value. Downstream consumers rely on these numbers; a trend-aware method
// (double exponential smoothing) would change them.
func PredictNext(data []float64, periods int, alpha float64) []float64 {
	if len(data) == 0 || periods < 1 {
		return nil
	}

	smoothed := data[0]
	for _, v := range data[1:] {
		smoothed = alpha*v + (1-alpha)*smoothed
	}

	predictions := make([]float64, 0, periods)
	last := smoothed
	predictions = append(predictions, last)
	for i := 1; i < periods; i++ {
		last = alpha*last + (1-alpha)*last
		predictions = append(predictions, last)
	}
	return predictions
}

// Finite reports whether none of values is NaN or ±Inf.
func Finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
