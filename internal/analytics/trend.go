package analytics

import (
	"math"
	"strconv"
	"time"

	"github.com/AngelCh415/outreach-analytics/internal/models"
)

// StableSlope is the |slope| below which a trend is reported as stable.
const StableSlope = 0.5

// LinearRegression fits y = slope*x + intercept by ordinary least squares with
// x = 0..n-1.
func LinearRegression(series []float64) models.TrendModel {
	n := len(series)
	if n < 2 {
		m := models.TrendModel{}
		if n == 1 {
			m.Intercept = series[0]
		}
		m.Direction = Direction(m)
		return m
	}

	meanX := float64(n-1) / 2
	var meanY float64
	for _, y := range series {
		meanY += y
	}
	meanY /= float64(n)

	var ssXY, ssXX, ssYY float64
	for i, y := range series {
		dx := float64(i) - meanX
		dy := y - meanY
		ssXY += dx * dy
		ssXX += dx * dx
		ssYY += dy * dy
	}

	var slope, r2 float64
	if ssXX != 0 {
		slope = ssXY / ssXX
	}
	if ssXX != 0 && ssYY != 0 {
		r2 = (ssXY * ssXY) / (ssXX * ssYY)
	}
	m := models.TrendModel{Slope: slope, Intercept: meanY - slope*meanX, R2: r2}
	m.Direction = Direction(m)
	return m
}

// Direction classifies a fitted trend; the same rule is used by every consumer.
func Direction(m models.TrendModel) models.Direction {
	switch {
	case math.Abs(m.Slope) < StableSlope:
		return models.DirectionStable
	case m.Slope > 0:
		return models.DirectionUp
	default:
		return models.DirectionDown
	}
}

// PredictFuture extrapolates the fitted line for the next periods, floored at 0.
func PredictFuture(series []float64, periods int) []float64 {
	if periods <= 0 {
		return []float64{}
	}
	m := LinearRegression(series)
	n := len(series)
	out := make([]float64, periods)
	for i := range out {
		out[i] = math.Max(0, m.Slope*float64(n+i)+m.Intercept)
	}
	return out
}

func zScore(confidence float64) float64 {
	switch confidence {
	case 0.95:
		return 1.96
	case 0.99:
		return 2.576
	}
	return 1.645
}

// ConfidenceIntervalOf describes the spread of the historical series around its
// mean. It is not a prediction interval.
func ConfidenceIntervalOf(series []float64, confidence float64) models.ConfidenceInterval {
	n := len(series)
	if n == 0 {
		return models.ConfidenceInterval{}
	}
	var mean float64
	for _, v := range series {
		mean += v
	}
	mean /= float64(n)

	var variance float64
	for _, v := range series {
		variance += (v - mean) * (v - mean)
	}
	stdDev := math.Sqrt(variance / float64(n))
	margin := zScore(confidence) * stdDev / math.Sqrt(float64(n))
	return models.ConfidenceInterval{Lower: mean - margin, Upper: mean + margin, Mean: mean}
}

// Forecast pairs PredictFuture with the historical margin. lastPeriod labels the
// periods: an ISO date advances a week per step, anything else yields "+N".
func Forecast(series []float64, periods int, confidence float64, lastPeriod string) []models.ForecastPoint {
	preds := PredictFuture(series, periods)
	ci := ConfidenceIntervalOf(series, confidence)
	margin := ci.Upper - ci.Mean

	last, err := time.Parse("2006-01-02", lastPeriod)
	out := make([]models.ForecastPoint, 0, len(preds))
	for i, p := range preds {
		label := "+" + strconv.Itoa(i+1)
		if err == nil {
			label = last.AddDate(0, 0, 7*(i+1)).Format("2006-01-02")
		}
		out = append(out, models.ForecastPoint{
			Period:         label,
			PredictedValue: p,
			LowerBound:     math.Max(0, p-margin),
			UpperBound:     p + margin,
		})
	}
	return out
}
