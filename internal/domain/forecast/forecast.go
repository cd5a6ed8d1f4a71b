// Package forecast predicts 7-day medicine demand from sales history
// using per-medicine linear regression.
package forecast

import (
	"math"
	"sort"
	"time"

	"medistock/internal/core/id"
)

// Recommendation values.
const (
	RecommendReorder    = "reorder"
	RecommendSufficient = "sufficient"
)

// MinDataPoints is the minimum sales history required per medicine.
const MinDataPoints = 3

// ReorderThreshold: predicted weekly demand above it triggers a
// reorder recommendation.
const ReorderThreshold = 10.0

// MaxConfidence caps the reported confidence score.
const MaxConfidence = 0.95

// SalePoint is one day's sold quantity for a medicine.
type SalePoint struct {
	Date     time.Time `json:"date"`
	Quantity int       `json:"quantity"`
}

// MedicineSales is the sales history of one medicine.
type MedicineSales struct {
	MedicineID   id.ID       `json:"medicineId"`
	MedicineName string      `json:"medicineName"`
	Points       []SalePoint `json:"points"`
}

// Prediction is the demand forecast for one medicine.
type Prediction struct {
	MedicineID      id.ID   `json:"medicineId"`
	MedicineName    string  `json:"medicineName"`
	PredictedDemand float64 `json:"predictedDemand"`
	Confidence      float64 `json:"confidence"`
	Recommendation  string  `json:"recommendation"`
}

// PredictDemand forecasts average daily demand over the next 7 days for
// each medicine with enough history. Results are sorted by predicted
// demand, highest first.
func PredictDemand(sales []MedicineSales) []Prediction {
	predictions := make([]Prediction, 0, len(sales))

	for _, ms := range sales {
		p, ok := predictOne(ms)
		if !ok {
			continue
		}
		predictions = append(predictions, p)
	}

	sort.Slice(predictions, func(i, j int) bool {
		return predictions[i].PredictedDemand > predictions[j].PredictedDemand
	})

	return predictions
}

func predictOne(ms MedicineSales) (Prediction, bool) {
	if len(ms.Points) < MinDataPoints {
		return Prediction{}, false
	}

	points := make([]SalePoint, len(ms.Points))
	copy(points, ms.Points)
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })

	// Days since the first sale form the x axis.
	origin := points[0].Date
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.Date.Sub(origin).Hours() / 24
		ys[i] = float64(p.Quantity)
	}

	slope, intercept, r2 := fitLinear(xs, ys)

	// Average the projections for the next 7 days after the last sale.
	lastDay := xs[len(xs)-1]
	var sum float64
	for d := 1; d <= 7; d++ {
		sum += intercept + slope*(lastDay+float64(d))
	}
	demand := sum / 7
	if demand < 0 {
		demand = 0
	}

	confidence := r2
	if confidence > MaxConfidence {
		confidence = MaxConfidence
	}
	if confidence < 0 {
		confidence = 0
	}

	recommendation := RecommendSufficient
	if demand > ReorderThreshold {
		recommendation = RecommendReorder
	}

	return Prediction{
		MedicineID:      ms.MedicineID,
		MedicineName:    ms.MedicineName,
		PredictedDemand: round2(demand),
		Confidence:      round2(confidence),
		Recommendation:  recommendation,
	}, true
}

// fitLinear computes ordinary least squares y = intercept + slope*x and
// the coefficient of determination.
func fitLinear(xs, ys []float64) (slope, intercept, r2 float64) {
	n := float64(len(xs))

	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX := sumX / n
	meanY := sumY / n

	var sxx, sxy float64
	for i := range xs {
		dx := xs[i] - meanX
		sxx += dx * dx
		sxy += dx * (ys[i] - meanY)
	}

	if sxx == 0 {
		// All sales on the same day: flat line at the mean.
		return 0, meanY, 0
	}

	slope = sxy / sxx
	intercept = meanY - slope*meanX

	var ssRes, ssTot float64
	for i := range xs {
		pred := intercept + slope*xs[i]
		ssRes += (ys[i] - pred) * (ys[i] - pred)
		dy := ys[i] - meanY
		ssTot += dy * dy
	}

	if ssTot == 0 {
		// Constant quantities fit perfectly.
		return slope, intercept, 1
	}

	return slope, intercept, 1 - ssRes/ssTot
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
