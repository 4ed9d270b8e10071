package budget

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/taaxdog/backend/internal/model"
)

// Forecaster produces a forward budget forecast from a transaction history.
// Implementations must treat an empty history as an insufficient-data result,
// not an error.
type Forecaster interface {
	Forecast(ctx context.Context, txns []*model.Transaction, monthsAhead int) (*model.BudgetForecast, error)
}

const (
	// monthlyGrowthRate is the flat growth assumption of the rule-based
	// forecast: predicted(i) = monthlyAverage * (1 + 0.02*i).
	monthlyGrowthRate = 0.02
	// ruleBasedConfidence is the fixed per-month confidence of the
	// rule-based path.
	ruleBasedConfidence = 0.7

	// Batch-confidence saturation points.
	adequateTransactionCount = 50
	adequateRangeDays        = 90
	// consistencyPlaceholder stands in for a data-consistency measure; the
	// batch confidence is a simplification, not a statistical interval.
	consistencyPlaceholder = 0.8
)

// RuleBasedForecaster is the deterministic baseline forecaster and the
// correctness contract for prediction: every other Forecaster must fall back
// to its output.
type RuleBasedForecaster struct {
	analyzer *Analyzer
}

// NewRuleBasedForecaster creates the baseline forecaster.
func NewRuleBasedForecaster(analyzer *Analyzer) *RuleBasedForecaster {
	return &RuleBasedForecaster{analyzer: analyzer}
}

// Forecast projects monthsAhead months forward from the monthly average with
// a flat 2% growth per month and fixed 0.7 confidence. It never fails on
// content: an empty or single-dated history yields InsufficientData.
func (f *RuleBasedForecaster) Forecast(_ context.Context, txns []*model.Transaction, monthsAhead int) (*model.BudgetForecast, error) {
	if monthsAhead <= 0 {
		monthsAhead = 3
	}
	analysis := f.analyzer.AnalyzePatterns(txns)
	if analysis.MonthsObserved == 0 {
		return &model.BudgetForecast{
			Source:           "rule_based",
			InsufficientData: true,
		}, nil
	}

	lastMonth := latestMonth(analysis.MonthlySpending)
	predictions := make([]model.MonthPrediction, 0, monthsAhead)
	for i := 1; i <= monthsAhead; i++ {
		amount := analysis.MonthlyAverage * (1 + monthlyGrowthRate*float64(i))
		cents := int64(math.Round(amount * 100))
		predictions = append(predictions, model.MonthPrediction{
			Month:                lastMonth.AddDate(0, i, 0).Format(monthKeyFormat),
			PredictedAmountCents: cents,
			PredictedAmount:      float64(cents) / 100.0,
			Confidence:           ruleBasedConfidence,
		})
	}

	return &model.BudgetForecast{
		Predictions:     predictions,
		Confidence:      batchConfidence(txns),
		Recommendations: recommendations(analysis),
		Source:          "rule_based",
	}, nil
}

// batchConfidence averages transaction-count adequacy, date-range adequacy
// and the fixed consistency placeholder, each in [0, 1].
func batchConfidence(txns []*model.Transaction) float64 {
	countScore := math.Min(float64(len(txns))/adequateTransactionCount, 1.0)

	var earliest, latest time.Time
	for _, t := range txns {
		if t == nil || t.Date.IsZero() {
			continue
		}
		if earliest.IsZero() || t.Date.Before(earliest) {
			earliest = t.Date
		}
		if latest.IsZero() || t.Date.After(latest) {
			latest = t.Date
		}
	}
	var rangeScore float64
	if !earliest.IsZero() {
		days := latest.Sub(earliest).Hours() / 24
		rangeScore = math.Min(days/adequateRangeDays, 1.0)
	}

	return (countScore + rangeScore + consistencyPlaceholder) / 3.0
}

func recommendations(analysis *model.SpendingAnalysis) []string {
	var recs []string
	switch analysis.Trend {
	case model.TrendIncreasing:
		recs = append(recs, "Spending is trending up over the last three months; review the largest categories before the quarter closes")
	case model.TrendDecreasing:
		recs = append(recs, "Spending is trending down; consider moving the difference to a savings goal")
	case model.TrendInsufficientData:
		recs = append(recs, "Not enough history for a trend yet; connect more accounts or wait for another month of data")
	}
	if top, amount := topCategory(analysis.CategorySpending); top != "" {
		recs = append(recs, fmt.Sprintf("Largest category is %s at $%.2f across the analyzed period", top, amount))
	}
	return recs
}

func topCategory(byCategory map[string]float64) (string, float64) {
	var best string
	var bestAmount float64
	for cat, amount := range byCategory {
		if amount > bestAmount || (amount == bestAmount && (best == "" || cat < best)) {
			best = cat
			bestAmount = amount
		}
	}
	return best, bestAmount
}

func latestMonth(monthly map[string]float64) time.Time {
	keys := sortedMonthKeys(monthly)
	if len(keys) == 0 {
		return time.Now().UTC()
	}
	t, err := time.Parse(monthKeyFormat, keys[len(keys)-1])
	if err != nil {
		return time.Now().UTC()
	}
	return t
}
