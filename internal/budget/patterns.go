// Package budget analyzes spending history and produces forward budget
// forecasts. The rule-based path is pure and deterministic; an optional
// Gemini-backed Forecaster decorates it with narrative-adjusted figures but
// always falls back to the rule-based baseline on failure.
package budget

import (
	"sort"
	"time"

	"github.com/taaxdog/backend/internal/model"
	"github.com/taaxdog/backend/internal/tax"
)

const monthKeyFormat = "2006-01"

// trend thresholds: recent three-month mean vs prior mean.
const (
	trendUpFactor   = 1.1
	trendDownFactor = 0.9
)

// Analyzer buckets transactions by month and category and classifies the
// spending trend.
type Analyzer struct {
	engine *tax.Engine
}

// NewAnalyzer creates an Analyzer that uses the engine to resolve category
// keys for grouping.
func NewAnalyzer(engine *tax.Engine) *Analyzer {
	return &Analyzer{engine: engine}
}

// AnalyzePatterns buckets debit transactions by (year, month) and category
// and derives trend and seasonality. With fewer than two observed months the
// trend is insufficient_data; the analyzer never guesses.
func (a *Analyzer) AnalyzePatterns(txns []*model.Transaction) *model.SpendingAnalysis {
	monthly := make(map[string]float64)
	byCategory := make(map[string]float64)
	byCalendarMonth := make(map[string][]float64)

	for _, t := range txns {
		if t == nil || t.Direction != model.DirectionDebit || t.Date.IsZero() {
			continue
		}
		amount := t.Dollars()
		key := t.Date.Format(monthKeyFormat)
		monthly[key] += amount

		result := a.engine.Categorize(t, nil)
		byCategory[string(result.Category)] += amount
	}

	months := sortedMonthKeys(monthly)
	for _, m := range months {
		parsed, err := time.Parse(monthKeyFormat, m)
		if err != nil {
			continue
		}
		name := parsed.Month().String()[:3]
		byCalendarMonth[name] = append(byCalendarMonth[name], monthly[m])
	}

	analysis := &model.SpendingAnalysis{
		MonthlySpending:  monthly,
		CategorySpending: byCategory,
		Trend:            classifyTrend(months, monthly),
		SeasonalPatterns: seasonalIndex(byCalendarMonth, monthly, months),
		MonthsObserved:   len(months),
	}
	if len(months) > 0 {
		var total float64
		for _, m := range months {
			total += monthly[m]
		}
		analysis.MonthlyAverage = total / float64(len(months))
	}
	return analysis
}

// classifyTrend compares the mean of the most recent three months against
// the mean of everything before them.
func classifyTrend(months []string, monthly map[string]float64) model.Trend {
	if len(months) < 2 {
		return model.TrendInsufficientData
	}
	recentStart := len(months) - 3
	if recentStart < 1 {
		recentStart = 1
	}
	var recentSum, priorSum float64
	for _, m := range months[recentStart:] {
		recentSum += monthly[m]
	}
	for _, m := range months[:recentStart] {
		priorSum += monthly[m]
	}
	recent := recentSum / float64(len(months)-recentStart)
	prior := priorSum / float64(recentStart)

	switch {
	// A zero-spend prior period makes any positive recent spend an increase;
	// the ratio test below would call it stable.
	case prior == 0 && recent > 0:
		return model.TrendIncreasing
	case prior > 0 && recent > prior*trendUpFactor:
		return model.TrendIncreasing
	case prior > 0 && recent < prior*trendDownFactor:
		return model.TrendDecreasing
	default:
		return model.TrendStable
	}
}

// seasonalIndex maps three-letter month names to the ratio of that month's
// average spend over the overall monthly average.
func seasonalIndex(byCalendarMonth map[string][]float64, monthly map[string]float64, months []string) map[string]float64 {
	if len(months) == 0 {
		return map[string]float64{}
	}
	var total float64
	for _, m := range months {
		total += monthly[m]
	}
	overall := total / float64(len(months))
	index := make(map[string]float64, len(byCalendarMonth))
	for name, values := range byCalendarMonth {
		var sum float64
		for _, v := range values {
			sum += v
		}
		avg := sum / float64(len(values))
		if overall > 0 {
			index[name] = avg / overall
		}
	}
	return index
}

func sortedMonthKeys(monthly map[string]float64) []string {
	keys := make([]string, 0, len(monthly))
	for k := range monthly {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
