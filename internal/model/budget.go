package model

// Trend classifies the direction of recent spending relative to history.
type Trend string

const (
	TrendIncreasing       Trend = "increasing"
	TrendDecreasing       Trend = "decreasing"
	TrendStable           Trend = "stable"
	TrendInsufficientData Trend = "insufficient_data"
)

// SpendingAnalysis is the output of pattern analysis over a transaction
// history. Maps are keyed by "YYYY-MM" month labels and category keys;
// seasonal patterns are keyed by three-letter month names.
type SpendingAnalysis struct {
	MonthlySpending  map[string]float64 `json:"monthly_spending"`
	CategorySpending map[string]float64 `json:"category_spending"`
	Trend            Trend              `json:"trend"`
	SeasonalPatterns map[string]float64 `json:"seasonal_patterns"`
	MonthlyAverage   float64            `json:"monthly_average"`
	MonthsObserved   int                `json:"months_observed"`
}

// MonthPrediction is a single forward month in a budget forecast.
type MonthPrediction struct {
	Month                string  `json:"month"` // "YYYY-MM"
	PredictedAmountCents int64   `json:"predicted_amount_cents"`
	PredictedAmount      float64 `json:"predicted_amount"`
	Confidence           float64 `json:"confidence"`
}

// BudgetForecast is the full prediction batch. Source records which path
// produced the figures ("rule_based" or "gemini"); the rule-based path is the
// correctness contract and is always available as a fallback.
type BudgetForecast struct {
	Predictions      []MonthPrediction `json:"predictions"`
	Confidence       float64           `json:"confidence"`
	Recommendations  []string          `json:"recommendations,omitempty"`
	Source           string            `json:"source"`
	InsufficientData bool              `json:"insufficient_data,omitempty"`
}
