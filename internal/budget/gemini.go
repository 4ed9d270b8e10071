package budget

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/taaxdog/backend/internal/model"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// enrichmentTimeout is the single hard timeout for one enrichment attempt.
// There is no retry here; retries belong to the calling orchestration layer.
const enrichmentTimeout = 30 * time.Second

// GeminiForecaster decorates a baseline Forecaster with Gemini-adjusted
// figures. The baseline forecast is computed first and is always the result
// on any enrichment failure, timeout or implausible response.
type GeminiForecaster struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	fallback   Forecaster
}

// NewGeminiForecaster wraps fallback with Gemini enrichment. An empty apiKey
// disables enrichment entirely; the decorator then passes through.
func NewGeminiForecaster(apiKey string, fallback Forecaster) *GeminiForecaster {
	return &GeminiForecaster{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: enrichmentTimeout,
		},
		baseURL:  defaultGeminiBaseURL,
		fallback: fallback,
	}
}

// geminiForecastResponse is the JSON shape requested from the model.
type geminiForecastResponse struct {
	Predictions []struct {
		Month           string  `json:"month"`
		PredictedAmount float64 `json:"predicted_amount"`
		Confidence      float64 `json:"confidence"`
	} `json:"predictions"`
	Recommendations []string `json:"recommendations"`
}

// Forecast computes the rule-based baseline, then attempts a single bounded
// enrichment call. The baseline is returned untouched when enrichment fails.
func (g *GeminiForecaster) Forecast(ctx context.Context, txns []*model.Transaction, monthsAhead int) (*model.BudgetForecast, error) {
	base, err := g.fallback.Forecast(ctx, txns, monthsAhead)
	if err != nil || base == nil || base.InsufficientData || g.apiKey == "" {
		return base, err
	}

	enrichCtx, cancel := context.WithTimeout(ctx, enrichmentTimeout)
	defer cancel()

	enriched, enrichErr := g.enrich(enrichCtx, txns, base)
	if enrichErr != nil {
		log.Printf("[BudgetForecast] enrichment failed, using rule-based baseline: %v", enrichErr)
		return base, nil
	}
	return enriched, nil
}

func (g *GeminiForecaster) enrich(ctx context.Context, txns []*model.Transaction, base *model.BudgetForecast) (*model.BudgetForecast, error) {
	history := summarizeHistory(txns)
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return nil, &EnrichmentError{Code: ErrEnrichmentBadResponse, Message: "marshal history", Cause: err}
	}
	baseJSON, err := json.Marshal(base.Predictions)
	if err != nil {
		return nil, &EnrichmentError{Code: ErrEnrichmentBadResponse, Message: "marshal baseline", Cause: err}
	}

	prompt := fmt.Sprintf(`You are a personal-finance forecasting assistant for an Australian household.
Given the monthly spending history and a rule-based baseline forecast, adjust the
forecast for seasonality and obvious one-off months, and add short practical
recommendations.

Rules:
- Keep every month from the baseline; same "month" keys, "YYYY-MM" format.
- predicted_amount is in dollars and must stay within 50%%-200%% of the baseline month.
- confidence is 0.0-1.0 per month.
- Return JSON only:
{"predictions": [{"month": "YYYY-MM", "predicted_amount": 0.0, "confidence": 0.0}], "recommendations": ["..."]}

Monthly history:
%s

Baseline forecast:
%s`, string(historyJSON), string(baseJSON))

	parsed, err := g.callGemini(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return mergeEnrichment(base, parsed)
}

// mergeEnrichment validates the model output against the baseline and builds
// the enriched forecast. Any gap or implausible figure rejects the whole
// response so the caller falls back.
func mergeEnrichment(base *model.BudgetForecast, resp *geminiForecastResponse) (*model.BudgetForecast, error) {
	if len(resp.Predictions) != len(base.Predictions) {
		return nil, &EnrichmentError{
			Code:    ErrEnrichmentBadResponse,
			Message: fmt.Sprintf("expected %d months, got %d", len(base.Predictions), len(resp.Predictions)),
		}
	}
	byMonth := make(map[string]struct {
		amount     float64
		confidence float64
	}, len(resp.Predictions))
	for _, p := range resp.Predictions {
		byMonth[p.Month] = struct {
			amount     float64
			confidence float64
		}{p.PredictedAmount, p.Confidence}
	}

	predictions := make([]model.MonthPrediction, 0, len(base.Predictions))
	for _, bp := range base.Predictions {
		p, ok := byMonth[bp.Month]
		if !ok {
			return nil, &EnrichmentError{Code: ErrEnrichmentBadResponse, Message: "missing month " + bp.Month}
		}
		if p.amount < bp.PredictedAmount*0.5 || p.amount > bp.PredictedAmount*2.0 {
			return nil, &EnrichmentError{
				Code:    ErrEnrichmentBadResponse,
				Message: fmt.Sprintf("implausible amount %.2f for %s", p.amount, bp.Month),
			}
		}
		conf := p.confidence
		if conf <= 0 || conf > 1 {
			conf = ruleBasedConfidence
		}
		cents := int64(math.Round(p.amount * 100))
		predictions = append(predictions, model.MonthPrediction{
			Month:                bp.Month,
			PredictedAmountCents: cents,
			PredictedAmount:      float64(cents) / 100.0,
			Confidence:           conf,
		})
	}

	recs := resp.Recommendations
	if len(recs) == 0 {
		recs = base.Recommendations
	}
	return &model.BudgetForecast{
		Predictions:     predictions,
		Confidence:      base.Confidence,
		Recommendations: recs,
		Source:          "gemini",
	}, nil
}

// callGemini posts a text prompt in JSON-response mode and decodes the typed
// forecast out of the first candidate.
func (g *GeminiForecaster) callGemini(ctx context.Context, prompt string) (*geminiForecastResponse, error) {
	url := fmt.Sprintf("%s/models/gemini-2.0-flash:generateContent?key=%s", g.baseURL, g.apiKey)

	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]interface{}{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature":      0.2,
			"maxOutputTokens":  2048,
			"responseMimeType": "application/json",
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, &EnrichmentError{Code: ErrEnrichmentBadResponse, Message: "marshal request", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, &EnrichmentError{Code: ErrEnrichmentUnavailable, Message: "create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		code := ErrEnrichmentUnavailable
		if ctx.Err() == context.DeadlineExceeded {
			code = ErrEnrichmentTimeout
		}
		return nil, &EnrichmentError{Code: code, Message: "Gemini API call failed", Cause: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &EnrichmentError{Code: ErrEnrichmentUnavailable, Message: "read response", Cause: err}
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &EnrichmentError{Code: ErrEnrichmentRateLimited, Message: "Gemini quota exhausted"}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &EnrichmentError{
			Code:    ErrEnrichmentUnavailable,
			Message: fmt.Sprintf("Gemini API error %d: %s", resp.StatusCode, string(respBody)),
		}
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(respBody, &geminiResp); err != nil {
		return nil, &EnrichmentError{Code: ErrEnrichmentBadResponse, Message: "parse Gemini response", Cause: err}
	}
	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return nil, &EnrichmentError{Code: ErrEnrichmentBadResponse, Message: "empty Gemini response"}
	}

	text := geminiResp.Candidates[0].Content.Parts[0].Text
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var parsed geminiForecastResponse
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, &EnrichmentError{Code: ErrEnrichmentBadResponse, Message: "parse forecast JSON", Cause: err}
	}
	return &parsed, nil
}

// summarizeHistory compresses the transaction list into monthly totals for
// the prompt; raw transactions never leave the process.
func summarizeHistory(txns []*model.Transaction) map[string]float64 {
	monthly := make(map[string]float64)
	for _, t := range txns {
		if t == nil || t.Direction != model.DirectionDebit || t.Date.IsZero() {
			continue
		}
		monthly[t.Date.Format(monthKeyFormat)] += t.Dollars()
	}
	return monthly
}
