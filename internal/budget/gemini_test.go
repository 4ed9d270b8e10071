package budget

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/taaxdog/backend/internal/model"
)

func geminiHistory() []*model.Transaction {
	return []*model.Transaction{
		monthDebit(2025, time.March, "COLES SUPERMARKET", 30000),
		monthDebit(2025, time.April, "COLES SUPERMARKET", 50000),
	}
}

func geminiEnvelope(text string) string {
	return fmt.Sprintf(`{"candidates":[{"content":{"parts":[{"text":%q}]}}]}`, text)
}

func newTestGemini(t *testing.T, handler http.HandlerFunc) (*GeminiForecaster, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	g := NewGeminiForecaster("test-key", NewRuleBasedForecaster(testAnalyzer()))
	g.baseURL = srv.URL
	return g, srv
}

func TestGeminiForecastSuccess(t *testing.T) {
	// Baseline months are 2025-05..07 at 408/416/424; 350 sits inside the
	// 50%-200% plausibility band for each.
	body := `{"predictions":[` +
		`{"month":"2025-05","predicted_amount":350,"confidence":0.9},` +
		`{"month":"2025-06","predicted_amount":350,"confidence":0.9},` +
		`{"month":"2025-07","predicted_amount":350,"confidence":0.9}],` +
		`"recommendations":["Pack lunches in May"]}`
	g, _ := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, geminiEnvelope(body))
	})

	forecast, err := g.Forecast(context.Background(), geminiHistory(), 3)
	if err != nil {
		t.Fatal(err)
	}
	if forecast.Source != "gemini" {
		t.Fatalf("Source = %q, want gemini", forecast.Source)
	}
	if forecast.Predictions[0].PredictedAmount != 350 {
		t.Errorf("amount = %.2f, want 350", forecast.Predictions[0].PredictedAmount)
	}
	if forecast.Predictions[0].Confidence != 0.9 {
		t.Errorf("confidence = %.2f, want 0.9", forecast.Predictions[0].Confidence)
	}
	if forecast.Recommendations[0] != "Pack lunches in May" {
		t.Errorf("recommendations not taken from enrichment: %v", forecast.Recommendations)
	}
}

func TestGeminiForecastRoundsAmountsToCents(t *testing.T) {
	// 256.03*100 is 25602.999... in floats; the merge must round, not truncate.
	body := `{"predictions":[` +
		`{"month":"2025-05","predicted_amount":256.03,"confidence":0.9},` +
		`{"month":"2025-06","predicted_amount":256.03,"confidence":0.9},` +
		`{"month":"2025-07","predicted_amount":256.03,"confidence":0.9}],` +
		`"recommendations":[]}`
	g, _ := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, geminiEnvelope(body))
	})

	forecast, err := g.Forecast(context.Background(), geminiHistory(), 3)
	if err != nil {
		t.Fatal(err)
	}
	if forecast.Source != "gemini" {
		t.Fatalf("Source = %q, want gemini", forecast.Source)
	}
	for i, p := range forecast.Predictions {
		if p.PredictedAmountCents != 25603 {
			t.Errorf("prediction %d cents = %d, want 25603", i, p.PredictedAmountCents)
		}
		if p.PredictedAmount != 256.03 {
			t.Errorf("prediction %d amount = %v, want 256.03", i, p.PredictedAmount)
		}
	}
}

func TestGeminiForecastServerErrorFallsBack(t *testing.T) {
	g, _ := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	forecast, err := g.Forecast(context.Background(), geminiHistory(), 3)
	if err != nil {
		t.Fatalf("enrichment failure must not surface an error: %v", err)
	}
	if forecast.Source != "rule_based" {
		t.Errorf("Source = %q, want rule_based fallback", forecast.Source)
	}
	if len(forecast.Predictions) != 3 {
		t.Errorf("fallback must carry the baseline predictions, got %d", len(forecast.Predictions))
	}
}

func TestGeminiForecastImplausibleAmountsRejected(t *testing.T) {
	// 5x the baseline breaches the plausibility band; the whole response is
	// rejected and the baseline wins.
	body := `{"predictions":[` +
		`{"month":"2025-05","predicted_amount":2040,"confidence":0.9},` +
		`{"month":"2025-06","predicted_amount":416,"confidence":0.9},` +
		`{"month":"2025-07","predicted_amount":424,"confidence":0.9}],` +
		`"recommendations":[]}`
	g, _ := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, geminiEnvelope(body))
	})

	forecast, err := g.Forecast(context.Background(), geminiHistory(), 3)
	if err != nil {
		t.Fatal(err)
	}
	if forecast.Source != "rule_based" {
		t.Errorf("Source = %q, want rule_based after rejection", forecast.Source)
	}
}

func TestGeminiForecastMalformedJSONFallsBack(t *testing.T) {
	g, _ := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, geminiEnvelope("not json at all"))
	})

	forecast, err := g.Forecast(context.Background(), geminiHistory(), 3)
	if err != nil {
		t.Fatal(err)
	}
	if forecast.Source != "rule_based" {
		t.Errorf("Source = %q, want rule_based fallback", forecast.Source)
	}
}

func TestGeminiForecastSkipsCallOnInsufficientData(t *testing.T) {
	calls := 0
	g, _ := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
	})

	forecast, err := g.Forecast(context.Background(), nil, 3)
	if err != nil {
		t.Fatal(err)
	}
	if !forecast.InsufficientData {
		t.Error("expected insufficient data passthrough")
	}
	if calls != 0 {
		t.Errorf("no enrichment call should be made for insufficient data, got %d", calls)
	}
}

func TestGeminiForecastMarkdownFencedResponse(t *testing.T) {
	body := "```json\n" + `{"predictions":[` +
		`{"month":"2025-05","predicted_amount":400,"confidence":0.8},` +
		`{"month":"2025-06","predicted_amount":410,"confidence":0.8},` +
		`{"month":"2025-07","predicted_amount":420,"confidence":0.8}],` +
		`"recommendations":[]}` + "\n```"
	g, _ := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, geminiEnvelope(body))
	})

	forecast, err := g.Forecast(context.Background(), geminiHistory(), 3)
	if err != nil {
		t.Fatal(err)
	}
	if forecast.Source != "gemini" {
		t.Errorf("fenced JSON should still parse, got source %q", forecast.Source)
	}
}
