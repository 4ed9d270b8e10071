// Package service is the orchestration layer: it binds the store to the
// categorization, BAS, compliance and budget components and exposes the
// operations the HTTP layer calls. All business rules live in the internal
// core packages; this layer only fetches, delegates and shapes.
package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/taaxdog/backend/internal/bas"
	"github.com/taaxdog/backend/internal/budget"
	"github.com/taaxdog/backend/internal/compliance"
	"github.com/taaxdog/backend/internal/model"
	"github.com/taaxdog/backend/internal/store"
	"github.com/taaxdog/backend/internal/tax"
)

// listPageSize is the page size used when draining store listings.
const listPageSize = 500

// autoApplyConfidence is the confidence at or above which a batch run writes
// the category back onto the stored transaction without review.
const autoApplyConfidence = 0.85

// TaxService orchestrates the TAAXDOG core over a Store.
type TaxService struct {
	store      store.Store
	engine     *tax.Engine
	aggregator *bas.Aggregator
	analyzer   *budget.Analyzer
	forecaster budget.Forecaster
}

// NewTaxService creates the service with default engine thresholds. A
// non-empty geminiAPIKey layers Gemini enrichment over the rule-based
// forecaster; an empty key keeps forecasts purely rule-based.
func NewTaxService(s store.Store, geminiAPIKey string) *TaxService {
	engine := tax.NewEngine(tax.DefaultConfig())
	analyzer := budget.NewAnalyzer(engine)
	var forecaster budget.Forecaster = budget.NewRuleBasedForecaster(analyzer)
	if geminiAPIKey != "" {
		forecaster = budget.NewGeminiForecaster(geminiAPIKey, forecaster)
	}
	return &TaxService{
		store:      s,
		engine:     engine,
		aggregator: bas.NewAggregator(engine),
		analyzer:   analyzer,
		forecaster: forecaster,
	}
}

// Engine exposes the categorization engine for callers that want to
// categorize ad-hoc transactions without touching the store.
func (s *TaxService) Engine() *tax.Engine {
	return s.engine
}

// CategorizeTransaction categorizes one stored transaction with the user's
// profile applied.
func (s *TaxService) CategorizeTransaction(ctx context.Context, userID, txnID string) (*tax.Result, error) {
	txn, err := s.store.GetTransaction(ctx, txnID)
	if err != nil {
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	if txn.UserID != userID {
		return nil, fmt.Errorf("transaction %s does not belong to user", txnID)
	}
	profile, err := s.store.GetTaxProfile(ctx, userID)
	if err != nil {
		log.Printf("[Categorize] failed to load tax profile for %s, proceeding without: %v", userID, err)
		profile = nil
	}
	result := s.engine.Categorize(txn, profile)
	return &result, nil
}

// TransactionResult pairs a stored transaction ID with its categorization.
type TransactionResult struct {
	TransactionID string     `json:"transaction_id"`
	Result        tax.Result `json:"result"`
}

// BatchCategorizeSummary reports one batch categorization run.
type BatchCategorizeSummary struct {
	TotalProcessed int32               `json:"total_processed"`
	AutoApplied    int32               `json:"auto_applied"`
	NeedsReview    int32               `json:"needs_review"`
	Results        []TransactionResult `json:"results"`
}

// BatchCategorize categorizes every transaction in the financial year. When
// autoApply is set, high-confidence categories are written back onto the
// stored transaction's raw category hint.
func (s *TaxService) BatchCategorize(ctx context.Context, userID, financialYear string, autoApply bool) (*BatchCategorizeSummary, error) {
	if financialYear == "" {
		financialYear = CurrentAustralianFY()
	}
	start, end, err := ParseFYDateRange(financialYear)
	if err != nil {
		return nil, err
	}

	txns, err := s.listAllTransactions(ctx, userID, &start, &end)
	if err != nil {
		return nil, err
	}

	profile, err := s.store.GetTaxProfile(ctx, userID)
	if err != nil {
		log.Printf("[BatchCategorize] failed to load tax profile for %s, proceeding without: %v", userID, err)
		profile = nil
	}

	summary := &BatchCategorizeSummary{}
	for _, txn := range txns {
		result := s.engine.Categorize(txn, profile)
		summary.TotalProcessed++

		if autoApply && !result.RequiresVerification && result.Confidence >= autoApplyConfidence {
			txn.RawCategory = string(result.Category)
			if err := s.store.UpdateTransaction(ctx, txn); err != nil {
				log.Printf("[BatchCategorize] failed to update transaction %s: %v", txn.ID, err)
			} else {
				summary.AutoApplied++
			}
		} else if result.RequiresVerification {
			summary.NeedsReview++
		}

		summary.Results = append(summary.Results, TransactionResult{
			TransactionID: txn.ID,
			Result:        result,
		})
	}
	return summary, nil
}

// GetBASQuarterSummary aggregates the user's transactions and receipts for
// one BAS quarter of the financial year starting 1 July of fyStartYear.
func (s *TaxService) GetBASQuarterSummary(ctx context.Context, userID string, fyStartYear, quarter int) (*model.BASQuarterSummary, error) {
	q, err := bas.FYQuarter(fyStartYear, quarter)
	if err != nil {
		return nil, err
	}

	txns, err := s.listAllTransactions(ctx, userID, &q.Start, &q.End)
	if err != nil {
		return nil, err
	}
	receipts, err := s.listAllReceipts(ctx, userID, &q.Start, &q.End)
	if err != nil {
		return nil, err
	}
	profile, err := s.store.GetTaxProfile(ctx, userID)
	if err != nil {
		log.Printf("[BAS] failed to load tax profile for %s, proceeding without: %v", userID, err)
		profile = nil
	}

	return s.aggregator.AggregateQuarter(txns, receipts, profile, q.Start, q.End), nil
}

// GetComplianceAssessment scores the user's batch in the inclusive window.
func (s *TaxService) GetComplianceAssessment(ctx context.Context, userID string, start, end time.Time) (*model.ComplianceAssessment, error) {
	txns, err := s.listAllTransactions(ctx, userID, &start, &end)
	if err != nil {
		return nil, err
	}
	receipts, err := s.listAllReceipts(ctx, userID, &start, &end)
	if err != nil {
		return nil, err
	}
	return compliance.Assess(txns, receipts), nil
}

// AnalyzeSpending buckets the user's recent history into spending patterns.
// An empty history is a legitimate result with an insufficient-data trend,
// not an error.
func (s *TaxService) AnalyzeSpending(ctx context.Context, userID string, lookbackDays int) (*model.SpendingAnalysis, error) {
	if lookbackDays <= 0 {
		lookbackDays = 365
	}
	end := time.Now()
	start := end.AddDate(0, 0, -lookbackDays)
	txns, err := s.listAllTransactions(ctx, userID, &start, &end)
	if err != nil {
		return nil, err
	}
	return s.analyzer.AnalyzePatterns(txns), nil
}

// PredictBudget forecasts the user's spending monthsAhead months forward.
func (s *TaxService) PredictBudget(ctx context.Context, userID string, monthsAhead int) (*model.BudgetForecast, error) {
	end := time.Now()
	start := end.AddDate(-1, 0, 0)
	txns, err := s.listAllTransactions(ctx, userID, &start, &end)
	if err != nil {
		return nil, err
	}
	return s.forecaster.Forecast(ctx, txns, monthsAhead)
}

// GetTaxProfile returns the user's profile, nil when none exists.
func (s *TaxService) GetTaxProfile(ctx context.Context, userID string) (*model.TaxProfile, error) {
	return s.store.GetTaxProfile(ctx, userID)
}

// UpdateTaxProfile upserts the user's profile.
func (s *TaxService) UpdateTaxProfile(ctx context.Context, profile *model.TaxProfile) error {
	return s.store.UpdateTaxProfile(ctx, profile)
}

// listAllTransactions drains the paged transaction listing.
func (s *TaxService) listAllTransactions(ctx context.Context, userID string, start, end *time.Time) ([]*model.Transaction, error) {
	var all []*model.Transaction
	var pageToken string
	for {
		txns, nextToken, err := s.store.ListTransactions(ctx, userID, start, end, listPageSize, pageToken)
		if err != nil {
			return nil, fmt.Errorf("list transactions: %w", err)
		}
		all = append(all, txns...)
		if nextToken == "" {
			break
		}
		pageToken = nextToken
	}
	return all, nil
}

// listAllReceipts drains the paged receipt listing.
func (s *TaxService) listAllReceipts(ctx context.Context, userID string, start, end *time.Time) ([]*model.Receipt, error) {
	var all []*model.Receipt
	var pageToken string
	for {
		receipts, nextToken, err := s.store.ListReceipts(ctx, userID, start, end, listPageSize, pageToken)
		if err != nil {
			return nil, fmt.Errorf("list receipts: %w", err)
		}
		all = append(all, receipts...)
		if nextToken == "" {
			break
		}
		pageToken = nextToken
	}
	return all, nil
}
