package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/taaxdog/backend/internal/model"
)

// RawTransaction is the tolerant ingest shape. Feeds from banks and CSV
// exports are messy; missing fields degrade rather than reject.
type RawTransaction struct {
	Amount      float64 `json:"amount"`
	AmountCents int64   `json:"amount_cents"`
	Direction   string  `json:"direction"`
	Description string  `json:"description"`
	Merchant    string  `json:"merchant"`
	Date        string  `json:"date"`
	RawCategory string  `json:"raw_category"`
}

// IngestSummary reports one ingest run.
type IngestSummary struct {
	Created  int32    `json:"created"`
	Warnings []string `json:"warnings,omitempty"`
	IDs      []string `json:"ids"`
}

// dateLayouts are tried in order when parsing raw transaction dates.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"02/01/2006",
}

// IngestTransactions normalizes and stores a batch of raw transactions for
// the user. Malformed dates fall back to now with a warning; an absent
// direction is inferred from the amount's sign.
func (s *TaxService) IngestTransactions(ctx context.Context, userID string, raws []RawTransaction) (*IngestSummary, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	summary := &IngestSummary{}
	for i, raw := range raws {
		txn := s.normalizeRaw(userID, raw, i, summary)
		if err := s.store.CreateTransaction(ctx, txn); err != nil {
			return summary, fmt.Errorf("create transaction %d: %w", i, err)
		}
		summary.Created++
		summary.IDs = append(summary.IDs, txn.ID)
	}
	log.Printf("[Ingest] stored %d transactions for user %s (%d warnings)", summary.Created, userID, len(summary.Warnings))
	return summary, nil
}

func (s *TaxService) normalizeRaw(userID string, raw RawTransaction, index int, summary *IngestSummary) *model.Transaction {
	cents := raw.AmountCents
	if cents == 0 && raw.Amount != 0 {
		cents = int64(math.Round(raw.Amount * 100))
	}

	direction := model.Direction(strings.ToLower(strings.TrimSpace(raw.Direction)))
	if direction != model.DirectionCredit && direction != model.DirectionDebit {
		if cents > 0 || raw.Amount > 0 {
			direction = model.DirectionCredit
		} else {
			direction = model.DirectionDebit
		}
		if raw.Direction != "" {
			summary.Warnings = append(summary.Warnings,
				fmt.Sprintf("transaction %d: unknown direction %q, inferred %s from amount sign", index, raw.Direction, direction))
		}
	}
	if cents < 0 {
		cents = -cents
	}

	date := time.Time{}
	if raw.Date != "" {
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, raw.Date); err == nil {
				date = parsed
				break
			}
		}
	}
	if date.IsZero() {
		date = time.Now()
		if raw.Date != "" {
			summary.Warnings = append(summary.Warnings,
				fmt.Sprintf("transaction %d: unparseable date %q, defaulted to today", index, raw.Date))
		}
	}

	amount := float64(cents) / 100.0
	if direction == model.DirectionDebit {
		amount = -amount
	}

	return &model.Transaction{
		ID:          uuid.New().String(),
		UserID:      userID,
		AmountCents: cents,
		Amount:      amount,
		Direction:   direction,
		Description: strings.TrimSpace(raw.Description),
		Merchant:    strings.TrimSpace(raw.Merchant),
		Date:        date,
		RawCategory: strings.TrimSpace(raw.RawCategory),
	}
}
