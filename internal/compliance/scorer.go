// Package compliance scores a transaction/receipt batch for audit readiness.
// The score starts at 100 and each detected risk pattern subtracts points;
// flags accumulate independently and the score never drops below 0.
package compliance

import (
	"fmt"
	"strings"

	"github.com/taaxdog/backend/internal/model"
)

const (
	// receiptThresholdCents: debit transactions above this need a receipt.
	receiptThresholdCents = 5_000 // AUD 50
	// minCoverageRatio is the acceptable receipt coverage for qualifying
	// transactions.
	minCoverageRatio   = 0.7
	coveragePenalty    = 20
	largeCashCents     = 1_000_000 // AUD 10,000
	largeCashPenalty   = 10
	roundNumberCents   = 10_000 // AUD 100 multiples
	roundNumberPenalty = 10
	// maxRoundShare is the tolerated fraction of round-number transactions.
	maxRoundShare = 0.2
)

// Assess evaluates the batch and returns the clamped score with all fired
// risk flags. An empty batch scores 100 with no flags.
func Assess(txns []*model.Transaction, receipts []*model.Receipt) *model.ComplianceAssessment {
	score := 100
	var flags []string

	// Receipt coverage on debits over the receipt threshold.
	qualifying := 0
	for _, t := range txns {
		if t != nil && t.Direction == model.DirectionDebit && t.Cents() > receiptThresholdCents {
			qualifying++
		}
	}
	if qualifying > 0 {
		ratio := float64(len(receipts)) / float64(qualifying)
		if ratio > 1 {
			ratio = 1
		}
		if ratio < minCoverageRatio {
			score -= coveragePenalty
			flags = append(flags, fmt.Sprintf(
				"low receipt coverage: %.0f%% of transactions over $50 have receipts", ratio*100))
		}
	}

	// Large cash transactions draw individual attention in an audit.
	largeCash := 0
	for _, t := range txns {
		if t == nil {
			continue
		}
		if t.Cents() > largeCashCents && strings.Contains(strings.ToLower(t.Description), "cash") {
			largeCash++
		}
	}
	if largeCash > 0 {
		score -= largeCash * largeCashPenalty
		flags = append(flags, fmt.Sprintf("%d large cash transaction(s) over $10,000", largeCash))
	}

	// Round-number clustering suggests estimated rather than substantiated
	// amounts.
	if len(txns) > 0 {
		round := 0
		for _, t := range txns {
			if t == nil {
				continue
			}
			cents := t.Cents()
			if cents > roundNumberCents && cents%roundNumberCents == 0 {
				round++
			}
		}
		if float64(round)/float64(len(txns)) > maxRoundShare {
			score -= roundNumberPenalty
			flags = append(flags, "high percentage of round-number transactions")
		}
	}

	if score < 0 {
		score = 0
	}
	return &model.ComplianceAssessment{
		Score:     int32(score),
		RiskFlags: flags,
	}
}
