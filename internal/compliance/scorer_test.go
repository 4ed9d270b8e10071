package compliance

import (
	"testing"
	"time"

	"github.com/taaxdog/backend/internal/model"
)

func complianceTxn(direction model.Direction, desc string, amountCents int64) *model.Transaction {
	return &model.Transaction{
		AmountCents: amountCents,
		Direction:   direction,
		Description: desc,
		Date:        time.Date(2025, 8, 14, 0, 0, 0, 0, time.UTC),
	}
}

func receipt(id string) *model.Receipt {
	return &model.Receipt{ID: id, Date: time.Date(2025, 8, 14, 0, 0, 0, 0, time.UTC)}
}

func TestAssessEmptyBatch(t *testing.T) {
	assessment := Assess(nil, nil)
	if assessment.Score != 100 {
		t.Errorf("empty batch score = %d, want 100", assessment.Score)
	}
	if len(assessment.RiskFlags) != 0 {
		t.Errorf("empty batch should raise no flags, got %v", assessment.RiskFlags)
	}
}

func TestAssessReceiptCoverage(t *testing.T) {
	txns := []*model.Transaction{
		complianceTxn(model.DirectionDebit, "OFFICEWORKS", 9900),
		complianceTxn(model.DirectionDebit, "BUNNINGS", 15000),
		complianceTxn(model.DirectionDebit, "JB HI-FI", 29900),
		// Below the $50 threshold, never needs a receipt.
		complianceTxn(model.DirectionDebit, "COFFEE", 450),
	}

	t.Run("covered", func(t *testing.T) {
		receipts := []*model.Receipt{receipt("r1"), receipt("r2"), receipt("r3")}
		assessment := Assess(txns, receipts)
		if assessment.Score != 100 {
			t.Errorf("score = %d, want 100", assessment.Score)
		}
	})

	t.Run("under-covered", func(t *testing.T) {
		receipts := []*model.Receipt{receipt("r1")}
		assessment := Assess(txns, receipts)
		if assessment.Score != 80 {
			t.Errorf("score = %d, want 80", assessment.Score)
		}
		if len(assessment.RiskFlags) != 1 {
			t.Fatalf("expected one flag, got %v", assessment.RiskFlags)
		}
	})
}

func TestAssessLargeCashTransactions(t *testing.T) {
	txns := []*model.Transaction{
		complianceTxn(model.DirectionCredit, "CASH DEPOSIT BRANCH", 1_234_567),
		complianceTxn(model.DirectionCredit, "CASH DEPOSIT BRANCH", 1_567_801),
		// Large but not cash.
		complianceTxn(model.DirectionCredit, "TERM DEPOSIT MATURITY", 2_000_001),
	}

	assessment := Assess(txns, nil)

	if assessment.Score != 80 {
		t.Errorf("score = %d, want 80 (two large cash penalties)", assessment.Score)
	}
	if len(assessment.RiskFlags) != 1 {
		t.Fatalf("expected one flag, got %v", assessment.RiskFlags)
	}
}

func TestAssessRoundNumberClustering(t *testing.T) {
	txns := []*model.Transaction{
		// Two of five over $100 and exactly divisible: 40% > 20% tolerance.
		complianceTxn(model.DirectionCredit, "CONSULTING", 20000),
		complianceTxn(model.DirectionCredit, "CONSULTING", 50000),
		complianceTxn(model.DirectionCredit, "SUNDRY", 12345),
		complianceTxn(model.DirectionCredit, "SUNDRY", 9999),
		complianceTxn(model.DirectionCredit, "SUNDRY", 101),
	}

	assessment := Assess(txns, nil)

	if assessment.Score != 90 {
		t.Errorf("score = %d, want 90", assessment.Score)
	}
}

func TestAssessScoreFloorsAtZero(t *testing.T) {
	var txns []*model.Transaction
	for i := 0; i < 15; i++ {
		txns = append(txns, complianceTxn(model.DirectionCredit, "CASH DEPOSIT", 1_100_000))
	}

	assessment := Assess(txns, nil)

	if assessment.Score != 0 {
		t.Errorf("score = %d, want floor of 0", assessment.Score)
	}
}
