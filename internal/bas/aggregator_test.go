package bas

import (
	"testing"
	"time"

	"github.com/taaxdog/backend/internal/model"
	"github.com/taaxdog/backend/internal/tax"
)

func testAggregator() *Aggregator {
	return NewAggregator(tax.NewEngine(tax.DefaultConfig()))
}

func q1Txn(direction model.Direction, desc string, amountCents int64, day int) *model.Transaction {
	return &model.Transaction{
		ID:          desc,
		UserID:      "user-1",
		AmountCents: amountCents,
		Direction:   direction,
		Description: desc,
		Date:        time.Date(2025, time.August, day, 10, 0, 0, 0, time.UTC),
	}
}

func gstProfile() *model.TaxProfile {
	return &model.TaxProfile{
		UserID:        "user-1",
		HasABN:        true,
		GSTRegistered: true,
	}
}

func TestAggregateQuarterGSTIsOneEleventh(t *testing.T) {
	q, _ := FYQuarter(2025, 1)
	txns := []*model.Transaction{
		// $1,100 gross sale carries exactly $100 GST.
		q1Txn(model.DirectionCredit, "INVOICE PAYMENT CLIENT A", 110000, 5),
	}

	summary := testAggregator().AggregateQuarter(txns, nil, gstProfile(), q.Start, q.End)

	if summary.SalesGSTCents != 10000 {
		t.Errorf("SalesGSTCents = %d, want 10000", summary.SalesGSTCents)
	}
	if summary.SalesGST != 100.0 {
		t.Errorf("SalesGST = %.2f, want 100.00", summary.SalesGST)
	}
}

func TestAggregateQuarterInputTaxCredits(t *testing.T) {
	q, _ := FYQuarter(2025, 1)
	txns := []*model.Transaction{
		q1Txn(model.DirectionCredit, "INVOICE PAYMENT CLIENT A", 110000, 5),
		// Fully deductible tools purchase: $220 gross holds $20 GST.
		q1Txn(model.DirectionDebit, "BUNNINGS POWER DRILL", 22000, 8),
		// Work travel fuel is 50% deductible by baseline: $110 gross, $10 GST, $5 claimable.
		q1Txn(model.DirectionDebit, "CALTEX FUEL", 11000, 12),
		// Personal groceries never generate credits.
		q1Txn(model.DirectionDebit, "COLES SUPERMARKET 4821", 8550, 15),
	}

	summary := testAggregator().AggregateQuarter(txns, nil, gstProfile(), q.Start, q.End)

	if summary.InputTaxCreditsCents != 2500 {
		t.Errorf("InputTaxCreditsCents = %d, want 2500", summary.InputTaxCreditsCents)
	}
	if summary.NetGSTCents != summary.SalesGSTCents-summary.InputTaxCreditsCents {
		t.Errorf("NetGST identity broken: %d != %d - %d",
			summary.NetGSTCents, summary.SalesGSTCents, summary.InputTaxCreditsCents)
	}
	if summary.TransactionsProcessed != 4 {
		t.Errorf("TransactionsProcessed = %d, want 4", summary.TransactionsProcessed)
	}
}

func TestAggregateQuarterPaygPassThrough(t *testing.T) {
	q, _ := FYQuarter(2025, 1)
	profile := gstProfile()
	profile.PaygWithholdingCents = 50000
	profile.PaygInstalmentCents = 20000

	txns := []*model.Transaction{
		q1Txn(model.DirectionCredit, "INVOICE PAYMENT CLIENT A", 110000, 5),
		q1Txn(model.DirectionDebit, "BUNNINGS POWER DRILL", 22000, 8),
	}

	summary := testAggregator().AggregateQuarter(txns, nil, profile, q.Start, q.End)

	// Net GST 10000 - 2000 = 8000; total = 8000 + 20000 - 50000.
	if summary.NetGSTCents != 8000 {
		t.Fatalf("NetGSTCents = %d, want 8000", summary.NetGSTCents)
	}
	if summary.TotalRefundOrPayableCents != -22000 {
		t.Errorf("TotalRefundOrPayableCents = %d, want -22000", summary.TotalRefundOrPayableCents)
	}
	if summary.PaygWithholdingCents != 50000 || summary.PaygInstalmentCents != 20000 {
		t.Errorf("PAYG figures must pass through unchanged, got %d / %d",
			summary.PaygWithholdingCents, summary.PaygInstalmentCents)
	}
}

func TestAggregateQuarterNotGSTRegistered(t *testing.T) {
	q, _ := FYQuarter(2025, 1)
	profile := &model.TaxProfile{UserID: "user-1", PaygWithholdingCents: 30000}
	txns := []*model.Transaction{
		q1Txn(model.DirectionCredit, "INVOICE PAYMENT CLIENT A", 110000, 5),
		q1Txn(model.DirectionDebit, "BUNNINGS POWER DRILL", 22000, 8),
	}

	summary := testAggregator().AggregateQuarter(txns, nil, profile, q.Start, q.End)

	if summary.SalesGSTCents != 0 || summary.InputTaxCreditsCents != 0 || summary.NetGSTCents != 0 {
		t.Errorf("unregistered profile must produce zero GST figures, got %d/%d/%d",
			summary.SalesGSTCents, summary.InputTaxCreditsCents, summary.NetGSTCents)
	}
	if summary.TransactionsProcessed != 2 {
		t.Errorf("counts still accrue without registration, got %d", summary.TransactionsProcessed)
	}
	if summary.TotalRefundOrPayableCents != -30000 {
		t.Errorf("PAYG still totals without GST, got %d", summary.TotalRefundOrPayableCents)
	}
}

func TestAggregateQuarterWindowIsInclusive(t *testing.T) {
	q, _ := FYQuarter(2025, 1)
	inside := q1Txn(model.DirectionCredit, "INVOICE PAYMENT CLIENT A", 110000, 5)
	onBoundary := &model.Transaction{
		ID: "boundary", UserID: "user-1", AmountCents: 110000,
		Direction: model.DirectionCredit, Description: "INVOICE PAYMENT CLIENT B",
		Date: q.Start,
	}
	outside := &model.Transaction{
		ID: "outside", UserID: "user-1", AmountCents: 110000,
		Direction: model.DirectionCredit, Description: "INVOICE PAYMENT CLIENT C",
		Date: q.End.Add(time.Hour),
	}

	summary := testAggregator().AggregateQuarter(
		[]*model.Transaction{inside, onBoundary, outside}, nil, gstProfile(), q.Start, q.End)

	if summary.TransactionsProcessed != 2 {
		t.Errorf("expected 2 in-window transactions, got %d", summary.TransactionsProcessed)
	}
	if summary.SalesGSTCents != 20000 {
		t.Errorf("SalesGSTCents = %d, want 20000", summary.SalesGSTCents)
	}
}

func TestAggregateQuarterReceiptsCounted(t *testing.T) {
	q, _ := FYQuarter(2025, 1)
	receipts := []*model.Receipt{
		{ID: "r1", UserID: "user-1", Date: q.Start.AddDate(0, 0, 3)},
		{ID: "r2", UserID: "user-1", Date: q.End.AddDate(0, 1, 0)}, // outside
	}
	txns := []*model.Transaction{
		q1Txn(model.DirectionDebit, "BUNNINGS POWER DRILL", 22000, 8),
	}

	summary := testAggregator().AggregateQuarter(txns, receipts, gstProfile(), q.Start, q.End)

	if summary.LineItemsCount == 0 {
		t.Error("expected at least one categorized line item")
	}
	if summary.TransactionsProcessed != 1 {
		t.Errorf("TransactionsProcessed = %d, want 1", summary.TransactionsProcessed)
	}
}
