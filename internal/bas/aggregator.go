package bas

import (
	"log"
	"math"
	"time"

	"github.com/taaxdog/backend/internal/model"
	"github.com/taaxdog/backend/internal/tax"
)

// gstDivisor converts a GST-inclusive gross amount to its GST component.
// Australian GST is 1/11th of the gross price, not a flat 10% of net;
// dividing by 11 here is deliberate and must not be "simplified" to *0.10.
const gstDivisor = 11.0

// Aggregator folds a quarter of transactions and receipts into BAS figures.
// It is stateless apart from the engine it delegates categorization to.
type Aggregator struct {
	engine *tax.Engine
}

// NewAggregator creates an Aggregator backed by the given engine.
func NewAggregator(engine *tax.Engine) *Aggregator {
	return &Aggregator{engine: engine}
}

// AggregateQuarter computes the BAS summary for the inclusive window
// [periodStart, periodEnd]. Receipts are accepted for parity with the caller's
// data set but carry no extra GST weight; line items come from categorized
// transactions. A nil or non-GST-registered profile produces zero GST figures
// but still totals PAYG pass-through amounts and counts.
func (a *Aggregator) AggregateQuarter(
	txns []*model.Transaction,
	receipts []*model.Receipt,
	profile *model.TaxProfile,
	periodStart, periodEnd time.Time,
) *model.BASQuarterSummary {
	gstRegistered := profile != nil && profile.GSTRegistered

	// Full-precision running sums in cents; rounded once at the end.
	var salesGST, inputTaxCredits float64
	var processed int32
	touched := make(map[tax.CategoryKey]bool)

	for _, txn := range txns {
		if txn == nil || !inWindow(txn.Date, periodStart, periodEnd) {
			continue
		}
		processed++

		if txn.Direction == model.DirectionCredit {
			if gstRegistered {
				salesGST += float64(txn.Cents()) / gstDivisor
			}
			touched[tax.CategoryBusinessIncome] = true
			continue
		}

		result := a.engine.Categorize(txn, profile)
		touched[result.Category] = true
		if result.Category == tax.CategoryPersonal || result.Deductibility <= 0 {
			continue
		}
		if gstRegistered {
			inputTaxCredits += float64(txn.Cents()) / gstDivisor * result.Deductibility
		}
	}

	receiptsInWindow := 0
	for _, r := range receipts {
		if r != nil && inWindow(r.Date, periodStart, periodEnd) {
			receiptsInWindow++
		}
	}
	if processed > 0 {
		log.Printf("[BAS] aggregated %d transactions, %d receipts for %s to %s",
			processed, receiptsInWindow, periodStart.Format("2006-01-02"), periodEnd.Format("2006-01-02"))
	}

	// Round the two GST legs independently, then derive the identities from
	// the rounded cents so NetGST == SalesGST - InputTaxCredits holds exactly.
	salesCents := int64(math.Round(salesGST))
	creditCents := int64(math.Round(inputTaxCredits))
	netCents := salesCents - creditCents

	var withholdingCents, instalmentCents int64
	if profile != nil {
		withholdingCents = profile.PaygWithholdingCents
		instalmentCents = profile.PaygInstalmentCents
	}
	totalCents := netCents + instalmentCents - withholdingCents

	return &model.BASQuarterSummary{
		PeriodStart:               periodStart,
		PeriodEnd:                 periodEnd,
		SalesGSTCents:             salesCents,
		InputTaxCreditsCents:      creditCents,
		NetGSTCents:               netCents,
		PaygWithholdingCents:      withholdingCents,
		PaygInstalmentCents:       instalmentCents,
		TotalRefundOrPayableCents: totalCents,
		SalesGST:                  dollars(salesCents),
		InputTaxCredits:           dollars(creditCents),
		NetGST:                    dollars(netCents),
		PaygWithholding:           dollars(withholdingCents),
		PaygInstalment:            dollars(instalmentCents),
		TotalRefundOrPayable:      dollars(totalCents),
		TransactionsProcessed:     processed,
		LineItemsCount:            int32(len(touched)),
	}
}

func inWindow(d, start, end time.Time) bool {
	if d.IsZero() {
		return false
	}
	return !d.Before(start) && !d.After(end)
}

func dollars(cents int64) float64 {
	return float64(cents) / 100.0
}
