package model

import "time"

// BASQuarterSummary holds the GST/BAS figures for one Australian quarter.
// Invariants: NetGSTCents = SalesGSTCents - InputTaxCreditsCents and
// TotalRefundOrPayableCents = NetGSTCents + PaygInstalmentCents -
// PaygWithholdingCents. Positive TotalRefundOrPayable means payable to the
// tax office. Dollar fields mirror the cents fields for display.
type BASQuarterSummary struct {
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`

	SalesGSTCents        int64 `json:"sales_gst_cents"`
	InputTaxCreditsCents int64 `json:"input_tax_credits_cents"`
	NetGSTCents          int64 `json:"net_gst_cents"`
	PaygWithholdingCents int64 `json:"payg_withholding_cents"`
	PaygInstalmentCents  int64 `json:"payg_instalment_cents"`

	// TotalRefundOrPayableCents is negative when a refund is due.
	TotalRefundOrPayableCents int64 `json:"total_refund_or_payable_cents"`

	SalesGST             float64 `json:"sales_gst"`
	InputTaxCredits      float64 `json:"input_tax_credits"`
	NetGST               float64 `json:"net_gst"`
	PaygWithholding      float64 `json:"payg_withholding"`
	PaygInstalment       float64 `json:"payg_instalment"`
	TotalRefundOrPayable float64 `json:"total_refund_or_payable"`

	TransactionsProcessed int32 `json:"transactions_processed"`
	LineItemsCount        int32 `json:"line_items_count"`
}

// ComplianceAssessment is the audit-readiness verdict for a batch of
// transactions and receipts. Score starts at 100 and is reduced by each
// detected risk pattern, never below 0.
type ComplianceAssessment struct {
	Score     int32    `json:"score"`
	RiskFlags []string `json:"risk_flags"`
}
