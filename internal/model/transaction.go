// Package model defines the typed records exchanged between the TAAXDOG core
// components: bank transactions, receipts, tax profiles and the results the
// core produces. All records are plain structs serializable to JSON; the HTTP
// layer wraps them in its own envelopes.
package model

import (
	"math"
	"time"
)

// Direction indicates whether a transaction moves money in or out of the account.
type Direction string

const (
	DirectionCredit Direction = "credit"
	DirectionDebit  Direction = "debit"
)

// Transaction is a raw bank or receipt transaction as delivered by the banking
// aggregator. Amounts are interpreted as absolute values for categorization;
// Direction determines whether they count toward income or expenses.
type Transaction struct {
	ID          string    `json:"id" firestore:"id"`
	UserID      string    `json:"user_id,omitempty" firestore:"userId"`
	AmountCents int64     `json:"amount_cents" firestore:"amountCents"`
	Amount      float64   `json:"amount" firestore:"amount"`
	Direction   Direction `json:"direction" firestore:"direction"`
	Description string    `json:"description" firestore:"description"`
	Merchant    string    `json:"merchant,omitempty" firestore:"merchant"`
	Date        time.Time `json:"date" firestore:"date"`
	RawCategory string    `json:"raw_category,omitempty" firestore:"rawCategory"`
	CreatedAt   time.Time `json:"created_at,omitempty" firestore:"createdAt"`
	UpdatedAt   time.Time `json:"updated_at,omitempty" firestore:"updatedAt"`
}

// Cents returns the canonical amount in cents, falling back to the dollar
// field when only that was populated by the source.
func (t *Transaction) Cents() int64 {
	if t.AmountCents != 0 {
		return abs64(t.AmountCents)
	}
	return abs64(int64(math.Round(t.Amount * 100)))
}

// Dollars returns the absolute transaction amount in dollars.
func (t *Transaction) Dollars() float64 {
	return float64(t.Cents()) / 100.0
}

// Receipt is a stored receipt record. Receipts feed compliance coverage
// ratios and quarter aggregation; they are not used to categorize individual
// transactions.
type Receipt struct {
	ID               string    `json:"id" firestore:"id"`
	UserID           string    `json:"user_id,omitempty" firestore:"userId"`
	MerchantName     string    `json:"merchant_name" firestore:"merchantName"`
	TotalAmountCents int64     `json:"total_amount_cents" firestore:"totalAmountCents"`
	TotalAmount      float64   `json:"total_amount" firestore:"totalAmount"`
	Date             time.Time `json:"date" firestore:"date"`
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
