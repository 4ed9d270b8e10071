// Package store persists transactions, receipts and tax profiles. The core
// categorization packages never touch it; only the service layer does.
package store

import (
	"context"
	"encoding/base64"
	"time"

	"github.com/taaxdog/backend/internal/model"
)

// Store defines the database operations used by the service layer.
type Store interface {
	// Transaction operations
	CreateTransaction(ctx context.Context, txn *model.Transaction) error
	GetTransaction(ctx context.Context, txnID string) (*model.Transaction, error)
	UpdateTransaction(ctx context.Context, txn *model.Transaction) error
	DeleteTransaction(ctx context.Context, txnID string) error
	ListTransactions(ctx context.Context, userID string, startDate, endDate *time.Time, pageSize int32, pageToken string) ([]*model.Transaction, string, error)

	// Receipt operations
	CreateReceipt(ctx context.Context, receipt *model.Receipt) error
	ListReceipts(ctx context.Context, userID string, startDate, endDate *time.Time, pageSize int32, pageToken string) ([]*model.Receipt, string, error)

	// Tax profile operations. GetTaxProfile returns (nil, nil) when the user
	// has no profile yet; absence is a normal degraded path, not an error.
	GetTaxProfile(ctx context.Context, userID string) (*model.TaxProfile, error)
	UpdateTaxProfile(ctx context.Context, profile *model.TaxProfile) error
}

// EncodePageToken encodes a document ID into a page token.
func EncodePageToken(docID string) string {
	if docID == "" {
		return ""
	}
	return base64.URLEncoding.EncodeToString([]byte(docID))
}

// DecodePageToken decodes a page token back to a document ID.
func DecodePageToken(token string) (string, error) {
	if token == "" {
		return "", nil
	}
	b, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
