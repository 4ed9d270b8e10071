package store

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/taaxdog/backend/internal/model"
)

const (
	transactionsCollection = "transactions"
	receiptsCollection     = "receipts"
	taxProfilesCollection  = "taxProfiles"
)

// FirestoreStore implements the Store interface using Firestore.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a new Firestore-backed store.
func NewFirestoreStore(client *firestore.Client) Store {
	return &FirestoreStore{client: client}
}

// applyDateAwarePagination handles pagination for queries with date range
// filters. Firestore requires OrderBy on the inequality field first, so we
// order by date then document ID; the cursor carries both.
func (s *FirestoreStore) applyDateAwarePagination(ctx context.Context, query firestore.Query, collection string, pageSize int32, pageToken string) (firestore.Query, error) {
	query = query.OrderBy("date", firestore.Asc).OrderBy(firestore.DocumentID, firestore.Asc)

	if pageToken != "" {
		docID, err := DecodePageToken(pageToken)
		if err != nil {
			return query, fmt.Errorf("invalid page token: %w", err)
		}
		cursorDoc, err := s.client.Collection(collection).Doc(docID).Get(ctx)
		if err != nil {
			return query, fmt.Errorf("failed to fetch cursor document: %w", err)
		}
		dateVal := cursorDoc.Data()["date"]
		query = query.StartAfter(dateVal, docID)
	}

	if pageSize <= 0 {
		pageSize = 100
	}
	query = query.Limit(int(pageSize) + 1) // +1 to detect next page
	return query, nil
}

// CreateTransaction creates a new transaction document.
func (s *FirestoreStore) CreateTransaction(ctx context.Context, txn *model.Transaction) error {
	if txn.ID == "" {
		return fmt.Errorf("transaction missing ID")
	}
	now := time.Now()
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = now
	}
	txn.UpdatedAt = now
	_, err := s.client.Collection(transactionsCollection).Doc(txn.ID).Set(ctx, txn)
	return err
}

// GetTransaction retrieves a transaction document.
func (s *FirestoreStore) GetTransaction(ctx context.Context, txnID string) (*model.Transaction, error) {
	doc, err := s.client.Collection(transactionsCollection).Doc(txnID).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("transaction not found: %w", err)
	}
	var txn model.Transaction
	if err := doc.DataTo(&txn); err != nil {
		return nil, fmt.Errorf("failed to parse transaction: %w", err)
	}
	return &txn, nil
}

// UpdateTransaction replaces an existing transaction document.
func (s *FirestoreStore) UpdateTransaction(ctx context.Context, txn *model.Transaction) error {
	txn.UpdatedAt = time.Now()
	_, err := s.client.Collection(transactionsCollection).Doc(txn.ID).Set(ctx, txn)
	return err
}

// DeleteTransaction removes a transaction document.
func (s *FirestoreStore) DeleteTransaction(ctx context.Context, txnID string) error {
	_, err := s.client.Collection(transactionsCollection).Doc(txnID).Delete(ctx)
	return err
}

// ListTransactions lists transactions for a user with optional date window
// and cursor pagination.
func (s *FirestoreStore) ListTransactions(ctx context.Context, userID string, startDate, endDate *time.Time, pageSize int32, pageToken string) ([]*model.Transaction, string, error) {
	query := s.client.Collection(transactionsCollection).Query.Where("userId", "==", userID)
	if startDate != nil {
		query = query.Where("date", ">=", *startDate)
	}
	if endDate != nil {
		query = query.Where("date", "<=", *endDate)
	}

	query, err := s.applyDateAwarePagination(ctx, query, transactionsCollection, pageSize, pageToken)
	if err != nil {
		return nil, "", err
	}
	if pageSize <= 0 {
		pageSize = 100
	}

	var txns []*model.Transaction
	iter := query.Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, "", fmt.Errorf("list transactions: %w", err)
		}
		var txn model.Transaction
		if err := doc.DataTo(&txn); err != nil {
			return nil, "", fmt.Errorf("failed to parse transaction: %w", err)
		}
		txns = append(txns, &txn)
	}

	nextToken := ""
	if len(txns) > int(pageSize) {
		txns = txns[:pageSize]
		nextToken = EncodePageToken(txns[len(txns)-1].ID)
	}
	return txns, nextToken, nil
}

// CreateReceipt creates a new receipt document.
func (s *FirestoreStore) CreateReceipt(ctx context.Context, receipt *model.Receipt) error {
	if receipt.ID == "" {
		return fmt.Errorf("receipt missing ID")
	}
	_, err := s.client.Collection(receiptsCollection).Doc(receipt.ID).Set(ctx, receipt)
	return err
}

// ListReceipts lists receipts for a user with optional date window and
// cursor pagination.
func (s *FirestoreStore) ListReceipts(ctx context.Context, userID string, startDate, endDate *time.Time, pageSize int32, pageToken string) ([]*model.Receipt, string, error) {
	query := s.client.Collection(receiptsCollection).Query.Where("userId", "==", userID)
	if startDate != nil {
		query = query.Where("date", ">=", *startDate)
	}
	if endDate != nil {
		query = query.Where("date", "<=", *endDate)
	}

	query, err := s.applyDateAwarePagination(ctx, query, receiptsCollection, pageSize, pageToken)
	if err != nil {
		return nil, "", err
	}
	if pageSize <= 0 {
		pageSize = 100
	}

	var receipts []*model.Receipt
	iter := query.Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, "", fmt.Errorf("list receipts: %w", err)
		}
		var r model.Receipt
		if err := doc.DataTo(&r); err != nil {
			return nil, "", fmt.Errorf("failed to parse receipt: %w", err)
		}
		receipts = append(receipts, &r)
	}

	nextToken := ""
	if len(receipts) > int(pageSize) {
		receipts = receipts[:pageSize]
		nextToken = EncodePageToken(receipts[len(receipts)-1].ID)
	}
	return receipts, nextToken, nil
}

// GetTaxProfile returns the user's tax profile, or (nil, nil) when none has
// been saved yet.
func (s *FirestoreStore) GetTaxProfile(ctx context.Context, userID string) (*model.TaxProfile, error) {
	doc, err := s.client.Collection(taxProfilesCollection).Doc(userID).Get(ctx)
	if err != nil {
		if !doc.Exists() {
			return nil, nil
		}
		return nil, fmt.Errorf("get tax profile: %w", err)
	}
	var profile model.TaxProfile
	if err := doc.DataTo(&profile); err != nil {
		return nil, fmt.Errorf("failed to parse tax profile: %w", err)
	}
	return &profile, nil
}

// UpdateTaxProfile upserts the user's tax profile.
func (s *FirestoreStore) UpdateTaxProfile(ctx context.Context, profile *model.TaxProfile) error {
	if profile.UserID == "" {
		return fmt.Errorf("tax profile missing user ID")
	}
	_, err := s.client.Collection(taxProfilesCollection).Doc(profile.UserID).Set(ctx, profile)
	return err
}
