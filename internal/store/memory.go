package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/taaxdog/backend/internal/model"
)

// MemoryStore implements Store with in-memory maps. Used for local
// development and tests.
type MemoryStore struct {
	mu sync.RWMutex

	transactions map[string]*model.Transaction
	receipts     map[string]*model.Receipt
	taxProfiles  map[string]*model.TaxProfile
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		transactions: make(map[string]*model.Transaction),
		receipts:     make(map[string]*model.Receipt),
		taxProfiles:  make(map[string]*model.TaxProfile),
	}
}

// CreateTransaction stores a new transaction, assigning an ID if absent.
func (s *MemoryStore) CreateTransaction(_ context.Context, txn *model.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}
	if _, exists := s.transactions[txn.ID]; exists {
		return fmt.Errorf("transaction %s already exists", txn.ID)
	}
	now := time.Now()
	txn.CreatedAt = now
	txn.UpdatedAt = now
	s.transactions[txn.ID] = cloneTransaction(txn)
	return nil
}

// GetTransaction retrieves a transaction by ID.
func (s *MemoryStore) GetTransaction(_ context.Context, txnID string) (*model.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	txn, ok := s.transactions[txnID]
	if !ok {
		return nil, fmt.Errorf("transaction %s not found", txnID)
	}
	return cloneTransaction(txn), nil
}

// UpdateTransaction replaces an existing transaction.
func (s *MemoryStore) UpdateTransaction(_ context.Context, txn *model.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.transactions[txn.ID]; !ok {
		return fmt.Errorf("transaction %s not found", txn.ID)
	}
	txn.UpdatedAt = time.Now()
	s.transactions[txn.ID] = cloneTransaction(txn)
	return nil
}

// DeleteTransaction removes a transaction.
func (s *MemoryStore) DeleteTransaction(_ context.Context, txnID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.transactions[txnID]; !ok {
		return fmt.Errorf("transaction %s not found", txnID)
	}
	delete(s.transactions, txnID)
	return nil
}

// ListTransactions lists a user's transactions in the optional date window,
// ordered by date then ID, with cursor pagination.
func (s *MemoryStore) ListTransactions(_ context.Context, userID string, startDate, endDate *time.Time, pageSize int32, pageToken string) ([]*model.Transaction, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []*model.Transaction
	for _, txn := range s.transactions {
		if userID != "" && txn.UserID != userID {
			continue
		}
		if startDate != nil && txn.Date.Before(*startDate) {
			continue
		}
		if endDate != nil && txn.Date.After(*endDate) {
			continue
		}
		matches = append(matches, cloneTransaction(txn))
	}

	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].Date.Equal(matches[j].Date) {
			return matches[i].Date.Before(matches[j].Date)
		}
		return matches[i].ID < matches[j].ID
	})

	ids := make([]string, len(matches))
	for i, t := range matches {
		ids[i] = t.ID
	}
	page, next, err := paginate(ids, pageSize, pageToken)
	if err != nil {
		return nil, "", err
	}
	result := make([]*model.Transaction, 0, len(page))
	for _, t := range matches {
		for _, id := range page {
			if t.ID == id {
				result = append(result, t)
				break
			}
		}
	}
	return result, next, nil
}

// CreateReceipt stores a receipt, assigning an ID if absent.
func (s *MemoryStore) CreateReceipt(_ context.Context, receipt *model.Receipt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if receipt.ID == "" {
		receipt.ID = uuid.New().String()
	}
	if _, exists := s.receipts[receipt.ID]; exists {
		return fmt.Errorf("receipt %s already exists", receipt.ID)
	}
	clone := *receipt
	s.receipts[receipt.ID] = &clone
	return nil
}

// ListReceipts lists a user's receipts in the optional date window.
func (s *MemoryStore) ListReceipts(_ context.Context, userID string, startDate, endDate *time.Time, pageSize int32, pageToken string) ([]*model.Receipt, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []*model.Receipt
	for _, r := range s.receipts {
		if userID != "" && r.UserID != userID {
			continue
		}
		if startDate != nil && r.Date.Before(*startDate) {
			continue
		}
		if endDate != nil && r.Date.After(*endDate) {
			continue
		}
		clone := *r
		matches = append(matches, &clone)
	}

	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].Date.Equal(matches[j].Date) {
			return matches[i].Date.Before(matches[j].Date)
		}
		return matches[i].ID < matches[j].ID
	})

	ids := make([]string, len(matches))
	for i, r := range matches {
		ids[i] = r.ID
	}
	page, next, err := paginate(ids, pageSize, pageToken)
	if err != nil {
		return nil, "", err
	}
	result := make([]*model.Receipt, 0, len(page))
	for _, r := range matches {
		for _, id := range page {
			if r.ID == id {
				result = append(result, r)
				break
			}
		}
	}
	return result, next, nil
}

// GetTaxProfile returns the user's profile, or (nil, nil) when none exists.
func (s *MemoryStore) GetTaxProfile(_ context.Context, userID string) (*model.TaxProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, ok := s.taxProfiles[userID]
	if !ok {
		return nil, nil
	}
	clone := *profile
	return &clone, nil
}

// UpdateTaxProfile upserts the user's profile.
func (s *MemoryStore) UpdateTaxProfile(_ context.Context, profile *model.TaxProfile) error {
	if profile.UserID == "" {
		return fmt.Errorf("tax profile missing user ID")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *profile
	s.taxProfiles[profile.UserID] = &clone
	return nil
}

// paginate applies cursor pagination over sorted IDs: skip past the cursor,
// take pageSize, and emit a next token when more remain.
func paginate(sortedIDs []string, pageSize int32, pageToken string) ([]string, string, error) {
	if pageSize <= 0 {
		pageSize = 100
	}
	start := 0
	if pageToken != "" {
		cursor, err := DecodePageToken(pageToken)
		if err != nil {
			return nil, "", fmt.Errorf("invalid page token: %w", err)
		}
		for i, id := range sortedIDs {
			if id == cursor {
				start = i + 1
				break
			}
		}
	}
	end := start + int(pageSize)
	if end >= len(sortedIDs) {
		return sortedIDs[start:], "", nil
	}
	page := sortedIDs[start:end]
	return page, EncodePageToken(page[len(page)-1]), nil
}

func cloneTransaction(txn *model.Transaction) *model.Transaction {
	clone := *txn
	return &clone
}
