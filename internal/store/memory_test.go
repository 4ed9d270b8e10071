package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taaxdog/backend/internal/model"
)

func storeTxn(id, userID string, date time.Time) *model.Transaction {
	return &model.Transaction{
		ID:          id,
		UserID:      userID,
		AmountCents: 1000,
		Direction:   model.DirectionDebit,
		Description: "COLES",
		Date:        date,
	}
}

func TestMemoryStoreTransactionLifecycle(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	date := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

	txn := storeTxn("", "user-1", date)
	require.NoError(t, s.CreateTransaction(ctx, txn))
	require.NotEmpty(t, txn.ID, "create should assign an ID")

	got, err := s.GetTransaction(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, "COLES", got.Description)
	assert.False(t, got.CreatedAt.IsZero())

	got.Description = "COLES UPDATED"
	require.NoError(t, s.UpdateTransaction(ctx, got))

	updated, err := s.GetTransaction(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, "COLES UPDATED", updated.Description)

	require.NoError(t, s.DeleteTransaction(ctx, txn.ID))
	_, err = s.GetTransaction(ctx, txn.ID)
	assert.Error(t, err)
}

func TestMemoryStoreCreateDuplicateFails(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	date := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.CreateTransaction(ctx, storeTxn("fixed-id", "user-1", date)))
	assert.Error(t, s.CreateTransaction(ctx, storeTxn("fixed-id", "user-1", date)))
}

func TestMemoryStoreListFiltersAndOrder(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	dates := []time.Time{
		time.Date(2025, 8, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 8, 2, 0, 0, 0, 0, time.UTC),
	}
	for i, d := range dates {
		require.NoError(t, s.CreateTransaction(ctx, storeTxn(fmt.Sprintf("t%d", i), "user-1", d)))
	}
	require.NoError(t, s.CreateTransaction(ctx,
		storeTxn("other", "user-2", time.Date(2025, 8, 2, 0, 0, 0, 0, time.UTC))))

	txns, next, err := s.ListTransactions(ctx, "user-1", nil, nil, 10, "")
	require.NoError(t, err)
	assert.Empty(t, next)
	require.Len(t, txns, 3)
	assert.True(t, txns[0].Date.Before(txns[1].Date), "results must be date ordered")
	assert.True(t, txns[1].Date.Before(txns[2].Date))

	start := time.Date(2025, 8, 2, 0, 0, 0, 0, time.UTC)
	windowed, _, err := s.ListTransactions(ctx, "user-1", &start, nil, 10, "")
	require.NoError(t, err)
	assert.Len(t, windowed, 2)
}

func TestMemoryStoreListPagination(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		d := time.Date(2025, 8, i+1, 0, 0, 0, 0, time.UTC)
		require.NoError(t, s.CreateTransaction(ctx, storeTxn(fmt.Sprintf("t%d", i), "user-1", d)))
	}

	var all []*model.Transaction
	pageToken := ""
	pages := 0
	for {
		page, next, err := s.ListTransactions(ctx, "user-1", nil, nil, 2, pageToken)
		require.NoError(t, err)
		all = append(all, page...)
		pages++
		if next == "" {
			break
		}
		pageToken = next
	}
	assert.Equal(t, 3, pages)
	require.Len(t, all, 5)
	seen := make(map[string]bool)
	for _, txn := range all {
		assert.False(t, seen[txn.ID], "pagination must not repeat %s", txn.ID)
		seen[txn.ID] = true
	}
}

func TestMemoryStoreReceipts(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	r := &model.Receipt{
		UserID:           "user-1",
		MerchantName:     "Officeworks",
		TotalAmountCents: 9900,
		Date:             time.Date(2025, 8, 5, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.CreateReceipt(ctx, r))
	require.NotEmpty(t, r.ID)

	receipts, _, err := s.ListReceipts(ctx, "user-1", nil, nil, 10, "")
	require.NoError(t, err)
	require.Len(t, receipts, 1)
	assert.Equal(t, "Officeworks", receipts[0].MerchantName)
}

func TestMemoryStoreTaxProfile(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	profile, err := s.GetTaxProfile(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, profile, "missing profile is (nil, nil), not an error")

	require.NoError(t, s.UpdateTaxProfile(ctx, &model.TaxProfile{
		UserID:        "user-1",
		GSTRegistered: true,
	}))

	profile, err = s.GetTaxProfile(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.True(t, profile.GSTRegistered)

	assert.Error(t, s.UpdateTaxProfile(ctx, &model.TaxProfile{}), "profile needs a user ID")
}

func TestPageTokenRoundTrip(t *testing.T) {
	token := EncodePageToken("doc-123")
	require.NotEmpty(t, token)
	id, err := DecodePageToken(token)
	require.NoError(t, err)
	assert.Equal(t, "doc-123", id)

	_, err = DecodePageToken("%%%not-base64%%%")
	assert.Error(t, err)
}
