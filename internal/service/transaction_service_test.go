package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/carson-networks/financas-pro/internal/logging"
	"github.com/carson-networks/financas-pro/internal/storage"
)

func newTestService(t *testing.T) (*TransactionService, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	return NewTransactionService(store, DefaultStorageKey, logging.Discard()), store
}

func newMockedService(t *testing.T) (*TransactionService, *storage.MockKeyValueStore) {
	t.Helper()
	store := storage.NewMockKeyValueStore(t)
	return NewTransactionService(store, DefaultStorageKey, logging.Discard()), store
}

func coffee() TransactionCreate {
	return TransactionCreate{
		Description: "Coffee",
		Amount:      decimal.NewFromInt(5),
		Type:        TransactionTypeExpense,
		Category:    "Alimentação",
		Date:        "2024-01-01",
	}
}

func ids(transactions []Transaction) []string {
	out := make([]string, len(transactions))
	for i, tx := range transactions {
		out[i] = tx.ID
	}
	return out
}

// -- Add tests --

func TestAdd_AssignsIDAndKeepsFields(t *testing.T) {
	svc, _ := newTestService(t)

	tx, err := svc.Add(context.Background(), coffee())

	assert.NoError(t, err)
	assert.NotEmpty(t, tx.ID)
	assert.Equal(t, "Coffee", tx.Description)
	assert.True(t, tx.Amount.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, TransactionTypeExpense, tx.Type)
	assert.Equal(t, "Alimentação", tx.Category)
	assert.Equal(t, "2024-01-01", tx.Date)

	list := svc.List()
	assert.Len(t, list, 1)
	assert.Equal(t, tx, list[0])
}

func TestAdd_UniqueIDsInInsertionOrder(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	seen := map[string]bool{}
	var added []string
	for i := 0; i < 50; i++ {
		create := coffee()
		create.Description = fmt.Sprintf("item %d", i)
		tx, err := svc.Add(ctx, create)
		assert.NoError(t, err)
		assert.False(t, seen[tx.ID], "duplicate id %s", tx.ID)
		seen[tx.ID] = true
		added = append(added, tx.ID)
	}

	assert.Equal(t, added, ids(svc.List()))
}

func TestAdd_AcceptsUnvalidatedInput(t *testing.T) {
	svc, _ := newTestService(t)

	tx, err := svc.Add(context.Background(), TransactionCreate{
		Amount: decimal.NewFromInt(-10),
		Type:   "transfer",
	})

	assert.NoError(t, err)
	assert.True(t, tx.Amount.Equal(decimal.NewFromInt(-10)))
	assert.Equal(t, 1, svc.Len())
}

func TestAdd_RegeneratesCollidingID(t *testing.T) {
	svc, _ := newTestService(t)
	generated := []string{"same", "same", "other"}
	svc.newID = func() (string, error) {
		id := generated[0]
		generated = generated[1:]
		return id, nil
	}

	first, err := svc.Add(context.Background(), coffee())
	assert.NoError(t, err)
	second, err := svc.Add(context.Background(), coffee())
	assert.NoError(t, err)

	assert.Equal(t, "same", first.ID)
	assert.Equal(t, "other", second.ID)
}

func TestAdd_IDGeneratorFailure(t *testing.T) {
	svc, _ := newTestService(t)
	svc.newID = func() (string, error) { return "", errors.New("entropy exhausted") }

	_, err := svc.Add(context.Background(), coffee())

	assert.ErrorIs(t, err, ErrIDGeneration)
	assert.Equal(t, 0, svc.Len())
}

func TestAdd_PersistsEveryMutation(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	tx, err := svc.Add(ctx, coffee())
	assert.NoError(t, err)

	value, ok, err := store.Get(ctx, DefaultStorageKey)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, fmt.Sprintf(
		`[{"id":%q,"description":"Coffee","amount":5,"type":"expense","category":"Alimentação","date":"2024-01-01"}]`,
		tx.ID), value)
}

func TestAdd_PersistFailureLeavesCollectionUnchanged(t *testing.T) {
	svc, store := newMockedService(t)

	store.EXPECT().Set(mock.Anything, DefaultStorageKey, mock.Anything).Return(errors.New("quota exceeded"))

	_, err := svc.Add(context.Background(), coffee())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Equal(t, 0, svc.Len())
}

// -- Remove tests --

func TestRemove_KeepsSurvivorOrder(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	var added []string
	for i := 0; i < 5; i++ {
		tx, err := svc.Add(ctx, coffee())
		assert.NoError(t, err)
		added = append(added, tx.ID)
	}

	removed, err := svc.Remove(ctx, added[1])
	assert.NoError(t, err)
	assert.True(t, removed)
	removed, err = svc.Remove(ctx, added[3])
	assert.NoError(t, err)
	assert.True(t, removed)

	assert.Equal(t, []string{added[0], added[2], added[4]}, ids(svc.List()))
}

func TestRemove_Idempotent(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tx, _ := svc.Add(ctx, coffee())
	other, _ := svc.Add(ctx, coffee())

	removed, err := svc.Remove(ctx, tx.ID)
	assert.NoError(t, err)
	assert.True(t, removed)
	after := svc.List()

	removed, err = svc.Remove(ctx, tx.ID)
	assert.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, after, svc.List())
	assert.Equal(t, []string{other.ID}, ids(svc.List()))
}

func TestRemove_UnknownIDDoesNotWrite(t *testing.T) {
	svc, _ := newMockedService(t)

	removed, err := svc.Remove(context.Background(), "missing")

	assert.NoError(t, err)
	assert.False(t, removed)
}

func TestRemove_PersistFailureKeepsTransaction(t *testing.T) {
	svc, store := newMockedService(t)
	ctx := context.Background()

	store.EXPECT().Set(mock.Anything, DefaultStorageKey, mock.Anything).Return(nil).Once()
	tx, err := svc.Add(ctx, coffee())
	assert.NoError(t, err)

	store.EXPECT().Set(mock.Anything, DefaultStorageKey, "[]").Return(errors.New("disk full")).Once()
	removed, err := svc.Remove(ctx, tx.ID)

	assert.Error(t, err)
	assert.False(t, removed)
	_, found := svc.Find(tx.ID)
	assert.True(t, found)
}

// -- Load tests --

func TestLoad_RoundTrip(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	for _, create := range []TransactionCreate{
		{Description: "Salário", Amount: decimal.RequireFromString("1000.00"), Type: TransactionTypeIncome, Category: "Salário", Date: "2024-01-05"},
		{Description: "Aluguel", Amount: decimal.RequireFromString("300.50"), Type: TransactionTypeExpense, Category: "Moradia", Date: "2024-01-06"},
		{Description: "Cinema", Amount: decimal.RequireFromString("0.1"), Type: TransactionTypeExpense, Category: "Lazer", Date: "2024-01-07"},
	} {
		_, err := svc.Add(ctx, create)
		assert.NoError(t, err)
	}

	reloaded := NewTransactionService(store, DefaultStorageKey, logging.Discard())
	assert.NoError(t, reloaded.Load(ctx))

	assert.Equal(t, svc.List(), reloaded.List())
}

func TestLoad_MissingKeyLeavesEmpty(t *testing.T) {
	svc, _ := newTestService(t)

	assert.NoError(t, svc.Load(context.Background()))
	assert.Empty(t, svc.List())
}

func TestLoad_MalformedValueIsIgnored(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	assert.NoError(t, store.Set(ctx, DefaultStorageKey, "not json"))

	assert.NoError(t, svc.Load(ctx))
	assert.Empty(t, svc.List())
}

func TestLoad_BadAmountIsMalformed(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	assert.NoError(t, store.Set(ctx, DefaultStorageKey, `[{"id":"a","amount":"lots","type":"income"}]`))

	assert.NoError(t, svc.Load(ctx))
	assert.Empty(t, svc.List())
}

func TestLoad_AcceptsStringAmounts(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	assert.NoError(t, store.Set(ctx, DefaultStorageKey,
		`[{"id":"a1b2c3d","description":"Freela","amount":"250.75","type":"income","category":"Outros","date":"2024-02-01"}]`))

	assert.NoError(t, svc.Load(ctx))

	tx, ok := svc.Find("a1b2c3d")
	assert.True(t, ok)
	assert.True(t, tx.Amount.Equal(decimal.RequireFromString("250.75")))
	assert.Equal(t, TransactionTypeIncome, tx.Type)
}

func TestLoad_StorageError(t *testing.T) {
	svc, store := newMockedService(t)

	store.EXPECT().Get(mock.Anything, DefaultStorageKey).Return("", false, errors.New("connection refused"))

	err := svc.Load(context.Background())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

// -- Clear tests --

func TestClear_RemovesEverything(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	_, _ = svc.Add(ctx, coffee())

	assert.NoError(t, svc.Clear(ctx))

	assert.Equal(t, 0, svc.Len())
	_, ok, err := store.Get(ctx, DefaultStorageKey)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestClear_StorageError(t *testing.T) {
	svc, store := newMockedService(t)
	ctx := context.Background()

	store.EXPECT().Set(mock.Anything, DefaultStorageKey, mock.Anything).Return(nil)
	_, _ = svc.Add(ctx, coffee())

	store.EXPECT().Delete(mock.Anything, DefaultStorageKey).Return(errors.New("read-only"))
	assert.Error(t, svc.Clear(ctx))
	assert.Equal(t, 1, svc.Len())
}

// -- Categories tests --

func TestSuggestedCategories_ReturnsCopy(t *testing.T) {
	categories := SuggestedCategories(TransactionTypeExpense)
	assert.Contains(t, categories, "Alimentação")

	categories[0] = "changed"
	assert.NotEqual(t, "changed", SuggestedCategories(TransactionTypeExpense)[0])
	assert.Empty(t, SuggestedCategories("transfer"))
}

// -- Amount bounds tests --

func TestAdd_RejectsHugeExponent(t *testing.T) {
	svc, _ := newMockedService(t)
	create := coffee()
	create.Amount = decimal.RequireFromString("1e2000000")

	_, err := svc.Add(context.Background(), create)

	assert.ErrorIs(t, err, ErrAmountOutOfRange)
	assert.Equal(t, 0, svc.Len())
}

func TestAdd_RejectsTinyExponent(t *testing.T) {
	svc, _ := newMockedService(t)
	create := coffee()
	create.Amount = decimal.RequireFromString("1e-2000000")

	_, err := svc.Add(context.Background(), create)

	assert.ErrorIs(t, err, ErrAmountOutOfRange)
}

func TestLoad_HugeExponentIsMalformed(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	assert.NoError(t, store.Set(ctx, DefaultStorageKey, `[{"id":"a","amount":1e2000000,"type":"income"}]`))

	assert.NoError(t, svc.Load(ctx))
	assert.Empty(t, svc.List())
}

// -- Summary tests --

func TestSummaryWithCategories_OneSnapshot(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, _ = svc.Add(ctx, TransactionCreate{Amount: decimal.NewFromInt(1000), Type: TransactionTypeIncome, Category: "Salário"})
	_, _ = svc.Add(ctx, TransactionCreate{Amount: decimal.NewFromInt(450), Type: TransactionTypeExpense, Category: "Moradia"})

	summary, totals := svc.SummaryWithCategories()

	assert.True(t, summary.TotalBalance.Equal(decimal.NewFromInt(550)))
	if assert.Len(t, totals, 2) {
		assert.True(t, totals[0].Total.Equal(summary.TotalIncome))
		assert.True(t, totals[1].Total.Equal(summary.TotalExpenses))
	}
}

// -- Logging tests --

func TestStorageTimingAccumulates(t *testing.T) {
	svc, _ := newTestService(t)
	logData := logging.NewLogData(logging.Discard())
	ctx := logging.WithLogData(context.Background(), logData)

	tx, err := svc.Add(ctx, coffee())
	assert.NoError(t, err)
	_, err = svc.Remove(ctx, tx.ID)
	assert.NoError(t, err)

	assert.Contains(t, logData.Log().Data, "storageMs")
}
