package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/financas-pro/internal/logging"
	"github.com/carson-networks/financas-pro/internal/storage"
)

// DefaultStorageKey is the durable-storage key holding the whole collection.
const DefaultStorageKey = "financas_pro_transactions"

const maxIDAttempts = 5

var ErrIDGeneration = errors.New("could not generate a unique transaction id")

// TransactionService owns the transaction collection and mirrors it to a
// KeyValueStore. Every mutation builds the next collection, persists it, and
// only then makes it current, all under one lock.
type TransactionService struct {
	storage storage.KeyValueStore
	key     string
	logger  *logrus.Logger
	newID   func() (string, error)

	mu           sync.RWMutex
	transactions []Transaction
}

// NewTransactionService creates an empty TransactionService. Call Load to
// rehydrate it from storage.
func NewTransactionService(store storage.KeyValueStore, key string, logger *logrus.Logger) *TransactionService {
	if key == "" {
		key = DefaultStorageKey
	}
	return &TransactionService{
		storage: store,
		key:     key,
		logger:  logger,
		newID:   newUUID,
	}
}

func newUUID() (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Load replaces the collection with the stored one. A missing key leaves the
// collection as it is. A value that does not parse is logged and ignored;
// only a failing read is returned.
func (s *TransactionService) Load(ctx context.Context) error {
	stopTimer := storageTimer(ctx)
	value, ok, err := s.storage.Get(ctx, s.key)
	stopTimer()
	if err != nil {
		return fmt.Errorf("read transactions: %w", err)
	}
	if !ok {
		return nil
	}

	var loaded []Transaction
	if err := json.Unmarshal([]byte(value), &loaded); err != nil {
		s.logger.WithError(err).WithField("storageKey", s.key).Error("TransactionService.Load.decode")
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = loaded

	s.logger.WithField("transactionCount", len(loaded)).Info("TransactionService.Load.complete")
	return nil
}

// Add assigns a fresh ID to create and appends it to the collection. Fields
// are taken as given; only amounts beyond ErrAmountOutOfRange bounds are
// refused.
func (s *TransactionService) Add(ctx context.Context, create TransactionCreate) (Transaction, error) {
	if err := checkAmount(create.Amount); err != nil {
		return Transaction{}, err
	}
	amount := canonicalAmount(create.Amount)

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.uniqueID()
	if err != nil {
		return Transaction{}, err
	}

	transaction := Transaction{
		ID:          id,
		Description: create.Description,
		Amount:      amount,
		Type:        create.Type,
		Category:    create.Category,
		Date:        create.Date,
	}

	next := make([]Transaction, len(s.transactions), len(s.transactions)+1)
	copy(next, s.transactions)
	next = append(next, transaction)

	if err := s.persist(ctx, next); err != nil {
		return Transaction{}, err
	}
	s.transactions = next

	return transaction, nil
}

// Remove deletes the transaction with the given ID. Removing an unknown ID
// reports false and leaves everything untouched.
func (s *TransactionService) Remove(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := s.indexOf(id)
	if index < 0 {
		return false, nil
	}

	next := make([]Transaction, 0, len(s.transactions)-1)
	next = append(next, s.transactions[:index]...)
	next = append(next, s.transactions[index+1:]...)

	if err := s.persist(ctx, next); err != nil {
		return false, err
	}
	s.transactions = next

	return true, nil
}

// Clear drops every transaction and removes the stored value.
func (s *TransactionService) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stopTimer := storageTimer(ctx)
	err := s.storage.Delete(ctx, s.key)
	stopTimer()
	if err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}
	s.transactions = nil

	return nil
}

// List returns a copy of the collection in insertion order.
func (s *TransactionService) List() []Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Transaction(nil), s.transactions...)
}

// Find returns the transaction with the given ID.
func (s *TransactionService) Find(id string) (Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	index := s.indexOf(id)
	if index < 0 {
		return Transaction{}, false
	}
	return s.transactions[index], true
}

func (s *TransactionService) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.transactions)
}

// SummaryWithCategories computes the totals and the per-category breakdown
// of one snapshot of the collection, so both always agree.
func (s *TransactionService) SummaryWithCategories() (FinanceSummary, []CategoryTotal) {
	transactions := s.List()
	return Summarize(transactions), SummarizeByCategory(transactions)
}

// indexOf must be called with mu held.
func (s *TransactionService) indexOf(id string) int {
	for i, tx := range s.transactions {
		if tx.ID == id {
			return i
		}
	}
	return -1
}

// uniqueID must be called with mu held.
func (s *TransactionService) uniqueID() (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id, err := s.newID()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrIDGeneration, err)
		}
		if id != "" && s.indexOf(id) < 0 {
			return id, nil
		}
	}
	return "", ErrIDGeneration
}

func (s *TransactionService) persist(ctx context.Context, transactions []Transaction) error {
	if transactions == nil {
		transactions = []Transaction{}
	}

	data, err := json.Marshal(transactions)
	if err != nil {
		return fmt.Errorf("encode transactions: %w", err)
	}

	stopTimer := storageTimer(ctx)
	err = s.storage.Set(ctx, s.key, string(data))
	stopTimer()
	if err != nil {
		return fmt.Errorf("persist transactions: %w", err)
	}
	return nil
}

// storageTimer adds the time until the returned func is called to the
// request's storageMs, summed over every storage call of the request.
func storageTimer(ctx context.Context) func() {
	logData := logging.GetLogData(ctx)
	if logData == nil {
		return func() {}
	}
	return logData.AddToExistingTiming("storageMs")
}
