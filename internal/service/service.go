package service

import (
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/financas-pro/internal/storage"
)

// Service holds all business logic services.
type Service struct {
	Transaction *TransactionService
	Advice      *AdviceService
}

// NewService creates a Service over the given storage and advisor.
func NewService(store storage.KeyValueStore, storageKey string, advisor Advisor, logger *logrus.Logger) *Service {
	return &Service{
		Transaction: NewTransactionService(store, storageKey, logger),
		Advice:      NewAdviceService(advisor, logger),
	}
}
