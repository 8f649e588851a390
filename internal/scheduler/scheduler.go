// Package scheduler refreshes the budgeting advice on a cron schedule.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/financas-pro/internal/service"
)

type transactionLister interface {
	List() []service.Transaction
}

type adviceRequester interface {
	RequestAdvice(ctx context.Context, transactions []service.Transaction) (uint64, bool)
}

// AdviceRefresher requests new advice on every tick of its schedule. Ticks
// with no transactions are skipped, and a tick that lands while a request is
// loading is suppressed like any other trigger.
type AdviceRefresher struct {
	cron         *cron.Cron
	transactions transactionLister
	advice       adviceRequester
	logger       *logrus.Logger
}

// NewAdviceRefresher parses schedule as a standard five-field cron
// expression.
func NewAdviceRefresher(schedule string, transactions transactionLister, advice adviceRequester, logger *logrus.Logger) (*AdviceRefresher, error) {
	r := &AdviceRefresher{
		cron:         cron.New(),
		transactions: transactions,
		advice:       advice,
		logger:       logger,
	}

	if _, err := r.cron.AddFunc(schedule, r.Refresh); err != nil {
		return nil, fmt.Errorf("schedule advice refresh %q: %w", schedule, err)
	}
	return r, nil
}

// Refresh runs one tick.
func (r *AdviceRefresher) Refresh() {
	transactions := r.transactions.List()
	if len(transactions) == 0 {
		r.logger.Debug("AdviceRefresher.Refresh.empty")
		return
	}

	requestID, started := r.advice.RequestAdvice(context.Background(), transactions)
	r.logger.WithFields(logrus.Fields{
		"requestID": requestID,
		"started":   started,
	}).Info("AdviceRefresher.Refresh")
}

func (r *AdviceRefresher) Start() {
	r.cron.Start()
	r.logger.Info("AdviceRefresher.Start")
}

// Stop halts the schedule and waits for a running tick to return.
func (r *AdviceRefresher) Stop() {
	<-r.cron.Stop().Done()
	r.logger.Info("AdviceRefresher.Stop")
}
