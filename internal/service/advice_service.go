package service

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Advisor turns a transaction collection into budgeting advice.
type Advisor interface {
	Advise(ctx context.Context, transactions []Transaction) (string, error)
}

// AdviceState is a snapshot of the advice requester.
type AdviceState struct {
	Loading   bool
	Advice    string
	LastError string
	RequestID uint64
	UpdatedAt time.Time
}

// AdviceService runs at most one advice request at a time. Every request is
// tagged with an ID; a response is applied only if its ID is still the
// latest, so Reset discards whatever is in flight.
//
// At most one advisor call is outstanding. A request made after Reset while
// the discarded call is still running is queued and started once that call
// returns.
type AdviceService struct {
	advisor Advisor
	logger  *logrus.Logger
	now     func() time.Time

	mu        sync.Mutex
	loading   bool
	busy      bool
	pending   *adviceCall
	latestID  uint64
	advice    string
	lastErr   error
	updatedAt time.Time

	inFlight sync.WaitGroup
}

type adviceCall struct {
	id       uint64
	ctx      context.Context
	snapshot []Transaction
}

func NewAdviceService(advisor Advisor, logger *logrus.Logger) *AdviceService {
	return &AdviceService{
		advisor: advisor,
		logger:  logger,
		now:     time.Now,
	}
}

// RequestAdvice starts a request for a snapshot of transactions and returns
// its ID. While a request is loading, further calls start nothing and return
// the ID of the one in flight with started == false.
//
// The advisor call runs in the background and outlives ctx cancellation;
// values carried by ctx are kept.
func (s *AdviceService) RequestAdvice(ctx context.Context, transactions []Transaction) (requestID uint64, started bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loading {
		s.logger.WithField("requestID", s.latestID).Info("AdviceService.RequestAdvice.suppressed")
		return s.latestID, false
	}
	s.latestID++
	s.loading = true

	call := &adviceCall{
		id:       s.latestID,
		ctx:      context.WithoutCancel(ctx),
		snapshot: append([]Transaction(nil), transactions...),
	}

	entry := s.logger.WithFields(logrus.Fields{
		"requestID":        call.id,
		"transactionCount": len(call.snapshot),
	})
	if s.busy {
		s.pending = call
		entry.Info("AdviceService.RequestAdvice.queued")
		return call.id, true
	}
	entry.Info("AdviceService.RequestAdvice.start")
	s.startLocked(call)

	return call.id, true
}

// startLocked must be called with mu held.
func (s *AdviceService) startLocked(call *adviceCall) {
	s.busy = true
	s.inFlight.Add(1)
	go func() {
		defer s.inFlight.Done()
		startTime := time.Now()
		advice, err := s.advisor.Advise(call.ctx, call.snapshot)
		s.complete(call.id, advice, err, time.Since(startTime))
	}()
}

func (s *AdviceService) complete(requestID uint64, advice string, err error, took time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.busy = false
	if next := s.pending; next != nil {
		s.pending = nil
		s.logger.WithField("requestID", next.id).Info("AdviceService.RequestAdvice.start")
		s.startLocked(next)
	}

	entry := s.logger.WithFields(logrus.Fields{
		"requestID":  requestID,
		"durationMs": took.Milliseconds(),
	})

	if requestID != s.latestID {
		entry.WithField("latestRequestID", s.latestID).Warn("AdviceService.RequestAdvice.stale")
		return
	}

	s.loading = false
	s.updatedAt = s.now()

	// A failure keeps the previous advice.
	if err != nil {
		s.lastErr = err
		entry.WithError(err).Error("AdviceService.RequestAdvice.error")
		return
	}

	s.advice = advice
	s.lastErr = nil
	entry.Info("AdviceService.RequestAdvice.complete")
}

// Reset clears the advice and invalidates any request in flight. A queued
// request that has not reached the advisor is dropped.
func (s *AdviceService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.latestID++
	s.loading = false
	s.pending = nil
	s.advice = ""
	s.lastErr = nil
	s.updatedAt = time.Time{}
}

func (s *AdviceService) State() AdviceState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := AdviceState{
		Loading:   s.loading,
		Advice:    s.advice,
		RequestID: s.latestID,
		UpdatedAt: s.updatedAt,
	}
	if s.lastErr != nil {
		state.LastError = s.lastErr.Error()
	}
	return state
}

// Wait blocks until every background request has returned.
func (s *AdviceService) Wait() {
	s.inFlight.Wait()
}
