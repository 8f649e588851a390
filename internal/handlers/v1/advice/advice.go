package advice

import (
	"context"
	"time"

	"github.com/carson-networks/financas-pro/internal/service"
)

// State is the API model of the advice requester.
type State struct {
	Loading   bool   `json:"loading" doc:"A request is in flight"`
	Advice    string `json:"advice,omitempty" doc:"Latest advice, absent until one arrives"`
	LastError string `json:"lastError,omitempty" doc:"Why the latest request failed; the previous advice is kept"`
	RequestID uint64 `json:"requestID" doc:"ID of the latest request"`
	UpdatedAt string `json:"updatedAt,omitempty" format:"date-time" doc:"When the latest request resolved"`
}

func toAPIState(state service.AdviceState) State {
	out := State{
		Loading:   state.Loading,
		Advice:    state.Advice,
		LastError: state.LastError,
		RequestID: state.RequestID,
	}
	if !state.UpdatedAt.IsZero() {
		out.UpdatedAt = state.UpdatedAt.Format(time.RFC3339)
	}
	return out
}

type stateReader interface {
	State() service.AdviceState
}

type adviceRequester interface {
	stateReader
	RequestAdvice(ctx context.Context, transactions []service.Transaction) (uint64, bool)
}

type adviceResetter interface {
	stateReader
	Reset()
}

type transactionLister interface {
	List() []service.Transaction
}
