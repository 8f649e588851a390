package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

type transactionClearer interface {
	Clear(ctx context.Context) error
}

// ClearTransactionsHandler handles DELETE /v1/transaction.
type ClearTransactionsHandler struct {
	TransactionService transactionClearer
}

func NewClearTransactionsHandler(svc transactionClearer) *ClearTransactionsHandler {
	return &ClearTransactionsHandler{TransactionService: svc}
}

func (h *ClearTransactionsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "clear-transactions",
		Method:        http.MethodDelete,
		Path:          "/v1/transaction",
		Summary:       "Clear transactions",
		Description:   "Removes every transaction together with its stored copy.",
		Tags:          []string{"Transactions"},
		DefaultStatus: http.StatusNoContent,
	}, h.handle)
}

func (h *ClearTransactionsHandler) handle(ctx context.Context, _ *struct{}) (*struct{}, error) {
	if err := h.TransactionService.Clear(ctx); err != nil {
		return nil, huma.NewError(http.StatusInternalServerError, "failed to clear transactions", err)
	}
	return nil, nil
}
