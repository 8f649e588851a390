package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/financas-pro/internal/logging"
)

// DeleteTransactionInput is the Huma input for deleting one transaction.
type DeleteTransactionInput struct {
	ID string `path:"id" doc:"Transaction ID"`
}

type transactionRemover interface {
	Remove(ctx context.Context, id string) (bool, error)
}

// DeleteTransactionHandler handles DELETE /v1/transaction/{id}. Deleting an
// unknown ID succeeds and changes nothing.
type DeleteTransactionHandler struct {
	TransactionService transactionRemover
}

func NewDeleteTransactionHandler(svc transactionRemover) *DeleteTransactionHandler {
	return &DeleteTransactionHandler{TransactionService: svc}
}

func (h *DeleteTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "delete-transaction",
		Method:        http.MethodDelete,
		Path:          "/v1/transaction/{id}",
		Summary:       "Delete transaction",
		Description:   "Removes the transaction with the given ID, if present.",
		Tags:          []string{"Transactions"},
		DefaultStatus: http.StatusNoContent,
	}, h.handle)
}

func (h *DeleteTransactionHandler) handle(ctx context.Context, input *DeleteTransactionInput) (*struct{}, error) {
	removed, err := h.TransactionService.Remove(ctx, input.ID)
	if err != nil {
		return nil, huma.NewError(http.StatusInternalServerError, "failed to delete transaction", err)
	}

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("transactionID", input.ID)
		logData.AddData("removed", removed)
	}

	return nil, nil
}
