package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/financas-pro/internal/logging"
	"github.com/carson-networks/financas-pro/internal/service"
)

const (
	maxAmountDecimals = 2
	maxAmountDigits   = 17
)

// CreateTransactionBody is the request body for creating a transaction.
type CreateTransactionBody struct {
	Description string `json:"description" required:"true" minLength:"1" doc:"What the money was for"`
	Amount      string `json:"amount" required:"true" maxLength:"18" pattern:"^[0-9]{1,15}(\\.[0-9]{1,2})?$" doc:"Non-negative decimal amount with at most two decimal places"`
	Type        string `json:"type" required:"true" enum:"income,expense" doc:"Direction of the money movement"`
	Category    string `json:"category" required:"true" minLength:"1" doc:"Category, see GET /v1/category for suggestions"`
	Date        string `json:"date" required:"true" format:"date" doc:"Calendar date, YYYY-MM-DD"`
}

// CreateTransactionInput is the Huma input for creating a transaction.
type CreateTransactionInput struct {
	Body CreateTransactionBody
}

// CreateTransactionOutput is the Huma output for creating a transaction.
type CreateTransactionOutput struct {
	Body Transaction
}

// transactionCreator is the interface for creating transactions.
type transactionCreator interface {
	Add(ctx context.Context, create service.TransactionCreate) (service.Transaction, error)
}

// CreateTransactionHandler handles POST /v1/transaction.
type CreateTransactionHandler struct {
	TransactionService transactionCreator
}

// NewCreateTransactionHandler creates a new CreateTransactionHandler.
func NewCreateTransactionHandler(svc transactionCreator) *CreateTransactionHandler {
	return &CreateTransactionHandler{TransactionService: svc}
}

// Register registers the create transaction endpoint with the Huma API.
func (h *CreateTransactionHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-transaction",
		Method:        http.MethodPost,
		Path:          "/v1/transaction",
		Summary:       "Create transaction",
		Description:   "Records a new income or expense and returns it with its assigned ID.",
		Tags:          []string{"Transactions"},
		DefaultStatus: http.StatusCreated,
	}, h.handle)
}

// parseCreateTransactionInput parses and validates the fields the schema
// cannot check on its own.
func parseCreateTransactionInput(input *CreateTransactionInput) (service.TransactionCreate, error) {
	amount, err := decimal.NewFromString(input.Body.Amount)
	if err != nil {
		return service.TransactionCreate{}, huma.NewError(http.StatusBadRequest, "invalid amount", err)
	}
	if amount.IsNegative() {
		return service.TransactionCreate{}, huma.NewError(http.StatusBadRequest, "amount must be non-negative")
	}
	if amount.Exponent() > 0 || amount.Exponent() < -maxAmountDecimals || amount.NumDigits() > maxAmountDigits {
		return service.TransactionCreate{}, huma.NewError(http.StatusBadRequest, "amount must have at most 15 integer digits and 2 decimal places")
	}

	return service.TransactionCreate{
		Description: input.Body.Description,
		Amount:      amount,
		Type:        service.TransactionType(input.Body.Type),
		Category:    input.Body.Category,
		Date:        input.Body.Date,
	}, nil
}

func (h *CreateTransactionHandler) handle(ctx context.Context, input *CreateTransactionInput) (*CreateTransactionOutput, error) {
	logData := logging.GetLogData(ctx)
	create, err := parseCreateTransactionInput(input)
	if err != nil {
		return nil, err
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("addTransactionMs")
	}
	tx, err := h.TransactionService.Add(ctx, create)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, huma.NewError(http.StatusInternalServerError, "failed to create transaction", err)
	}

	if logData != nil {
		logData.AddData("transactionID", tx.ID)
	}

	return &CreateTransactionOutput{Body: toAPITransaction(tx)}, nil
}
