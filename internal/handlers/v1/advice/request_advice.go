package advice

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/financas-pro/internal/logging"
)

// RequestAdviceResponseBody reports whether this call started a request.
type RequestAdviceResponseBody struct {
	Started bool  `json:"started" doc:"False when a request was already in flight"`
	State   State `json:"state"`
}

type RequestAdviceOutput struct {
	Body RequestAdviceResponseBody
}

// RequestAdviceHandler handles POST /v1/advice. It refuses to ask for advice
// while there are no transactions.
type RequestAdviceHandler struct {
	AdviceService      adviceRequester
	TransactionService transactionLister
}

func NewRequestAdviceHandler(advice adviceRequester, transactions transactionLister) *RequestAdviceHandler {
	return &RequestAdviceHandler{AdviceService: advice, TransactionService: transactions}
}

func (h *RequestAdviceHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "request-advice",
		Method:        http.MethodPost,
		Path:          "/v1/advice",
		Summary:       "Request advice",
		Description:   "Starts generating budgeting advice for the current transactions. Poll GET /v1/advice for the result.",
		Tags:          []string{"Advice"},
		DefaultStatus: http.StatusAccepted,
	}, h.handle)
}

func (h *RequestAdviceHandler) handle(ctx context.Context, _ *struct{}) (*RequestAdviceOutput, error) {
	transactions := h.TransactionService.List()
	if len(transactions) == 0 {
		return nil, huma.NewError(http.StatusConflict, "add a transaction before requesting advice")
	}

	requestID, started := h.AdviceService.RequestAdvice(ctx, transactions)

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("requestID", requestID)
		logData.AddData("started", started)
		logData.AddData("transactionCount", len(transactions))
	}

	return &RequestAdviceOutput{Body: RequestAdviceResponseBody{
		Started: started,
		State:   toAPIState(h.AdviceService.State()),
	}}, nil
}
