package status

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/carson-networks/financas-pro/internal/logging"
	"github.com/carson-networks/financas-pro/internal/service"
)

type transactionCounter interface {
	Len() int
}

type adviceStater interface {
	State() service.AdviceState
}

type statusResponse struct {
	Status           string `json:"status"`
	TransactionCount int    `json:"transactionCount"`
	AdviceLoading    bool   `json:"adviceLoading"`
}

type Handler struct {
	Transactions transactionCounter
	Advice       adviceStater
}

func NewHandler(transactions transactionCounter, advice adviceStater) Handler {
	return Handler{Transactions: transactions, Advice: advice}
}

func (h *Handler) Handler(w http.ResponseWriter, req *http.Request, logData *logging.LogData) error {
	if req.Method != "GET" {
		w.WriteHeader(http.StatusBadRequest)
		return errors.New("status: method not GET")
	}

	resp := statusResponse{
		Status:           "ok",
		TransactionCount: h.Transactions.Len(),
		AdviceLoading:    h.Advice.State().Loading,
	}
	logData.AddData("transactionCount", resp.TransactionCount)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	return json.NewEncoder(w).Encode(resp)
}
