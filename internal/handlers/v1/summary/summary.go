package summary

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/financas-pro/internal/logging"
	"github.com/carson-networks/financas-pro/internal/service"
)

// CategoryTotal is one row of the per-category breakdown.
type CategoryTotal struct {
	Type     string `json:"type" enum:"income,expense" doc:"Direction of the grouped transactions"`
	Category string `json:"category" doc:"Category name"`
	Total    string `json:"total" doc:"Decimal sum of the category"`
	Count    int    `json:"count" doc:"Number of transactions in the category"`
}

// SummaryResponseBody is the response body for the summary endpoint.
type SummaryResponseBody struct {
	TotalIncome   string          `json:"totalIncome" doc:"Exact decimal sum of income amounts"`
	TotalExpenses string          `json:"totalExpenses" doc:"Exact decimal sum of expense amounts"`
	TotalBalance  string          `json:"totalBalance" doc:"Income minus expenses, may be negative"`
	Categories    []CategoryTotal `json:"categories" doc:"Totals per type and category, income first, largest first"`
}

type SummaryOutput struct {
	Body SummaryResponseBody
}

type summaryReader interface {
	SummaryWithCategories() (service.FinanceSummary, []service.CategoryTotal)
}

// Handler handles GET /v1/summary.
type Handler struct {
	TransactionService summaryReader
}

func NewHandler(svc summaryReader) *Handler {
	return &Handler{TransactionService: svc}
}

func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-summary",
		Method:      http.MethodGet,
		Path:        "/v1/summary",
		Summary:     "Get summary",
		Description: "Returns total income, total expenses and balance computed from the current transactions.",
		Tags:        []string{"Summary"},
	}, h.handle)
}

func (h *Handler) handle(ctx context.Context, _ *struct{}) (*SummaryOutput, error) {
	summary, totals := h.TransactionService.SummaryWithCategories()

	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("categoryCount", len(totals))
	}

	resp := SummaryResponseBody{
		TotalIncome:   summary.TotalIncome.String(),
		TotalExpenses: summary.TotalExpenses.String(),
		TotalBalance:  summary.TotalBalance.String(),
		Categories:    make([]CategoryTotal, len(totals)),
	}
	for i, total := range totals {
		resp.Categories[i] = CategoryTotal{
			Type:     string(total.Type),
			Category: total.Category,
			Total:    total.Total.String(),
			Count:    total.Count,
		}
	}

	return &SummaryOutput{Body: resp}, nil
}
