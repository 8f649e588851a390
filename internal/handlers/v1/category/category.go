package category

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/financas-pro/internal/service"
)

// ListCategoriesInput optionally narrows the suggestions to one type.
type ListCategoriesInput struct {
	Type string `query:"type" enum:"income,expense" doc:"Only return suggestions for this type"`
}

// ListCategoriesResponseBody holds the suggested categories per type. The
// suggestions are not enforced when creating transactions.
type ListCategoriesResponseBody struct {
	Income  []string `json:"income,omitempty" doc:"Suggested income categories"`
	Expense []string `json:"expense,omitempty" doc:"Suggested expense categories"`
}

type ListCategoriesOutput struct {
	Body ListCategoriesResponseBody
}

// Handler handles GET /v1/category.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-categories",
		Method:      http.MethodGet,
		Path:        "/v1/category",
		Summary:     "List suggested categories",
		Tags:        []string{"Categories"},
	}, h.handle)
}

func (h *Handler) handle(_ context.Context, input *ListCategoriesInput) (*ListCategoriesOutput, error) {
	var resp ListCategoriesResponseBody
	if input.Type == "" || input.Type == string(service.TransactionTypeIncome) {
		resp.Income = service.SuggestedCategories(service.TransactionTypeIncome)
	}
	if input.Type == "" || input.Type == string(service.TransactionTypeExpense) {
		resp.Expense = service.SuggestedCategories(service.TransactionTypeExpense)
	}
	return &ListCategoriesOutput{Body: resp}, nil
}
