package advice

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

type GetAdviceOutput struct {
	Body State
}

// GetAdviceHandler handles GET /v1/advice.
type GetAdviceHandler struct {
	AdviceService stateReader
}

func NewGetAdviceHandler(svc stateReader) *GetAdviceHandler {
	return &GetAdviceHandler{AdviceService: svc}
}

func (h *GetAdviceHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-advice",
		Method:      http.MethodGet,
		Path:        "/v1/advice",
		Summary:     "Get advice",
		Tags:        []string{"Advice"},
	}, h.handle)
}

func (h *GetAdviceHandler) handle(_ context.Context, _ *struct{}) (*GetAdviceOutput, error) {
	return &GetAdviceOutput{Body: toAPIState(h.AdviceService.State())}, nil
}
