package advice

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// DismissAdviceHandler handles DELETE /v1/advice. A request still in flight
// is invalidated and its response will be discarded.
type DismissAdviceHandler struct {
	AdviceService adviceResetter
}

func NewDismissAdviceHandler(svc adviceResetter) *DismissAdviceHandler {
	return &DismissAdviceHandler{AdviceService: svc}
}

func (h *DismissAdviceHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "dismiss-advice",
		Method:        http.MethodDelete,
		Path:          "/v1/advice",
		Summary:       "Dismiss advice",
		Tags:          []string{"Advice"},
		DefaultStatus: http.StatusNoContent,
	}, h.handle)
}

func (h *DismissAdviceHandler) handle(_ context.Context, _ *struct{}) (*struct{}, error) {
	h.AdviceService.Reset()
	return nil, nil
}
