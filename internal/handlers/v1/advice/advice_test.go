package advice

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/carson-networks/financas-pro/internal/logging"
	"github.com/carson-networks/financas-pro/internal/service"
	"github.com/carson-networks/financas-pro/internal/storage"
)

type mockAdviceService struct {
	mock.Mock
}

func (m *mockAdviceService) State() service.AdviceState {
	return m.Called().Get(0).(service.AdviceState)
}

func (m *mockAdviceService) RequestAdvice(ctx context.Context, transactions []service.Transaction) (uint64, bool) {
	args := m.Called(ctx, transactions)
	return args.Get(0).(uint64), args.Bool(1)
}

func (m *mockAdviceService) Reset() {
	m.Called()
}

type mockTransactionLister struct {
	mock.Mock
}

func (m *mockTransactionLister) List() []service.Transaction {
	txs, _ := m.Called().Get(0).([]service.Transaction)
	return txs
}

func newTestAPI(t *testing.T, advice *mockAdviceService, transactions *mockTransactionLister) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewRequestAdviceHandler(advice, transactions).Register(api)
	NewGetAdviceHandler(advice).Register(api)
	NewDismissAdviceHandler(advice).Register(api)
	return api
}

func sampleTransactions() []service.Transaction {
	return []service.Transaction{
		{ID: "a", Amount: decimal.NewFromInt(1000), Type: service.TransactionTypeIncome, Category: "Salário"},
	}
}

func TestHTTP_RequestAdvice_Started(t *testing.T) {
	adviceSvc := new(mockAdviceService)
	lister := new(mockTransactionLister)
	lister.On("List").Return(sampleTransactions())
	adviceSvc.On("RequestAdvice", mock.Anything, sampleTransactions()).Return(uint64(1), true)
	adviceSvc.On("State").Return(service.AdviceState{Loading: true, RequestID: 1})

	resp := newTestAPI(t, adviceSvc, lister).Post("/v1/advice")

	assert.Equal(t, http.StatusAccepted, resp.Code)
	var body RequestAdviceResponseBody
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Started)
	assert.True(t, body.State.Loading)
	assert.Equal(t, uint64(1), body.State.RequestID)
	adviceSvc.AssertExpectations(t)
}

func TestHTTP_RequestAdvice_AlreadyLoading(t *testing.T) {
	adviceSvc := new(mockAdviceService)
	lister := new(mockTransactionLister)
	lister.On("List").Return(sampleTransactions())
	adviceSvc.On("RequestAdvice", mock.Anything, mock.Anything).Return(uint64(4), false)
	adviceSvc.On("State").Return(service.AdviceState{Loading: true, RequestID: 4})

	resp := newTestAPI(t, adviceSvc, lister).Post("/v1/advice")

	assert.Equal(t, http.StatusAccepted, resp.Code)
	var body RequestAdviceResponseBody
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Started)
	assert.Equal(t, uint64(4), body.State.RequestID)
}

func TestHTTP_RequestAdvice_NoTransactions(t *testing.T) {
	adviceSvc := new(mockAdviceService)
	lister := new(mockTransactionLister)
	lister.On("List").Return(nil)

	resp := newTestAPI(t, adviceSvc, lister).Post("/v1/advice")

	assert.Equal(t, http.StatusConflict, resp.Code)
	adviceSvc.AssertNotCalled(t, "RequestAdvice", mock.Anything, mock.Anything)
}

func TestHTTP_GetAdvice(t *testing.T) {
	adviceSvc := new(mockAdviceService)
	adviceSvc.On("State").Return(service.AdviceState{
		Advice:    "Guarde 20% da renda.",
		LastError: "ollama API error: 500 - boom",
		RequestID: 3,
		UpdatedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	})

	resp := newTestAPI(t, adviceSvc, new(mockTransactionLister)).Get("/v1/advice")

	assert.Equal(t, http.StatusOK, resp.Code)
	var body State
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body.Loading)
	assert.Equal(t, "Guarde 20% da renda.", body.Advice)
	assert.Equal(t, "ollama API error: 500 - boom", body.LastError)
	assert.Equal(t, "2024-01-01T12:00:00Z", body.UpdatedAt)
}

func TestHTTP_GetAdvice_Idle(t *testing.T) {
	adviceSvc := new(mockAdviceService)
	adviceSvc.On("State").Return(service.AdviceState{})

	resp := newTestAPI(t, adviceSvc, new(mockTransactionLister)).Get("/v1/advice")

	assert.Equal(t, http.StatusOK, resp.Code)
	var raw map[string]json.RawMessage
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	assert.NotContains(t, raw, "advice")
	assert.NotContains(t, raw, "updatedAt")
}

func TestHTTP_DismissAdvice(t *testing.T) {
	adviceSvc := new(mockAdviceService)
	adviceSvc.On("Reset").Return()

	resp := newTestAPI(t, adviceSvc, new(mockTransactionLister)).Delete("/v1/advice")

	assert.Equal(t, http.StatusNoContent, resp.Code)
	adviceSvc.AssertCalled(t, "Reset")
}

type staticAdvisor string

func (a staticAdvisor) Advise(context.Context, []service.Transaction) (string, error) {
	return string(a), nil
}

func TestHTTP_AdviceLifecycle(t *testing.T) {
	ctx := context.Background()
	transactions := service.NewTransactionService(storage.NewMemoryStore(), service.DefaultStorageKey, logging.Discard())
	adviceSvc := service.NewAdviceService(staticAdvisor("Poupe mais."), logging.Discard())

	_, api := humatest.New(t)
	NewRequestAdviceHandler(adviceSvc, transactions).Register(api)
	NewGetAdviceHandler(adviceSvc).Register(api)
	NewDismissAdviceHandler(adviceSvc).Register(api)

	assert.Equal(t, http.StatusConflict, api.Post("/v1/advice").Code)

	_, err := transactions.Add(ctx, service.TransactionCreate{
		Description: "Salário",
		Amount:      decimal.NewFromInt(1000),
		Type:        service.TransactionTypeIncome,
		Category:    "Salário",
		Date:        "2024-01-05",
	})
	assert.NoError(t, err)

	assert.Equal(t, http.StatusAccepted, api.Post("/v1/advice").Code)
	adviceSvc.Wait()

	var state State
	assert.NoError(t, json.NewDecoder(api.Get("/v1/advice").Body).Decode(&state))
	assert.Equal(t, "Poupe mais.", state.Advice)
	assert.False(t, state.Loading)

	assert.Equal(t, http.StatusNoContent, api.Delete("/v1/advice").Code)
	state = State{}
	assert.NoError(t, json.NewDecoder(api.Get("/v1/advice").Body).Decode(&state))
	assert.Empty(t, state.Advice)
}
