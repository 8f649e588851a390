package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/financas-pro/internal/handlers/v1/advice"
	"github.com/carson-networks/financas-pro/internal/handlers/v1/category"
	"github.com/carson-networks/financas-pro/internal/handlers/v1/status"
	"github.com/carson-networks/financas-pro/internal/handlers/v1/summary"
	"github.com/carson-networks/financas-pro/internal/handlers/v1/transaction"
	"github.com/carson-networks/financas-pro/internal/logging"
	"github.com/carson-networks/financas-pro/internal/service"
)

const shutdownTimeout = 10 * time.Second

type Rest struct {
	Logger  *logrus.Logger
	Port    string
	Service *service.Service
}

// Handler builds the router with every v1 operation and /status.
func (r *Rest) Handler() http.Handler {
	mux := http.NewServeMux()

	api := humago.New(mux, huma.DefaultConfig("Finanças Pró", "1.0.0"))
	api.UseMiddleware(logging.HumaMiddleware(r.Logger))

	transactions := r.Service.Transaction
	adviceService := r.Service.Advice

	transaction.NewCreateTransactionHandler(transactions).Register(api)
	transaction.NewListTransactionsHandler(transactions).Register(api)
	transaction.NewDeleteTransactionHandler(transactions).Register(api)
	transaction.NewClearTransactionsHandler(transactions).Register(api)
	summary.NewHandler(transactions).Register(api)
	category.NewHandler().Register(api)
	advice.NewRequestAdviceHandler(adviceService, transactions).Register(api)
	advice.NewGetAdviceHandler(adviceService).Register(api)
	advice.NewDismissAdviceHandler(adviceService).Register(api)

	statusHandler := status.NewHandler(transactions, adviceService)
	mux.HandleFunc("/status", logging.LoggingWrapper("Status", r.Logger, statusHandler.Handler))

	return mux
}

// Serve listens until ctx is cancelled, then shuts the server down
// gracefully.
func (r *Rest) Serve(ctx context.Context) error {
	server := http.Server{
		Addr:              ":" + r.Port,
		Handler:           r.Handler(),
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		r.Logger.Info("HttpServer.Serve.shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		shutdownErr <- server.Shutdown(shutdownCtx)
	}()

	r.Logger.WithField("port", r.Port).Info("HttpServer.Serve.listening")
	err := server.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
		return err
	}

	return <-shutdownErr
}
