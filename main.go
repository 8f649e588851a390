package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/carson-networks/financas-pro/api"
	"github.com/carson-networks/financas-pro/internal/advisor"
	"github.com/carson-networks/financas-pro/internal/config"
	"github.com/carson-networks/financas-pro/internal/logging"
	"github.com/carson-networks/financas-pro/internal/scheduler"
	"github.com/carson-networks/financas-pro/internal/service"
	"github.com/carson-networks/financas-pro/internal/storage"
)

func main() {
	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}

	logger := logging.SetupLogging(envConfig.LogLevel)
	logger.WithField("storageBackend", envConfig.StorageBackend).Info("financas-pro starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kvStorage, err := storage.NewStorage(ctx, envConfig)
	if err != nil {
		logger.WithError(err).Fatal("storage.NewStorage")
		return
	}
	defer func() {
		if err := kvStorage.Close(); err != nil {
			logger.WithError(err).Error("storage.Close")
		}
	}()

	adviceProvider, err := advisor.New(envConfig, logger)
	if err != nil {
		logger.WithError(err).Fatal("advisor.New")
		return
	}

	svc := service.NewService(kvStorage, envConfig.StorageKey, adviceProvider, logger)
	if err := svc.Transaction.Load(ctx); err != nil {
		logger.WithError(err).Fatal("TransactionService.Load")
		return
	}

	group, groupCtx := errgroup.WithContext(ctx)

	if envConfig.AdviceRefreshSchedule != "" {
		refresher, err := scheduler.NewAdviceRefresher(envConfig.AdviceRefreshSchedule, svc.Transaction, svc.Advice, logger)
		if err != nil {
			logger.WithError(err).Fatal("scheduler.NewAdviceRefresher")
			return
		}
		refresher.Start()
		group.Go(func() error {
			<-groupCtx.Done()
			refresher.Stop()
			return nil
		})
	}

	group.Go(func() error {
		httpRest := api.Rest{
			Logger:  logger,
			Port:    envConfig.Port,
			Service: svc,
		}
		return httpRest.Serve(groupCtx)
	})

	if err := group.Wait(); err != nil {
		logger.WithError(err).Error("financas-pro stopped with error")
	}

	svc.Advice.Wait()
	logger.Info("financas-pro stopped")
}
