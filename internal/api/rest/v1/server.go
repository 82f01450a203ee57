// Package rest provides functionality for initializing a server.
package rest

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/Mohammademon02/income-tracking-api/internal/api/rest/client"
	"github.com/Mohammademon02/income-tracking-api/internal/api/rest/middleware"
	"github.com/Mohammademon02/income-tracking-api/internal/api/rest/v1/handlers"
	"github.com/Mohammademon02/income-tracking-api/internal/config"
	"github.com/Mohammademon02/income-tracking-api/internal/service/broker/v1/broker"
	"github.com/Mohammademon02/income-tracking-api/internal/service/notifier/v1"
	"github.com/Mohammademon02/income-tracking-api/internal/service/processor/v1/processor"
	"github.com/Mohammademon02/income-tracking-api/internal/service/secretary/v1/secretary"
	"github.com/Mohammademon02/income-tracking-api/internal/service/targets/v1"
	"github.com/Mohammademon02/income-tracking-api/internal/storage/v1/inpsql"
	"github.com/go-chi/chi"
	"github.com/rs/zerolog"
)

// InitServer returns a http.Server object ready to be listening and serving.
func InitServer(ctx context.Context, cfg *config.Config, log *zerolog.Logger, wg *sync.WaitGroup) (server *http.Server, err error) {
	// initialize secretary
	secretaryService, err := secretary.NewSecretaryService(cfg.SecretConfig)
	if err != nil {
		return nil, err
	}

	// initialize token handler
	tokenHandler, err := middleware.NewTokenHandler(secretaryService, cfg.SecretConfig)
	if err != nil {
		return nil, err
	}

	// initialize storage
	storage, err := inpsql.InitStorage(ctx, cfg.StorageConfig, log, wg)
	if err != nil {
		return nil, err
	}

	// initialize in-memory stores
	targetStore := targets.NewStore()
	notificationRegistry := notifier.NewRegistry()

	// initialize main service
	mainService, err := processor.InitService(storage, secretaryService, targetStore, notificationRegistry, log)
	if err != nil {
		return nil, err
	}

	// initialize payout provider client
	payoutClient := client.InitClient(cfg.ServerConfig, log)

	// initialize broker
	brokerService := broker.InitBroker(ctx, storage.QueueIn, storage.QueueOut, log, wg, payoutClient, notificationRegistry, cfg.QueueConfig.WorkerNumber)
	brokerService.ListenAndProcess()

	// put withdrawals left pending from a previous run back onto the queue
	err = mainService.ResumePendingWithdrawals(ctx)
	if err != nil {
		return nil, err
	}

	// initialize handlers
	urlHandler, err := handlers.InitHandlers(mainService, cfg.ServerConfig, log)
	if err != nil {
		return nil, err
	}

	// initialize server and set routing
	r := chi.NewRouter()
	loginGroup := r.Group(nil)
	mainGroup := r.Group(nil)
	mainGroup.Use(tokenHandler.TokenHandle) // token authentication is not used for login/register routes
	loginGroup.Post("/api/user/register", urlHandler.HandleRegister())
	loginGroup.Post("/api/user/login", urlHandler.HandleLogin())
	mainGroup.Post("/api/user/accounts", urlHandler.HandleNewAccount())
	mainGroup.Get("/api/user/accounts", urlHandler.HandleGetAccounts())
	mainGroup.Post("/api/user/entries", urlHandler.HandleNewEntry())
	mainGroup.Get("/api/user/entries", urlHandler.HandleGetEntries())
	mainGroup.Get("/api/user/goal/daily", urlHandler.HandleDailyGoal())
	mainGroup.Get("/api/user/target", urlHandler.HandleGetTarget())
	mainGroup.Post("/api/user/target", urlHandler.HandleSetTarget())
	mainGroup.Get("/api/user/balance", urlHandler.HandleGetBalance())
	mainGroup.Post("/api/user/withdrawals", urlHandler.HandleNewWithdrawal())
	mainGroup.Get("/api/user/withdrawals", urlHandler.HandleGetWithdrawals())
	mainGroup.Get("/api/user/withdrawals/recent", urlHandler.HandleRecentWithdrawals())
	mainGroup.Get("/api/user/notifications", urlHandler.HandleGetNotifications())
	mainGroup.Post("/api/user/notifications/read", urlHandler.HandleReadNotification())
	mainGroup.Post("/api/user/notifications/read-all", urlHandler.HandleReadAllNotifications())
	mainGroup.Post("/api/user/notifications/delete", urlHandler.HandleDeleteNotification())
	mainGroup.Post("/api/user/notifications/sweep", urlHandler.HandleSweepNotifications())

	srv := &http.Server{
		Addr:         cfg.ServerConfig.ServerAddress,
		Handler:      r,
		IdleTimeout:  60 * time.Second,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	return srv, nil
}
