package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/wb-go/wbf/zlog"

	"artfoundation/cmd/buildCFG"
	"artfoundation/internal/api/api"
	"artfoundation/internal/auth"
	rabbitReader "artfoundation/internal/consumerWorker"
	"artfoundation/internal/dispatch"
	"artfoundation/internal/gateway"
	"artfoundation/internal/hub"
	"artfoundation/internal/ids"
	"artfoundation/internal/mailer"
	"artfoundation/internal/rabbit"
	"artfoundation/internal/service"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the background worker",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	log := zlog.Logger

	cfg, err := loadConfig(&log)
	if err != nil {
		return err
	}
	serverCfg := buildCFG.BuildServerConfig(cfg, &log)

	authCfg, err := buildCFG.BuildAuthConfig(cfg)
	if err != nil {
		return err
	}
	stripeCfg, err := buildCFG.BuildStripeConfig(cfg)
	if err != nil {
		return err
	}
	rabbitCfg, err := buildCFG.BuildRabbitConfig(cfg, &log)
	if err != nil {
		return fmt.Errorf("failed to load RabbitMQ config: %w", err)
	}

	repository, err := openRepository(cfg, &log)
	if err != nil {
		return err
	}
	if err := repository.MigrateUp(buildCFG.MigrationsDir(cfg)); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	rmq, err := rabbit.NewRabbit(rabbitCfg.Url, rabbitCfg.Exchange, rabbitCfg.Queue)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	defer rmq.Close()

	idGen, err := ids.NewGenerator(buildCFG.SnowflakeNode(cfg))
	if err != nil {
		return err
	}
	payGateway, err := gateway.NewStripe(stripeCfg, &log)
	if err != nil {
		return err
	}

	mail := mailer.New(buildCFG.BuildMailConfig(cfg), &log)
	dispatcher := dispatch.New(rmq, mail, rabbitCfg.ReconcileDelay, &log)
	feed := hub.New(&log)
	tokens := auth.NewTokenIssuer(authCfg.JWTSecret, authCfg.TokenTTL)

	registrations := service.NewRegistrationService(repository, repository, payGateway, dispatcher, idGen, serverCfg.FrontendURL, &log)
	payments := service.NewPaymentService(repository, repository, payGateway, dispatcher, feed, idGen, &log)
	identity := service.NewIdentityService(repository, auth.NewPasswordHasher(authCfg.BcryptCost), tokens, dispatcher, service.IdentityConfig{
		FrontendURL:     serverCfg.FrontendURL,
		ResetTTL:        authCfg.ResetTTL,
		VerificationTTL: authCfg.VerificationTTL,
	}, &log)
	events := service.NewEventService(repository, &log)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	go feed.Run(workerCtx)

	reader := rabbitReader.NewReader(rmq, mail, payments, &log)
	if err := reader.Start(workerCtx); err != nil {
		return err
	}

	app := api.NewRouters(&api.Routers{
		Mode:    serverCfg.Mode,
		Handler: api.NewHandler(registrations, payments, identity, events, &log),
		Feed:    feed,
		Tokens:  tokens,
		DB:      repository,
	})
	srv := api.NewServer(":"+serverCfg.Port, app)

	serverErrChan := make(chan error, 1)
	go func() {
		log.Info().Msgf("Starting server on %s", serverCfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- fmt.Errorf("failed to start server: %w", err)
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-signalChan:
		log.Info().Msgf("Received signal %s. Initiating shutdown...", sig)
	case runErr = <-serverErrChan:
		log.Error().Err(runErr).Msg("server error")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), serverCfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error shutting down server")
	}

	cancelWorkers()
	reader.Stop()

	log.Info().Msg("Shutdown complete")
	return runErr
}
