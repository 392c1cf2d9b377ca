package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pokelaunch/internal/api"
	"pokelaunch/internal/marketdata"
	"pokelaunch/internal/publish"
	"pokelaunch/internal/service"
	"pokelaunch/internal/solana"
)

var (
	serveAddr      string
	serveUseMemory bool
	serveNoRefresh bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, market refresher and leaderboard push",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "HTTP listen address (overrides config)")
	serveCmd.Flags().BoolVar(&serveUseMemory, "use-memory", false, "Use in-memory storage seeded with demo data")
	serveCmd.Flags().BoolVar(&serveNoRefresh, "no-refresh", false, "Disable the market data refresher")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}
	if serveUseMemory {
		cfg.Storage.UseMemory = true
	}
	if serveNoRefresh {
		cfg.Market.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.Named("server")

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stores, cleanup, err := createStores(ctx, cfg, true, log)
	if err != nil {
		return err
	}
	defer cleanup()

	if cfg.Storage.UseMemory || cfg.Seed.OnStart {
		if _, err := loadSeed(ctx, stores); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	var rpc solana.RPCClient
	var supply marketdata.SupplySource
	if cfg.Solana.RPCEndpoint != "" {
		client := solana.NewHTTPClient(cfg.Solana.RPCEndpoint, solana.WithTimeout(cfg.Solana.Timeout))
		rpc, supply = client, client
		slot, err := client.GetSlot(ctx)
		if err != nil {
			log.Warn("solana rpc unreachable", zap.String("endpoint", cfg.Solana.RPCEndpoint), zap.Error(err))
		} else {
			log.Info("solana rpc configured", zap.String("endpoint", cfg.Solana.RPCEndpoint), zap.Int64("slot", slot))
		}
	}

	hub := api.NewHub(api.HubConfig{
		WriteTimeout: cfg.Websocket.WriteTimeout,
		PingInterval: cfg.Websocket.PingInterval,
		SendBuffer:   cfg.Websocket.SendBuffer,
	}, logger.Named("ws"))

	publisher, err := publish.NewPublisher(cfg.PublishConfig(), logger.Named("publisher"))
	if err != nil {
		return fmt.Errorf("create publisher: %w", err)
	}
	publisher.Start(ctx)

	catalog := service.New(service.Options{
		Tokens:    stores.tokens,
		Templates: stores.templates,
		Snapshots: stores.snapshots,
		RPC:       rpc,
		Logger:    logger.Named("catalog"),
	})

	apiOpts := api.Options{
		Catalog:   catalog,
		Hub:       hub,
		Logger:    logger.Named("api"),
		AccessLog: cfg.Server.AccessLog,
	}

	var refresher *marketdata.Refresher
	if cfg.Market.Enabled {
		var source marketdata.Source
		if cfg.Market.Live {
			source = marketdata.NewClient(cfg.MarketClientOptions()...)
		}
		refresher = marketdata.NewRefresher(marketdata.Options{
			Store:     stores.tokens,
			Snapshots: stores.snapshots,
			Source:    source,
			Supply:    supply,
			Listener:  service.NewFanout(hub, publisher, logger.Named("fanout")),
			Interval:  cfg.Market.Interval,
			Simulate:  cfg.Market.Simulate,
			Seed:      cfg.Market.Seed,
			Logger:    logger.Named("refresher"),
		})
		apiOpts.Refresher = refresher
	}

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.NewServer(apiOpts).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to signal completion
	done := make(chan struct{})
	defer close(done)

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			log.Info("received signal, initiating graceful shutdown", zap.String("signal", sig.String()))
			cancel()
		case <-done:
			return
		}

		// Wait for second signal for immediate shutdown
		select {
		case sig := <-sigCh:
			log.Warn("received second signal, forcing immediate shutdown", zap.String("signal", sig.String()))
			os.Exit(1)
		case <-time.After(cfg.Server.ShutdownTimeout):
			log.Error("graceful shutdown timed out, forcing exit", zap.Duration("timeout", cfg.Server.ShutdownTimeout))
			os.Exit(1)
		case <-done:
		}
	}()

	errCh := make(chan error, 2)

	go func() {
		log.Info("starting HTTP server", zap.String("addr", cfg.Server.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	if refresher != nil {
		go func() {
			if err := refresher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errCh <- fmt.Errorf("market refresher: %w", err)
			}
		}()
	}

	// Wait for context cancellation or error
	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", zap.Error(err))
	}
	hub.Close()
	if err := publisher.Stop(shutdownCtx); err != nil {
		log.Warn("publisher shutdown", zap.Error(err))
	}

	if runErr != nil {
		return runErr
	}
	log.Info("shutdown complete")
	return nil
}
