package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/spf13/cobra"

	"github.com/ashbridge/spyglass/internal/artifacts"
	"github.com/ashbridge/spyglass/internal/chains"
	"github.com/ashbridge/spyglass/internal/config"
	"github.com/ashbridge/spyglass/internal/observability/metrics"
	"github.com/ashbridge/spyglass/internal/rpcproxy"
	"github.com/ashbridge/spyglass/internal/server"
	"github.com/ashbridge/spyglass/internal/tracker"
)

// fallbackChainID is the anvil/hardhat default, used when the node cannot be
// probed at startup.
const fallbackChainID = 31337

func newServeCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the explorer and RPC proxy",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(version)
		},
	}
}

func runServe(version string) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logger := setupLogger(cfg)
	logger.Info("starting spyglass", "version", version)

	chainID := cfg.Node.ChainID
	if chainID == 0 {
		chainID = detectChainID(cfg.Node.RPCURL, logger)
	}

	metrics.Init(cfg.Metrics.Enabled)

	// Artifact snapshot is taken once; a rebuild needs a restart.
	snapshot := artifacts.ScanDir(cfg.Project.ArtifactsDir, logger)
	logger.Info("compiled artifacts loaded",
		"dir", cfg.Project.ArtifactsDir,
		"contracts", len(snapshot),
	)

	enricher := artifacts.NewDirEnricher(
		cfg.Project.ContractsDir,
		filepath.Join(cfg.Project.ArtifactsDir, "build-info"),
	)
	trk := tracker.New(snapshot, enricher, logger)
	records := artifacts.NewRecordStore(cfg.Project.DeploymentsDir, chainID, cfg.Project.ContractsDir, logger)
	links := rpcproxy.NewLinkPrinter(cfg.BaseURL(), cfg.Links.Enabled)

	srv := server.New(cfg, server.Deps{
		Version:   version,
		ChainID:   chainID,
		Artifacts: len(snapshot),
		Tracker:   trk,
		Records:   records,
		Links:     links,
	}, logger)

	// Create HTTP server with configurable timeouts
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      srv.Handler(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		logger.Info("explorer ready",
			"url", cfg.BaseURL(),
			"node", cfg.Node.RPCURL,
			"chain", chains.Name(chainID),
			"session", srv.SessionID(),
		)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig)
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

// detectChainID asks the node for its chain ID. The node may not be up yet
// when spyglass starts, so failure falls back rather than aborting.
func detectChainID(rpcURL string, logger *slog.Logger) uint64 {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		logger.Warn("cannot reach node to detect chain id", "url", rpcURL, "error", err, "fallback", fallbackChainID)
		return fallbackChainID
	}
	defer client.Close()

	id, err := client.ChainID(ctx)
	if err != nil {
		logger.Warn("cannot detect chain id", "url", rpcURL, "error", err, "fallback", fallbackChainID)
		return fallbackChainID
	}
	return id.Uint64()
}
