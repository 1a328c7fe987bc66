package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/vzahanych/darksky-forecast/internal/config"
	"github.com/vzahanych/darksky-forecast/internal/server"
	"github.com/vzahanych/darksky-forecast/internal/service"
	"go.uber.org/zap"
)

func serverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Start the forecast gateway",
		Long:  `Start the HTTP gateway that serves Dark Sky forecasts on GET /forecast with health and metrics endpoints.`,
		RunE:  runServer,
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()
	zl := log.Desugar()

	zl.Info("Starting forecast gateway",
		zap.String("config_path", configPath),
		zap.Bool("telemetry_enabled", cfg.Telemetry.Enabled),
		zap.Int("server_port", cfg.Server.Port))

	svc, err := service.NewDarkSkyServiceWithConfig(cfg.Forecast, zl, tele)
	if err != nil {
		zl.Error("Failed to configure forecast service", zap.Error(err))
		return err
	}

	if err := svc.Check(cmd.Context()); err != nil {
		zl.Warn("Forecast service configuration is unusable, readiness will fail", zap.Error(err))
	}

	srv := server.NewServer(cfg.Server, svc, zl, tele)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		if err != nil {
			zl.Error("Server error", zap.Error(err))
		}
		return err
	case <-cmd.Context().Done():
		zl.Info("Shutting down server")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			zl.Error("Error during server shutdown", zap.Error(err))
			return err
		}

		zl.Info("Server shutdown complete")
		return nil
	}
}
