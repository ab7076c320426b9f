package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/canvass/internal/config"
	httpAdapter "github.com/aretw0/canvass/pkg/adapters/http"
	"github.com/aretw0/canvass/pkg/adapters/twilio"
)

// ShutdownTimeout bounds the drain of in-flight requests.
const ShutdownTimeout = 5 * time.Second

// NewHTTPHandler builds the HTTP surface of app from the configuration.
func NewHTTPHandler(app *App, cfg *config.Config, logger *slog.Logger) (http.Handler, error) {
	opts := []httpAdapter.Option{
		httpAdapter.WithLogger(logger),
		httpAdapter.WithInspector(app.Engine),
		httpAdapter.WithCampaigns(app.Campaigns),
		httpAdapter.WithCounter(app.Counter),
		httpAdapter.WithDefaultCampaign(cfg.DefaultCampaign),
		httpAdapter.WithVerifyToken(cfg.WhatsAppVerifyToken),
		httpAdapter.WithMaxInputSize(cfg.MaxInputSize),
		httpAdapter.WithMetrics(app.Registry),
	}
	if cfg.TwilioEnabled() {
		sender, err := twilio.New(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFrom, twilio.WithLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("twilio sender: %w", err)
		}
		opts = append(opts, httpAdapter.WithSender(sender))
	}
	return httpAdapter.NewHandler(app.Engine, opts...), nil
}

// Serve runs the HTTP server until ctx is cancelled, then drains it. SIGHUP
// reloads a campaigns directory without a restart.
func Serve(ctx context.Context, app *App, cfg *config.Config, logger *slog.Logger) error {
	handler, err := NewHTTPHandler(app, cfg, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	reloadOnHangup(ctx, app.Campaigns, logger)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("canvass server listening", "addr", srv.Addr, "store", cfg.Store, "campaigns", cfg.Campaigns)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
			return fmt.Errorf("graceful shutdown did not complete in %v: %w", ShutdownTimeout, err)
		}
		logger.Info("server stopped gracefully")
		return nil
	}
}
