package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/canvass/pkg/ports"
)

// Reloader re-reads campaign definitions in place.
type Reloader interface {
	Reload() error
}

// WatchReload reloads r each time trigger fires, until ctx is done or trigger
// is closed. A failed reload keeps the previous definitions and is only logged.
func WatchReload(ctx context.Context, r Reloader, trigger <-chan os.Signal, logger *slog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case sig, ok := <-trigger:
			if !ok {
				return
			}
			if err := r.Reload(); err != nil {
				logger.Error("campaign reload failed, keeping previous definitions", "signal", sig, "err", err)
				continue
			}
			logger.Info("campaigns reloaded", "signal", sig)
		}
	}
}

// reloadOnHangup reloads campaigns on SIGHUP when the store supports it.
func reloadOnHangup(ctx context.Context, campaigns ports.CampaignStore, logger *slog.Logger) {
	r, ok := campaigns.(Reloader)
	if !ok {
		return
	}
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	go func() {
		defer signal.Stop(hup)
		WatchReload(ctx, r, hup, logger)
	}()
}
