// Copyright (C) 2025 Dotmart, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dotmart/emailsync/internal/healthcheck"
	"github.com/dotmart/emailsync/internal/logctx"
)

// runService runs one sync cycle per interval alongside the health server
// until SIGINT or SIGTERM cancels the context. The first cycle runs
// immediately.
func runService(serviceName string, interval time.Duration, cycle func(ctx context.Context) error) error {
	ctx, cancel := handleSignals(context.Background())
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil)).With("service", serviceName)
	slog.SetDefault(logger)
	ctx = logctx.WithLogger(ctx, logger)

	healthServer := healthcheck.NewServer(healthcheck.GetConfigFromEnv())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return healthServer.Start(gctx)
	})
	g.Go(func() error {
		healthServer.SetStatus(healthcheck.StatusHealthy)
		healthServer.SetReady(true)
		return periodicLoop(gctx, interval, cycle)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("Service shut down")
	return nil
}

// periodicLoop runs cycle once, then once per interval tick. Cycle failures
// are logged; only context cancellation ends the loop.
func periodicLoop(ctx context.Context, interval time.Duration, cycle func(ctx context.Context) error) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := cycle(ctx); err != nil {
			logctx.FromContext(ctx).Error("Sync cycle failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
