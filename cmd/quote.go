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
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dotmart/emailsync/config"
	"github.com/dotmart/emailsync/internal/dbopen"
	"github.com/dotmart/emailsync/internal/importer"
	"github.com/dotmart/emailsync/internal/quotesync"
	"github.com/dotmart/emailsync/internal/tenant"
)

func init() {
	var reset bool

	cmd := &cobra.Command{
		Use:   "quote-sync",
		Short: "Export quote rows into the import queue",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			store, err := dbopen.SyncDBStore(context.Background())
			if err != nil {
				return fmt.Errorf("failed to open sync database: %w", err)
			}
			defer store.Close()

			accounts, err := tenant.SetupAccounts()
			if err != nil {
				return fmt.Errorf("failed to set up accounts: %w", err)
			}

			exporter := quotesync.New(store, importer.NewQueue(store), accounts, cfg.Quote.BatchLimit)

			if reset {
				affected, err := exporter.Reset(context.Background())
				if err != nil {
					return fmt.Errorf("failed to reset quote bookkeeping: %w", err)
				}
				slog.Info("Reset quote export bookkeeping", slog.Int64("quotes", affected))
				return nil
			}

			return runService("emailsync-quote-sync", cfg.Quote.Interval, exporter.Sync)
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "clear export bookkeeping so every quote is exported again, then exit")

	rootCmd.AddCommand(cmd)
}
