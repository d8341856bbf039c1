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

	"github.com/spf13/cobra"

	"github.com/dotmart/emailsync/config"
	"github.com/dotmart/emailsync/internal/automation"
	"github.com/dotmart/emailsync/internal/dbopen"
	"github.com/dotmart/emailsync/internal/dotapi"
	"github.com/dotmart/emailsync/internal/tenant"
)

func init() {
	cmd := &cobra.Command{
		Use:   "automation",
		Short: "Enroll pending contacts into automation programs",
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
			clients := dotapi.NewCachingProvider(accounts)
			defer clients.Stop()

			reconciler := automation.New(store, clients, accounts, cfg.Automation.BatchLimit)

			return runService("emailsync-automation", cfg.Automation.Interval, reconciler.Sync)
		},
	}

	rootCmd.AddCommand(cmd)
}
