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

	"github.com/dotmart/emailsync/internal/dbopen"
	"github.com/dotmart/emailsync/syncdb/migrations"
)

func init() {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply sync database migrations",
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx := context.Background()

			pool, err := dbopen.ConnectToSyncDB(ctx)
			if err != nil {
				return fmt.Errorf("failed to open sync database: %w", err)
			}
			defer pool.Close()

			return migrations.RunMigrationsUp(ctx, pool)
		},
	}

	rootCmd.AddCommand(cmd)
}
