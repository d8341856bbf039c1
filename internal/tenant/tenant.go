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

package tenant

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/dotmart/emailsync/internal/dbopen"
)

// Account is the per-website configuration for talking to the marketing
// platform.
type Account struct {
	WebsiteID        int32            `json:"website_id" yaml:"website_id"`
	WebsiteName      string           `json:"website_name" yaml:"website_name"`
	Enabled          bool             `json:"enabled" yaml:"enabled"`
	QuoteSyncEnabled bool             `json:"quote_sync_enabled,omitempty" yaml:"quote_sync_enabled,omitempty"`
	StoreIDs         []int32          `json:"store_ids,omitempty" yaml:"store_ids,omitempty"`
	APIUser          string           `json:"api_user" yaml:"api_user"`
	APIPassword      string           `json:"api_password" yaml:"api_password"`
	Endpoint         string           `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	DataFields       DataFieldMapping `json:"datafields,omitempty" yaml:"datafields,omitempty"`
}

// DataFieldMapping names the remote datafields that automation updates write
// into. Every field is optional; an empty name means the datafield is not
// pushed.
type DataFieldMapping struct {
	LastOrderID          string `json:"last_order_id,omitempty" yaml:"last_order_id,omitempty"`
	LastOrderIncrementID string `json:"last_order_increment_id,omitempty" yaml:"last_order_increment_id,omitempty"`
	StoreName            string `json:"store_name,omitempty" yaml:"store_name,omitempty"`
	WebsiteName          string `json:"website_name,omitempty" yaml:"website_name,omitempty"`
	LastOrderDate        string `json:"last_order_date,omitempty" yaml:"last_order_date,omitempty"`
	CustomerID           string `json:"customer_id,omitempty" yaml:"customer_id,omitempty"`
}

// Provider resolves accounts per website.
type Provider interface {
	AccountForWebsite(ctx context.Context, websiteID int32) (Account, error)
	EnabledAccounts(ctx context.Context) ([]Account, error)
}

var ErrAccountNotFound = errors.New("no account configured for website")

// SetupAccounts returns the database-backed provider when the sync database
// is configured, falling back to a YAML file provider otherwise.
func SetupAccounts() (Provider, error) {
	store, err := dbopen.SyncDBStore(context.Background())
	if err == nil {
		slog.Info("Using database account provider")
		return NewDatabaseProvider(store), nil
	}
	if !errors.Is(err, dbopen.ErrDatabaseNotConfigured) {
		return nil, err
	}

	accountsPath := os.Getenv("EMAILSYNC_ACCOUNTS_FILE")
	if accountsPath == "" {
		accountsPath = "/app/config/accounts.yaml"
	}
	slog.Info("Using file account provider", "path", accountsPath)
	return NewFileProvider(accountsPath)
}
