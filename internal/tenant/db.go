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
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dotmart/emailsync/syncdb"
)

// AccountStore is the slice of syncdb the provider needs.
type AccountStore interface {
	AccountByWebsite(ctx context.Context, websiteID int32) (syncdb.AccountRow, error)
	EnabledAccounts(ctx context.Context) ([]syncdb.AccountRow, error)
}

type databaseProvider struct {
	db AccountStore
}

// NewDatabaseProvider returns a Provider backed by the email_account table.
func NewDatabaseProvider(db AccountStore) Provider {
	return &databaseProvider{db: db}
}

func (p *databaseProvider) AccountForWebsite(ctx context.Context, websiteID int32) (Account, error) {
	row, err := p.db.AccountByWebsite(ctx, websiteID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, fmt.Errorf("%w: website %d", ErrAccountNotFound, websiteID)
		}
		return Account{}, err
	}
	return accountFromRow(row)
}

func (p *databaseProvider) EnabledAccounts(ctx context.Context) ([]Account, error) {
	rows, err := p.db.EnabledAccounts(ctx)
	if err != nil {
		return nil, err
	}
	accounts := make([]Account, 0, len(rows))
	for _, row := range rows {
		account, err := accountFromRow(row)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, nil
}

func accountFromRow(row syncdb.AccountRow) (Account, error) {
	account := Account{
		WebsiteID:        row.WebsiteID,
		WebsiteName:      row.WebsiteName,
		Enabled:          row.Enabled,
		QuoteSyncEnabled: row.QuoteSyncEnabled,
		StoreIDs:         row.StoreIDs,
		APIUser:          row.APIUser,
		APIPassword:      row.APIPassword,
		Endpoint:         row.Endpoint,
	}
	if len(row.DataFields) > 0 {
		if err := json.Unmarshal(row.DataFields, &account.DataFields); err != nil {
			return Account{}, fmt.Errorf("invalid datafield mapping for website %d: %w", row.WebsiteID, err)
		}
	}
	return account, nil
}
