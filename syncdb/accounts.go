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

package syncdb

import (
	"context"

	"github.com/jackc/pgx/v5"
)

const accountColumns = `website_id, website_name, enabled, quote_sync_enabled, store_ids,
	api_user, api_password, COALESCE(endpoint, ''), datafields`

// AccountByWebsite returns the API account configured for one website.
// Returns pgx.ErrNoRows when no account exists.
func (store *Store) AccountByWebsite(ctx context.Context, websiteID int32) (AccountRow, error) {
	row := store.db.QueryRow(ctx, `
		SELECT `+accountColumns+`
		FROM email_account
		WHERE website_id = $1`,
		websiteID)
	return scanAccountRow(row)
}

// EnabledAccounts returns every account with sync enabled, for producers that
// iterate all websites.
func (store *Store) EnabledAccounts(ctx context.Context) ([]AccountRow, error) {
	rows, err := store.db.Query(ctx, `
		SELECT `+accountColumns+`
		FROM email_account
		WHERE enabled
		ORDER BY website_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []AccountRow
	for rows.Next() {
		account, err := scanAccountRow(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

func scanAccountRow(row pgx.Row) (AccountRow, error) {
	var a AccountRow
	err := row.Scan(
		&a.WebsiteID, &a.WebsiteName, &a.Enabled, &a.QuoteSyncEnabled,
		&a.StoreIDs, &a.APIUser, &a.APIPassword, &a.Endpoint, &a.DataFields,
	)
	return a, err
}
