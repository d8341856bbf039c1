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
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotmart/emailsync/syncdb"
)

type mockAccountStore struct {
	byWebsiteFunc func(ctx context.Context, websiteID int32) (syncdb.AccountRow, error)
	enabledFunc   func(ctx context.Context) ([]syncdb.AccountRow, error)
}

func (m *mockAccountStore) AccountByWebsite(ctx context.Context, websiteID int32) (syncdb.AccountRow, error) {
	if m.byWebsiteFunc != nil {
		return m.byWebsiteFunc(ctx, websiteID)
	}
	return syncdb.AccountRow{}, pgx.ErrNoRows
}

func (m *mockAccountStore) EnabledAccounts(ctx context.Context) ([]syncdb.AccountRow, error) {
	if m.enabledFunc != nil {
		return m.enabledFunc(ctx)
	}
	return nil, nil
}

func TestDatabaseProvider_AccountForWebsite(t *testing.T) {
	store := &mockAccountStore{
		byWebsiteFunc: func(_ context.Context, websiteID int32) (syncdb.AccountRow, error) {
			return syncdb.AccountRow{
				WebsiteID:   websiteID,
				WebsiteName: "Main",
				Enabled:     true,
				APIUser:     "apiuser-xyz",
				APIPassword: "secret",
				DataFields:  []byte(`{"last_order_id":"LASTORDERID","customer_id":"CUSTOMER_ID"}`),
			}, nil
		},
	}

	p := NewDatabaseProvider(store)
	account, err := p.AccountForWebsite(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, int32(2), account.WebsiteID)
	assert.True(t, account.Enabled)
	assert.Equal(t, "LASTORDERID", account.DataFields.LastOrderID)
	assert.Equal(t, "CUSTOMER_ID", account.DataFields.CustomerID)
	assert.Empty(t, account.DataFields.StoreName)
}

func TestDatabaseProvider_NotFound(t *testing.T) {
	p := NewDatabaseProvider(&mockAccountStore{})

	_, err := p.AccountForWebsite(context.Background(), 99)
	require.ErrorIs(t, err, ErrAccountNotFound)
}

func TestFileProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.yaml")
	content := `
- website_id: 1
  website_name: Main
  enabled: true
  quote_sync_enabled: true
  store_ids: [1, 2]
  api_user: apiuser-main
  api_password: secret
  datafields:
    store_name: STORE_NAME
- website_id: 2
  website_name: Secondary
  enabled: false
  api_user: apiuser-secondary
  api_password: secret
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	p, err := NewFileProvider(path)
	require.NoError(t, err)

	account, err := p.AccountForWebsite(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Main", account.WebsiteName)
	assert.Equal(t, []int32{1, 2}, account.StoreIDs)
	assert.Equal(t, "STORE_NAME", account.DataFields.StoreName)

	_, err = p.AccountForWebsite(context.Background(), 3)
	require.ErrorIs(t, err, ErrAccountNotFound)

	enabled, err := p.EnabledAccounts(context.Background())
	require.NoError(t, err)
	require.Len(t, enabled, 1)
	assert.Equal(t, int32(1), enabled[0].WebsiteID)
}
