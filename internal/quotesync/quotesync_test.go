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

package quotesync

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotmart/emailsync/internal/tenant"
	"github.com/dotmart/emailsync/syncdb"
)

type registration struct {
	importType syncdb.ImportType
	payload    any
	mode       syncdb.ImportMode
	websiteID  int32
}

type mockRegistrar struct {
	registrations []registration
	accept        bool
}

func (m *mockRegistrar) RegisterQueue(_ context.Context, importType syncdb.ImportType, payload any, mode syncdb.ImportMode, websiteID int32, _ string) bool {
	m.registrations = append(m.registrations, registration{
		importType: importType,
		payload:    payload,
		mode:       mode,
		websiteID:  websiteID,
	})
	return m.accept
}

type mockQuoteStore struct {
	unimported      []syncdb.QuoteRow
	modified        []syncdb.QuoteRow
	markedImported  [][]int64
	clearedModified []int64
	resets          int
}

func (m *mockQuoteStore) UnimportedQuotes(_ context.Context, _ []int32, limit int) ([]syncdb.QuoteRow, error) {
	if len(m.unimported) > limit {
		return m.unimported[:limit], nil
	}
	return m.unimported, nil
}

func (m *mockQuoteStore) ModifiedQuotes(_ context.Context, _ []int32, limit int) ([]syncdb.QuoteRow, error) {
	if len(m.modified) > limit {
		return m.modified[:limit], nil
	}
	return m.modified, nil
}

func (m *mockQuoteStore) MarkQuotesImported(_ context.Context, quoteIDs []int64) error {
	m.markedImported = append(m.markedImported, quoteIDs)
	return nil
}

func (m *mockQuoteStore) ClearQuoteModified(_ context.Context, quoteID int64) error {
	m.clearedModified = append(m.clearedModified, quoteID)
	return nil
}

func (m *mockQuoteStore) ResetQuotes(_ context.Context) (int64, error) {
	m.resets++
	return 42, nil
}

type stubAccounts struct {
	accounts []tenant.Account
}

func (s *stubAccounts) AccountForWebsite(_ context.Context, websiteID int32) (tenant.Account, error) {
	for _, a := range s.accounts {
		if a.WebsiteID == websiteID {
			return a, nil
		}
	}
	return tenant.Account{}, tenant.ErrAccountNotFound
}

func (s *stubAccounts) EnabledAccounts(_ context.Context) ([]tenant.Account, error) {
	return s.accounts, nil
}

func quoteSyncAccount(websiteID int32) tenant.Account {
	return tenant.Account{
		WebsiteID:        websiteID,
		Enabled:          true,
		QuoteSyncEnabled: true,
		StoreIDs:         []int32{1, 2},
	}
}

func TestSync_BulkExport(t *testing.T) {
	store := &mockQuoteStore{
		unimported: []syncdb.QuoteRow{
			{QuoteID: 10, StoreID: 1, CustomerID: 5},
			{QuoteID: 11, StoreID: 2, CustomerID: 6},
		},
	}
	queue := &mockRegistrar{accept: true}
	e := New(store, queue, &stubAccounts{accounts: []tenant.Account{quoteSyncAccount(1)}}, 100)

	require.NoError(t, e.Sync(context.Background()))

	require.Len(t, queue.registrations, 1)
	assert.Equal(t, syncdb.ImportTypeQuote, queue.registrations[0].importType)
	assert.Equal(t, syncdb.ImportModeBulk, queue.registrations[0].mode)
	assert.Equal(t, int32(1), queue.registrations[0].websiteID)

	require.Len(t, store.markedImported, 1)
	assert.Equal(t, []int64{10, 11}, store.markedImported[0])
}

func TestSync_ModifiedQuotesAsSingles(t *testing.T) {
	store := &mockQuoteStore{
		modified: []syncdb.QuoteRow{
			{QuoteID: 20, StoreID: 1, CustomerID: 5, Imported: true, Modified: true},
			{QuoteID: 21, StoreID: 1, CustomerID: 6, Imported: true, Modified: true},
		},
	}
	queue := &mockRegistrar{accept: true}
	e := New(store, queue, &stubAccounts{accounts: []tenant.Account{quoteSyncAccount(1)}}, 100)

	require.NoError(t, e.Sync(context.Background()))

	require.Len(t, queue.registrations, 2)
	for _, r := range queue.registrations {
		assert.Equal(t, syncdb.ImportModeSingle, r.mode)
	}
	assert.Equal(t, []int64{20, 21}, store.clearedModified)
}

func TestSync_RejectedRegistrationKeepsFlags(t *testing.T) {
	store := &mockQuoteStore{
		unimported: []syncdb.QuoteRow{{QuoteID: 10, StoreID: 1, CustomerID: 5}},
		modified:   []syncdb.QuoteRow{{QuoteID: 20, StoreID: 1, CustomerID: 6, Imported: true, Modified: true}},
	}
	queue := &mockRegistrar{accept: false}
	e := New(store, queue, &stubAccounts{accounts: []tenant.Account{quoteSyncAccount(1)}}, 100)

	require.NoError(t, e.Sync(context.Background()))

	// Nothing moves until the queue accepts, so next cycle retries.
	assert.Empty(t, store.markedImported)
	assert.Empty(t, store.clearedModified)
}

func TestSync_SkipsWebsitesWithoutQuoteSync(t *testing.T) {
	store := &mockQuoteStore{
		unimported: []syncdb.QuoteRow{{QuoteID: 10, StoreID: 1, CustomerID: 5}},
	}
	queue := &mockRegistrar{accept: true}
	accounts := &stubAccounts{accounts: []tenant.Account{
		{WebsiteID: 1, Enabled: true, QuoteSyncEnabled: false, StoreIDs: []int32{1}},
		{WebsiteID: 2, Enabled: true, QuoteSyncEnabled: true},
	}}
	e := New(store, queue, accounts, 100)

	require.NoError(t, e.Sync(context.Background()))
	assert.Empty(t, queue.registrations)
}

func TestReset(t *testing.T) {
	store := &mockQuoteStore{}
	e := New(store, &mockRegistrar{}, &stubAccounts{}, 100)

	affected, err := e.Reset(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), affected)
	assert.Equal(t, 1, store.resets)
}
