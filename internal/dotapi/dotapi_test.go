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

package dotapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotmart/emailsync/internal/tenant"
)

type stubAccounts struct {
	accounts map[int32]tenant.Account
	calls    int
}

func (s *stubAccounts) AccountForWebsite(_ context.Context, websiteID int32) (tenant.Account, error) {
	s.calls++
	account, ok := s.accounts[websiteID]
	if !ok {
		return tenant.Account{}, tenant.ErrAccountNotFound
	}
	return account, nil
}

func (s *stubAccounts) EnabledAccounts(_ context.Context) ([]tenant.Account, error) {
	return nil, nil
}

func TestCachingProvider_CachesClients(t *testing.T) {
	accounts := &stubAccounts{
		accounts: map[int32]tenant.Account{
			1: {WebsiteID: 1, Enabled: true, APIUser: "apiuser-a", APIPassword: "x"},
		},
	}
	p := NewCachingProvider(accounts)
	defer p.Stop()

	first, err := p.ClientForWebsite(context.Background(), 1)
	require.NoError(t, err)
	second, err := p.ClientForWebsite(context.Background(), 1)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, accounts.calls)
}

func TestCachingProvider_DisabledAccount(t *testing.T) {
	accounts := &stubAccounts{
		accounts: map[int32]tenant.Account{
			2: {WebsiteID: 2, Enabled: false},
		},
	}
	p := NewCachingProvider(accounts)
	defer p.Stop()

	_, err := p.ClientForWebsite(context.Background(), 2)
	require.ErrorIs(t, err, ErrSyncDisabled)

	_, err = p.ClientForWebsite(context.Background(), 3)
	require.ErrorIs(t, err, tenant.ErrAccountNotFound)
}

func TestClient_GetContactsImportByImportID(t *testing.T) {
	importID := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/contacts/imports/"+importID.String(), r.URL.Path)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "apiuser-a", user)
		assert.Equal(t, "secret", pass)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"` + importID.String() + `","status":"Finished"}`))
	}))
	defer srv.Close()

	client := NewClient(tenant.Account{
		APIUser:     "apiuser-a",
		APIPassword: "secret",
		Endpoint:    srv.URL,
	})

	resp, err := client.GetContactsImportByImportID(context.Background(), importID)
	require.NoError(t, err)
	assert.Equal(t, importID, resp.ID)
	assert.Equal(t, ImportFinished, resp.Status)
	assert.Empty(t, resp.Message)
}

func TestClient_PostContactsImport_Rejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Import file contains no rows."}`))
	}))
	defer srv.Close()

	client := NewClient(tenant.Account{Endpoint: srv.URL})

	resp, err := client.PostContactsImport(context.Background(), []byte(`[]`))
	require.NoError(t, err)
	assert.Equal(t, "Import file contains no rows.", resp.Message)
}

func TestClient_GetContactImportReportFaults(t *testing.T) {
	importID := uuid.New()
	faults := []byte("Reason,Email\r\nBlocked,bad@example.com\r\n")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/contacts/imports/"+importID.String()+"/report-faults", r.URL.Path)
		_, _ = w.Write(faults)
	}))
	defer srv.Close()

	client := NewClient(tenant.Account{Endpoint: srv.URL})

	got, err := client.GetContactImportReportFaults(context.Background(), importID)
	require.NoError(t, err)
	assert.Equal(t, faults, got)
}

func TestClient_GetContactImportReportFaults_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(tenant.Account{Endpoint: srv.URL})

	got, err := client.GetContactImportReportFaults(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	srv.Close()

	client := NewClient(tenant.Account{Endpoint: srv.URL})

	_, err := client.GetContactByEmail(context.Background(), "someone@example.com")
	require.Error(t, err)
}
