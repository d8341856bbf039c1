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
	"errors"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/dotmart/emailsync/internal/tenant"
)

// ErrSyncDisabled marks websites whose account exists but has sync turned
// off. Callers skip the work rather than failing it.
var ErrSyncDisabled = errors.New("sync is disabled for website")

// Provider resolves an API client per website.
type Provider interface {
	ClientForWebsite(ctx context.Context, websiteID int32) (Client, error)
}

const clientCacheTTL = 5 * time.Minute

// CachingProvider builds clients from tenant accounts and caches them with a
// TTL so credential or endpoint changes are picked up without a restart.
type CachingProvider struct {
	accounts tenant.Provider
	cache    *ttlcache.Cache[int32, Client]
}

func NewCachingProvider(accounts tenant.Provider) *CachingProvider {
	cache := ttlcache.New(
		ttlcache.WithTTL[int32, Client](clientCacheTTL),
	)
	go cache.Start()

	return &CachingProvider{
		accounts: accounts,
		cache:    cache,
	}
}

func (p *CachingProvider) ClientForWebsite(ctx context.Context, websiteID int32) (Client, error) {
	if item := p.cache.Get(websiteID); item != nil {
		return item.Value(), nil
	}

	account, err := p.accounts.AccountForWebsite(ctx, websiteID)
	if err != nil {
		return nil, err
	}
	if !account.Enabled {
		return nil, ErrSyncDisabled
	}

	client := NewClient(account)
	p.cache.Set(websiteID, client, ttlcache.DefaultTTL)
	return client, nil
}

// Stop halts the cache's expiry loop.
func (p *CachingProvider) Stop() {
	p.cache.Stop()
}
