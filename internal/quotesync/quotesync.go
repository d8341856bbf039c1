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

// Package quotesync produces quote export work for the import queue: new
// quotes go out as one bulk entry per website, changed quotes as single
// updates.
package quotesync

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/dotmart/emailsync/internal/logctx"
	"github.com/dotmart/emailsync/internal/tenant"
	"github.com/dotmart/emailsync/syncdb"
)

// Registrar is the queue entry point quote exports are registered through.
type Registrar interface {
	RegisterQueue(ctx context.Context, importType syncdb.ImportType, payload any, mode syncdb.ImportMode, websiteID int32, file string) bool
}

// Store is the producer's bookkeeping over the quote table.
type Store interface {
	UnimportedQuotes(ctx context.Context, storeIDs []int32, limit int) ([]syncdb.QuoteRow, error)
	ModifiedQuotes(ctx context.Context, storeIDs []int32, limit int) ([]syncdb.QuoteRow, error)
	MarkQuotesImported(ctx context.Context, quoteIDs []int64) error
	ClearQuoteModified(ctx context.Context, quoteID int64) error
	ResetQuotes(ctx context.Context) (int64, error)
}

// quotePayload is the serialized form of one exported quote.
type quotePayload struct {
	QuoteID    int64 `json:"quote_id"`
	StoreID    int32 `json:"store_id"`
	CustomerID int64 `json:"customer_id"`
}

// Exporter walks every quote-sync-enabled website once per cycle.
type Exporter struct {
	store      Store
	queue      Registrar
	accounts   tenant.Provider
	batchLimit int
}

func New(store Store, queue Registrar, accounts tenant.Provider, batchLimit int) *Exporter {
	return &Exporter{
		store:      store,
		queue:      queue,
		accounts:   accounts,
		batchLimit: batchLimit,
	}
}

// Sync exports unimported quotes as one bulk entry per website, then changed
// quotes as single updates. Bookkeeping flags only move once the queue has
// accepted the entry, so rejected registrations are retried next cycle.
func (e *Exporter) Sync(ctx context.Context) error {
	accounts, err := e.accounts.EnabledAccounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to list enabled accounts: %w", err)
	}

	var errs *multierror.Error
	for _, account := range accounts {
		if !account.QuoteSyncEnabled || len(account.StoreIDs) == 0 {
			continue
		}
		if err := e.syncWebsite(ctx, account); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("website %d: %w", account.WebsiteID, err))
		}
	}
	return errs.ErrorOrNil()
}

func (e *Exporter) syncWebsite(ctx context.Context, account tenant.Account) error {
	ctx = logctx.WithAttrs(ctx, "websiteID", account.WebsiteID)
	ll := logctx.FromContext(ctx)

	quotes, err := e.store.UnimportedQuotes(ctx, account.StoreIDs, e.batchLimit)
	if err != nil {
		return fmt.Errorf("failed to fetch unimported quotes: %w", err)
	}
	if len(quotes) > 0 {
		payload := make([]quotePayload, 0, len(quotes))
		quoteIDs := make([]int64, 0, len(quotes))
		for _, q := range quotes {
			payload = append(payload, quotePayload{QuoteID: q.QuoteID, StoreID: q.StoreID, CustomerID: q.CustomerID})
			quoteIDs = append(quoteIDs, q.QuoteID)
		}
		if e.queue.RegisterQueue(ctx, syncdb.ImportTypeQuote, payload, syncdb.ImportModeBulk, account.WebsiteID, "") {
			if err := e.store.MarkQuotesImported(ctx, quoteIDs); err != nil {
				return fmt.Errorf("failed to mark quotes imported: %w", err)
			}
			quotesExported.Add(ctx, int64(len(quoteIDs)))
			ll.Info("Exported quote batch", "quotes", len(quoteIDs))
		}
	}

	modified, err := e.store.ModifiedQuotes(ctx, account.StoreIDs, e.batchLimit)
	if err != nil {
		return fmt.Errorf("failed to fetch modified quotes: %w", err)
	}
	for _, q := range modified {
		payload := quotePayload{QuoteID: q.QuoteID, StoreID: q.StoreID, CustomerID: q.CustomerID}
		if e.queue.RegisterQueue(ctx, syncdb.ImportTypeQuote, payload, syncdb.ImportModeSingle, account.WebsiteID, "") {
			if err := e.store.ClearQuoteModified(ctx, q.QuoteID); err != nil {
				return fmt.Errorf("failed to clear modified flag on quote %d: %w", q.QuoteID, err)
			}
			quotesExported.Add(ctx, 1)
		}
	}
	return nil
}

// Reset clears the import bookkeeping so every quote is exported again.
func (e *Exporter) Reset(ctx context.Context) (int64, error) {
	return e.store.ResetQuotes(ctx)
}
