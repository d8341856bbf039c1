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

// UnimportedQuotes returns up to limit quote rows for the given stores that
// have a customer and have not been exported yet.
func (store *Store) UnimportedQuotes(ctx context.Context, storeIDs []int32, limit int) ([]QuoteRow, error) {
	rows, err := store.db.Query(ctx, `
		SELECT quote_id, store_id, customer_id, imported, modified
		FROM email_quote
		WHERE store_id = ANY($1) AND customer_id IS NOT NULL AND NOT imported
		ORDER BY quote_id
		LIMIT $2`,
		storeIDs, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanQuoteRows(rows)
}

// ModifiedQuotes returns up to limit already-exported quote rows that changed
// since export and need a single-mode update.
func (store *Store) ModifiedQuotes(ctx context.Context, storeIDs []int32, limit int) ([]QuoteRow, error) {
	rows, err := store.db.Query(ctx, `
		SELECT quote_id, store_id, customer_id, imported, modified
		FROM email_quote
		WHERE store_id = ANY($1) AND customer_id IS NOT NULL AND imported AND modified
		ORDER BY quote_id
		LIMIT $2`,
		storeIDs, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanQuoteRows(rows)
}

// MarkQuotesImported flags the given quotes as exported and clears the
// modified flag.
func (store *Store) MarkQuotesImported(ctx context.Context, quoteIDs []int64) error {
	if len(quoteIDs) == 0 {
		return nil
	}
	_, err := store.db.Exec(ctx, `
		UPDATE email_quote
		SET imported = true, modified = false, updated_at = now()
		WHERE quote_id = ANY($1)`,
		quoteIDs)
	return err
}

// ClearQuoteModified clears the modified flag of one quote after its update
// entry is accepted into the queue.
func (store *Store) ClearQuoteModified(ctx context.Context, quoteID int64) error {
	_, err := store.db.Exec(ctx, `
		UPDATE email_quote
		SET modified = false, updated_at = now()
		WHERE quote_id = $1`,
		quoteID)
	return err
}

// ResetQuotes clears import bookkeeping on every quote row so the producer
// re-exports everything, and returns the number of rows touched.
func (store *Store) ResetQuotes(ctx context.Context) (int64, error) {
	tag, err := store.db.Exec(ctx, `
		UPDATE email_quote
		SET imported = false, modified = false, updated_at = now()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanQuoteRows(rows pgx.Rows) ([]QuoteRow, error) {
	var quotes []QuoteRow
	for rows.Next() {
		var q QuoteRow
		if err := rows.Scan(&q.QuoteID, &q.StoreID, &q.CustomerID, &q.Imported, &q.Modified); err != nil {
			return nil, err
		}
		quotes = append(quotes, q)
	}
	return quotes, rows.Err()
}
