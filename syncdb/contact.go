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
)

// UnsubscribeContacts marks the given emails as unsubscribed in both the
// contact table and the newsletter subscriber table. Both writes commit in
// one transaction so a fault report is never half-applied.
func (store *Store) UnsubscribeContacts(ctx context.Context, emails []string) (int64, error) {
	if len(emails) == 0 {
		return 0, nil
	}
	var affected int64
	err := store.execTx(ctx, func(s *Store) error {
		tag, err := s.db.Exec(ctx, `
			UPDATE email_contact
			SET is_subscriber = false, suppressed = true, updated_at = now()
			WHERE email = ANY($1)`,
			emails)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()

		_, err = s.db.Exec(ctx, `
			UPDATE newsletter_subscriber
			SET subscriber_status = 'unsubscribed', updated_at = now()
			WHERE subscriber_email = ANY($1)`,
			emails)
		return err
	})
	return affected, err
}

// DeleteConsentByEmails removes consent records for the given emails and
// returns the number of rows deleted.
func (store *Store) DeleteConsentByEmails(ctx context.Context, emails []string) (int64, error) {
	if len(emails) == 0 {
		return 0, nil
	}
	tag, err := store.db.Exec(ctx, `
		DELETE FROM email_consent
		WHERE email = ANY($1)`,
		emails)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// OrderByID loads the order attributes used for automation datafield updates.
func (store *Store) OrderByID(ctx context.Context, orderID int64) (OrderRow, error) {
	var o OrderRow
	err := store.db.QueryRow(ctx, `
		SELECT order_id, increment_id, store_id, COALESCE(customer_id, 0), customer_email, created_at
		FROM sales_order
		WHERE order_id = $1`,
		orderID).Scan(&o.OrderID, &o.IncrementID, &o.StoreID, &o.CustomerID, &o.CustomerEmail, &o.CreatedAt)
	return o, err
}
