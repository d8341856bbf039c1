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

package automation

import (
	"time"

	"github.com/dotmart/emailsync/internal/dotapi"
	"github.com/dotmart/emailsync/internal/tenant"
	"github.com/dotmart/emailsync/syncdb"
)

// defaultDataFields builds the field set pushed for customer, subscriber and
// wishlist enrollments. Every field is optional: a datafield without a
// configured remote name is not pushed.
func defaultDataFields(account tenant.Account, enrollment syncdb.AutomationEnrollment) []dotapi.DataField {
	var fields []dotapi.DataField
	if account.DataFields.StoreName != "" && enrollment.StoreName != "" {
		fields = append(fields, dotapi.DataField{Key: account.DataFields.StoreName, Value: enrollment.StoreName})
	}
	if account.DataFields.WebsiteName != "" && account.WebsiteName != "" {
		fields = append(fields, dotapi.DataField{Key: account.DataFields.WebsiteName, Value: account.WebsiteName})
	}
	return fields
}

// orderDataFields extends the default set with the order-derived fields for
// order, guest-order and review enrollments.
func orderDataFields(account tenant.Account, enrollment syncdb.AutomationEnrollment, order syncdb.OrderRow) []dotapi.DataField {
	fields := defaultDataFields(account, enrollment)
	if account.DataFields.LastOrderID != "" {
		fields = append(fields, dotapi.DataField{Key: account.DataFields.LastOrderID, Value: order.OrderID})
	}
	if account.DataFields.LastOrderIncrementID != "" {
		fields = append(fields, dotapi.DataField{Key: account.DataFields.LastOrderIncrementID, Value: order.IncrementID})
	}
	if account.DataFields.LastOrderDate != "" {
		fields = append(fields, dotapi.DataField{Key: account.DataFields.LastOrderDate, Value: order.CreatedAt.UTC().Format(time.RFC3339)})
	}
	if account.DataFields.CustomerID != "" && order.CustomerID != 0 {
		fields = append(fields, dotapi.DataField{Key: account.DataFields.CustomerID, Value: order.CustomerID})
	}
	return fields
}

// usesOrderDataFields reports whether the automation type derives datafields
// from the triggering order.
func usesOrderDataFields(t syncdb.AutomationType) bool {
	switch t {
	case syncdb.AutomationTypeNewOrder, syncdb.AutomationTypeNewGuestOrder, syncdb.AutomationTypeNewReview:
		return true
	default:
		return false
	}
}
