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

// ImportStatus is the lifecycle state of an import queue entry. Transitions
// only move forward: NotImported -> Importing -> Imported or Failed. Failed
// entries are never resurrected in place; producers re-enqueue fresh entries.
type ImportStatus int16

const (
	ImportStatusNotImported ImportStatus = 0
	ImportStatusImporting   ImportStatus = 1
	ImportStatusImported    ImportStatus = 2
	ImportStatusFailed      ImportStatus = 3
)

func (s ImportStatus) String() string {
	switch s {
	case ImportStatusNotImported:
		return "NotImported"
	case ImportStatusImporting:
		return "Importing"
	case ImportStatusImported:
		return "Imported"
	case ImportStatusFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// ImportType identifies the kind of records an entry carries.
type ImportType string

const (
	ImportTypeContact    ImportType = "Contact"
	ImportTypeGuest      ImportType = "Guest"
	ImportTypeSubscriber ImportType = "Subscriber"
	ImportTypeOrders     ImportType = "Orders"
	ImportTypeCatalog    ImportType = "Catalog"
	ImportTypeReviews    ImportType = "Reviews"
	ImportTypeWishlist   ImportType = "Wishlist"
	ImportTypeQuote      ImportType = "Quote"
)

// IsContactFamily reports whether the type is imported through the contact
// import endpoints rather than the transactional-data endpoints.
func (t ImportType) IsContactFamily() bool {
	switch t {
	case ImportTypeContact, ImportTypeGuest, ImportTypeSubscriber:
		return true
	default:
		return false
	}
}

// ImportMode selects the submission path for an entry.
type ImportMode string

const (
	ImportModeBulk                   ImportMode = "Bulk"
	ImportModeSingle                 ImportMode = "Single"
	ImportModeSingleDelete           ImportMode = "Single_Delete"
	ImportModeContactDelete          ImportMode = "Contact_Delete"
	ImportModeSubscriberUpdate       ImportMode = "Subscriber_Update"
	ImportModeContactEmailUpdate     ImportMode = "Contact_Email_Update"
	ImportModeSubscriberResubscribed ImportMode = "Subscriber_Resubscribed"
)

// AutomationType identifies which enrollment flow a pending automation row
// belongs to.
type AutomationType string

const (
	AutomationTypeNewCustomer   AutomationType = "customer_automation"
	AutomationTypeNewSubscriber AutomationType = "subscriber_automation"
	AutomationTypeNewOrder      AutomationType = "order_automation"
	AutomationTypeNewGuestOrder AutomationType = "guest_order_automation"
	AutomationTypeNewReview     AutomationType = "review_automation"
	AutomationTypeNewWishlist   AutomationType = "wishlist_automation"
)

// EnrolmentStatus is the terminal (or pending) state of an automation
// enrollment. The non-pending values mirror the program statuses reported by
// the remote service, which is why they are capitalized.
type EnrolmentStatus string

const (
	EnrolmentStatusPending     EnrolmentStatus = "pending"
	EnrolmentStatusActive      EnrolmentStatus = "Active"
	EnrolmentStatusFailed      EnrolmentStatus = "Failed"
	EnrolmentStatusSuppressed  EnrolmentStatus = "Suppressed"
	EnrolmentStatusDeactivated EnrolmentStatus = "Deactivated"
)
