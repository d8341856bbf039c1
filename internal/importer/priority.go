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

package importer

import (
	"context"

	"github.com/dotmart/emailsync/syncdb"
)

// Worker submits one batch of queue entries to the remote service. Every
// entry handed in must leave the call with a status other than NotImported.
type Worker interface {
	Sync(ctx context.Context, batch []syncdb.ImportQueueEntry) error
}

// Registry binds each kind of dispatch work to a concrete worker. Resolved
// once at startup, never per call.
type Registry struct {
	ContactBulk   Worker
	TDBulk        Worker
	ContactUpdate Worker
	TDUpdate      Worker
	ContactDelete Worker
	TDDelete      Worker
}

// Rule is one slot in a tier's priority plan.
type Rule struct {
	Types  []syncdb.ImportType
	Mode   syncdb.ImportMode
	Worker Worker
	Limit  int
}

// BuildBulkPlan returns the bulk tier in its fixed order. Contact-family
// batches go first so identities exist before transactional data references
// them; the ordering is policy and must not change.
func BuildBulkPlan(r Registry, limit int) []Rule {
	return []Rule{
		{
			Types:  []syncdb.ImportType{syncdb.ImportTypeContact, syncdb.ImportTypeGuest, syncdb.ImportTypeSubscriber},
			Mode:   syncdb.ImportModeBulk,
			Worker: r.ContactBulk,
			Limit:  limit,
		},
		{
			Types:  []syncdb.ImportType{syncdb.ImportTypeOrders},
			Mode:   syncdb.ImportModeBulk,
			Worker: r.TDBulk,
			Limit:  limit,
		},
		{
			Types:  []syncdb.ImportType{syncdb.ImportTypeCatalog, syncdb.ImportTypeReviews, syncdb.ImportTypeWishlist},
			Mode:   syncdb.ImportModeBulk,
			Worker: r.TDBulk,
			Limit:  limit,
		},
	}
}

// BuildSinglePlan returns the single tier in its fixed order. Resubscribes
// and identity changes run before any single-record operation that could
// reference the affected identity; deletes run last.
func BuildSinglePlan(r Registry, limit int) []Rule {
	return []Rule{
		{
			Types:  []syncdb.ImportType{syncdb.ImportTypeSubscriber},
			Mode:   syncdb.ImportModeSubscriberResubscribed,
			Worker: r.ContactUpdate,
			Limit:  limit,
		},
		{
			Types:  []syncdb.ImportType{syncdb.ImportTypeSubscriber},
			Mode:   syncdb.ImportModeSubscriberUpdate,
			Worker: r.ContactUpdate,
			Limit:  limit,
		},
		{
			Types:  []syncdb.ImportType{syncdb.ImportTypeContact},
			Mode:   syncdb.ImportModeContactEmailUpdate,
			Worker: r.ContactUpdate,
			Limit:  limit,
		},
		{
			Types:  []syncdb.ImportType{syncdb.ImportTypeOrders},
			Mode:   syncdb.ImportModeSingle,
			Worker: r.TDUpdate,
			Limit:  limit,
		},
		{
			Types:  []syncdb.ImportType{syncdb.ImportTypeCatalog, syncdb.ImportTypeWishlist},
			Mode:   syncdb.ImportModeSingle,
			Worker: r.TDUpdate,
			Limit:  limit,
		},
		{
			Types:  []syncdb.ImportType{syncdb.ImportTypeContact},
			Mode:   syncdb.ImportModeContactDelete,
			Worker: r.ContactDelete,
			Limit:  limit,
		},
		{
			Types:  []syncdb.ImportType{syncdb.ImportTypeCatalog, syncdb.ImportTypeReviews, syncdb.ImportTypeWishlist, syncdb.ImportTypeOrders},
			Mode:   syncdb.ImportModeSingleDelete,
			Worker: r.TDDelete,
			Limit:  limit,
		},
	}
}
