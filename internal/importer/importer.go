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

// Package importer schedules sync work against the marketing platform: it
// dispatches queued entries in priority order under per-cycle limits and
// reconciles the status of imports the platform completes asynchronously.
package importer

import (
	"context"

	"github.com/hashicorp/go-multierror"

	"github.com/dotmart/emailsync/internal/dotapi"
	"github.com/dotmart/emailsync/internal/logctx"
	"github.com/dotmart/emailsync/syncdb"
)

// QueueStore is the durable queue the scheduler operates on.
type QueueStore interface {
	ImportQueueInsert(ctx context.Context, params syncdb.ImportQueueInsertParams) (int64, error)
	ImportQueueByStatus(ctx context.Context, status syncdb.ImportStatus, limit int) ([]syncdb.ImportQueueEntry, error)
	ImportQueueByTypeAndMode(ctx context.Context, types []syncdb.ImportType, mode syncdb.ImportMode, limit int) ([]syncdb.ImportQueueEntry, error)
	ImportQueueUpdate(ctx context.Context, params syncdb.ImportQueueUpdateParams) error
}

// ContactStore covers the local writes the reconciler makes after a confirmed
// contact import.
type ContactStore interface {
	UnsubscribeContacts(ctx context.Context, emails []string) (int64, error)
	DeleteConsentByEmails(ctx context.Context, emails []string) (int64, error)
}

// FileManager reads generated import files and archives them once processed.
type FileManager interface {
	ReadKeyedColumn(path, header string) ([]string, error)
	Archive(path string) error
}

// Importer runs one scheduling cycle at a time: reconcile in-flight imports,
// then dispatch the bulk tier, then the single tier.
type Importer struct {
	store       QueueStore
	contacts    ContactStore
	clients     dotapi.Provider
	files       FileManager
	registry    Registry
	bulkLimit   int
	singleLimit int
}

func New(store QueueStore, contacts ContactStore, clients dotapi.Provider, files FileManager, registry Registry, bulkLimit, singleLimit int) *Importer {
	return &Importer{
		store:       store,
		contacts:    contacts,
		clients:     clients,
		files:       files,
		registry:    registry,
		bulkLimit:   bulkLimit,
		singleLimit: singleLimit,
	}
}

// ProcessQueue runs one cycle. Failures in one phase or rule never stop the
// remaining ones; everything that went wrong is aggregated into the returned
// error for the caller to log.
func (imp *Importer) ProcessQueue(ctx context.Context) error {
	ll := logctx.FromContext(ctx)

	var errs *multierror.Error

	if err := imp.checkImportStatus(ctx); err != nil {
		ll.Error("Status reconciliation failed", "error", err)
		errs = multierror.Append(errs, err)
	}

	if err := imp.dispatchTier(ctx, BuildBulkPlan(imp.registry, imp.bulkLimit)); err != nil {
		ll.Error("Bulk tier dispatch failed", "error", err)
		errs = multierror.Append(errs, err)
	}

	if err := imp.dispatchTier(ctx, BuildSinglePlan(imp.registry, imp.singleLimit)); err != nil {
		ll.Error("Single tier dispatch failed", "error", err)
		errs = multierror.Append(errs, err)
	}

	return errs.ErrorOrNil()
}
