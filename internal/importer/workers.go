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
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dotmart/emailsync/internal/dotapi"
	"github.com/dotmart/emailsync/internal/logctx"
	"github.com/dotmart/emailsync/syncdb"
)

// NewRegistry wires the six worker kinds against the queue store and the
// per-website client provider.
func NewRegistry(store QueueStore, clients dotapi.Provider) Registry {
	base := workerBase{store: store, clients: clients}
	return Registry{
		ContactBulk:   &contactBulkWorker{base},
		TDBulk:        &tdBulkWorker{base},
		ContactUpdate: &contactUpdateWorker{base},
		TDUpdate:      &tdBulkWorker{base},
		ContactDelete: &contactDeleteWorker{base},
		TDDelete:      &tdDeleteWorker{base},
	}
}

// contactPayload is the serialized form of a single-tier contact operation.
type contactPayload struct {
	Email       string `json:"email"`
	EmailBefore string `json:"emailBefore,omitempty"`
}

// deletePayload carries the transactional-data key of a single delete.
type deletePayload struct {
	Key string `json:"key"`
}

type workerBase struct {
	store   QueueStore
	clients dotapi.Provider
}

// resolveClient returns the website's client or marks the entry Failed when
// none is usable, upholding the rule that no dispatched entry stays
// NotImported.
func (w *workerBase) resolveClient(ctx context.Context, entry syncdb.ImportQueueEntry) (dotapi.Client, bool) {
	client, err := w.clients.ClientForWebsite(ctx, entry.WebsiteID)
	if err != nil {
		w.markFailed(ctx, entry, fmt.Sprintf("no usable client for website %d: %v", entry.WebsiteID, err))
		return nil, false
	}
	return client, true
}

func (w *workerBase) markImporting(ctx context.Context, entry syncdb.ImportQueueEntry, importID uuid.UUID) {
	w.update(ctx, syncdb.ImportQueueUpdateParams{
		ID:           entry.ID,
		ImportStatus: syncdb.ImportStatusImporting,
		ImportID:     importID,
	})
}

func (w *workerBase) markImported(ctx context.Context, entry syncdb.ImportQueueEntry) {
	now := time.Now().UTC()
	w.update(ctx, syncdb.ImportQueueUpdateParams{
		ID:             entry.ID,
		ImportStatus:   syncdb.ImportStatusImported,
		ImportFinished: &now,
	})
}

func (w *workerBase) markFailed(ctx context.Context, entry syncdb.ImportQueueEntry, message string) {
	importsFailed.Add(ctx, 1)
	w.update(ctx, syncdb.ImportQueueUpdateParams{
		ID:           entry.ID,
		ImportStatus: syncdb.ImportStatusFailed,
		Message:      message,
	})
}

func (w *workerBase) update(ctx context.Context, params syncdb.ImportQueueUpdateParams) {
	if err := w.store.ImportQueueUpdate(ctx, params); err != nil {
		logctx.FromContext(ctx).Error("Failed to persist entry status", "id", params.ID, "status", params.ImportStatus, "error", err)
	}
}

// contactBulkWorker submits contact-family batches as asynchronous imports.
// Accepted submissions move to Importing and finish via the reconciler.
type contactBulkWorker struct {
	workerBase
}

func (w *contactBulkWorker) Sync(ctx context.Context, batch []syncdb.ImportQueueEntry) error {
	for _, entry := range batch {
		client, ok := w.resolveClient(ctx, entry)
		if !ok {
			continue
		}
		resp, err := client.PostContactsImport(ctx, entry.ImportData)
		if err != nil {
			w.markFailed(ctx, entry, (&TransportError{Op: "contacts import submit", Err: err}).Error())
			continue
		}
		if resp.Message != "" {
			w.markFailed(ctx, entry, resp.Message)
			continue
		}
		w.markImporting(ctx, entry, resp.ID)
	}
	return nil
}

// tdBulkWorker submits transactional-data payloads, bulk or single, into the
// collection named after the entry's import type.
type tdBulkWorker struct {
	workerBase
}

func (w *tdBulkWorker) Sync(ctx context.Context, batch []syncdb.ImportQueueEntry) error {
	for _, entry := range batch {
		client, ok := w.resolveClient(ctx, entry)
		if !ok {
			continue
		}
		resp, err := client.PostTransactionalDataImport(ctx, string(entry.ImportType), entry.ImportData)
		if err != nil {
			w.markFailed(ctx, entry, (&TransportError{Op: "transactional data submit", Err: err}).Error())
			continue
		}
		if resp.Message != "" {
			w.markFailed(ctx, entry, resp.Message)
			continue
		}
		w.markImporting(ctx, entry, resp.ID)
	}
	return nil
}

// contactUpdateWorker handles the synchronous single-tier contact operations:
// resubscribes, subscriber status updates and email changes. These complete
// in one call, so entries go straight to Imported.
type contactUpdateWorker struct {
	workerBase
}

func (w *contactUpdateWorker) Sync(ctx context.Context, batch []syncdb.ImportQueueEntry) error {
	for _, entry := range batch {
		var payload contactPayload
		if err := json.Unmarshal(entry.ImportData, &payload); err != nil {
			w.markFailed(ctx, entry, (&SerializationError{Err: err}).Error())
			continue
		}
		client, ok := w.resolveClient(ctx, entry)
		if !ok {
			continue
		}

		var err error
		switch entry.ImportMode {
		case syncdb.ImportModeSubscriberResubscribed:
			err = client.PostContactResubscribe(ctx, payload.Email)
		case syncdb.ImportModeSubscriberUpdate:
			err = client.UnsubscribeContact(ctx, payload.Email)
		case syncdb.ImportModeContactEmailUpdate:
			err = client.UpdateContactEmail(ctx, payload.EmailBefore, payload.Email)
		default:
			w.markFailed(ctx, entry, fmt.Sprintf("unsupported contact update mode %q", entry.ImportMode))
			continue
		}
		if err != nil {
			w.markFailed(ctx, entry, (&TransportError{Op: "contact update", Err: err}).Error())
			continue
		}
		w.markImported(ctx, entry)
	}
	return nil
}

// contactDeleteWorker removes contacts from the remote service.
type contactDeleteWorker struct {
	workerBase
}

func (w *contactDeleteWorker) Sync(ctx context.Context, batch []syncdb.ImportQueueEntry) error {
	for _, entry := range batch {
		var payload contactPayload
		if err := json.Unmarshal(entry.ImportData, &payload); err != nil {
			w.markFailed(ctx, entry, (&SerializationError{Err: err}).Error())
			continue
		}
		client, ok := w.resolveClient(ctx, entry)
		if !ok {
			continue
		}
		if err := client.DeleteContact(ctx, payload.Email); err != nil {
			w.markFailed(ctx, entry, (&TransportError{Op: "contact delete", Err: err}).Error())
			continue
		}
		w.markImported(ctx, entry)
	}
	return nil
}

// tdDeleteWorker removes single transactional-data records by key.
type tdDeleteWorker struct {
	workerBase
}

func (w *tdDeleteWorker) Sync(ctx context.Context, batch []syncdb.ImportQueueEntry) error {
	for _, entry := range batch {
		var payload deletePayload
		if err := json.Unmarshal(entry.ImportData, &payload); err != nil {
			w.markFailed(ctx, entry, (&SerializationError{Err: err}).Error())
			continue
		}
		client, ok := w.resolveClient(ctx, entry)
		if !ok {
			continue
		}
		if err := client.DeleteTransactionalData(ctx, string(entry.ImportType), payload.Key); err != nil {
			w.markFailed(ctx, entry, (&TransportError{Op: "transactional data delete", Err: err}).Error())
			continue
		}
		w.markImported(ctx, entry)
	}
	return nil
}
