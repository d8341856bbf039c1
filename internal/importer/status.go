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
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dotmart/emailsync/internal/dotapi"
	"github.com/dotmart/emailsync/internal/logctx"
	"github.com/dotmart/emailsync/syncdb"
)

// checkImportStatus polls the remote service for every in-flight entry and
// transitions each to a terminal state or leaves it Importing for the next
// cycle. There is no retry here: a Failed entry is only recovered by the
// producer enqueueing a fresh one.
func (imp *Importer) checkImportStatus(ctx context.Context) error {
	ll := logctx.FromContext(ctx)

	entries, err := imp.store.ImportQueueByStatus(ctx, syncdb.ImportStatusImporting, imp.bulkLimit)
	if err != nil {
		return fmt.Errorf("failed to fetch in-flight entries: %w", err)
	}

	notFinished := 0
	for _, entry := range entries {
		client, err := imp.clients.ClientForWebsite(ctx, entry.WebsiteID)
		if err != nil {
			// Not a failure: the entry stays Importing until the
			// website's account is usable again.
			ll.Debug("Skipping in-flight entry, no usable client", "id", entry.ID, "websiteID", entry.WebsiteID, "reason", err)
			continue
		}

		var resp dotapi.ImportResponse
		if entry.ImportType.IsContactFamily() {
			resp, err = client.GetContactsImportByImportID(ctx, entry.ImportID)
		} else {
			resp, err = client.GetTransactionalDataImportByImportID(ctx, entry.ImportID)
		}
		if err != nil {
			terr := &TransportError{Op: "import status poll", Err: err}
			ll.Warn("Import status poll failed", "id", entry.ID, "error", terr)
			imp.persist(ctx, entry, syncdb.ImportStatusFailed, nil, terr.Error())
			importsFailed.Add(ctx, 1)
			continue
		}

		if !imp.processResponse(ctx, client, entry, resp) {
			notFinished++
		}
	}

	if notFinished > 0 {
		ll.Debug("Imports still running remotely", "count", notFinished)
	}
	return nil
}

// processResponse interprets one status response and persists the entry
// exactly once. It reports whether the entry reached a terminal state.
func (imp *Importer) processResponse(ctx context.Context, client dotapi.Client, entry syncdb.ImportQueueEntry, resp dotapi.ImportResponse) bool {
	ll := logctx.FromContext(ctx)

	switch {
	case resp.Message != "":
		ll.Warn("Import rejected by remote service", "id", entry.ID, "message", resp.Message)
		imp.persist(ctx, entry, syncdb.ImportStatusFailed, nil, resp.Message)
		importsFailed.Add(ctx, 1)
		return true

	case resp.Status == dotapi.ImportFinished:
		now := time.Now().UTC()
		imp.persist(ctx, entry, syncdb.ImportStatusImported, &now, "")
		importsFinished.Add(ctx, 1)
		ll.Info("Import finished", "id", entry.ID, "importType", entry.ImportType, "importID", entry.ImportID)

		if entry.ImportType.IsContactFamily() {
			if entry.ImportFile != "" {
				imp.cleanupConsent(ctx, entry.ImportFile)
				if err := imp.files.Archive(entry.ImportFile); err != nil {
					ll.Warn("Failed to archive import file", "file", entry.ImportFile, "error", err)
				}
			}
			if entry.ImportID != uuid.Nil {
				imp.processFaultReport(ctx, client, entry.ImportID)
			}
		}
		return true

	case isTerminalFailure(resp.Status):
		rej := &RemoteRejection{Label: resp.Status}
		ll.Warn("Import failed remotely", "id", entry.ID, "status", resp.Status)
		imp.persist(ctx, entry, syncdb.ImportStatusFailed, nil, rej.Error())
		importsFailed.Add(ctx, 1)
		return true

	default:
		// Still running remotely. The write only bumps updated_at so the
		// last poll time stays visible.
		imp.persist(ctx, entry, syncdb.ImportStatusImporting, nil, entry.Message)
		return false
	}
}

// isTerminalFailure reports whether the remote status label means the import
// will never finish.
func isTerminalFailure(status string) bool {
	switch status {
	case "RejectedByWatchdog",
		"InvalidFileFormat",
		"Unknown",
		"Failed",
		"ExceedsAllowedContactLimit",
		"NotAvailableInThisVersion":
		return true
	default:
		return false
	}
}

func (imp *Importer) persist(ctx context.Context, entry syncdb.ImportQueueEntry, status syncdb.ImportStatus, finished *time.Time, message string) {
	err := imp.store.ImportQueueUpdate(ctx, syncdb.ImportQueueUpdateParams{
		ID:             entry.ID,
		ImportStatus:   status,
		ImportID:       entry.ImportID,
		ImportFinished: finished,
		Message:        message,
	})
	if err != nil {
		logctx.FromContext(ctx).Error("Failed to persist entry status", "id", entry.ID, "status", status, "error", err)
	}
}
