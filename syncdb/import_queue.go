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
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const importQueueColumns = `id, import_type, import_mode, website_id, import_data,
	COALESCE(import_file, ''), import_status, COALESCE(import_id, '00000000-0000-0000-0000-000000000000'),
	import_finished, COALESCE(message, ''), created_at, updated_at`

// ImportQueueInsertParams are the producer-supplied attributes of a new entry.
// Status always starts at NotImported.
type ImportQueueInsertParams struct {
	ImportType ImportType
	ImportMode ImportMode
	WebsiteID  int32
	ImportData []byte
	ImportFile string
}

// ImportQueueInsert persists a new NotImported entry and returns its id.
func (store *Store) ImportQueueInsert(ctx context.Context, params ImportQueueInsertParams) (int64, error) {
	var id int64
	err := store.db.QueryRow(ctx, `
		INSERT INTO email_importer (import_type, import_mode, website_id, import_data, import_file, import_status)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
		RETURNING id`,
		params.ImportType, params.ImportMode, params.WebsiteID, params.ImportData,
		params.ImportFile, ImportStatusNotImported,
	).Scan(&id)
	return id, err
}

// ImportQueueByStatus returns up to limit entries with the given status,
// oldest first. The reconciler uses it to find in-flight imports.
func (store *Store) ImportQueueByStatus(ctx context.Context, status ImportStatus, limit int) ([]ImportQueueEntry, error) {
	rows, err := store.db.Query(ctx, `
		SELECT `+importQueueColumns+`
		FROM email_importer
		WHERE import_status = $1
		ORDER BY id
		LIMIT $2`,
		status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanImportQueueEntries(rows)
}

// ImportQueueByTypeAndMode returns up to limit NotImported entries whose type
// is in types and whose mode matches, oldest first. The stable id ordering is
// what guarantees forward progress across cycles.
func (store *Store) ImportQueueByTypeAndMode(ctx context.Context, types []ImportType, mode ImportMode, limit int) ([]ImportQueueEntry, error) {
	typeNames := make([]string, 0, len(types))
	for _, t := range types {
		typeNames = append(typeNames, string(t))
	}
	rows, err := store.db.Query(ctx, `
		SELECT `+importQueueColumns+`
		FROM email_importer
		WHERE import_status = $1 AND import_type = ANY($2) AND import_mode = $3
		ORDER BY id
		LIMIT $4`,
		ImportStatusNotImported, typeNames, mode, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanImportQueueEntries(rows)
}

// ImportQueueUpdateParams carry a status transition for one entry.
type ImportQueueUpdateParams struct {
	ID             int64
	ImportStatus   ImportStatus
	ImportID       uuid.UUID
	ImportFinished *time.Time
	Message        string
}

// ImportQueueUpdate writes the entry's status, external import id, completion
// time and message, bumping updated_at.
func (store *Store) ImportQueueUpdate(ctx context.Context, params ImportQueueUpdateParams) error {
	var importID any
	if params.ImportID != uuid.Nil {
		importID = params.ImportID
	}
	_, err := store.db.Exec(ctx, `
		UPDATE email_importer
		SET import_status = $2, import_id = $3, import_finished = $4, message = $5, updated_at = now()
		WHERE id = $1`,
		params.ID, params.ImportStatus, importID, params.ImportFinished, params.Message)
	return err
}

func scanImportQueueEntries(rows pgx.Rows) ([]ImportQueueEntry, error) {
	var entries []ImportQueueEntry
	for rows.Next() {
		var e ImportQueueEntry
		if err := rows.Scan(
			&e.ID, &e.ImportType, &e.ImportMode, &e.WebsiteID, &e.ImportData,
			&e.ImportFile, &e.ImportStatus, &e.ImportID, &e.ImportFinished,
			&e.Message, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
