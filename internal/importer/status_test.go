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
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotmart/emailsync/internal/dotapi"
	"github.com/dotmart/emailsync/syncdb"
)

func importingEntry(id int64, typ syncdb.ImportType, file string) syncdb.ImportQueueEntry {
	return syncdb.ImportQueueEntry{
		ID:           id,
		ImportType:   typ,
		ImportMode:   syncdb.ImportModeBulk,
		WebsiteID:    1,
		ImportStatus: syncdb.ImportStatusImporting,
		ImportID:     uuid.New(),
		ImportFile:   file,
	}
}

func TestCheckImportStatus_Finished(t *testing.T) {
	entry := importingEntry(1, syncdb.ImportTypeContact, "/tmp/contacts.csv")
	store := &mockQueueStore{entries: []syncdb.ImportQueueEntry{entry}}
	contacts := &mockContactStore{}
	files := &mockFiles{
		readFunc: func(_, _ string) ([]string, error) {
			return []string{"a@example.com", "b@example.com"}, nil
		},
	}
	client := &mockClient{
		contactsImportFunc: func(_ context.Context, importID uuid.UUID) (dotapi.ImportResponse, error) {
			return dotapi.ImportResponse{ID: importID, Status: dotapi.ImportFinished}, nil
		},
	}

	imp := New(store, contacts, staticProvider(client), files, Registry{}, 5, 100)
	require.NoError(t, imp.checkImportStatus(context.Background()))

	require.Len(t, store.updates, 1)
	update := store.updates[0]
	assert.Equal(t, syncdb.ImportStatusImported, update.ImportStatus)
	require.NotNil(t, update.ImportFinished)
	assert.Empty(t, update.Message)

	// Consent cleanup runs exactly once, before the file is archived.
	require.Len(t, contacts.consentDeletes, 1)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, contacts.consentDeletes[0])
	assert.Equal(t, []string{
		"read:/tmp/contacts.csv:Email",
		"archive:/tmp/contacts.csv",
	}, files.events)
}

func TestCheckImportStatus_TransactionalTypeSkipsContactSteps(t *testing.T) {
	entry := importingEntry(1, syncdb.ImportTypeOrders, "")
	store := &mockQueueStore{entries: []syncdb.ImportQueueEntry{entry}}
	contacts := &mockContactStore{}
	files := &mockFiles{}
	var tdPolled bool
	client := &mockClient{
		tdImportFunc: func(_ context.Context, importID uuid.UUID) (dotapi.ImportResponse, error) {
			tdPolled = true
			return dotapi.ImportResponse{ID: importID, Status: dotapi.ImportFinished}, nil
		},
	}

	imp := New(store, contacts, staticProvider(client), files, Registry{}, 5, 100)
	require.NoError(t, imp.checkImportStatus(context.Background()))

	assert.True(t, tdPolled)
	require.Len(t, store.updates, 1)
	assert.Equal(t, syncdb.ImportStatusImported, store.updates[0].ImportStatus)
	assert.Empty(t, contacts.consentDeletes)
	assert.Empty(t, files.events)
}

func TestCheckImportStatus_TransportError(t *testing.T) {
	entry := importingEntry(1, syncdb.ImportTypeContact, "")
	store := &mockQueueStore{entries: []syncdb.ImportQueueEntry{entry}}
	client := &mockClient{
		contactsImportFunc: func(_ context.Context, _ uuid.UUID) (dotapi.ImportResponse, error) {
			return dotapi.ImportResponse{}, errors.New("connection reset")
		},
	}

	imp := New(store, &mockContactStore{}, staticProvider(client), &mockFiles{}, Registry{}, 5, 100)
	require.NoError(t, imp.checkImportStatus(context.Background()))

	require.Len(t, store.updates, 1)
	assert.Equal(t, syncdb.ImportStatusFailed, store.updates[0].ImportStatus)
	assert.Contains(t, store.updates[0].Message, "connection reset")
}

func TestCheckImportStatus_RemoteMessage(t *testing.T) {
	entry := importingEntry(1, syncdb.ImportTypeContact, "")
	store := &mockQueueStore{entries: []syncdb.ImportQueueEntry{entry}}
	client := &mockClient{
		contactsImportFunc: func(_ context.Context, _ uuid.UUID) (dotapi.ImportResponse, error) {
			return dotapi.ImportResponse{Message: "Import file contains no rows."}, nil
		},
	}

	imp := New(store, &mockContactStore{}, staticProvider(client), &mockFiles{}, Registry{}, 5, 100)
	require.NoError(t, imp.checkImportStatus(context.Background()))

	require.Len(t, store.updates, 1)
	assert.Equal(t, syncdb.ImportStatusFailed, store.updates[0].ImportStatus)
	assert.Equal(t, "Import file contains no rows.", store.updates[0].Message)
}

func TestCheckImportStatus_TerminalFailureLabels(t *testing.T) {
	for _, label := range []string{
		"RejectedByWatchdog",
		"InvalidFileFormat",
		"Unknown",
		"Failed",
		"ExceedsAllowedContactLimit",
		"NotAvailableInThisVersion",
	} {
		t.Run(label, func(t *testing.T) {
			entry := importingEntry(1, syncdb.ImportTypeOrders, "")
			store := &mockQueueStore{entries: []syncdb.ImportQueueEntry{entry}}
			client := &mockClient{
				tdImportFunc: func(_ context.Context, _ uuid.UUID) (dotapi.ImportResponse, error) {
					return dotapi.ImportResponse{Status: label}, nil
				},
			}

			imp := New(store, &mockContactStore{}, staticProvider(client), &mockFiles{}, Registry{}, 5, 100)
			require.NoError(t, imp.checkImportStatus(context.Background()))

			require.Len(t, store.updates, 1)
			assert.Equal(t, syncdb.ImportStatusFailed, store.updates[0].ImportStatus)
			assert.Equal(t, "Import failed with status "+label, store.updates[0].Message)
		})
	}
}

func TestCheckImportStatus_StillRunning(t *testing.T) {
	entry := importingEntry(1, syncdb.ImportTypeContact, "")
	store := &mockQueueStore{entries: []syncdb.ImportQueueEntry{entry}}
	client := &mockClient{
		contactsImportFunc: func(_ context.Context, _ uuid.UUID) (dotapi.ImportResponse, error) {
			return dotapi.ImportResponse{Status: "NotFinished"}, nil
		},
	}

	imp := New(store, &mockContactStore{}, staticProvider(client), &mockFiles{}, Registry{}, 5, 100)
	require.NoError(t, imp.checkImportStatus(context.Background()))

	require.Len(t, store.updates, 1)
	assert.Equal(t, syncdb.ImportStatusImporting, store.updates[0].ImportStatus)
	assert.Equal(t, entry.ImportID, store.updates[0].ImportID)
}

func TestCheckImportStatus_SkipsWhenClientUnavailable(t *testing.T) {
	entry := importingEntry(1, syncdb.ImportTypeContact, "")
	store := &mockQueueStore{entries: []syncdb.ImportQueueEntry{entry}}
	provider := &mockProvider{
		clientFunc: func(_ context.Context, _ int32) (dotapi.Client, error) {
			return nil, dotapi.ErrSyncDisabled
		},
	}

	imp := New(store, &mockContactStore{}, provider, &mockFiles{}, Registry{}, 5, 100)
	require.NoError(t, imp.checkImportStatus(context.Background()))

	// Still Importing, untouched.
	assert.Empty(t, store.updates)
	assert.Equal(t, syncdb.ImportStatusImporting, store.entries[0].ImportStatus)
}

func TestCheckImportStatus_OnlyImportingFetched(t *testing.T) {
	store := &mockQueueStore{entries: []syncdb.ImportQueueEntry{
		{ID: 1, ImportStatus: syncdb.ImportStatusImported},
		{ID: 2, ImportStatus: syncdb.ImportStatusFailed},
		{ID: 3, ImportStatus: syncdb.ImportStatusNotImported},
	}}

	entries, err := store.ImportQueueByStatus(context.Background(), syncdb.ImportStatusImporting, 5)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFaultedEmails(t *testing.T) {
	report := []byte("\xef\xbb\xbfReason,Email\r\nHard Bounced,a@x.com\r\nOther,b@x.com\r\nGlobally Suppressed,c@x.com\r\n")
	assert.Equal(t, []string{"a@x.com", "c@x.com"}, faultedEmails(report))
}

func TestFaultedEmails_Empty(t *testing.T) {
	assert.Nil(t, faultedEmails(nil))
	assert.Nil(t, faultedEmails([]byte{}))
	assert.Nil(t, faultedEmails([]byte("Reason,Email\n")))
	assert.Nil(t, faultedEmails([]byte("garbage")))
}

func TestProcessFaultReport_Unsubscribes(t *testing.T) {
	contacts := &mockContactStore{}
	client := &mockClient{
		faultReportFunc: func(_ context.Context, _ uuid.UUID) ([]byte, error) {
			return []byte("Reason,Email\nUnsubscribed,a@x.com\nInvalid Entries,b@x.com\n"), nil
		},
	}

	imp := New(&mockQueueStore{}, contacts, staticProvider(client), &mockFiles{}, Registry{}, 5, 100)
	imp.processFaultReport(context.Background(), client, uuid.New())

	require.Len(t, contacts.unsubscribed, 1)
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, contacts.unsubscribed[0])
}
