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
	"reflect"

	"github.com/dotmart/emailsync/internal/logctx"
	"github.com/dotmart/emailsync/syncdb"
)

// Queue is the producer-facing entry point for enqueueing sync work.
type Queue struct {
	store QueueStore
}

func NewQueue(store QueueStore) *Queue {
	return &Queue{store: store}
}

// RegisterQueue serializes the payload and persists a new NotImported entry.
// It returns false without creating an entry when the payload and file are
// both empty, when serialization fails, or when the insert fails; rejections
// are logged, never raised.
func (q *Queue) RegisterQueue(ctx context.Context, importType syncdb.ImportType, payload any, mode syncdb.ImportMode, websiteID int32, file string) bool {
	ll := logctx.FromContext(ctx)

	if emptyPayload(payload) && file == "" {
		ll.Warn("Rejected queue registration with empty payload and no file",
			"importType", importType, "importMode", mode, "websiteID", websiteID)
		return false
	}

	data, err := json.Marshal(payload)
	if err != nil {
		serr := &SerializationError{Err: err}
		ll.Error("Rejected queue registration", "error", serr,
			"importType", importType, "importMode", mode, "websiteID", websiteID)
		return false
	}

	id, err := q.store.ImportQueueInsert(ctx, syncdb.ImportQueueInsertParams{
		ImportType: importType,
		ImportMode: mode,
		WebsiteID:  websiteID,
		ImportData: data,
		ImportFile: file,
	})
	if err != nil {
		ll.Error("Failed to insert queue entry", "error", err,
			"importType", importType, "importMode", mode, "websiteID", websiteID)
		return false
	}

	ll.Debug("Registered queue entry", "id", id,
		"importType", importType, "importMode", mode, "websiteID", websiteID)
	return true
}

func emptyPayload(payload any) bool {
	if payload == nil {
		return true
	}
	v := reflect.ValueOf(payload)
	switch v.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array, reflect.String:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}
