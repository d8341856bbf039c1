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

	"github.com/dotmart/emailsync/internal/logctx"
)

// cleanupConsent deletes local consent records for every email in the
// confirmed import file. Best effort: failures are logged and never block the
// Imported transition or the file's archival.
func (imp *Importer) cleanupConsent(ctx context.Context, file string) {
	ll := logctx.FromContext(ctx)

	emails, err := imp.files.ReadKeyedColumn(file, "Email")
	if err != nil {
		ll.Warn("Consent cleanup could not read import file", "file", file, "error", err)
		return
	}
	if len(emails) == 0 {
		return
	}

	deleted, err := imp.contacts.DeleteConsentByEmails(ctx, emails)
	if err != nil {
		ll.Warn("Consent cleanup delete failed", "file", file, "error", err)
		return
	}
	if deleted > 0 {
		consentRowsRemoved.Add(ctx, deleted)
		ll.Info("Removed consent records after confirmed import", "file", file, "deleted", deleted)
	}
}
