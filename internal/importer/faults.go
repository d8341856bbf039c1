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
	"bytes"
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/dotmart/emailsync/internal/dotapi"
	"github.com/dotmart/emailsync/internal/logctx"
)

// suppressionReasons are the rejection reasons from a fault report that mean
// the contact must be unsubscribed locally.
var suppressionReasons = map[string]struct{}{
	"Globally Suppressed": {},
	"Blocked":             {},
	"Unsubscribed":        {},
	"Hard Bounced":        {},
	"Isp Complaints":      {},
	"Domain Suppressed":   {},
	"Failures":            {},
	"Invalid Entries":     {},
	"Mail Blocked":        {},
	"Suppressed by you":   {},
}

// processFaultReport fetches the per-import fault report and unsubscribes
// every contact rejected for a suppression reason. A missing or malformed
// report is treated as empty.
func (imp *Importer) processFaultReport(ctx context.Context, client dotapi.Client, importID uuid.UUID) {
	ll := logctx.FromContext(ctx)

	report, err := client.GetContactImportReportFaults(ctx, importID)
	if err != nil {
		ll.Warn("Failed to fetch fault report", "importID", importID, "error", err)
		return
	}

	emails := faultedEmails(report)
	if len(emails) == 0 {
		return
	}

	affected, err := imp.contacts.UnsubscribeContacts(ctx, emails)
	if err != nil {
		ll.Warn("Failed to unsubscribe faulted contacts", "importID", importID, "error", err)
		return
	}
	faultUnsubscribes.Add(ctx, int64(len(emails)))
	ll.Info("Unsubscribed faulted contacts", "importID", importID, "emails", len(emails), "affected", affected)
}

// faultedEmails extracts the email column of every report row whose reason is
// a suppression reason. The first line is the header and is dropped.
func faultedEmails(report []byte) []string {
	report = bytes.TrimPrefix(report, []byte("\xef\xbb\xbf"))
	if len(report) == 0 {
		return nil
	}

	lines := strings.Split(string(report), "\n")
	var emails []string
	for _, line := range lines[1:] {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) < 2 {
			continue
		}
		if _, ok := suppressionReasons[fields[0]]; ok {
			emails = append(emails, fields[1])
		}
	}
	return emails
}
