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
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var (
	entriesDispatched  metric.Int64Counter
	importsFinished    metric.Int64Counter
	importsFailed      metric.Int64Counter
	consentRowsRemoved metric.Int64Counter
	faultUnsubscribes  metric.Int64Counter
)

func init() {
	meter := otel.Meter("github.com/dotmart/emailsync/internal/importer")

	var err error

	entriesDispatched, err = meter.Int64Counter(
		"emailsync.importer.entries_dispatched",
		metric.WithDescription("Number of queue entries handed to a worker"),
	)
	if err != nil {
		log.Fatalf("failed to create entries_dispatched counter: %v", err)
	}

	importsFinished, err = meter.Int64Counter(
		"emailsync.importer.imports_finished",
		metric.WithDescription("Number of imports confirmed finished by the remote service"),
	)
	if err != nil {
		log.Fatalf("failed to create imports_finished counter: %v", err)
	}

	importsFailed, err = meter.Int64Counter(
		"emailsync.importer.imports_failed",
		metric.WithDescription("Number of entries that reached the Failed status"),
	)
	if err != nil {
		log.Fatalf("failed to create imports_failed counter: %v", err)
	}

	consentRowsRemoved, err = meter.Int64Counter(
		"emailsync.importer.consent_rows_removed",
		metric.WithDescription("Number of consent records deleted after confirmed imports"),
	)
	if err != nil {
		log.Fatalf("failed to create consent_rows_removed counter: %v", err)
	}

	faultUnsubscribes, err = meter.Int64Counter(
		"emailsync.importer.fault_unsubscribes",
		metric.WithDescription("Number of contacts unsubscribed from fault reports"),
	)
	if err != nil {
		log.Fatalf("failed to create fault_unsubscribes counter: %v", err)
	}
}
