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

package automation

import (
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var (
	enrollmentsProcessed  metric.Int64Counter
	enrollmentsSuppressed metric.Int64Counter
)

func init() {
	meter := otel.Meter("github.com/dotmart/emailsync/internal/automation")

	var err error

	enrollmentsProcessed, err = meter.Int64Counter(
		"emailsync.automation.enrollments_processed",
		metric.WithDescription("Number of enrollments written to a terminal status"),
	)
	if err != nil {
		log.Fatalf("failed to create enrollments_processed counter: %v", err)
	}

	enrollmentsSuppressed, err = meter.Int64Counter(
		"emailsync.automation.enrollments_suppressed",
		metric.WithDescription("Number of enrollments suppressed for lacking a remote contact"),
	)
	if err != nil {
		log.Fatalf("failed to create enrollments_suppressed counter: %v", err)
	}
}
