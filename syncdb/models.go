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
	"time"

	"github.com/google/uuid"
)

// ImportQueueEntry is one unit of sync work. The payload is opaque to the
// scheduler; only the type, mode and status drive dispatch decisions.
type ImportQueueEntry struct {
	ID             int64
	ImportType     ImportType
	ImportMode     ImportMode
	WebsiteID      int32
	ImportData     []byte
	ImportFile     string
	ImportStatus   ImportStatus
	ImportID       uuid.UUID
	ImportFinished *time.Time
	Message        string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AutomationEnrollment is one pending membership request into a remote
// marketing program.
type AutomationEnrollment struct {
	ID              int64
	AutomationType  AutomationType
	TypeID          int64
	Email           string
	WebsiteID       int32
	ProgramID       int64
	StoreName       string
	EnrolmentStatus EnrolmentStatus
	Message         string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AccountRow is a per-website API account as stored. DataFields holds the
// JSON-encoded remote datafield name mapping.
type AccountRow struct {
	WebsiteID        int32
	WebsiteName      string
	Enabled          bool
	QuoteSyncEnabled bool
	StoreIDs         []int32
	APIUser          string
	APIPassword      string
	Endpoint         string
	DataFields       []byte
}

// QuoteRow is the producer-side bookkeeping for quote exports.
type QuoteRow struct {
	QuoteID    int64
	StoreID    int32
	CustomerID int64
	Imported   bool
	Modified   bool
}

// OrderRow carries the order attributes the automation datafield updates need.
type OrderRow struct {
	OrderID       int64
	IncrementID   string
	StoreID       int32
	CustomerID    int64
	CustomerEmail string
	CreatedAt     time.Time
}
