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

package dotapi

import (
	"github.com/google/uuid"
)

// ImportFinished is the status the platform reports once an asynchronous
// import has fully completed.
const ImportFinished = "Finished"

// ProgramActive is the only program status that allows enrollments.
const ProgramActive = "Active"

// ImportResponse is the platform's view of an asynchronous import. A
// non-empty Message means the platform rejected the request outright;
// otherwise Status carries the import lifecycle label.
type ImportResponse struct {
	ID      uuid.UUID `json:"id"`
	Status  string    `json:"status"`
	Message string    `json:"message,omitempty"`
}

// Contact is a remote contact identity.
type Contact struct {
	ID     int64  `json:"id"`
	Email  string `json:"email"`
	Status string `json:"status,omitempty"`
}

// Program is a remote automation program.
type Program struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

// Enrolment submits a batch of contact ids into one program.
type Enrolment struct {
	Contacts     []int64 `json:"contacts"`
	ProgramID    int64   `json:"programId"`
	AddressBooks []int64 `json:"addressBooks"`
}

// EnrolmentResult is the platform's answer to an enrolment submission.
type EnrolmentResult struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}

// DataField is one key/value pair pushed to a contact's datafields.
type DataField struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}
