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

import "fmt"

// SerializationError means a payload could not be encoded. Registration is
// rejected and no entry is created.
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("payload serialization failed: %v", e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// TransportError means a call to the remote service failed before a usable
// response arrived. The affected entry is marked Failed with the captured
// message and processing continues.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RemoteRejection means the remote service reported a recognized terminal
// failure label for an import.
type RemoteRejection struct {
	Label string
}

func (e *RemoteRejection) Error() string {
	return "Import failed with status " + e.Label
}
