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

// Package csvfile reads columns out of generated import files and moves
// processed files into the archive directory.
package csvfile

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

type Manager struct {
	archiveDir string
}

func NewManager(archiveDir string) *Manager {
	return &Manager{archiveDir: archiveDir}
}

// ReadKeyedColumn reads the file as CSV and returns the values of the column
// whose header cell equals header exactly. The match is case-sensitive; the
// header row itself is excluded.
func (m *Manager) ReadKeyedColumn(path, header string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	headerRow, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	column := -1
	for i, cell := range headerRow {
		if cell == header {
			column = i
			break
		}
	}
	if column == -1 {
		return nil, fmt.Errorf("no %q column in %s", header, path)
	}

	var values []string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if column < len(record) && record[column] != "" {
			values = append(values, record[column])
		}
	}
	return values, nil
}

// Archive moves the file into the archive directory, creating it on first
// use. The move is rename-based so it is atomic on the same filesystem.
func (m *Manager) Archive(path string) error {
	if err := os.MkdirAll(m.archiveDir, 0o755); err != nil {
		return fmt.Errorf("failed to create archive dir %s: %w", m.archiveDir, err)
	}
	target := filepath.Join(m.archiveDir, filepath.Base(path))
	if err := os.Rename(path, target); err != nil {
		return fmt.Errorf("failed to archive %s: %w", path, err)
	}
	return nil
}
