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

package dbopen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDatabaseURLFromEnv_URLWins(t *testing.T) {
	t.Setenv("TESTDB_URL", "postgresql://u:p@somewhere:5432/db")
	t.Setenv("TESTDB_HOST", "ignored")

	got, err := GetDatabaseURLFromEnv("TESTDB")
	require.NoError(t, err)
	assert.Equal(t, "postgresql://u:p@somewhere:5432/db", got)
}

func TestGetDatabaseURLFromEnv_Missing(t *testing.T) {
	t.Setenv("EMPTYDB_HOST", "")
	t.Setenv("EMPTYDB_DBNAME", "")

	_, err := GetDatabaseURLFromEnv("EMPTYDB")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EMPTYDB_HOST")
	assert.Contains(t, err.Error(), "EMPTYDB_DBNAME")
}

func TestGetDatabaseURLFromEnv_Defaults(t *testing.T) {
	t.Setenv("SOMEDB_HOST", "dbhost")
	t.Setenv("SOMEDB_DBNAME", "sync")
	t.Setenv("SOMEDB_USER", "emailsync")
	t.Setenv("SOMEDB_SSLMODE", "disable")

	got, err := GetDatabaseURLFromEnv("SOMEDB")
	require.NoError(t, err)
	assert.Equal(t, "postgresql://emailsync@dbhost:5432/sync?sslmode=disable", got)
}
