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

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Sync.BulkLimit)
	assert.Equal(t, 100, cfg.Sync.SingleLimit)
	assert.Equal(t, 5*time.Minute, cfg.Sync.Interval)
	assert.Equal(t, 100, cfg.Automation.BatchLimit)
	assert.Equal(t, 15*time.Minute, cfg.Quote.Interval)
	assert.Equal(t, "archive", cfg.Archive.Dir)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("EMAILSYNC_SYNC_BULK_LIMIT", "10")
	t.Setenv("EMAILSYNC_SYNC_INTERVAL", "30s")
	t.Setenv("EMAILSYNC_AUTOMATION_BATCH_LIMIT", "25")
	t.Setenv("EMAILSYNC_ARCHIVE_DIR", "/var/spool/emailsync")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Sync.BulkLimit)
	assert.Equal(t, 30*time.Second, cfg.Sync.Interval)
	assert.Equal(t, 25, cfg.Automation.BatchLimit)
	assert.Equal(t, "/var/spool/emailsync", cfg.Archive.Dir)
}
