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
	"reflect"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config aggregates configuration for the application.
type Config struct {
	Sync       SyncConfig       `mapstructure:"sync"`
	Automation AutomationConfig `mapstructure:"automation"`
	Quote      QuoteConfig      `mapstructure:"quote"`
	Archive    ArchiveConfig    `mapstructure:"archive"`
}

// SyncConfig bounds one importer cycle. BulkLimit caps how many bulk batches
// are dispatched per cycle (it counts batches, not records); SingleLimit caps
// single-tier entries.
type SyncConfig struct {
	BulkLimit   int           `mapstructure:"bulk_limit"`
	SingleLimit int           `mapstructure:"single_limit"`
	Interval    time.Duration `mapstructure:"interval"`
}

type AutomationConfig struct {
	BatchLimit int           `mapstructure:"batch_limit"`
	Interval   time.Duration `mapstructure:"interval"`
}

type QuoteConfig struct {
	BatchLimit int           `mapstructure:"batch_limit"`
	Interval   time.Duration `mapstructure:"interval"`
}

type ArchiveConfig struct {
	Dir string `mapstructure:"dir"`
}

func defaultConfig() *Config {
	return &Config{
		Sync: SyncConfig{
			BulkLimit:   5,
			SingleLimit: 100,
			Interval:    5 * time.Minute,
		},
		Automation: AutomationConfig{
			BatchLimit: 100,
			Interval:   5 * time.Minute,
		},
		Quote: QuoteConfig{
			BatchLimit: 100,
			Interval:   15 * time.Minute,
		},
		Archive: ArchiveConfig{
			Dir: "archive",
		},
	}
}

// Load reads configuration from files and environment variables.
// Environment variables use the prefix "EMAILSYNC" and the dot character in
// keys is replaced by an underscore. For example, "sync.bulk_limit" becomes
// "EMAILSYNC_SYNC_BULK_LIMIT".
func Load() (*Config, error) {
	cfg := defaultConfig()

	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.SetEnvPrefix("EMAILSYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs(v, cfg)
	_ = v.ReadInConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// bindEnvs registers all keys within cfg so that viper will look up
// corresponding environment variables when unmarshalling.
func bindEnvs(v *viper.Viper, cfg any, parts ...string) {
	val := reflect.ValueOf(cfg)
	typ := reflect.TypeOf(cfg)
	if typ.Kind() == reflect.Ptr {
		val = val.Elem()
		typ = typ.Elem()
	}
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		tag := f.Tag.Get("mapstructure")
		if tag == "" {
			tag = strings.ToLower(f.Name)
		}
		key := append(parts, tag)
		if f.Type.Kind() == reflect.Struct {
			bindEnvs(v, val.Field(i).Interface(), key...)
			continue
		}
		_ = v.BindEnv(strings.Join(key, "."))
	}
}
