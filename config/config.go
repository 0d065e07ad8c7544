// Copyright (C) 2025-2026 CardinalHQ, Inc
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

	"github.com/spf13/viper"

	"github.com/cardinalhq/lakereader/internal/dfs"
)

// Config aggregates configuration for the application.
// Each field is owned by its respective package.
type Config struct {
	Reader ReaderConfig `mapstructure:"reader"`
	DFS    dfs.Config   `mapstructure:"dfs"`
}

// ReaderConfig holds the defaults applied to every record reader the CLI opens.
type ReaderConfig struct {
	Charset      string `mapstructure:"charset"`
	TempDir      string `mapstructure:"tempdir"`
	MaxLineBytes int    `mapstructure:"max_line_bytes"`
	Tuning       bool   `mapstructure:"tuning"`
}

const DefaultCharset = "UTF-8"

func DefaultReaderConfig() ReaderConfig {
	return ReaderConfig{
		Charset: DefaultCharset,
	}
}

// Load reads configuration from files and environment variables.
// Environment variables use the prefix "LAKEREADER" and the dot character
// in keys is replaced by an underscore. For example, "dfs.namenode" becomes
// "LAKEREADER_DFS_NAMENODE".
func Load() (*Config, error) {
	cfg := &Config{
		Reader: DefaultReaderConfig(),
		DFS:    dfs.DefaultConfig(),
	}

	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.SetEnvPrefix("LAKEREADER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs(v, cfg)
	_ = v.ReadInConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if cfg.Reader.Charset == "" {
		cfg.Reader.Charset = DefaultCharset
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
