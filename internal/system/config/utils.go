/*
 * Copyright (c) 2025-2026, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package config

import (
	"os"
	"path"

	"gopkg.in/yaml.v2"
)

const (
	DefaultPort          = 8900
	DefaultDatabaseType  = "sqlite"
	DefaultSQLitePath    = "contacts.db"
	DefaultImportChunk   = 100
	DefaultImportQueue   = 16
	DefaultImportWorkers = 2
)

// LoadConfig reads the deployment file relative to serviceHome, expands environment variables and
// fills in defaults for anything left unset.
func LoadConfig(serviceHome, filePath string) (*Config, error) {
	file, err := os.ReadFile(path.Join(serviceHome, filePath))
	if err != nil {
		return nil, err
	}

	expanded := os.ExpandEnv(string(file))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}
	ApplyDefaults(&cfg)
	return &cfg, nil
}

// ApplyDefaults fills zero values with the service defaults.
func ApplyDefaults(cfg *Config) {

	if cfg.Addr.Port == 0 {
		cfg.Addr.Port = DefaultPort
	}
	if cfg.Log.LogLevel == "" {
		cfg.Log.LogLevel = "INFO"
	}
	if cfg.DataSource.Type == "" {
		cfg.DataSource.Type = DefaultDatabaseType
	}
	if cfg.DataSource.Type == "sqlite" && cfg.DataSource.Path == "" {
		cfg.DataSource.Path = DefaultSQLitePath
	}
	if cfg.DataSource.SSLMode == "" {
		cfg.DataSource.SSLMode = "disable"
	}
	if cfg.Import.ChunkSize <= 0 {
		cfg.Import.ChunkSize = DefaultImportChunk
	}
	if cfg.Import.QueueSize <= 0 {
		cfg.Import.QueueSize = DefaultImportQueue
	}
	if cfg.Import.Workers <= 0 {
		cfg.Import.Workers = DefaultImportWorkers
	}
}

// OverrideRuntime replaces the runtime configuration. Used by tests and the command line client.
func OverrideRuntime(conf Config) {
	runtimeConfig = &ServiceRuntime{
		Config: conf,
	}
}
