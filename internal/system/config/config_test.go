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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const deploymentYAML = `
addr:
  host: "localhost"
  port: 9443
log:
  log_level: "DEBUG"
datasource:
  type: "postgres"
  hostname: "db.internal"
  port: 5432
  name: "contacts"
  username: "contacts"
  password: "${CONTACTS_DB_PASSWORD}"
auth:
  jwt_secret: "secret"
  required_scopes:
    contacts:merge:
      - "contacts:write"
import:
  chunk_size: 50
`

func TestLoadConfig_ExpandsEnvAndAppliesDefaults(t *testing.T) {

	home := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(home, "repository", "conf"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(home, "repository", "conf", "deployment.yaml"),
		[]byte(deploymentYAML), 0644))
	t.Setenv("CONTACTS_DB_PASSWORD", "s3cret")

	cfg, err := LoadConfig(home, "repository/conf/deployment.yaml")
	require.NoError(t, err)

	assert.Equal(t, 9443, cfg.Addr.Port)
	assert.Equal(t, "postgres", cfg.DataSource.Type)
	assert.Equal(t, "s3cret", cfg.DataSource.Password)
	assert.Equal(t, "disable", cfg.DataSource.SSLMode)
	assert.Equal(t, []string{"contacts:write"}, cfg.Auth.RequiredScopes["contacts:merge"])
	assert.Equal(t, 50, cfg.Import.ChunkSize)
	assert.Equal(t, DefaultImportQueue, cfg.Import.QueueSize)
	assert.Equal(t, DefaultImportWorkers, cfg.Import.Workers)
}

func TestApplyDefaults_SQLite(t *testing.T) {

	var cfg Config
	ApplyDefaults(&cfg)

	assert.Equal(t, DefaultPort, cfg.Addr.Port)
	assert.Equal(t, "sqlite", cfg.DataSource.Type)
	assert.Equal(t, DefaultSQLitePath, cfg.DataSource.Path)
	assert.Equal(t, DefaultImportChunk, cfg.Import.ChunkSize)
}

func TestLoadConfig_MissingFile(t *testing.T) {

	_, err := LoadConfig(t.TempDir(), "missing.yaml")
	assert.Error(t, err)
}
