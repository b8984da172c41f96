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

type AddrConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

type LogConfig struct {
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
}

// AuthConfig configures bearer token validation. Authentication is disabled when JWTSecret is empty.
type AuthConfig struct {
	CORSAllowedOrigins []string            `yaml:"cors_allowed_origins"`
	JWTSecret          string              `yaml:"jwt_secret"`
	Audience           string              `yaml:"audience"`
	RequiredScopes     map[string][]string `yaml:"required_scopes"`
}

// DataSourceConfig selects and configures the contact database. Type is either "postgres" or "sqlite".
type DataSourceConfig struct {
	Type     string `yaml:"type"`
	Hostname string `yaml:"hostname"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	Path     string `yaml:"path"`
}

type ImportConfig struct {
	ChunkSize int `yaml:"chunk_size"`
	QueueSize int `yaml:"queue_size"`
	Workers   int `yaml:"workers"`
}

type Config struct {
	Addr       AddrConfig       `yaml:"addr"`
	Log        LogConfig        `yaml:"log"`
	Auth       AuthConfig       `yaml:"auth"`
	DataSource DataSourceConfig `yaml:"datasource"`
	Import     ImportConfig     `yaml:"import"`
}
