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

package provider

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/wso2/identity-contact-service/internal/system/config"
	"github.com/wso2/identity-contact-service/internal/system/database/client"
	"github.com/wso2/identity-contact-service/internal/system/database/scripts"
)

// DBConfig represents the local database configuration.
type DBConfig struct {
	dsn        string
	driverName string
	dbType     string
}

// DBProviderInterface defines the interface for getting database clients.
type DBProviderInterface interface {
	GetDBClient() (client.DBClientInterface, error)
}

// DBProvider is the implementation of DBProviderInterface.
type DBProvider struct{}

var (
	sharedClient client.DBClientInterface
	clientMu     sync.Mutex
)

// NewDBProvider creates a new instance of DBProvider.
func NewDBProvider() DBProviderInterface {

	return &DBProvider{}
}

// GetDBClient returns the process wide database client, opening it on first use from the runtime
// configuration.
func (d *DBProvider) GetDBClient() (client.DBClientInterface, error) {

	clientMu.Lock()
	defer clientMu.Unlock()
	if sharedClient != nil {
		return sharedClient, nil
	}

	runtimeConfig := config.GetRuntime().Config
	dbClient, err := Open(runtimeConfig.DataSource)
	if err != nil {
		return nil, err
	}
	sharedClient = dbClient
	return sharedClient, nil
}

// Open connects to the configured data source and ensures the contact schema exists.
func Open(dataSource config.DataSourceConfig) (client.DBClientInterface, error) {

	dbConfig, err := getDBConfig(dataSource)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(dbConfig.driverName, dbConfig.dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %v", err)
	}
	if dbConfig.dbType == scripts.SQLite {
		// SQLite serializes writers; a single connection keeps in-memory databases shared.
		db.SetMaxOpenConns(1)
	}

	// Test the database connection.
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %v", err)
	}

	dbClient := client.NewDBClient(db, dbConfig.dbType)
	if err := dbClient.InitSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return dbClient, nil
}

// SetTestDB replaces the shared client with one backed by the given connection.
func SetTestDB(db *sql.DB, dbType string) {

	clientMu.Lock()
	defer clientMu.Unlock()
	sharedClient = client.NewDBClient(db, dbType)
}

// CloseDBClient closes the shared client, if open.
func CloseDBClient() error {

	clientMu.Lock()
	defer clientMu.Unlock()
	if sharedClient == nil {
		return nil
	}
	err := sharedClient.Close()
	sharedClient = nil
	return err
}

// getDBConfig returns the database configuration based on the provided data source.
func getDBConfig(dataSource config.DataSourceConfig) (DBConfig, error) {

	var dbConfig DBConfig

	switch dataSource.Type {
	case scripts.Postgres:
		dbConfig.driverName = "postgres"
		dbConfig.dbType = scripts.Postgres
		dbConfig.dsn = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			dataSource.Hostname, dataSource.Port, dataSource.Username, dataSource.Password,
			dataSource.Name, dataSource.SSLMode)
	case scripts.SQLite, "":
		path := dataSource.Path
		if path == "" {
			path = config.DefaultSQLitePath
		}
		dbConfig.driverName = "sqlite3"
		dbConfig.dbType = scripts.SQLite
		dbConfig.dsn = fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	default:
		return dbConfig, fmt.Errorf("unsupported database type: %s", dataSource.Type)
	}

	return dbConfig, nil
}
