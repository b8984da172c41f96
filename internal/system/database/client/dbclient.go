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

package client

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/wso2/identity-contact-service/internal/system/database/scripts"
	"github.com/wso2/identity-contact-service/internal/system/log"
)

// Executor runs queries against either a connection pool or an open transaction.
type Executor interface {
	ExecuteQuery(ctx context.Context, query string, args ...interface{}) ([]map[string]interface{}, error)
	ExecuteStatement(ctx context.Context, query string, args ...interface{}) (int64, error)
	DBType() string
}

// DBClientInterface defines the interface for database operations.
type DBClientInterface interface {
	Executor
	BeginTx(ctx context.Context) (TxClientInterface, error)
	InitSchema(ctx context.Context) error
	Close() error
}

// TxClientInterface is an Executor bound to a single transaction.
type TxClientInterface interface {
	Executor
	Commit() error
	Rollback() error
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// DBClient is the implementation of DBClientInterface.
type DBClient struct {
	db     *sql.DB
	dbType string
}

// TxClient is the implementation of TxClientInterface.
type TxClient struct {
	tx     *sql.Tx
	dbType string
}

// NewDBClient creates a new instance of DBClient with the provided database connection.
func NewDBClient(db *sql.DB, dbType string) DBClientInterface {

	return &DBClient{
		db:     db,
		dbType: dbType,
	}
}

// InitSchema creates the contact tables for the client's database type if they do not exist.
func (client *DBClient) InitSchema(ctx context.Context) error {

	schema, ok := scripts.Schema[client.dbType]
	if !ok {
		return fmt.Errorf("no schema available for database type %s", client.dbType)
	}
	if _, err := client.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}
	log.GetLogger().Debug("Database schema is ready", log.String("db_type", client.dbType))
	return nil
}

// ExecuteQuery executes a SELECT query and returns the result as a slice of maps.
func (client *DBClient) ExecuteQuery(ctx context.Context, query string, args ...interface{}) ([]map[string]interface{}, error) {

	return executeQuery(ctx, client.db, query, args...)
}

// ExecuteStatement executes an INSERT, UPDATE or DELETE and returns the number of affected rows.
func (client *DBClient) ExecuteStatement(ctx context.Context, query string, args ...interface{}) (int64, error) {

	return executeStatement(ctx, client.db, query, args...)
}

// DBType returns the configured database type.
func (client *DBClient) DBType() string {
	return client.dbType
}

// BeginTx starts a new database transaction.
func (client *DBClient) BeginTx(ctx context.Context) (TxClientInterface, error) {

	tx, err := client.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &TxClient{tx: tx, dbType: client.dbType}, nil
}

// Close closes the database connection.
func (client *DBClient) Close() error {
	return client.db.Close()
}

func (client *TxClient) ExecuteQuery(ctx context.Context, query string, args ...interface{}) ([]map[string]interface{}, error) {

	return executeQuery(ctx, client.tx, query, args...)
}

func (client *TxClient) ExecuteStatement(ctx context.Context, query string, args ...interface{}) (int64, error) {

	return executeStatement(ctx, client.tx, query, args...)
}

func (client *TxClient) DBType() string {
	return client.dbType
}

func (client *TxClient) Commit() error {
	return client.tx.Commit()
}

func (client *TxClient) Rollback() error {
	return client.tx.Rollback()
}

func executeQuery(ctx context.Context, q queryer, query string, args ...interface{}) ([]map[string]interface{}, error) {

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var results []map[string]interface{}
	for rows.Next() {
		row := make([]interface{}, len(columns))
		rowPointers := make([]interface{}, len(columns))
		for i := range row {
			rowPointers[i] = &row[i]
		}

		if err := rows.Scan(rowPointers...); err != nil {
			return nil, err
		}

		result := map[string]interface{}{}
		for i, col := range columns {
			// Normalize column names to lowercase for consistency.
			result[strings.ToLower(col)] = row[i]
		}
		results = append(results, result)
	}

	return results, rows.Err()
}

func executeStatement(ctx context.Context, q queryer, query string, args ...interface{}) (int64, error) {

	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return affected, nil
}
