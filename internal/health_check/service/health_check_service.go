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

package service

import (
	"context"
	"fmt"

	"github.com/wso2/identity-contact-service/internal/system/database/provider"
	"github.com/wso2/identity-contact-service/internal/system/database/scripts"
)

// HealthCheckServiceInterface defines the service interface.
type HealthCheckServiceInterface interface {
	CheckReadiness(ctx context.Context) error
}

// HealthCheckService checks that the contact store answers queries and the import worker is running.
type HealthCheckService struct {
	dbProvider    provider.DBProviderInterface
	importRunning func() bool
}

// NewHealthCheckService creates a service with the given dependencies. A nil importRunning skips the
// import worker check.
func NewHealthCheckService(dbProvider provider.DBProviderInterface, importRunning func() bool) *HealthCheckService {

	return &HealthCheckService{dbProvider: dbProvider, importRunning: importRunning}
}

func (h *HealthCheckService) CheckReadiness(ctx context.Context) error {

	dbClient, err := h.dbProvider.GetDBClient()
	if err != nil {
		return fmt.Errorf("failed to create database client: %v", err)
	}

	// Perform a lightweight query to ensure DB connectivity.
	if _, err = dbClient.ExecuteQuery(ctx, scripts.HealthCheck[dbClient.DBType()]); err != nil {
		return fmt.Errorf("database connectivity check failed: %v", err)
	}

	if h.importRunning != nil && !h.importRunning() {
		return fmt.Errorf("import worker is not running")
	}
	return nil
}
