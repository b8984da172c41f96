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
	"github.com/wso2/identity-contact-service/internal/health_check/service"
	dbprovider "github.com/wso2/identity-contact-service/internal/system/database/provider"
	"github.com/wso2/identity-contact-service/internal/system/workers"
)

type HealthCheckProviderInterface interface {
	GetHealthCheckService() service.HealthCheckServiceInterface
}

// HealthCheckProvider wires readiness to the shared contact database and the process wide import worker.
type HealthCheckProvider struct {
	dbProvider    dbprovider.DBProviderInterface
	importRunning func() bool
}

func NewHealthCheckProvider() HealthCheckProviderInterface {
	return newHealthCheckProvider(dbprovider.NewDBProvider(), importWorkerRunning)
}

func newHealthCheckProvider(dbProvider dbprovider.DBProviderInterface, importRunning func() bool) *HealthCheckProvider {
	return &HealthCheckProvider{dbProvider: dbProvider, importRunning: importRunning}
}

// GetHealthCheckService returns a service that reports not ready until both the contact store answers
// its health query and an import manager has been started.
func (hp *HealthCheckProvider) GetHealthCheckService() service.HealthCheckServiceInterface {
	return service.NewHealthCheckService(hp.dbProvider, hp.importRunning)
}

// importWorkerRunning reports whether StartImportWorker has installed the shared import manager.
func importWorkerRunning() bool {
	return workers.GetImportManager() != nil
}
