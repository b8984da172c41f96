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

package managers

import (
	"net/http"
	"strings"

	"github.com/wso2/identity-contact-service/internal/system/services"
)

type ServiceManagerInterface interface {
	RegisterServices(apiBasePath string) error
}

type ServiceManager struct {
	mux      *http.ServeMux
	contacts *services.ContactService
	dupes    *services.DuplicateService
	imports  *services.ImportService
	health   *services.HealthService
}

// NewServiceManager creates a new instance of ServiceManager.
func NewServiceManager(mux *http.ServeMux) ServiceManagerInterface {

	return NewServiceManagerWithServices(mux, services.NewContactService(), services.NewDuplicateService(),
		services.NewImportService(), services.NewHealthService())
}

// NewServiceManagerWithServices creates a ServiceManager that routes to the given services.
func NewServiceManagerWithServices(mux *http.ServeMux, contacts *services.ContactService,
	dupes *services.DuplicateService, imports *services.ImportService,
	health *services.HealthService) ServiceManagerInterface {

	return &ServiceManager{
		mux:      mux,
		contacts: contacts,
		dupes:    dupes,
		imports:  imports,
		health:   health,
	}
}

func (sm *ServiceManager) RegisterServices(apiBasePath string) error {

	apiBasePath = strings.TrimSuffix(apiBasePath, "/")

	// Probes are served both at the root and under the API base path.
	sm.mux.HandleFunc("/health", sm.health.Route)
	sm.mux.HandleFunc("/ready", sm.health.Route)

	sm.mux.Handle(apiBasePath+"/", http.StripPrefix(apiBasePath, http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			// Internal path after base path stripping
			path := strings.TrimSuffix(r.URL.Path, "/")

			// Dispatch to correct service based on path
			switch {
			case path == "/contacts" || strings.HasPrefix(path, "/contacts/"):
				sm.contacts.Route(w, r)
			case path == "/duplicates" || strings.HasPrefix(path, "/duplicates/"):
				sm.dupes.Route(w, r)
			case path == "/imports" || strings.HasPrefix(path, "/imports/"):
				sm.imports.Route(w, r)
			case path == "/health" || path == "/ready":
				sm.health.Route(w, r)
			default:
				http.NotFound(w, r)
			}
		})))
	return nil
}
