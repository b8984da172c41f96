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

package handler

import (
	"net/http"

	"github.com/wso2/identity-contact-service/internal/health_check/provider"
	"github.com/wso2/identity-contact-service/internal/health_check/service"
	"github.com/wso2/identity-contact-service/internal/system/log"
	"github.com/wso2/identity-contact-service/internal/system/utils"
)

// HealthHandler implements health and readiness endpoints.
type HealthHandler struct {
	service service.HealthCheckServiceInterface
}

// NewHealthHandler creates a new instance of HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{service: provider.NewHealthCheckProvider().GetHealthCheckService()}
}

// NewHealthHandlerWithService creates a handler backed by the given service.
func NewHealthHandlerWithService(healthService service.HealthCheckServiceInterface) *HealthHandler {
	return &HealthHandler{service: healthService}
}

// HandleHealth responds to /health requests.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// HandleReadiness responds to /ready requests.
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {

	if err := h.service.CheckReadiness(r.Context()); err != nil {
		log.GetLogger().Warn("Readiness check failed", log.Error(err))
		utils.RespondJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
