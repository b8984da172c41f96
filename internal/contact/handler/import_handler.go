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
	"context"
	"io"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wso2/identity-contact-service/internal/contact/model"
	"github.com/wso2/identity-contact-service/internal/system/authn"
	"github.com/wso2/identity-contact-service/internal/system/authz"
	"github.com/wso2/identity-contact-service/internal/system/config"
	"github.com/wso2/identity-contact-service/internal/system/constants"
	cdscontext "github.com/wso2/identity-contact-service/internal/system/context"
	"github.com/wso2/identity-contact-service/internal/system/errors"
	"github.com/wso2/identity-contact-service/internal/system/log"
	"github.com/wso2/identity-contact-service/internal/system/security"
	"github.com/wso2/identity-contact-service/internal/system/utils"
	"github.com/wso2/identity-contact-service/internal/system/workers"
)

// ImportJobManager is the part of the import worker the HTTP layer needs.
type ImportJobManager interface {
	Submit(data []byte, sourceFile string) (*workers.ImportJob, error)
	Get(jobId string) (*workers.ImportJob, error)
	Cancel(jobId string) (*workers.ImportJob, error)
}

type ImportHandler struct {
	manager  ImportJobManager
	upgrader websocket.Upgrader
}

// NewImportHandler creates a handler backed by the process wide import manager.
func NewImportHandler() *ImportHandler {

	return NewImportHandlerWithManager(nil)
}

// NewImportHandlerWithManager creates a handler backed by the given manager.
func NewImportHandlerWithManager(manager ImportJobManager) *ImportHandler {

	return &ImportHandler{
		manager: manager,
		upgrader: websocket.Upgrader{
			CheckOrigin:     checkOrigin,
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

func checkOrigin(r *http.Request) bool {

	origin := r.Header.Get("Origin")
	if origin == "" || !config.IsInitialized() {
		return true
	}
	allowed := config.GetRuntime().Config.Auth.CORSAllowedOrigins
	return len(allowed) == 0 || slices.Contains(allowed, "*") || slices.Contains(allowed, origin)
}

func (ih *ImportHandler) importManager() (ImportJobManager, error) {

	if ih.manager != nil {
		return ih.manager, nil
	}
	if manager := workers.GetImportManager(); manager != nil {
		return manager, nil
	}
	return nil, errors.NewServerError(errors.IMPORT_FAILED, nil)
}

func (ih *ImportHandler) authorize(w http.ResponseWriter, r *http.Request, operation string) ImportJobManager {

	if err := security.AuthnAndAuthz(r, operation); err != nil {
		utils.HandleError(w, err)
		return nil
	}
	manager, err := ih.importManager()
	if err != nil {
		utils.HandleError(w, err)
		return nil
	}
	return manager
}

// SubmitImport handles POST /imports. The request body is the CSV file.
func (ih *ImportHandler) SubmitImport(w http.ResponseWriter, r *http.Request) {

	manager := ih.authorize(w, r, authz.OperationImportContacts)
	if manager == nil {
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, constants.MaxImportBodyBytes))
	if err != nil {
		utils.HandleError(w, errors.NewValidationError(errors.BAD_REQUEST,
			utils.HandleDecodeError(err, "import")))
		return
	}
	if len(data) == 0 {
		utils.HandleError(w, errors.NewValidationError(errors.BAD_REQUEST, "Request body for import is empty."))
		return
	}

	sourceFile := r.URL.Query().Get("source_file")
	job, err := manager.Submit(data, sourceFile)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	log.GetLogger().Audit(log.AuditEvent{
		InitiatorID:   authn.GetUserIDFromRequest(r),
		InitiatorType: log.InitiatorTypeUser,
		TargetID:      job.Id,
		TargetType:    log.TargetTypeImportJob,
		ActionID:      log.ActionImportContacts,
		TraceID:       cdscontext.GetTraceID(r.Context()),
		Data:          map[string]string{"source_file": sourceFile},
	})
	utils.RespondJSON(w, http.StatusAccepted, model.ImportResponse{JobId: job.Id, Status: string(workers.JobQueued)})
}

// GetImport handles GET /imports/{jobId}.
func (ih *ImportHandler) GetImport(w http.ResponseWriter, r *http.Request) {

	manager := ih.authorize(w, r, authz.OperationGetImport)
	if manager == nil {
		return
	}
	job, err := manager.Get(r.PathValue(PathParamJobId))
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, job.Snapshot())
}

// CancelImport handles DELETE /imports/{jobId}.
func (ih *ImportHandler) CancelImport(w http.ResponseWriter, r *http.Request) {

	manager := ih.authorize(w, r, authz.OperationCancelImport)
	if manager == nil {
		return
	}
	job, err := manager.Cancel(r.PathValue(PathParamJobId))
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	log.GetLogger().Audit(log.AuditEvent{
		InitiatorID:   authn.GetUserIDFromRequest(r),
		InitiatorType: log.InitiatorTypeUser,
		TargetID:      job.Id,
		TargetType:    log.TargetTypeImportJob,
		ActionID:      log.ActionCancelImport,
		TraceID:       cdscontext.GetTraceID(r.Context()),
	})
	utils.RespondJSON(w, http.StatusOK, job.Snapshot())
}

// WatchImport handles GET /imports/{jobId}/progress. The connection is upgraded to a WebSocket that
// receives the job's events as JSON and is closed after the terminal event.
func (ih *ImportHandler) WatchImport(w http.ResponseWriter, r *http.Request) {

	manager := ih.authorize(w, r, authz.OperationGetImport)
	if manager == nil {
		return
	}
	job, err := manager.Get(r.PathValue(PathParamJobId))
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	conn, err := ih.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader already replied to the client.
		log.GetLogger().Debug("WebSocket upgrade failed", log.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		// Reading is only needed to notice the client going away.
		for {
			if _, _, err := conn.NextReader(); err != nil {
				cancel()
				return
			}
		}
	}()

	logger := log.GetLogger().With(log.String("jobId", job.Id))
	for event := range job.Watch(ctx) {
		_ = conn.SetWriteDeadline(time.Now().Add(constants.ProgressWriteTimeout))
		if err := conn.WriteJSON(event); err != nil {
			logger.Debug("Stopped streaming import progress", log.Error(err))
			return
		}
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "import finished"),
		time.Now().Add(constants.ProgressWriteTimeout))
}
