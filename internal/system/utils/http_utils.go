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

package utils

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wso2/identity-contact-service/internal/system/constants"
	customerrors "github.com/wso2/identity-contact-service/internal/system/errors"
	"github.com/wso2/identity-contact-service/internal/system/log"
)

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Code    string `json:"code"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	TraceID string `json:"trace_id,omitempty"`
}

// HandleError sends an HTTP error response based on the provided error. Client errors carry their own
// status; anything else is logged and reported as an internal server error.
func HandleError(w http.ResponseWriter, err error) {

	var clientError *customerrors.ClientError
	if ok := errors.As(err, &clientError); ok {
		WriteErrorResponse(w, clientError)
		return
	}

	var serverError *customerrors.ServerError
	response := ErrorResponse{
		Code:  "",
		Error: "Internal server error",
	}
	if ok := errors.As(err, &serverError); ok {
		response.Code = serverError.Code
		response.TraceID = serverError.TraceID
	}
	log.GetLogger().Error("Request failed", log.Error(err))
	RespondJSON(w, http.StatusInternalServerError, response)
}

// WriteErrorResponse writes a client error with its status code.
func WriteErrorResponse(w http.ResponseWriter, err *customerrors.ClientError) {

	RespondJSON(w, err.StatusCode, ErrorResponse{
		Code:    err.Code,
		Error:   err.Message,
		Details: err.Description,
		TraceID: err.TraceID,
	})
}

// RespondJSON writes body as JSON with the given status.
func RespondJSON(w http.ResponseWriter, status int, body interface{}) {

	w.Header().Set("Content-Type", constants.ContentTypeJSON)
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.GetLogger().Debug("Failed to write response body", log.Error(err))
	}
}
