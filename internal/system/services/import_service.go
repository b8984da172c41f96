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

package services

import (
	"net/http"
	"strings"

	"github.com/wso2/identity-contact-service/internal/contact/handler"
)

// ImportService routes background import requests.
type ImportService struct {
	handler *handler.ImportHandler
}

func NewImportService() *ImportService {
	return NewImportServiceWithHandler(handler.NewImportHandler())
}

func NewImportServiceWithHandler(importHandler *handler.ImportHandler) *ImportService {
	return &ImportService{
		handler: importHandler,
	}
}

// Route handles /imports, /imports/{jobId} and /imports/{jobId}/progress.
func (s *ImportService) Route(w http.ResponseWriter, r *http.Request) {

	path := strings.TrimSuffix(r.URL.Path, "/")
	method := r.Method

	if path == "/imports" {
		if method == http.MethodPost {
			s.handler.SubmitImport(w, r)
			return
		}
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	parts := strings.Split(strings.TrimPrefix(path, "/imports/"), "/")
	if parts[0] == "" || len(parts) > 2 || (len(parts) == 2 && parts[1] != "progress") {
		http.NotFound(w, r)
		return
	}
	r.SetPathValue(handler.PathParamJobId, parts[0])

	if len(parts) == 2 {
		if method == http.MethodGet {
			s.handler.WatchImport(w, r)
			return
		}
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	switch method {
	case http.MethodGet:
		s.handler.GetImport(w, r)
	case http.MethodDelete:
		s.handler.CancelImport(w, r)
	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}
