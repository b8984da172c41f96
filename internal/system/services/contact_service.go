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

type ContactService struct {
	handler *handler.ContactHandler
}

func NewContactService() *ContactService {
	return NewContactServiceWithHandler(handler.NewContactHandler())
}

func NewContactServiceWithHandler(contactHandler *handler.ContactHandler) *ContactService {
	return &ContactService{
		handler: contactHandler,
	}
}

// Route handles /contacts endpoints.
func (s *ContactService) Route(w http.ResponseWriter, r *http.Request) {

	path := strings.TrimSuffix(r.URL.Path, "/")
	method := r.Method

	// Handle collection-level and fixed sub-resource operations
	switch path {
	case "/contacts":
		if method == http.MethodGet {
			s.handler.ListContacts(w, r)
			return
		}
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	case "/contacts/export":
		if method == http.MethodGet {
			s.handler.ExportContacts(w, r)
			return
		}
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	case "/contacts/merge":
		if method == http.MethodPost {
			s.handler.MergeContacts(w, r)
			return
		}
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	// Handle /contacts/{contactId} and /contacts/{contactId}/merge-history
	trimmed := strings.TrimPrefix(path, "/contacts/")
	parts := strings.Split(trimmed, "/")
	if parts[0] == "" {
		http.NotFound(w, r)
		return
	}
	r.SetPathValue(handler.PathParamContactId, parts[0])

	switch {
	case len(parts) == 1 && method == http.MethodGet:
		s.handler.GetContact(w, r)
	case len(parts) == 2 && parts[1] == "merge-history" && method == http.MethodGet:
		s.handler.GetMergeHistory(w, r)
	case len(parts) <= 2:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	default:
		http.NotFound(w, r)
	}
}
