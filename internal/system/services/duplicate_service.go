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

// DuplicateService routes duplicate detection and dismissal requests.
type DuplicateService struct {
	handler *handler.ContactHandler
}

func NewDuplicateService() *DuplicateService {
	return NewDuplicateServiceWithHandler(handler.NewContactHandler())
}

func NewDuplicateServiceWithHandler(contactHandler *handler.ContactHandler) *DuplicateService {
	return &DuplicateService{
		handler: contactHandler,
	}
}

// Route handles /duplicates endpoints.
func (s *DuplicateService) Route(w http.ResponseWriter, r *http.Request) {

	path := strings.TrimSuffix(r.URL.Path, "/")
	method := r.Method

	switch {
	case path == "/duplicates" && method == http.MethodGet:
		s.handler.FindDuplicates(w, r)
	case path == "/duplicates/dismiss" && method == http.MethodPost:
		s.handler.DismissMatch(w, r)
	case path == "/duplicates" || path == "/duplicates/dismiss":
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	default:
		http.NotFound(w, r)
	}
}
