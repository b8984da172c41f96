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
	"bytes"
	"fmt"
	"net/http"

	"github.com/wso2/identity-contact-service/internal/contact/export"
	"github.com/wso2/identity-contact-service/internal/contact/model"
	"github.com/wso2/identity-contact-service/internal/contact/provider"
	"github.com/wso2/identity-contact-service/internal/contact/service"
	"github.com/wso2/identity-contact-service/internal/system/authn"
	"github.com/wso2/identity-contact-service/internal/system/authz"
	cdscontext "github.com/wso2/identity-contact-service/internal/system/context"
	"github.com/wso2/identity-contact-service/internal/system/errors"
	"github.com/wso2/identity-contact-service/internal/system/log"
	"github.com/wso2/identity-contact-service/internal/system/pagination"
	"github.com/wso2/identity-contact-service/internal/system/security"
	"github.com/wso2/identity-contact-service/internal/system/utils"
)

// Path parameters set by the service router.
const (
	PathParamContactId = "contactId"
	PathParamJobId     = "jobId"
)

type ContactHandler struct {
	service service.ContactServiceInterface
}

// NewContactHandler creates a handler backed by the process wide contact service.
func NewContactHandler() *ContactHandler {

	return &ContactHandler{}
}

// NewContactHandlerWithService creates a handler backed by the given service.
func NewContactHandlerWithService(contactService service.ContactServiceInterface) *ContactHandler {

	return &ContactHandler{service: contactService}
}

func (ch *ContactHandler) contactService() (service.ContactServiceInterface, error) {

	if ch.service != nil {
		return ch.service, nil
	}
	return provider.NewContactProvider().GetContactService()
}

// authorize authenticates the request and resolves the contact service. It writes the error response
// and returns nil when the request cannot proceed.
func (ch *ContactHandler) authorize(w http.ResponseWriter, r *http.Request, operation string) service.ContactServiceInterface {

	if err := security.AuthnAndAuthz(r, operation); err != nil {
		utils.HandleError(w, err)
		return nil
	}
	contactService, err := ch.contactService()
	if err != nil {
		utils.HandleError(w, err)
		return nil
	}
	return contactService
}

// ListContacts handles GET /contacts with optional search, limit and cursor query parameters.
func (ch *ContactHandler) ListContacts(w http.ResponseWriter, r *http.Request) {

	contactService := ch.authorize(w, r, authz.OperationListContacts)
	if contactService == nil {
		return
	}
	limit, err := pagination.ParseLimit(r)
	if err != nil {
		utils.HandleError(w, errors.NewValidationError(errors.BAD_REQUEST, "The limit must be a positive integer."))
		return
	}
	cursor, err := pagination.DecodeContactCursor(r.URL.Query().Get("cursor"))
	if err != nil {
		utils.HandleError(w, errors.NewValidationError(errors.BAD_REQUEST, "The cursor is malformed."))
		return
	}

	contacts, err := contactService.ListContacts(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	page, next, err := pagination.PageContacts(contacts, limit, cursor)
	if err != nil {
		utils.HandleError(w, errors.NewValidationError(errors.BAD_REQUEST,
			"The cursor does not point at a listed contact. Restart from the first page."))
		return
	}
	if page == nil {
		page = []model.Contact{}
	}
	utils.RespondJSON(w, http.StatusOK, model.ContactListResponse{Contacts: page, Count: len(page), NextCursor: next})
}

// GetContact handles GET /contacts/{contactId}.
func (ch *ContactHandler) GetContact(w http.ResponseWriter, r *http.Request) {

	contactService := ch.authorize(w, r, authz.OperationGetContact)
	if contactService == nil {
		return
	}
	contact, err := contactService.GetContact(r.Context(), r.PathValue(PathParamContactId))
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, contact)
}

// GetMergeHistory handles GET /contacts/{contactId}/merge-history.
func (ch *ContactHandler) GetMergeHistory(w http.ResponseWriter, r *http.Request) {

	contactService := ch.authorize(w, r, authz.OperationGetMergeHistory)
	if contactService == nil {
		return
	}
	history, err := contactService.GetMergeHistory(r.Context(), r.PathValue(PathParamContactId))
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	if history == nil {
		history = []model.MergeRecord{}
	}
	utils.RespondJSON(w, http.StatusOK, history)
}

// MergeContacts handles POST /contacts/merge.
func (ch *ContactHandler) MergeContacts(w http.ResponseWriter, r *http.Request) {

	contactService := ch.authorize(w, r, authz.OperationMergeContacts)
	if contactService == nil {
		return
	}

	var request model.MergeRequest
	if err := utils.DecodeJSONBody(r, &request, "merge"); err != nil {
		utils.HandleError(w, err)
		return
	}

	response, err := contactService.MergeContacts(r.Context(), request)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	log.GetLogger().Audit(log.AuditEvent{
		InitiatorID:   authn.GetUserIDFromRequest(r),
		InitiatorType: log.InitiatorTypeUser,
		TargetID:      response.MergedContact.Id,
		TargetType:    log.TargetTypeContact,
		ActionID:      log.ActionMergeContacts,
		TraceID:       cdscontext.GetTraceID(r.Context()),
		Data: map[string]string{
			"secondary_id":    request.SecondaryId,
			"merge_record_id": response.MergeRecord.Id,
		},
	})
	utils.RespondJSON(w, http.StatusOK, response)
}

// FindDuplicates handles GET /duplicates.
func (ch *ContactHandler) FindDuplicates(w http.ResponseWriter, r *http.Request) {

	contactService := ch.authorize(w, r, authz.OperationFindDuplicates)
	if contactService == nil {
		return
	}
	result, err := contactService.FindDuplicates(r.Context())
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	groups := result.Groups
	if groups == nil {
		groups = []model.DuplicateGroup{}
	}
	utils.RespondJSON(w, http.StatusOK, model.DuplicatesResponse{Groups: groups, Count: result.Count})
}

// DismissMatch handles POST /duplicates/dismiss.
func (ch *ContactHandler) DismissMatch(w http.ResponseWriter, r *http.Request) {

	contactService := ch.authorize(w, r, authz.OperationDismissMatch)
	if contactService == nil {
		return
	}

	var request model.DismissRequest
	if err := utils.DecodeJSONBody(r, &request, "dismiss"); err != nil {
		utils.HandleError(w, err)
		return
	}

	pair, err := contactService.DismissMatch(r.Context(), request.Contact1Id, request.Contact2Id, request.Reason)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	log.GetLogger().Audit(log.AuditEvent{
		InitiatorID:   authn.GetUserIDFromRequest(r),
		InitiatorType: log.InitiatorTypeUser,
		TargetID:      model.PairKey(pair.Contact1Id, pair.Contact2Id),
		TargetType:    log.TargetTypeContactPair,
		ActionID:      log.ActionDismissMatch,
		TraceID:       cdscontext.GetTraceID(r.Context()),
		Data: map[string]string{
			"contact1_id": pair.Contact1Id,
			"contact2_id": pair.Contact2Id,
		},
	})
	utils.RespondJSON(w, http.StatusOK, pair)
}

// ExportContacts handles GET /contacts/export?format=csv|vcard|json.
func (ch *ContactHandler) ExportContacts(w http.ResponseWriter, r *http.Request) {

	contactService := ch.authorize(w, r, authz.OperationExportContacts)
	if contactService == nil {
		return
	}
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	contacts, err := contactService.ListContacts(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, contacts, format); err != nil {
		utils.HandleError(w, err)
		return
	}

	log.GetLogger().Audit(log.AuditEvent{
		InitiatorID:   authn.GetUserIDFromRequest(r),
		InitiatorType: log.InitiatorTypeUser,
		TargetID:      string(format),
		TargetType:    log.TargetTypeContactStore,
		ActionID:      log.ActionExportContacts,
		TraceID:       cdscontext.GetTraceID(r.Context()),
		Data:          map[string]int{"count": len(contacts)},
	})
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.FileName()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
