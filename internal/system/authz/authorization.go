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

package authz

import (
	"fmt"
	"slices"
	"strings"

	"github.com/wso2/identity-contact-service/internal/system/config"
	"github.com/wso2/identity-contact-service/internal/system/log"
)

// Operations that can be guarded by scopes in the auth.required_scopes configuration.
const (
	OperationListContacts    = "contacts:list"
	OperationGetContact      = "contacts:get"
	OperationMergeContacts   = "contacts:merge"
	OperationExportContacts  = "contacts:export"
	OperationFindDuplicates  = "duplicates:list"
	OperationDismissMatch    = "duplicates:dismiss"
	OperationImportContacts  = "imports:create"
	OperationGetImport       = "imports:get"
	OperationCancelImport    = "imports:cancel"
	OperationGetMergeHistory = "contacts:history"
)

// ValidatePermission checks if the provided scopes match the expected scopes for a use case. An
// operation without configured scopes is open to every authenticated caller.
func ValidatePermission(scopeStr string, operation string) bool {

	logger := log.GetLogger()
	requiredScopes := config.GetRuntime().Config.Auth.RequiredScopes
	expectedScopes, ok := requiredScopes[operation]
	if !ok || len(expectedScopes) == 0 {
		return true
	}
	if scopeStr == "" {
		logger.Debug(fmt.Sprintf("No scopes provided for operation: %s", operation))
		return false
	}

	grantedScopes := strings.Fields(scopeStr)
	for _, expected := range expectedScopes {
		if !slices.Contains(grantedScopes, expected) {
			logger.Debug(fmt.Sprintf("Scope %s is missing for operation: %s", expected, operation))
			return false
		}
	}
	return true
}
