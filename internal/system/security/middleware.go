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

package security

import (
	"net/http"
	"strings"

	"github.com/wso2/identity-contact-service/internal/system/authn"
	"github.com/wso2/identity-contact-service/internal/system/authz"
	"github.com/wso2/identity-contact-service/internal/system/constants"
	"github.com/wso2/identity-contact-service/internal/system/errors"
)

// AuthnAndAuthz performs authentication and authorization for the given HTTP request and operation.
// It accepts every request when authentication is disabled.
func AuthnAndAuthz(r *http.Request, operation string) error {

	if !authn.IsAuthenticationEnabled() {
		return nil
	}

	authHeader := r.Header.Get(constants.AuthorizationHeader)
	if authHeader == "" || !strings.HasPrefix(authHeader, constants.BearerPrefix) {
		clientError := errors.NewClientError(errors.ErrorMessage{
			Code:        errors.UN_AUTHORIZED.Code,
			Message:     errors.UN_AUTHORIZED.Message,
			Description: "Missing or invalid Authorization header",
		}, http.StatusUnauthorized)
		return clientError
	}

	token := strings.TrimPrefix(authHeader, constants.BearerPrefix)

	//  Validate token
	claims, err := authn.ValidateAuthenticationAndReturnClaims(token)
	if err != nil {
		return err
	}

	//  Validate authorization
	scope, _ := claims["scope"].(string)
	if !authz.ValidatePermission(scope, operation) {
		clientError := errors.NewClientError(errors.ErrorMessage{
			Code:        errors.FORBIDDEN.Code,
			Message:     errors.FORBIDDEN.Message,
			Description: "Do not have permission to perform this operation",
		}, http.StatusForbidden)
		return clientError
	}
	return nil
}
