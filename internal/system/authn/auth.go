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

package authn

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/wso2/identity-contact-service/internal/system/config"
	"github.com/wso2/identity-contact-service/internal/system/constants"
	errors2 "github.com/wso2/identity-contact-service/internal/system/errors"
	"github.com/wso2/identity-contact-service/internal/system/log"
)

const anonymousUser = "anonymous"

// IsAuthenticationEnabled reports whether a token secret is configured. Without one the service runs
// in local single user mode.
func IsAuthenticationEnabled() bool {

	if !config.IsInitialized() {
		return false
	}
	return config.GetRuntime().Config.Auth.JWTSecret != ""
}

// ValidateAuthenticationAndReturnClaims verifies an HS256 signed JWT against the configured secret,
// expiry and audience and returns its claims.
func ValidateAuthenticationAndReturnClaims(token string) (jwt.MapClaims, error) {

	logger := log.GetLogger()
	authConfig := config.GetRuntime().Config.Auth

	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if authConfig.Audience != "" {
		options = append(options, jwt.WithAudience(authConfig.Audience))
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(authConfig.JWTSecret), nil
	}, options...)
	if err != nil {
		logger.Debug("Token validation failed.", log.Error(err))
		return nil, unauthorizedError()
	}
	return claims, nil
}

// ParseJWTClaims parses claims from a JWT without verifying the signature
func ParseJWTClaims(tokenString string) (map[string]interface{}, error) {

	logger := log.GetLogger()
	claims := jwt.MapClaims{}
	_, _, err := new(jwt.Parser).ParseUnverified(tokenString, claims)
	if err != nil {
		errMsg := "Error occurred when parsing claims from JWT token."
		logger.Debug(errMsg, log.Error(err))
		serverError := errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.PARSING_ERROR.Code,
			Message:     errors2.PARSING_ERROR.Message,
			Description: errMsg,
		}, err)
		return nil, serverError
	}
	return claims, nil
}

// GetUserIDFromRequest returns the subject of the bearer token for audit entries. Requests without a
// readable token are attributed to the anonymous user.
func GetUserIDFromRequest(r *http.Request) string {

	authHeader := r.Header.Get(constants.AuthorizationHeader)
	if !strings.HasPrefix(authHeader, constants.BearerPrefix) {
		return anonymousUser
	}
	claims, err := ParseJWTClaims(strings.TrimPrefix(authHeader, constants.BearerPrefix))
	if err != nil {
		return anonymousUser
	}
	if sub, ok := claims["sub"].(string); ok && sub != "" {
		return sub
	}
	return anonymousUser
}

func unauthorizedError() error {
	return errors2.NewClientError(errors2.ErrorMessage{
		Code:        errors2.UN_AUTHORIZED.Code,
		Message:     errors2.UN_AUTHORIZED.Message,
		Description: errors2.UN_AUTHORIZED.Description,
	}, http.StatusUnauthorized)
}
