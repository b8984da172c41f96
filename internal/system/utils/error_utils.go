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
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/wso2/identity-contact-service/internal/system/constants"
	customerrors "github.com/wso2/identity-contact-service/internal/system/errors"
)

var requestValidator = newRequestValidator()

func newRequestValidator() *validator.Validate {

	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// DecodeJSONBody decodes a JSON request body into target, rejecting unknown fields, and validates the
// result against its `validate` struct tags. Failures are returned as bad request client errors.
func DecodeJSONBody(r *http.Request, target interface{}, resourceName string) error {

	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, constants.MaxJSONBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return customerrors.NewValidationError(customerrors.BAD_REQUEST, HandleDecodeError(err, resourceName))
	}
	if err := requestValidator.Struct(target); err != nil {
		return customerrors.NewValidationError(customerrors.BAD_REQUEST, HandleValidationError(err, resourceName))
	}
	return nil
}

// HandleDecodeError interprets JSON decoding errors and returns user-friendly messages.
func HandleDecodeError(err error, resourceName string) string {
	if err == nil {
		return ""
	}

	// Empty body
	if errors.Is(err, io.EOF) {
		return fmt.Sprintf("Request body for %s is empty.", resourceName)
	}

	// Unknown field (when using DisallowUnknownFields)
	if strings.HasPrefix(err.Error(), "json: unknown field ") {
		field := strings.TrimPrefix(err.Error(), "json: unknown field ")
		return fmt.Sprintf("Unknown field %s in %s request body.", field, resourceName)
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Sprintf("Request body for %s exceeds %d bytes.", resourceName, tooLarge.Limit)
	}

	// Malformed JSON
	var se *json.SyntaxError
	if errors.As(err, &se) && se != nil {
		return fmt.Sprintf("Malformed JSON in %s request body.", resourceName)
	}

	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) && ute != nil {
		if ute.Field == "" {
			return fmt.Sprintf("Request body for %s must be a JSON object.", resourceName)
		}
		return fmt.Sprintf("Invalid type for field '%s' in %s request body.", ute.Field, resourceName)
	}

	// Generic fallback
	return fmt.Sprintf("Invalid JSON payload for %s.", resourceName)
}

// HandleValidationError turns struct validation failures into a message naming the offending fields.
func HandleValidationError(err error, resourceName string) string {

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Sprintf("Invalid %s request.", resourceName)
	}
	fields := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		fields = append(fields, fmt.Sprintf("'%s' (%s)", fieldError.Field(), fieldError.Tag()))
	}
	return fmt.Sprintf("Invalid fields in %s request body: %s.", resourceName, strings.Join(fields, ", "))
}
