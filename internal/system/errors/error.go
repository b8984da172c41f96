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

package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

type ErrorMessage struct {
	Code        string `json:"error_code"`
	Message     string `json:"error_message"`
	Description string `json:"error_description"`
	TraceID     string `json:"trace_id,omitempty"`
}

// ClientError is returned for requests the caller can correct. It is never retried.
type ClientError struct {
	ErrorMessage
	StatusCode int
}

// ServerError wraps a failure of the storage or runtime collaborators.
type ServerError struct {
	ErrorMessage
	Err error
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
}

// Unwrap returns the underlying cause of the server error.
func (e *ServerError) Unwrap() error {
	return e.Err
}

func (e *ClientError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("[%s] %s %s", e.Code, e.Message, e.Description)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func NewServerError(msg ErrorMessage, cause error) *ServerError {
	return &ServerError{
		ErrorMessage: msg,
		Err:          cause,
	}
}

func NewClientError(msg ErrorMessage, code int) *ClientError {
	return &ClientError{
		ErrorMessage: msg,
		StatusCode:   code,
	}
}

// NewNotFoundError builds a 404 client error for the given message with a specific description.
func NewNotFoundError(msg ErrorMessage, description string) *ClientError {
	msg.Description = description
	return NewClientError(msg, http.StatusNotFound)
}

// NewValidationError builds a 400 client error for the given message with a specific description.
func NewValidationError(msg ErrorMessage, description string) *ClientError {
	msg.Description = description
	return NewClientError(msg, http.StatusBadRequest)
}

func NewServerErrorWithTraceID(msg ErrorMessage, cause error, traceID string) *ServerError {
	msg.TraceID = traceID
	return &ServerError{
		ErrorMessage: msg,
		Err:          cause,
	}
}

func NewClientErrorWithTraceID(msg ErrorMessage, code int, traceID string) *ClientError {
	msg.TraceID = traceID
	return &ClientError{
		ErrorMessage: msg,
		StatusCode:   code,
	}
}

// HasCode reports whether err, or any error it wraps, carries the code of msg.
func HasCode(err error, msg ErrorMessage) bool {

	var clientError *ClientError
	if stderrors.As(err, &clientError) && clientError.Code == msg.Code {
		return true
	}
	var serverError *ServerError
	if stderrors.As(err, &serverError) && serverError.Code == msg.Code {
		return true
	}
	return false
}

// IsClientError reports whether err is, or wraps, a ClientError.
func IsClientError(err error) bool {

	var clientError *ClientError
	return stderrors.As(err, &clientError)
}
