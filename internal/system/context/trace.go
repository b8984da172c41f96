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


package context

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/wso2/identity-contact-service/internal/system/constants"
)

// maxTraceIDLength bounds caller supplied ids. They end up in audit entries and error bodies.
const maxTraceIDLength = 128

// FromRequest returns the request context carrying a trace id and that id. The caller's X-Trace-Id
// header is reused when it is printable and reasonably short; otherwise a new id is generated.
func FromRequest(r *http.Request) (context.Context, string) {

	traceID := strings.TrimSpace(r.Header.Get(constants.TraceIDHeader))
	if !validTraceID(traceID) {
		traceID = GenerateTraceID()
	}
	return WithTraceID(r.Context(), traceID), traceID
}

func GenerateTraceID() string {
	return uuid.New().String()
}

// GetTraceID returns the trace id of the request that started ctx, or "" for work started outside a
// request (CLI commands, import jobs).
func GetTraceID(ctx context.Context) string {
	if traceID, ok := ctx.Value(constants.TraceIDContextKey).(string); ok {
		return traceID
	}
	return ""
}

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, constants.TraceIDContextKey, traceID)
}

func validTraceID(traceID string) bool {

	if traceID == "" || len(traceID) > maxTraceIDLength {
		return false
	}
	for _, r := range traceID {
		if r < 0x21 || r > 0x7e {
			return false
		}
	}
	return true
}
