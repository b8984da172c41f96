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
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wso2/identity-contact-service/internal/system/constants"
)

func TestTraceID_RoundTrip(t *testing.T) {

	ctx := WithTraceID(context.Background(), "trace-1")
	assert.Equal(t, "trace-1", GetTraceID(ctx))
	assert.Empty(t, GetTraceID(context.Background()))
}

func TestFromRequest_ReusesCallerTraceID(t *testing.T) {

	r := httptest.NewRequest(http.MethodGet, "/api/v1/contacts", nil)
	r.Header.Set(constants.TraceIDHeader, "  import-42 ")

	ctx, traceID := FromRequest(r)
	assert.Equal(t, "import-42", traceID)
	assert.Equal(t, "import-42", GetTraceID(ctx))
}

func TestFromRequest_ReplacesUnusableTraceID(t *testing.T) {

	for name, header := range map[string]string{
		"missing":  "",
		"spaces":   "merge request 7",
		"too long": strings.Repeat("a", maxTraceIDLength+1),
	} {
		r := httptest.NewRequest(http.MethodGet, "/api/v1/duplicates", nil)
		r.Header.Set(constants.TraceIDHeader, header)

		ctx, traceID := FromRequest(r)
		assert.Len(t, traceID, 36, name)
		assert.Equal(t, traceID, GetTraceID(ctx), name)
	}
}
