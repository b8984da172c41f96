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
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wso2/identity-contact-service/internal/system/errors"
	"github.com/wso2/identity-contact-service/internal/system/log"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	os.Exit(m.Run())
}

type samplePayload struct {
	PrimaryId   string `json:"primary_id" validate:"required"`
	SecondaryId string `json:"secondary_id" validate:"required,nefield=PrimaryId"`
}

func decode(body string) (samplePayload, error) {

	var payload samplePayload
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	err := DecodeJSONBody(r, &payload, "merge")
	return payload, err
}

func TestDecodeJSONBody(t *testing.T) {

	payload, err := decode(`{"primary_id":"c1","secondary_id":"c2"}`)
	require.NoError(t, err)
	assert.Equal(t, "c2", payload.SecondaryId)

	cases := map[string]string{
		"":                                        "Request body for merge is empty.",
		`{"primary_id":"c1","extra":1}`:      `Unknown field "extra" in merge request body.`,
		`{"primary_id":`:                          "Invalid JSON payload for merge.",
		`{"primary_id":5}`:                        "Invalid type for field 'primary_id' in merge request body.",
		`[]`:                                      "Request body for merge must be a JSON object.",
		`{"primary_id":"c1"}`:                     "Invalid fields in merge request body: 'secondary_id' (required).",
		`{"primary_id":"c1","secondary_id":"c1"}`: "Invalid fields in merge request body: 'secondary_id' (nefield).",
	}
	for body, expected := range cases {
		_, err := decode(body)
		require.Error(t, err, body)
		assert.True(t, errors.HasCode(err, errors.BAD_REQUEST), body)

		var clientError *errors.ClientError
		require.ErrorAs(t, err, &clientError)
		assert.Equal(t, expected, clientError.Description, body)
	}
}

func TestHandleError_ClientError(t *testing.T) {

	w := httptest.NewRecorder()
	HandleError(w, errors.NewNotFoundError(errors.CONTACT_NOT_FOUND, "No contact with id c9."))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, errors.CONTACT_NOT_FOUND.Code, body.Code)
	assert.Equal(t, errors.CONTACT_NOT_FOUND.Message, body.Error)
	assert.Equal(t, "No contact with id c9.", body.Details)
}

func TestHandleError_ServerError(t *testing.T) {

	w := httptest.NewRecorder()
	HandleError(w, errors.NewServerError(errors.MERGE_TRANSACTION, fmt.Errorf("connection reset")))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, errors.MERGE_TRANSACTION.Code, body.Code)
	assert.Equal(t, "Internal server error", body.Error)
	assert.NotContains(t, w.Body.String(), "connection reset")
}

func TestHandleError_PlainError(t *testing.T) {

	w := httptest.NewRecorder()
	HandleError(w, fmt.Errorf("boom"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
