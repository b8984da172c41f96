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
	"database/sql"
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServerError_UnwrapsCause(t *testing.T) {

	err := NewServerError(MERGE_TRANSACTION, sql.ErrConnDone)

	assert.True(t, stderrors.Is(err, sql.ErrConnDone))
	assert.True(t, HasCode(err, MERGE_TRANSACTION))
	assert.False(t, IsClientError(err))
}

func TestHasCode_FindsWrappedClientError(t *testing.T) {

	notFound := NewNotFoundError(CONTACT_NOT_FOUND, "Contact c-9 does not exist.")
	wrapped := fmt.Errorf("merge: %w", notFound)

	assert.True(t, HasCode(wrapped, CONTACT_NOT_FOUND))
	assert.False(t, HasCode(wrapped, INVALID_MERGE_REQUEST))
	assert.True(t, IsClientError(wrapped))
	assert.Equal(t, http.StatusNotFound, notFound.StatusCode)
	assert.Equal(t, "Contact c-9 does not exist.", notFound.Description)
}

func TestNewValidationError_DoesNotMutateCatalogue(t *testing.T) {

	_ = NewValidationError(INVALID_FIELD_SELECTION, "Field nickname is absent from both contacts.")

	assert.Empty(t, INVALID_FIELD_SELECTION.Description)
}
