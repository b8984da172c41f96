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

package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wso2/identity-contact-service/internal/contact/model"
)

func TestParseLimit(t *testing.T) {

	tests := []struct {
		query   string
		limit   int
		wantErr bool
	}{
		{"", 0, false},
		{"?limit=20", 20, false},
		{"?limit=100000", maxLimit, false},
		{"?limit=0", 0, true},
		{"?limit=-3", 0, true},
		{"?limit=ten", 0, true},
	}
	for _, tt := range tests {
		limit, err := ParseLimit(httptest.NewRequest("GET", "/contacts"+tt.query, nil))
		if tt.wantErr {
			assert.Error(t, err, tt.query)
			continue
		}
		require.NoError(t, err, tt.query)
		assert.Equal(t, tt.limit, limit, tt.query)
	}
}

func TestContactCursor_RoundTrip(t *testing.T) {

	encoded := EncodeContactCursor(ContactCursor{CreatedAt: 1700000000000, ContactId: "c-1|x"})
	cursor, err := DecodeContactCursor(encoded)
	require.NoError(t, err)
	assert.Equal(t, &ContactCursor{CreatedAt: 1700000000000, ContactId: "c-1|x"}, cursor)

	cursor, err = DecodeContactCursor("")
	require.NoError(t, err)
	assert.Nil(t, cursor)

	for _, bad := range []string{"%%%", "bm9waXBl", "YWJjfGM"} {
		_, err = DecodeContactCursor(bad)
		assert.Error(t, err, bad)
	}
}

func TestPageContacts(t *testing.T) {

	contacts := []model.Contact{
		{Id: "a", CreatedAt: 1},
		{Id: "b", CreatedAt: 2},
		{Id: "c", CreatedAt: 3},
	}

	page, next, err := PageContacts(contacts, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, []model.Contact{contacts[0], contacts[1]}, page)
	require.NotEmpty(t, next)

	cursor, err := DecodeContactCursor(next)
	require.NoError(t, err)
	page, next, err = PageContacts(contacts, 2, cursor)
	require.NoError(t, err)
	assert.Equal(t, []model.Contact{contacts[2]}, page)
	assert.Empty(t, next)

	page, next, err = PageContacts(contacts, 0, nil)
	require.NoError(t, err)
	assert.Len(t, page, 3)
	assert.Empty(t, next)

	_, _, err = PageContacts(contacts, 2, &ContactCursor{CreatedAt: 9, ContactId: "b"})
	assert.Error(t, err)
}
