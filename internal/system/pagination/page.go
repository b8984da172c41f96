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
	"fmt"

	"github.com/wso2/identity-contact-service/internal/contact/model"
)

// PageContacts returns the contacts after the cursor, at most limit of them, and the cursor of the next
// page. The input keeps store order. A zero limit returns everything after the cursor. A cursor naming a
// contact that is no longer listed is rejected so the caller restarts instead of skipping rows.
func PageContacts(contacts []model.Contact, limit int, cursor *ContactCursor) ([]model.Contact, string, error) {

	start := 0
	if cursor != nil {
		start = -1
		for i, contact := range contacts {
			if contact.Id == cursor.ContactId && contact.CreatedAt == cursor.CreatedAt {
				start = i + 1
				break
			}
		}
		if start < 0 {
			return nil, "", fmt.Errorf("cursor does not match a listed contact")
		}
	}

	page := contacts[start:]
	if limit <= 0 || len(page) <= limit {
		return page, "", nil
	}
	page = page[:limit]
	last := page[len(page)-1]
	return page, EncodeContactCursor(ContactCursor{CreatedAt: last.CreatedAt, ContactId: last.Id}), nil
}
