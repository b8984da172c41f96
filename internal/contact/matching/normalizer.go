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

package matching

import (
	"strings"
	"unicode"

	"github.com/wso2/identity-contact-service/internal/contact/model"
	"golang.org/x/text/unicode/norm"
)

// NormalizedContact is the comparison view of a contact. It is never stored.
type NormalizedContact struct {
	Name  string
	Email string
	Phone string
}

// IsEmpty reports whether the contact has nothing to compare on.
func (n NormalizedContact) IsEmpty() bool {
	return n.Name == "" && n.Email == "" && n.Phone == ""
}

// Normalize derives the comparable fields of a contact. Missing fields become empty strings.
func Normalize(contact model.Contact) NormalizedContact {

	return NormalizedContact{
		Name:  NormalizeName(contact.FirstName, contact.LastName),
		Email: NormalizeEmail(contact.Email),
		Phone: NormalizePhone(firstNonEmpty(contact.Phone, contact.Mobile, contact.WorkPhone)),
	}
}

// NormalizeName lowercases the full name and collapses runs of whitespace to a single space.
func NormalizeName(firstName, lastName string) string {

	full := norm.NFC.String(firstName + " " + lastName)
	return strings.Join(strings.Fields(strings.ToLower(full)), " ")
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizePhone keeps only the digits of a phone number.
func NormalizePhone(phone string) string {

	var b strings.Builder
	for _, r := range phone {
		if r <= unicode.MaxASCII && unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
