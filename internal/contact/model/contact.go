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

package model

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Canonical contact field names. Any other name addresses an extra field.
const (
	FieldId           = "id"
	FieldFirstName    = "first_name"
	FieldLastName     = "last_name"
	FieldEmail        = "email"
	FieldWorkEmail    = "work_email"
	FieldPhone        = "phone"
	FieldMobile       = "mobile"
	FieldWorkPhone    = "work_phone"
	FieldCompany      = "company"
	FieldJobTitle     = "job_title"
	FieldNotes        = "notes"
	FieldSourceFile   = "source_file"
	FieldMergedFromId = "merged_from_id"
)

// CanonicalFields lists the user editable canonical fields in display order.
var CanonicalFields = []string{
	FieldFirstName,
	FieldLastName,
	FieldEmail,
	FieldWorkEmail,
	FieldPhone,
	FieldMobile,
	FieldWorkPhone,
	FieldCompany,
	FieldJobTitle,
	FieldNotes,
	FieldSourceFile,
}

// EmailSlots and PhoneSlots group fields that hold equivalent values of the same kind.
var (
	EmailSlots = []string{FieldEmail, FieldWorkEmail}
	PhoneSlots = []string{FieldPhone, FieldMobile, FieldWorkPhone}
)

// Contact is a single address book entry. Columns without a canonical field are kept in ExtraFields.
type Contact struct {
	Id           string            `json:"id"`
	FirstName    string            `json:"first_name"`
	LastName     string            `json:"last_name"`
	Email        string            `json:"email"`
	WorkEmail    string            `json:"work_email"`
	Phone        string            `json:"phone"`
	Mobile       string            `json:"mobile"`
	WorkPhone    string            `json:"work_phone"`
	Company      string            `json:"company"`
	JobTitle     string            `json:"job_title"`
	Notes        string            `json:"notes"`
	SourceFile   string            `json:"source_file"`
	MergedFromId string            `json:"merged_from_id,omitempty"`
	ExtraFields  map[string]string `json:"extra_fields,omitempty"`
	CreatedAt    int64             `json:"created_at"`
	UpdatedAt    int64             `json:"updated_at"`
}

// IsArchived reports whether the contact was absorbed by a merge.
func (c *Contact) IsArchived() bool {
	return c.MergedFromId != ""
}

// IsCanonicalField reports whether name is one of the typed contact fields.
func IsCanonicalField(name string) bool {
	switch name {
	case FieldId, FieldMergedFromId:
		return true
	}
	for _, field := range CanonicalFields {
		if field == name {
			return true
		}
	}
	return false
}

// Get returns the value of a canonical or extra field, or an empty string when unset.
func (c *Contact) Get(field string) string {

	switch field {
	case FieldId:
		return c.Id
	case FieldFirstName:
		return c.FirstName
	case FieldLastName:
		return c.LastName
	case FieldEmail:
		return c.Email
	case FieldWorkEmail:
		return c.WorkEmail
	case FieldPhone:
		return c.Phone
	case FieldMobile:
		return c.Mobile
	case FieldWorkPhone:
		return c.WorkPhone
	case FieldCompany:
		return c.Company
	case FieldJobTitle:
		return c.JobTitle
	case FieldNotes:
		return c.Notes
	case FieldSourceFile:
		return c.SourceFile
	case FieldMergedFromId:
		return c.MergedFromId
	}
	return c.ExtraFields[field]
}

// Set assigns a canonical or extra field. Setting an extra field to an empty value removes it.
func (c *Contact) Set(field, value string) {

	switch field {
	case FieldId:
		c.Id = value
	case FieldFirstName:
		c.FirstName = value
	case FieldLastName:
		c.LastName = value
	case FieldEmail:
		c.Email = value
	case FieldWorkEmail:
		c.WorkEmail = value
	case FieldPhone:
		c.Phone = value
	case FieldMobile:
		c.Mobile = value
	case FieldWorkPhone:
		c.WorkPhone = value
	case FieldCompany:
		c.Company = value
	case FieldJobTitle:
		c.JobTitle = value
	case FieldNotes:
		c.Notes = value
	case FieldSourceFile:
		c.SourceFile = value
	case FieldMergedFromId:
		c.MergedFromId = value
	default:
		if value == "" {
			delete(c.ExtraFields, field)
			return
		}
		if c.ExtraFields == nil {
			c.ExtraFields = make(map[string]string)
		}
		c.ExtraFields[field] = value
	}
}

// ExtraFieldNames returns the extra field names in sorted order.
func (c *Contact) ExtraFieldNames() []string {

	names := make([]string, 0, len(c.ExtraFields))
	for name := range c.ExtraFields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Fields returns every non-empty canonical and extra field except the id and merge reference.
func (c *Contact) Fields() map[string]string {

	fields := make(map[string]string)
	for _, name := range CanonicalFields {
		if value := c.Get(name); value != "" {
			fields[name] = value
		}
	}
	for name, value := range c.ExtraFields {
		if value != "" {
			fields[name] = value
		}
	}
	return fields
}

// DisplayName renders the contact for lists and logs.
func (c *Contact) DisplayName() string {

	name := strings.TrimSpace(c.FirstName + " " + c.LastName)
	if name != "" {
		return name
	}
	if c.Email != "" {
		return c.Email
	}
	return c.Id
}

// Clone returns a deep copy of the contact.
func (c Contact) Clone() Contact {

	clone := c
	if c.ExtraFields != nil {
		clone.ExtraFields = make(map[string]string, len(c.ExtraFields))
		for k, v := range c.ExtraFields {
			clone.ExtraFields[k] = v
		}
	}
	return clone
}

// NewContactId returns a fresh contact id.
func NewContactId() string {
	return uuid.New().String()
}
