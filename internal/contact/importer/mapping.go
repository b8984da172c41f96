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

package importer

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/wso2/identity-contact-service/internal/contact/model"
)

// fullNameField is a pseudo field for single column names. It is split into first and last name.
const fullNameField = "full_name"

// headerAliases maps a header, lower cased with everything but letters and digits removed, onto a
// canonical contact field.
var headerAliases = map[string]string{
	"firstname":          model.FieldFirstName,
	"first":              model.FieldFirstName,
	"givenname":          model.FieldFirstName,
	"forename":           model.FieldFirstName,
	"lastname":           model.FieldLastName,
	"last":               model.FieldLastName,
	"surname":            model.FieldLastName,
	"familyname":         model.FieldLastName,
	"name":               fullNameField,
	"fullname":           fullNameField,
	"displayname":        fullNameField,
	"email":              model.FieldEmail,
	"emailaddress":       model.FieldEmail,
	"email1":             model.FieldEmail,
	"email1value":        model.FieldEmail,
	"primaryemail":       model.FieldEmail,
	"personalemail":      model.FieldEmail,
	"homeemail":          model.FieldEmail,
	"workemail":          model.FieldWorkEmail,
	"businessemail":      model.FieldWorkEmail,
	"officeemail":        model.FieldWorkEmail,
	"email2":             model.FieldWorkEmail,
	"email2value":        model.FieldWorkEmail,
	"email2address":      model.FieldWorkEmail,
	"phone":              model.FieldPhone,
	"phonenumber":        model.FieldPhone,
	"homephone":          model.FieldPhone,
	"telephone":          model.FieldPhone,
	"primaryphone":       model.FieldPhone,
	"phone1value":        model.FieldPhone,
	"mobile":             model.FieldMobile,
	"mobilephone":        model.FieldMobile,
	"mobilenumber":       model.FieldMobile,
	"cell":               model.FieldMobile,
	"cellphone":          model.FieldMobile,
	"phone2value":        model.FieldMobile,
	"workphone":          model.FieldWorkPhone,
	"businessphone":      model.FieldWorkPhone,
	"officephone":        model.FieldWorkPhone,
	"phone3value":        model.FieldWorkPhone,
	"company":            model.FieldCompany,
	"companyname":        model.FieldCompany,
	"organization":       model.FieldCompany,
	"organisation":       model.FieldCompany,
	"organization1name":  model.FieldCompany,
	"employer":           model.FieldCompany,
	"jobtitle":           model.FieldJobTitle,
	"title":              model.FieldJobTitle,
	"position":           model.FieldJobTitle,
	"organization1title": model.FieldJobTitle,
	"notes":              model.FieldNotes,
	"note":               model.FieldNotes,
	"comments":           model.FieldNotes,
	"sourcefile":         model.FieldSourceFile,
	"source":             model.FieldSourceFile,
}

// Headers that name storage managed columns. Their values are kept as extra fields under a prefixed
// name so an import never overwrites ids or merge state.
var reservedHeaders = map[string]bool{
	model.FieldId:           true,
	model.FieldMergedFromId: true,
	"created_at":            true,
	"updated_at":            true,
}

var (
	validate     = validator.New()
	phonePattern = regexp.MustCompile(`^\+?[\d\s\-().]+$`)
)

// Warning describes a value that was imported as is but looks malformed.
type Warning struct {
	Line    int    `json:"line"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// CanonicalField returns the canonical field a header maps onto, or "" for unknown headers.
func CanonicalField(header string) string {

	return headerAliases[headerKey(header)]
}

// ToContact maps a CSV record onto a contact. Known headers fill canonical fields; any other header is
// kept verbatim as an extra field. A non-empty sourceFile overrides a source column in the file.
func ToContact(record Record, sourceFile string) (model.Contact, []Warning) {

	contact := model.Contact{}
	var fullName string
	for _, field := range record.Fields {
		canonical := CanonicalField(field.Header)
		switch {
		case canonical == fullNameField:
			if fullName == "" {
				fullName = field.Value
			}
		case canonical != "" && contact.Get(canonical) == "":
			contact.Set(canonical, field.Value)
		default:
			setExtra(&contact, field.Header, field.Value)
		}
	}
	if fullName != "" {
		first, last := splitFullName(fullName)
		if contact.FirstName == "" && contact.LastName == "" {
			contact.FirstName, contact.LastName = first, last
		} else {
			setExtra(&contact, "full_name", fullName)
		}
	}
	if sourceFile = strings.TrimSpace(sourceFile); sourceFile != "" {
		contact.SourceFile = sourceFile
	}
	return contact, Validate(contact, record.Line)
}

// Validate reports malformed values of a contact. It never rejects the contact.
func Validate(contact model.Contact, line int) []Warning {

	var warnings []Warning
	if strings.TrimSpace(contact.FirstName) == "" && strings.TrimSpace(contact.LastName) == "" {
		warnings = append(warnings, Warning{Line: line, Field: model.FieldFirstName, Message: "name is missing"})
	}
	for _, field := range model.EmailSlots {
		if value := contact.Get(field); value != "" && validate.Var(value, "email") != nil {
			warnings = append(warnings, Warning{Line: line, Field: field, Message: "invalid email format"})
		}
	}
	for _, field := range model.PhoneSlots {
		if value := contact.Get(field); value != "" && !phonePattern.MatchString(value) {
			warnings = append(warnings, Warning{Line: line, Field: field, Message: "invalid phone format"})
		}
	}
	return warnings
}

func setExtra(contact *model.Contact, header, value string) {

	if reservedHeaders[strings.ToLower(header)] || model.IsCanonicalField(header) {
		header = "imported_" + header
	}
	if contact.ExtraFields == nil {
		contact.ExtraFields = make(map[string]string)
	}
	if _, exists := contact.ExtraFields[header]; !exists {
		contact.ExtraFields[header] = value
	}
}

func splitFullName(name string) (string, string) {

	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	}
	return strings.Join(parts[:len(parts)-1], " "), parts[len(parts)-1]
}

func headerKey(header string) string {

	var b strings.Builder
	for _, r := range strings.ToLower(header) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
