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

package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/emersion/go-vcard"
	"github.com/wso2/identity-contact-service/internal/contact/model"
	"github.com/wso2/identity-contact-service/internal/system/constants"
	"github.com/wso2/identity-contact-service/internal/system/errors"
)

// Format is a supported export format.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatVCard Format = "vcard"
	FormatJSON  Format = "json"
)

// ParseFormat maps a format name onto a Format. An empty name selects CSV.
func ParseFormat(name string) (Format, error) {

	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatVCard, "vcf":
		return FormatVCard, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", errors.NewValidationError(errors.UNSUPPORTED_EXPORT_FORMAT,
		fmt.Sprintf("Unsupported export format %q. Use csv, vcard or json.", name))
}

// ContentType returns the media type of the format.
func (f Format) ContentType() string {

	switch f {
	case FormatVCard:
		return constants.ContentTypeVCard
	case FormatJSON:
		return constants.ContentTypeJSON
	}
	return constants.ContentTypeCSV
}

// FileName returns the default download name for the format.
func (f Format) FileName() string {

	if f == FormatVCard {
		return "contacts.vcf"
	}
	return "contacts." + string(f)
}

// Write encodes the contacts in the given format.
func Write(w io.Writer, contacts []model.Contact, format Format) error {

	var err error
	switch format {
	case FormatCSV:
		err = writeCSV(w, contacts)
	case FormatVCard:
		err = writeVCard(w, contacts)
	case FormatJSON:
		err = writeJSON(w, contacts)
	default:
		return errors.NewValidationError(errors.UNSUPPORTED_EXPORT_FORMAT,
			fmt.Sprintf("Unsupported export format %q.", format))
	}
	if err != nil {
		return errors.NewServerError(errors.ErrorMessage{
			Code:        errors.EXPORT_FAILED.Code,
			Message:     errors.EXPORT_FAILED.Message,
			Description: fmt.Sprintf("Failed to write %s export", format),
		}, err)
	}
	return nil
}

// Columns returns the CSV columns for the contacts: the id, the canonical fields and then every extra
// field in name order.
func Columns(contacts []model.Contact) []string {

	columns := append([]string{model.FieldId}, model.CanonicalFields...)
	extras := make(map[string]struct{})
	for _, contact := range contacts {
		for name := range contact.ExtraFields {
			extras[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(extras))
	for name := range extras {
		names = append(names, name)
	}
	sort.Strings(names)
	return append(columns, names...)
}

func writeCSV(w io.Writer, contacts []model.Contact) error {

	columns := Columns(contacts)
	writer := csv.NewWriter(w)
	if err := writer.Write(columns); err != nil {
		return err
	}
	row := make([]string, len(columns))
	for _, contact := range contacts {
		for i, column := range columns {
			row[i] = contact.Get(column)
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeJSON(w io.Writer, contacts []model.Contact) error {

	if contacts == nil {
		contacts = []model.Contact{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(contacts)
}

func writeVCard(w io.Writer, contacts []model.Contact) error {

	encoder := vcard.NewEncoder(w)
	for _, contact := range contacts {
		if err := encoder.Encode(toCard(contact)); err != nil {
			return err
		}
	}
	return nil
}

func toCard(contact model.Contact) vcard.Card {

	card := make(vcard.Card)
	card.SetValue(vcard.FieldVersion, "3.0")
	card.SetValue(vcard.FieldUID, contact.Id)
	card.SetValue(vcard.FieldFormattedName, contact.DisplayName())
	card.SetName(&vcard.Name{
		FamilyName: contact.LastName,
		GivenName:  contact.FirstName,
	})

	addTyped(card, vcard.FieldEmail, contact.Email, vcard.TypeHome)
	addTyped(card, vcard.FieldEmail, contact.WorkEmail, vcard.TypeWork)
	addTyped(card, vcard.FieldTelephone, contact.Phone, vcard.TypeVoice)
	addTyped(card, vcard.FieldTelephone, contact.Mobile, vcard.TypeCell)
	addTyped(card, vcard.FieldTelephone, contact.WorkPhone, vcard.TypeWork)

	if contact.Company != "" {
		card.SetValue(vcard.FieldOrganization, contact.Company)
	}
	if contact.JobTitle != "" {
		card.SetValue(vcard.FieldTitle, contact.JobTitle)
	}
	if contact.Notes != "" {
		card.SetValue(vcard.FieldNote, contact.Notes)
	}
	for _, name := range contact.ExtraFieldNames() {
		card.Add("X-CONTACT-"+extensionName(name), &vcard.Field{Value: contact.ExtraFields[name]})
	}
	return card
}

func addTyped(card vcard.Card, field, value, kind string) {

	if value == "" {
		return
	}
	card.Add(field, &vcard.Field{
		Value:  value,
		Params: vcard.Params{vcard.ParamType: {kind}},
	})
}

// extensionName turns an extra field name into a valid vCard property name.
func extensionName(name string) string {

	var b strings.Builder
	for _, r := range strings.ToUpper(name) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		} else {
			b.WriteRune('-')
		}
	}
	return b.String()
}
