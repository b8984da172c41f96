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
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wso2/identity-contact-service/internal/contact/model"
	"github.com/wso2/identity-contact-service/internal/system/errors"
	"github.com/wso2/identity-contact-service/internal/system/log"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	os.Exit(m.Run())
}

func TestParseCSV_TrimsAndSkipsEmptyRows(t *testing.T) {

	input := "\ufeffFirst Name, Last Name ,Email\n" +
		"  John , Doe , jd@x.com \n" +
		"\n" +
		",,\n" +
		"Alice,Smith\n" +
		"Bob,Jones,bob@x.com,extra\n"

	table, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"First Name", "Last Name", "Email"}, table.Headers)
	require.Len(t, table.Records, 3)

	assert.Equal(t, 2, table.Records[0].Line)
	assert.Equal(t, []Field{
		{Header: "First Name", Value: "John"},
		{Header: "Last Name", Value: "Doe"},
		{Header: "Email", Value: "jd@x.com"},
	}, table.Records[0].Fields)
	assert.Len(t, table.Records[1].Fields, 2)
	assert.Equal(t, Field{Header: "column_4", Value: "extra"}, table.Records[2].Fields[3])
}

func TestParseCSV_Errors(t *testing.T) {

	_, err := ParseCSV(strings.NewReader(""))
	assert.True(t, errors.HasCode(err, errors.INVALID_CSV))

	_, err = ParseCSV(strings.NewReader(" , \n1,2\n"))
	assert.True(t, errors.HasCode(err, errors.INVALID_CSV))
}

func TestToContact_MapsHeaders(t *testing.T) {

	record := Record{Line: 2, Fields: []Field{
		{Header: "Given Name", Value: "Ada"},
		{Header: "Family Name", Value: "Lovelace"},
		{Header: "E-mail Address", Value: "ada@example.com"},
		{Header: "Business Email", Value: "ada@work.com"},
		{Header: "Mobile Phone", Value: "+44 20 7946 0000"},
		{Header: "Business Phone", Value: "(020) 555-0101"},
		{Header: "Organization", Value: "Analytical Engines"},
		{Header: "Job Title", Value: "Analyst"},
		{Header: "Birthday", Value: "1815-12-10"},
		{Header: "id", Value: "legacy-7"},
	}}

	contact, warnings := ToContact(record, "people.csv")
	assert.Empty(t, warnings)
	assert.Equal(t, "Ada", contact.FirstName)
	assert.Equal(t, "Lovelace", contact.LastName)
	assert.Equal(t, "ada@example.com", contact.Email)
	assert.Equal(t, "ada@work.com", contact.WorkEmail)
	assert.Equal(t, "+44 20 7946 0000", contact.Mobile)
	assert.Equal(t, "(020) 555-0101", contact.WorkPhone)
	assert.Equal(t, "Analytical Engines", contact.Company)
	assert.Equal(t, "Analyst", contact.JobTitle)
	assert.Equal(t, "people.csv", contact.SourceFile)
	assert.Empty(t, contact.Id)
	assert.Equal(t, map[string]string{"Birthday": "1815-12-10", "imported_id": "legacy-7"}, contact.ExtraFields)
}

func TestToContact_SplitsFullName(t *testing.T) {

	contact, _ := ToContact(Record{Fields: []Field{{Header: "Full Name", Value: "Mary Ann  Evans"}}}, "")
	assert.Equal(t, "Mary Ann", contact.FirstName)
	assert.Equal(t, "Evans", contact.LastName)

	contact, _ = ToContact(Record{Fields: []Field{
		{Header: "First Name", Value: "George"},
		{Header: "Name", Value: "George Eliot"},
	}}, "")
	assert.Equal(t, "George", contact.FirstName)
	assert.Equal(t, "George Eliot", contact.ExtraFields["full_name"])
}

func TestToContact_KeepsFirstValueOfRepeatedField(t *testing.T) {

	contact, _ := ToContact(Record{Fields: []Field{
		{Header: "Email", Value: "a@x.com"},
		{Header: "E-mail", Value: "b@x.com"},
	}}, "")
	assert.Equal(t, "a@x.com", contact.Email)
	assert.Equal(t, "b@x.com", contact.ExtraFields["E-mail"])
}

func TestValidate_ReportsWithoutRejecting(t *testing.T) {

	contact := model.Contact{Email: "not-an-email", Phone: "call me", Mobile: "555-1234"}
	warnings := Validate(contact, 7)
	require.Len(t, warnings, 3)
	assert.Equal(t, Warning{Line: 7, Field: model.FieldFirstName, Message: "name is missing"}, warnings[0])
	assert.Equal(t, model.FieldEmail, warnings[1].Field)
	assert.Equal(t, model.FieldPhone, warnings[2].Field)
}

func TestParse_BuildsContacts(t *testing.T) {

	input := "Name,Email,Phone\nJohn Doe,jd@x.com,555-1234\nJane Roe,bad-email,\n"

	result, err := Parse(strings.NewReader(input), "contacts.csv")
	require.NoError(t, err)
	require.Len(t, result.Contacts, 2)
	assert.Equal(t, "John", result.Contacts[0].FirstName)
	assert.Equal(t, "contacts.csv", result.Contacts[1].SourceFile)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, 3, result.Warnings[0].Line)
}

func TestCanonicalField(t *testing.T) {

	assert.Equal(t, model.FieldFirstName, CanonicalField("first_name"))
	assert.Equal(t, model.FieldWorkPhone, CanonicalField("Work Phone"))
	assert.Equal(t, model.FieldEmail, CanonicalField("E-mail 1 - Value"))
	assert.Empty(t, CanonicalField("Birthday"))
}
