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
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/emersion/go-vcard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wso2/identity-contact-service/internal/contact/model"
	"github.com/wso2/identity-contact-service/internal/system/errors"
)

var exportContacts = []model.Contact{
	{
		Id: "c1", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", WorkEmail: "ada@work.com",
		Mobile: "555-0101", Company: "Engines, Ltd", JobTitle: "Analyst", Notes: "met at\nthe salon",
		ExtraFields: map[string]string{"Birthday": "1815-12-10"},
	},
	{Id: "c2", FirstName: "Grace", Phone: "555-0202", ExtraFields: map[string]string{"Rank": "Rear Admiral"}},
}

func TestParseFormat(t *testing.T) {

	format, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, format)

	format, err = ParseFormat(" VCF ")
	require.NoError(t, err)
	assert.Equal(t, FormatVCard, format)
	assert.Equal(t, "text/vcard", format.ContentType())
	assert.Equal(t, "contacts.vcf", format.FileName())

	_, err = ParseFormat("xml")
	assert.True(t, errors.HasCode(err, errors.UNSUPPORTED_EXPORT_FORMAT))
}

func TestWrite_CSV(t *testing.T) {

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, exportContacts, FormatCSV))

	lines := strings.SplitN(buf.String(), "\n", 2)
	assert.Equal(t, "id,first_name,last_name,email,work_email,phone,mobile,work_phone,company,job_title,"+
		"notes,source_file,Birthday,Rank", lines[0])
	assert.Contains(t, buf.String(), `"Engines, Ltd"`)
	assert.Contains(t, buf.String(), "\"met at\nthe salon\"")
	assert.True(t, strings.HasSuffix(buf.String(), "c2,Grace,,,,555-0202,,,,,,,,Rear Admiral\n"))
}

func TestWrite_JSON(t *testing.T) {

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, exportContacts, FormatJSON))

	var decoded []model.Contact
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, exportContacts, decoded)
	assert.Contains(t, buf.String(), "\n  {")

	buf.Reset()
	require.NoError(t, Write(&buf, nil, FormatJSON))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWrite_VCard(t *testing.T) {

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, exportContacts, FormatVCard))

	decoder := vcard.NewDecoder(&buf)
	card, err := decoder.Decode()
	require.NoError(t, err)

	assert.Equal(t, "3.0", card.Value(vcard.FieldVersion))
	assert.Equal(t, "Ada Lovelace", card.Value(vcard.FieldFormattedName))
	assert.Equal(t, "Lovelace", card.Name().FamilyName)
	assert.Equal(t, "Analyst", card.Value(vcard.FieldTitle))
	assert.ElementsMatch(t, []string{"ada@example.com", "ada@work.com"}, card.Values(vcard.FieldEmail))
	assert.Equal(t, "555-0101", card.Value(vcard.FieldTelephone))
	assert.Equal(t, "1815-12-10", card.Value("X-CONTACT-BIRTHDAY"))

	card, err = decoder.Decode()
	require.NoError(t, err)
	assert.Equal(t, "c2", card.Value(vcard.FieldUID))
	assert.Equal(t, "Rear Admiral", card.Value("X-CONTACT-RANK"))
}

func TestWrite_UnknownFormat(t *testing.T) {

	err := Write(&bytes.Buffer{}, exportContacts, Format("pdf"))
	assert.True(t, errors.HasCode(err, errors.UNSUPPORTED_EXPORT_FORMAT))
}
