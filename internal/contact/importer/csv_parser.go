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
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/wso2/identity-contact-service/internal/contact/model"
	cdserrors "github.com/wso2/identity-contact-service/internal/system/errors"
	"github.com/wso2/identity-contact-service/internal/system/log"
)

const byteOrderMark = "\ufeff"

// Field is one cell of a CSV row together with its column header.
type Field struct {
	Header string
	Value  string
}

// Record is one non-empty data row of a CSV file. Line is the 1-based line the row starts on.
type Record struct {
	Line   int
	Fields []Field
}

// Table is a parsed CSV file.
type Table struct {
	Headers []string
	Records []Record
}

// Result is the outcome of turning a CSV file into contacts.
type Result struct {
	Contacts []model.Contact
	Warnings []Warning
}

// ParseCSV reads a CSV file with a header row. Values are trimmed, rows with fewer or more cells than
// the header are accepted and rows without any value are skipped.
func ParseCSV(r io.Reader) (*Table, error) {

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = false

	header, err := reader.Read()
	if err == io.EOF {
		return nil, cdserrors.NewValidationError(cdserrors.INVALID_CSV, "The file has no header row.")
	}
	if err != nil {
		return nil, invalidCSV(err)
	}
	headers := normalizeHeaderRow(header)
	if len(headers) == 0 {
		return nil, cdserrors.NewValidationError(cdserrors.INVALID_CSV, "The header row is empty.")
	}

	table := &Table{Headers: headers}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, invalidCSV(err)
		}
		line, _ := reader.FieldPos(0)
		if record, ok := toRecord(headers, row, line); ok {
			table.Records = append(table.Records, record)
		}
	}
	log.GetLogger().Debug("Parsed CSV file",
		log.Int("columns", len(headers)),
		log.Int("rows", len(table.Records)))
	return table, nil
}

// Parse reads a CSV file and maps every row onto a contact tagged with sourceFile.
func Parse(r io.Reader, sourceFile string) (*Result, error) {

	table, err := ParseCSV(r)
	if err != nil {
		return nil, err
	}
	result := &Result{Contacts: make([]model.Contact, 0, len(table.Records))}
	for _, record := range table.Records {
		contact, warnings := ToContact(record, sourceFile)
		result.Contacts = append(result.Contacts, contact)
		result.Warnings = append(result.Warnings, warnings...)
	}
	return result, nil
}

func normalizeHeaderRow(header []string) []string {

	headers := make([]string, len(header))
	empty := true
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, byteOrderMark)
		}
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		} else {
			empty = false
		}
		headers[i] = name
	}
	if empty {
		return nil
	}
	return headers
}

func toRecord(headers []string, row []string, line int) (Record, bool) {

	record := Record{Line: line, Fields: make([]Field, 0, len(row))}
	hasValue := false
	for i, value := range row {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		hasValue = true
		header := fmt.Sprintf("column_%d", i+1)
		if i < len(headers) {
			header = headers[i]
		}
		record.Fields = append(record.Fields, Field{Header: header, Value: value})
	}
	return record, hasValue
}

func invalidCSV(err error) error {

	var parseErr *csv.ParseError
	description := err.Error()
	if errors.As(err, &parseErr) {
		description = fmt.Sprintf("Malformed CSV at line %d: %v", parseErr.Line, parseErr.Err)
	}
	log.GetLogger().Debug("Failed to parse CSV file", log.Error(err))
	return cdserrors.NewValidationError(cdserrors.INVALID_CSV, description)
}
