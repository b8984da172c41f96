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

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/wso2/identity-contact-service/internal/contact/model"
	"github.com/wso2/identity-contact-service/internal/system/database/client"
	"github.com/wso2/identity-contact-service/internal/system/database/lock"
	"github.com/wso2/identity-contact-service/internal/system/database/scripts"
	"github.com/wso2/identity-contact-service/internal/system/errors"
	"github.com/wso2/identity-contact-service/internal/system/log"
)

// ContactRepository is the storage contract of the contact service.
type ContactRepository interface {
	GetActiveContacts(ctx context.Context) ([]model.Contact, error)
	SearchActiveContacts(ctx context.Context, term string) ([]model.Contact, error)
	// GetContactById returns nil without an error when no contact has the id. Archived contacts are
	// returned so merge history stays resolvable.
	GetContactById(ctx context.Context, contactId string) (*model.Contact, error)
	InsertContacts(ctx context.Context, contacts []model.Contact) error
	UpdateContact(ctx context.Context, contact model.Contact) error
	ArchiveContact(ctx context.Context, contactId, survivorId string, archivedAt int64) error
	AppendMergeRecord(ctx context.Context, record model.MergeRecord) error
	GetMergeHistory(ctx context.Context, contactId string) ([]model.MergeRecord, error)
	LockContacts(ctx context.Context, contactIds ...string) error
	// WithTransaction runs fn against a repository bound to one transaction. The transaction commits
	// when fn returns nil and rolls back otherwise.
	WithTransaction(ctx context.Context, fn func(repo ContactRepository) error) error
}

// DismissalStore persists pairs of contacts that were declared distinct.
type DismissalStore interface {
	IsDismissed(ctx context.Context, contactId1, contactId2 string) (bool, error)
	// Dismiss is idempotent: dismissing an already dismissed pair is not an error.
	Dismiss(ctx context.Context, pair model.DismissedPair) error
	GetDismissedPairs(ctx context.Context) ([]model.DismissedPair, error)
}

// ContactStore implements ContactRepository and DismissalStore on a SQL database.
type ContactStore struct {
	dbClient client.DBClientInterface
	exec     client.Executor
	inTx     bool
}

// NewContactStore creates a store that runs every call on its own connection from the pool.
func NewContactStore(dbClient client.DBClientInterface) *ContactStore {

	return &ContactStore{
		dbClient: dbClient,
		exec:     dbClient,
	}
}

func (s *ContactStore) query(name string, catalogue map[string]string) (string, error) {

	query, ok := catalogue[s.exec.DBType()]
	if !ok {
		errorMsg := fmt.Sprintf("Query %s is not available for database type %s", name, s.exec.DBType())
		return "", errors.NewServerError(errors.ErrorMessage{
			Code:        errors.UNSUPPORTED_DB.Code,
			Message:     errors.UNSUPPORTED_DB.Message,
			Description: errorMsg,
		}, nil)
	}
	return query, nil
}

func serverError(msg errors.ErrorMessage, errorMsg string, err error) *errors.ServerError {

	log.GetLogger().Debug(errorMsg, log.Error(err))
	return errors.NewServerError(errors.ErrorMessage{
		Code:        msg.Code,
		Message:     msg.Message,
		Description: errorMsg,
	}, err)
}

// GetActiveContacts returns every contact that was not absorbed by a merge, in insertion order.
func (s *ContactStore) GetActiveContacts(ctx context.Context) ([]model.Contact, error) {

	query, err := s.query("GetActiveContacts", scripts.GetActiveContacts)
	if err != nil {
		return nil, err
	}
	rows, err := s.exec.ExecuteQuery(ctx, query)
	if err != nil {
		return nil, serverError(errors.FETCH_CONTACTS, "Failed to fetch active contacts", err)
	}
	return mapContacts(rows)
}

// SearchActiveContacts matches term as a case-insensitive substring of first name, last name or email.
func (s *ContactStore) SearchActiveContacts(ctx context.Context, term string) ([]model.Contact, error) {

	term = strings.TrimSpace(term)
	if term == "" {
		return s.GetActiveContacts(ctx)
	}
	query, err := s.query("SearchActiveContacts", scripts.SearchActiveContacts)
	if err != nil {
		return nil, err
	}
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
	rows, err := s.exec.ExecuteQuery(ctx, query, pattern, pattern, pattern)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to search contacts for term: %s", term)
		return nil, serverError(errors.FETCH_CONTACTS, errorMsg, err)
	}
	return mapContacts(rows)
}

func (s *ContactStore) GetContactById(ctx context.Context, contactId string) (*model.Contact, error) {

	query, err := s.query("GetContactById", scripts.GetContactById)
	if err != nil {
		return nil, err
	}
	rows, err := s.exec.ExecuteQuery(ctx, query, contactId)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to fetch contact: %s", contactId)
		return nil, serverError(errors.FETCH_CONTACTS, errorMsg, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	contact, err := mapContact(rows[0])
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

// InsertContacts writes the contacts in order. Call it inside WithTransaction to make a batch atomic.
func (s *ContactStore) InsertContacts(ctx context.Context, contacts []model.Contact) error {

	query, err := s.query("InsertContact", scripts.InsertContact)
	if err != nil {
		return err
	}
	for _, contact := range contacts {
		extra, err := marshalJSON(contact.ExtraFields, "{}")
		if err != nil {
			return serverError(errors.INSERT_CONTACTS, "Failed to encode extra fields", err)
		}
		var mergedFromId interface{}
		if contact.MergedFromId != "" {
			mergedFromId = contact.MergedFromId
		}
		_, err = s.exec.ExecuteStatement(ctx, query,
			contact.Id, contact.FirstName, contact.LastName, contact.Email, contact.WorkEmail, contact.Phone,
			contact.Mobile, contact.WorkPhone, contact.Company, contact.JobTitle, contact.Notes, contact.SourceFile,
			extra, mergedFromId, contact.CreatedAt, contact.UpdatedAt)
		if err != nil {
			errorMsg := fmt.Sprintf("Failed to insert contact: %s", contact.Id)
			return serverError(errors.INSERT_CONTACTS, errorMsg, err)
		}
	}
	return nil
}

// UpdateContact overwrites every field of an active contact.
func (s *ContactStore) UpdateContact(ctx context.Context, contact model.Contact) error {

	query, err := s.query("UpdateContact", scripts.UpdateContact)
	if err != nil {
		return err
	}
	extra, err := marshalJSON(contact.ExtraFields, "{}")
	if err != nil {
		return serverError(errors.UPDATE_CONTACT, "Failed to encode extra fields", err)
	}
	affected, err := s.exec.ExecuteStatement(ctx, query,
		contact.FirstName, contact.LastName, contact.Email, contact.WorkEmail, contact.Phone, contact.Mobile,
		contact.WorkPhone, contact.Company, contact.JobTitle, contact.Notes, contact.SourceFile, extra,
		contact.UpdatedAt, contact.Id)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to update contact: %s", contact.Id)
		return serverError(errors.UPDATE_CONTACT, errorMsg, err)
	}
	if affected == 0 {
		return errors.NewNotFoundError(errors.CONTACT_NOT_FOUND,
			fmt.Sprintf("No active contact found for id %s.", contact.Id))
	}
	return nil
}

// ArchiveContact marks an active contact as absorbed by survivorId.
func (s *ContactStore) ArchiveContact(ctx context.Context, contactId, survivorId string, archivedAt int64) error {

	query, err := s.query("ArchiveContact", scripts.ArchiveContact)
	if err != nil {
		return err
	}
	affected, err := s.exec.ExecuteStatement(ctx, query, survivorId, archivedAt, contactId)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to archive contact: %s", contactId)
		return serverError(errors.ARCHIVE_CONTACT, errorMsg, err)
	}
	if affected == 0 {
		return errors.NewNotFoundError(errors.CONTACT_NOT_FOUND,
			fmt.Sprintf("No active contact found for id %s.", contactId))
	}
	return nil
}

func (s *ContactStore) AppendMergeRecord(ctx context.Context, record model.MergeRecord) error {

	query, err := s.query("InsertMergeRecord", scripts.InsertMergeRecord)
	if err != nil {
		return err
	}
	mergedFields, err := marshalJSON(record.MergedFields, "{}")
	if err != nil {
		return serverError(errors.ADD_MERGE_RECORD, "Failed to encode merged fields", err)
	}
	primarySnapshot, err := json.Marshal(record.PrimarySnapshot)
	if err != nil {
		return serverError(errors.ADD_MERGE_RECORD, "Failed to encode primary snapshot", err)
	}
	secondarySnapshot, err := json.Marshal(record.SecondarySnapshot)
	if err != nil {
		return serverError(errors.ADD_MERGE_RECORD, "Failed to encode secondary snapshot", err)
	}
	_, err = s.exec.ExecuteStatement(ctx, query, record.Id, record.PrimaryId, record.SecondaryId, record.ResultId,
		mergedFields, string(primarySnapshot), string(secondarySnapshot), record.MergedAt)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to record merge of %s into %s", record.SecondaryId, record.PrimaryId)
		return serverError(errors.ADD_MERGE_RECORD, errorMsg, err)
	}
	return nil
}

// GetMergeHistory returns the merges the contact took part in, newest first.
func (s *ContactStore) GetMergeHistory(ctx context.Context, contactId string) ([]model.MergeRecord, error) {

	query, err := s.query("GetMergeHistory", scripts.GetMergeHistory)
	if err != nil {
		return nil, err
	}
	rows, err := s.exec.ExecuteQuery(ctx, query, contactId, contactId, contactId)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to fetch merge history of contact: %s", contactId)
		return nil, serverError(errors.FETCH_MERGE_HISTORY, errorMsg, err)
	}

	records := make([]model.MergeRecord, 0, len(rows))
	for _, row := range rows {
		record := model.MergeRecord{
			Id:          asString(row["record_id"]),
			PrimaryId:   asString(row["primary_id"]),
			SecondaryId: asString(row["secondary_id"]),
			ResultId:    asString(row["result_id"]),
			MergedAt:    asInt64(row["merged_at"]),
		}
		if err := unmarshalColumn(row, "merged_fields", &record.MergedFields); err != nil {
			return nil, err
		}
		if err := unmarshalColumn(row, "primary_snapshot", &record.PrimarySnapshot); err != nil {
			return nil, err
		}
		if err := unmarshalColumn(row, "secondary_snapshot", &record.SecondarySnapshot); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// LockContacts serializes concurrent transactions touching the same contacts. It must be called
// inside WithTransaction.
func (s *ContactStore) LockContacts(ctx context.Context, contactIds ...string) error {

	return lock.AcquireTransactionLocks(ctx, s.exec, contactIds...)
}

func (s *ContactStore) WithTransaction(ctx context.Context, fn func(repo ContactRepository) error) (err error) {

	if s.inTx {
		return fn(s)
	}

	logger := log.GetLogger()
	tx, err := s.dbClient.BeginTx(ctx)
	if err != nil {
		return serverError(errors.TRANSACTION_FAILED, "Failed to begin transaction", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err = fn(&ContactStore{dbClient: s.dbClient, exec: tx, inTx: true}); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			logger.Error("Failed to roll back transaction", log.Error(rollbackErr))
		}
		return err
	}
	if err = tx.Commit(); err != nil {
		return serverError(errors.TRANSACTION_FAILED, "Failed to commit transaction", err)
	}
	return nil
}

// IsDismissed reports whether the pair was dismissed in either order.
func (s *ContactStore) IsDismissed(ctx context.Context, contactId1, contactId2 string) (bool, error) {

	query, err := s.query("IsPairDismissed", scripts.IsPairDismissed)
	if err != nil {
		return false, err
	}
	first, second := model.OrderedPair(contactId1, contactId2)
	rows, err := s.exec.ExecuteQuery(ctx, query, first, second)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to check dismissal of %s and %s", first, second)
		return false, serverError(errors.FETCH_DISMISSALS, errorMsg, err)
	}
	return len(rows) > 0, nil
}

func (s *ContactStore) Dismiss(ctx context.Context, pair model.DismissedPair) error {

	query, err := s.query("InsertDismissedPair", scripts.InsertDismissedPair)
	if err != nil {
		return err
	}
	first, second := model.OrderedPair(pair.Contact1Id, pair.Contact2Id)
	_, err = s.exec.ExecuteStatement(ctx, query, first, second, pair.Reason, pair.DismissedAt)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to dismiss pair %s and %s", first, second)
		return serverError(errors.DISMISS_PAIR, errorMsg, err)
	}
	return nil
}

func (s *ContactStore) GetDismissedPairs(ctx context.Context) ([]model.DismissedPair, error) {

	query, err := s.query("GetDismissedPairs", scripts.GetDismissedPairs)
	if err != nil {
		return nil, err
	}
	rows, err := s.exec.ExecuteQuery(ctx, query)
	if err != nil {
		return nil, serverError(errors.FETCH_DISMISSALS, "Failed to fetch dismissed pairs", err)
	}
	pairs := make([]model.DismissedPair, 0, len(rows))
	for _, row := range rows {
		pairs = append(pairs, model.DismissedPair{
			Contact1Id:  asString(row["contact1_id"]),
			Contact2Id:  asString(row["contact2_id"]),
			Reason:      asString(row["reason"]),
			DismissedAt: asInt64(row["dismissed_at"]),
		})
	}
	return pairs, nil
}

func mapContacts(rows []map[string]interface{}) ([]model.Contact, error) {

	contacts := make([]model.Contact, 0, len(rows))
	for _, row := range rows {
		contact, err := mapContact(row)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, contact)
	}
	return contacts, nil
}

func mapContact(row map[string]interface{}) (model.Contact, error) {

	contact := model.Contact{
		Id:           asString(row["contact_id"]),
		FirstName:    asString(row["first_name"]),
		LastName:     asString(row["last_name"]),
		Email:        asString(row["email"]),
		WorkEmail:    asString(row["work_email"]),
		Phone:        asString(row["phone"]),
		Mobile:       asString(row["mobile"]),
		WorkPhone:    asString(row["work_phone"]),
		Company:      asString(row["company"]),
		JobTitle:     asString(row["job_title"]),
		Notes:        asString(row["notes"]),
		SourceFile:   asString(row["source_file"]),
		MergedFromId: asString(row["merged_from_id"]),
		CreatedAt:    asInt64(row["created_at"]),
		UpdatedAt:    asInt64(row["updated_at"]),
	}
	if err := unmarshalColumn(row, "extra_fields", &contact.ExtraFields); err != nil {
		return contact, err
	}
	if len(contact.ExtraFields) == 0 {
		contact.ExtraFields = nil
	}
	return contact, nil
}

func unmarshalColumn(row map[string]interface{}, column string, target interface{}) error {

	raw := asString(row[column])
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), target); err != nil {
		errorMsg := fmt.Sprintf("Failed to decode column %s", column)
		return serverError(errors.PARSING_ERROR, errorMsg, err)
	}
	return nil
}

func marshalJSON(value map[string]string, empty string) (string, error) {

	if len(value) == 0 {
		return empty, nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func asString(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func asInt64(value interface{}) int64 {
	switch v := value.(type) {
	case int64:
		return v
	case int32:
		return int64(v)
	case int:
		return int64(v)
	case float64:
		return int64(v)
	case []byte:
		n, _ := strconv.ParseInt(string(v), 10, 64)
		return n
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	}
	return 0
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}
