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

package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/wso2/identity-contact-service/internal/contact/matching"
	"github.com/wso2/identity-contact-service/internal/contact/merge"
	"github.com/wso2/identity-contact-service/internal/contact/model"
	"github.com/wso2/identity-contact-service/internal/contact/store"
	"github.com/wso2/identity-contact-service/internal/system/config"
	"github.com/wso2/identity-contact-service/internal/system/database/lock"
	"github.com/wso2/identity-contact-service/internal/system/database/provider"
	"github.com/wso2/identity-contact-service/internal/system/errors"
	"github.com/wso2/identity-contact-service/internal/system/log"
)

const defaultChunkSize = 100

// ContactServiceInterface defines the operations on the contact store.
type ContactServiceInterface interface {
	ListContacts(ctx context.Context, search string) ([]model.Contact, error)
	GetContact(ctx context.Context, contactId string) (*model.Contact, error)
	FindDuplicates(ctx context.Context) (*matching.GroupingResult, error)
	DismissMatch(ctx context.Context, contactId1, contactId2, reason string) (*model.DismissedPair, error)
	MergeContacts(ctx context.Context, request model.MergeRequest) (*model.MergeResponse, error)
	GetMergeHistory(ctx context.Context, contactId string) ([]model.MergeRecord, error)
	ImportContacts(ctx context.Context, contacts []model.Contact, progress func(processed int)) (int, error)
}

// ContactService is the default implementation of ContactServiceInterface.
type ContactService struct {
	repo       store.ContactRepository
	dismissals store.DismissalStore
	locks      *lock.KeyedLock
	chunkSize  int
	now        func() time.Time
}

var (
	contactService     ContactServiceInterface
	contactServiceErr  error
	contactServiceOnce sync.Once
)

// NewContactService creates a service over the given stores. A chunk size below one falls back to the
// default import chunk size.
func NewContactService(repo store.ContactRepository, dismissals store.DismissalStore, chunkSize int) *ContactService {

	if chunkSize < 1 {
		chunkSize = defaultChunkSize
	}
	return &ContactService{
		repo:       repo,
		dismissals: dismissals,
		locks:      lock.NewKeyedLock(),
		chunkSize:  chunkSize,
		now:        time.Now,
	}
}

// GetContactService returns the process wide service backed by the configured database.
func GetContactService() (ContactServiceInterface, error) {

	contactServiceOnce.Do(func() {
		dbClient, err := provider.NewDBProvider().GetDBClient()
		if err != nil {
			contactServiceErr = err
			return
		}
		contactStore := store.NewContactStore(dbClient)
		contactService = NewContactService(contactStore, contactStore, config.GetRuntime().Config.Import.ChunkSize)
	})
	return contactService, contactServiceErr
}

// ListContacts returns active contacts. A non-empty search term filters on names and email.
func (cs *ContactService) ListContacts(ctx context.Context, search string) ([]model.Contact, error) {

	if strings.TrimSpace(search) == "" {
		return cs.repo.GetActiveContacts(ctx)
	}
	return cs.repo.SearchActiveContacts(ctx, search)
}

// GetContact returns a contact by id, including archived ones.
func (cs *ContactService) GetContact(ctx context.Context, contactId string) (*model.Contact, error) {

	contact, err := cs.repo.GetContactById(ctx, contactId)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, contactNotFound(contactId)
	}
	return contact, nil
}

// FindDuplicates scans the active contacts for duplicate groups, skipping dismissed pairs.
func (cs *ContactService) FindDuplicates(ctx context.Context) (*matching.GroupingResult, error) {

	contacts, err := cs.repo.GetActiveContacts(ctx)
	if err != nil {
		return nil, err
	}
	pairs, err := cs.dismissals.GetDismissedPairs(ctx)
	if err != nil {
		return nil, err
	}
	result := matching.FindDuplicateGroups(contacts, matching.NewPairSet(pairs))
	log.GetLogger().Debug("Duplicate scan finished",
		log.Int("contacts", len(contacts)),
		log.Int("dismissals", len(pairs)),
		log.Int("groups", result.Count))
	return &result, nil
}

// DismissMatch records that two active contacts are different people. Dismissing a pair twice is a
// no-op and leaves the first dismissal untouched.
func (cs *ContactService) DismissMatch(ctx context.Context, contactId1, contactId2,
	reason string) (*model.DismissedPair, error) {

	contactId1 = strings.TrimSpace(contactId1)
	contactId2 = strings.TrimSpace(contactId2)
	if contactId1 == "" || contactId2 == "" {
		return nil, errors.NewValidationError(errors.INVALID_DISMISS_REQUEST, "Both contact ids are required.")
	}
	if contactId1 == contactId2 {
		return nil, errors.NewValidationError(errors.INVALID_DISMISS_REQUEST,
			"A contact cannot be dismissed against itself.")
	}
	for _, contactId := range []string{contactId1, contactId2} {
		if _, err := loadActive(ctx, cs.repo, contactId); err != nil {
			return nil, err
		}
	}

	pair := model.NewDismissedPair(contactId1, contactId2, strings.TrimSpace(reason), cs.now().UnixMilli())
	dismissed, err := cs.dismissals.IsDismissed(ctx, contactId1, contactId2)
	if err != nil {
		return nil, err
	}
	if dismissed {
		log.GetLogger().Debug("Pair is already dismissed",
			log.String("contact1Id", pair.Contact1Id),
			log.String("contact2Id", pair.Contact2Id))
		return &pair, nil
	}
	if err := cs.dismissals.Dismiss(ctx, pair); err != nil {
		return nil, err
	}
	log.GetLogger().Info("Dismissed duplicate match",
		log.String("contact1Id", pair.Contact1Id),
		log.String("contact2Id", pair.Contact2Id))
	return &pair, nil
}

// MergeContacts merges the secondary contact into the primary. The update of the primary, the archive
// of the secondary and the merge record are written in one transaction.
func (cs *ContactService) MergeContacts(ctx context.Context, request model.MergeRequest) (*model.MergeResponse, error) {

	primaryId := strings.TrimSpace(request.PrimaryId)
	secondaryId := strings.TrimSpace(request.SecondaryId)
	if primaryId == "" || secondaryId == "" {
		return nil, errors.NewValidationError(errors.INVALID_MERGE_REQUEST,
			"Both primary_id and secondary_id are required.")
	}
	if primaryId == secondaryId {
		return nil, errors.NewValidationError(errors.INVALID_MERGE_REQUEST,
			"A contact cannot be merged with itself.")
	}
	strategy, err := merge.ParseStrategy(request.Strategy)
	if err != nil {
		return nil, err
	}
	selection, err := BuildSelection(request.MergedFields, request.FieldSources)
	if err != nil {
		return nil, err
	}

	unlock := cs.locks.Lock(primaryId, secondaryId)
	defer unlock()

	var result *merge.Result
	err = cs.repo.WithTransaction(ctx, func(repo store.ContactRepository) error {
		if err := repo.LockContacts(ctx, primaryId, secondaryId); err != nil {
			return err
		}
		primary, err := loadActive(ctx, repo, primaryId)
		if err != nil {
			return err
		}
		secondary, err := loadActive(ctx, repo, secondaryId)
		if err != nil {
			return err
		}

		result, err = merge.Resolve(*primary, *secondary, merge.Options{
			Strategy:  strategy,
			Selection: selection,
			Now:       cs.now,
		})
		if err != nil {
			return err
		}
		if err := repo.UpdateContact(ctx, result.Merged); err != nil {
			return err
		}
		if err := repo.ArchiveContact(ctx, secondaryId, primaryId, result.Record.MergedAt); err != nil {
			return err
		}
		return repo.AppendMergeRecord(ctx, result.Record)
	})
	if err != nil {
		if errors.IsClientError(err) {
			return nil, err
		}
		errorMsg := fmt.Sprintf("Merge of contact %s into %s was rolled back", secondaryId, primaryId)
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return nil, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.MERGE_TRANSACTION.Code,
			Message:     errors.MERGE_TRANSACTION.Message,
			Description: errorMsg,
		}, err)
	}

	log.GetLogger().Info("Merged contacts",
		log.String("primaryId", primaryId),
		log.String("secondaryId", secondaryId),
		log.String("mergeRecordId", result.Record.Id))
	return &model.MergeResponse{
		MergedContact: result.Merged,
		MergeRecord:   result.Record,
	}, nil
}

// GetMergeHistory returns the merges a contact took part in, newest first.
func (cs *ContactService) GetMergeHistory(ctx context.Context, contactId string) ([]model.MergeRecord, error) {

	if _, err := cs.GetContact(ctx, contactId); err != nil {
		return nil, err
	}
	return cs.repo.GetMergeHistory(ctx, contactId)
}

// ImportContacts stores the contacts in chunks, one transaction per chunk. Missing ids and timestamps
// are assigned. Cancelling ctx stops the import between chunks; chunks already written stay. The
// number of stored contacts is returned together with any error.
func (cs *ContactService) ImportContacts(ctx context.Context, contacts []model.Contact,
	progress func(processed int)) (int, error) {

	now := cs.now().UnixMilli()
	imported := 0
	for start := 0; start < len(contacts); start += cs.chunkSize {
		if err := ctx.Err(); err != nil {
			return imported, err
		}
		end := start + cs.chunkSize
		if end > len(contacts) {
			end = len(contacts)
		}
		chunk := make([]model.Contact, 0, end-start)
		for _, contact := range contacts[start:end] {
			chunk = append(chunk, prepareForInsert(contact, now))
		}

		err := cs.repo.WithTransaction(ctx, func(repo store.ContactRepository) error {
			return repo.InsertContacts(ctx, chunk)
		})
		if err != nil {
			return imported, err
		}
		imported += len(chunk)
		if progress != nil {
			progress(imported)
		}
	}
	log.GetLogger().Info("Imported contacts", log.Int("count", imported))
	return imported, nil
}

// BuildSelection turns the wire form of a manual field selection into resolver selections. A field
// may be given an explicit value or a source, not both.
func BuildSelection(mergedFields, fieldSources map[string]string) (map[string]merge.FieldSelection, error) {

	if len(mergedFields) == 0 && len(fieldSources) == 0 {
		return nil, nil
	}
	selection := make(map[string]merge.FieldSelection, len(mergedFields)+len(fieldSources))
	for field, value := range mergedFields {
		selection[field] = merge.FieldSelection{Source: merge.SourceValue, Value: value}
	}
	for field, source := range fieldSources {
		if _, exists := selection[field]; exists {
			return nil, errors.NewValidationError(errors.INVALID_FIELD_SELECTION,
				fmt.Sprintf("Field %q has both an explicit value and a source.", field))
		}
		switch merge.Source(strings.ToLower(strings.TrimSpace(source))) {
		case merge.SourcePrimary:
			selection[field] = merge.FieldSelection{Source: merge.SourcePrimary}
		case merge.SourceSecondary:
			selection[field] = merge.FieldSelection{Source: merge.SourceSecondary}
		default:
			return nil, errors.NewValidationError(errors.INVALID_FIELD_SELECTION,
				fmt.Sprintf("Source %q of field %q must be primary or secondary.", source, field))
		}
	}
	return selection, nil
}

func loadActive(ctx context.Context, repo store.ContactRepository, contactId string) (*model.Contact, error) {

	contact, err := repo.GetContactById(ctx, contactId)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, contactNotFound(contactId)
	}
	if contact.IsArchived() {
		return nil, errors.NewNotFoundError(errors.CONTACT_NOT_FOUND,
			fmt.Sprintf("Contact %s was already merged into %s.", contactId, contact.MergedFromId))
	}
	return contact, nil
}

func prepareForInsert(contact model.Contact, now int64) model.Contact {

	if contact.Id == "" {
		contact.Id = model.NewContactId()
	}
	if contact.CreatedAt == 0 {
		contact.CreatedAt = now
	}
	if contact.UpdatedAt == 0 {
		contact.UpdatedAt = contact.CreatedAt
	}
	contact.MergedFromId = ""
	return contact
}

func contactNotFound(contactId string) error {

	return errors.NewNotFoundError(errors.CONTACT_NOT_FOUND, fmt.Sprintf("No contact with id %s.", contactId))
}
