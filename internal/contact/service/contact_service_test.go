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
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wso2/identity-contact-service/internal/contact/model"
	"github.com/wso2/identity-contact-service/internal/contact/store"
	"github.com/wso2/identity-contact-service/internal/system/config"
	"github.com/wso2/identity-contact-service/internal/system/database/provider"
	"github.com/wso2/identity-contact-service/internal/system/database/scripts"
	"github.com/wso2/identity-contact-service/internal/system/errors"
	"github.com/wso2/identity-contact-service/internal/system/log"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	os.Exit(m.Run())
}

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, chunkSize int) (*ContactService, *store.ContactStore) {

	dbClient, err := provider.Open(config.DataSourceConfig{Type: scripts.SQLite, Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbClient.Close() })

	contactStore := store.NewContactStore(dbClient)
	svc := NewContactService(contactStore, contactStore, chunkSize)
	svc.now = func() time.Time { return fixedNow }
	return svc, contactStore
}

func seedContacts(t *testing.T, s *store.ContactStore, contacts ...model.Contact) {
	require.NoError(t, s.InsertContacts(context.Background(), contacts))
}

// failingAuditRepo fails every merge record write inside a transaction.
type failingAuditRepo struct {
	store.ContactRepository
}

func (f failingAuditRepo) WithTransaction(ctx context.Context, fn func(repo store.ContactRepository) error) error {
	return f.ContactRepository.WithTransaction(ctx, func(repo store.ContactRepository) error {
		return fn(failingAuditRepo{repo})
	})
}

func (f failingAuditRepo) AppendMergeRecord(context.Context, model.MergeRecord) error {
	return fmt.Errorf("audit table unavailable")
}

func TestFindDuplicates_GroupsAndDismissals(t *testing.T) {

	svc, s := newTestService(t, 0)
	ctx := context.Background()
	seedContacts(t, s,
		model.Contact{Id: "c1", FirstName: "John", LastName: "Doe", Email: "jd@x.com"},
		model.Contact{Id: "c2", FirstName: "Jon", LastName: "Doe", Email: "JD@X.com"},
		model.Contact{Id: "c3", FirstName: "Alice", LastName: "Smith", Email: "alice@x.com"},
	)

	result, err := svc.FindDuplicates(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, result.Count)
	assert.Equal(t, "c1", result.Groups[0].Primary.Id)
	require.Len(t, result.Groups[0].Matches, 1)
	assert.Equal(t, "c2", result.Groups[0].Matches[0].Contact.Id)

	pair, err := svc.DismissMatch(ctx, "c2", "c1", "different people")
	require.NoError(t, err)
	assert.Equal(t, "c1", pair.Contact1Id)
	assert.Equal(t, fixedNow.UnixMilli(), pair.DismissedAt)

	_, err = svc.DismissMatch(ctx, "c1", "c2", "")
	require.NoError(t, err)

	result, err = svc.FindDuplicates(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Count)
	assert.NotNil(t, result.Groups)
}

func TestDismissMatch_Validation(t *testing.T) {

	svc, s := newTestService(t, 0)
	seedContacts(t, s, model.Contact{Id: "c1"})

	_, err := svc.DismissMatch(context.Background(), "c1", "", "")
	assert.True(t, errors.HasCode(err, errors.INVALID_DISMISS_REQUEST))

	_, err = svc.DismissMatch(context.Background(), "c1", "c1", "")
	assert.True(t, errors.HasCode(err, errors.INVALID_DISMISS_REQUEST))

	_, err = svc.DismissMatch(context.Background(), "c1", "missing", "")
	assert.True(t, errors.HasCode(err, errors.CONTACT_NOT_FOUND))
}

func TestDismissMatch_RejectsArchivedContact(t *testing.T) {

	svc, s := newTestService(t, 0)
	ctx := context.Background()
	seedContacts(t, s,
		model.Contact{Id: "a", FirstName: "Ada", Email: "ada@x.com"},
		model.Contact{Id: "b", FirstName: "Ada", Email: "ada@x.com"},
		model.Contact{Id: "c", FirstName: "Grace", Email: "grace@x.com"},
	)
	_, err := svc.MergeContacts(ctx, model.MergeRequest{PrimaryId: "a", SecondaryId: "b"})
	require.NoError(t, err)

	pair, err := svc.DismissMatch(ctx, "b", "c", "")
	assert.Nil(t, pair)
	assert.True(t, errors.HasCode(err, errors.CONTACT_NOT_FOUND))

	_, err = svc.DismissMatch(ctx, "c", "b", "")
	assert.True(t, errors.HasCode(err, errors.CONTACT_NOT_FOUND))

	pairs, err := s.GetDismissedPairs(ctx)
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

// countingDismissals counts the writes that reach the dismissal store.
type countingDismissals struct {
	store.DismissalStore
	writes int
}

func (c *countingDismissals) Dismiss(ctx context.Context, pair model.DismissedPair) error {
	c.writes++
	return c.DismissalStore.Dismiss(ctx, pair)
}

func TestDismissMatch_SkipsPairAlreadyDismissed(t *testing.T) {

	svc, s := newTestService(t, 0)
	ctx := context.Background()
	seedContacts(t, s, model.Contact{Id: "c1"}, model.Contact{Id: "c2"})
	dismissals := &countingDismissals{DismissalStore: s}
	svc.dismissals = dismissals

	_, err := svc.DismissMatch(ctx, "c1", "c2", "different people")
	require.NoError(t, err)
	pair, err := svc.DismissMatch(ctx, "c2", "c1", "changed my mind")
	require.NoError(t, err)

	assert.Equal(t, 1, dismissals.writes)
	assert.Equal(t, "c1", pair.Contact1Id)
	pairs, err := s.GetDismissedPairs(ctx)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "different people", pairs[0].Reason)
}

func TestMergeContacts_MergesAndArchives(t *testing.T) {

	svc, s := newTestService(t, 0)
	ctx := context.Background()
	seedContacts(t, s,
		model.Contact{Id: "c1", FirstName: "John", LastName: "Doe", Email: "jd@x.com", CreatedAt: 1},
		model.Contact{Id: "c2", FirstName: "Jon", LastName: "Doe", Email: "jd@x.com", Phone: "555-1234",
			Company: "Acme", CreatedAt: 2},
	)

	response, err := svc.MergeContacts(ctx, model.MergeRequest{PrimaryId: "c1", SecondaryId: "c2"})
	require.NoError(t, err)
	assert.Equal(t, "c1", response.MergedContact.Id)
	assert.Equal(t, "John", response.MergedContact.FirstName)
	assert.Equal(t, "555-1234", response.MergedContact.Phone)
	assert.Equal(t, "Acme", response.MergedContact.Company)
	assert.Equal(t, fixedNow.UnixMilli(), response.MergeRecord.MergedAt)

	active, err := svc.ListContacts(ctx, "")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "555-1234", active[0].Phone)

	archived, err := svc.GetContact(ctx, "c2")
	require.NoError(t, err)
	assert.Equal(t, "c1", archived.MergedFromId)

	history, err := svc.GetMergeHistory(ctx, "c2")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, response.MergeRecord.Id, history[0].Id)
	assert.Equal(t, "Jon", history[0].SecondarySnapshot.FirstName)

	_, err = svc.MergeContacts(ctx, model.MergeRequest{PrimaryId: "c1", SecondaryId: "c2"})
	assert.True(t, errors.HasCode(err, errors.CONTACT_NOT_FOUND))
}

func TestMergeContacts_ManualSelection(t *testing.T) {

	svc, s := newTestService(t, 0)
	seedContacts(t, s,
		model.Contact{Id: "c1", FirstName: "John", Company: "Acme"},
		model.Contact{Id: "c2", FirstName: "Johnny", Company: "Globex"},
	)

	response, err := svc.MergeContacts(context.Background(), model.MergeRequest{
		PrimaryId:    "c1",
		SecondaryId:  "c2",
		MergedFields: map[string]string{"title": "CTO"},
		FieldSources: map[string]string{"first_name": "secondary", "company": "PRIMARY"},
	})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.INVALID_FIELD_SELECTION), "title is absent in both contacts")

	response, err = svc.MergeContacts(context.Background(), model.MergeRequest{
		PrimaryId:    "c1",
		SecondaryId:  "c2",
		FieldSources: map[string]string{"first_name": "secondary", "company": "PRIMARY"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Johnny", response.MergedContact.FirstName)
	assert.Equal(t, "Acme", response.MergedContact.Company)
}

func TestMergeContacts_Validation(t *testing.T) {

	svc, s := newTestService(t, 0)
	seedContacts(t, s, model.Contact{Id: "c1"}, model.Contact{Id: "c2"})
	ctx := context.Background()

	_, err := svc.MergeContacts(ctx, model.MergeRequest{PrimaryId: "c1"})
	assert.True(t, errors.HasCode(err, errors.INVALID_MERGE_REQUEST))

	_, err = svc.MergeContacts(ctx, model.MergeRequest{PrimaryId: "c1", SecondaryId: "c1"})
	assert.True(t, errors.HasCode(err, errors.INVALID_MERGE_REQUEST))

	_, err = svc.MergeContacts(ctx, model.MergeRequest{PrimaryId: "c1", SecondaryId: "nope"})
	assert.True(t, errors.HasCode(err, errors.CONTACT_NOT_FOUND))

	_, err = svc.MergeContacts(ctx, model.MergeRequest{PrimaryId: "c1", SecondaryId: "c2", Strategy: "random"})
	assert.True(t, errors.HasCode(err, errors.INVALID_MERGE_REQUEST))

	_, err = svc.MergeContacts(ctx, model.MergeRequest{PrimaryId: "c1", SecondaryId: "c2",
		FieldSources: map[string]string{"email": "both"}})
	assert.True(t, errors.HasCode(err, errors.INVALID_FIELD_SELECTION))
}

func TestMergeContacts_RollsBackWhenMergeRecordFails(t *testing.T) {

	svc, s := newTestService(t, 0)
	ctx := context.Background()
	seedContacts(t, s,
		model.Contact{Id: "c1", FirstName: "John", Email: "jd@x.com"},
		model.Contact{Id: "c2", FirstName: "John", Phone: "555"},
	)
	svc.repo = failingAuditRepo{s}

	_, err := svc.MergeContacts(ctx, model.MergeRequest{PrimaryId: "c1", SecondaryId: "c2"})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.MERGE_TRANSACTION))
	assert.ErrorContains(t, err, "audit table unavailable")

	primary, err := s.GetContactById(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, primary.Phone)
	secondary, err := s.GetContactById(ctx, "c2")
	require.NoError(t, err)
	assert.False(t, secondary.IsArchived())
	history, err := s.GetMergeHistory(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestMergeContacts_ConcurrentMergesOfSameSecondary(t *testing.T) {

	svc, s := newTestService(t, 0)
	seedContacts(t, s, model.Contact{Id: "c1"}, model.Contact{Id: "c2"}, model.Contact{Id: "c3"})

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, primaryId := range []string{"c1", "c3"} {
		wg.Add(1)
		go func(i int, primaryId string) {
			defer wg.Done()
			_, errs[i] = svc.MergeContacts(context.Background(),
				model.MergeRequest{PrimaryId: primaryId, SecondaryId: "c2"})
		}(i, primaryId)
	}
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if err != nil {
			failures++
			assert.True(t, errors.HasCode(err, errors.CONTACT_NOT_FOUND))
		}
	}
	assert.Equal(t, 1, failures)

	active, err := svc.ListContacts(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestImportContacts_ChunksAndProgress(t *testing.T) {

	svc, _ := newTestService(t, 2)
	contacts := []model.Contact{{FirstName: "A"}, {FirstName: "B"}, {FirstName: "C"}, {FirstName: "D"}, {FirstName: "E"}}

	var progress []int
	imported, err := svc.ImportContacts(context.Background(), contacts, func(processed int) {
		progress = append(progress, processed)
	})
	require.NoError(t, err)
	assert.Equal(t, 5, imported)
	assert.Equal(t, []int{2, 4, 5}, progress)

	stored, err := svc.ListContacts(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, stored, 5)
	for _, contact := range stored {
		assert.NotEmpty(t, contact.Id)
		assert.Equal(t, fixedNow.UnixMilli(), contact.CreatedAt)
	}
}

func TestImportContacts_StopsWhenCancelled(t *testing.T) {

	svc, _ := newTestService(t, 1)
	ctx, cancel := context.WithCancel(context.Background())
	contacts := []model.Contact{{FirstName: "A"}, {FirstName: "B"}, {FirstName: "C"}}

	imported, err := svc.ImportContacts(ctx, contacts, func(processed int) {
		if processed == 1 {
			cancel()
		}
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, imported)

	stored, err := svc.ListContacts(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestListContacts_Search(t *testing.T) {

	svc, s := newTestService(t, 0)
	seedContacts(t, s,
		model.Contact{Id: "c1", FirstName: "Ada", Email: "ada@example.com"},
		model.Contact{Id: "c2", FirstName: "Grace"},
	)

	found, err := svc.ListContacts(context.Background(), "grace")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "c2", found[0].Id)

	_, err = svc.GetContact(context.Background(), "missing")
	assert.True(t, errors.HasCode(err, errors.CONTACT_NOT_FOUND))
}

func TestBuildSelection(t *testing.T) {

	selection, err := BuildSelection(nil, nil)
	require.NoError(t, err)
	assert.Nil(t, selection)

	_, err = BuildSelection(map[string]string{"email": "a@x.com"}, map[string]string{"email": "primary"})
	assert.True(t, errors.HasCode(err, errors.INVALID_FIELD_SELECTION))
}
