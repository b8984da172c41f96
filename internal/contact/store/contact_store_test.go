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
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wso2/identity-contact-service/internal/contact/model"
	"github.com/wso2/identity-contact-service/internal/system/config"
	"github.com/wso2/identity-contact-service/internal/system/database/provider"
	"github.com/wso2/identity-contact-service/internal/system/database/scripts"
	"github.com/wso2/identity-contact-service/internal/system/errors"
	"github.com/wso2/identity-contact-service/internal/system/log"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	m.Run()
}

func newTestStore(t *testing.T) *ContactStore {

	dbClient, err := provider.Open(config.DataSourceConfig{Type: scripts.SQLite, Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = dbClient.Close() })
	return NewContactStore(dbClient)
}

func seed(t *testing.T, s *ContactStore, contacts ...model.Contact) {
	require.NoError(t, s.InsertContacts(context.Background(), contacts))
}

func TestContactStore_InsertAndGet(t *testing.T) {

	s := newTestStore(t)
	ctx := context.Background()
	seed(t, s,
		model.Contact{Id: "c1", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
			ExtraFields: map[string]string{"Website": "ada.dev"}, CreatedAt: 1, UpdatedAt: 1},
		model.Contact{Id: "c2", FirstName: "Grace", SourceFile: "work.csv", CreatedAt: 2, UpdatedAt: 2},
	)

	contact, err := s.GetContactById(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, contact)
	assert.Equal(t, "Lovelace", contact.LastName)
	assert.Equal(t, "ada.dev", contact.ExtraFields["Website"])
	assert.Equal(t, int64(1), contact.CreatedAt)

	missing, err := s.GetContactById(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	active, err := s.GetActiveContacts(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "c1", active[0].Id)
	assert.Equal(t, "c2", active[1].Id)
	assert.Nil(t, active[1].ExtraFields)
}

func TestContactStore_Search(t *testing.T) {

	s := newTestStore(t)
	seed(t, s,
		model.Contact{Id: "c1", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
		model.Contact{Id: "c2", FirstName: "Grace", LastName: "Hopper", Email: "grace@navy.mil"},
		model.Contact{Id: "c3", FirstName: "100%", LastName: "Literal"},
	)

	found, err := s.SearchActiveContacts(context.Background(), "HOP")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "c2", found[0].Id)

	found, err = s.SearchActiveContacts(context.Background(), "example.com")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "c1", found[0].Id)

	found, err = s.SearchActiveContacts(context.Background(), "0%")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "c3", found[0].Id)

	found, err = s.SearchActiveContacts(context.Background(), "  ")
	require.NoError(t, err)
	assert.Len(t, found, 3)
}

func TestContactStore_ArchiveExcludesFromActive(t *testing.T) {

	s := newTestStore(t)
	ctx := context.Background()
	seed(t, s, model.Contact{Id: "c1", FirstName: "Ada"}, model.Contact{Id: "c2", FirstName: "Ada"})

	require.NoError(t, s.ArchiveContact(ctx, "c2", "c1", 10))

	active, err := s.GetActiveContacts(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "c1", active[0].Id)

	archived, err := s.GetContactById(ctx, "c2")
	require.NoError(t, err)
	require.NotNil(t, archived)
	assert.Equal(t, "c1", archived.MergedFromId)
	assert.True(t, archived.IsArchived())

	err = s.ArchiveContact(ctx, "c2", "c1", 11)
	assert.True(t, errors.HasCode(err, errors.CONTACT_NOT_FOUND))
}

func TestContactStore_UpdateContact(t *testing.T) {

	s := newTestStore(t)
	ctx := context.Background()
	seed(t, s, model.Contact{Id: "c1", FirstName: "Ada"})

	require.NoError(t, s.UpdateContact(ctx, model.Contact{Id: "c1", FirstName: "Augusta", Notes: "a\nb", UpdatedAt: 5}))

	contact, err := s.GetContactById(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Augusta", contact.FirstName)
	assert.Equal(t, "a\nb", contact.Notes)
	assert.Equal(t, int64(5), contact.UpdatedAt)

	err = s.UpdateContact(ctx, model.Contact{Id: "missing"})
	assert.True(t, errors.HasCode(err, errors.CONTACT_NOT_FOUND))
}

func TestContactStore_MergeHistory(t *testing.T) {

	s := newTestStore(t)
	ctx := context.Background()
	seed(t, s, model.Contact{Id: "c1"}, model.Contact{Id: "c2"}, model.Contact{Id: "c3"})

	first := model.MergeRecord{
		Id: "m1", PrimaryId: "c1", SecondaryId: "c2", ResultId: "c1", MergedAt: 100,
		MergedFields:      map[string]string{"email": "a@x.com"},
		PrimarySnapshot:   model.Contact{Id: "c1", Email: "a@x.com"},
		SecondarySnapshot: model.Contact{Id: "c2", Phone: "555"},
	}
	second := model.MergeRecord{Id: "m2", PrimaryId: "c1", SecondaryId: "c3", ResultId: "c1", MergedAt: 200}
	require.NoError(t, s.AppendMergeRecord(ctx, first))
	require.NoError(t, s.AppendMergeRecord(ctx, second))

	history, err := s.GetMergeHistory(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "m2", history[0].Id)
	assert.Equal(t, first, history[1])

	history, err = s.GetMergeHistory(ctx, "c2")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "m1", history[0].Id)
}

func TestContactStore_DismissIsIdempotentAndSymmetric(t *testing.T) {

	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Dismiss(ctx, model.NewDismissedPair("c2", "c1", "different people", 1)))
	require.NoError(t, s.Dismiss(ctx, model.DismissedPair{Contact1Id: "c1", Contact2Id: "c2", DismissedAt: 2}))

	dismissed, err := s.IsDismissed(ctx, "c2", "c1")
	require.NoError(t, err)
	assert.True(t, dismissed)
	dismissed, err = s.IsDismissed(ctx, "c1", "c2")
	require.NoError(t, err)
	assert.True(t, dismissed)
	dismissed, err = s.IsDismissed(ctx, "c1", "c3")
	require.NoError(t, err)
	assert.False(t, dismissed)

	pairs, err := s.GetDismissedPairs(ctx)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "different people", pairs[0].Reason)
}

func TestContactStore_WithTransactionRollsBack(t *testing.T) {

	s := newTestStore(t)
	ctx := context.Background()
	seed(t, s, model.Contact{Id: "c1", FirstName: "Ada"}, model.Contact{Id: "c2", FirstName: "Ada"})

	err := s.WithTransaction(ctx, func(repo ContactRepository) error {
		if err := repo.LockContacts(ctx, "c1", "c2"); err != nil {
			return err
		}
		if err := repo.UpdateContact(ctx, model.Contact{Id: "c1", FirstName: "Changed"}); err != nil {
			return err
		}
		if err := repo.ArchiveContact(ctx, "c2", "c1", 3); err != nil {
			return err
		}
		return fmt.Errorf("injected failure")
	})
	require.EqualError(t, err, "injected failure")

	contact, err := s.GetContactById(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", contact.FirstName)
	active, err := s.GetActiveContacts(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestContactStore_WithTransactionCommits(t *testing.T) {

	s := newTestStore(t)
	ctx := context.Background()

	err := s.WithTransaction(ctx, func(repo ContactRepository) error {
		return repo.WithTransaction(ctx, func(nested ContactRepository) error {
			return nested.InsertContacts(ctx, []model.Contact{{Id: "c1"}, {Id: "c2"}})
		})
	})
	require.NoError(t, err)

	active, err := s.GetActiveContacts(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 2)
}
