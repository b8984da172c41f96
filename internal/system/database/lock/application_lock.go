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

package lock

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"
	"sync"

	"github.com/wso2/identity-contact-service/internal/system/database/client"
	"github.com/wso2/identity-contact-service/internal/system/database/scripts"
	"github.com/wso2/identity-contact-service/internal/system/errors"
	"github.com/wso2/identity-contact-service/internal/system/log"
)

// KeyedLock serializes work on string keys within the process. Keys are always acquired in sorted
// order so two callers locking overlapping key sets cannot deadlock.
type KeyedLock struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

func NewKeyedLock() *KeyedLock {
	return &KeyedLock{locks: make(map[string]*keyLock)}
}

// Lock blocks until every key is held and returns the function that releases them.
func (k *KeyedLock) Lock(keys ...string) (unlock func()) {

	ordered := sortedUnique(keys)
	held := make([]*keyLock, 0, len(ordered))

	for _, key := range ordered {
		k.mu.Lock()
		l, ok := k.locks[key]
		if !ok {
			l = &keyLock{}
			k.locks[key] = l
		}
		l.refs++
		k.mu.Unlock()

		l.mu.Lock()
		held = append(held, l)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].mu.Unlock()
			k.mu.Lock()
			held[i].refs--
			if held[i].refs == 0 {
				delete(k.locks, ordered[i])
			}
			k.mu.Unlock()
		}
	}
}

// AcquireTransactionLocks takes a PostgreSQL advisory lock per key inside the given transaction.
// The locks are released by the database when the transaction ends. For SQLite the call is a no-op
// since its single connection already serializes writers.
func AcquireTransactionLocks(ctx context.Context, tx client.Executor, keys ...string) error {

	query, ok := scripts.AdvisoryXactLock[tx.DBType()]
	if !ok {
		return nil
	}

	logger := log.GetLogger()
	for _, key := range sortedUnique(keys) {
		lockID, err := generateLockKey(key)
		if err != nil {
			return err
		}
		if _, err := tx.ExecuteStatement(ctx, query, lockID); err != nil {
			errorMsg := fmt.Sprintf("Failed to acquire advisory lock for key: %s", key)
			logger.Debug(errorMsg, log.Error(err))
			return errors.NewServerError(errors.ErrorMessage{
				Code:        errors.LOCK_ACQUIRE.Code,
				Message:     errors.LOCK_ACQUIRE.Message,
				Description: errorMsg,
			}, err)
		}
		logger.Debug(fmt.Sprintf("Advisory lock %d acquired for key: %s", lockID, key))
	}
	return nil
}

// PostgreSQL advisory locks use bigint or two integers. We'll use a single bigint.
func generateLockKey(key string) (int64, error) {

	h := fnv.New64a()
	_, err := h.Write([]byte(key))
	if err != nil {
		errorMsg := fmt.Sprintf("failed to hash lock key '%s'", key)
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return 0, errors.NewServerError(errors.ErrorMessage{
			Code:        errors.LOCK_KEY_GEN.Code,
			Message:     errors.LOCK_KEY_GEN.Message,
			Description: errorMsg,
		}, err)
	}
	return int64(h.Sum64()), nil
}

func sortedUnique(keys []string) []string {

	seen := make(map[string]struct{}, len(keys))
	ordered := make([]string, 0, len(keys))
	for _, key := range keys {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		ordered = append(ordered, key)
	}
	sort.Strings(ordered)
	return ordered
}
