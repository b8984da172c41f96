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

package matching

import (
	"sort"

	"github.com/wso2/identity-contact-service/internal/contact/model"
)

// DismissalSet answers whether a pair of contacts was declared distinct. Lookups are order independent.
type DismissalSet interface {
	IsDismissed(id1, id2 string) bool
}

// PairSet is an in-memory DismissalSet.
type PairSet map[string]struct{}

// NewPairSet builds a PairSet from stored dismissals.
func NewPairSet(pairs []model.DismissedPair) PairSet {

	set := make(PairSet, len(pairs))
	for _, pair := range pairs {
		set.Add(pair.Contact1Id, pair.Contact2Id)
	}
	return set
}

// Add records the pair in either order.
func (s PairSet) Add(id1, id2 string) {
	s[model.PairKey(id1, id2)] = struct{}{}
}

func (s PairSet) IsDismissed(id1, id2 string) bool {
	_, ok := s[model.PairKey(id1, id2)]
	return ok
}

// GroupingResult is the outcome of a duplicate scan. Groups keep the scan order of their primaries.
type GroupingResult struct {
	Groups []model.DuplicateGroup
	Count  int
}

// FindDuplicateGroups scans contacts pairwise and groups likely duplicates under the earliest contact
// they match. A contact is a candidate in at most one group and a contact consumed as a candidate is
// never a primary. Archived contacts and dismissed pairs are skipped. The scan is O(n^2) in the number
// of contacts and has no side effects, so the same input always yields the same groups.
func FindDuplicateGroups(contacts []model.Contact, dismissals DismissalSet) GroupingResult {

	active := make([]model.Contact, 0, len(contacts))
	for _, contact := range contacts {
		if !contact.IsArchived() {
			active = append(active, contact)
		}
	}

	normalized := make([]NormalizedContact, len(active))
	for i, contact := range active {
		normalized[i] = Normalize(contact)
	}

	consumed := make([]bool, len(active))
	result := GroupingResult{Groups: []model.DuplicateGroup{}}

	for i := range active {
		if consumed[i] || normalized[i].IsEmpty() {
			continue
		}

		var matches []model.Match
		for j := i + 1; j < len(active); j++ {
			if consumed[j] || active[j].Id == active[i].Id {
				continue
			}
			if dismissals != nil && dismissals.IsDismissed(active[i].Id, active[j].Id) {
				continue
			}
			score := ScoreNormalized(normalized[i], normalized[j])
			if !score.IsMatch {
				continue
			}
			matches = append(matches, model.Match{Contact: active[j], Confidence: score.Confidence})
			consumed[j] = true
		}

		if len(matches) == 0 {
			continue
		}
		sort.SliceStable(matches, func(a, b int) bool {
			return matches[a].Confidence > matches[b].Confidence
		})
		result.Groups = append(result.Groups, model.DuplicateGroup{Primary: active[i], Matches: matches})
	}

	result.Count = len(result.Groups)
	return result
}
