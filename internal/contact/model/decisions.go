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

package model

// DismissedPair records that two contacts are not the same person. Ids are stored with the lower id
// first so the pair is symmetric.
type DismissedPair struct {
	Contact1Id  string `json:"contact1_id"`
	Contact2Id  string `json:"contact2_id"`
	Reason      string `json:"reason,omitempty"`
	DismissedAt int64  `json:"dismissed_at"`
}

// NewDismissedPair builds a pair in canonical order.
func NewDismissedPair(id1, id2, reason string, dismissedAt int64) DismissedPair {

	first, second := OrderedPair(id1, id2)
	return DismissedPair{
		Contact1Id:  first,
		Contact2Id:  second,
		Reason:      reason,
		DismissedAt: dismissedAt,
	}
}

// OrderedPair returns the two ids with the lower one first.
func OrderedPair(id1, id2 string) (string, string) {
	if id2 < id1 {
		return id2, id1
	}
	return id1, id2
}

// PairKey is an order independent key for a pair of contact ids.
func PairKey(id1, id2 string) string {
	first, second := OrderedPair(id1, id2)
	return first + "\x00" + second
}

// MergeRecord is the immutable audit entry written once per executed merge.
type MergeRecord struct {
	Id                string            `json:"id"`
	PrimaryId         string            `json:"primary_id"`
	SecondaryId       string            `json:"secondary_id"`
	ResultId          string            `json:"result_id"`
	MergedFields      map[string]string `json:"merged_fields"`
	PrimarySnapshot   Contact           `json:"primary_snapshot"`
	SecondarySnapshot Contact           `json:"secondary_snapshot"`
	MergedAt          int64             `json:"merged_at"`
}

// Match is one candidate duplicate of a primary contact.
type Match struct {
	Contact    Contact `json:"contact"`
	Confidence float64 `json:"confidence"`
}

// DuplicateGroup is a primary contact with its candidates, highest confidence first.
type DuplicateGroup struct {
	Primary Contact `json:"primary"`
	Matches []Match `json:"matches"`
}
