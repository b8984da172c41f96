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

// MergeRequest is the wire form of a merge action. MergedFields holds explicit values per field and
// FieldSources picks "primary" or "secondary" per field. Both are optional.
type MergeRequest struct {
	PrimaryId    string            `json:"primary_id" validate:"required"`
	SecondaryId  string            `json:"secondary_id" validate:"required,nefield=PrimaryId"`
	MergedFields map[string]string `json:"merged_fields,omitempty"`
	FieldSources map[string]string `json:"field_sources,omitempty"`
	Strategy     string            `json:"strategy,omitempty"`
}

type MergeResponse struct {
	MergedContact Contact     `json:"merged_contact"`
	MergeRecord   MergeRecord `json:"merge_record"`
}

type DismissRequest struct {
	Contact1Id string `json:"contact1_id" validate:"required"`
	Contact2Id string `json:"contact2_id" validate:"required,nefield=Contact1Id"`
	Reason     string `json:"reason,omitempty" validate:"max=500"`
}

type DuplicatesResponse struct {
	Groups []DuplicateGroup `json:"groups"`
	Count  int              `json:"count"`
}

type ContactListResponse struct {
	Contacts   []Contact `json:"contacts"`
	Count      int       `json:"count"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

type ImportResponse struct {
	JobId  string `json:"job_id"`
	Status string `json:"status"`
}
