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

package merge

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wso2/identity-contact-service/internal/contact/matching"
	"github.com/wso2/identity-contact-service/internal/contact/model"
	"github.com/wso2/identity-contact-service/internal/system/errors"
)

// Source tells the resolver where the value of a manually selected field comes from.
type Source string

const (
	SourcePrimary   Source = "primary"
	SourceSecondary Source = "secondary"
	SourceValue     Source = "value"
)

// Strategy decides which contact's values are preferred when no manual selection covers a field. The
// primary contact always survives regardless of strategy.
type Strategy string

const (
	KeepMostComplete Strategy = "keep_most_complete"
	KeepNewest       Strategy = "keep_newest"
	KeepOldest       Strategy = "keep_oldest"
)

// FieldSelection picks the value of one field.
type FieldSelection struct {
	Source Source
	Value  string
}

// Options configure a merge. The zero value merges with KeepMostComplete and no manual selection.
type Options struct {
	Strategy  Strategy
	Selection map[string]FieldSelection
	Now       func() time.Time
}

// Result is the surviving contact and the audit record of the merge.
type Result struct {
	Merged model.Contact
	Record model.MergeRecord
}

// ParseStrategy maps a wire value onto a Strategy. An empty value selects KeepMostComplete.
func ParseStrategy(value string) (Strategy, error) {

	switch Strategy(strings.ToLower(strings.TrimSpace(value))) {
	case "", KeepMostComplete:
		return KeepMostComplete, nil
	case KeepNewest:
		return KeepNewest, nil
	case KeepOldest:
		return KeepOldest, nil
	}
	return "", errors.NewValidationError(errors.INVALID_MERGE_REQUEST,
		fmt.Sprintf("Unknown merge strategy %q.", value))
}

// Resolve merges secondary into primary. The primary keeps its id and the secondary is expected to be
// archived by the caller. Values held by only one contact are never dropped: email and phone values
// that do not fit their field move to a free slot of the same kind, or to the notes when every slot is
// taken.
func Resolve(primary, secondary model.Contact, opts Options) (*Result, error) {

	if primary.Id == "" || secondary.Id == "" {
		return nil, errors.NewValidationError(errors.INVALID_MERGE_REQUEST,
			"Both primary and secondary contact ids are required.")
	}
	if primary.Id == secondary.Id {
		return nil, errors.NewValidationError(errors.INVALID_MERGE_REQUEST,
			"A contact cannot be merged with itself.")
	}
	if err := validateSelection(primary, secondary, opts.Selection); err != nil {
		return nil, err
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	preferred, fallback := order(primary, secondary, opts.Strategy)
	merged := primary.Clone()
	merged.ExtraFields = nil

	for _, field := range model.CanonicalFields {
		if field == model.FieldNotes {
			continue
		}
		merged.Set(field, pick(preferred.Get(field), fallback.Get(field)))
	}
	for _, field := range extraFieldUnion(primary, secondary) {
		merged.Set(field, pick(preferred.Get(field), fallback.Get(field)))
	}
	merged.Notes = joinNotes(primary.Notes, secondary.Notes)

	for _, field := range sortedKeys(opts.Selection) {
		selection := opts.Selection[field]
		switch selection.Source {
		case SourcePrimary:
			merged.Set(field, primary.Get(field))
		case SourceSecondary:
			merged.Set(field, secondary.Get(field))
		case SourceValue:
			merged.Set(field, strings.TrimSpace(selection.Value))
		}
	}

	reconcileSlots(&merged, model.EmailSlots, primary, secondary, matching.NormalizeEmail)
	reconcileSlots(&merged, model.PhoneSlots, primary, secondary, phoneKey)

	mergedAt := now().UnixMilli()
	merged.Id = primary.Id
	merged.MergedFromId = ""
	merged.CreatedAt = primary.CreatedAt
	merged.UpdatedAt = mergedAt

	record := model.MergeRecord{
		Id:                uuid.New().String(),
		PrimaryId:         primary.Id,
		SecondaryId:       secondary.Id,
		ResultId:          merged.Id,
		MergedFields:      merged.Fields(),
		PrimarySnapshot:   primary.Clone(),
		SecondarySnapshot: secondary.Clone(),
		MergedAt:          mergedAt,
	}
	return &Result{Merged: merged, Record: record}, nil
}

// validateSelection rejects selections on identity fields, unknown sources, and fields that neither
// contact has, whatever value the selection carries.
func validateSelection(primary, secondary model.Contact, selection map[string]FieldSelection) error {

	for _, field := range sortedKeys(selection) {
		choice := selection[field]
		if strings.TrimSpace(field) == "" || field == model.FieldId || field == model.FieldMergedFromId {
			return errors.NewValidationError(errors.INVALID_FIELD_SELECTION,
				fmt.Sprintf("Field %q cannot be selected in a merge.", field))
		}
		switch choice.Source {
		case SourcePrimary, SourceSecondary, SourceValue:
		default:
			return errors.NewValidationError(errors.INVALID_FIELD_SELECTION,
				fmt.Sprintf("Unknown source %q for field %s.", choice.Source, field))
		}
		if primary.Get(field) != "" || secondary.Get(field) != "" {
			continue
		}
		return errors.NewValidationError(errors.INVALID_FIELD_SELECTION,
			fmt.Sprintf("Field %s is absent from both contacts.", field))
	}
	return nil
}

func order(primary, secondary model.Contact, strategy Strategy) (model.Contact, model.Contact) {

	switch strategy {
	case KeepNewest:
		if secondary.UpdatedAt > primary.UpdatedAt {
			return secondary, primary
		}
	case KeepOldest:
		if secondary.CreatedAt < primary.CreatedAt {
			return secondary, primary
		}
	}
	return primary, secondary
}

func pick(preferred, fallback string) string {
	if strings.TrimSpace(preferred) != "" {
		return preferred
	}
	return fallback
}

func joinNotes(primary, secondary string) string {

	primary = strings.TrimSpace(primary)
	secondary = strings.TrimSpace(secondary)
	switch {
	case primary == "":
		return secondary
	case secondary == "" || secondary == primary:
		return primary
	}
	return primary + "\n" + secondary
}

// reconcileSlots makes sure every distinct value either contact held in a slot group survives in the
// merged contact. Values are compared through key so formatting differences do not duplicate them.
func reconcileSlots(merged *model.Contact, slots []string, primary, secondary model.Contact,
	key func(string) string) {

	present := make(map[string]bool)
	for _, slot := range slots {
		if v := merged.Get(slot); strings.TrimSpace(v) != "" {
			present[key(v)] = true
		}
	}

	for _, source := range []model.Contact{primary, secondary} {
		for _, slot := range slots {
			value := strings.TrimSpace(source.Get(slot))
			if value == "" || present[key(value)] {
				continue
			}
			present[key(value)] = true
			if free := firstFreeSlot(merged, slots); free != "" {
				merged.Set(free, value)
				continue
			}
			merged.Notes = appendNoteLine(merged.Notes, slot+": "+value)
		}
	}
}

func firstFreeSlot(contact *model.Contact, slots []string) string {
	for _, slot := range slots {
		if strings.TrimSpace(contact.Get(slot)) == "" {
			return slot
		}
	}
	return ""
}

func appendNoteLine(notes, line string) string {

	for _, existing := range strings.Split(notes, "\n") {
		if existing == line {
			return notes
		}
	}
	if notes == "" {
		return line
	}
	return notes + "\n" + line
}

// phoneKey compares phones by their digits, falling back to the trimmed text for values without any.
func phoneKey(phone string) string {
	if digits := matching.NormalizePhone(phone); digits != "" {
		return digits
	}
	return strings.TrimSpace(phone)
}

func extraFieldUnion(a, b model.Contact) []string {

	seen := make(map[string]struct{})
	for name := range a.ExtraFields {
		seen[name] = struct{}{}
	}
	for name := range b.ExtraFields {
		seen[name] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedKeys(selection map[string]FieldSelection) []string {

	keys := make([]string, 0, len(selection))
	for key := range selection {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
