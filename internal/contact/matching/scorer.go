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
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/wso2/identity-contact-service/internal/contact/model"
)

// NameMatchThreshold is the name similarity at or above which two contacts match on name alone.
const NameMatchThreshold = 0.8

// Signals holds the per field scores of a comparison. A score only counts when its Has flag is set.
type Signals struct {
	Email    float64
	HasEmail bool
	Phone    float64
	HasPhone bool
	Name     float64
	HasName  bool
}

// Score is the outcome of comparing two contacts.
type Score struct {
	IsMatch    bool
	Confidence float64
	Signals    Signals
}

// ScoreContacts compares two contacts. The result does not depend on argument order. Callers must not
// compare a contact with itself.
func ScoreContacts(a, b model.Contact) Score {

	return ScoreNormalized(Normalize(a), Normalize(b))
}

// ScoreNormalized compares two already normalized contacts.
func ScoreNormalized(a, b NormalizedContact) Score {

	var signals Signals
	if a.Email != "" && b.Email != "" {
		signals.HasEmail = true
		if a.Email == b.Email {
			signals.Email = 1
		}
	}
	if a.Phone != "" && b.Phone != "" {
		signals.HasPhone = true
		if a.Phone == b.Phone {
			signals.Phone = 1
		}
	}

	var nameDegenerate bool
	switch {
	case a.Name != "" && b.Name != "":
		signals.HasName = true
		signals.Name = NameSimilarity(a.Name, b.Name)
	case a.Name == "" && b.Name == "":
		// Two missing names agree trivially. The score only counts once another signal matched.
		if signals.Email == 1 || signals.Phone == 1 {
			nameDegenerate = true
			signals.HasName = true
			signals.Name = 1
		}
	}

	var total float64
	var evaluated int
	if signals.HasEmail {
		total += signals.Email
		evaluated++
	}
	if signals.HasPhone {
		total += signals.Phone
		evaluated++
	}
	if signals.HasName {
		total += signals.Name
		evaluated++
	}

	score := Score{Signals: signals}
	if evaluated == 0 {
		return score
	}
	score.Confidence = total / float64(evaluated)
	score.IsMatch = signals.Email == 1 || signals.Phone == 1 ||
		(!nameDegenerate && signals.HasName && signals.Name >= NameMatchThreshold)
	return score
}

// NameSimilarity is one minus the Levenshtein distance over the longer rune length. Identical names,
// including two empty ones, score 1.
func NameSimilarity(a, b string) float64 {

	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	if longest == 0 {
		return 1
	}
	distance := levenshtein.ComputeDistance(a, b)
	return 1 - float64(distance)/float64(longest)
}
