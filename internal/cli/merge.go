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

package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wso2/identity-contact-service/internal/contact/model"
	"github.com/wso2/identity-contact-service/internal/system/log"
)

var (
	mergeStrategy string
	mergeSet      []string
	mergeFrom     []string
)

var mergeCmd = &cobra.Command{
	Use:   "merge <primary-id> <secondary-id>",
	Short: "Merge a secondary contact into a primary contact",
	Long: `Merge the secondary contact into the primary contact. The primary keeps its id and
the secondary is archived.

Fields follow the strategy unless overridden:
  --set field=value         use an explicit value
  --from field=secondary    take the field from the primary or secondary contact`,
	Example: `  contactctl merge c1 c2
  contactctl merge c1 c2 --strategy keep_newest --from email=secondary
  contactctl merge c1 c2 --set notes="met at conference"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		mergedFields, err := parseAssignments(mergeSet, "--set")
		if err != nil {
			return err
		}
		fieldSources, err := parseAssignments(mergeFrom, "--from")
		if err != nil {
			return err
		}

		response, err := contactService.MergeContacts(cmd.Context(), model.MergeRequest{
			PrimaryId:    args[0],
			SecondaryId:  args[1],
			MergedFields: mergedFields,
			FieldSources: fieldSources,
			Strategy:     mergeStrategy,
		})
		if err != nil {
			return err
		}
		audit(log.ActionMergeContacts, log.TargetTypeContact, response.MergedContact.Id,
			map[string]string{"secondary_id": args[1], "merge_record_id": response.MergeRecord.Id})

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s Merged %s into %s (record %s)\n", green("✓"), args[1], args[0], response.MergeRecord.Id)
		printContactLine(out, response.MergedContact)
		return nil
	},
}

// parseAssignments turns field=value flags into a map. Later assignments win.
func parseAssignments(assignments []string, flag string) (map[string]string, error) {
	if len(assignments) == 0 {
		return nil, nil
	}
	values := make(map[string]string, len(assignments))
	for _, assignment := range assignments {
		field, value, ok := strings.Cut(assignment, "=")
		field = strings.TrimSpace(field)
		if !ok || field == "" {
			return nil, fmt.Errorf("%s expects field=value, got %q", flag, assignment)
		}
		values[field] = value
	}
	return values, nil
}

func init() {
	mergeCmd.Flags().StringVar(&mergeStrategy, "strategy", "", "Merge strategy (keep_most_complete, keep_newest or keep_oldest)")
	mergeCmd.Flags().StringArrayVar(&mergeSet, "set", nil, "Explicit field value as field=value")
	mergeCmd.Flags().StringArrayVar(&mergeFrom, "from", nil, "Field source as field=primary|secondary")
	rootCmd.AddCommand(mergeCmd)
}
