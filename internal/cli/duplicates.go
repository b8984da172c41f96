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
	"maps"
	"slices"

	"github.com/spf13/cobra"
	"github.com/wso2/identity-contact-service/internal/contact/model"
	"github.com/wso2/identity-contact-service/internal/system/log"
)

var dismissReason string

var duplicatesCmd = &cobra.Command{
	Use:   "duplicates",
	Short: "Report groups of likely duplicate contacts",
	Long: `Scan active contacts pairwise and report groups of likely duplicates.

Each group lists a primary contact and its candidates with the match confidence.
Pairs that were dismissed are never reported again.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := contactService.FindDuplicates(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if result.Count == 0 {
			fmt.Fprintf(out, "%s\n", green("No duplicates found"))
			return nil
		}
		for i, group := range result.Groups {
			fmt.Fprintf(out, "%s\n", cyan(fmt.Sprintf("Group %d", i+1)))
			fmt.Fprintf(out, "  primary  ")
			printContactLine(out, group.Primary)
			for _, match := range group.Matches {
				fmt.Fprintf(out, "  %s ", confidenceLabel(match.Confidence))
				printContactLine(out, match.Contact)
			}
		}
		fmt.Fprintf(out, "\nGroups: %s\n", yellow(fmt.Sprintf("%d", result.Count)))
		return nil
	},
}

var dismissCmd = &cobra.Command{
	Use:   "dismiss <contact-id> <contact-id>",
	Short: "Mark two contacts as not duplicates",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pair, err := contactService.DismissMatch(cmd.Context(), args[0], args[1], dismissReason)
		if err != nil {
			return err
		}
		audit(log.ActionDismissMatch, log.TargetTypeContactPair, model.PairKey(pair.Contact1Id, pair.Contact2Id),
			map[string]string{"contact1_id": pair.Contact1Id, "contact2_id": pair.Contact2Id})
		fmt.Fprintf(cmd.OutOrStdout(), "%s Dismissed %s and %s\n", green("✓"), pair.Contact1Id, pair.Contact2Id)
		return nil
	},
}

// confidenceLabel colors a confidence by strength.
func confidenceLabel(confidence float64) string {
	label := fmt.Sprintf("%6.0f%%", confidence*100)
	switch {
	case confidence >= 0.9:
		return red(label)
	case confidence >= 0.6:
		return yellow(label)
	}
	return gray(label)
}

func sortedKeys(values map[string]string) []string {
	return slices.Sorted(maps.Keys(values))
}

func init() {
	dismissCmd.Flags().StringVarP(&dismissReason, "reason", "r", "", "Why the contacts are different people")
	rootCmd.AddCommand(duplicatesCmd)
	rootCmd.AddCommand(dismissCmd)
}
