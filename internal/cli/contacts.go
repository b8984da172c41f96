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
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/wso2/identity-contact-service/internal/contact/model"
)

var listSearch string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List active contacts",
	Long:  `List active contacts. Use --search to filter on names and email.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		contacts, err := contactService.ListContacts(cmd.Context(), listSearch)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(contacts) == 0 {
			fmt.Fprintf(out, "%s\n", gray("No contacts found"))
			return nil
		}
		for _, contact := range contacts {
			printContactLine(out, contact)
		}
		fmt.Fprintf(out, "\nTotal: %s\n", green(fmt.Sprintf("%d", len(contacts))))
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <contact-id>",
	Short: "Show every field of a contact",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		contact, err := contactService.GetContact(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s\n", cyan(contact.DisplayName()))
		fmt.Fprintf(out, "  %-14s %s\n", "id", contact.Id)
		if contact.IsArchived() {
			fmt.Fprintf(out, "  %-14s %s\n", "merged into", yellow(contact.MergedFromId))
		}
		for _, field := range model.CanonicalFields {
			if value := contact.Get(field); value != "" {
				fmt.Fprintf(out, "  %-14s %s\n", field, value)
			}
		}
		for _, field := range contact.ExtraFieldNames() {
			fmt.Fprintf(out, "  %-14s %s\n", field, gray(contact.ExtraFields[field]))
		}
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history <contact-id>",
	Short: "Show the merges a contact took part in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := contactService.GetMergeHistory(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(records) == 0 {
			fmt.Fprintf(out, "%s\n", gray("No merges recorded"))
			return nil
		}
		for _, record := range records {
			fmt.Fprintf(out, "%s %s <- %s  %s\n", green("●"), record.PrimaryId, record.SecondaryId,
				gray(time.UnixMilli(record.MergedAt).Format("2006-01-02 15:04:05")))
			fmt.Fprintf(out, "    record: %s\n", record.Id)
			for _, field := range sortedKeys(record.MergedFields) {
				fmt.Fprintf(out, "    %-12s %s\n", field, record.MergedFields[field])
			}
		}
		return nil
	},
}

func printContactLine(out io.Writer, contact model.Contact) {
	email := contact.Email
	if email == "" {
		email = contact.WorkEmail
	}
	fmt.Fprintf(out, "%s  %-28s %-32s %s\n", gray(contact.Id), contact.DisplayName(), email, contact.Phone)
}

func init() {
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Filter on names and email")
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(historyCmd)
}
