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
	"os"

	"github.com/spf13/cobra"
	"github.com/wso2/identity-contact-service/internal/contact/export"
	"github.com/wso2/identity-contact-service/internal/system/log"
)

var (
	exportFormat string
	exportOutput string
	exportSearch string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export active contacts as CSV, vCard or JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		format, err := export.ParseFormat(exportFormat)
		if err != nil {
			return err
		}
		contacts, err := contactService.ListContacts(cmd.Context(), exportSearch)
		if err != nil {
			return err
		}

		var out io.Writer = cmd.OutOrStdout()
		if exportOutput != "" && exportOutput != "-" {
			file, err := os.Create(exportOutput)
			if err != nil {
				return fmt.Errorf("create %s: %w", exportOutput, err)
			}
			defer func() {
				if closeErr := file.Close(); err == nil {
					err = closeErr
				}
			}()
			out = file
		}
		if err := export.Write(out, contacts, format); err != nil {
			return err
		}
		audit(log.ActionExportContacts, log.TargetTypeContactStore, string(format),
			map[string]int{"count": len(contacts)})
		if exportOutput != "" && exportOutput != "-" {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s Exported %d contacts to %s\n", green("✓"), len(contacts), exportOutput)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "Output format (csv, vcard or json)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file, stdout when empty")
	exportCmd.Flags().StringVarP(&exportSearch, "search", "s", "", "Only export contacts matching the term")
	rootCmd.AddCommand(exportCmd)
}
