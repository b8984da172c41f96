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
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/wso2/identity-contact-service/internal/system/log"
	"github.com/wso2/identity-contact-service/internal/system/workers"
)

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import contacts from a CSV file",
	Long: `Import contacts from a CSV file. Headers are matched case-insensitively against the
known contact fields and unknown columns are kept as extra fields. Progress is reported
while the rows are stored.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}

		manager := workers.NewImportManager(contactService, cfg.Import)
		manager.Start(cmd.Context())
		defer func() { _ = manager.Shutdown() }()

		job, err := manager.Submit(data, filepath.Base(args[0]))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for event := range job.Watch(cmd.Context()) {
			if event.Type == workers.EventProgress && event.Stage == workers.StageImporting {
				fmt.Fprintf(out, "%s %d/%d\n", gray("importing"), event.Processed, event.Total)
			}
		}
		<-job.Done()

		snapshot := job.Snapshot()
		for _, warning := range snapshot.Warnings {
			fmt.Fprintf(out, "%s line %d: %s\n", yellow("warning"), warning.Line, warning.Message)
		}
		audit(log.ActionImportContacts, log.TargetTypeImportJob, job.Id,
			map[string]interface{}{"source_file": job.SourceFile, "imported": snapshot.Imported,
				"status": snapshot.Status})

		switch snapshot.Status {
		case workers.JobCompleted:
			fmt.Fprintf(out, "%s Imported %s contacts from %s\n", green("✓"),
				green(fmt.Sprintf("%d", snapshot.Imported)), job.SourceFile)
			return nil
		case workers.JobCancelled:
			return fmt.Errorf("import cancelled after %d contacts", snapshot.Imported)
		}
		return fmt.Errorf("%s import failed: %s", red("✗"), snapshot.Error)
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
