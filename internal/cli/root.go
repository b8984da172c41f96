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

// Package cli provides the contactctl command line client. It works directly on the configured contact
// store and runs imports in-process.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/wso2/identity-contact-service/internal/contact/service"
	"github.com/wso2/identity-contact-service/internal/contact/store"
	"github.com/wso2/identity-contact-service/internal/system/config"
	"github.com/wso2/identity-contact-service/internal/system/constants"
	"github.com/wso2/identity-contact-service/internal/system/database/client"
	"github.com/wso2/identity-contact-service/internal/system/database/provider"
	"github.com/wso2/identity-contact-service/internal/system/log"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	serviceHome string
	dbType      string
	dbPath      string
	logLevel    string

	cfg            config.Config
	dbClient       client.DBClientInterface
	contactService service.ContactServiceInterface
)

var (
	cyan   = color.New(color.FgCyan, color.Bold).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "contactctl",
	Short: "Find, merge and import contacts",
	Long: `contactctl manages the contact store used by the contact service.

It lists and searches contacts, reports likely duplicates, merges or dismisses
them, imports CSV files and exports contacts as CSV, vCard or JSON.`,
	Version:      Version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip DB connection for version and help commands
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		loaded, err := loadConfig()
		if err != nil {
			return err
		}
		cfg = *loaded
		config.OverrideRuntime(cfg)
		if err := log.Init(cfg.Log.LogLevel); err != nil {
			return err
		}

		dbClient, err = provider.Open(cfg.DataSource)
		if err != nil {
			return fmt.Errorf("open contact store: %w", err)
		}
		contactStore := store.NewContactStore(dbClient)
		contactService = service.NewContactService(contactStore, contactStore, cfg.Import.ChunkSize)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if dbClient != nil {
			if err := dbClient.Close(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to close contact store: %v\n", err)
			}
			dbClient = nil
		}
	},
}

// Execute runs the root command. Cancelling ctx stops a running import.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serviceHome, "home", os.Getenv(constants.ServiceHomeEnv),
		"Contact service home directory holding "+constants.DefaultDeploymentFile)
	rootCmd.PersistentFlags().StringVar(&dbType, "db-type", "", "Database type (sqlite or postgres)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "ERROR", "Log level")
}

// loadConfig reads the deployment file when present and applies the command line overrides on top.
func loadConfig() (*config.Config, error) {

	loaded := &config.Config{}
	if serviceHome != "" {
		if _, err := os.Stat(filepath.Join(serviceHome, constants.DefaultDeploymentFile)); err == nil {
			loaded, err = config.LoadConfig(serviceHome, constants.DefaultDeploymentFile)
			if err != nil {
				return nil, fmt.Errorf("load configuration: %w", err)
			}
		}
	}
	if dbType != "" {
		loaded.DataSource.Type = dbType
	}
	if dbPath != "" {
		loaded.DataSource.Path = dbPath
	}
	loaded.Log.LogLevel = logLevel
	config.ApplyDefaults(loaded)
	return loaded, nil
}

// audit records a change made from the command line.
func audit(actionID, targetType, targetID string, data interface{}) {

	initiator := os.Getenv("USER")
	if initiator == "" {
		initiator = "unknown"
	}
	log.GetLogger().Audit(log.AuditEvent{
		InitiatorID:   initiator,
		InitiatorType: log.InitiatorTypeCLI,
		TargetID:      targetID,
		TargetType:    targetType,
		ActionID:      actionID,
		Data:          data,
	})
}
