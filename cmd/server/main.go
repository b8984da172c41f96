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

package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/wso2/identity-contact-service/internal/contact/service"
	"github.com/wso2/identity-contact-service/internal/system/config"
	"github.com/wso2/identity-contact-service/internal/system/constants"
	"github.com/wso2/identity-contact-service/internal/system/database/provider"
	"github.com/wso2/identity-contact-service/internal/system/log"
	"github.com/wso2/identity-contact-service/internal/system/managers"
	"github.com/wso2/identity-contact-service/internal/system/workers"
	"golang.org/x/sync/errgroup"
)

func main() {

	serviceHome := getServiceHome()
	logger := log.GetLogger()

	envFiles, err := filepath.Glob(filepath.Join(serviceHome, constants.EnvFileDirectory, "*.env"))
	if err != nil || len(envFiles) == 0 {
		logger.Debug("No .env files found in config directory")
	} else if err := godotenv.Load(envFiles...); err != nil {
		logger.Warn("Failed to load .env files", log.Error(err))
	}

	// Load the configuration file
	serviceConfig, err := config.LoadConfig(serviceHome, constants.DefaultDeploymentFile)
	if err != nil {
		logger.Fatal("Failed to load configuration", log.Error(err))
	}

	// Initialize runtime configurations.
	if err := config.InitializeRuntime(serviceHome, serviceConfig); err != nil {
		logger.Fatal("Failed to initialize runtime", log.Error(err))
	}

	if err := log.InitWithFile(serviceConfig.Log.LogLevel, serviceConfig.Log.LogFile); err != nil {
		logger.Fatal("Failed to initialize logger", log.Error(err))
	}
	defer log.Close()
	logger = log.GetLogger()

	// Initialize database
	if _, err := provider.NewDBProvider().GetDBClient(); err != nil {
		logger.Fatal("Failed to initialize the contact store", log.Error(err),
			log.String("type", serviceConfig.DataSource.Type))
	}
	defer func() {
		if err := provider.CloseDBClient(); err != nil {
			logger.Warn("Failed to close the contact store", log.Error(err))
		}
	}()

	contactService, err := service.GetContactService()
	if err != nil {
		logger.Fatal("Failed to initialize the contact service", log.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize the import queue
	importManager := workers.StartImportWorker(ctx, contactService, serviceConfig.Import)

	serverAddr := fmt.Sprintf("%s:%d", serviceConfig.Addr.Host, serviceConfig.Addr.Port)
	server := &http.Server{
		Addr:              serverAddr,
		Handler:           enableCORS(withTraceID(initMultiplexer()), serviceConfig.Auth.CORSAllowedOrigins),
		ReadHeaderTimeout: constants.ServerReadHeaderTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("Contact service started", log.String("address", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		logger.Info("Shutting down contact service")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ServerShutdownTimeout)
		defer cancel()
		err := server.Shutdown(shutdownCtx)
		if workerErr := importManager.Shutdown(); err == nil {
			err = workerErr
		}
		return err
	})

	if err := group.Wait(); err != nil {
		logger.Error("Contact service stopped with an error", log.Error(err))
		os.Exit(1)
	}
	logger.Info("Contact service stopped")
}

// initMultiplexer initializes the HTTP multiplexer and registers the services.
func initMultiplexer() *http.ServeMux {

	mux := http.NewServeMux()
	serviceManager := managers.NewServiceManager(mux)

	// Register the services.
	if err := serviceManager.RegisterServices(constants.ApiBasePath); err != nil {
		log.GetLogger().Error("Failed to register the services", log.Error(err))
	}

	return mux
}

func getServiceHome() string {

	// Parse project directory from command line arguments.
	projectHomeFlag := flag.String("serviceHome", "", "Path to contact service home directory")
	flag.Parse()

	if *projectHomeFlag != "" {
		return *projectHomeFlag
	}
	if home := os.Getenv(constants.ServiceHomeEnv); home != "" {
		return home
	}
	// If no command line argument is provided, use the current working directory.
	dir, err := os.Getwd()
	if err != nil {
		log.GetLogger().Fatal("Failed to get current working directory", log.Error(err))
	}
	return dir
}
