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

package constants

import "time"

const ApiBasePath = "/api/v1"

type contextKey string

const TraceIDContextKey contextKey = "traceId"

const (
	TraceIDHeader       = "X-Trace-Id"
	AuthorizationHeader = "Authorization"
	BearerPrefix        = "Bearer "
)

const (
	DefaultDeploymentFile = "repository/conf/deployment.yaml"
	ServiceHomeEnv        = "CONTACT_SERVICE_HOME"
	EnvFileDirectory      = "config"
)

const (
	ContentTypeJSON  = "application/json"
	ContentTypeCSV   = "text/csv"
	ContentTypeVCard = "text/vcard"
)

// Limits applied to request bodies.
const (
	MaxImportBodyBytes = 32 << 20
	MaxJSONBodyBytes   = 1 << 20
)

const (
	ServerReadHeaderTimeout = 10 * time.Second
	ServerShutdownTimeout   = 15 * time.Second
	ProgressWriteTimeout    = 5 * time.Second
)
