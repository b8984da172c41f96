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

package errors

const errorPrefix = "CCS-"

var (
	// Server error codes

	DB_CLIENT_INIT = ErrorMessage{
		Code:    errorPrefix + "15001",
		Message: "Unable to initialize database client.",
	}

	FETCH_CONTACTS = ErrorMessage{
		Code:    errorPrefix + "15002",
		Message: "Error while fetching contacts.",
	}

	INSERT_CONTACTS = ErrorMessage{
		Code:    errorPrefix + "15003",
		Message: "Error while inserting contacts.",
	}

	UPDATE_CONTACT = ErrorMessage{
		Code:    errorPrefix + "15004",
		Message: "Error while updating contact.",
	}

	ARCHIVE_CONTACT = ErrorMessage{
		Code:    errorPrefix + "15005",
		Message: "Error while archiving contact.",
	}

	MERGE_TRANSACTION = ErrorMessage{
		Code:    errorPrefix + "15006",
		Message: "Error while merging contacts.",
	}

	ADD_MERGE_RECORD = ErrorMessage{
		Code:    errorPrefix + "15007",
		Message: "Error while recording merge history.",
	}

	FETCH_MERGE_HISTORY = ErrorMessage{
		Code:    errorPrefix + "15008",
		Message: "Error while fetching merge history.",
	}

	DISMISS_PAIR = ErrorMessage{
		Code:    errorPrefix + "15009",
		Message: "Error while dismissing contact pair.",
	}

	FETCH_DISMISSALS = ErrorMessage{
		Code:    errorPrefix + "15010",
		Message: "Error while fetching dismissed contact pairs.",
	}

	LOCK_KEY_GEN = ErrorMessage{
		Code:    errorPrefix + "15011",
		Message: "Error while generating lock key.",
	}

	LOCK_ACQUIRE = ErrorMessage{
		Code:    errorPrefix + "15012",
		Message: "Error while acquiring contact lock.",
	}

	TRANSACTION_FAILED = ErrorMessage{
		Code:    errorPrefix + "15013",
		Message: "Database transaction failed.",
	}

	IMPORT_FAILED = ErrorMessage{
		Code:    errorPrefix + "15014",
		Message: "Error while importing contacts.",
	}

	EXPORT_FAILED = ErrorMessage{
		Code:    errorPrefix + "15015",
		Message: "Error while exporting contacts.",
	}

	UNSUPPORTED_DB = ErrorMessage{
		Code:    errorPrefix + "15016",
		Message: "Unsupported database type.",
	}

	PARSING_ERROR = ErrorMessage{
		Code:    errorPrefix + "15017",
		Message: "Error while parsing stored data.",
	}

	// Client error codes
	BAD_REQUEST = ErrorMessage{
		Code:    errorPrefix + "11001",
		Message: "Invalid body format.",
	}

	CONTACT_NOT_FOUND = ErrorMessage{
		Code:        errorPrefix + "11002",
		Message:     "Contact not found.",
		Description: "No active contact record found for the given contact id.",
	}

	INVALID_MERGE_REQUEST = ErrorMessage{
		Code:    errorPrefix + "11003",
		Message: "Invalid merge request.",
	}

	INVALID_FIELD_SELECTION = ErrorMessage{
		Code:    errorPrefix + "11004",
		Message: "Invalid field selection.",
	}

	INVALID_DISMISS_REQUEST = ErrorMessage{
		Code:    errorPrefix + "11005",
		Message: "Invalid dismiss request.",
	}

	INVALID_CSV = ErrorMessage{
		Code:    errorPrefix + "11006",
		Message: "Invalid CSV file.",
	}

	UNSUPPORTED_EXPORT_FORMAT = ErrorMessage{
		Code:        errorPrefix + "11007",
		Message:     "Unsupported export format.",
		Description: "Supported export formats are csv, vcard and json.",
	}

	IMPORT_JOB_NOT_FOUND = ErrorMessage{
		Code:        errorPrefix + "11008",
		Message:     "Import job not found.",
		Description: "No import job found for the given job id.",
	}

	IMPORT_QUEUE_FULL = ErrorMessage{
		Code:        errorPrefix + "11009",
		Message:     "Import queue is full.",
		Description: "Too many imports are waiting to run. Retry later.",
	}

	UN_AUTHORIZED = ErrorMessage{
		Code:        errorPrefix + "11010",
		Message:     "Unauthorized",
		Description: "You are not authorized to perform this action.",
	}

	FORBIDDEN = ErrorMessage{
		Code:        errorPrefix + "11011",
		Message:     "Forbidden",
		Description: "You do not have the required scopes to perform this action.",
	}
)
