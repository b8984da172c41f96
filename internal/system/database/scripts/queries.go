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

package scripts

// Supported database types. Every query below is keyed by one of these.
const (
	Postgres = "postgres"
	SQLite   = "sqlite"
)

const contactColumns = `contact_id, first_name, last_name, email, work_email, phone, mobile, work_phone, company,
       job_title, notes, source_file, merged_from_id, created_at, updated_at`

var Schema = map[string]string{
	Postgres: `
CREATE TABLE IF NOT EXISTS contacts (
    seq            BIGSERIAL PRIMARY KEY,
    contact_id     VARCHAR(64) NOT NULL UNIQUE,
    first_name     TEXT NOT NULL DEFAULT '',
    last_name      TEXT NOT NULL DEFAULT '',
    email          TEXT NOT NULL DEFAULT '',
    work_email     TEXT NOT NULL DEFAULT '',
    phone          TEXT NOT NULL DEFAULT '',
    mobile         TEXT NOT NULL DEFAULT '',
    work_phone     TEXT NOT NULL DEFAULT '',
    company        TEXT NOT NULL DEFAULT '',
    job_title      TEXT NOT NULL DEFAULT '',
    notes          TEXT NOT NULL DEFAULT '',
    source_file    TEXT NOT NULL DEFAULT '',
    extra_fields   JSONB NOT NULL DEFAULT '{}'::jsonb,
    merged_from_id VARCHAR(64),
    created_at     BIGINT NOT NULL,
    updated_at     BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_contacts_merged_from ON contacts (merged_from_id);

CREATE TABLE IF NOT EXISTS dismissed_pairs (
    contact1_id  VARCHAR(64) NOT NULL,
    contact2_id  VARCHAR(64) NOT NULL,
    reason       TEXT NOT NULL DEFAULT '',
    dismissed_at BIGINT NOT NULL,
    PRIMARY KEY (contact1_id, contact2_id)
);

CREATE TABLE IF NOT EXISTS merge_records (
    seq                BIGSERIAL PRIMARY KEY,
    record_id          VARCHAR(64) NOT NULL UNIQUE,
    primary_id         VARCHAR(64) NOT NULL,
    secondary_id       VARCHAR(64) NOT NULL,
    result_id          VARCHAR(64) NOT NULL,
    merged_fields      JSONB NOT NULL,
    primary_snapshot   JSONB NOT NULL,
    secondary_snapshot JSONB NOT NULL,
    merged_at          BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_merge_records_primary ON merge_records (primary_id);
CREATE INDEX IF NOT EXISTS idx_merge_records_secondary ON merge_records (secondary_id);
`,
	SQLite: `
CREATE TABLE IF NOT EXISTS contacts (
    seq            INTEGER PRIMARY KEY AUTOINCREMENT,
    contact_id     TEXT NOT NULL UNIQUE,
    first_name     TEXT NOT NULL DEFAULT '',
    last_name      TEXT NOT NULL DEFAULT '',
    email          TEXT NOT NULL DEFAULT '',
    work_email     TEXT NOT NULL DEFAULT '',
    phone          TEXT NOT NULL DEFAULT '',
    mobile         TEXT NOT NULL DEFAULT '',
    work_phone     TEXT NOT NULL DEFAULT '',
    company        TEXT NOT NULL DEFAULT '',
    job_title      TEXT NOT NULL DEFAULT '',
    notes          TEXT NOT NULL DEFAULT '',
    source_file    TEXT NOT NULL DEFAULT '',
    extra_fields   TEXT NOT NULL DEFAULT '{}',
    merged_from_id TEXT,
    created_at     INTEGER NOT NULL,
    updated_at     INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_contacts_merged_from ON contacts (merged_from_id);

CREATE TABLE IF NOT EXISTS dismissed_pairs (
    contact1_id  TEXT NOT NULL,
    contact2_id  TEXT NOT NULL,
    reason       TEXT NOT NULL DEFAULT '',
    dismissed_at INTEGER NOT NULL,
    PRIMARY KEY (contact1_id, contact2_id)
);

CREATE TABLE IF NOT EXISTS merge_records (
    seq                INTEGER PRIMARY KEY AUTOINCREMENT,
    record_id          TEXT NOT NULL UNIQUE,
    primary_id         TEXT NOT NULL,
    secondary_id       TEXT NOT NULL,
    result_id          TEXT NOT NULL,
    merged_fields      TEXT NOT NULL,
    primary_snapshot   TEXT NOT NULL,
    secondary_snapshot TEXT NOT NULL,
    merged_at          INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_merge_records_primary ON merge_records (primary_id);
CREATE INDEX IF NOT EXISTS idx_merge_records_secondary ON merge_records (secondary_id);
`,
}

var GetActiveContacts = map[string]string{
	Postgres: `SELECT ` + contactColumns + `, extra_fields::text AS extra_fields FROM contacts
       WHERE merged_from_id IS NULL ORDER BY seq`,
	SQLite: `SELECT ` + contactColumns + `, extra_fields FROM contacts
       WHERE merged_from_id IS NULL ORDER BY seq`,
}

var SearchActiveContacts = map[string]string{
	Postgres: `SELECT ` + contactColumns + `, extra_fields::text AS extra_fields FROM contacts
       WHERE merged_from_id IS NULL AND (LOWER(first_name) LIKE $1 ESCAPE '\' OR LOWER(last_name) LIKE $2 ESCAPE '\'
       OR LOWER(email) LIKE $3 ESCAPE '\') ORDER BY seq`,
	SQLite: `SELECT ` + contactColumns + `, extra_fields FROM contacts
       WHERE merged_from_id IS NULL AND (LOWER(first_name) LIKE ? ESCAPE '\' OR LOWER(last_name) LIKE ? ESCAPE '\'
       OR LOWER(email) LIKE ? ESCAPE '\') ORDER BY seq`,
}

var GetContactById = map[string]string{
	Postgres: `SELECT ` + contactColumns + `, extra_fields::text AS extra_fields FROM contacts WHERE contact_id = $1`,
	SQLite:   `SELECT ` + contactColumns + `, extra_fields FROM contacts WHERE contact_id = ?`,
}

var InsertContact = map[string]string{
	Postgres: `INSERT INTO contacts (contact_id, first_name, last_name, email, work_email, phone, mobile, work_phone,
       company, job_title, notes, source_file, extra_fields, merged_from_id, created_at, updated_at)
       VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
	SQLite: `INSERT INTO contacts (contact_id, first_name, last_name, email, work_email, phone, mobile, work_phone,
       company, job_title, notes, source_file, extra_fields, merged_from_id, created_at, updated_at)
       VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
}

var UpdateContact = map[string]string{
	Postgres: `UPDATE contacts SET first_name = $1, last_name = $2, email = $3, work_email = $4, phone = $5,
       mobile = $6, work_phone = $7, company = $8, job_title = $9, notes = $10, source_file = $11,
       extra_fields = $12, updated_at = $13 WHERE contact_id = $14 AND merged_from_id IS NULL`,
	SQLite: `UPDATE contacts SET first_name = ?, last_name = ?, email = ?, work_email = ?, phone = ?,
       mobile = ?, work_phone = ?, company = ?, job_title = ?, notes = ?, source_file = ?,
       extra_fields = ?, updated_at = ? WHERE contact_id = ? AND merged_from_id IS NULL`,
}

var ArchiveContact = map[string]string{
	Postgres: `UPDATE contacts SET merged_from_id = $1, updated_at = $2 WHERE contact_id = $3 AND merged_from_id IS NULL`,
	SQLite:   `UPDATE contacts SET merged_from_id = ?, updated_at = ? WHERE contact_id = ? AND merged_from_id IS NULL`,
}

var InsertMergeRecord = map[string]string{
	Postgres: `INSERT INTO merge_records (record_id, primary_id, secondary_id, result_id, merged_fields,
       primary_snapshot, secondary_snapshot, merged_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
	SQLite: `INSERT INTO merge_records (record_id, primary_id, secondary_id, result_id, merged_fields,
       primary_snapshot, secondary_snapshot, merged_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
}

var GetMergeHistory = map[string]string{
	Postgres: `SELECT record_id, primary_id, secondary_id, result_id, merged_fields::text AS merged_fields,
       primary_snapshot::text AS primary_snapshot, secondary_snapshot::text AS secondary_snapshot, merged_at
       FROM merge_records WHERE primary_id = $1 OR secondary_id = $2 OR result_id = $3
       ORDER BY merged_at DESC, seq DESC`,
	SQLite: `SELECT record_id, primary_id, secondary_id, result_id, merged_fields, primary_snapshot,
       secondary_snapshot, merged_at FROM merge_records WHERE primary_id = ? OR secondary_id = ? OR result_id = ?
       ORDER BY merged_at DESC, seq DESC`,
}

var InsertDismissedPair = map[string]string{
	Postgres: `INSERT INTO dismissed_pairs (contact1_id, contact2_id, reason, dismissed_at) VALUES ($1, $2, $3, $4)
       ON CONFLICT (contact1_id, contact2_id) DO NOTHING`,
	SQLite: `INSERT INTO dismissed_pairs (contact1_id, contact2_id, reason, dismissed_at) VALUES (?, ?, ?, ?)
       ON CONFLICT (contact1_id, contact2_id) DO NOTHING`,
}

var IsPairDismissed = map[string]string{
	Postgres: `SELECT 1 AS dismissed FROM dismissed_pairs WHERE contact1_id = $1 AND contact2_id = $2`,
	SQLite:   `SELECT 1 AS dismissed FROM dismissed_pairs WHERE contact1_id = ? AND contact2_id = ?`,
}

var GetDismissedPairs = map[string]string{
	Postgres: `SELECT contact1_id, contact2_id, reason, dismissed_at FROM dismissed_pairs
       ORDER BY dismissed_at, contact1_id, contact2_id`,
	SQLite: `SELECT contact1_id, contact2_id, reason, dismissed_at FROM dismissed_pairs
       ORDER BY dismissed_at, contact1_id, contact2_id`,
}

var AdvisoryXactLock = map[string]string{
	Postgres: `SELECT pg_advisory_xact_lock($1)`,
}

var HealthCheck = map[string]string{
	Postgres: `SELECT 1 AS ok`,
	SQLite:   `SELECT 1 AS ok`,
}
