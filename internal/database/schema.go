package database

import (
	"context"
	"fmt"

	"github.com/healthtrack/healthtrack-api/internal/config"
)

// DBQuery is a statement with an optional PostgreSQL-specific variant.
// An empty variant means the statement does not apply to that database.
type DBQuery struct {
	ID            string
	Query         string
	PostgresQuery string
}

// GetQuery returns the variant of the statement for dbType
func (q DBQuery) GetQuery(dbType string) string {
	if dbType == config.DatabaseTypePostgres {
		return q.PostgresQuery
	}
	return q.Query
}

// Schema lists the idempotent DDL statements, in execution order.
// CONSENT carries a compound unique key on the (DOCTOR_ID, PATIENT_ID) pair.
var Schema = []DBQuery{
	{
		ID: "create-users",
		Query: `CREATE TABLE IF NOT EXISTS USERS (
			USER_ID VARCHAR(255) NOT NULL PRIMARY KEY,
			NAME VARCHAR(255) NOT NULL,
			EMAIL VARCHAR(255) NOT NULL,
			PASSWORD_HASH VARCHAR(255) NOT NULL,
			ROLE VARCHAR(32) NOT NULL,
			ABHA_ID VARCHAR(64) NULL,
			CREATED_AT DATETIME(3) NOT NULL,
			UPDATED_AT DATETIME(3) NOT NULL,
			CONSTRAINT UQ_USERS_EMAIL UNIQUE (EMAIL),
			INDEX IDX_USERS_ROLE (ROLE)
		)`,
		PostgresQuery: `CREATE TABLE IF NOT EXISTS USERS (
			USER_ID VARCHAR(255) NOT NULL PRIMARY KEY,
			NAME VARCHAR(255) NOT NULL,
			EMAIL VARCHAR(255) NOT NULL,
			PASSWORD_HASH VARCHAR(255) NOT NULL,
			ROLE VARCHAR(32) NOT NULL,
			ABHA_ID VARCHAR(64) NULL,
			CREATED_AT TIMESTAMP(3) NOT NULL,
			UPDATED_AT TIMESTAMP(3) NOT NULL,
			CONSTRAINT UQ_USERS_EMAIL UNIQUE (EMAIL)
		)`,
	},
	{
		ID:            "index-users-role",
		PostgresQuery: `CREATE INDEX IF NOT EXISTS IDX_USERS_ROLE ON USERS (ROLE)`,
	},
	{
		ID: "create-consent",
		Query: `CREATE TABLE IF NOT EXISTS CONSENT (
			CONSENT_ID VARCHAR(255) NOT NULL PRIMARY KEY,
			DOCTOR_ID VARCHAR(255) NOT NULL,
			PATIENT_ID VARCHAR(255) NOT NULL,
			STATUS VARCHAR(16) NOT NULL,
			CREATED_AT DATETIME(3) NOT NULL,
			UPDATED_AT DATETIME(3) NOT NULL,
			CONSTRAINT UQ_CONSENT_PAIR UNIQUE (DOCTOR_ID, PATIENT_ID),
			INDEX IDX_CONSENT_PATIENT_STATUS (PATIENT_ID, STATUS)
		)`,
		PostgresQuery: `CREATE TABLE IF NOT EXISTS CONSENT (
			CONSENT_ID VARCHAR(255) NOT NULL PRIMARY KEY,
			DOCTOR_ID VARCHAR(255) NOT NULL,
			PATIENT_ID VARCHAR(255) NOT NULL,
			STATUS VARCHAR(16) NOT NULL,
			CREATED_AT TIMESTAMP(3) NOT NULL,
			UPDATED_AT TIMESTAMP(3) NOT NULL,
			CONSTRAINT UQ_CONSENT_PAIR UNIQUE (DOCTOR_ID, PATIENT_ID)
		)`,
	},
	{
		ID:            "index-consent-patient-status",
		PostgresQuery: `CREATE INDEX IF NOT EXISTS IDX_CONSENT_PATIENT_STATUS ON CONSENT (PATIENT_ID, STATUS)`,
	},
	{
		ID: "create-consent-status-audit",
		Query: `CREATE TABLE IF NOT EXISTS CONSENT_STATUS_AUDIT (
			STATUS_AUDIT_ID VARCHAR(255) NOT NULL PRIMARY KEY,
			CONSENT_ID VARCHAR(255) NOT NULL,
			PREVIOUS_STATUS VARCHAR(16) NULL,
			CURRENT_STATUS VARCHAR(16) NOT NULL,
			ACTION_BY VARCHAR(255) NOT NULL,
			REASON VARCHAR(255) NOT NULL,
			ACTION_TIME DATETIME(3) NOT NULL,
			INDEX IDX_STATUS_AUDIT_CONSENT (CONSENT_ID)
		)`,
		PostgresQuery: `CREATE TABLE IF NOT EXISTS CONSENT_STATUS_AUDIT (
			STATUS_AUDIT_ID VARCHAR(255) NOT NULL PRIMARY KEY,
			CONSENT_ID VARCHAR(255) NOT NULL,
			PREVIOUS_STATUS VARCHAR(16) NULL,
			CURRENT_STATUS VARCHAR(16) NOT NULL,
			ACTION_BY VARCHAR(255) NOT NULL,
			REASON VARCHAR(255) NOT NULL,
			ACTION_TIME TIMESTAMP(3) NOT NULL
		)`,
	},
	{
		ID:            "index-status-audit-consent",
		PostgresQuery: `CREATE INDEX IF NOT EXISTS IDX_STATUS_AUDIT_CONSENT ON CONSENT_STATUS_AUDIT (CONSENT_ID)`,
	},
	{
		ID: "create-health-record",
		Query: `CREATE TABLE IF NOT EXISTS HEALTH_RECORD (
			RECORD_ID VARCHAR(255) NOT NULL PRIMARY KEY,
			USER_ID VARCHAR(255) NOT NULL,
			TITLE VARCHAR(255) NOT NULL,
			RECORD_TYPE VARCHAR(32) NOT NULL,
			PROVIDER_NAME VARCHAR(255) NOT NULL,
			TAGS TEXT NOT NULL,
			FILE_URL VARCHAR(1024) NULL,
			FILE_HASH VARCHAR(255) NULL,
			BLOCKCHAIN_VERIFIED BOOLEAN NOT NULL DEFAULT FALSE,
			CREATED_AT DATETIME(3) NOT NULL,
			INDEX IDX_HEALTH_RECORD_USER (USER_ID, CREATED_AT)
		)`,
		PostgresQuery: `CREATE TABLE IF NOT EXISTS HEALTH_RECORD (
			RECORD_ID VARCHAR(255) NOT NULL PRIMARY KEY,
			USER_ID VARCHAR(255) NOT NULL,
			TITLE VARCHAR(255) NOT NULL,
			RECORD_TYPE VARCHAR(32) NOT NULL,
			PROVIDER_NAME VARCHAR(255) NOT NULL,
			TAGS TEXT NOT NULL,
			FILE_URL VARCHAR(1024) NULL,
			FILE_HASH VARCHAR(255) NULL,
			BLOCKCHAIN_VERIFIED BOOLEAN NOT NULL DEFAULT FALSE,
			CREATED_AT TIMESTAMP(3) NOT NULL
		)`,
	},
	{
		ID:            "index-health-record-user",
		PostgresQuery: `CREATE INDEX IF NOT EXISTS IDX_HEALTH_RECORD_USER ON HEALTH_RECORD (USER_ID, CREATED_AT)`,
	},
	{
		ID: "create-emergency-profile",
		Query: `CREATE TABLE IF NOT EXISTS EMERGENCY_PROFILE (
			USER_ID VARCHAR(255) NOT NULL PRIMARY KEY,
			NAME VARCHAR(255) NOT NULL,
			BLOOD_GROUP VARCHAR(8) NOT NULL,
			ALLERGIES TEXT NOT NULL,
			CHRONIC_CONDITIONS TEXT NOT NULL,
			MEDICATIONS TEXT NOT NULL,
			EMERGENCY_CONTACTS TEXT NOT NULL,
			VISIBILITY TEXT NOT NULL,
			UPDATED_AT DATETIME(3) NOT NULL
		)`,
		PostgresQuery: `CREATE TABLE IF NOT EXISTS EMERGENCY_PROFILE (
			USER_ID VARCHAR(255) NOT NULL PRIMARY KEY,
			NAME VARCHAR(255) NOT NULL,
			BLOOD_GROUP VARCHAR(8) NOT NULL,
			ALLERGIES TEXT NOT NULL,
			CHRONIC_CONDITIONS TEXT NOT NULL,
			MEDICATIONS TEXT NOT NULL,
			EMERGENCY_CONTACTS TEXT NOT NULL,
			VISIBILITY TEXT NOT NULL,
			UPDATED_AT TIMESTAMP(3) NOT NULL
		)`,
	},
	{
		ID: "create-family-member",
		Query: `CREATE TABLE IF NOT EXISTS FAMILY_MEMBER (
			MEMBER_ID VARCHAR(255) NOT NULL PRIMARY KEY,
			USER_ID VARCHAR(255) NOT NULL,
			NAME VARCHAR(255) NOT NULL,
			RELATION VARCHAR(64) NOT NULL,
			AGE INT NOT NULL,
			HAS_EMERGENCY_PROFILE BOOLEAN NOT NULL DEFAULT FALSE,
			CREATED_AT DATETIME(3) NOT NULL,
			INDEX IDX_FAMILY_MEMBER_USER (USER_ID)
		)`,
		PostgresQuery: `CREATE TABLE IF NOT EXISTS FAMILY_MEMBER (
			MEMBER_ID VARCHAR(255) NOT NULL PRIMARY KEY,
			USER_ID VARCHAR(255) NOT NULL,
			NAME VARCHAR(255) NOT NULL,
			RELATION VARCHAR(64) NOT NULL,
			AGE INT NOT NULL,
			HAS_EMERGENCY_PROFILE BOOLEAN NOT NULL DEFAULT FALSE,
			CREATED_AT TIMESTAMP(3) NOT NULL
		)`,
	},
	{
		ID:            "index-family-member-user",
		PostgresQuery: `CREATE INDEX IF NOT EXISTS IDX_FAMILY_MEMBER_USER ON FAMILY_MEMBER (USER_ID)`,
	},
}

// Migrate applies Schema. Every statement is idempotent, so Migrate can run on each deploy.
func (db *DB) Migrate(ctx context.Context) error {
	applied := 0
	for _, stmt := range Schema {
		query := stmt.GetQuery(db.dbType)
		if query == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to apply %s: %w", stmt.ID, err)
		}
		db.logger.WithField("statement", stmt.ID).Debug("Applied schema statement")
		applied++
	}

	db.logger.WithField("statements", applied).Info("Database schema is up to date")
	return nil
}
