package dao

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/healthtrack/healthtrack-api/internal/database"
	"github.com/healthtrack/healthtrack-api/internal/models"
)

var upsertEmergencyProfileQuery = database.DBQuery{
	ID: "upsert-emergency-profile",
	Query: `
		INSERT INTO EMERGENCY_PROFILE (
			USER_ID, NAME, BLOOD_GROUP, ALLERGIES, CHRONIC_CONDITIONS,
			MEDICATIONS, EMERGENCY_CONTACTS, VISIBILITY, UPDATED_AT
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			NAME = VALUES(NAME),
			BLOOD_GROUP = VALUES(BLOOD_GROUP),
			ALLERGIES = VALUES(ALLERGIES),
			CHRONIC_CONDITIONS = VALUES(CHRONIC_CONDITIONS),
			MEDICATIONS = VALUES(MEDICATIONS),
			EMERGENCY_CONTACTS = VALUES(EMERGENCY_CONTACTS),
			VISIBILITY = VALUES(VISIBILITY),
			UPDATED_AT = VALUES(UPDATED_AT)
	`,
	PostgresQuery: `
		INSERT INTO EMERGENCY_PROFILE (
			USER_ID, NAME, BLOOD_GROUP, ALLERGIES, CHRONIC_CONDITIONS,
			MEDICATIONS, EMERGENCY_CONTACTS, VISIBILITY, UPDATED_AT
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (USER_ID) DO UPDATE SET
			NAME = EXCLUDED.NAME,
			BLOOD_GROUP = EXCLUDED.BLOOD_GROUP,
			ALLERGIES = EXCLUDED.ALLERGIES,
			CHRONIC_CONDITIONS = EXCLUDED.CHRONIC_CONDITIONS,
			MEDICATIONS = EXCLUDED.MEDICATIONS,
			EMERGENCY_CONTACTS = EXCLUDED.EMERGENCY_CONTACTS,
			VISIBILITY = EXCLUDED.VISIBILITY,
			UPDATED_AT = EXCLUDED.UPDATED_AT
	`,
}

// EmergencyProfileDAO handles database operations for emergency profiles
type EmergencyProfileDAO struct {
	db *database.DB
}

// NewEmergencyProfileDAO creates a new EmergencyProfileDAO instance
func NewEmergencyProfileDAO(db *database.DB) *EmergencyProfileDAO {
	return &EmergencyProfileDAO{db: db}
}

// Get retrieves the emergency profile of a user
func (dao *EmergencyProfileDAO) Get(ctx context.Context, userID string) (*models.EmergencyProfile, error) {
	query := dao.db.Rebind(`
		SELECT USER_ID, NAME, BLOOD_GROUP, ALLERGIES, CHRONIC_CONDITIONS,
		       MEDICATIONS, EMERGENCY_CONTACTS, VISIBILITY, UPDATED_AT
		FROM EMERGENCY_PROFILE
		WHERE USER_ID = ?
	`)

	var profile models.EmergencyProfile
	if err := dao.db.GetContext(ctx, &profile, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get emergency profile: %w", err)
	}

	return &profile, nil
}

// Upsert creates or replaces the emergency profile of profile.UserID
func (dao *EmergencyProfileDAO) Upsert(ctx context.Context, profile *models.EmergencyProfile) error {
	query := dao.db.Rebind(upsertEmergencyProfileQuery.GetQuery(dao.db.Type()))

	_, err := dao.db.ExecContext(
		ctx,
		query,
		profile.UserID,
		profile.Name,
		profile.BloodGroup,
		profile.Allergies,
		profile.ChronicConditions,
		profile.Medications,
		profile.EmergencyContacts,
		profile.Visibility,
		profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert emergency profile: %w", err)
	}

	return nil
}
