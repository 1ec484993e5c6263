package dao

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/healthtrack/healthtrack-api/internal/database"
	"github.com/healthtrack/healthtrack-api/internal/models"
)

const consentColumns = `CONSENT_ID, DOCTOR_ID, PATIENT_ID, STATUS, CREATED_AT, UPDATED_AT`

// ConsentDAO handles database operations for consents
type ConsentDAO struct {
	db *database.DB
}

// NewConsentDAO creates a new ConsentDAO instance
func NewConsentDAO(db *database.DB) *ConsentDAO {
	return &ConsentDAO{db: db}
}

// CreateWithTx inserts a new consent using a transaction. A second consent
// for the same pair fails with ErrDuplicateKey.
func (dao *ConsentDAO) CreateWithTx(ctx context.Context, tx *database.Transaction, consent *models.Consent) error {
	query := tx.Rebind(`
		INSERT INTO CONSENT (` + consentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?)
	`)

	_, err := tx.ExecContext(
		ctx,
		query,
		consent.ID,
		consent.DoctorID,
		consent.PatientID,
		consent.Status,
		consent.CreatedAt,
		consent.UpdatedAt,
	)
	if err != nil {
		if database.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("failed to create consent: %w", err)
	}

	return nil
}

// GetByID retrieves a consent by ID
func (dao *ConsentDAO) GetByID(ctx context.Context, consentID string) (*models.Consent, error) {
	query := dao.db.Rebind(`SELECT ` + consentColumns + ` FROM CONSENT WHERE CONSENT_ID = ?`)

	var consent models.Consent
	if err := dao.db.GetContext(ctx, &consent, query, consentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get consent: %w", err)
	}

	return &consent, nil
}

// GetByPair retrieves the consent for a doctor/patient pair
func (dao *ConsentDAO) GetByPair(ctx context.Context, doctorID, patientID string) (*models.Consent, error) {
	return dao.getByPair(ctx, dao.db, doctorID, patientID)
}

// GetByPairWithTx retrieves the consent for a doctor/patient pair using a transaction
func (dao *ConsentDAO) GetByPairWithTx(ctx context.Context, tx *database.Transaction, doctorID, patientID string) (*models.Consent, error) {
	return dao.getByPair(ctx, tx, doctorID, patientID)
}

func (dao *ConsentDAO) getByPair(ctx context.Context, ext sqlx.ExtContext, doctorID, patientID string) (*models.Consent, error) {
	query := ext.Rebind(`
		SELECT ` + consentColumns + `
		FROM CONSENT
		WHERE DOCTOR_ID = ? AND PATIENT_ID = ?
	`)

	var consent models.Consent
	if err := sqlx.GetContext(ctx, ext, &consent, query, doctorID, patientID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get consent by pair: %w", err)
	}

	return &consent, nil
}

// UpdateStatusWithTx sets the status of a consent addressed to patientID.
// It returns ErrNotFound when no such consent exists.
func (dao *ConsentDAO) UpdateStatusWithTx(ctx context.Context, tx *database.Transaction, consentID, patientID string, status models.ConsentStatus, updatedAt time.Time) error {
	query := tx.Rebind(`
		UPDATE CONSENT
		SET STATUS = ?, UPDATED_AT = ?
		WHERE CONSENT_ID = ? AND PATIENT_ID = ?
	`)

	result, err := tx.ExecContext(ctx, query, status, updatedAt, consentID, patientID)
	if err != nil {
		return fmt.Errorf("failed to update consent status: %w", err)
	}

	return requireAffected(result)
}

// ListByPatientAndStatus retrieves a patient's consents in one status, newest first
func (dao *ConsentDAO) ListByPatientAndStatus(ctx context.Context, patientID string, status models.ConsentStatus) ([]models.Consent, error) {
	query := dao.db.Rebind(`
		SELECT ` + consentColumns + `
		FROM CONSENT
		WHERE PATIENT_ID = ? AND STATUS = ?
		ORDER BY CREATED_AT DESC
	`)

	consents := []models.Consent{}
	if err := dao.db.SelectContext(ctx, &consents, query, patientID, status); err != nil {
		return nil, fmt.Errorf("failed to list consents by patient: %w", err)
	}

	return consents, nil
}

// ListByDoctor retrieves every consent requested by a doctor, most recently updated first
func (dao *ConsentDAO) ListByDoctor(ctx context.Context, doctorID string) ([]models.Consent, error) {
	query := dao.db.Rebind(`
		SELECT ` + consentColumns + `
		FROM CONSENT
		WHERE DOCTOR_ID = ?
		ORDER BY UPDATED_AT DESC
	`)

	consents := []models.Consent{}
	if err := dao.db.SelectContext(ctx, &consents, query, doctorID); err != nil {
		return nil, fmt.Errorf("failed to list consents by doctor: %w", err)
	}

	return consents, nil
}
