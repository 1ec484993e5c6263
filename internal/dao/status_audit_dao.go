package dao

import (
	"context"
	"fmt"

	"github.com/healthtrack/healthtrack-api/internal/database"
	"github.com/healthtrack/healthtrack-api/internal/models"
)

// StatusAuditDAO handles database operations for consent status audit
type StatusAuditDAO struct {
	db *database.DB
}

// NewStatusAuditDAO creates a new StatusAuditDAO instance
func NewStatusAuditDAO(db *database.DB) *StatusAuditDAO {
	return &StatusAuditDAO{db: db}
}

// CreateWithTx inserts a new status audit record using a transaction
func (dao *StatusAuditDAO) CreateWithTx(ctx context.Context, tx *database.Transaction, audit *models.ConsentStatusAudit) error {
	query := tx.Rebind(`
		INSERT INTO CONSENT_STATUS_AUDIT (
			STATUS_AUDIT_ID, CONSENT_ID, PREVIOUS_STATUS, CURRENT_STATUS,
			ACTION_BY, REASON, ACTION_TIME
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := tx.ExecContext(
		ctx,
		query,
		audit.StatusAuditID,
		audit.ConsentID,
		audit.PreviousStatus,
		audit.CurrentStatus,
		audit.ActionBy,
		audit.Reason,
		audit.ActionTime,
	)
	if err != nil {
		return fmt.Errorf("failed to create status audit with transaction: %w", err)
	}

	return nil
}

// GetByConsentID retrieves all status audit records for a consent, newest first
func (dao *StatusAuditDAO) GetByConsentID(ctx context.Context, consentID string) ([]models.ConsentStatusAudit, error) {
	query := dao.db.Rebind(`
		SELECT STATUS_AUDIT_ID, CONSENT_ID, PREVIOUS_STATUS, CURRENT_STATUS,
		       ACTION_BY, REASON, ACTION_TIME
		FROM CONSENT_STATUS_AUDIT
		WHERE CONSENT_ID = ?
		ORDER BY ACTION_TIME DESC
	`)

	audits := []models.ConsentStatusAudit{}
	if err := dao.db.SelectContext(ctx, &audits, query, consentID); err != nil {
		return nil, fmt.Errorf("failed to get status audits by consent ID: %w", err)
	}

	return audits, nil
}
