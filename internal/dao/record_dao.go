package dao

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/healthtrack/healthtrack-api/internal/database"
	"github.com/healthtrack/healthtrack-api/internal/models"
)

const recordColumns = `RECORD_ID, USER_ID, TITLE, RECORD_TYPE, PROVIDER_NAME, TAGS,
	FILE_URL, FILE_HASH, BLOCKCHAIN_VERIFIED, CREATED_AT`

// RecordDAO handles database operations for health records
type RecordDAO struct {
	db *database.DB
}

// NewRecordDAO creates a new RecordDAO instance
func NewRecordDAO(db *database.DB) *RecordDAO {
	return &RecordDAO{db: db}
}

// Create inserts a new health record
func (dao *RecordDAO) Create(ctx context.Context, record *models.Record) error {
	query := dao.db.Rebind(`
		INSERT INTO HEALTH_RECORD (` + recordColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := dao.db.ExecContext(
		ctx,
		query,
		record.ID,
		record.UserID,
		record.Title,
		record.Type,
		record.ProviderName,
		record.Tags,
		record.FileURL,
		record.FileHash,
		record.BlockchainVerified,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create record: %w", err)
	}

	return nil
}

// GetByID retrieves a record owned by userID
func (dao *RecordDAO) GetByID(ctx context.Context, userID, recordID string) (*models.Record, error) {
	query := dao.db.Rebind(`
		SELECT ` + recordColumns + `
		FROM HEALTH_RECORD
		WHERE RECORD_ID = ? AND USER_ID = ?
	`)

	var record models.Record
	if err := dao.db.GetContext(ctx, &record, query, recordID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get record: %w", err)
	}

	return &record, nil
}

// ListByUser retrieves a user's records, newest first
func (dao *RecordDAO) ListByUser(ctx context.Context, userID string) ([]models.Record, error) {
	query := dao.db.Rebind(`
		SELECT ` + recordColumns + `
		FROM HEALTH_RECORD
		WHERE USER_ID = ?
		ORDER BY CREATED_AT DESC
	`)

	records := []models.Record{}
	if err := dao.db.SelectContext(ctx, &records, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	return records, nil
}

// Delete removes a record owned by userID
func (dao *RecordDAO) Delete(ctx context.Context, userID, recordID string) error {
	query := dao.db.Rebind(`DELETE FROM HEALTH_RECORD WHERE RECORD_ID = ? AND USER_ID = ?`)

	result, err := dao.db.ExecContext(ctx, query, recordID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}

	return requireAffected(result)
}
