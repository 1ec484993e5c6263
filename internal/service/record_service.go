package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/healthtrack/healthtrack-api/internal/dao"
	"github.com/healthtrack/healthtrack-api/internal/models"
	"github.com/healthtrack/healthtrack-api/internal/serviceerror"
	"github.com/healthtrack/healthtrack-api/pkg/utils"
)

const (
	minTitleLength        = 3
	minProviderNameLength = 2
	msgRecordFieldsNeeded = "title, type and providerName are required"
)

// RecordService manages a user's own health records
type RecordService struct {
	recordDAO RecordStore
	audit     AuditRecorder
	logger    *logrus.Logger
}

// NewRecordService creates a new record service instance
func NewRecordService(recordDAO RecordStore, audit AuditRecorder, logger *logrus.Logger) *RecordService {
	return &RecordService{recordDAO: recordDAO, audit: audit, logger: logger}
}

// ListRecords returns the owner's records, newest first
func (s *RecordService) ListRecords(ctx context.Context, actor *models.User, ownerID string) ([]models.Record, error) {
	if err := requireOwner(actor, ownerID); err != nil {
		return nil, err
	}

	records, err := s.recordDAO.ListByUser(ctx, ownerID)
	if err != nil {
		return nil, serviceerror.Wrap(serviceerror.PersistenceError, err, "Failed to list records")
	}
	return records, nil
}

// GetRecord returns one record and logs a VIEWED audit event for it
func (s *RecordService) GetRecord(ctx context.Context, actor *models.User, ownerID, recordID string) (*models.Record, error) {
	if err := requireOwner(actor, ownerID); err != nil {
		return nil, err
	}

	record, err := s.recordDAO.GetByID(ctx, ownerID, recordID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return nil, recordNotFound()
		}
		return nil, serviceerror.Wrap(serviceerror.PersistenceError, err, "Failed to load record")
	}

	s.audit.Record(models.AuditEntry{
		RecordID: record.ID,
		ViewerID: actor.ID,
		Username: actor.Name,
		Action:   models.AuditActionViewed,
	})

	return record, nil
}

// GetAccessLog returns who accessed a record, newest first. Only the record
// owner may read it; anyone else gets NotFound.
func (s *RecordService) GetAccessLog(ctx context.Context, actor *models.User, recordID string) ([]models.AuditEntry, error) {
	if actor == nil {
		return nil, serviceerror.CustomServiceError(serviceerror.AccessDenied, msgOwnDataOnly)
	}

	if _, err := s.recordDAO.GetByID(ctx, actor.ID, recordID); err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return nil, recordNotFound()
		}
		return nil, serviceerror.Wrap(serviceerror.PersistenceError, err, "Failed to load record")
	}

	entries, err := s.audit.Query(ctx, recordID)
	if err != nil {
		return nil, serviceerror.Wrap(serviceerror.PersistenceError, err, "Failed to read audit log")
	}
	return entries, nil
}

// CreateRecord validates and stores a new record for the owner
func (s *RecordService) CreateRecord(ctx context.Context, actor *models.User, ownerID string, req *models.RecordCreateRequest) (*models.Record, error) {
	if err := requireOwner(actor, ownerID); err != nil {
		return nil, err
	}

	title := utils.SanitizeString(req.Title)
	providerName := utils.SanitizeString(req.ProviderName)
	if title == "" || providerName == "" || req.Type == "" {
		return nil, serviceerror.CustomServiceError(serviceerror.InvalidRequest, msgRecordFieldsNeeded)
	}
	if err := utils.ValidateMinLength("title", title, minTitleLength); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.InvalidRequest, err.Error())
	}
	if err := utils.ValidateMinLength("providerName", providerName, minProviderNameLength); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.InvalidRequest, err.Error())
	}
	recordType, err := models.ParseRecordType(req.Type)
	if err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.InvalidRequest, err.Error())
	}

	record := &models.Record{
		ID:                 utils.GenerateRecordID(),
		UserID:             ownerID,
		Title:              title,
		Type:               recordType,
		ProviderName:       providerName,
		Tags:               models.StringList(req.Tags),
		BlockchainVerified: req.BlockchainVerified,
		CreatedAt:          utils.Now(),
	}
	if req.FileURL != "" {
		fileURL := req.FileURL
		record.FileURL = &fileURL
	}
	if req.FileHash != "" {
		fileHash := req.FileHash
		record.FileHash = &fileHash
	}

	if err := s.recordDAO.Create(ctx, record); err != nil {
		return nil, serviceerror.Wrap(serviceerror.PersistenceError, err, "Failed to create record")
	}

	s.logger.WithFields(logrus.Fields{
		"record_id": record.ID,
		"user_id":   ownerID,
		"type":      record.Type,
	}).Info("Record created")

	return record, nil
}

// DeleteRecord removes one of the owner's records
func (s *RecordService) DeleteRecord(ctx context.Context, actor *models.User, ownerID, recordID string) error {
	if err := requireOwner(actor, ownerID); err != nil {
		return err
	}

	if err := s.recordDAO.Delete(ctx, ownerID, recordID); err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return recordNotFound()
		}
		return serviceerror.Wrap(serviceerror.PersistenceError, err, "Failed to delete record")
	}

	s.logger.WithFields(logrus.Fields{
		"record_id": recordID,
		"user_id":   ownerID,
	}).Info("Record deleted")
	return nil
}

func recordNotFound() error {
	return serviceerror.CustomServiceError(serviceerror.NotFound, "Record not found")
}

const msgOwnDataOnly = "You can only access your own data"

// requireOwner fails with AccessDenied unless actor is the user addressed by the route
func requireOwner(actor *models.User, ownerID string) error {
	if actor == nil || actor.ID != ownerID {
		return serviceerror.CustomServiceError(serviceerror.AccessDenied, msgOwnDataOnly)
	}
	return nil
}
