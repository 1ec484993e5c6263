package service

import (
	"context"
	"time"

	"github.com/healthtrack/healthtrack-api/internal/database"
	"github.com/healthtrack/healthtrack-api/internal/models"
)

// The interfaces below are satisfied by the DAOs in internal/dao and by the
// testify mocks in internal/service/mocks.

// TxRunner runs fn inside a database transaction
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(*database.Transaction) error) error
}

// ConsentReader looks up the consent of a doctor/patient pair
type ConsentReader interface {
	GetByPair(ctx context.Context, doctorID, patientID string) (*models.Consent, error)
}

// ConsentStore persists consents
type ConsentStore interface {
	ConsentReader
	CreateWithTx(ctx context.Context, tx *database.Transaction, consent *models.Consent) error
	GetByID(ctx context.Context, consentID string) (*models.Consent, error)
	GetByPairWithTx(ctx context.Context, tx *database.Transaction, doctorID, patientID string) (*models.Consent, error)
	UpdateStatusWithTx(ctx context.Context, tx *database.Transaction, consentID, patientID string, status models.ConsentStatus, updatedAt time.Time) error
	ListByPatientAndStatus(ctx context.Context, patientID string, status models.ConsentStatus) ([]models.Consent, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]models.Consent, error)
}

// StatusAuditStore persists consent status transitions
type StatusAuditStore interface {
	CreateWithTx(ctx context.Context, tx *database.Transaction, audit *models.ConsentStatusAudit) error
	GetByConsentID(ctx context.Context, consentID string) ([]models.ConsentStatusAudit, error)
}

// UserStore persists users
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, userID string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByIDs(ctx context.Context, userIDs []string) (map[string]models.User, error)
	Search(ctx context.Context, role models.Role, term string) ([]models.User, error)
}

// RecordStore persists health records
type RecordStore interface {
	Create(ctx context.Context, record *models.Record) error
	GetByID(ctx context.Context, userID, recordID string) (*models.Record, error)
	ListByUser(ctx context.Context, userID string) ([]models.Record, error)
	Delete(ctx context.Context, userID, recordID string) error
}

// EmergencyProfileStore persists emergency profiles
type EmergencyProfileStore interface {
	Get(ctx context.Context, userID string) (*models.EmergencyProfile, error)
	Upsert(ctx context.Context, profile *models.EmergencyProfile) error
}

// FamilyMemberStore persists family members
type FamilyMemberStore interface {
	Create(ctx context.Context, member *models.FamilyMember) error
	GetByID(ctx context.Context, userID, memberID string) (*models.FamilyMember, error)
	ListByUser(ctx context.Context, userID string) ([]models.FamilyMember, error)
	SetEmergencyProfile(ctx context.Context, userID, memberID string, enabled bool) error
}

// AuditRecorder is the record access log. Record never blocks and never fails.
type AuditRecorder interface {
	Record(entry models.AuditEntry)
	Query(ctx context.Context, recordID string) ([]models.AuditEntry, error)
}
