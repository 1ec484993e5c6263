package service

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/healthtrack/healthtrack-api/internal/dao"
	"github.com/healthtrack/healthtrack-api/internal/database"
	"github.com/healthtrack/healthtrack-api/internal/models"
	"github.com/healthtrack/healthtrack-api/internal/service/mocks"
)

const (
	testDoctorID  = "USER-doctor-1"
	testPatientID = "USER-patient-1"
)

// TestSetup contains common test dependencies
type TestSetup struct {
	MockConsentDAO     *mocks.MockConsentDAO
	MockStatusAuditDAO *mocks.MockStatusAuditDAO
	MockUserDAO        *mocks.MockUserDAO
	MockRecordDAO      *mocks.MockRecordDAO
	MockProfileDAO     *mocks.MockEmergencyProfileDAO
	MockFamilyDAO      *mocks.MockFamilyMemberDAO
	MockAudit          *mocks.MockAuditRecorder
	Tx                 *mocks.TxRunner
	Logger             *logrus.Logger
}

// NewTestSetup creates a new test setup with mocks
func NewTestSetup() *TestSetup {
	return &TestSetup{
		MockConsentDAO:     &mocks.MockConsentDAO{},
		MockStatusAuditDAO: &mocks.MockStatusAuditDAO{},
		MockUserDAO:        &mocks.MockUserDAO{},
		MockRecordDAO:      &mocks.MockRecordDAO{},
		MockProfileDAO:     &mocks.MockEmergencyProfileDAO{},
		MockFamilyDAO:      &mocks.MockFamilyMemberDAO{},
		MockAudit:          &mocks.MockAuditRecorder{},
		Tx:                 &mocks.TxRunner{},
		Logger:             newTestLogger(),
	}
}

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newUser(id string, role models.Role) *models.User {
	return &models.User{ID: id, Name: "Name of " + id, Email: strings.ToLower(id) + "@example.com", Role: role}
}

// memConsentStore is an in-memory ConsentStore that enforces the
// one-consent-per-pair constraint the way the database does
type memConsentStore struct {
	mu       sync.Mutex
	byID     map[string]*models.Consent
	byPair   map[[2]string]string
	statuses []models.ConsentStatusAudit
}

func newMemConsentStore() *memConsentStore {
	return &memConsentStore{
		byID:   map[string]*models.Consent{},
		byPair: map[[2]string]string{},
	}
}

func (s *memConsentStore) CreateWithTx(_ context.Context, _ *database.Transaction, consent *models.Consent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := [2]string{consent.DoctorID, consent.PatientID}
	if _, ok := s.byPair[key]; ok {
		return dao.ErrDuplicateKey
	}
	c := *consent
	s.byID[c.ID] = &c
	s.byPair[key] = c.ID
	return nil
}

func (s *memConsentStore) GetByID(_ context.Context, consentID string) (*models.Consent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[consentID]
	if !ok {
		return nil, dao.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *memConsentStore) GetByPair(ctx context.Context, doctorID, patientID string) (*models.Consent, error) {
	s.mu.Lock()
	id, ok := s.byPair[[2]string{doctorID, patientID}]
	s.mu.Unlock()
	if !ok {
		return nil, dao.ErrNotFound
	}
	return s.GetByID(ctx, id)
}

func (s *memConsentStore) GetByPairWithTx(ctx context.Context, _ *database.Transaction, doctorID, patientID string) (*models.Consent, error) {
	return s.GetByPair(ctx, doctorID, patientID)
}

func (s *memConsentStore) UpdateStatusWithTx(_ context.Context, _ *database.Transaction, consentID, patientID string, status models.ConsentStatus, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.byID[consentID]
	if !ok || c.PatientID != patientID {
		return dao.ErrNotFound
	}
	c.Status = status
	c.UpdatedAt = updatedAt
	return nil
}

func (s *memConsentStore) ListByPatientAndStatus(_ context.Context, patientID string, status models.ConsentStatus) ([]models.Consent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Consent
	for _, c := range s.byID {
		if c.PatientID == patientID && c.Status == status {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *memConsentStore) ListByDoctor(_ context.Context, doctorID string) ([]models.Consent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Consent
	for _, c := range s.byID {
		if c.DoctorID == doctorID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *memConsentStore) appendStatus(audit *models.ConsentStatusAudit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses = append(s.statuses, *audit)
}

func (s *memConsentStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

// memStatusAuditStore appends transitions to its consent store
type memStatusAuditStore struct {
	consents *memConsentStore
}

func (a *memStatusAuditStore) CreateWithTx(_ context.Context, _ *database.Transaction, audit *models.ConsentStatusAudit) error {
	a.consents.appendStatus(audit)
	return nil
}

func (a *memStatusAuditStore) GetByConsentID(_ context.Context, consentID string) ([]models.ConsentStatusAudit, error) {
	a.consents.mu.Lock()
	defer a.consents.mu.Unlock()
	var out []models.ConsentStatusAudit
	for i := len(a.consents.statuses) - 1; i >= 0; i-- {
		if a.consents.statuses[i].ConsentID == consentID {
			out = append(out, a.consents.statuses[i])
		}
	}
	return out, nil
}
