package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/healthtrack/healthtrack-api/internal/dao"
	"github.com/healthtrack/healthtrack-api/internal/database"
	"github.com/healthtrack/healthtrack-api/internal/models"
	"github.com/healthtrack/healthtrack-api/internal/serviceerror"
	"github.com/healthtrack/healthtrack-api/pkg/utils"
)

const (
	msgAccessRequested   = "Access request sent successfully"
	msgAccessReRequested = "Access request sent (Re-requested)"
)

// ConsentService handles business logic for doctor/patient consent
type ConsentService struct {
	consentDAO     ConsentStore
	statusAuditDAO StatusAuditStore
	userDAO        UserStore
	db             TxRunner
	logger         *logrus.Logger
}

// NewConsentService creates a new consent service instance
func NewConsentService(
	consentDAO ConsentStore,
	statusAuditDAO StatusAuditStore,
	userDAO UserStore,
	db TxRunner,
	logger *logrus.Logger,
) *ConsentService {
	return &ConsentService{
		consentDAO:     consentDAO,
		statusAuditDAO: statusAuditDAO,
		userDAO:        userDAO,
		db:             db,
		logger:         logger,
	}
}

// RequestAccess opens a consent request from a doctor to a patient.
// A PENDING or APPROVED consent for the pair is reported as DuplicateRequest;
// a REJECTED one is reopened as PENDING under the same ID.
func (s *ConsentService) RequestAccess(ctx context.Context, doctorID, patientID string) (*models.RequestAccessResult, error) {
	if err := utils.ValidateID("doctorId", doctorID); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.InvalidRequest, err.Error())
	}
	if err := utils.ValidateID("patientId", patientID); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.InvalidRequest, err.Error())
	}
	if doctorID == patientID {
		return nil, serviceerror.CustomServiceError(serviceerror.InvalidRequest, "doctorId and patientId must differ")
	}

	if err := s.requireRole(ctx, doctorID, models.RoleDoctor, serviceerror.AccessDenied, "Only doctors can request access"); err != nil {
		return nil, err
	}
	if err := s.requireRole(ctx, patientID, models.RolePatient, serviceerror.NotFound, "Patient not found"); err != nil {
		return nil, err
	}

	var result *models.RequestAccessResult
	err := s.db.WithTransaction(ctx, func(tx *database.Transaction) error {
		existing, err := s.consentDAO.GetByPairWithTx(ctx, tx, doctorID, patientID)
		switch {
		case errors.Is(err, dao.ErrNotFound):
			result, err = s.createRequest(ctx, tx, doctorID, patientID)
			return err
		case err != nil:
			return err
		case existing.Status.BlocksRequest():
			return duplicateRequestError(existing.Status)
		default:
			result, err = s.reopenRequest(ctx, tx, existing, doctorID)
			return err
		}
	})

	if errors.Is(err, dao.ErrDuplicateKey) {
		// Another request for the pair committed first
		return nil, s.duplicateFromWinner(ctx, doctorID, patientID)
	}
	if err != nil {
		var se *serviceerror.ServiceError
		if errors.As(err, &se) {
			return nil, se
		}
		return nil, serviceerror.Wrap(serviceerror.PersistenceError, err, "Failed to request access")
	}

	s.logger.WithFields(logrus.Fields{
		"consent_id":   result.Consent.ID,
		"doctor_id":    doctorID,
		"patient_id":   patientID,
		"re_requested": result.ReRequested,
	}).Info("Access requested")

	return result, nil
}

func (s *ConsentService) createRequest(ctx context.Context, tx *database.Transaction, doctorID, patientID string) (*models.RequestAccessResult, error) {
	now := utils.Now()
	consent := &models.Consent{
		ID:        utils.GenerateConsentID(),
		DoctorID:  doctorID,
		PatientID: patientID,
		Status:    models.ConsentStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.consentDAO.CreateWithTx(ctx, tx, consent); err != nil {
		return nil, err
	}

	if err := s.writeAudit(ctx, tx, consent, nil, doctorID, models.AuditReasonRequested); err != nil {
		return nil, err
	}

	return &models.RequestAccessResult{
		Consent: consent,
		Status:  consent.Status,
		Message: msgAccessRequested,
	}, nil
}

func (s *ConsentService) reopenRequest(ctx context.Context, tx *database.Transaction, existing *models.Consent, doctorID string) (*models.RequestAccessResult, error) {
	previous := existing.Status
	consent := *existing
	consent.Status = models.ConsentStatusPending
	consent.UpdatedAt = utils.Now()

	if err := s.consentDAO.UpdateStatusWithTx(ctx, tx, consent.ID, consent.PatientID, consent.Status, consent.UpdatedAt); err != nil {
		return nil, err
	}

	if err := s.writeAudit(ctx, tx, &consent, &previous, doctorID, models.AuditReasonReRequested); err != nil {
		return nil, err
	}

	return &models.RequestAccessResult{
		Consent:     &consent,
		Status:      consent.Status,
		ReRequested: true,
		Message:     msgAccessReRequested,
	}, nil
}

func (s *ConsentService) duplicateFromWinner(ctx context.Context, doctorID, patientID string) error {
	winner, err := s.consentDAO.GetByPair(ctx, doctorID, patientID)
	if err != nil {
		return serviceerror.Wrap(serviceerror.PersistenceError, err, "Failed to request access")
	}
	return duplicateRequestError(winner.Status)
}

func duplicateRequestError(status models.ConsentStatus) error {
	return serviceerror.CustomServiceError(serviceerror.DuplicateRequest,
		fmt.Sprintf("Request already exists with status: %s", status))
}

// RespondToRequest records a patient's decision on a consent addressed to them.
// A consent that does not exist or belongs to another patient is NotFound.
func (s *ConsentService) RespondToRequest(ctx context.Context, consentID, subjectID, decision string) (*models.Consent, error) {
	status, err := models.ParseConsentStatus(decision)
	if err != nil || !status.IsDecision() {
		return nil, serviceerror.CustomServiceError(serviceerror.InvalidDecision, "Invalid status")
	}

	existing, err := s.consentDAO.GetByID(ctx, consentID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return nil, requestNotFound()
		}
		return nil, serviceerror.Wrap(serviceerror.PersistenceError, err, "Failed to load consent")
	}
	if existing.PatientID != subjectID {
		return nil, requestNotFound()
	}

	previous := existing.Status
	consent := *existing
	consent.Status = status
	consent.UpdatedAt = utils.Now()

	reason := models.AuditReasonApproved
	if status == models.ConsentStatusRejected {
		reason = models.AuditReasonRejected
	}

	err = s.db.WithTransaction(ctx, func(tx *database.Transaction) error {
		if err := s.consentDAO.UpdateStatusWithTx(ctx, tx, consent.ID, subjectID, consent.Status, consent.UpdatedAt); err != nil {
			return err
		}
		return s.writeAudit(ctx, tx, &consent, &previous, subjectID, reason)
	})
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return nil, requestNotFound()
		}
		return nil, serviceerror.Wrap(serviceerror.PersistenceError, err, "Failed to update consent")
	}

	s.logger.WithFields(logrus.Fields{
		"consent_id":      consent.ID,
		"patient_id":      subjectID,
		"previous_status": previous,
		"status":          consent.Status,
	}).Info("Consent decision recorded")

	return &consent, nil
}

func requestNotFound() error {
	return serviceerror.CustomServiceError(serviceerror.NotFound, "Request not found")
}

// ListPendingForPatient returns the pending requests addressed to a patient,
// newest first, each with the requesting doctor's name
func (s *ConsentService) ListPendingForPatient(ctx context.Context, patientID string) ([]models.PendingConsent, error) {
	if err := utils.ValidateID("patientId", patientID); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.InvalidRequest, err.Error())
	}

	consents, err := s.consentDAO.ListByPatientAndStatus(ctx, patientID, models.ConsentStatusPending)
	if err != nil {
		return nil, serviceerror.Wrap(serviceerror.PersistenceError, err, "Failed to list pending requests")
	}

	doctorIDs := make([]string, 0, len(consents))
	seen := make(map[string]bool, len(consents))
	for _, c := range consents {
		if !seen[c.DoctorID] {
			seen[c.DoctorID] = true
			doctorIDs = append(doctorIDs, c.DoctorID)
		}
	}

	doctors, err := s.userDAO.GetByIDs(ctx, doctorIDs)
	if err != nil {
		return nil, serviceerror.Wrap(serviceerror.PersistenceError, err, "Failed to load requesting doctors")
	}

	pending := make([]models.PendingConsent, 0, len(consents))
	for _, c := range consents {
		name := models.UnknownDoctorName
		if doctor, ok := doctors[c.DoctorID]; ok {
			name = doctor.Name
		}
		pending = append(pending, models.PendingConsent{Consent: c, DoctorName: name})
	}

	return pending, nil
}

// GetHistory returns the status transitions of a consent, newest first.
// Only the doctor and the patient of the consent may read it.
func (s *ConsentService) GetHistory(ctx context.Context, consentID, actorID string) ([]models.ConsentStatusAudit, error) {
	consent, err := s.consentDAO.GetByID(ctx, consentID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return nil, requestNotFound()
		}
		return nil, serviceerror.Wrap(serviceerror.PersistenceError, err, "Failed to load consent")
	}
	if actorID != consent.DoctorID && actorID != consent.PatientID {
		return nil, requestNotFound()
	}

	history, err := s.statusAuditDAO.GetByConsentID(ctx, consentID)
	if err != nil {
		return nil, serviceerror.Wrap(serviceerror.PersistenceError, err, "Failed to load consent history")
	}
	return history, nil
}

// requireRole fails with failure unless userID exists with the given role
func (s *ConsentService) requireRole(ctx context.Context, userID string, role models.Role, failure *serviceerror.ServiceError, description string) error {
	user, err := s.userDAO.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return serviceerror.CustomServiceError(failure, description)
		}
		return serviceerror.Wrap(serviceerror.PersistenceError, err, "Failed to load user")
	}
	if user.Role != role {
		return serviceerror.CustomServiceError(failure, description)
	}
	return nil
}

func (s *ConsentService) writeAudit(ctx context.Context, tx *database.Transaction, consent *models.Consent, previous *models.ConsentStatus, actionBy, reason string) error {
	audit := &models.ConsentStatusAudit{
		StatusAuditID:  utils.GenerateAuditID(),
		ConsentID:      consent.ID,
		PreviousStatus: previous,
		CurrentStatus:  consent.Status,
		ActionBy:       actionBy,
		Reason:         reason,
		ActionTime:     consent.UpdatedAt,
	}
	if err := s.statusAuditDAO.CreateWithTx(ctx, tx, audit); err != nil {
		return fmt.Errorf("failed to create audit record: %w", err)
	}
	return nil
}
