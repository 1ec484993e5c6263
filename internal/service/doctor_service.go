package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/healthtrack/healthtrack-api/internal/models"
	"github.com/healthtrack/healthtrack-api/internal/serviceerror"
	"github.com/healthtrack/healthtrack-api/pkg/utils"
)

// DoctorService serves the doctor dashboard and consent-gated record reads
type DoctorService struct {
	consentDAO ConsentStore
	userDAO    UserStore
	recordDAO  RecordStore
	guard      *AccessGuard
	audit      AuditRecorder
	logger     *logrus.Logger
}

// NewDoctorService creates a new doctor service instance
func NewDoctorService(
	consentDAO ConsentStore,
	userDAO UserStore,
	recordDAO RecordStore,
	guard *AccessGuard,
	audit AuditRecorder,
	logger *logrus.Logger,
) *DoctorService {
	return &DoctorService{
		consentDAO: consentDAO,
		userDAO:    userDAO,
		recordDAO:  recordDAO,
		guard:      guard,
		audit:      audit,
		logger:     logger,
	}
}

// GetPatientRecords returns a patient's records, newest first, if the doctor
// holds an approved consent. Each returned record is logged as VIEWED.
func (s *DoctorService) GetPatientRecords(ctx context.Context, doctorID, viewerName, patientID string) ([]models.Record, error) {
	if err := utils.ValidateID("patientId", patientID); err != nil {
		return nil, serviceerror.CustomServiceError(serviceerror.InvalidRequest, err.Error())
	}

	if err := s.guard.Require(ctx, doctorID, patientID); err != nil {
		return nil, err
	}

	records, err := s.recordDAO.ListByUser(ctx, patientID)
	if err != nil {
		return nil, serviceerror.Wrap(serviceerror.PersistenceError, err, "Failed to list records")
	}

	for _, r := range records {
		s.audit.Record(models.AuditEntry{
			RecordID: r.ID,
			ViewerID: doctorID,
			Username: viewerName,
			Action:   models.AuditActionViewed,
		})
	}

	s.logger.WithFields(logrus.Fields{
		"doctor_id":  doctorID,
		"patient_id": patientID,
		"count":      len(records),
	}).Info("Patient records viewed")

	return records, nil
}

// SearchPatients finds patients matching query and annotates each with the
// doctor's consent status, NONE when no consent exists
func (s *DoctorService) SearchPatients(ctx context.Context, doctorID, query string) ([]models.PatientSummary, error) {
	patients, err := s.userDAO.Search(ctx, models.RolePatient, utils.SanitizeString(query))
	if err != nil {
		return nil, serviceerror.Wrap(serviceerror.PersistenceError, err, "Failed to search patients")
	}

	consents, err := s.consentDAO.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, serviceerror.Wrap(serviceerror.PersistenceError, err, "Failed to list consents")
	}
	statusByPatient := make(map[string]models.ConsentStatus, len(consents))
	for _, c := range consents {
		statusByPatient[c.PatientID] = c.Status
	}

	summaries := make([]models.PatientSummary, 0, len(patients))
	for _, p := range patients {
		status, ok := statusByPatient[p.ID]
		if !ok {
			status = models.ConsentStatusNone
		}
		summaries = append(summaries, models.PatientSummary{
			ID:            p.ID,
			Name:          p.Name,
			Email:         p.Email,
			AbhaID:        p.AbhaID,
			ConsentStatus: status,
		})
	}
	return summaries, nil
}

// GetDashboardStats summarises the doctor's consents
func (s *DoctorService) GetDashboardStats(ctx context.Context, doctorID string) (*models.DoctorStats, error) {
	consents, err := s.consentDAO.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, serviceerror.Wrap(serviceerror.PersistenceError, err, "Failed to list consents")
	}

	stats := &models.DoctorStats{RecentActivity: []models.ConsentActivity{}}
	patients := make(map[string]bool, len(consents))
	for _, c := range consents {
		patients[c.PatientID] = true
		switch c.Status {
		case models.ConsentStatusApproved:
			stats.ActiveConsents++
		case models.ConsentStatusPending:
			stats.PendingRequests++
		}
	}
	stats.TotalPatients = len(patients)

	// ListByDoctor orders by UPDATED_AT DESC
	recent := consents
	if len(recent) > models.RecentActivityLimit {
		recent = recent[:models.RecentActivityLimit]
	}
	if len(recent) == 0 {
		return stats, nil
	}

	ids := make([]string, 0, len(recent))
	for _, c := range recent {
		ids = append(ids, c.PatientID)
	}
	names, err := s.userDAO.GetByIDs(ctx, ids)
	if err != nil {
		return nil, serviceerror.Wrap(serviceerror.PersistenceError, err, "Failed to load patients")
	}

	for _, c := range recent {
		name := models.UnknownPatientName
		if u, ok := names[c.PatientID]; ok {
			name = u.Name
		}
		stats.RecentActivity = append(stats.RecentActivity, models.ConsentActivity{
			ConsentID:   c.ID,
			PatientID:   c.PatientID,
			PatientName: name,
			Status:      c.Status,
			UpdatedAt:   c.UpdatedAt,
		})
	}
	return stats, nil
}
