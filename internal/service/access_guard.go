package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/healthtrack/healthtrack-api/internal/dao"
	"github.com/healthtrack/healthtrack-api/internal/models"
	"github.com/healthtrack/healthtrack-api/internal/serviceerror"
)

// AccessDeniedMessage is returned when a doctor reads records without an approved consent
const AccessDeniedMessage = "Access Denied. You do not have approved consent to view this patient's records."

// AccessGuard decides whether a doctor may read a patient's records
type AccessGuard struct {
	consents ConsentReader
	logger   *logrus.Logger
}

// NewAccessGuard creates a new AccessGuard
func NewAccessGuard(consents ConsentReader, logger *logrus.Logger) *AccessGuard {
	return &AccessGuard{consents: consents, logger: logger}
}

// Authorize reports whether the pair's consent is APPROVED. A missing consent
// is not an error; only storage failures are.
func (g *AccessGuard) Authorize(ctx context.Context, doctorID, patientID string) (bool, error) {
	consent, err := g.consents.GetByPair(ctx, doctorID, patientID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return false, nil
		}
		return false, serviceerror.Wrap(serviceerror.PersistenceError, err, "Failed to check consent")
	}
	return consent.Status == models.ConsentStatusApproved, nil
}

// Require fails with AccessDenied unless Authorize returns true
func (g *AccessGuard) Require(ctx context.Context, doctorID, patientID string) error {
	ok, err := g.Authorize(ctx, doctorID, patientID)
	if err != nil {
		return err
	}
	if !ok {
		g.logger.WithFields(logrus.Fields{
			"doctor_id":  doctorID,
			"patient_id": patientID,
		}).Warn("Record access denied")
		return serviceerror.CustomServiceError(serviceerror.AccessDenied, AccessDeniedMessage)
	}
	return nil
}
