package models

import (
	"fmt"
	"strings"
	"time"
)

// ConsentStatus lists the consent lifecycle statuses
type ConsentStatus string

const (
	ConsentStatusPending  ConsentStatus = "PENDING"
	ConsentStatusApproved ConsentStatus = "APPROVED"
	ConsentStatusRejected ConsentStatus = "REJECTED"

	// ConsentStatusNone is reported for a doctor/patient pair with no consent.
	// It is never persisted.
	ConsentStatusNone ConsentStatus = "NONE"
)

// ParseConsentStatus parses a persisted status value
func ParseConsentStatus(s string) (ConsentStatus, error) {
	switch ConsentStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case ConsentStatusPending:
		return ConsentStatusPending, nil
	case ConsentStatusApproved:
		return ConsentStatusApproved, nil
	case ConsentStatusRejected:
		return ConsentStatusRejected, nil
	default:
		return "", fmt.Errorf("invalid consent status: %q", s)
	}
}

// IsDecision reports whether s is a status a patient may respond with
func (s ConsentStatus) IsDecision() bool {
	return s == ConsentStatusApproved || s == ConsentStatusRejected
}

// BlocksRequest reports whether a consent in status s prevents a new request
func (s ConsentStatus) BlocksRequest() bool {
	return s == ConsentStatusPending || s == ConsentStatusApproved
}

// Consent represents the CONSENT table. At most one row exists per
// (DOCTOR_ID, PATIENT_ID) pair.
type Consent struct {
	ID        string        `db:"CONSENT_ID" json:"id"`
	DoctorID  string        `db:"DOCTOR_ID" json:"doctorId"`
	PatientID string        `db:"PATIENT_ID" json:"patientId"`
	Status    ConsentStatus `db:"STATUS" json:"status"`
	CreatedAt time.Time     `db:"CREATED_AT" json:"createdAt"`
	UpdatedAt time.Time     `db:"UPDATED_AT" json:"updatedAt"`
}

// ConsentStatusAudit represents the CONSENT_STATUS_AUDIT table
type ConsentStatusAudit struct {
	StatusAuditID  string         `db:"STATUS_AUDIT_ID" json:"statusAuditId"`
	ConsentID      string         `db:"CONSENT_ID" json:"consentId"`
	PreviousStatus *ConsentStatus `db:"PREVIOUS_STATUS" json:"previousStatus,omitempty"`
	CurrentStatus  ConsentStatus  `db:"CURRENT_STATUS" json:"currentStatus"`
	ActionBy       string         `db:"ACTION_BY" json:"actionBy"`
	Reason         string         `db:"REASON" json:"reason"`
	ActionTime     time.Time      `db:"ACTION_TIME" json:"actionTime"`
}

// Reasons recorded on status audit rows
const (
	AuditReasonRequested   = "Access requested"
	AuditReasonReRequested = "Re-requested"
	AuditReasonApproved    = "Approved by patient"
	AuditReasonRejected    = "Rejected by patient"
)

// PendingConsent is a pending consent enriched with the requesting doctor's name
type PendingConsent struct {
	Consent
	DoctorName string `json:"doctorName"`
}

// UnknownDoctorName is shown when the requesting doctor no longer exists
const UnknownDoctorName = "Unknown Doctor"

// RequestAccessResult is the outcome of a successful access request
type RequestAccessResult struct {
	Consent     *Consent      `json:"consent"`
	Status      ConsentStatus `json:"status"`
	ReRequested bool          `json:"reRequested"`
	Message     string        `json:"message"`
}

// ConsentRequest is the payload of POST /api/consent/request
type ConsentRequest struct {
	DoctorID  string `json:"doctorId"`
	PatientID string `json:"patientId" binding:"required"`
}

// ConsentDecisionRequest is the payload of PUT /api/consent/:consentId
type ConsentDecisionRequest struct {
	Status string `json:"status"`
}
