package utils

import (
	"github.com/google/uuid"
)

// GenerateID generates a new UUID
func GenerateID() string {
	return uuid.New().String()
}

// GenerateConsentID generates a unique consent ID
func GenerateConsentID() string {
	return "CONSENT-" + uuid.New().String()
}

// GenerateAuditID generates a unique consent status audit ID
func GenerateAuditID() string {
	return "AUDIT-" + uuid.New().String()
}

// GenerateUserID generates a unique user ID
func GenerateUserID() string {
	return "USER-" + uuid.New().String()
}

// GenerateRecordID generates a unique health record ID
func GenerateRecordID() string {
	return "RECORD-" + uuid.New().String()
}

// GenerateFamilyMemberID generates a unique family member ID
func GenerateFamilyMemberID() string {
	return "FAMILY-" + uuid.New().String()
}
