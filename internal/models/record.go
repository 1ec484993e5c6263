package models

import (
	"fmt"
	"strings"
	"time"
)

// RecordType is the kind of health record
type RecordType string

const (
	RecordTypePrescription RecordType = "PRESCRIPTION"
	RecordTypeLabReport    RecordType = "LAB_REPORT"
	RecordTypeScan         RecordType = "SCAN"
	RecordTypeCertificate  RecordType = "CERTIFICATE"
	RecordTypeVaccination  RecordType = "VACCINATION"
	RecordTypeBill         RecordType = "BILL"
)

var recordTypes = []RecordType{
	RecordTypePrescription,
	RecordTypeLabReport,
	RecordTypeScan,
	RecordTypeCertificate,
	RecordTypeVaccination,
	RecordTypeBill,
}

// ParseRecordType parses a record type name case-insensitively
func ParseRecordType(s string) (RecordType, error) {
	candidate := RecordType(strings.ToUpper(strings.TrimSpace(s)))
	for _, t := range recordTypes {
		if t == candidate {
			return t, nil
		}
	}
	return "", fmt.Errorf("invalid record type: %q", s)
}

// Record represents the HEALTH_RECORD table
type Record struct {
	ID                 string     `db:"RECORD_ID" json:"id"`
	UserID             string     `db:"USER_ID" json:"userId"`
	Title              string     `db:"TITLE" json:"title"`
	Type               RecordType `db:"RECORD_TYPE" json:"type"`
	ProviderName       string     `db:"PROVIDER_NAME" json:"providerName"`
	Tags               StringList `db:"TAGS" json:"tags"`
	FileURL            *string    `db:"FILE_URL" json:"fileUrl,omitempty"`
	FileHash           *string    `db:"FILE_HASH" json:"fileHash,omitempty"`
	BlockchainVerified bool       `db:"BLOCKCHAIN_VERIFIED" json:"blockchainVerified"`
	CreatedAt          time.Time  `db:"CREATED_AT" json:"createdAt"`
}

// RecordCreateRequest is the payload of POST /api/users/:userId/records
type RecordCreateRequest struct {
	Title        string   `json:"title" binding:"required"`
	Type         string   `json:"type" binding:"required"`
	ProviderName string   `json:"providerName" binding:"required"`
	Tags         []string `json:"tags,omitempty"`
	FileURL      string   `json:"fileUrl,omitempty"`
	FileHash     string   `json:"fileHash,omitempty"`

	BlockchainVerified bool `json:"blockchainVerified,omitempty"`
}
