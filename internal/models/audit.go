package models

import "time"

// Audit log defaults applied when a caller omits a field
const (
	AuditActionViewed      = "VIEWED"
	AuditDefaultUsername   = "System"
	AuditAnonymousViewerID = "anonymous"
)

// AuditEntry is a record access event. Entries are append-only.
type AuditEntry struct {
	ID        string    `json:"id" bson:"_id"`
	RecordID  string    `json:"recordId" bson:"recordId"`
	ViewerID  string    `json:"viewerId" bson:"viewerId"`
	Username  string    `json:"username" bson:"username"`
	Action    string    `json:"action" bson:"action"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// AuditLogRequest is the payload of POST /api/audit/:recordId
type AuditLogRequest struct {
	ViewerID string `json:"viewerId"`
	Action   string `json:"action"`
	Username string `json:"username"`
}
