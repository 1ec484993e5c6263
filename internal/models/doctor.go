package models

import "time"

// UnknownPatientName is shown in dashboard activity for patients that no longer exist
const UnknownPatientName = "Unknown"

// RecentActivityLimit bounds the dashboard activity feed
const RecentActivityLimit = 5

// DoctorStats is the doctor dashboard summary
type DoctorStats struct {
	TotalPatients   int               `json:"totalPatients"`
	ActiveConsents  int               `json:"activeConsents"`
	PendingRequests int               `json:"pendingRequests"`
	RecentActivity  []ConsentActivity `json:"recentActivity"`
}

// ConsentActivity is one entry of the dashboard activity feed
type ConsentActivity struct {
	ConsentID   string        `json:"consentId"`
	PatientID   string        `json:"patientId"`
	PatientName string        `json:"patientName"`
	Status      ConsentStatus `json:"status"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}
