package models

import (
	"database/sql/driver"
	"time"
)

// UnknownUserName is stored on emergency profiles whose owner has no name
const UnknownUserName = "Unknown User"

// EmergencyContact is a person to call in an emergency
type EmergencyContact struct {
	Name     string `json:"name"`
	Relation string `json:"relation"`
	Phone    string `json:"phone"`
}

// ContactList is a list of emergency contacts stored as a JSON column
type ContactList []EmergencyContact

// Scan implements the sql.Scanner interface for ContactList
func (l *ContactList) Scan(value interface{}) error {
	var items []EmergencyContact
	if err := scanJSON(value, &items); err != nil {
		return err
	}
	if items == nil {
		items = []EmergencyContact{}
	}
	*l = items
	return nil
}

// Value implements the driver.Valuer interface for ContactList
func (l ContactList) Value() (driver.Value, error) {
	if l == nil {
		return jsonValue([]EmergencyContact{})
	}
	return jsonValue([]EmergencyContact(l))
}

// Visibility controls which emergency profile fields appear in the public view
type Visibility struct {
	BloodGroup        bool `json:"bloodGroup"`
	Allergies         bool `json:"allergies"`
	ChronicConditions bool `json:"chronicConditions"`
	Medications       bool `json:"medications"`
	EmergencyContacts bool `json:"emergencyContacts"`
}

// DefaultVisibility shows every field
func DefaultVisibility() Visibility {
	return Visibility{
		BloodGroup:        true,
		Allergies:         true,
		ChronicConditions: true,
		Medications:       true,
		EmergencyContacts: true,
	}
}

// Scan implements the sql.Scanner interface for Visibility
func (v *Visibility) Scan(value interface{}) error {
	if value == nil {
		*v = DefaultVisibility()
		return nil
	}
	return scanJSON(value, v)
}

// Value implements the driver.Valuer interface for Visibility
func (v Visibility) Value() (driver.Value, error) {
	return jsonValue(v)
}

// EmergencyProfile represents the EMERGENCY_PROFILE table, one row per user
type EmergencyProfile struct {
	UserID            string      `db:"USER_ID" json:"userId"`
	Name              string      `db:"NAME" json:"name"`
	BloodGroup        string      `db:"BLOOD_GROUP" json:"bloodGroup"`
	Allergies         StringList  `db:"ALLERGIES" json:"allergies"`
	ChronicConditions StringList  `db:"CHRONIC_CONDITIONS" json:"chronicConditions"`
	Medications       StringList  `db:"MEDICATIONS" json:"medications"`
	EmergencyContacts ContactList `db:"EMERGENCY_CONTACTS" json:"emergencyContacts"`
	Visibility        Visibility  `db:"VISIBILITY" json:"visibility"`
	UpdatedAt         time.Time   `db:"UPDATED_AT" json:"updatedAt"`
}

// PublicEmergencyProfile is the visibility-filtered view served without authentication
type PublicEmergencyProfile struct {
	UserID            string             `json:"userId"`
	Name              string             `json:"name"`
	BloodGroup        string             `json:"bloodGroup,omitempty"`
	Allergies         []string           `json:"allergies,omitempty"`
	ChronicConditions []string           `json:"chronicConditions,omitempty"`
	Medications       []string           `json:"medications,omitempty"`
	EmergencyContacts []EmergencyContact `json:"emergencyContacts,omitempty"`
	LastUpdated       time.Time          `json:"lastUpdated"`
}

// Public returns the view of p that respects its visibility settings
func (p *EmergencyProfile) Public() *PublicEmergencyProfile {
	public := &PublicEmergencyProfile{
		UserID:      p.UserID,
		Name:        p.Name,
		LastUpdated: p.UpdatedAt,
	}
	if p.Visibility.BloodGroup {
		public.BloodGroup = p.BloodGroup
	}
	if p.Visibility.Allergies {
		public.Allergies = p.Allergies
	}
	if p.Visibility.ChronicConditions {
		public.ChronicConditions = p.ChronicConditions
	}
	if p.Visibility.Medications {
		public.Medications = p.Medications
	}
	if p.Visibility.EmergencyContacts {
		public.EmergencyContacts = p.EmergencyContacts
	}
	return public
}

// EmergencyProfileRequest is the payload of POST /api/emergency/:userId.
// A nil Visibility keeps the stored settings.
type EmergencyProfileRequest struct {
	Name              string             `json:"name,omitempty"`
	BloodGroup        string             `json:"bloodGroup"`
	Allergies         []string           `json:"allergies,omitempty"`
	ChronicConditions []string           `json:"chronicConditions,omitempty"`
	Medications       []string           `json:"medications,omitempty"`
	EmergencyContacts []EmergencyContact `json:"emergencyContacts,omitempty"`
	Visibility        *Visibility        `json:"visibility,omitempty"`
}
