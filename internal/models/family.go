package models

import "time"

// FamilyMember represents the FAMILY_MEMBER table
type FamilyMember struct {
	ID                  string    `db:"MEMBER_ID" json:"id"`
	UserID              string    `db:"USER_ID" json:"userId"`
	Name                string    `db:"NAME" json:"name"`
	Relation            string    `db:"RELATION" json:"relation"`
	Age                 int       `db:"AGE" json:"age"`
	HasEmergencyProfile bool      `db:"HAS_EMERGENCY_PROFILE" json:"hasEmergencyProfile"`
	CreatedAt           time.Time `db:"CREATED_AT" json:"createdAt"`
}

// FamilyMemberRequest is the payload of POST /api/users/:userId/family
type FamilyMemberRequest struct {
	Name     string `json:"name"`
	Relation string `json:"relation"`
	Age      int    `json:"age"`

	HasEmergencyProfile bool `json:"hasEmergencyProfile,omitempty"`
}
