package dao

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/healthtrack/healthtrack-api/internal/database"
	"github.com/healthtrack/healthtrack-api/internal/models"
)

const familyMemberColumns = `MEMBER_ID, USER_ID, NAME, RELATION, AGE, HAS_EMERGENCY_PROFILE, CREATED_AT`

// FamilyMemberDAO handles database operations for family members
type FamilyMemberDAO struct {
	db *database.DB
}

// NewFamilyMemberDAO creates a new FamilyMemberDAO instance
func NewFamilyMemberDAO(db *database.DB) *FamilyMemberDAO {
	return &FamilyMemberDAO{db: db}
}

// Create inserts a new family member
func (dao *FamilyMemberDAO) Create(ctx context.Context, member *models.FamilyMember) error {
	query := dao.db.Rebind(`
		INSERT INTO FAMILY_MEMBER (` + familyMemberColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := dao.db.ExecContext(
		ctx,
		query,
		member.ID,
		member.UserID,
		member.Name,
		member.Relation,
		member.Age,
		member.HasEmergencyProfile,
		member.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create family member: %w", err)
	}

	return nil
}

// GetByID retrieves a family member belonging to userID
func (dao *FamilyMemberDAO) GetByID(ctx context.Context, userID, memberID string) (*models.FamilyMember, error) {
	query := dao.db.Rebind(`
		SELECT ` + familyMemberColumns + `
		FROM FAMILY_MEMBER
		WHERE MEMBER_ID = ? AND USER_ID = ?
	`)

	var member models.FamilyMember
	if err := dao.db.GetContext(ctx, &member, query, memberID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get family member: %w", err)
	}

	return &member, nil
}

// ListByUser retrieves a user's family members in insertion order
func (dao *FamilyMemberDAO) ListByUser(ctx context.Context, userID string) ([]models.FamilyMember, error) {
	query := dao.db.Rebind(`
		SELECT ` + familyMemberColumns + `
		FROM FAMILY_MEMBER
		WHERE USER_ID = ?
		ORDER BY CREATED_AT ASC
	`)

	members := []models.FamilyMember{}
	if err := dao.db.SelectContext(ctx, &members, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list family members: %w", err)
	}

	return members, nil
}

// SetEmergencyProfile updates the emergency profile flag of a family member
func (dao *FamilyMemberDAO) SetEmergencyProfile(ctx context.Context, userID, memberID string, enabled bool) error {
	query := dao.db.Rebind(`
		UPDATE FAMILY_MEMBER
		SET HAS_EMERGENCY_PROFILE = ?
		WHERE MEMBER_ID = ? AND USER_ID = ?
	`)

	result, err := dao.db.ExecContext(ctx, query, enabled, memberID, userID)
	if err != nil {
		return fmt.Errorf("failed to update family member: %w", err)
	}

	return requireAffected(result)
}
