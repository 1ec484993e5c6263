package dao

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/healthtrack/healthtrack-api/internal/database"
	"github.com/healthtrack/healthtrack-api/internal/models"
)

const userColumns = `USER_ID, NAME, EMAIL, PASSWORD_HASH, ROLE, ABHA_ID, CREATED_AT, UPDATED_AT`

// likeEscaper escapes LIKE wildcards with '!', which both dialects accept in ESCAPE
var likeEscaper = strings.NewReplacer(`!`, `!!`, `%`, `!%`, `_`, `!_`)

// UserDAO handles database operations for users
type UserDAO struct {
	db *database.DB
}

// NewUserDAO creates a new UserDAO instance
func NewUserDAO(db *database.DB) *UserDAO {
	return &UserDAO{db: db}
}

// Create inserts a new user. A taken email fails with ErrDuplicateKey.
func (dao *UserDAO) Create(ctx context.Context, user *models.User) error {
	query := dao.db.Rebind(`
		INSERT INTO USERS (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := dao.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.AbhaID,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if database.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (dao *UserDAO) GetByID(ctx context.Context, userID string) (*models.User, error) {
	return dao.getOne(ctx, "USER_ID", userID)
}

// GetByEmail retrieves a user by email
func (dao *UserDAO) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return dao.getOne(ctx, "EMAIL", email)
}

func (dao *UserDAO) getOne(ctx context.Context, column, value string) (*models.User, error) {
	query := dao.db.Rebind(`SELECT ` + userColumns + ` FROM USERS WHERE ` + column + ` = ?`)

	var user models.User
	if err := dao.db.GetContext(ctx, &user, query, value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// GetByIDs retrieves the users with the given IDs keyed by ID. Unknown IDs are absent from the map.
func (dao *UserDAO) GetByIDs(ctx context.Context, userIDs []string) (map[string]models.User, error) {
	users := make(map[string]models.User, len(userIDs))
	if len(userIDs) == 0 {
		return users, nil
	}

	query, args, err := sqlx.In(`SELECT `+userColumns+` FROM USERS WHERE USER_ID IN (?)`, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build user query: %w", err)
	}

	var rows []models.User
	if err := dao.db.SelectContext(ctx, &rows, dao.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get users by IDs: %w", err)
	}

	for _, u := range rows {
		users[u.ID] = u
	}
	return users, nil
}

// Search retrieves users with the given role whose name or email contains
// term, ignoring case. An empty term matches every user with the role.
func (dao *UserDAO) Search(ctx context.Context, role models.Role, term string) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM USERS WHERE ROLE = ?`
	args := []interface{}{role}

	if term = strings.TrimSpace(term); term != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
		query += ` AND (LOWER(NAME) LIKE ? ESCAPE '!' OR LOWER(EMAIL) LIKE ? ESCAPE '!')`
		args = append(args, pattern, pattern)
	}
	query += ` ORDER BY NAME`

	users := []models.User{}
	if err := dao.db.SelectContext(ctx, &users, dao.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	return users, nil
}
