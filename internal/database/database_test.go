package database

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthtrack/healthtrack-api/internal/config"
)

func newMockDB(t *testing.T, dbType string) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)
	return New(sqlx.NewDb(mockDB, "sqlmock"), dbType, logger), mock
}

func TestWithTransaction_Commit(t *testing.T) {
	db, mock := newMockDB(t, config.DatabaseTypeMySQL)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE CONSENT").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := db.WithTransaction(context.Background(), func(tx *Transaction) error {
		_, err := tx.ExecContext(context.Background(), "UPDATE CONSENT SET STATUS = ?", "APPROVED")
		return err
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransaction_RollbackOnError(t *testing.T) {
	db, mock := newMockDB(t, config.DatabaseTypeMySQL)
	failure := errors.New("audit insert failed")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := db.WithTransaction(context.Background(), func(tx *Transaction) error {
		return failure
	})

	assert.ErrorIs(t, err, failure)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransaction_RollbackOnPanic(t *testing.T) {
	db, mock := newMockDB(t, config.DatabaseTypeMySQL)

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = db.WithTransaction(context.Background(), func(tx *Transaction) error {
			panic("boom")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate(t *testing.T) {
	for _, dbType := range []string{config.DatabaseTypeMySQL, config.DatabaseTypePostgres} {
		t.Run(dbType, func(t *testing.T) {
			db, mock := newMockDB(t, dbType)

			for _, stmt := range Schema {
				query := stmt.GetQuery(dbType)
				if query == "" {
					continue
				}
				mock.ExpectExec(regexp.QuoteMeta(query)).WillReturnResult(sqlmock.NewResult(0, 0))
			}

			require.NoError(t, db.Migrate(context.Background()))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestMigrate_StopsOnFailure(t *testing.T) {
	db, mock := newMockDB(t, config.DatabaseTypeMySQL)

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS USERS").WillReturnError(errors.New("permission denied"))

	err := db.Migrate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create-users")
}

func TestSchema_ConsentPairIsUnique(t *testing.T) {
	for _, stmt := range Schema {
		if stmt.ID == "create-consent" {
			assert.Contains(t, stmt.Query, "UNIQUE (DOCTOR_ID, PATIENT_ID)")
			assert.Contains(t, stmt.PostgresQuery, "UNIQUE (DOCTOR_ID, PATIENT_ID)")
			return
		}
	}
	t.Fatal("create-consent statement missing")
}

func TestIsDuplicateKeyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"mysql duplicate", &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, true},
		{"wrapped mysql duplicate", fmt.Errorf("insert: %w", &mysql.MySQLError{Number: 1062}), true},
		{"mysql other", &mysql.MySQLError{Number: 1146}, false},
		{"postgres unique violation", &pgconn.PgError{Code: "23505"}, true},
		{"postgres other", &pgconn.PgError{Code: "42P01"}, false},
		{"plain error", errors.New("duplicate"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDuplicateKeyError(tt.err))
		})
	}
}

func TestLogStats(t *testing.T) {
	mockDB, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	db := New(sqlx.NewDb(mockDB, "sqlmock"), config.DatabaseTypeMySQL, logger)

	db.LogStats()

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.DebugLevel, entry.Level)
	assert.Equal(t, "Database connection pool stats", entry.Message)
	assert.Contains(t, entry.Data, "open_connections")
	assert.Contains(t, entry.Data, "in_use")
}
