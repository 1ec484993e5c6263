package audit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/healthtrack/healthtrack-api/internal/models"
)

func newMemStore(t *testing.T) *LevelDBStore {
	t.Helper()
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	require.NoError(t, err)
	store := NewLevelDBStore(db)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func entryAt(id, recordID string, ts time.Time) models.AuditEntry {
	return models.AuditEntry{
		ID:        id,
		RecordID:  recordID,
		ViewerID:  "USER-doctor",
		Username:  "Dr. Sarah Smith",
		Action:    models.AuditActionViewed,
		Timestamp: ts,
	}
}

func TestLevelDBStore_ListByRecordNewestFirst(t *testing.T) {
	store := newMemStore(t)
	ctx := context.Background()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Append(ctx, entryAt("e2", "RECORD-1", base.Add(2*time.Minute))))
	require.NoError(t, store.Append(ctx, entryAt("e1", "RECORD-1", base)))
	require.NoError(t, store.Append(ctx, entryAt("e3", "RECORD-1", base.Add(5*time.Minute))))
	require.NoError(t, store.Append(ctx, entryAt("x1", "RECORD-2", base.Add(time.Hour))))

	entries, err := store.ListByRecord(ctx, "RECORD-1")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "e3", entries[0].ID)
	assert.Equal(t, "e2", entries[1].ID)
	assert.Equal(t, "e1", entries[2].ID)
	assert.True(t, base.Equal(entries[2].Timestamp))
	assert.Equal(t, "Dr. Sarah Smith", entries[0].Username)
}

func TestLevelDBStore_RecordIDPrefixesDoNotOverlap(t *testing.T) {
	store := newMemStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, store.Append(ctx, entryAt("a", "RECORD-1", now)))
	require.NoError(t, store.Append(ctx, entryAt("b", "RECORD-10", now)))

	entries, err := store.ListByRecord(ctx, "RECORD-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a", entries[0].ID)
}

func TestLevelDBStore_EmbeddedNULDoesNotLeakIntoRecord(t *testing.T) {
	store := newMemStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, store.Append(ctx, entryAt("a", "RECORD-1", now)))
	require.NoError(t, store.Append(ctx, entryAt("b", "RECORD-1\x00forged", now.Add(time.Second))))

	entries, err := store.ListByRecord(ctx, "RECORD-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a", entries[0].ID)

	entries, err = store.ListByRecord(ctx, "RECORD-1\x00forged")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "b", entries[0].ID)
}

func TestLevelDBStore_EmptyRecord(t *testing.T) {
	store := newMemStore(t)

	entries, err := store.ListByRecord(context.Background(), "RECORD-none")
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestLevelDBStore_AppendHonorsCancelledContext(t *testing.T) {
	store := newMemStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.Append(ctx, entryAt("a", "RECORD-1", time.Now()))
	assert.ErrorIs(t, err, context.Canceled)
}
