package audit

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/healthtrack/healthtrack-api/internal/models"
)

// LevelDBStore keeps audit entries in an embedded LevelDB database.
//
// Keys are recordID, a zero byte, the big-endian timestamp in nanoseconds and
// the entry ID, so a prefix scan over one record yields its entries in time order.
type LevelDBStore struct {
	db *leveldb.DB
}

// OpenLevelDB opens or creates a LevelDB database at path
func OpenLevelDB(path string) (*LevelDBStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit leveldb at %s: %w", path, err)
	}
	return NewLevelDBStore(db), nil
}

// NewLevelDBStore wraps an open LevelDB handle
func NewLevelDBStore(db *leveldb.DB) *LevelDBStore {
	return &LevelDBStore{db: db}
}

// recordPrefix is the uvarint length of recordID followed by recordID, so no
// record's prefix is a prefix of another record's keys.
func recordPrefix(recordID string) []byte {
	key := binary.AppendUvarint(nil, uint64(len(recordID)))
	return append(key, recordID...)
}

func entryKey(entry models.AuditEntry) []byte {
	key := recordPrefix(entry.RecordID)
	key = binary.BigEndian.AppendUint64(key, uint64(entry.Timestamp.UnixNano()))
	return append(key, entry.ID...)
}

// Append writes one entry
func (s *LevelDBStore) Append(ctx context.Context, entry models.AuditEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode audit entry: %w", err)
	}

	if err := s.db.Put(entryKey(entry), data, nil); err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}
	return nil
}

// ListByRecord returns the entries of one record, newest first
func (s *LevelDBStore) ListByRecord(ctx context.Context, recordID string) ([]models.AuditEntry, error) {
	iter := s.db.NewIterator(util.BytesPrefix(recordPrefix(recordID)), nil)
	defer iter.Release()

	entries := []models.AuditEntry{}
	for ok := iter.Last(); ok; ok = iter.Prev() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var entry models.AuditEntry
		if err := json.Unmarshal(iter.Value(), &entry); err != nil {
			return nil, fmt.Errorf("failed to decode audit entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit entries: %w", err)
	}
	return entries, nil
}

// Close closes the database
func (s *LevelDBStore) Close() error {
	return s.db.Close()
}
