package audit

import (
	"context"
	"fmt"

	"github.com/healthtrack/healthtrack-api/internal/config"
	"github.com/healthtrack/healthtrack-api/internal/models"
)

// Store persists record access events as an append-only log
type Store interface {
	// Append writes one entry
	Append(ctx context.Context, entry models.AuditEntry) error
	// ListByRecord returns the entries of one record, newest first
	ListByRecord(ctx context.Context, recordID string) ([]models.AuditEntry, error)
	// Close releases the backend
	Close() error
}

// Open opens the backend selected by cfg
func Open(ctx context.Context, cfg *config.AuditConfig) (Store, error) {
	switch cfg.Backend {
	case config.AuditBackendLevelDB:
		store, err := OpenLevelDB(cfg.Path)
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.AuditBackendMongo:
		store, err := ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported audit backend: %s", cfg.Backend)
	}
}
