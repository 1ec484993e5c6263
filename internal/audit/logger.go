package audit

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/healthtrack/healthtrack-api/internal/models"
	"github.com/healthtrack/healthtrack-api/pkg/utils"
)

// Logger records access events asynchronously. Callers never block on or
// observe a failed write; failures are logged.
type Logger struct {
	store   Store
	logger  *logrus.Logger
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewLogger creates a Logger writing to store with a per-write timeout
func NewLogger(store Store, logger *logrus.Logger, timeout time.Duration) *Logger {
	return &Logger{
		store:   store,
		logger:  logger,
		timeout: timeout,
	}
}

// Record fills defaults on entry and writes it in the background
func (l *Logger) Record(entry models.AuditEntry) {
	entry = withDefaults(entry)

	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		l.logger.WithField("record_id", entry.RecordID).Warn("Audit logger closed, dropping entry")
		return
	}

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
		defer cancel()

		if err := l.store.Append(ctx, entry); err != nil {
			l.logger.WithError(err).WithFields(logrus.Fields{
				"record_id": entry.RecordID,
				"viewer_id": entry.ViewerID,
				"action":    entry.Action,
			}).Error("Failed to write audit entry")
		}
	}()
}

// Query returns the entries of one record, newest first
func (l *Logger) Query(ctx context.Context, recordID string) ([]models.AuditEntry, error) {
	return l.store.ListByRecord(ctx, recordID)
}

// Close waits for in-flight writes and closes the store
func (l *Logger) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	l.mu.Unlock()

	l.wg.Wait()
	return l.store.Close()
}

func withDefaults(entry models.AuditEntry) models.AuditEntry {
	if entry.ID == "" {
		entry.ID = utils.GenerateID()
	}
	if entry.Username == "" {
		entry.Username = models.AuditDefaultUsername
	}
	if entry.ViewerID == "" {
		entry.ViewerID = models.AuditAnonymousViewerID
	}
	if entry.Action == "" {
		entry.Action = models.AuditActionViewed
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = utils.Now()
	}
	return entry
}
