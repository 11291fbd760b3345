package audit

import (
	"go.uber.org/zap"

	"github.com/spec-kit/assistant-backend/internal/observability"
)

// AppendResult reports the outcome of a best-effort append. The primary
// operation never fails because of it; callers inspect Err for telemetry.
type AppendResult struct {
	Err error
}

// Dropped reports whether the entry was lost.
func (r AppendResult) Dropped() bool {
	return r.Err != nil
}

// Filter narrows a query. Zero values match everything; Since and Until
// are inclusive Unix-second bounds.
type Filter struct {
	Actor  string
	Field  string
	Since  int64
	Until  int64
	Limit  int
	Offset int
}

// Log is the append-only, queryable audit trail. Append is best-effort:
// a write failure is recorded for monitoring and swallowed, so
// security-relevant actions still complete when auditing momentarily
// cannot.
type Log struct {
	store   Store
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewLog builds the audit log over a store.
func NewLog(store Store, logger *zap.Logger, metrics *observability.Metrics) *Log {
	return &Log{store: store, logger: logger, metrics: metrics}
}

// Append writes one entry, swallowing storage failures.
func (l *Log) Append(entry Entry) AppendResult {
	if err := l.store.Append(entry); err != nil {
		l.metrics.RecordAuditDrop()
		l.logger.Warn("audit entry dropped",
			zap.String("actor", entry.Actor),
			zap.String("field", entry.Field),
			zap.Error(err),
		)
		return AppendResult{Err: err}
	}
	return AppendResult{}
}

// Query returns entries newest-first, with offset and limit applied after
// filtering.
func (l *Log) Query(filter Filter) ([]Entry, error) {
	entries, err := l.store.ReadAll()
	if err != nil {
		return nil, err
	}

	filtered := make([]Entry, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]
		if filter.Actor != "" && entry.Actor != filter.Actor {
			continue
		}
		if filter.Field != "" && entry.Field != filter.Field {
			continue
		}
		if filter.Since != 0 && entry.Timestamp < filter.Since {
			continue
		}
		if filter.Until != 0 && entry.Timestamp > filter.Until {
			continue
		}
		filtered = append(filtered, entry)
	}

	offset := filter.Offset
	if offset > len(filtered) {
		offset = len(filtered)
	}
	filtered = filtered[offset:]

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	if limit < len(filtered) {
		filtered = filtered[:limit]
	}
	return filtered, nil
}
