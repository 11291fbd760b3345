package audit

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one immutable audit record. Entries are append-only; ordering
// is insertion order and reads come back newest-first.
type Entry struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
	Actor     string `json:"actor"`
	Field     string `json:"field"`
	OldValue  any    `json:"old_value"`
	NewValue  any    `json:"new_value"`
	Reason    string `json:"reason,omitempty"`
}

// NewEntry stamps a record with an id and the current time.
func NewEntry(actor, field string, oldValue, newValue any, reason string) Entry {
	return Entry{
		ID:        uuid.NewString(),
		Timestamp: time.Now().Unix(),
		Actor:     actor,
		Field:     field,
		OldValue:  oldValue,
		NewValue:  newValue,
		Reason:    reason,
	}
}
