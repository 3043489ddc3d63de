package order

import (
	"fmt"
	"time"

	"serviceorders/internal/pkg/errs"
)

// TimelineEntry is one immutable record of a status change.
type TimelineEntry struct {
	status    Status
	timestamp time.Time
	note      string
}

// NewTimelineEntry is used by storage adapters to rebuild persisted entries.
func NewTimelineEntry(status Status, timestamp time.Time, note string) TimelineEntry {
	return TimelineEntry{status: status, timestamp: timestamp, note: note}
}

func (e TimelineEntry) Status() Status {
	return e.status
}

func (e TimelineEntry) Timestamp() time.Time {
	return e.timestamp
}

func (e TimelineEntry) Note() string {
	return e.note
}

// Timeline is the append-only audit trail of an order. Entries are never
// modified or removed, and timestamps never go backwards.
type Timeline struct {
	entries []TimelineEntry
}

// RestoreTimeline rebuilds a stored timeline. It rejects an empty list, an
// invalid status or a timestamp earlier than its predecessor.
func RestoreTimeline(entries []TimelineEntry) (Timeline, error) {
	if len(entries) == 0 {
		return Timeline{}, errs.NewValueIsRequiredError("timeline")
	}
	for i, e := range entries {
		if err := e.status.Validate(); err != nil {
			return Timeline{}, err
		}
		if i > 0 && e.timestamp.Before(entries[i-1].timestamp) {
			return Timeline{}, errs.NewValueIsInvalidErrorWithCause("timeline",
				fmt.Errorf("entry %d at %s precedes entry %d at %s", i, e.timestamp, i-1, entries[i-1].timestamp))
		}
	}
	return Timeline{entries: append([]TimelineEntry(nil), entries...)}, nil
}

// Append records a transition to status. A timestamp earlier than the last
// entry is raised to it so the ordering holds even when the clock steps back.
func (t *Timeline) Append(status Status, at time.Time, note string) TimelineEntry {
	if last, ok := t.Last(); ok && at.Before(last.timestamp) {
		at = last.timestamp
	}
	entry := TimelineEntry{status: status, timestamp: at, note: note}
	t.entries = append(t.entries, entry)
	return entry
}

// Entries returns a copy in insertion order.
func (t Timeline) Entries() []TimelineEntry {
	return append([]TimelineEntry(nil), t.entries...)
}

func (t Timeline) Len() int {
	return len(t.entries)
}

func (t Timeline) Last() (TimelineEntry, bool) {
	if len(t.entries) == 0 {
		return TimelineEntry{}, false
	}
	return t.entries[len(t.entries)-1], true
}

func (t Timeline) clone() Timeline {
	return Timeline{entries: t.Entries()}
}
