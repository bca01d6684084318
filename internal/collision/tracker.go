package collision

import (
	"fmt"

	"github.com/arloliu/ktable/errs"
	"github.com/arloliu/ktable/internal/hash"
)

// Tracker detects duplicate column names.
//
// Names are bucketed by their xxHash64 so the common case compares one integer per name.
// Two different names with the same hash are a collision, not a duplicate; the tracker
// falls back to comparing the strings in that bucket.
type Tracker struct {
	buckets      map[uint64][]int // hash -> positions in names
	names        []string
	hasCollision bool
}

// NewTracker creates a tracker sized for n names.
func NewTracker(n int) *Tracker {
	return &Tracker{
		buckets: make(map[uint64][]int, n),
		names:   make([]string, 0, n),
	}
}

// Track records name.
//
// Returns:
//   - errs.ErrEmptyColumnName if name is empty
//   - errs.ErrDuplicateColumnName if name was tracked before (the message names both positions)
func (t *Tracker) Track(name string) error {
	if name == "" {
		return fmt.Errorf("%w at position %d", errs.ErrEmptyColumnName, len(t.names))
	}

	id := hash.ID(name)
	for _, pos := range t.buckets[id] {
		if t.names[pos] == name {
			return fmt.Errorf("%w: %q at positions %d and %d", errs.ErrDuplicateColumnName, name, pos, len(t.names))
		}
		t.hasCollision = true
	}

	t.buckets[id] = append(t.buckets[id], len(t.names))
	t.names = append(t.names, name)

	return nil
}

// TrackAll records names in order and stops at the first error.
func (t *Tracker) TrackAll(names []string) error {
	for _, name := range names {
		if err := t.Track(name); err != nil {
			return err
		}
	}

	return nil
}

// HasCollision returns true if two distinct names shared a hash.
func (t *Tracker) HasCollision() bool {
	return t.hasCollision
}

// Names returns the tracked names in insertion order.
func (t *Tracker) Names() []string {
	return t.names
}

// Count returns the number of tracked names.
func (t *Tracker) Count() int {
	return len(t.names)
}

// Reset clears all tracked names, keeping allocated capacity.
func (t *Tracker) Reset() {
	clear(t.buckets)
	t.names = t.names[:0]
	t.hasCollision = false
}
