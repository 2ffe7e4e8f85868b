// Package dedupe detects the same training session exported more than once.
package dedupe

import (
	"context"
	"math"
	"sync"
	"sync/atomic"

	"github.com/okian/stride/internal/domain/model"
)

// DefaultDistanceTolerance is the distance (km) within which two sessions
// starting in the same minute are considered the same.
const DefaultDistanceTolerance = 0.05

// Deduper records seen sessions so each one is loaded once.
type Deduper interface {
	// SeenAndRecord atomically checks if the session was seen and records it if not.
	// Returns true if it was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, rec model.ActivityRecord) bool

	// Unrecord forgets a session, e.g. when the record was recorded but then
	// rejected by a later stage.
	Unrecord(ctx context.Context, rec model.ActivityRecord)

	Size() int64
}

// session is the identity of a recorded activity.
type session struct {
	minute     int64
	distanceKM float64
}

// inMemoryDeduper buckets sessions by start minute.
// For bounded mode (maxSize > 0) insertion order is kept for eviction.
type inMemoryDeduper struct {
	mu          sync.Mutex
	seen        map[int64][]float64 // start minute -> distances recorded in it
	order       []session           // insertion order, bounded mode only
	maxSize     int
	toleranceKM float64
	size        atomic.Int64
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize:     0, // a single CLI run holds a few thousand sessions at most
		toleranceKM: DefaultDistanceTolerance,
	}

	for _, opt := range opts {
		opt(d)
	}

	d.seen = make(map[int64][]float64)
	return d
}

func keyOf(rec model.ActivityRecord) session {
	return session{minute: rec.Date.Unix() / 60, distanceKM: rec.DistanceKM}
}

// SeenAndRecord atomically checks if the session was seen and records it if not.
func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, rec model.ActivityRecord) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	k := keyOf(rec)
	if d.indexOf(k) >= 0 {
		return true
	}

	if d.maxSize > 0 {
		if int(d.size.Load()) >= d.maxSize {
			d.evictOldest()
		}
		d.order = append(d.order, k)
	}
	d.seen[k.minute] = append(d.seen[k.minute], k.distanceKM)
	d.size.Add(1)
	return false
}

// Unrecord forgets a session.
func (d *inMemoryDeduper) Unrecord(_ context.Context, rec model.ActivityRecord) {
	d.mu.Lock()
	defer d.mu.Unlock()

	k := keyOf(rec)
	i := d.indexOf(k)
	if i < 0 {
		return
	}
	d.remove(k.minute, i)

	if d.maxSize > 0 {
		for j, o := range d.order {
			if o.minute == k.minute && d.match(o.distanceKM, k.distanceKM) {
				d.order = append(d.order[:j], d.order[j+1:]...)
				break
			}
		}
	}
}

// indexOf returns the position of a matching distance in the minute bucket, or -1.
// Must be called with d.mu held.
func (d *inMemoryDeduper) indexOf(k session) int {
	for i, dist := range d.seen[k.minute] {
		if d.match(dist, k.distanceKM) {
			return i
		}
	}
	return -1
}

func (d *inMemoryDeduper) match(a, b float64) bool {
	return math.Abs(a-b) <= d.toleranceKM+1e-9
}

// remove drops entry i of a minute bucket. Must be called with d.mu held.
func (d *inMemoryDeduper) remove(minute int64, i int) {
	bucket := d.seen[minute]
	bucket = append(bucket[:i], bucket[i+1:]...)
	if len(bucket) == 0 {
		delete(d.seen, minute)
	} else {
		d.seen[minute] = bucket
	}
	d.size.Add(-1)
}

// evictOldest removes the first recorded session. Must be called with d.mu held.
func (d *inMemoryDeduper) evictOldest() {
	if len(d.order) == 0 {
		return
	}
	oldest := d.order[0]
	d.order = d.order[1:]
	if i := d.indexOf(oldest); i >= 0 {
		d.remove(oldest.minute, i)
	}
}

// Size returns the current number of recorded sessions.
func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
