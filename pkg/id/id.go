// Package id generates ULID strings for journal records. ULIDs sort
// lexicographically by generation time, which keeps SQLite indexes and
// log greps in chronological order for free.
package id

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu sync.Mutex
	// Monotonic keeps IDs generated within the same millisecond strictly
	// increasing.
	entropy = ulid.Monotonic(rand.Reader, 0)
)

// New returns a fresh time-sortable identifier.
func New() string {
	mu.Lock()
	defer mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now().UTC()), entropy).String()
}
