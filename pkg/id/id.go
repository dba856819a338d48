// Package id generates time-sortable identifiers for trade records.
package id

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(rand.Reader, 0)
)

// New returns a ULID string. IDs generated within the same millisecond
// remain lexicographically increasing, which keeps trade histories
// sortable by identifier alone.
func New() string {
	mu.Lock()
	defer mu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now().UTC()), entropy).String()
}
