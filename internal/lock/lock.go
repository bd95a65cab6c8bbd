// Package lock serializes work on a key, either in process or across
// replicas through Redis.
package lock

import (
	"errors"
	"time"
)

// ErrNotAcquired is returned when a lock stays held for the whole wait.
var ErrNotAcquired = errors.New("lock not acquired")

// Defaults match a 60s provider timeout inside a 90s request. Servers derive
// both from their configuration instead.
const (
	DefaultTTL  = 120 * time.Second
	DefaultWait = 70 * time.Second
)
