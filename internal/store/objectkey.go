package store

import (
	"fmt"
	"path"
	"strconv"
	"sync"
	"time"
)

// KeyMaker builds namespaced object keys of the form
// <prefix><unix-ms>_<filename>. The millisecond stamp is guaranteed to be
// strictly increasing across calls: two requests for the same filename in
// the same millisecond still get distinct keys.
type KeyMaker struct {
	prefix string
	now    func() time.Time

	mu   sync.Mutex
	last int64
}

// NewKeyMaker creates a key maker. An empty prefix is allowed; a non-empty
// prefix should end with "/".
func NewKeyMaker(prefix string) *KeyMaker {
	return &KeyMaker{
		prefix: prefix,
		now:    time.Now,
	}
}

// WithClock overrides the clock. Used by tests.
func (k *KeyMaker) WithClock(now func() time.Time) *KeyMaker {
	k.now = now
	return k
}

// Key returns a fresh object key for the given filename. Any path components
// in the filename are stripped so keys stay inside the configured namespace.
func (k *KeyMaker) Key(filename string) string {
	k.mu.Lock()
	stamp := k.now().UnixMilli()
	if stamp <= k.last {
		stamp = k.last + 1
	}
	k.last = stamp
	k.mu.Unlock()

	return fmt.Sprintf("%s%s_%s", k.prefix, strconv.FormatInt(stamp, 10), path.Base(filename))
}
