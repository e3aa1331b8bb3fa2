// Package id generates the ULIDs used as record ids. ULIDs sort by creation
// time, which gives listings a deterministic tie-break and cursors a stable
// identity.
package id

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mutex   sync.Mutex
	entropy = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
)

func NewFromTime(t time.Time) (string, error) {
	mutex.Lock()
	defer mutex.Unlock()

	id, err := ulid.New(uint64(t.UnixMilli()), entropy)
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

func NewString() (string, error) {
	return NewFromTime(time.Now())
}

// MustNewString panics on entropy exhaustion, which cannot happen with the
// monotonic source above within a single millisecond window.
func MustNewString() string {
	s, err := NewString()
	if err != nil {
		panic(err)
	}
	return s
}

func IsValid(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}
