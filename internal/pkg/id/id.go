package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New returns a ULID string. Identity and session ids use it, so ids sort
// by creation time in every store.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
