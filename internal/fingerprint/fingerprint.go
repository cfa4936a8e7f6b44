// Package fingerprint computes the approximate identity of a message body.
//
// Fingerprints are 64-bit non-cryptographic hashes: two different bodies may
// collide, which callers accept since they are only used to suppress
// duplicate writes on a best-effort basis.
package fingerprint

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Of returns the fingerprint of the trimmed content, and whether there was
// anything left to fingerprint after trimming.
func Of(content string) (uint64, bool) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return 0, false
	}

	return xxhash.Sum64String(trimmed), true
}
