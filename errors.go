package zepstream

import "github.com/cockroachdb/errors"

var (
	// ErrStoreIntegration marks errors returned when a finalized stream could
	// not record its message in the store. The original store error is kept
	// in the chain. Both can be matched with errors.Is from
	// github.com/cockroachdb/errors.
	ErrStoreIntegration = errors.New("could not record message in store")

	// ErrNoStore is returned when committing a message without a store.
	ErrNoStore = errors.New("no store was configured")
)
