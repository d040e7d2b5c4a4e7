package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) and services translate them into coded domain errors.
//
//   - ErrNotFound: no record for the key
//   - ErrConflict: write rejected by a uniqueness or state constraint
//   - ErrUnavailable: backing store or upstream temporarily unreachable
//   - ErrNotInitialized: component used before its lifecycle hook ran
var (
	ErrNotFound       = errors.New("not found")
	ErrConflict       = errors.New("conflict")
	ErrUnavailable    = errors.New("unavailable")
	ErrNotInitialized = errors.New("not initialized")
)
