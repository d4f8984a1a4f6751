package sessions

import "errors"

var ErrNotFound = errors.New("session not found")

// Repo is the concurrency-safe registry of in-flight sessions.
//
// Update is atomic per member id: two updates for the same member are
// serialised and the second always observes the first's mutation, which is
// what keeps per-member message handling in receipt order. Updates for
// different members must not block each other.
type Repo interface {
	// Create registers a session unless one already exists, in which case the
	// existing session is returned untouched and created is false. Duplicate
	// join events must never reset in-progress state.
	Create(session Session) (current Session, created bool, err error)

	Get(memberID string) (Session, error)

	// Update runs mutate under the member's lock and returns a snapshot of
	// the mutated session. When mutate returns an error the mutation is still
	// whatever mutate left behind; mutate is expected to leave the session
	// consistent on its own error paths.
	Update(memberID string, mutate func(*Session) error) (Session, error)

	Delete(memberID string) error

	// List snapshots all in-flight sessions, for the admin surface.
	List() ([]Session, error)
}
