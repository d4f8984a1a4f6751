package profiles

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("profile not found")

// Repo is the persistence boundary for member profiles. The production
// implementation lives with whatever datastore the deployment uses; the
// in-memory implementation here backs tests and single-process setups.
type Repo interface {
	Upsert(ctx context.Context, profile *Profile) error
	Get(ctx context.Context, memberID string) (*Profile, error)
	List(ctx context.Context) ([]*Profile, error)
	Count(ctx context.Context) (int, error)
}
