// Package birthdays is the storage boundary for recurring birthday records.
// Birthdays are written as soon as a member provides one during onboarding,
// independently of the final profile commit, so the celebration scheduler can
// see them even when a member abandons the flow midway.
package birthdays

import (
	"context"
	"errors"

	"github.com/robonexus/communitybot/dateparse"
)

var ErrNotFound = errors.New("birthday not found")

type Repo interface {
	Upsert(ctx context.Context, memberID string, birthday dateparse.MonthDay) error
	Get(ctx context.Context, memberID string) (dateparse.MonthDay, error)
	List(ctx context.Context) (map[string]dateparse.MonthDay, error)
}
