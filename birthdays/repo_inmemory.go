package birthdays

import (
	"context"
	"sync"

	"github.com/robonexus/communitybot/dateparse"
)

var _ Repo = (*InMemoryRepo)(nil)

type InMemoryRepo struct {
	mu        sync.RWMutex
	birthdays map[string]dateparse.MonthDay
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{birthdays: make(map[string]dateparse.MonthDay)}
}

func (r *InMemoryRepo) Upsert(_ context.Context, memberID string, birthday dateparse.MonthDay) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.birthdays[memberID] = birthday
	return nil
}

func (r *InMemoryRepo) Get(_ context.Context, memberID string) (dateparse.MonthDay, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	birthday, ok := r.birthdays[memberID]
	if !ok {
		return dateparse.MonthDay{}, ErrNotFound
	}
	return birthday, nil
}

func (r *InMemoryRepo) List(_ context.Context) (map[string]dateparse.MonthDay, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	copied := make(map[string]dateparse.MonthDay, len(r.birthdays))
	for memberID, birthday := range r.birthdays {
		copied[memberID] = birthday
	}
	return copied, nil
}
