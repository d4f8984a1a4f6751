package profiles

import (
	"context"
	"sort"
	"sync"
	"time"
)

var _ Repo = (*InMemoryRepo)(nil)

// InMemoryRepo keeps profiles in a mutex-guarded map.
type InMemoryRepo struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{profiles: make(map[string]*Profile)}
}

func (r *InMemoryRepo) Upsert(_ context.Context, profile *Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	stored := *profile
	if existing, ok := r.profiles[profile.MemberID]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	r.profiles[profile.MemberID] = &stored
	return nil
}

func (r *InMemoryRepo) Get(_ context.Context, memberID string) (*Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.profiles[memberID]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *profile
	return &copied, nil
}

func (r *InMemoryRepo) List(_ context.Context) ([]*Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]*Profile, 0, len(r.profiles))
	for _, profile := range r.profiles {
		copied := *profile
		list = append(list, &copied)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].MemberID < list[j].MemberID })
	return list, nil
}

func (r *InMemoryRepo) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.profiles), nil
}
