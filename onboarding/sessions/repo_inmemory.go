package sessions

import (
	"sort"
	"sync"
)

var _ Repo = (*InMemoryRepo)(nil)

// InMemoryRepo guards the member map with one RWMutex and each session with
// its own mutex, so updates for different members run concurrently while
// updates for the same member serialise in arrival order.
type InMemoryRepo struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

type entry struct {
	mu      sync.Mutex
	session Session
	deleted bool
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{entries: make(map[string]*entry)}
}

func (r *InMemoryRepo) Create(session Session) (Session, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.entries[session.MemberID]; ok {
		existing.mu.Lock()
		current := existing.session
		existing.mu.Unlock()
		return current, false, nil
	}

	r.entries[session.MemberID] = &entry{session: session}
	return session, true, nil
}

func (r *InMemoryRepo) Get(memberID string) (Session, error) {
	r.mu.RLock()
	e, ok := r.entries[memberID]
	r.mu.RUnlock()
	if !ok {
		return Session{}, ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.deleted {
		return Session{}, ErrNotFound
	}
	return e.session, nil
}

func (r *InMemoryRepo) Update(memberID string, mutate func(*Session) error) (Session, error) {
	r.mu.RLock()
	e, ok := r.entries[memberID]
	r.mu.RUnlock()
	if !ok {
		return Session{}, ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	// The entry may have been torn down between the map read and taking the
	// entry lock (finalisation racing a late message).
	if e.deleted {
		return Session{}, ErrNotFound
	}

	if err := mutate(&e.session); err != nil {
		return e.session, err
	}
	return e.session, nil
}

func (r *InMemoryRepo) Delete(memberID string) error {
	r.mu.Lock()
	e, ok := r.entries[memberID]
	if ok {
		delete(r.entries, memberID)
	}
	r.mu.Unlock()
	if !ok {
		return nil
	}

	e.mu.Lock()
	e.deleted = true
	e.mu.Unlock()
	return nil
}

func (r *InMemoryRepo) List() ([]Session, error) {
	r.mu.RLock()
	entries := make([]*entry, 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	list := make([]Session, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		if !e.deleted {
			list = append(list, e.session)
		}
		e.mu.Unlock()
	}
	sort.Slice(list, func(i, j int) bool { return list[i].MemberID < list[j].MemberID })
	return list, nil
}
