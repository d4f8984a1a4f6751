package settings

import (
	"context"
	"sync"
)

var _ Repo = (*InMemoryRepo)(nil)

type InMemoryRepo struct {
	mu                    sync.RWMutex
	welcomeChannelID      string
	verificationChannelID string
}

// NewInMemoryRepo seeds the repo with optional initial channel ids, typically
// from environment configuration.
func NewInMemoryRepo(welcomeChannelID, verificationChannelID string) *InMemoryRepo {
	return &InMemoryRepo{
		welcomeChannelID:      welcomeChannelID,
		verificationChannelID: verificationChannelID,
	}
}

func (r *InMemoryRepo) WelcomeChannelID(_ context.Context) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.welcomeChannelID, nil
}

func (r *InMemoryRepo) SetWelcomeChannelID(_ context.Context, channelID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.welcomeChannelID = channelID
	return nil
}

func (r *InMemoryRepo) VerificationChannelID(_ context.Context) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.verificationChannelID, nil
}

func (r *InMemoryRepo) SetVerificationChannelID(_ context.Context, channelID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.verificationChannelID = channelID
	return nil
}
