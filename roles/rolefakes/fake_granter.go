package rolefakes

import (
	"context"
	"sync"

	"github.com/robonexus/communitybot/roles"
)

var _ roles.Granter = (*FakeGranter)(nil)

// FakeGranter records grants for assertions in tests.
type FakeGranter struct {
	mu     sync.Mutex
	grants map[string]string // memberID -> class
	calls  int

	// FailWith, when set, is returned from every call.
	FailWith error
}

func NewFakeGranter() *FakeGranter {
	return &FakeGranter{grants: make(map[string]string)}
}

func (g *FakeGranter) EnsureRoleAndAssign(_ context.Context, memberID, class string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.calls++
	if g.FailWith != nil {
		return g.FailWith
	}
	g.grants[memberID] = class
	return nil
}

// Granted returns the class granted to memberID, if any.
func (g *FakeGranter) Granted(memberID string) (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	class, ok := g.grants[memberID]
	return class, ok
}

// Calls reports how many times the granter was invoked.
func (g *FakeGranter) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}
