package messagingfakes

import (
	"context"
	"sync"

	"github.com/robonexus/communitybot/messaging"
)

var _ messaging.Messenger = (*FakeMessenger)(nil)

// FakeMessenger records everything sent so tests can assert on prompt order
// and completion contents.
type FakeMessenger struct {
	mu            sync.Mutex
	prompts       map[string][]messaging.Prompt
	completions   map[string][]messaging.Completion
	announcements []string
}

func NewFakeMessenger() *FakeMessenger {
	return &FakeMessenger{
		prompts:     make(map[string][]messaging.Prompt),
		completions: make(map[string][]messaging.Completion),
	}
}

func (m *FakeMessenger) SendPrompt(_ context.Context, memberID string, prompt messaging.Prompt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts[memberID] = append(m.prompts[memberID], prompt)
	return nil
}

func (m *FakeMessenger) SendCompletion(_ context.Context, memberID string, completion messaging.Completion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completions[memberID] = append(m.completions[memberID], completion)
	return nil
}

func (m *FakeMessenger) AnnounceJoin(_ context.Context, channelID, memberID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.announcements = append(m.announcements, "join:"+channelID+":"+memberID)
	return nil
}

func (m *FakeMessenger) AnnounceVerified(_ context.Context, channelID string, completion messaging.Completion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.announcements = append(m.announcements, "verified:"+channelID+":"+completion.Name)
	return nil
}

// Prompts returns the prompts sent to memberID in order.
func (m *FakeMessenger) Prompts(memberID string) []messaging.Prompt {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]messaging.Prompt, len(m.prompts[memberID]))
	copy(out, m.prompts[memberID])
	return out
}

// LastPromptKind returns the kind of the most recent prompt, or "".
func (m *FakeMessenger) LastPromptKind(memberID string) messaging.PromptKind {
	m.mu.Lock()
	defer m.mu.Unlock()
	sent := m.prompts[memberID]
	if len(sent) == 0 {
		return ""
	}
	return sent[len(sent)-1].Kind
}

// Completions returns the completion messages sent to memberID.
func (m *FakeMessenger) Completions(memberID string) []messaging.Completion {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]messaging.Completion, len(m.completions[memberID]))
	copy(out, m.completions[memberID])
	return out
}

// Announcements returns channel announcements in order.
func (m *FakeMessenger) Announcements() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.announcements))
	copy(out, m.announcements)
	return out
}
