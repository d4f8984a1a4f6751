// Package messaging is the outbound boundary to the chat platform. The
// onboarding flow only decides WHAT to say; rendering and delivery belong to
// the transport adapter.
package messaging

import "context"

// PromptKind identifies each message the flow can send a member.
type PromptKind string

const (
	// Stage prompts.
	PromptWelcome  PromptKind = "welcome"
	PromptBirthday PromptKind = "birthday"
	PromptEmail    PromptKind = "email"
	PromptPhone    PromptKind = "phone"
	PromptLinks    PromptKind = "links"

	// Re-prompts after a failed parse. The stage does not change.
	PromptNameClassRetry PromptKind = "name_class_retry"
	PromptBirthdayRetry  PromptKind = "birthday_retry"
	PromptEmailRetry     PromptKind = "email_retry"
	PromptPhoneRetry     PromptKind = "phone_retry"

	// Confirmation sent right after a birthday is registered mid-flow.
	PromptBirthdayConfirmed PromptKind = "birthday_confirmed"
)

// Prompt carries a kind plus whatever collected context the rendering wants
// to echo back ("Nice to meet you, Priya from Class 9!").
type Prompt struct {
	Kind     PromptKind
	Name     string
	Class    string
	Birthday string // display form, e.g. "March 22"
}

// Completion summarises a finished verification for the member and for the
// welcome-channel announcement. ProfileSaved is false when persistence failed
// and the member should be told to contact an admin.
type Completion struct {
	Name         string
	Class        string
	Email        *string
	Phone        *string
	SocialLinks  map[string]string
	ProfileSaved bool
}

// Messenger delivers onboarding messages. Member-addressed sends go to the
// member's DM or the verification channel at the adapter's discretion;
// announcements target an explicit channel.
type Messenger interface {
	SendPrompt(ctx context.Context, memberID string, prompt Prompt) error
	SendCompletion(ctx context.Context, memberID string, completion Completion) error
	AnnounceJoin(ctx context.Context, channelID, memberID string) error
	AnnounceVerified(ctx context.Context, channelID string, completion Completion) error
}
