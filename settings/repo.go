// Package settings stores the runtime-configurable channel wiring: where join
// notices go and which channel accepts verification replies.
package settings

import "context"

// Repo persists guild settings. An unset value is an empty string, not an
// error, because both channels are optional until an admin configures them.
type Repo interface {
	WelcomeChannelID(ctx context.Context) (string, error)
	SetWelcomeChannelID(ctx context.Context, channelID string) error
	VerificationChannelID(ctx context.Context) (string, error)
	SetVerificationChannelID(ctx context.Context, channelID string) error
}
