package config

type Channels struct{}

var _ ChannelConfig = Channels{}

// GetWelcomeChannelID returns the channel used for join announcements.
// Empty means announcements are disabled until set via the admin API.
func (Channels) GetWelcomeChannelID() string {
	return GetEnv("WELCOME_CHANNEL_ID", "")
}

// GetVerificationChannelID returns the public channel where onboarding
// replies are accepted alongside direct messages.
func (Channels) GetVerificationChannelID() string {
	return GetEnv("VERIFICATION_CHANNEL_ID", "")
}
