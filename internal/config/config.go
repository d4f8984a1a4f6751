package config

type Config interface {
	EnvConfig
	GatewayConfig
	ChannelConfig
	AdminConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
}

type GatewayConfig interface {
	GetGatewayURL() string
	GetBotToken() string
}

type ChannelConfig interface {
	GetWelcomeChannelID() string
	GetVerificationChannelID() string
}

type AdminConfig interface {
	GetAdminToken() string
}

type mainConfig struct {
	EnvVars
	Gateway
	Channels
	Admin
}

func New() Config {
	return mainConfig{}
}
