package config

type Gateway struct{}

var _ GatewayConfig = Gateway{}

func (Gateway) GetGatewayURL() string {
	return GetEnv("GATEWAY_URL", "ws://localhost:9000/gateway")
}

func (Gateway) GetBotToken() string {
	return GetEnv("BOT_TOKEN", "")
}
