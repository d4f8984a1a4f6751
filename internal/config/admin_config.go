package config

type Admin struct{}

var _ AdminConfig = Admin{}

// GetAdminToken returns the bearer token protecting the admin API. An empty
// token disables the admin routes.
func (Admin) GetAdminToken() string {
	return GetEnv("ADMIN_TOKEN", "")
}
