package instance

import "os"

// EnvInstanceID overrides the reported instance identifier.
const EnvInstanceID = "LICENSETRACK_INSTANCE_ID"

// GetID returns the configured instance identifier, then the hostname, then
// a fixed default.
func GetID() string {
	if id := os.Getenv(EnvInstanceID); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "worker-0"
}
