package instance

import "os"

// GetID identifies the running process in logs: the platform dyno name when
// set, otherwise the host name.
func GetID() string {
	if id := os.Getenv("DYNO"); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
