package instance

import "os"

// ID names this process in logs. MODA_INSTANCE_ID wins, then the hostname.
func ID() string {
	if id := os.Getenv("MODA_INSTANCE_ID"); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "storefront-0"
}
