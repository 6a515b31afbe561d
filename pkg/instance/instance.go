package instance

import (
	"os"
	"strings"
)

// EnvWorkerID names the variable carrying a per-process identifier.
const EnvWorkerID = "OPSDESK_WORKER_ID"

// GetID returns the worker instance identifier. It falls back to the host
// name and then to a fixed default.
func GetID() string {
	if id := strings.TrimSpace(os.Getenv(EnvWorkerID)); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "worker-0"
}
