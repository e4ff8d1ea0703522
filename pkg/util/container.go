package util

import "os"

// Files the docker and podman runtimes create inside every container
var containerMarkers = []string{"/.dockerenv", "/run/.containerenv"}

// IsRunningInContainer reports whether the process runs inside a docker or
// podman container
func IsRunningInContainer() bool {
	for _, m := range containerMarkers {
		if _, err := os.Stat(m); err == nil {
			return true
		}
	}

	return false
}
