//go:build !linux

package procfs

import "time"

// sysinfoUptime has no backing syscall off Linux.
func sysinfoUptime() (time.Duration, bool) {
	return 0, false
}
