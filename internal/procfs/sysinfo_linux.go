//go:build linux

package procfs

import (
	"time"

	"golang.org/x/sys/unix"
)

// sysinfoUptime reads uptime via the sysinfo syscall, the same source the
// kernel backs /proc/uptime with.
func sysinfoUptime() (time.Duration, bool) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, false
	}
	return time.Duration(info.Uptime) * time.Second, true
}
