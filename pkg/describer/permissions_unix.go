//go:build unix

package describer

import (
	"os"
	"syscall"
)

// writable reports whether the current process may write the entry,
// judged from its mode bits.
//
// The owner, group or other class is picked the way the kernel does. The
// superuser bypasses class selection but still needs at least one write bit,
// so a 0444 file stays read-only even when running as root. Entries without
// ownership information (in-memory filesystems) are writable if any write
// bit is set.
func writable(info os.FileInfo) bool {
	perm := info.Mode().Perm()

	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return perm&0222 != 0
	}

	euid := os.Geteuid()
	if euid == 0 {
		return perm&0222 != 0
	}

	if int(st.Uid) == euid {
		return perm&0200 != 0
	}
	if inGroup(int(st.Gid)) {
		return perm&0020 != 0
	}
	return perm&0002 != 0
}

func inGroup(gid int) bool {
	if os.Getegid() == gid {
		return true
	}
	groups, err := os.Getgroups()
	if err != nil {
		return false
	}
	for _, g := range groups {
		if g == gid {
			return true
		}
	}
	return false
}
