//go:build !unix

package describer

import "os"

// writable reports whether any write bit is set. On Windows the owner write
// bit mirrors the read-only attribute.
func writable(info os.FileInfo) bool {
	return info.Mode().Perm()&0222 != 0
}
