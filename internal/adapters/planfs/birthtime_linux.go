//go:build linux

package planfs

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// fileCreatedAt returns the file birth time, or the modification time when
// the filesystem does not record one
func fileCreatedAt(path string, info os.FileInfo) time.Time {
	var stx unix.Statx_t
	if err := unix.Statx(unix.AT_FDCWD, path, unix.AT_STATX_SYNC_AS_STAT, unix.STATX_BTIME, &stx); err != nil {
		return info.ModTime()
	}
	if stx.Mask&unix.STATX_BTIME == 0 {
		return info.ModTime()
	}
	return time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec))
}
