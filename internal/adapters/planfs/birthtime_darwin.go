//go:build darwin

package planfs

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// fileCreatedAt returns the file birth time
func fileCreatedAt(path string, info os.FileInfo) time.Time {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return info.ModTime()
	}
	return time.Unix(st.Birthtimespec.Unix())
}
