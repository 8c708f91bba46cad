//go:build !linux && !darwin

package planfs

import (
	"os"
	"time"
)

func fileCreatedAt(_ string, info os.FileInfo) time.Time {
	return info.ModTime()
}
