//go:build !linux

package vault

import (
	"os"
	"time"
)

// createTime falls back to the modification time on platforms without a
// portable creation timestamp.
func createTime(info os.FileInfo) time.Time {
	return info.ModTime()
}
