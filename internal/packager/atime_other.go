//go:build !linux && !darwin

package packager

import (
	"os"
	"time"
)

// accessTime falls back to the modification time where the platform's
// stat data carries no access time.
func accessTime(info os.FileInfo) time.Time {
	return info.ModTime()
}
