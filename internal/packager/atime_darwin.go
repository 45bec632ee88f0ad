//go:build darwin

package packager

import (
	"os"
	"syscall"
	"time"
)

// accessTime returns the last access time recorded for info.
func accessTime(info os.FileInfo) time.Time {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(st.Atimespec.Unix())
	}
	return info.ModTime()
}
