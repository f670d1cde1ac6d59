//go:build linux

package organizer

import (
	"time"

	"golang.org/x/sys/unix"
)

// birthTime reads the file's creation time via statx. Filesystems that
// do not record btime leave the flag unset, which reports as not ok.
func birthTime(path string) (time.Time, bool) {
	var stx unix.Statx_t
	err := unix.Statx(unix.AT_FDCWD, path, unix.AT_STATX_SYNC_AS_STAT, unix.STATX_BTIME, &stx)
	if err != nil || stx.Mask&unix.STATX_BTIME == 0 {
		return time.Time{}, false
	}
	btime := time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec))
	if btime.IsZero() || btime.Unix() == 0 {
		return time.Time{}, false
	}
	return btime, true
}
