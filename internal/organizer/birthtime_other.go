//go:build !linux

package organizer

import "time"

func birthTime(string) (time.Time, bool) {
	return time.Time{}, false
}
