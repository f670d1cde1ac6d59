// Package watch discovers settled media files by polling a directory.
//
// Each scan walks the watch directory, keeps files whose kind is
// recognized and whose age has reached the configured minimum, drops
// anything the tracker already knows, and returns the remainder in
// lexicographic path order so a scan's output is deterministic.
package watch
