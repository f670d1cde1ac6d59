// Package metadata reads and writes embedded media metadata.
//
// Image reads go through the native EXIF decoder; video reads and all
// writes shell out to exiftool. The command runner is injectable so
// tests never need the binary installed.
package metadata
