// Package organizer files media into a date-based library layout.
//
// Three pieces cooperate: the destination deriver chooses a target
// directory from the file's creation timestamp, the conflict resolver
// decides what to do when the target name is taken, and the organizer
// applies the decision with a rename (falling back to copy+remove
// across filesystems). Every decision is made before any filesystem
// mutation so a failed move never leaves a half-applied plan.
package organizer
