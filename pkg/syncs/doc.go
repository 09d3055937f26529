// Package syncs provides synchronization primitives for files on disk.
//
// [PathLock] serializes work on the same save directory while letting
// different saves proceed concurrently.
package syncs
