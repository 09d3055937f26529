// Package savetest provides fixtures for tests that need game profiles and
// saves on disk.
package savetest
