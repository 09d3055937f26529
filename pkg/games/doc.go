// Package games describes the supported games and where they keep user data
// on each platform.
package games
