// Package watch reapplies save edits whenever the game writes a save.
package watch
