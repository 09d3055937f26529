// Package edittui provides a terminal user interface for the save editing
// commands.
//
// It renders the events broadcast by
// [github.com/etsvibes/ets-vibes/pkg/editcmd] with Bubble Tea: a spinner for
// single edits, and per-save spinners with a progress bar for batch edits.
package edittui
