// Package editcmd implements the save editing commands.
//
// It is the non-interactive core behind `ets-vibes edit`, `quick`, `quick-xp`,
// `restore` and `watch`. Progress is reported to subscribers as events (see
// events.go), which [github.com/etsvibes/ets-vibes/pkg/edittui] renders.
package editcmd
