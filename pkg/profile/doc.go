// Package profile discovers game profiles and their saves on disk, and reads
// and writes save files.
//
// A data root (see [github.com/etsvibes/ets-vibes/pkg/games]) contains
// "profiles/<hex name>/", each holding "profile.sii" and a "save/" directory
// with one sub-directory per save. Every save directory holds "game.sii" and
// usually "info.sii".
package profile
