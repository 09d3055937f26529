package profile

import (
	"encoding/hex"
	"path/filepath"
	"unicode/utf8"

	"github.com/etsvibes/ets-vibes/pkg/games"
)

// Profile is a player profile directory.
type Profile struct {
	Path string
	// Directory name; the game hex-encodes the profile name.
	Name string
	Game games.Type
}

func NewProfile(path string, game games.Type) *Profile {
	return &Profile{
		Path: path,
		Name: filepath.Base(path),
		Game: game,
	}
}

// DisplayName returns the decoded profile name, or the directory name when it
// is not hex-encoded UTF-8.
func (p *Profile) DisplayName() string {
	return displayName(p.Name)
}

func displayName(name string) string {
	b, err := hex.DecodeString(name)
	if err != nil || len(b) == 0 || !utf8.Valid(b) {
		return name
	}

	return string(b)
}
