package savetest

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/etsvibes/ets-vibes/pkg/games"
	"github.com/etsvibes/ets-vibes/pkg/profile"
)

// GameSII returns a minimal plain text game.sii.
func GameSII(money, xp int64) string {
	return fmt.Sprintf("SiiNunit\n{\neconomy : _nameless.1a2b.3c4d {\n money_account: %d\n experience_points: %d\n}\n}\n", money, xp)
}

// InfoSII returns a minimal plain text info.sii.
func InfoSII(money int64) string {
	return fmt.Sprintf("SiiNunit\n{\nsave_container : _nameless.5e6f {\n name: \"\"\n info_money_account: %d\n}\n}\n", money)
}

// Home is a fake Linux home directory.
type Home struct {
	t   testing.TB
	Dir string
}

// NewHome creates a [Home] in a temporary directory.
func NewHome(t testing.TB) *Home {
	t.Helper()

	return &Home{t: t, Dir: t.TempDir()}
}

// Root returns the native data root of g.
func (h *Home) Root(g games.Game) string {
	return filepath.Join(h.Dir, ".local", "share", g.FolderName())
}

// AddProfile creates a profile with the hex-encoded display name and returns
// its path.
func (h *Home) AddProfile(g games.Game, displayName string) string {
	h.t.Helper()

	p := filepath.Join(h.Root(g), "profiles", hex.EncodeToString([]byte(displayName)))
	require.NoError(h.t, os.MkdirAll(filepath.Join(p, "save"), 0o750))
	require.NoError(h.t, os.WriteFile(filepath.Join(p, "profile.sii"), []byte("SiiNunit\n{\n}\n"), 0o600))

	return p
}

// AddSave writes game.sii (and info.sii when info is not nil) for a new save.
func (h *Home) AddSave(profilePath, name string, game, info []byte) *profile.SaveFile {
	h.t.Helper()

	s := profile.NewSaveFile(h.gameOf(profilePath), profilePath, name)
	require.NoError(h.t, os.MkdirAll(s.Path, 0o750))
	require.NoError(h.t, os.WriteFile(s.GameSIIPath(), game, 0o600))

	if info != nil {
		require.NoError(h.t, os.WriteFile(s.InfoSIIPath(), info, 0o600))
	}

	return s
}

// gameOf returns the game whose root holds profilePath.
func (h *Home) gameOf(profilePath string) games.Type {
	h.t.Helper()

	for _, g := range games.Supported {
		if strings.HasPrefix(profilePath, h.Root(g)+string(filepath.Separator)) {
			return g.Type
		}
	}

	require.Failf(h.t, "unknown profile", "%q is not under a game root", profilePath)

	return ""
}

func (h *Home) Env() games.Env {
	return games.Env{Home: h.Dir}
}

// Detector returns a Linux [profile.Detector] over every supported game.
func (h *Home) Detector() *profile.Detector {
	return profile.NewDetector(
		profile.WithPlatform(games.PlatformLinux),
		profile.WithEnv(h.Env()),
		profile.WithGames(games.Supported...),
	)
}

// ReadFile returns the contents of path as a string.
func (h *Home) ReadFile(path string) string {
	h.t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(h.t, err)

	return string(data)
}

// WriteConfig writes a new config file that points discovery at h on Linux
// and returns its path. extra is appended as raw YAML.
func (h *Home) WriteConfig(extra string) string {
	h.t.Helper()

	f, err := os.CreateTemp(h.Dir, "config-*.yaml")
	require.NoError(h.t, err)

	_, err = fmt.Fprintf(f, "home: %q\nplatform: linux\n%s", h.Dir, extra)
	require.NoError(h.t, err)
	require.NoError(h.t, f.Close())

	return f.Name()
}
