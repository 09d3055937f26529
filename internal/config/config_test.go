package config_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etsvibes/ets-vibes/internal/config"
	"github.com/etsvibes/ets-vibes/pkg/games"
	"github.com/etsvibes/ets-vibes/pkg/profile"
	"github.com/etsvibes/ets-vibes/pkg/savetest"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input string
		want  *config.Config
		err   error
	}{
		"empty": {
			input: "",
			want:  config.Default(),
		},
		"full": {
			input: `
games: [ets2]
platform: linux
home: /home/trucker
extra_paths:
  ats: [/mnt/ats]
quick:
  money: 100
`,
			want: &config.Config{
				Games:      []string{"ets2"},
				Platform:   "linux",
				Home:       "/home/trucker",
				ExtraPaths: map[string][]string{"ats": {"/mnt/ats"}},
				Quick:      config.Quick{Money: 100, XP: config.DefaultQuickXP},
			},
		},
		"unknown field": {
			input: "colour: red\n",
			err:   config.ErrInvalidConfig,
		},
		"unknown game": {
			input: "games: [eurotruck]\n",
			err:   games.ErrUnknownGame,
		},
		"unknown platform": {
			input: "platform: amiga\n",
			err:   games.ErrUnknownPlatform,
		},
		"negative quick": {
			input: "quick:\n  xp: -1\n",
			err:   config.ErrInvalidConfig,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := config.Parse(strings.NewReader(tc.input))
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestValidateReportsEveryField(t *testing.T) {
	t.Parallel()

	c := &config.Config{
		Games:    []string{"eurotruck"},
		Platform: "amiga",
		Quick:    config.Quick{Money: -1, XP: -1},
	}

	err := c.Validate()
	require.ErrorIs(t, err, config.ErrInvalidConfig)
	require.ErrorIs(t, err, games.ErrUnknownGame)
	require.ErrorIs(t, err, games.ErrUnknownPlatform)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 4)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, err := config.Load(filepath.Join(dir, "missing.yaml"))
	require.ErrorIs(t, err, config.ErrReadConfig)

	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("quick:\n  money: 5\n"), 0o600))

	c, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(5), c.Quick.Money)

	require.NoError(t, os.WriteFile(path, []byte("games: [nope]\n"), 0o600))

	_, err = config.Load(path)
	require.ErrorIs(t, err, config.ErrInvalidConfig)
	assert.Contains(t, err.Error(), path)
}

func TestDetectorOpts(t *testing.T) {
	t.Parallel()

	h := savetest.NewHome(t)
	p := h.AddProfile(games.ETS2, "Alice")
	h.AddSave(p, "1", []byte(savetest.GameSII(1, 1)), nil)

	extra := t.TempDir()
	ats := filepath.Join(extra, "profiles", "426f62")
	require.NoError(t, os.MkdirAll(ats, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(ats, "profile.sii"), nil, 0o600))

	c := &config.Config{
		Home:       h.Dir,
		Platform:   "linux",
		ExtraPaths: map[string][]string{"ats": {extra}},
	}

	opts, err := c.DetectorOpts()
	require.NoError(t, err)

	d := profile.NewDetector(opts...)
	assert.Equal(t, games.PlatformLinux, d.Platform())
	assert.Equal(t, []games.Game{games.ETS2, games.ATS}, d.Games())

	profiles, err := d.Profiles()
	require.NoError(t, err)
	require.Len(t, profiles, 2)

	c.Games = []string{"ats"}

	opts, err = c.DetectorOpts()
	require.NoError(t, err)

	profiles, err = profile.NewDetector(opts...).Profiles()
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, "Bob", profiles[0].DisplayName())
}

func TestSchema(t *testing.T) {
	t.Parallel()

	b, err := config.Schema()
	require.NoError(t, err)

	var s map[string]any
	require.NoError(t, json.Unmarshal(b, &s))

	props, ok := s["properties"].(map[string]any)
	require.True(t, ok)

	for _, key := range []string{"games", "platform", "home", "extra_paths", "quick"} {
		assert.Contains(t, props, key)
	}
}
