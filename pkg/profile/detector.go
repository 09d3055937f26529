package profile

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/etsvibes/ets-vibes/pkg/games"
)

// profileDirs are the directories under a data root that hold profiles.
var profileDirs = []string{"profiles", "steam_profiles"}

// Detector finds profiles and saves. Create instances with [NewDetector].
type Detector struct {
	platform games.Platform
	games    []games.Game
	env      games.Env
}

type DetectorOpts func(*Detector)

// WithGames restricts detection to the given games. Without it, every
// installed game is used.
func WithGames(g ...games.Game) DetectorOpts {
	return func(d *Detector) {
		d.games = g
	}
}

func WithPlatform(p games.Platform) DetectorOpts {
	return func(d *Detector) {
		d.platform = p
	}
}

func WithEnv(env games.Env) DetectorOpts {
	return func(d *Detector) {
		d.env = env
	}
}

func NewDetector(opts ...DetectorOpts) *Detector {
	d := &Detector{
		platform: games.CurrentPlatform(),
		env:      games.DefaultEnv(),
	}
	for _, opt := range opts {
		opt(d)
	}

	if d.games == nil {
		d.games = games.DetectInstalled(d.platform, d.env)
	}

	return d
}

// Games returns the games the detector searches.
func (d *Detector) Games() []games.Game {
	return d.games
}

func (d *Detector) Platform() games.Platform {
	return d.platform
}

// Profiles returns every profile directory holding a profile.sii, in path
// order.
func (d *Detector) Profiles() ([]*Profile, error) {
	profiles := []*Profile{}
	seen := map[string]bool{}

	for _, g := range d.games {
		for _, root := range g.Paths(d.platform, d.env) {
			for _, dir := range profileDirs {
				base := filepath.Join(root, dir)

				entries, err := readDir(base)
				if err != nil {
					return nil, err
				}

				for _, e := range entries {
					p := filepath.Join(base, e.Name())
					if !e.IsDir() || seen[p] || !fileExists(filepath.Join(p, profileSIIName)) {
						continue
					}

					seen[p] = true
					profiles = append(profiles, NewProfile(p, g.Type))
				}
			}
		}
	}

	slices.SortStableFunc(profiles, func(a, b *Profile) int {
		return strings.Compare(a.Path, b.Path)
	})

	slog.Debug("found profiles", slog.Int("count", len(profiles)))

	return profiles, nil
}

// Saves returns the saves of p that hold a game.sii, in name order.
func (d *Detector) Saves(p *Profile) ([]*SaveFile, error) {
	entries, err := readDir(filepath.Join(p.Path, "save"))
	if err != nil {
		return nil, err
	}

	saves := []*SaveFile{}

	for _, e := range entries {
		if !e.IsDir() || !fileExists(filepath.Join(p.Path, "save", e.Name(), gameSIIName)) {
			continue
		}

		saves = append(saves, NewSaveFile(p.Game, p.Path, e.Name()))
	}

	return saves, nil
}

// AllSaves returns the saves of every profile.
func (d *Detector) AllSaves() ([]*SaveFile, error) {
	profiles, err := d.Profiles()
	if err != nil {
		return nil, err
	}

	all := []*SaveFile{}

	for _, p := range profiles {
		saves, err := d.Saves(p)
		if err != nil {
			return nil, err
		}

		all = append(all, saves...)
	}

	return all, nil
}

// Find returns the first save named saveName. When profileFilter is not
// empty, only profiles whose display name contains it (ignoring case) are
// searched.
func (d *Detector) Find(saveName, profileFilter string) (*Profile, *SaveFile, error) {
	profiles, err := d.Profiles()
	if err != nil {
		return nil, nil, err
	}

	filter := strings.ToLower(profileFilter)

	for _, p := range profiles {
		if filter != "" && !strings.Contains(strings.ToLower(p.DisplayName()), filter) {
			continue
		}

		saves, err := d.Saves(p)
		if err != nil {
			return nil, nil, err
		}

		for _, s := range saves {
			if s.Name == saveName {
				return p, s, nil
			}
		}
	}

	return nil, nil, fmt.Errorf("%w: %q", ErrSaveNotFound, saveName)
}

// readDir is [os.ReadDir] that treats a missing directory as empty.
func readDir(path string) ([]os.DirEntry, error) {
	entries, err := os.ReadDir(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadSave, err)
	}

	return entries, nil
}

func fileExists(path string) bool {
	fi, err := os.Lstat(path)
	if err != nil || fi.IsDir() {
		return false
	}

	return true
}
