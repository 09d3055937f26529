package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/etsvibes/ets-vibes/pkg/games"
	"github.com/etsvibes/ets-vibes/pkg/profile"
)

const (
	dirName  = "ets-vibes"
	fileName = "config.yaml"

	DefaultQuickMoney int64 = 50_000_000
	DefaultQuickXP    int64 = 10_000_000
)

var (
	ErrReadConfig    = errors.New("read config")
	ErrInvalidConfig = errors.New("invalid config")
)

// Config is the contents of the configuration file.
type Config struct {
	// ExtraPaths adds data roots per game, for installs outside the usual
	// locations.
	ExtraPaths map[string][]string `json:"extra_paths,omitempty" yaml:"extra_paths,omitempty"`
	// Platform overrides the detected platform.
	Platform string `json:"platform,omitempty" jsonschema:"enum=windows,enum=linux,enum=macos" yaml:"platform,omitempty"`
	// Home overrides the home directory used for discovery.
	Home string `json:"home,omitempty" yaml:"home,omitempty"`
	// Games restricts discovery to the listed games (ets2, ats).
	Games []string `json:"games,omitempty" yaml:"games,omitempty"`
	// Quick holds the values used by the quick commands.
	Quick Quick `json:"quick,omitempty" yaml:"quick,omitempty"`
}

type Quick struct {
	Money int64 `json:"money,omitempty" jsonschema:"minimum=0" yaml:"money,omitempty"`
	XP    int64 `json:"xp,omitempty"    jsonschema:"minimum=0" yaml:"xp,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Quick: Quick{
			Money: DefaultQuickMoney,
			XP:    DefaultQuickXP,
		},
	}
}

// DefaultPath returns the per-user configuration file path.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrReadConfig, err)
	}

	return filepath.Join(dir, dirName, fileName), nil
}

// Load reads the file at path. With an empty path, the file at [DefaultPath]
// is read if it exists.
func Load(path string) (*Config, error) {
	explicit := path != ""

	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil //nolint:nilerr // No config dir means no config.
		}

		path = p
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return Default(), nil
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadConfig, err)
	}

	c, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return c, nil
}

// Parse decodes a configuration from r. Unknown fields are rejected, and
// unset quick values keep their defaults.
func Parse(r io.Reader) (*Config, error) {
	c := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	err := dec.Decode(c)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate checks every field.
func (c *Config) Validate() error {
	var merr error

	if _, err := c.games(); err != nil {
		merr = multierror.Append(merr, err)
	}

	if c.Platform != "" {
		if _, err := games.ParsePlatform(c.Platform); err != nil {
			merr = multierror.Append(merr, err)
		}
	}

	for g := range c.ExtraPaths {
		if _, err := games.Lookup(g); err != nil {
			merr = multierror.Append(merr, fmt.Errorf("extra_paths: %w", err))
		}
	}

	if c.Quick.Money < 0 {
		merr = multierror.Append(merr, fmt.Errorf("quick.money must not be negative, got %d", c.Quick.Money))
	}

	if c.Quick.XP < 0 {
		merr = multierror.Append(merr, fmt.Errorf("quick.xp must not be negative, got %d", c.Quick.XP))
	}

	if merr != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, merr)
	}

	return nil
}

func (c *Config) games() ([]games.Game, error) {
	out := make([]games.Game, 0, len(c.Games))

	for _, name := range c.Games {
		g, err := games.Lookup(name)
		if err != nil {
			return nil, err
		}

		out = append(out, g)
	}

	return out, nil
}

// DetectorOpts converts the configuration to [profile.Detector] options.
func (c *Config) DetectorOpts() ([]profile.DetectorOpts, error) {
	opts := []profile.DetectorOpts{}

	env := games.DefaultEnv()
	if c.Home != "" {
		env.Home = c.Home
		env.UserProfile = c.Home
	}

	if len(c.ExtraPaths) > 0 {
		env.ExtraRoots = map[games.Type][]string{}

		for name, paths := range c.ExtraPaths {
			g, err := games.Lookup(name)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
			}

			env.ExtraRoots[g.Type] = append(env.ExtraRoots[g.Type], paths...)
		}
	}

	opts = append(opts, profile.WithEnv(env))

	if c.Platform != "" {
		p, err := games.ParsePlatform(c.Platform)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}

		opts = append(opts, profile.WithPlatform(p))
	}

	if len(c.Games) > 0 {
		gs, err := c.games()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}

		opts = append(opts, profile.WithGames(gs...))
	}

	return opts, nil
}
