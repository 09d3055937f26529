package games

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

var (
	ErrUnknownPlatform = errors.New("unknown platform")
	ErrUnknownGame     = errors.New("unknown game")
)

type Platform string

const (
	PlatformWindows Platform = "windows"
	PlatformLinux   Platform = "linux"
	PlatformMacOS   Platform = "macos"
)

// CurrentPlatform returns the [Platform] the binary was built for. Anything
// that is neither Windows nor macOS is treated as Linux.
func CurrentPlatform() Platform {
	switch runtime.GOOS {
	case "windows":
		return PlatformWindows
	case "darwin":
		return PlatformMacOS
	}

	return PlatformLinux
}

func ParsePlatform(s string) (Platform, error) {
	switch p := Platform(strings.ToLower(strings.TrimSpace(s))); p {
	case PlatformWindows, PlatformLinux, PlatformMacOS:
		return p, nil
	case "darwin":
		return PlatformMacOS, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownPlatform, s)
}

type Type string

const (
	TypeETS2 Type = "ets2"
	TypeATS  Type = "ats"
)

type Game struct {
	Type       Type
	Name       string
	SteamAppID string
}

var (
	ETS2 = Game{Type: TypeETS2, Name: "Euro Truck Simulator 2", SteamAppID: "227300"}
	ATS  = Game{Type: TypeATS, Name: "American Truck Simulator", SteamAppID: "270880"}

	// Supported lists every game in detection order.
	Supported = []Game{ETS2, ATS}
)

// Lookup returns the supported [Game] with the given type.
func Lookup(t string) (Game, error) {
	want := Type(strings.ToLower(strings.TrimSpace(t)))
	for _, g := range Supported {
		if g.Type == want {
			return g, nil
		}
	}

	return Game{}, fmt.Errorf("%w: %q", ErrUnknownGame, t)
}

// FolderName is the name of the game's documents folder.
func (g Game) FolderName() string {
	if g.Type == TypeETS2 {
		return "Euro Truck Simulator 2"
	}

	return "American Truck Simulator"
}

// Env holds the machine-specific inputs to path discovery.
type Env struct {
	// Extra data roots per game, checked in addition to the defaults.
	ExtraRoots      map[Type][]string
	Home            string
	UserProfile     string
	ProgramFiles    string
	ProgramFilesX86 string
}

// DefaultEnv reads an [Env] from the current process.
func DefaultEnv() Env {
	home, err := os.UserHomeDir()
	if err != nil {
		slog.Debug("could not resolve home directory", slog.Any("err", err))
	}

	return Env{
		Home:            home,
		UserProfile:     os.Getenv("USERPROFILE"),
		ProgramFiles:    envOr("ProgramFiles", "C:/Program Files"),
		ProgramFilesX86: envOr("ProgramFiles(x86)", "C:/Program Files (x86)"),
	}
}

// Paths returns the existing data roots of g on platform p. A data root is a
// directory that may contain "profiles".
func (g Game) Paths(p Platform, env Env) []string {
	var candidates []string

	switch p {
	case PlatformWindows:
		candidates = g.windowsPaths(env)
	case PlatformLinux:
		candidates = g.linuxPaths(env)
	case PlatformMacOS:
		if env.Home != "" {
			candidates = []string{filepath.Join(env.Home, "Library", "Application Support", g.FolderName())}
		}
	}

	candidates = append(candidates, env.ExtraRoots[g.Type]...)

	paths := []string{}
	seen := map[string]bool{}

	for _, c := range candidates {
		if seen[c] || !isDir(c) {
			continue
		}

		seen[c] = true
		paths = append(paths, c)
	}

	return paths
}

func (g Game) windowsPaths(env Env) []string {
	paths := []string{}

	if env.UserProfile != "" {
		paths = append(paths,
			filepath.Join(env.UserProfile, "Documents", g.FolderName()),
			filepath.Join(env.UserProfile, "OneDrive", "Documents", g.FolderName()),
		)
	}

	steamRoots := []string{
		filepath.Join(env.ProgramFilesX86, "Steam", "userdata"),
		filepath.Join(env.ProgramFiles, "Steam", "userdata"),
	}
	if env.UserProfile != "" {
		steamRoots = append(steamRoots, filepath.Join(env.UserProfile, "Steam", "userdata"))
	}

	return append(paths, g.steamPaths(steamRoots)...)
}

func (g Game) linuxPaths(env Env) []string {
	if env.Home == "" {
		return nil
	}

	paths := []string{
		filepath.Join(env.Home, ".local", "share", g.FolderName()),
	}

	steamRoots := []string{
		filepath.Join(env.Home, ".steam", "steam", "userdata"),
		filepath.Join(env.Home, ".local", "share", "Steam", "userdata"),
		filepath.Join(env.Home, ".var", "app", "com.valvesoftware.Steam", ".steam", "steam", "userdata"),
	}

	return append(paths, g.steamPaths(steamRoots)...)
}

// steamPaths returns "<root>/<user>/<appid>/remote" for every Steam user.
func (g Game) steamPaths(roots []string) []string {
	paths := []string{}

	for _, root := range roots {
		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}

		for _, e := range entries {
			if !e.IsDir() {
				continue
			}

			paths = append(paths, filepath.Join(root, e.Name(), g.SteamAppID, "remote"))
		}
	}

	return paths
}

// DetectInstalled returns the supported games with at least one data root.
func DetectInstalled(p Platform, env Env) []Game {
	found := []Game{}

	for _, g := range Supported {
		if len(g.Paths(p, env)) > 0 {
			found = append(found, g)
		}
	}

	return found
}

func isDir(path string) bool {
	fi, err := os.Stat(path)

	return err == nil && fi.IsDir()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
