package profile

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/etsvibes/ets-vibes/pkg/games"
)

const (
	gameSIIName    = "game.sii"
	infoSIIName    = "info.sii"
	backupSuffix   = ".backup"
	profileSIIName = "profile.sii"
)

var (
	ErrReadSave     = errors.New("read save")
	ErrWriteSave    = errors.New("write save")
	ErrNoBackup     = errors.New("no backup")
	ErrSaveNotFound = errors.New("save not found")
)

// SaveFile is a single save directory. Create instances with [NewSaveFile].
type SaveFile struct {
	// Directory holding game.sii.
	Path string
	// Name of the save directory, e.g. "autosave" or "1".
	Name string
	// Display name of the owning profile.
	Profile string
	// Game the profile belongs to.
	Game games.Type
}

func NewSaveFile(game games.Type, profilePath, name string) *SaveFile {
	return &SaveFile{
		Path:    filepath.Join(profilePath, "save", name),
		Name:    name,
		Profile: displayName(filepath.Base(profilePath)),
		Game:    game,
	}
}

// Key identifies the save across games and profiles, e.g.
// "ets2:Alice/autosave".
func (s *SaveFile) Key() string {
	return string(s.Game) + ":" + s.Profile + "/" + s.Name
}

func (s *SaveFile) GameSIIPath() string {
	return filepath.Join(s.Path, gameSIIName)
}

func (s *SaveFile) InfoSIIPath() string {
	return filepath.Join(s.Path, infoSIIName)
}

// BackupPath is where the first [SaveFile.WriteGameSII] keeps the original
// game.sii.
func (s *SaveFile) BackupPath() string {
	return s.GameSIIPath() + backupSuffix
}

func (s *SaveFile) ReadGameSII() ([]byte, error) {
	data, err := os.ReadFile(s.GameSIIPath())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadSave, err)
	}

	return data, nil
}

// WriteGameSII replaces game.sii with data. The first write copies the
// current game.sii to [SaveFile.BackupPath]; an existing backup is never
// overwritten.
func (s *SaveFile) WriteGameSII(data []byte) error {
	backup := s.BackupPath()

	_, err := os.Stat(backup)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		slog.Debug("creating backup", slog.String("path", backup))

		if err := copyFile(s.GameSIIPath(), backup); err != nil {
			return fmt.Errorf("%w: backup: %w", ErrWriteSave, err)
		}
	case err != nil:
		return fmt.Errorf("%w: stat backup: %w", ErrWriteSave, err)
	}

	if err := writeFileAtomic(s.GameSIIPath(), data); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteSave, err)
	}

	return nil
}

// ReadInfoSII returns the contents of info.sii. The error wraps
// [fs.ErrNotExist] when the save has no info.sii.
func (s *SaveFile) ReadInfoSII() ([]byte, error) {
	data, err := os.ReadFile(s.InfoSIIPath())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadSave, err)
	}

	return data, nil
}

func (s *SaveFile) WriteInfoSII(data []byte) error {
	if err := writeFileAtomic(s.InfoSIIPath(), data); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteSave, err)
	}

	return nil
}

// ModTime returns the modification time of game.sii.
func (s *SaveFile) ModTime() (time.Time, error) {
	fi, err := os.Stat(s.GameSIIPath())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrReadSave, err)
	}

	return fi.ModTime(), nil
}

// RestoreBackup copies the backup over game.sii. The backup is kept.
func (s *SaveFile) RestoreBackup() error {
	data, err := os.ReadFile(s.BackupPath())
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNoBackup, s.Key())
	} else if err != nil {
		return fmt.Errorf("%w: %w", ErrReadSave, err)
	}

	if err := writeFileAtomic(s.GameSIIPath(), data); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteSave, err)
	}

	return nil
}

// copyFile copies src to dst, keeping the mode and modification time.
func copyFile(src, dst string) error {
	fi, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat %q: %w", src, err)
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read %q: %w", src, err)
	}

	if err := os.WriteFile(dst, data, fi.Mode().Perm()); err != nil {
		return fmt.Errorf("write %q: %w", dst, err)
	}

	if err := os.Chtimes(dst, fi.ModTime(), fi.ModTime()); err != nil {
		return fmt.Errorf("chtimes %q: %w", dst, err)
	}

	return nil
}

// writeFileAtomic writes data to a randomly named sibling of path and renames
// it into place.
func writeFileAtomic(path string, data []byte) error {
	perm := os.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		perm = fi.Mode().Perm()
	}

	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")

	if err := os.WriteFile(tmp, data, perm); err != nil {
		return fmt.Errorf("write %q: %w", tmp, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		if rerr := os.Remove(tmp); rerr != nil {
			slog.Warn("failed to remove temp file",
				slog.String("path", tmp),
				slog.Any("err", rerr),
			)
		}

		return fmt.Errorf("rename %q: %w", tmp, err)
	}

	return nil
}
