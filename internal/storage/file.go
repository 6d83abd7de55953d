package storage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"github.com/google/uuid"

	"dungeonmaster/pkg/game"
)

// DefaultSaveName is used when the caller does not name the save.
const DefaultSaveName = "web_save"

// saveNamePattern strips everything that is not safe in a filename.
var saveNamePattern = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// FileStore writes save documents to a directory on disk as indented
// UTF-8 JSON, one file per save, overwriting unconditionally.
type FileStore struct {
	dir    string
	logger *slog.Logger
}

// NewFileStore creates a save-file store rooted at dir. The directory
// is created on first save, not here.
func NewFileStore(dir string, logger *slog.Logger) *FileStore {
	if dir == "" {
		dir = "saves"
	}
	return &FileStore{
		dir:    dir,
		logger: logger,
	}
}

// SanitizeSaveName reduces a user-supplied save name to filename-safe
// characters. An empty result falls back to DefaultSaveName, so
// well-formed names keep their observable behavior.
func SanitizeSaveName(name string) string {
	name = saveNamePattern.ReplaceAllString(name, "")
	if name == "" {
		return DefaultSaveName
	}
	return name
}

// Filename returns the save path for a session: the sanitized save
// name plus the first 8 characters of the session id.
func (f *FileStore) Filename(saveName string, id uuid.UUID) string {
	return filepath.Join(f.dir, fmt.Sprintf("%s_%s.json", SanitizeSaveName(saveName), id.String()[:8]))
}

// Save writes the document and returns the filename it used. Failures
// are logged and returned; the caller treats them as survivable.
func (f *FileStore) Save(saveName string, id uuid.UUID, save game.SaveFile) (string, error) {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		f.logger.Error("Failed to create save directory", "dir", f.dir, "error", err)
		return "", fmt.Errorf("failed to create save directory: %w", err)
	}

	data, err := game.MarshalSave(save)
	if err != nil {
		return "", fmt.Errorf("failed to marshal save: %w", err)
	}

	filename := f.Filename(saveName, id)
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		f.logger.Error("Failed to write save file", "filename", filename, "error", err)
		return "", fmt.Errorf("failed to write save file: %w", err)
	}

	f.logger.Info("Game saved", "filename", filename, "session_id", id)
	return filename, nil
}

// Load reads a save document from the given path. A missing file is
// reported as (nil, nil), not an error.
func (f *FileStore) Load(filename string) (*game.SaveFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			f.logger.Warn("Save file not found", "filename", filename)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read save file: %w", err)
	}

	save, err := game.UnmarshalSave(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse save file: %w", err)
	}
	return &save, nil
}
