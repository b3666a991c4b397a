package token

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// FileStore is a Provider that persists the token to a JSON file so it
// survives restarts. Writes go through a temp file and rename.
type FileStore struct {
	mu     sync.RWMutex
	path   string
	token  string
	logger *slog.Logger
}

type fileState struct {
	Token string `json:"token"`
}

// OpenFile loads the token persisted at path. A missing file yields an
// empty token.
func OpenFile(path string, logger *slog.Logger) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("path must not be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	fs := &FileStore{path: path, logger: logger}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return fs, nil
	case err != nil:
		return nil, fmt.Errorf("reading token file: %w", err)
	}

	var st fileState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("decoding token file: %w", err)
	}
	fs.token = st.Token

	return fs, nil
}

// Token returns the current token.
func (f *FileStore) Token() string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.token
}

// SetToken replaces the token and persists it. Persistence failures are
// logged; the in-memory value is updated regardless.
func (f *FileStore) SetToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.token = token
	if err := f.persist(); err != nil {
		f.logger.Error("persisting token", "path", f.path, "error", err)
	}
}

func (f *FileStore) persist() error {
	data, err := json.Marshal(fileState{Token: f.token})
	if err != nil {
		return fmt.Errorf("encoding token: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".token-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if err := os.Remove(tmp.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
			f.logger.Error("removing temp token file", "error", err)
		}
	}()

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}

	return nil
}
