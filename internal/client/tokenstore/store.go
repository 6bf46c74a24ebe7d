// Package tokenstore keeps the CLI's session token in a file readable only
// by the current user.
package tokenstore

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	dirName  = ".gophjournal"
	fileName = "session"
)

type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

// userHomeDir is a seam for tests.
var userHomeDir = os.UserHomeDir

// Default returns the store at ~/.gophjournal/session.
func Default() (*Store, error) {
	home, err := userHomeDir()
	if err != nil {
		return nil, err
	}
	return New(filepath.Join(home, dirName, fileName)), nil
}

func (s *Store) Path() string { return s.path }

// Load returns the saved token or "" when none is saved.
func (s *Store) Load() (string, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func (s *Store) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return err
	}
	// WriteFile keeps the mode of an existing file.
	return os.Chmod(s.path, 0o600)
}

func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
