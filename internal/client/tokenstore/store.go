// Package tokenstore keeps the CLI's current access token in a file readable
// only by its owner.
package tokenstore

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/phoneauth/internal/filex"
)

// ErrNoToken means nobody is logged in.
var ErrNoToken = errors.New("no saved token, please log in")

type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

// Save replaces the stored token. The file is created with mode 0600.
func (s *FileStore) Save(token string) error {
	if err := filex.WritePrivate(s.path, []byte(token+"\n")); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// Load returns the stored token or ErrNoToken.
func (s *FileStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("load token: %w", err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// Clear removes the stored token. Clearing an empty store is not an error.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}
