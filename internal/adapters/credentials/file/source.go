// Package file keeps the bearer credential in a mode-0600 file under the
// data directory. Invalidation deletes the file: a rejected token is useless
// and holding onto it would make every later cycle re-fail the same way.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/lingodeck/lingodeck/internal/domain"
	"github.com/lingodeck/lingodeck/internal/ports"
)

const (
	tokenFileMode = 0o600
	tokenDirMode  = 0o700
)

type Source struct {
	path string
	mu   sync.RWMutex
}

var _ ports.CredentialSource = (*Source)(nil)

func NewSource(path string) *Source {
	return &Source{path: filepath.Clean(path)}
}

func (s *Source) Token(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", domain.ErrNoCredential
		}
		return "", fmt.Errorf("read credential file: %w", err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", domain.ErrNoCredential
	}
	return token, nil
}

// Store writes a fresh credential, replacing any invalidated one.
func (s *Source) Store(ctx context.Context, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(token) == "" {
		return domain.ErrNoCredential
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), tokenDirMode); err != nil {
		return fmt.Errorf("create credential directory: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), tokenFileMode); err != nil {
		return fmt.Errorf("write credential file: %w", err)
	}
	return nil
}

func (s *Source) Invalidate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove credential file: %w", err)
	}
	return nil
}
