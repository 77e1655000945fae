// Package env reads the bearer credential from the process environment,
// for CI runs and ad hoc shells. The environment cannot be rewritten, so
// invalidation remembers the rejected value for the process lifetime.
package env

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/lingodeck/lingodeck/internal/domain"
	"github.com/lingodeck/lingodeck/internal/ports"
)

const DefaultVar = "LINGODECK_TOKEN"

type Source struct {
	Var string

	mu       sync.Mutex
	rejected string
}

var _ ports.CredentialSource = (*Source)(nil)

func NewSource() *Source {
	return &Source{Var: DefaultVar}
}

func (s *Source) Token(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	token := strings.TrimSpace(os.Getenv(s.envVar()))
	if token == "" {
		return "", domain.ErrNoCredential
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if token == s.rejected {
		return "", domain.ErrNoCredential
	}

	return token, nil
}

func (s *Source) Invalidate(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejected = strings.TrimSpace(os.Getenv(s.envVar()))
	return nil
}

func (s *Source) envVar() string {
	if s.Var != "" {
		return s.Var
	}
	return DefaultVar
}
