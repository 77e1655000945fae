// Package chain composes credential sources: the first one holding a token
// wins. The usual wiring is environment first with the file store as
// fallback.
package chain

import (
	"context"
	"errors"
	"fmt"

	envsource "github.com/lingodeck/lingodeck/internal/adapters/credentials/env"
	filesource "github.com/lingodeck/lingodeck/internal/adapters/credentials/file"
	"github.com/lingodeck/lingodeck/internal/domain"
	"github.com/lingodeck/lingodeck/internal/ports"
)

type Source struct {
	primary  ports.CredentialSource
	fallback ports.CredentialSource
}

var _ ports.CredentialSource = (*Source)(nil)

var (
	errNilPrimarySource  = errors.New("primary credential source is nil")
	errNilFallbackSource = errors.New("fallback credential source is nil")
)

func NewSource(primary, fallback ports.CredentialSource) (*Source, error) {
	if primary == nil {
		return nil, errNilPrimarySource
	}
	if fallback == nil {
		return nil, errNilFallbackSource
	}

	return &Source{primary: primary, fallback: fallback}, nil
}

func NewEnvFirstWithFileFallback(tokenPath string) (*Source, error) {
	return NewSource(envsource.NewSource(), filesource.NewSource(tokenPath))
}

func (s *Source) Token(ctx context.Context) (string, error) {
	token, err := s.primary.Token(ctx)
	if err == nil {
		return token, nil
	}
	if !errors.Is(err, domain.ErrNoCredential) {
		return "", err
	}

	return s.fallback.Token(ctx)
}

// Invalidate marks the credential rejected in every source; whichever one
// supplied it stops handing it out.
func (s *Source) Invalidate(ctx context.Context) error {
	primaryErr := s.primary.Invalidate(ctx)
	fallbackErr := s.fallback.Invalidate(ctx)

	if primaryErr != nil && fallbackErr != nil {
		return fmt.Errorf("invalidate primary: %w; invalidate fallback: %w", primaryErr, fallbackErr)
	}
	if primaryErr != nil {
		return primaryErr
	}
	return fallbackErr
}
