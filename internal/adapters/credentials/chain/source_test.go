package chain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lingodeck/lingodeck/internal/domain"
)

type stubSource struct {
	token       string
	tokenErr    error
	invalidated bool
}

func (s *stubSource) Token(_ context.Context) (string, error) {
	if s.tokenErr != nil {
		return "", s.tokenErr
	}
	return s.token, nil
}

func (s *stubSource) Invalidate(_ context.Context) error {
	s.invalidated = true
	return nil
}

func TestNewSourceRejectsNilSources(t *testing.T) {
	t.Parallel()

	_, err := NewSource(nil, &stubSource{})
	require.Error(t, err)

	_, err = NewSource(&stubSource{}, nil)
	require.Error(t, err)
}

func TestTokenPrefersPrimary(t *testing.T) {
	t.Parallel()

	source, err := NewSource(&stubSource{token: "tok-primary"}, &stubSource{token: "tok-fallback"})
	require.NoError(t, err)

	token, err := source.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-primary", token)
}

func TestTokenFallsBackOnMissingCredential(t *testing.T) {
	t.Parallel()

	source, err := NewSource(&stubSource{tokenErr: domain.ErrNoCredential}, &stubSource{token: "tok-fallback"})
	require.NoError(t, err)

	token, err := source.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-fallback", token)
}

func TestTokenPropagatesRealPrimaryErrors(t *testing.T) {
	t.Parallel()

	readErr := errors.New("permission denied")
	source, err := NewSource(&stubSource{tokenErr: readErr}, &stubSource{token: "tok-fallback"})
	require.NoError(t, err)

	_, err = source.Token(context.Background())
	require.ErrorIs(t, err, readErr, "only a missing credential may trigger the fallback")
}

func TestInvalidateHitsEverySource(t *testing.T) {
	t.Parallel()

	primary := &stubSource{token: "tok-a"}
	fallback := &stubSource{token: "tok-b"}
	source, err := NewSource(primary, fallback)
	require.NoError(t, err)

	require.NoError(t, source.Invalidate(context.Background()))
	assert.True(t, primary.invalidated)
	assert.True(t, fallback.invalidated)
}
