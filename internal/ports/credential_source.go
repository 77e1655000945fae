package ports

import "context"

// CredentialSource hands out the bearer credential the sync engine attaches
// to remote calls. Acquisition and refresh happen elsewhere; the engine only
// reads tokens and reports rejection.
type CredentialSource interface {
	// Token returns the current bearer credential, or domain.ErrNoCredential.
	Token(ctx context.Context) (string, error)
	// Invalidate marks the current credential as rejected so later cycles
	// skip network work until a fresh credential appears.
	Invalidate(ctx context.Context) error
}
