package secrets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/billcut/sophie/pkg/logging"
)

// ErrMissingCredential indicates no configured provider yielded a credential.
// The service cannot operate without one and must not start.
var ErrMissingCredential = errors.New("secrets: no provider yielded a credential")

// Credential is the opaque API secret. It is resolved once at startup and
// must never be logged.
type Credential string

// Provider yields a secret value from one source. An empty value with a nil
// error means the source does not hold the secret.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, key string) (string, error)
}

// Resolver tries providers in fixed priority order and returns the first
// non-empty value.
type Resolver struct {
	providers []Provider
	logger    *logging.Logger
}

// NewResolver creates a resolver over the given providers. Order matters:
// earlier providers take precedence.
func NewResolver(logger *logging.Logger, providers ...Provider) *Resolver {
	if logger == nil {
		logger = logging.Default()
	}
	return &Resolver{providers: providers, logger: logger}
}

// Resolve walks the providers and returns the first non-empty credential.
// Provider failures are logged and treated as a miss so a managed store that
// is unreachable locally still falls through to the environment.
func (r *Resolver) Resolve(ctx context.Context, key string) (Credential, error) {
	if strings.TrimSpace(key) == "" {
		return "", errors.New("secrets: credential key is required")
	}

	for _, p := range r.providers {
		value, err := p.Fetch(ctx, key)
		if err != nil {
			r.logger.Warn("secrets: provider lookup failed",
				"provider", p.Name(),
				"error", err,
			)
			continue
		}
		if v := strings.TrimSpace(value); v != "" {
			r.logger.Info("secrets: credential resolved", "provider", p.Name())
			return Credential(v), nil
		}
	}

	return "", fmt.Errorf("%w (key %s)", ErrMissingCredential, key)
}

// EnvProvider reads the secret from a process environment variable.
type EnvProvider struct{}

func (EnvProvider) Name() string { return "env" }

func (EnvProvider) Fetch(_ context.Context, key string) (string, error) {
	return os.Getenv(key), nil
}
