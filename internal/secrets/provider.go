// Package secrets resolves the few secrets the tool needs, either from the
// environment or from Azure Key Vault.
package secrets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

// SecretSource defines where secrets are loaded from
type SecretSource string

const (
	SourceEnvironment SecretSource = "environment"
	SourceVault       SecretSource = "vault"
	// SourceAuto picks the environment for development and the vault otherwise
	SourceAuto SecretSource = "auto"
)

// ErrNotFound is returned when a secret has no value in its source
var ErrNotFound = errors.New("secret not found")

// ResolveSource turns SourceAuto into a concrete source for environment
func ResolveSource(source SecretSource, environment string) SecretSource {
	if source != SourceAuto {
		return source
	}
	switch environment {
	case "development", "local", "":
		return SourceEnvironment
	default:
		return SourceVault
	}
}

// Getter fetches one secret by name
type Getter interface {
	GetSecret(ctx context.Context, name string) (string, error)
}

// Provider reads secrets from the configured source. Environment variables
// can override a vault secret through GetSecretOrEnv.
type Provider struct {
	source SecretSource
	vault  Getter
	logger *zap.Logger
}

// ProviderConfig holds configuration for the secrets provider
type ProviderConfig struct {
	Source       SecretSource
	VaultName    string
	Environment  string
	CacheEnabled bool
	CacheTTL     time.Duration
}

// NewProvider creates a provider, connecting to Key Vault when the resolved
// source is the vault
func NewProvider(cfg *ProviderConfig, logger *zap.Logger) (*Provider, error) {
	source := ResolveSource(cfg.Source, cfg.Environment)
	if source != SourceVault {
		return NewProviderWithGetter(source, nil, logger), nil
	}

	if cfg.VaultName == "" {
		return nil, fmt.Errorf("vault name required when using vault secret source")
	}
	vault, err := NewVaultClient(&VaultConfig{
		VaultName:    cfg.VaultName,
		CacheEnabled: cfg.CacheEnabled,
		CacheTTL:     cfg.CacheTTL,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize vault client: %w", err)
	}
	return NewProviderWithGetter(source, vault, logger), nil
}

// NewProviderWithGetter creates a provider over an existing vault getter
func NewProviderWithGetter(source SecretSource, vault Getter, logger *zap.Logger) *Provider {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug("secrets provider initialized", zap.String("source", string(source)))
	return &Provider{source: source, vault: vault, logger: logger}
}

// GetSecret reads name from the configured source. For the environment
// source name is the variable name.
func (p *Provider) GetSecret(ctx context.Context, name string) (string, error) {
	switch p.source {
	case SourceEnvironment:
		value := os.Getenv(name)
		if value == "" {
			return "", fmt.Errorf("%w: environment variable %s not set", ErrNotFound, name)
		}
		return value, nil
	case SourceVault:
		if p.vault == nil {
			return "", fmt.Errorf("vault client not initialized")
		}
		return p.vault.GetSecret(ctx, name)
	default:
		return "", fmt.Errorf("unknown secret source: %s", p.source)
	}
}

// GetSecretOrEnv prefers envName when it is set and falls back to secretName
// in the configured source
func (p *Provider) GetSecretOrEnv(ctx context.Context, secretName, envName string) (string, error) {
	if v := os.Getenv(envName); v != "" {
		p.logger.Debug("using environment override for secret", zap.String("env_name", envName))
		return v, nil
	}
	return p.GetSecret(ctx, secretName)
}

// Source returns the resolved source
func (p *Provider) Source() SecretSource { return p.source }
