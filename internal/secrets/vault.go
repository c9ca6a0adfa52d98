package secrets

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
	"go.uber.org/zap"
)

const defaultCacheTTL = 5 * time.Minute

// keyVaultAPI is the part of azsecrets.Client the vault client calls
type keyVaultAPI interface {
	GetSecret(ctx context.Context, name string, version string, options *azsecrets.GetSecretOptions) (azsecrets.GetSecretResponse, error)
}

// VaultClient reads secrets from Azure Key Vault with an optional TTL cache
type VaultClient struct {
	api       keyVaultAPI
	vaultName string
	logger    *zap.Logger
	ttl       time.Duration
	cached    bool
	now       func() time.Time

	mu    sync.Mutex
	cache map[string]cachedSecret
}

type cachedSecret struct {
	value     string
	expiresAt time.Time
}

// VaultConfig holds configuration for the vault client
type VaultConfig struct {
	VaultName    string
	CacheEnabled bool
	CacheTTL     time.Duration
}

// NewVaultClient connects to https://<name>.vault.azure.net with
// DefaultAzureCredential (environment, managed identity or az login)
func NewVaultClient(cfg *VaultConfig, logger *zap.Logger) (*VaultClient, error) {
	if cfg.VaultName == "" {
		return nil, fmt.Errorf("vault name is required")
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure credential: %w", err)
	}

	vaultURL := fmt.Sprintf("https://%s.vault.azure.net/", cfg.VaultName)
	client, err := azsecrets.NewClient(vaultURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Key Vault client: %w", err)
	}

	logger.Info("Azure Key Vault client initialized", zap.String("vault_url", vaultURL))
	return newVaultClient(client, cfg, logger), nil
}

func newVaultClient(api keyVaultAPI, cfg *VaultConfig, logger *zap.Logger) *VaultClient {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &VaultClient{
		api:       api,
		vaultName: cfg.VaultName,
		logger:    logger,
		ttl:       ttl,
		cached:    cfg.CacheEnabled,
		now:       time.Now,
		cache:     make(map[string]cachedSecret),
	}
}

// GetSecret returns the latest version of name
func (v *VaultClient) GetSecret(ctx context.Context, name string) (string, error) {
	if value, ok := v.lookup(name); ok {
		return value, nil
	}

	resp, err := v.api.GetSecret(ctx, name, "", nil)
	if err != nil {
		v.logger.Error("failed to get secret from Key Vault", zap.String("secret_name", name), zap.Error(err))
		return "", fmt.Errorf("failed to get secret '%s': %w", name, err)
	}
	if resp.Value == nil {
		return "", fmt.Errorf("%w: secret '%s' has no value", ErrNotFound, name)
	}

	if v.cached {
		v.mu.Lock()
		v.cache[name] = cachedSecret{value: *resp.Value, expiresAt: v.now().Add(v.ttl)}
		v.mu.Unlock()
	}
	return *resp.Value, nil
}

func (v *VaultClient) lookup(name string) (string, bool) {
	if !v.cached {
		return "", false
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	entry, ok := v.cache[name]
	if !ok {
		return "", false
	}
	if !v.now().Before(entry.expiresAt) {
		delete(v.cache, name)
		return "", false
	}
	return entry.value, true
}

// ClearCache drops every cached secret
func (v *VaultClient) ClearCache() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cache = make(map[string]cachedSecret)
}
