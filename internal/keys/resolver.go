// Package keys resolves tenant decryption keys for the claims decoder.
package keys

import (
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/lestrrat-go/jwx/v3/jwk"

	"github.com/TwigBush/uma-go/internal/uma"
)

// Resolver yields the RSA private key a tenant's encrypted claims tokens
// are decrypted with.
type Resolver interface {
	PrivateKey(tenantDomain string) (*rsa.PrivateKey, error)
}

// FileResolver loads tenant keys from <dir>/<tenant>.jwk files. Parsed keys
// are cached for the process lifetime; key rotation means a restart.
type FileResolver struct {
	dir string

	mu    sync.RWMutex
	cache map[string]*rsa.PrivateKey
}

func NewFileResolver(dir string) *FileResolver {
	return &FileResolver{dir: dir, cache: make(map[string]*rsa.PrivateKey)}
}

func (r *FileResolver) PrivateKey(tenantDomain string) (*rsa.PrivateKey, error) {
	if tenantDomain == "" {
		tenantDomain = uma.SuperTenantDomain
	}

	r.mu.RLock()
	k, ok := r.cache[tenantDomain]
	r.mu.RUnlock()
	if ok {
		return k, nil
	}

	path := filepath.Join(r.dir, tenantDomain+".jwk")
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, uma.ServerWrap(uma.CodeKeyResolution, err, "no private key for tenant %q", tenantDomain)
	}
	key, err := jwk.ParseKey(b)
	if err != nil {
		return nil, uma.ServerWrap(uma.CodeKeyResolution, err, "parse private key for tenant %q", tenantDomain)
	}

	var raw rsa.PrivateKey
	if err := jwk.Export(key, &raw); err != nil {
		return nil, uma.ServerWrap(uma.CodeKeyResolution, err, "tenant %q key is not an RSA private key", tenantDomain)
	}

	r.mu.Lock()
	r.cache[tenantDomain] = &raw
	r.mu.Unlock()
	return &raw, nil
}

// Static maps tenant domains to fixed keys. Test and single-tenant use.
type Static struct {
	Keys map[string]*rsa.PrivateKey
}

func (s Static) PrivateKey(tenantDomain string) (*rsa.PrivateKey, error) {
	if tenantDomain == "" {
		tenantDomain = uma.SuperTenantDomain
	}
	k, ok := s.Keys[tenantDomain]
	if !ok {
		return nil, uma.Serverf(uma.CodeKeyResolution, "no private key for tenant %q", tenantDomain)
	}
	return k, nil
}

// Generate writes a fresh RSA tenant key to <dir>/<tenant>.jwk and returns
// the path. Used by the `keys new` CLI command.
func Generate(dir, tenantDomain string, key *rsa.PrivateKey) (string, error) {
	jk, err := jwk.Import(key)
	if err != nil {
		return "", fmt.Errorf("import private key: %w", err)
	}
	if err := jk.Set(jwk.KeyIDKey, tenantDomain); err != nil {
		return "", fmt.Errorf("set key id: %w", err)
	}
	b, err := json.MarshalIndent(jk, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal private key: %w", err)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("create key dir: %w", err)
	}
	path := filepath.Join(dir, tenantDomain+".jwk")
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return "", fmt.Errorf("write private key: %w", err)
	}
	return path, nil
}
