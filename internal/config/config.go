// Package config loads service configuration from a YAML file with
// UMAGO_-prefixed environment overrides.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ListenAddr string `mapstructure:"listen_addr"`
	Issuer     string `mapstructure:"issuer"`

	// TenantQualified enables tenant-qualified addressing: the tenant in
	// the request path must match the application's tenant.
	TenantQualified bool   `mapstructure:"tenant_qualified"`
	SuperTenant     string `mapstructure:"super_tenant"`

	// EmailUserName treats @-delimited email local parts as usernames when
	// extracting tenant domains from subjects.
	EmailUserName bool `mapstructure:"email_user_name"`

	// VerifyClaimSignature turns on outer-signature verification of
	// plaintext signed claims tokens. Off by default; see internal/claims.
	VerifyClaimSignature bool   `mapstructure:"verify_claim_signature"`
	ClaimVerifyJWKSPath  string `mapstructure:"claim_verify_jwks_path"`

	KeyDir         string `mapstructure:"key_dir"`
	SigningKeyPath string `mapstructure:"signing_key_path"`

	TicketTTLSeconds int64 `mapstructure:"ticket_ttl_seconds"`
	TokenTTLSeconds  int64 `mapstructure:"token_ttl_seconds"`

	// Clients maps client IDs to the tenant domain owning the application.
	Clients map[string]string `mapstructure:"clients"`

	Store  StoreConfig  `mapstructure:"store"`
	Policy PolicyConfig `mapstructure:"policy"`
	FGA    FGAConfig    `mapstructure:"fga"`
}

type StoreConfig struct {
	Backend       string `mapstructure:"backend"` // "memory" | "redis"
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
}

type PolicyConfig struct {
	// Evaluators is the ordered registry: "allow", "deny", "acl", "fga".
	Evaluators []string            `mapstructure:"evaluators"`
	ACL        map[string][]string `mapstructure:"acl"`
}

type FGAConfig struct {
	APIURL  string `mapstructure:"api_url"`
	StoreID string `mapstructure:"store_id"`
	ModelID string `mapstructure:"model_id"`
}

func (c *Config) TicketTTL() time.Duration {
	return time.Duration(c.TicketTTLSeconds) * time.Second
}

// Load reads path (optional) and environment into a Config. A missing file
// is not an error; defaults plus env apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
	}

	v.SetDefault("listen_addr", ":8086")
	v.SetDefault("issuer", "http://localhost:8086")
	v.SetDefault("tenant_qualified", false)
	v.SetDefault("super_tenant", "super")
	v.SetDefault("email_user_name", false)
	v.SetDefault("verify_claim_signature", false)
	v.SetDefault("key_dir", "keys")
	v.SetDefault("signing_key_path", "keys/signing.jwk")
	v.SetDefault("ticket_ttl_seconds", 300)
	v.SetDefault("token_ttl_seconds", 3600)
	v.SetDefault("store.backend", "memory")
	v.SetDefault("policy.evaluators", []string{})

	v.SetEnvPrefix("UMAGO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		if err := v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &nf) {
				return nil, err
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}
