// Package claims extracts a verified claim set from a UMA claims token.
//
// A claims token arrives in one of three forms: a plaintext signed JWT, an
// encrypted JWT, or an encrypted JWT whose payload is itself a signed JWT
// (nested). The decoder routes on structural shape, decrypts with the
// tenant's private key when needed, and returns the claim set.
//
// Signatures are NOT cryptographically verified by default: neither the
// outer signed token nor a nested inner token. Known hardening gap; supply
// VerifyKeys to opt in to outer-signature verification.
package claims

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwe"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/TwigBush/uma-go/internal/keys"
	"github.com/TwigBush/uma-go/internal/uma"
)

type Decoder struct {
	Keys keys.Resolver

	// VerifyKeys enables signature verification of plaintext signed tokens
	// when set. Off by default.
	VerifyKeys jwk.Set

	Log *slog.Logger
}

func NewDecoder(resolver keys.Resolver, log *slog.Logger) *Decoder {
	if log == nil {
		log = slog.Default()
	}
	return &Decoder{Keys: resolver, Log: log}
}

// Decode parses token and returns its claim set. tenantDomain selects the
// decryption key for encrypted tokens; empty falls back to the super
// tenant.
func (d *Decoder) Decode(ctx context.Context, token, tenantDomain string) (*uma.ClaimSet, error) {
	if tenantDomain == "" {
		tenantDomain = uma.SuperTenantDomain
	}

	var cs *uma.ClaimSet

	if looksEncrypted(token) {
		payload, err := d.decrypt(token, tenantDomain)
		if err != nil {
			return nil, err
		}
		if payload == nil {
			// Five segments but not a parseable JWE. Ambiguous shape
			// defaults to the plaintext-signed path.
			cs = nil
		} else if isCompactSigned(string(payload)) {
			// Nested: the decrypted payload is itself a signed JWT. The
			// inner signature is not verified here.
			inner, err := jwt.ParseInsecure(payload)
			if err != nil {
				return nil, uma.ServerWrap(uma.CodeMalformedNested, err, "parse nested signed token")
			}
			d.Log.Debug("claims token is encrypted and nested-signed", "tenant", tenantDomain)
			cs = claimSetOf(inner)
		} else {
			var m map[string]any
			if err := json.Unmarshal(payload, &m); err != nil {
				return nil, uma.ServerWrap(uma.CodeMalformedNested, err, "parse decrypted claim set")
			}
			d.Log.Debug("claims token is encrypted, payload is a bare claim set", "tenant", tenantDomain)
			cs = uma.NewClaimSet(m)
		}
	}

	if cs == nil {
		tok, err := d.parseSigned(token)
		if err != nil {
			return nil, err
		}
		cs = claimSetOf(tok)
	}

	if cs.Subject() == "" {
		return nil, uma.Serverf(uma.CodeMissingSubject, "claims token carries no subject claim")
	}
	return cs, nil
}

// decrypt resolves the tenant key and decrypts token. A nil, nil return
// means the token did not parse as a JWE at all and the caller should fall
// through to the signed path; a real decryption failure is a ServerError.
func (d *Decoder) decrypt(token, tenantDomain string) ([]byte, error) {
	raw := []byte(token)
	if _, err := jwe.Parse(raw); err != nil {
		d.Log.Debug("claims token is not encrypted", "tenant", tenantDomain)
		return nil, nil
	}

	key, err := d.Keys.PrivateKey(tenantDomain)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for _, alg := range []jwa.KeyEncryptionAlgorithm{jwa.RSA_OAEP(), jwa.RSA_OAEP_256(), jwa.RSA1_5()} {
		payload, err := jwe.Decrypt(raw, jwe.WithKey(alg, key))
		if err == nil {
			return payload, nil
		}
		lastErr = err
	}
	return nil, uma.ServerWrap(uma.CodeDecryption, lastErr, "decrypt claims token for tenant %q", tenantDomain)
}

func (d *Decoder) parseSigned(token string) (jwt.Token, error) {
	raw := []byte(token)
	if d.VerifyKeys != nil {
		tok, err := jwt.Parse(raw, jwt.WithKeySet(d.VerifyKeys), jwt.WithValidate(false))
		if err != nil {
			return nil, uma.ClientWrap(uma.CodeInvalidToken, err, "claims token signature verification failed")
		}
		return tok, nil
	}
	tok, err := jwt.ParseInsecure(raw)
	if err != nil {
		return nil, uma.ClientWrap(uma.CodeInvalidToken, err, "claims token is neither encrypted nor validly signed")
	}
	return tok, nil
}

// looksEncrypted reports whether s has the five-segment compact JWE shape.
func looksEncrypted(s string) bool {
	return strings.Count(s, ".") == 4
}

// isCompactSigned reports whether s has exactly three non-empty
// dot-delimited segments with a non-empty signature segment.
func isCompactSigned(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return false
	}
	for _, p := range parts {
		if p == "" {
			return false
		}
	}
	return true
}

func claimSetOf(tok jwt.Token) *uma.ClaimSet {
	m := make(map[string]any)
	for _, name := range tok.Keys() {
		var v any
		if err := tok.Get(name, &v); err == nil {
			m[name] = v
		}
	}
	return uma.NewClaimSet(m)
}
