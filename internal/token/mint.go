// Package token mints the access token (RPT) issued on a successful UMA
// grant.
package token

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/TwigBush/uma-go/internal/uma"
)

// Response is the minted token handed back to the transport layer.
type Response struct {
	TokenID     string `json:"-"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	Scope       string `json:"scope,omitempty"`
}

// Minter produces the final access token for an authorized request context.
type Minter interface {
	Issue(ctx context.Context, rc *uma.RequestContext) (*Response, error)
}

// IssueConfig configures the JWT minter.
type IssueConfig struct {
	Issuer          string
	TokenTTLSeconds int64
}

// JWTMinter signs RPTs as JWTs with the server's signing key.
type JWTMinter struct {
	Key jwk.Key // private signing key, alg RS256
	Cfg IssueConfig
}

func NewJWTMinter(key jwk.Key, cfg IssueConfig) *JWTMinter {
	if cfg.TokenTTLSeconds <= 0 {
		cfg.TokenTTLSeconds = 3600
	}
	return &JWTMinter{Key: key, Cfg: cfg}
}

func (m *JWTMinter) Issue(ctx context.Context, rc *uma.RequestContext) (*Response, error) {
	if rc.AuthorizedSubject == nil {
		return nil, uma.Serverf(uma.CodeInconsistency, "issuing a token for an unvalidated request")
	}

	now := time.Now().UTC()
	exp := now.Add(time.Duration(m.Cfg.TokenTTLSeconds) * time.Second)
	jti := uuid.NewString()
	scope := strings.Join(rc.ApprovedScope, " ")

	builder := jwt.NewBuilder().
		Issuer(m.Cfg.Issuer).
		Subject(rc.AuthorizedSubject.Username).
		Audience([]string{rc.Request.ClientID}).
		IssuedAt(now).
		Expiration(exp).
		JwtID(jti).
		Claim("tenant_domain", rc.AuthorizedSubject.TenantDomain)
	if scope != "" {
		builder = builder.Claim("scope", scope)
	}

	tok, err := builder.Build()
	if err != nil {
		return nil, uma.ServerWrap(uma.CodeInconsistency, err, "build access token")
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.RS256(), m.Key))
	if err != nil {
		return nil, uma.ServerWrap(uma.CodeInconsistency, err, "sign access token")
	}

	return &Response{
		TokenID:     jti,
		AccessToken: string(signed),
		TokenType:   "Bearer",
		ExpiresIn:   m.Cfg.TokenTTLSeconds,
		Scope:       scope,
	}, nil
}
