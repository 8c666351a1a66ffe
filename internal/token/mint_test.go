package token

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/TwigBush/uma-go/internal/uma"
)

func testMinter(t *testing.T, ttl int64) *JWTMinter {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	jk, err := jwk.Import(key)
	if err != nil {
		t.Fatalf("import key: %v", err)
	}
	return NewJWTMinter(jk, IssueConfig{Issuer: "https://as.test", TokenTTLSeconds: ttl})
}

func authorizedContext(scope ...string) *uma.RequestContext {
	rc := uma.NewRequestContext(&uma.TokenRequest{ClientID: "acme-app", TenantDomain: "acme.com"})
	rc.AuthorizedSubject = &uma.AuthenticatedSubject{
		Username:        "bob",
		TenantDomain:    "acme.com",
		UserStoreDomain: "PRIMARY",
	}
	rc.ApprovedScope = scope
	return rc
}

func TestIssueSignsExpectedClaims(t *testing.T) {
	m := testMinter(t, 120)
	resp, err := m.Issue(context.Background(), authorizedContext("view", "edit"))
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if resp.TokenType != "Bearer" || resp.ExpiresIn != 120 {
		t.Fatalf("response = %+v", resp)
	}
	if resp.Scope != "view edit" {
		t.Fatalf("scope = %q", resp.Scope)
	}

	tok, err := jwt.ParseInsecure([]byte(resp.AccessToken))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var sub, jti, tenantDomain, scope string
	if err := tok.Get("sub", &sub); err != nil || sub != "bob" {
		t.Fatalf("sub = %q, err = %v", sub, err)
	}
	if err := tok.Get("jti", &jti); err != nil || jti != resp.TokenID {
		t.Fatalf("jti = %q, TokenID = %q, err = %v", jti, resp.TokenID, err)
	}
	if err := tok.Get("tenant_domain", &tenantDomain); err != nil || tenantDomain != "acme.com" {
		t.Fatalf("tenant_domain = %q, err = %v", tenantDomain, err)
	}
	if err := tok.Get("scope", &scope); err != nil || scope != "view edit" {
		t.Fatalf("scope = %q, err = %v", scope, err)
	}

	var exp, iat time.Time
	if err := tok.Get("exp", &exp); err != nil {
		t.Fatalf("exp: %v", err)
	}
	if err := tok.Get("iat", &iat); err != nil {
		t.Fatalf("iat: %v", err)
	}
	if got := exp.Sub(iat); got != 120*time.Second {
		t.Fatalf("lifetime = %v", got)
	}
}

func TestIssueOmitsScopeClaimWhenEmpty(t *testing.T) {
	m := testMinter(t, 60)
	resp, err := m.Issue(context.Background(), authorizedContext())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if resp.Scope != "" {
		t.Fatalf("scope = %q", resp.Scope)
	}
	tok, err := jwt.ParseInsecure([]byte(resp.AccessToken))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var scope string
	if err := tok.Get("scope", &scope); err == nil {
		t.Fatalf("scope claim present: %q", scope)
	}
}

func TestIssueWithoutSubjectFails(t *testing.T) {
	m := testMinter(t, 60)
	rc := uma.NewRequestContext(&uma.TokenRequest{ClientID: "acme-app"})
	if _, err := m.Issue(context.Background(), rc); uma.CodeOf(err) != uma.CodeInconsistency {
		t.Fatalf("code = %q, err = %v", uma.CodeOf(err), err)
	}
}

func TestTokenIDsAreUnique(t *testing.T) {
	m := testMinter(t, 60)
	a, err := m.Issue(context.Background(), authorizedContext())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	b, err := m.Issue(context.Background(), authorizedContext())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if a.TokenID == b.TokenID {
		t.Fatalf("duplicate token id %q", a.TokenID)
	}
}
