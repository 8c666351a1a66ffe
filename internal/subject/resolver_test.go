package subject

import "testing"

func TestTenantDomainExtraction(t *testing.T) {
	cases := []struct {
		name          string
		emailUserName bool
		subject       string
		want          string
	}{
		{"plain username no at", false, "bob", ""},
		{"single at, email convention off", false, "alice@foo.com", "foo.com"},
		{"two ats, email convention off", false, "alice@bar@foo.com", "foo.com"},
		{"single at, email convention on", true, "alice@foo.com", ""},
		{"two ats, email convention on", true, "alice@bar@foo.com", "foo.com"},
		{"three ats, email convention on", true, "a@b@c@foo.com", "foo.com"},
		{"no at, email convention on", true, "bob", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewResolver(tc.emailUserName)
			if got := r.TenantDomain(tc.subject); got != tc.want {
				t.Fatalf("TenantDomain(%q) = %q, want %q", tc.subject, got, tc.want)
			}
		})
	}
}

func TestResolveFallsBackToApplicationTenant(t *testing.T) {
	r := NewResolver(true)

	sub := r.Resolve("alice@foo.com", "app-tenant")
	if sub.TenantDomain != "app-tenant" {
		t.Fatalf("tenant = %q, want fallback app-tenant", sub.TenantDomain)
	}
	if sub.Username != "alice@foo.com" {
		t.Fatalf("username = %q, want alice@foo.com", sub.Username)
	}

	sub = r.Resolve("alice@bar@foo.com", "app-tenant")
	if sub.TenantDomain != "foo.com" {
		t.Fatalf("tenant = %q, want foo.com", sub.TenantDomain)
	}
}

func TestUserStoreDomain(t *testing.T) {
	r := NewResolver(false)

	sub := r.Resolve("secondary/alice", "t")
	if sub.UserStoreDomain != "SECONDARY" {
		t.Fatalf("user store = %q, want SECONDARY", sub.UserStoreDomain)
	}

	sub = r.Resolve("alice", "t")
	if sub.UserStoreDomain != "PRIMARY" {
		t.Fatalf("user store = %q, want PRIMARY", sub.UserStoreDomain)
	}
}
