package claims

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwe"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/TwigBush/uma-go/internal/keys"
	"github.com/TwigBush/uma-go/internal/uma"
)

func testDecoder(t *testing.T, key *rsa.PrivateKey) *Decoder {
	t.Helper()
	resolver := keys.Static{Keys: map[string]*rsa.PrivateKey{
		uma.SuperTenantDomain: key,
		"foo.com":             key,
	}}
	return NewDecoder(resolver, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newRSAKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate rsa key: %v", err)
	}
	return key
}

// signedToken builds a compact signed JWT. The decoder does not verify
// signatures by default, so any signing key works.
func signedToken(t *testing.T, sub string) string {
	t.Helper()
	builder := jwt.NewBuilder().Issuer("test")
	if sub != "" {
		builder = builder.Subject(sub)
	}
	tok, err := builder.Build()
	if err != nil {
		t.Fatalf("build token: %v", err)
	}
	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.RS256(), newRSAKey(t)))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return string(signed)
}

func encrypt(t *testing.T, payload []byte, to *rsa.PrivateKey) string {
	t.Helper()
	enc, err := jwe.Encrypt(payload, jwe.WithKey(jwa.RSA_OAEP(), &to.PublicKey))
	if err != nil {
		t.Fatalf("encrypt payload: %v", err)
	}
	return string(enc)
}

func TestDecodePlaintextSigned(t *testing.T) {
	key := newRSAKey(t)
	d := testDecoder(t, key)

	cs, err := d.Decode(context.Background(), signedToken(t, "alice@foo.com"), "foo.com")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if cs.Subject() != "alice@foo.com" {
		t.Fatalf("subject = %q", cs.Subject())
	}
}

func TestDecodeEncryptedBareClaimSet(t *testing.T) {
	key := newRSAKey(t)
	d := testDecoder(t, key)

	token := encrypt(t, []byte(`{"sub":"bob","iss":"test"}`), key)
	cs, err := d.Decode(context.Background(), token, "")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if cs.Subject() != "bob" {
		t.Fatalf("subject = %q", cs.Subject())
	}
	if iss, ok := cs.Get("iss"); !ok || iss != "test" {
		t.Fatalf("iss claim = %v %v", iss, ok)
	}
}

func TestDecodeEncryptedNestedSigned(t *testing.T) {
	key := newRSAKey(t)
	d := testDecoder(t, key)

	inner := signedToken(t, "carol")
	if strings.Count(inner, ".") != 2 {
		t.Fatalf("fixture is not a compact signed token: %q", inner)
	}

	token := encrypt(t, []byte(inner), key)
	cs, err := d.Decode(context.Background(), token, "foo.com")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if cs.Subject() != "carol" {
		t.Fatalf("subject = %q", cs.Subject())
	}
}

func TestDecodeGarbageIsClientError(t *testing.T) {
	d := testDecoder(t, newRSAKey(t))

	_, err := d.Decode(context.Background(), "not-a-token", "")
	if !uma.IsClient(err) {
		t.Fatalf("garbage token must be a client error, got %v", err)
	}
	if uma.CodeOf(err) != uma.CodeInvalidToken {
		t.Fatalf("code = %q", uma.CodeOf(err))
	}
}

func TestDecodeFiveSegmentGarbageFallsThroughToSignedPath(t *testing.T) {
	d := testDecoder(t, newRSAKey(t))

	// Five dot-separated segments that are not a parseable JWE: the shape
	// is ambiguous, so the decoder treats it as plaintext-signed and fails
	// there.
	_, err := d.Decode(context.Background(), "a.b.c.d.e", "")
	if uma.CodeOf(err) != uma.CodeInvalidToken {
		t.Fatalf("code = %q, err = %v", uma.CodeOf(err), err)
	}
}

func TestDecodeWrongKeyIsServerError(t *testing.T) {
	encryptionKey := newRSAKey(t)
	resolverKey := newRSAKey(t)
	d := testDecoder(t, resolverKey)

	token := encrypt(t, []byte(`{"sub":"bob"}`), encryptionKey)
	_, err := d.Decode(context.Background(), token, "")
	if !uma.IsServer(err) {
		t.Fatalf("decryption failure must be a server error, got %v", err)
	}
	if uma.CodeOf(err) != uma.CodeDecryption {
		t.Fatalf("code = %q", uma.CodeOf(err))
	}
}

func TestDecodeEncryptedMalformedPayloadIsServerError(t *testing.T) {
	key := newRSAKey(t)
	d := testDecoder(t, key)

	token := encrypt(t, []byte("this is not json"), key)
	_, err := d.Decode(context.Background(), token, "")
	if uma.CodeOf(err) != uma.CodeMalformedNested {
		t.Fatalf("code = %q, err = %v", uma.CodeOf(err), err)
	}
}

func TestDecodeMissingSubjectIsServerError(t *testing.T) {
	key := newRSAKey(t)
	d := testDecoder(t, key)

	_, err := d.Decode(context.Background(), signedToken(t, ""), "")
	if uma.CodeOf(err) != uma.CodeMissingSubject {
		t.Fatalf("code = %q, err = %v", uma.CodeOf(err), err)
	}
}

func TestDecodeUnknownTenantKeyIsServerError(t *testing.T) {
	key := newRSAKey(t)
	d := testDecoder(t, key)

	token := encrypt(t, []byte(`{"sub":"bob"}`), key)
	_, err := d.Decode(context.Background(), token, "unknown-tenant")
	if uma.CodeOf(err) != uma.CodeKeyResolution {
		t.Fatalf("code = %q, err = %v", uma.CodeOf(err), err)
	}
}
