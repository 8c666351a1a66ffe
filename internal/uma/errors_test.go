package uma

import (
	"errors"
	"fmt"
	"testing"
)

func TestClientAndServerErrorsStayDistinct(t *testing.T) {
	ce := Clientf(CodeEmptyTicket, "empty permission ticket")
	se := Serverf(CodeDecryption, "decrypt failed")

	if !IsClient(ce) || IsServer(ce) {
		t.Fatalf("client error misclassified")
	}
	if !IsServer(se) || IsClient(se) {
		t.Fatalf("server error misclassified")
	}
}

func TestCodeSurvivesWrapping(t *testing.T) {
	inner := ClientWrap(CodeInvalidToken, errors.New("bad segment"), "claims token is invalid")
	wrapped := fmt.Errorf("validate grant: %w", inner)

	if !IsClient(wrapped) {
		t.Fatalf("wrapped client error not recognized")
	}
	if CodeOf(wrapped) != CodeInvalidToken {
		t.Fatalf("code = %q, want %q", CodeOf(wrapped), CodeInvalidToken)
	}
	if !errors.Is(wrapped, inner) {
		t.Fatalf("errors.Is must see the inner error")
	}
}

func TestCodeOfPlainError(t *testing.T) {
	if c := CodeOf(errors.New("plain")); c != "" {
		t.Fatalf("plain error should have no code, got %q", c)
	}
}

func TestErrorMessageIncludesCause(t *testing.T) {
	cause := errors.New("connection refused")
	se := ServerWrap(CodeStoreUnavailable, cause, "read ticket state")
	if got := se.Error(); got != "read ticket state: connection refused" {
		t.Fatalf("message = %q", got)
	}
}
