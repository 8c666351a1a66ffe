package uma

import (
	"errors"
	"fmt"
)

// Code classifies a grant failure. Client codes reject the grant; server
// codes signal an operational fault. Callers must be able to tell the two
// apart, so the codes never share an error type.
type Code string

const (
	CodeEmptyTicket     Code = "empty_permission_ticket"
	CodeEmptyClaimToken Code = "empty_claim_token"
	CodeInvalidToken    Code = "invalid_claim_token"
	CodeInvalidTicket   Code = "invalid_permission_ticket"
	CodeExpiredTicket   Code = "expired_permission_ticket"
	CodeTenantMismatch  Code = "tenant_mismatch"
)

const (
	CodeKeyResolution    Code = "key_resolution_failed"
	CodeDecryption       Code = "decryption_failed"
	CodeMalformedNested  Code = "malformed_nested_payload"
	CodeMissingSubject   Code = "missing_subject_claim"
	CodePersistence      Code = "persistence_failed"
	CodeInconsistency    Code = "internal_inconsistency"
	CodeStoreUnavailable Code = "store_unavailable"
)

// ClientError is a malformed or invalid request: bad input, an invalid or
// expired ticket, a tenant mismatch. Surfaced as a rejected grant, never
// retried.
type ClientError struct {
	Code    Code
	Message string
	Err     error
}

func (e *ClientError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error { return e.Err }

// ServerError is an operational fault while evaluating the grant: key
// resolution, decryption, persistence, internal inconsistency. Distinct from
// a denial in both logging and response mapping.
type ServerError struct {
	Code    Code
	Message string
	Err     error
}

func (e *ServerError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ServerError) Unwrap() error { return e.Err }

func Clientf(code Code, format string, args ...any) *ClientError {
	return &ClientError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func ClientWrap(code Code, err error, format string, args ...any) *ClientError {
	return &ClientError{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

func Serverf(code Code, format string, args ...any) *ServerError {
	return &ServerError{Code: code, Message: fmt.Sprintf(format, args...)}
}

func ServerWrap(code Code, err error, format string, args ...any) *ServerError {
	return &ServerError{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

func IsClient(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce)
}

func IsServer(err error) bool {
	var se *ServerError
	return errors.As(err, &se)
}

// CodeOf returns the failure code carried by err, or empty.
func CodeOf(err error) Code {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Code
	}
	var se *ServerError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}
