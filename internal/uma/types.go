package uma

// Parameter is one request parameter from the token endpoint. Values keeps
// the repeated-parameter shape of form encoding; extraction takes the first
// value of the last parameter seen for a key.
type Parameter struct {
	Key    string
	Values []string
}

// TokenRequest is the immutable view of one token endpoint request. Built
// once by the transport layer, read-only afterward.
type TokenRequest struct {
	ClientID     string
	TenantDomain string // tenant owning the client application
	Scope        []string
	Parameters   []Parameter
}

// Param returns the first value of the last parameter named key, scanning
// the whole parameter set.
func (r *TokenRequest) Param(key string) string {
	var v string
	for _, p := range r.Parameters {
		if p.Key == key && len(p.Values) > 0 {
			v = p.Values[0]
		}
	}
	return v
}

// RequestContext carries one token request through validation and issuance.
// Validation attaches the authorized subject and approved scope; denial
// attaches diagnostic response headers.
type RequestContext struct {
	Request *TokenRequest

	AuthorizedSubject *AuthenticatedSubject
	ApprovedScope     []string
	ResponseHeaders   map[string]string
}

func NewRequestContext(req *TokenRequest) *RequestContext {
	return &RequestContext{Request: req, ResponseHeaders: map[string]string{}}
}

// AuthenticatedSubject is the authorization principal derived from the
// claims token, produced exactly once per successful validation.
type AuthenticatedSubject struct {
	Username        string
	TenantDomain    string
	UserStoreDomain string
}

// Resource is a protected resource referenced by a permission ticket. The
// grant core reads resource sets, never mutates them.
type Resource struct {
	ID     string   `json:"resource_id"`
	Scopes []string `json:"resource_scopes,omitempty"`
}

// ClaimSet is the verified claim mapping produced by the claims decoder.
type ClaimSet struct {
	claims map[string]any
}

func NewClaimSet(claims map[string]any) *ClaimSet {
	if claims == nil {
		claims = map[string]any{}
	}
	return &ClaimSet{claims: claims}
}

func (c *ClaimSet) Get(name string) (any, bool) {
	v, ok := c.claims[name]
	return v, ok
}

// Subject returns the "sub" claim, or empty when absent or not a string.
func (c *ClaimSet) Subject() string {
	if v, ok := c.claims["sub"]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// OutcomeKind discriminates the result of ValidateGrant.
type OutcomeKind int

const (
	// OutcomeRejected: the request is not a UMA grant at all. Not an error.
	OutcomeRejected OutcomeKind = iota
	// OutcomeDenied: the policy chain said no. Not an error.
	OutcomeDenied
	// OutcomeAuthorized: the subject may receive a token for the ticket.
	OutcomeAuthorized
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeRejected:
		return "rejected"
	case OutcomeDenied:
		return "denied"
	case OutcomeAuthorized:
		return "authorized"
	}
	return "unknown"
}

// GrantOutcome is the result of ValidateGrant. Subject and Scope are set
// only when Kind is OutcomeAuthorized.
type GrantOutcome struct {
	Kind    OutcomeKind
	Subject *AuthenticatedSubject
	Scope   []string
	Reason  string
}

// TokenTicketBinding correlates an issued token with the permission ticket
// it was issued against. Created exactly once per successful issuance.
type TokenTicketBinding struct {
	TokenID string `json:"token_id"`
	Ticket  string `json:"ticket"`
}
