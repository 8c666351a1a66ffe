package uma

// Request parameter keys and fixed protocol identifiers for the UMA 2.0
// grant. The grant type URN is defined by the UMA 2.0 grant spec and must
// match byte-for-byte.
const (
	GrantType = "urn:ietf:params:oauth:grant-type:uma-ticket"

	ParamGrantType  = "grant_type"
	ParamTicket     = "ticket"
	ParamClaimToken = "claim_token"

	// ErrorResponseHeader is set on denied responses with a human-readable
	// description of the denial.
	ErrorResponseHeader = "error-response-header"

	// TicketDeniedMessage is the fixed value of ErrorResponseHeader when the
	// policy chain rejects the requesting party.
	TicketDeniedMessage = "Failed validation for the permission ticket for the given user."

	// SuperTenantDomain is the fallback tenant for key resolution when the
	// request carries no tenant domain.
	SuperTenantDomain = "super"
)
