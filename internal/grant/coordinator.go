// Package grant implements the two-phase UMA 2.0 grant: validate a
// permission ticket against the requesting party, then issue and bind the
// access token.
package grant

import (
	"context"
	"log/slog"

	"github.com/TwigBush/uma-go/internal/claims"
	"github.com/TwigBush/uma-go/internal/policy"
	"github.com/TwigBush/uma-go/internal/subject"
	"github.com/TwigBush/uma-go/internal/tenant"
	"github.com/TwigBush/uma-go/internal/token"
	"github.com/TwigBush/uma-go/internal/uma"
)

// Coordinator wires the grant pipeline. All collaborators are injected at
// startup and read-only afterward, so one Coordinator serves concurrent
// requests without coordination.
type Coordinator struct {
	Tenants  tenant.Resolver
	Decoder  *claims.Decoder
	Subjects *subject.Resolver
	Tickets  uma.TicketStore
	Policies *policy.Chain
	Minter   token.Minter
	Log      *slog.Logger
}

func NewCoordinator(
	tenants tenant.Resolver,
	decoder *claims.Decoder,
	subjects *subject.Resolver,
	tickets uma.TicketStore,
	policies *policy.Chain,
	minter token.Minter,
	log *slog.Logger,
) *Coordinator {
	if log == nil {
		log = slog.Default()
	}
	return &Coordinator{
		Tenants:  tenants,
		Decoder:  decoder,
		Subjects: subjects,
		Tickets:  tickets,
		Policies: policies,
		Minter:   minter,
		Log:      log,
	}
}

// ValidateGrant decides whether the requesting party behind the claims
// token may receive a token for the resources bound to the permission
// ticket.
//
// A non-UMA grant type yields OutcomeRejected with no error and no side
// effects. A policy denial yields OutcomeDenied with no error and a
// diagnostic response header on rc. Errors are reserved for malformed
// input (ClientError) and operational faults (ServerError).
func (c *Coordinator) ValidateGrant(ctx context.Context, rc *uma.RequestContext) (*uma.GrantOutcome, error) {
	req := rc.Request

	var grantType, permissionTicket, claimToken string
	for _, p := range req.Parameters {
		if len(p.Values) == 0 {
			continue
		}
		switch p.Key {
		case uma.ParamGrantType:
			grantType = p.Values[0]
		case uma.ParamTicket:
			permissionTicket = p.Values[0]
		case uma.ParamClaimToken:
			claimToken = p.Values[0]
		}
	}

	if grantType != uma.GrantType {
		return &uma.GrantOutcome{Kind: uma.OutcomeRejected}, nil
	}
	if permissionTicket == "" {
		return nil, uma.Clientf(uma.CodeEmptyTicket, "empty permission ticket")
	}
	if claimToken == "" {
		return nil, uma.Clientf(uma.CodeEmptyClaimToken, "empty claim token")
	}

	appTenant := req.TenantDomain
	if err := tenant.CheckConsistency(ctx, c.Tenants, appTenant, req.ClientID); err != nil {
		return nil, err
	}

	// The claims-token decode runs outside the tenant scope; only the
	// ticket validation below is tenant-scoped.
	claimSet, err := c.Decoder.Decode(ctx, claimToken, appTenant)
	if err != nil {
		return nil, err
	}
	subjectString := claimSet.Subject()

	var authorized bool
	_ = tenant.RunScoped(ctx, appTenant, func(ctx context.Context) error {
		authorized = c.validateTicket(ctx, permissionTicket, subjectString)
		return nil
	})

	if !authorized {
		rc.ResponseHeaders[uma.ErrorResponseHeader] = uma.TicketDeniedMessage
		return &uma.GrantOutcome{Kind: uma.OutcomeDenied, Reason: uma.TicketDeniedMessage}, nil
	}

	authSubject := c.Subjects.Resolve(subjectString, appTenant)
	rc.AuthorizedSubject = &authSubject
	rc.ApprovedScope = req.Scope

	return &uma.GrantOutcome{
		Kind:    uma.OutcomeAuthorized,
		Subject: &authSubject,
		Scope:   req.Scope,
	}, nil
}

// validateTicket resolves the ticket's resources and runs the policy
// chain. An invalid or expired ticket is an ordinary denial, not a fault;
// a store failure is logged as operational but still denies (fail closed).
func (c *Coordinator) validateTicket(ctx context.Context, permissionTicket, subjectString string) bool {
	resources, err := c.Tickets.ResolveResources(ctx, permissionTicket)
	if err != nil {
		if uma.IsClient(err) {
			c.Log.Debug("invalid permission ticket", "ticket", permissionTicket, "err", err)
		} else {
			c.Log.Error("ticket store failure while validating permission ticket", "err", err)
		}
		return false
	}

	dec := c.Policies.Authorize(ctx, subjectString, resources)
	for _, r := range dec.Rejected {
		c.Log.Debug("policy rejected requesting party", "policy", r.Policy, "reason", r.Reason)
	}
	return dec.Granted
}

// IssueToken mints the access token for a previously authorized request
// context and persists the token/ticket binding. Only meaningful after
// ValidateGrant returned OutcomeAuthorized.
//
// The ticket is re-read from the raw request parameters and is not compared
// against the one validated earlier. If binding persistence fails the token
// has already been minted and is not revoked; issuance is at-least-once and
// the binding best-effort.
func (c *Coordinator) IssueToken(ctx context.Context, rc *uma.RequestContext) (*token.Response, error) {
	req := rc.Request

	if err := tenant.CheckConsistency(ctx, c.Tenants, req.TenantDomain, req.ClientID); err != nil {
		return nil, err
	}

	resp, err := c.Minter.Issue(ctx, rc)
	if err != nil {
		return nil, err
	}

	permissionTicket := req.Param(uma.ParamTicket)
	if permissionTicket == "" {
		return nil, uma.Serverf(uma.CodeInconsistency,
			"permission ticket is not available in the token request for client %q", req.ClientID)
	}

	if err := c.Tickets.BindToken(ctx, resp.TokenID, permissionTicket); err != nil {
		c.Log.Error("token minted but ticket binding failed",
			"client_id", req.ClientID, "token_id", resp.TokenID, "err", err)
		if uma.IsServer(err) {
			return nil, err
		}
		return nil, uma.ServerWrap(uma.CodePersistence, err,
			"error while issuing access token for client %q", req.ClientID)
	}

	return resp, nil
}
