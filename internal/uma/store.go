package uma

import (
	"context"
	"time"
)

// TicketStore is the persistence boundary the grant core consumes. It only
// resolves previously issued tickets and records token bindings; ticket
// creation lives outside the grant pipeline.
type TicketStore interface {
	// ResolveResources returns the resource set bound to ticket. Unknown or
	// expired tickets fail with a ClientError; backend faults with a
	// ServerError.
	ResolveResources(ctx context.Context, ticket string) ([]Resource, error)

	// BindToken persists the (tokenID, ticket) correlation. Failures are
	// ServerErrors; the binding is written at most once per issuance.
	BindToken(ctx context.Context, tokenID, ticket string) error
}

// StoreConfig holds ticket lifetime settings shared by store adapters.
type StoreConfig struct {
	TicketTTL time.Duration
}

// TicketState is the stored representation of a permission ticket.
type TicketState struct {
	Ticket    string     `json:"ticket"`
	Resources []Resource `json:"resources"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at"`
}
