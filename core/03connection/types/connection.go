// Package types holds the ConnectionEnd domain type and the connection
// version negotiation helpers (spec §3 ConnectionEnd, §C5).
package types

import (
	"fmt"
	"strings"

	errorsmod "cosmossdk.io/errors"

	commitment "github.com/tokenize-x/ibc-core/core/23commitment"
)

// State is the connection handshake state machine (spec §4.2).
type State int

const (
	Uninitialized State = iota
	Init
	TryOpen
	Open
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Uninitialized:
		return "UNINITIALIZED"
	case Init:
		return "INIT"
	case TryOpen:
		return "TRYOPEN"
	case Open:
		return "OPEN"
	default:
		return "UNKNOWN"
	}
}

// Counterparty is the counterparty side of a ConnectionEnd (spec §3).
type Counterparty struct {
	ClientID     string
	ConnectionID string // empty until known
	Prefix       commitment.Prefix
}

// Version is a connection version identifier plus the feature set it
// negotiates (kept minimal: identifier only, matching the single feature
// set ibc-go ships for ICS-03).
type Version struct {
	Identifier string
	Features   []string
}

// DefaultVersion is the sole version this core negotiates.
var DefaultVersion = Version{Identifier: "1", Features: []string{"ORDER_ORDERED", "ORDER_UNORDERED"}}

// ConnectionEnd is spec §3's ConnectionEnd.
type ConnectionEnd struct {
	State        State
	ClientID     string
	Counterparty Counterparty
	Versions     []Version
	DelayPeriod  uint64 // nanoseconds
}

// ValidateBasic enforces spec §3 ConnectionEnd invariants that don't need
// store access: exactly one version once out of Init, and a non-empty
// client id.
func (c ConnectionEnd) ValidateBasic() error {
	if c.ClientID == "" {
		return errorsmod.Wrap(ErrInvalidClientState, "client id cannot be empty")
	}
	if c.State != Init && len(c.Versions) != 1 {
		return errorsmod.Wrapf(ErrInvalidVersionLength, "connection in state %s must carry exactly one version, got %d", c.State, len(c.Versions))
	}
	if c.State == Open && c.Counterparty.ConnectionID == "" {
		return errorsmod.Wrap(ErrInvalidCounterparty, "open connection must have a counterparty connection id")
	}
	return nil
}

// Marshal is the canonical byte encoding of a ConnectionEnd used as the
// committed proof value in a membership check (mirrors
// tendermint.MarshalClientState: the core does not own wire/protobuf
// serialization, spec §1, so this is the minimal canonical form the
// reference ProvableStore and every VerifyMembership call on a
// ConnectionEnd agree on).
func (c ConnectionEnd) Marshal() []byte {
	versions := make([]string, len(c.Versions))
	for i, v := range c.Versions {
		versions[i] = v.Identifier + "/" + strings.Join(v.Features, ",")
	}
	return []byte(fmt.Sprintf("%s|%s|%s|%s|%s|%d",
		c.State, c.ClientID, c.Counterparty.ClientID, c.Counterparty.ConnectionID,
		strings.Join(versions, ";"), c.DelayPeriod))
}
