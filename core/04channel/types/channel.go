// Package types holds the ChannelEnd and Packet domain types, and the
// packet commitment/receipt/acknowledgement hashing helpers (spec §3, §C6, §C7).
package types

import (
	"fmt"
	"strings"

	errorsmod "cosmossdk.io/errors"
)

// State is the channel handshake and lifecycle state machine (spec §4.3).
type State int

const (
	Uninitialized State = iota
	Init
	TryOpen
	Open
	Closed
)

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
	case Closed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// Order is the channel's fixed delivery semantics (spec §3, GLOSSARY).
type Order int

const (
	NoneOrder Order = iota
	Unordered
	Ordered
)

func (o Order) String() string {
	switch o {
	case Unordered:
		return "ORDER_UNORDERED"
	case Ordered:
		return "ORDER_ORDERED"
	default:
		return "ORDER_NONE"
	}
}

// Counterparty is the remote side of a ChannelEnd (spec §3).
type Counterparty struct {
	PortID    string
	ChannelID string // empty until known
}

// ChannelEnd is spec §3's ChannelEnd. connection_hops currently always has
// length 1 (spec §4.3).
type ChannelEnd struct {
	State          State
	Ordering       Order
	Remote         Counterparty
	ConnectionHops []string
	Version        string
}

// ValidateBasic enforces the structural invariants that don't need store
// access.
func (c ChannelEnd) ValidateBasic() error {
	if len(c.ConnectionHops) != 1 {
		return errorsmod.Wrapf(ErrInvalidConnectionHopsLength, "channel must have exactly one connection hop, got %d", len(c.ConnectionHops))
	}
	if c.Ordering != Ordered && c.Ordering != Unordered {
		return errorsmod.Wrap(ErrInvalidOrderType, "ordering must be ORDERED or UNORDERED")
	}
	if c.State != Init && c.Remote.ChannelID == "" {
		return errorsmod.Wrap(ErrInvalidCounterparty, "channel past INIT must know its counterparty channel id")
	}
	return nil
}

// Marshal is the canonical byte encoding of a ChannelEnd used as the
// committed proof value in a membership check (mirrors
// connectiontypes.ConnectionEnd.Marshal).
func (c ChannelEnd) Marshal() []byte {
	return []byte(fmt.Sprintf("%s|%s|%s|%s|%s|%s",
		c.State, c.Ordering, c.Remote.PortID, c.Remote.ChannelID,
		strings.Join(c.ConnectionHops, ","), c.Version))
}
