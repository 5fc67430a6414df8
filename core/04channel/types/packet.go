package types

import errorsmod "cosmossdk.io/errors"

import host "github.com/tokenize-x/ibc-core/core/24host"

// Endpoint identifies one side (port, channel) of a packet flow.
type Endpoint struct {
	PortID    string
	ChannelID string
}

// Packet is spec §3's Packet.
type Packet struct {
	Sequence           uint64
	Source             Endpoint
	Destination        Endpoint
	Data               []byte
	TimeoutHeight      host.Height // zero Height means "Never"
	TimeoutTimestamp   host.Timestamp
}

// HasTimeoutHeight reports whether the packet carries an At(h) height
// timeout (spec §3: "Never" is represented by the zero Height).
func (p Packet) HasTimeoutHeight() bool { return !p.TimeoutHeight.IsZero() }

// ValidateBasic enforces spec §3 Packet invariants: sequence > 0, data
// non-empty, and not both timeouts "none".
func (p Packet) ValidateBasic() error {
	if p.Sequence == 0 {
		return ErrZeroPacketSequence
	}
	if len(p.Data) == 0 {
		return ErrZeroPacketData
	}
	if p.HasTimeoutHeight() && p.TimeoutHeight.RevisionHeight == 0 && p.TimeoutHeight.RevisionNumber > 0 {
		return errorsmod.Wrap(ErrInvalidTimeoutHeight, "revision height cannot be zero when revision number is set")
	}
	if !p.HasTimeoutHeight() && p.TimeoutTimestamp.IsZero() {
		return errorsmod.Wrap(ErrInvalidTimeoutHeight, "packet must have at least one of timeout height or timeout timestamp")
	}
	return nil
}
