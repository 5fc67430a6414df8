package types

import errorsmod "cosmossdk.io/errors"

// ModuleName is the error codespace for ICS-04 channel and packet handling
// (spec §7 ChannelError and PacketError).
const ModuleName = "ibc-04-channel"

var (
	// ChannelError
	ErrChannelNotFound                    = errorsmod.Register(ModuleName, 2, "channel not found")
	ErrInvalidChannelState                = errorsmod.Register(ModuleName, 3, "channel state is invalid")
	ErrInvalidOrderType                   = errorsmod.Register(ModuleName, 4, "invalid channel ordering")
	ErrInvalidCounterparty                = errorsmod.Register(ModuleName, 5, "invalid channel counterparty")
	ErrInvalidConnectionHopsLength        = errorsmod.Register(ModuleName, 6, "connection hops must have length 1")
	ErrUnsupportedChannelUpgradeSequence  = errorsmod.Register(ModuleName, 7, "channel upgrades are not supported")
	ErrAppModule                          = errorsmod.Register(ModuleName, 8, "application module callback failed")
	ErrChannelExists                      = errorsmod.Register(ModuleName, 9, "channel already exists")

	// PacketError
	ErrZeroPacketSequence         = errorsmod.Register(ModuleName, 20, "packet sequence cannot be zero")
	ErrZeroPacketData             = errorsmod.Register(ModuleName, 21, "packet data cannot be empty")
	ErrInvalidTimeoutHeight       = errorsmod.Register(ModuleName, 22, "invalid packet timeout height")
	ErrLowPacketHeight            = errorsmod.Register(ModuleName, 23, "packet timeout height has already elapsed")
	ErrLowPacketTimestamp         = errorsmod.Register(ModuleName, 24, "packet timeout timestamp has already elapsed")
	ErrInvalidPacketSequence      = errorsmod.Register(ModuleName, 25, "invalid packet sequence relative to channel state")
	ErrPacketCommitmentNotFound   = errorsmod.Register(ModuleName, 26, "packet commitment not found")
	ErrPacketReceiptNotFound      = errorsmod.Register(ModuleName, 27, "packet receipt not found")
	ErrPacketAcknowledgementNotFound = errorsmod.Register(ModuleName, 28, "packet acknowledgement not found")
	ErrMissingNextSendSeq         = errorsmod.Register(ModuleName, 29, "missing next send sequence")
	ErrMissingNextRecvSeq         = errorsmod.Register(ModuleName, 30, "missing next recv sequence")
	ErrMissingNextAckSeq          = errorsmod.Register(ModuleName, 31, "missing next ack sequence")
	ErrAcknowledgementExists      = errorsmod.Register(ModuleName, 32, "acknowledgement already exists for this sequence")
	ErrCommitmentMismatch         = errorsmod.Register(ModuleName, 33, "packet does not match the stored commitment")
	ErrPacketNotSent               = errorsmod.Register(ModuleName, 34, "packet commitment proof verification failed")
)

// WrapInvalidChannelState matches spec §7's `InvalidState{expected, actual}`.
func WrapInvalidChannelState(expected, actual State) error {
	return errorsmod.Wrapf(ErrInvalidChannelState, "expected state %s, got %s", expected, actual)
}
