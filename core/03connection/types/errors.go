package types

import errorsmod "cosmossdk.io/errors"

// ModuleName is the error codespace for ICS-03 connection handling
// (spec §7 ConnectionError).
const ModuleName = "ibc-03-connection"

var (
	ErrConnectionNotFound       = errorsmod.Register(ModuleName, 2, "connection not found")
	ErrInvalidState             = errorsmod.Register(ModuleName, 3, "connection state is invalid")
	ErrInvalidClientState       = errorsmod.Register(ModuleName, 4, "client state is invalid")
	ErrEmptyVersions            = errorsmod.Register(ModuleName, 5, "version set cannot be empty")
	ErrInvalidVersionLength     = errorsmod.Register(ModuleName, 6, "version count is invalid for connection state")
	ErrInvalidCounterparty      = errorsmod.Register(ModuleName, 7, "invalid counterparty")
	ErrMissingCounterparty      = errorsmod.Register(ModuleName, 8, "missing counterparty")
	ErrEmptyProtoConnectionEnd  = errorsmod.Register(ModuleName, 9, "connection end cannot be empty")
	ErrVersionNegotiationFailed = errorsmod.Register(ModuleName, 10, "version negotiation failed")
	ErrConnectionExists         = errorsmod.Register(ModuleName, 11, "connection already exists")
)

// WrapInvalidState is a convenience wrapper matching spec §7's
// `InvalidState{expected, actual}`.
func WrapInvalidState(expected, actual State) error {
	return errorsmod.Wrapf(ErrInvalidState, "expected state %s, got %s", expected, actual)
}
