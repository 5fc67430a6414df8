package types

import errorsmod "cosmossdk.io/errors"

// ModuleName is the error codespace for the client-manager dispatch layer
// (spec §7 ClientError, the variant-agnostic members).
const ModuleName = "ibc-02-client"

var (
	// ErrUnknownClientMessageType is raised by AnyClientState/AnyConsensusState
	// when the wrong variant is supplied for the wrapped client type.
	ErrUnknownClientMessageType = errorsmod.Register(ModuleName, 2, "client message type does not match client variant")
	// ErrClientExists is raised on create when the derived client id is
	// already present (should not happen given a monotonic counter).
	ErrClientExists = errorsmod.Register(ModuleName, 3, "client already exists")
)
