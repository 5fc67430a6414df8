package types

import errorsmod "cosmossdk.io/errors"

// ModuleName is the error codespace for the concrete ICS-07 Tendermint
// client, and the client-interface-wide errors that any variant can raise
// (spec §7 ClientError).
const ModuleName = "ibc-client"

var (
	ErrClientNotFound              = errorsmod.Register(ModuleName, 2, "client not found")
	ErrClientFrozen                = errorsmod.Register(ModuleName, 3, "client is frozen due to misbehaviour")
	ErrClientNotActive             = errorsmod.Register(ModuleName, 4, "client state is not active")
	ErrConsensusStateNotFound      = errorsmod.Register(ModuleName, 5, "consensus state not found")
	ErrHeaderNotWithinTrustPeriod  = errorsmod.Register(ModuleName, 6, "header is outside of trusting period")
	ErrHeaderVerificationFailure   = errorsmod.Register(ModuleName, 7, "header failed verification")
	ErrInvalidProofHeight          = errorsmod.Register(ModuleName, 8, "proof height is invalid relative to latest height")
	ErrUnknownClientStateType      = errorsmod.Register(ModuleName, 9, "unknown client state type")
	ErrInvalidTrustThreshold       = errorsmod.Register(ModuleName, 10, "invalid trust level")
	ErrMismatchedRevisionHeights   = errorsmod.Register(ModuleName, 11, "header height revision does not match chain id revision")
	ErrMissingUpgradePathKey       = errorsmod.Register(ModuleName, 12, "client state does not have an upgrade path set")
	ErrLowUpgradeHeight            = errorsmod.Register(ModuleName, 13, "upgrade height is not higher than current latest height")
	ErrInvalidClientStateFields    = errorsmod.Register(ModuleName, 14, "invalid client state field")
	ErrInvalidHeader               = errorsmod.Register(ModuleName, 15, "invalid header")
	ErrInvalidMisbehaviour         = errorsmod.Register(ModuleName, 16, "invalid misbehaviour")
	ErrInvalidConsensusState       = errorsmod.Register(ModuleName, 17, "invalid consensus state")
)
