package types

import (
	"context"
	"time"

	errorsmod "cosmossdk.io/errors"
	ics23 "github.com/cosmos/ics23/go"

	commitment "github.com/tokenize-x/ibc-core/core/23commitment"
	"github.com/tokenize-x/ibc-core/core/exported"
	host "github.com/tokenize-x/ibc-core/core/24host"
)

// AllowUpdate carries the two governance flags from spec §3.
type AllowUpdate struct {
	AfterExpiry      bool
	AfterMisbehaviour bool
}

// ClientState is the concrete ICS-07 Tendermint light client state
// described in spec §3/§4.1.
type ClientState struct {
	ChainID         string
	TrustLevel      Fraction
	TrustingPeriod  time.Duration
	UnbondingPeriod time.Duration
	MaxClockDrift   time.Duration
	LatestHeightField host.Height
	ProofSpecs      []*ics23.ProofSpec
	UpgradePath     []string
	AllowUpdate     AllowUpdate

	// FrozenHeight is the zero Height when live; once set (spec:
	// "Some(h)") the client stays frozen until RecoverClient
	// (core/02client/keeper) clears it (spec §4.1 update_state_on_misbehaviour).
	FrozenHeight host.Height
}

var _ exported.ClientState = (*ClientState)(nil)

// ClientType implements exported.ClientState.
func (ClientState) ClientType() string { return host.TendermintClientType }

// LatestHeight implements exported.ClientState.
func (cs *ClientState) LatestHeight() host.Height { return cs.LatestHeightField }

// IsFrozen reports whether misbehaviour has been proved against this client.
func (cs *ClientState) IsFrozen() bool { return !cs.FrozenHeight.IsZero() }

// ValidateBasic checks every structural invariant of spec §3.
func (cs *ClientState) ValidateBasic() error {
	if err := host.ValidateChainID(cs.ChainID); err != nil {
		return errorsmod.Wrap(ErrInvalidClientStateFields, err.Error())
	}
	if err := cs.TrustLevel.Validate(); err != nil {
		return err
	}
	if cs.TrustingPeriod <= 0 {
		return errorsmod.Wrap(ErrInvalidClientStateFields, "trusting period must be positive")
	}
	if cs.UnbondingPeriod <= cs.TrustingPeriod {
		return errorsmod.Wrap(ErrInvalidClientStateFields, "unbonding period must be strictly greater than trusting period")
	}
	if cs.MaxClockDrift <= 0 {
		return errorsmod.Wrap(ErrInvalidClientStateFields, "max clock drift must be positive")
	}
	_, chainRevision := host.ParseChainID(cs.ChainID)
	if cs.LatestHeightField.RevisionNumber != chainRevision {
		return errorsmod.Wrapf(ErrMismatchedRevisionHeights,
			"latest height revision %d does not match chain id revision %d", cs.LatestHeightField.RevisionNumber, chainRevision)
	}
	if err := commitment.ValidateProofSpecs(cs.ProofSpecs); err != nil {
		return err
	}
	for i, p := range cs.UpgradePath {
		if p == "" {
			return errorsmod.Wrapf(ErrInvalidClientStateFields, "upgrade path entry %d is empty", i)
		}
	}
	return nil
}

// Status implements exported.ClientState (spec §4.1 status).
func (cs *ClientState) Status(_ context.Context, store exported.ClientStore, now host.Timestamp) exported.Status {
	if cs.IsFrozen() {
		return exported.Frozen
	}

	latest, found := store.ConsensusState(cs.LatestHeightField)
	if !found {
		return exported.Expired
	}
	if uint64(now) > uint64(latest.Timestamp())+uint64(cs.TrustingPeriod.Nanoseconds()) {
		return exported.Expired
	}
	return exported.Active
}
