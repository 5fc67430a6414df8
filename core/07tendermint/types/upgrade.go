package types

import (
	"context"

	errorsmod "cosmossdk.io/errors"

	commitment "github.com/tokenize-x/ibc-core/core/23commitment"
	"github.com/tokenize-x/ibc-core/core/exported"
	host "github.com/tokenize-x/ibc-core/core/24host"
)

// sentinelUpgradeRoot is the placeholder root for the first post-upgrade
// consensus state (spec §4.1 update_state_on_upgrade): "its root is a
// sentinel placeholder ('sentinel_root')".
var sentinelUpgradeRoot = commitment.Root{Hash: []byte("sentinel_root")}

// VerifyUpgradeAndUpdateState implements exported.ClientState, combining
// spec §4.1's verify_upgrade_client and update_state_on_upgrade: it checks
// the two upgrade membership proofs against root and, only on success,
// installs the upgraded client/consensus state.
func (cs *ClientState) VerifyUpgradeAndUpdateState(
	_ context.Context,
	store exported.ClientStore,
	newClient exported.ClientState,
	newConsState exported.ConsensusState,
	proofUpgradeClient, proofUpgradeConsState commitment.Proof,
	root commitment.Root,
) error {
	newTM, ok := newClient.(*ClientState)
	if !ok {
		return errorsmod.Wrapf(ErrUnknownClientStateType, "upgraded client state must be a Tendermint client state, got %T", newClient)
	}
	newTMConsState, ok := newConsState.(ConsensusState)
	if !ok {
		return errorsmod.Wrapf(ErrInvalidConsensusState, "upgraded consensus state must be a Tendermint consensus state, got %T", newConsState)
	}

	if !newTM.LatestHeightField.GT(cs.LatestHeightField) {
		return errorsmod.Wrapf(ErrLowUpgradeHeight, "upgraded height %s must be strictly greater than current latest height %s", newTM.LatestHeightField, cs.LatestHeightField)
	}
	if len(cs.UpgradePath) == 0 {
		return errorsmod.Wrap(ErrMissingUpgradePathKey, "client state has no upgrade path configured")
	}

	prefix := commitment.NewPrefix([]byte(cs.UpgradePath[0]))
	clientPath, err := commitment.ApplyPrefix(prefix, host.UpgradedClientStatePath(cs.LatestHeightField.RevisionHeight))
	if err != nil {
		return err
	}
	consPath, err := commitment.ApplyPrefix(prefix, host.UpgradedConsensusStatePath(cs.LatestHeightField.RevisionHeight))
	if err != nil {
		return err
	}

	newClientBytes := marshalClientStateForProof(newTM)
	if err := proofUpgradeClient.VerifyMembership(cs.ProofSpecs, root, clientPath, newClientBytes); err != nil {
		return errorsmod.Wrapf(ErrHeaderVerificationFailure, "upgraded client state membership proof failed: %s", err)
	}

	newConsBytes := marshalConsensusStateForProof(newTMConsState)
	if err := proofUpgradeConsState.VerifyMembership(cs.ProofSpecs, root, consPath, newConsBytes); err != nil {
		return errorsmod.Wrapf(ErrHeaderVerificationFailure, "upgraded consensus state membership proof failed: %s", err)
	}

	cs.applyUpgrade(store, newTM, newTMConsState)
	return nil
}

// applyUpgrade implements spec §4.1 update_state_on_upgrade: client-chosen
// fields survive from the pre-upgrade client, chain-chosen fields come from
// the upgraded client, and the new consensus state's root is replaced by a
// sentinel placeholder.
func (cs *ClientState) applyUpgrade(store exported.ClientStore, newTM *ClientState, newConsState ConsensusState) {
	upgraded := &ClientState{
		// client-chosen, kept from the pre-upgrade client
		TrustLevel:      cs.TrustLevel,
		TrustingPeriod:  cs.TrustingPeriod,
		MaxClockDrift:   cs.MaxClockDrift,
		AllowUpdate:     cs.AllowUpdate,

		// chain-chosen, taken from the upgraded client
		ChainID:           newTM.ChainID,
		UnbondingPeriod:   newTM.UnbondingPeriod,
		LatestHeightField: newTM.LatestHeightField,
		ProofSpecs:        newTM.ProofSpecs,
		UpgradePath:       newTM.UpgradePath,
	}

	sentinelConsState := ConsensusState{
		TimestampField:     newConsState.TimestampField,
		RootField:          sentinelUpgradeRoot,
		NextValidatorsHash: newConsState.NextValidatorsHash,
	}

	store.SetClientState(upgraded)
	store.SetConsensusState(upgraded.LatestHeightField, sentinelConsState)
	*cs = *upgraded
}

// marshalClientStateForProof and marshalConsensusStateForProof produce the
// deterministic byte encoding checked by the membership proof. The core
// does not own wire serialization (spec §1 "Serialization wire glue... out
// of scope"), so no protobuf/Any wrapping is applied: a ClientState is
// encoded as its chain id followed by its latest height string, and a
// ConsensusState as its root hash followed by its next-validators hash.
func marshalClientStateForProof(cs *ClientState) []byte {
	return MarshalClientState(cs)
}

func marshalConsensusStateForProof(cs ConsensusState) []byte {
	return MarshalConsensusState(cs)
}

// MarshalClientState is the canonical byte encoding of a ClientState used
// as the committed proof value on both sides of a proof check (spec §1:
// wire serialization proper is out of scope for the core; this is the
// minimal canonical form the reference in-memory ProvableStore and every
// VerifyMembership call on a ClientState agree on).
func MarshalClientState(cs *ClientState) []byte {
	return []byte(cs.ChainID + cs.LatestHeightField.String())
}

// MarshalConsensusState is the canonical byte encoding of a ConsensusState.
func MarshalConsensusState(cs ConsensusState) []byte {
	return append(append([]byte(nil), cs.RootField.Hash...), cs.NextValidatorsHash...)
}
