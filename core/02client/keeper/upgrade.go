package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"

	clienttypes "github.com/tokenize-x/ibc-core/core/02client/types"
	commitment "github.com/tokenize-x/ibc-core/core/23commitment"
	tendermint "github.com/tokenize-x/ibc-core/core/07tendermint/types"
	"github.com/tokenize-x/ibc-core/core/api"
	"github.com/tokenize-x/ibc-core/core/exported"
)

// ValidateUpgradeClient checks that clientID exists and the upgrade proofs
// verify against root (spec §4.1 verify_upgrade_client). Unlike the other
// Validate functions it is not read-only: VerifyUpgradeAndUpdateState also
// writes the upgraded client and consensus state when the proofs verify.
func ValidateUpgradeClient(
	ctx context.Context,
	vctx api.ValidationContext,
	clientID string,
	newClient exported.ClientState,
	newConsState exported.ConsensusState,
	proofUpgradeClient, proofUpgradeConsState commitment.Proof,
) error {
	any, found := vctx.ClientState(clientID)
	if !found {
		return errorsmod.Wrapf(tendermint.ErrClientNotFound, "client %s not found", clientID)
	}
	clientState, err := any.Unwrap()
	if err != nil {
		return err
	}
	store := vctx.ClientStore(clientID)
	hostCons, found := vctx.HostConsensusState(vctx.HostHeight())
	if !found {
		return errorsmod.Wrap(tendermint.ErrConsensusStateNotFound, "no host consensus state available to verify upgrade proofs")
	}
	return clientState.VerifyUpgradeAndUpdateState(ctx, store, newClient, newConsState, proofUpgradeClient, proofUpgradeConsState, hostCons.Root())
}

// ExecuteUpgradeClient repeats validation (the upgrade mutates store state
// as a side effect of VerifyUpgradeAndUpdateState succeeding, so execute and
// validate share the same call) and emits UpgradeClient.
func ExecuteUpgradeClient(
	ctx context.Context,
	ectx api.ExecutionContext,
	clientID string,
	newClient exported.ClientState,
	newConsState exported.ConsensusState,
	proofUpgradeClient, proofUpgradeConsState commitment.Proof,
) error {
	if err := ValidateUpgradeClient(ctx, ectx, clientID, newClient, newConsState, proofUpgradeClient, proofUpgradeConsState); err != nil {
		return err
	}

	any, found := ectx.ClientState(clientID)
	if !found {
		return errorsmod.Wrapf(tendermint.ErrClientNotFound, "client %s not found", clientID)
	}
	clientState, err := any.Unwrap()
	if err != nil {
		return err
	}
	wrapped, err := clienttypes.WrapClientState(clientState)
	if err != nil {
		return err
	}
	ectx.StoreClientState(clientID, wrapped)

	ectx.EmitIBCEvent(api.NewEvent(api.EventMessageClient))
	ectx.EmitIBCEvent(api.NewEvent(api.EventUpgradeClient,
		api.Attr(api.AttrClientID, clientID),
		api.Attr(api.AttrClientType, clientState.ClientType()),
		api.Attr(api.AttrConsensusHeight, api.AttrHeight(clientState.LatestHeight())),
	))
	return nil
}
