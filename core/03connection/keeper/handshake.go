// Package keeper implements the ICS-03 connection handshake (spec §C5,
// §4.2): Init/Try/Ack/Confirm, each split into Validate (pure reads) and
// Execute (writes + events) per spec §4.6.
package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"

	clienttypes "github.com/tokenize-x/ibc-core/core/02client/types"
	commitment "github.com/tokenize-x/ibc-core/core/23commitment"
	types "github.com/tokenize-x/ibc-core/core/03connection/types"
	host "github.com/tokenize-x/ibc-core/core/24host"
	"github.com/tokenize-x/ibc-core/core/api"
	"github.com/tokenize-x/ibc-core/core/exported"
)

// ValidateConnOpenInit checks that clientID names a known client
// (spec §4.2 ConnOpenInit).
func ValidateConnOpenInit(vctx api.ValidationContext, clientID string) error {
	if _, found := vctx.ClientState(clientID); !found {
		return errorsmod.Wrapf(types.ErrInvalidClientState, "client %s not found", clientID)
	}
	return nil
}

// ExecuteConnOpenInit assigns a new ConnectionId, writes the ConnectionEnd
// in state Init, and emits ConnectionOpenInit (spec §4.2, scenario S4).
func ExecuteConnOpenInit(ectx api.ExecutionContext, clientID string, counterparty types.Counterparty, version *types.Version, delayPeriod uint64) (string, error) {
	if err := ValidateConnOpenInit(ectx, clientID); err != nil {
		return "", err
	}

	versions := types.SupportedVersions
	if version != nil {
		versions = []types.Version{*version}
	}

	connectionID := host.ConnectionIDFromCounter(ectx.ConnectionCounter())
	end := types.ConnectionEnd{
		State:        types.Init,
		ClientID:     clientID,
		Counterparty: counterparty,
		Versions:     versions,
		DelayPeriod:  delayPeriod,
	}
	if err := end.ValidateBasic(); err != nil {
		return "", err
	}

	ectx.StoreConnection(connectionID, end)
	ectx.IncreaseConnectionCounter()

	ectx.EmitIBCEvent(api.NewEvent(api.EventMessageConnection))
	ectx.EmitIBCEvent(api.NewEvent(api.EventConnectionOpenInit,
		api.Attr(api.AttrConnectionID, connectionID),
		api.Attr(api.AttrClientID, clientID),
		api.Attr(api.AttrCounterpartyConnectionID, counterparty.ConnectionID),
		api.Attr(api.AttrCounterpartyClientID, counterparty.ClientID),
	))
	return connectionID, nil
}

// ValidateConnOpenTry checks clientState self-consistency and the three
// membership proofs against the counterparty's state at proofHeight
// (spec §4.2 ConnOpenTry): proofInit (counterparty connection in Init),
// proofClient (counterparty stores our clientState) and proofConsensus
// (counterparty stores our consensusState at consensusHeight).
func ValidateConnOpenTry(
	ctx context.Context,
	vctx api.ValidationContext,
	clientID string,
	clientState exported.ClientState,
	counterparty types.Counterparty,
	counterpartyVersions []types.Version,
	delayPeriod uint64,
	proofInit, proofClient, proofConsensus commitment.Proof,
	proofHeight, consensusHeight host.Height,
) (types.Version, error) {
	if err := vctx.ValidateSelfClient(clientState); err != nil {
		return types.Version{}, err
	}

	any, found := vctx.ClientState(clientID)
	if !found {
		return types.Version{}, errorsmod.Wrapf(types.ErrInvalidClientState, "client %s not found", clientID)
	}
	selfClient, err := any.Unwrap()
	if err != nil {
		return types.Version{}, err
	}
	store := vctx.ClientStore(clientID)
	goCtx := api.WithHostClock(ctx, vctx)

	expected := types.ConnectionEnd{
		State:    types.Init,
		ClientID: counterparty.ClientID,
		Counterparty: types.Counterparty{
			ClientID:     clientID,
			ConnectionID: "",
			Prefix:       vctx.CommitmentPrefix(),
		},
		Versions:    counterpartyVersions,
		DelayPeriod: delayPeriod,
	}

	connPath, err := commitment.ApplyPrefix(counterparty.Prefix, host.ConnectionPath(counterparty.ConnectionID))
	if err != nil {
		return types.Version{}, err
	}
	if err := selfClient.VerifyMembership(goCtx, store, proofHeight, 0, 0, proofInit, connPath, expected.Marshal()); err != nil {
		return types.Version{}, errorsmod.Wrapf(types.ErrInvalidCounterparty, "proofInit: %s", err)
	}

	wrappedClient, err := clienttypes.WrapClientState(clientState)
	if err != nil {
		return types.Version{}, err
	}
	clientPath, err := commitment.ApplyPrefix(counterparty.Prefix, host.ClientStatePath(counterparty.ClientID))
	if err != nil {
		return types.Version{}, err
	}
	if err := selfClient.VerifyMembership(goCtx, store, proofHeight, 0, 0, proofClient, clientPath, wrappedClient.Marshal()); err != nil {
		return types.Version{}, errorsmod.Wrapf(types.ErrInvalidClientState, "proofClient: %s", err)
	}

	hostCons, found := vctx.HostConsensusState(consensusHeight)
	if !found {
		return types.Version{}, errorsmod.Wrapf(types.ErrInvalidClientState, "no self consensus state at height %s", consensusHeight)
	}
	wrappedCons, err := clienttypes.WrapConsensusState(hostCons)
	if err != nil {
		return types.Version{}, err
	}
	consPath, err := commitment.ApplyPrefix(counterparty.Prefix, host.ClientConsensusStatePath(counterparty.ClientID, consensusHeight))
	if err != nil {
		return types.Version{}, err
	}
	if err := selfClient.VerifyMembership(goCtx, store, proofHeight, 0, 0, proofConsensus, consPath, wrappedCons.Marshal()); err != nil {
		return types.Version{}, errorsmod.Wrapf(types.ErrInvalidClientState, "proofConsensus: %s", err)
	}

	return types.PickVersion(types.SupportedVersions, counterpartyVersions)
}

// ExecuteConnOpenTry repeats validation, assigns a new ConnectionId, writes
// the ConnectionEnd in state TryOpen and emits ConnectionOpenTry
// (spec §4.2, scenario S4).
func ExecuteConnOpenTry(
	ctx context.Context,
	ectx api.ExecutionContext,
	clientID string,
	clientState exported.ClientState,
	counterparty types.Counterparty,
	counterpartyVersions []types.Version,
	delayPeriod uint64,
	proofInit, proofClient, proofConsensus commitment.Proof,
	proofHeight, consensusHeight host.Height,
) (string, error) {
	version, err := ValidateConnOpenTry(ctx, ectx, clientID, clientState, counterparty, counterpartyVersions, delayPeriod, proofInit, proofClient, proofConsensus, proofHeight, consensusHeight)
	if err != nil {
		return "", err
	}

	connectionID := host.ConnectionIDFromCounter(ectx.ConnectionCounter())
	end := types.ConnectionEnd{
		State:        types.TryOpen,
		ClientID:     clientID,
		Counterparty: counterparty,
		Versions:     []types.Version{version},
		DelayPeriod:  delayPeriod,
	}
	if err := end.ValidateBasic(); err != nil {
		return "", err
	}

	ectx.StoreConnection(connectionID, end)
	ectx.IncreaseConnectionCounter()

	ectx.EmitIBCEvent(api.NewEvent(api.EventMessageConnection))
	ectx.EmitIBCEvent(api.NewEvent(api.EventConnectionOpenTry,
		api.Attr(api.AttrConnectionID, connectionID),
		api.Attr(api.AttrClientID, clientID),
		api.Attr(api.AttrCounterpartyConnectionID, counterparty.ConnectionID),
		api.Attr(api.AttrCounterpartyClientID, counterparty.ClientID),
	))
	return connectionID, nil
}

// ValidateConnOpenAck checks the ConnectionEnd is in Init, the counterparty
// chose a version we actually offered, and proofTry/proofClient/
// proofConsensus against the counterparty's state (spec §4.2 ConnOpenAck).
func ValidateConnOpenAck(
	ctx context.Context,
	vctx api.ValidationContext,
	connectionID string,
	clientState exported.ClientState,
	version types.Version,
	counterpartyConnectionID string,
	proofTry, proofClient, proofConsensus commitment.Proof,
	proofHeight, consensusHeight host.Height,
) error {
	end, found := vctx.ConnectionEnd(connectionID)
	if !found {
		return errorsmod.Wrapf(types.ErrConnectionNotFound, "connection %s not found", connectionID)
	}
	if end.State != types.Init {
		return types.WrapInvalidState(types.Init, end.State)
	}
	if err := types.VerifyProposedVersion(end.Versions, version); err != nil {
		return err
	}
	if err := vctx.ValidateSelfClient(clientState); err != nil {
		return err
	}

	any, found := vctx.ClientState(end.ClientID)
	if !found {
		return errorsmod.Wrapf(types.ErrInvalidClientState, "client %s not found", end.ClientID)
	}
	selfClient, err := any.Unwrap()
	if err != nil {
		return err
	}
	store := vctx.ClientStore(end.ClientID)
	goCtx := api.WithHostClock(ctx, vctx)

	expected := types.ConnectionEnd{
		State:    types.TryOpen,
		ClientID: end.Counterparty.ClientID,
		Counterparty: types.Counterparty{
			ClientID:     end.ClientID,
			ConnectionID: connectionID,
			Prefix:       vctx.CommitmentPrefix(),
		},
		Versions:    []types.Version{version},
		DelayPeriod: end.DelayPeriod,
	}
	connPath, err := commitment.ApplyPrefix(end.Counterparty.Prefix, host.ConnectionPath(counterpartyConnectionID))
	if err != nil {
		return err
	}
	if err := selfClient.VerifyMembership(goCtx, store, proofHeight, 0, 0, proofTry, connPath, expected.Marshal()); err != nil {
		return errorsmod.Wrapf(types.ErrInvalidCounterparty, "proofTry: %s", err)
	}

	wrappedClient, err := clienttypes.WrapClientState(clientState)
	if err != nil {
		return err
	}
	clientPath, err := commitment.ApplyPrefix(end.Counterparty.Prefix, host.ClientStatePath(end.Counterparty.ClientID))
	if err != nil {
		return err
	}
	if err := selfClient.VerifyMembership(goCtx, store, proofHeight, 0, 0, proofClient, clientPath, wrappedClient.Marshal()); err != nil {
		return errorsmod.Wrapf(types.ErrInvalidClientState, "proofClient: %s", err)
	}

	hostCons, found := vctx.HostConsensusState(consensusHeight)
	if !found {
		return errorsmod.Wrapf(types.ErrInvalidClientState, "no self consensus state at height %s", consensusHeight)
	}
	wrappedCons, err := clienttypes.WrapConsensusState(hostCons)
	if err != nil {
		return err
	}
	consPath, err := commitment.ApplyPrefix(end.Counterparty.Prefix, host.ClientConsensusStatePath(end.Counterparty.ClientID, consensusHeight))
	if err != nil {
		return err
	}
	return selfClient.VerifyMembership(goCtx, store, proofHeight, 0, 0, proofConsensus, consPath, wrappedCons.Marshal())
}

// ExecuteConnOpenAck repeats validation, transitions the ConnectionEnd to
// Open, records the counterparty connection id, and emits ConnectionOpenAck
// (spec §4.2, scenario S4).
func ExecuteConnOpenAck(
	ctx context.Context,
	ectx api.ExecutionContext,
	connectionID string,
	clientState exported.ClientState,
	version types.Version,
	counterpartyConnectionID string,
	proofTry, proofClient, proofConsensus commitment.Proof,
	proofHeight, consensusHeight host.Height,
) error {
	if err := ValidateConnOpenAck(ctx, ectx, connectionID, clientState, version, counterpartyConnectionID, proofTry, proofClient, proofConsensus, proofHeight, consensusHeight); err != nil {
		return err
	}

	end, _ := ectx.ConnectionEnd(connectionID)
	end.State = types.Open
	end.Versions = []types.Version{version}
	end.Counterparty.ConnectionID = counterpartyConnectionID
	if err := end.ValidateBasic(); err != nil {
		return err
	}
	ectx.StoreConnection(connectionID, end)

	ectx.EmitIBCEvent(api.NewEvent(api.EventMessageConnection))
	ectx.EmitIBCEvent(api.NewEvent(api.EventConnectionOpenAck,
		api.Attr(api.AttrConnectionID, connectionID),
		api.Attr(api.AttrClientID, end.ClientID),
		api.Attr(api.AttrCounterpartyConnectionID, counterpartyConnectionID),
		api.Attr(api.AttrCounterpartyClientID, end.Counterparty.ClientID),
	))
	return nil
}

// ValidateConnOpenConfirm checks the ConnectionEnd is in TryOpen and
// verifies proofAck against the counterparty's Open connection
// (spec §4.2 ConnOpenConfirm).
func ValidateConnOpenConfirm(ctx context.Context, vctx api.ValidationContext, connectionID string, proofAck commitment.Proof, proofHeight host.Height) error {
	end, found := vctx.ConnectionEnd(connectionID)
	if !found {
		return errorsmod.Wrapf(types.ErrConnectionNotFound, "connection %s not found", connectionID)
	}
	if end.State != types.TryOpen {
		return types.WrapInvalidState(types.TryOpen, end.State)
	}

	any, found := vctx.ClientState(end.ClientID)
	if !found {
		return errorsmod.Wrapf(types.ErrInvalidClientState, "client %s not found", end.ClientID)
	}
	selfClient, err := any.Unwrap()
	if err != nil {
		return err
	}
	store := vctx.ClientStore(end.ClientID)
	goCtx := api.WithHostClock(ctx, vctx)

	expected := types.ConnectionEnd{
		State:    types.Open,
		ClientID: end.Counterparty.ClientID,
		Counterparty: types.Counterparty{
			ClientID:     end.ClientID,
			ConnectionID: connectionID,
			Prefix:       vctx.CommitmentPrefix(),
		},
		Versions:    end.Versions,
		DelayPeriod: end.DelayPeriod,
	}
	connPath, err := commitment.ApplyPrefix(end.Counterparty.Prefix, host.ConnectionPath(end.Counterparty.ConnectionID))
	if err != nil {
		return err
	}
	return selfClient.VerifyMembership(goCtx, store, proofHeight, 0, 0, proofAck, connPath, expected.Marshal())
}

// ExecuteConnOpenConfirm repeats validation, transitions the ConnectionEnd
// to Open and emits ConnectionOpenConfirm (spec §4.2, scenario S4).
func ExecuteConnOpenConfirm(ctx context.Context, ectx api.ExecutionContext, connectionID string, proofAck commitment.Proof, proofHeight host.Height) error {
	if err := ValidateConnOpenConfirm(ctx, ectx, connectionID, proofAck, proofHeight); err != nil {
		return err
	}

	end, _ := ectx.ConnectionEnd(connectionID)
	end.State = types.Open
	ectx.StoreConnection(connectionID, end)

	ectx.EmitIBCEvent(api.NewEvent(api.EventMessageConnection))
	ectx.EmitIBCEvent(api.NewEvent(api.EventConnectionOpenConfirm,
		api.Attr(api.AttrConnectionID, connectionID),
		api.Attr(api.AttrClientID, end.ClientID),
		api.Attr(api.AttrCounterpartyConnectionID, end.Counterparty.ConnectionID),
		api.Attr(api.AttrCounterpartyClientID, end.Counterparty.ClientID),
	))
	return nil
}
