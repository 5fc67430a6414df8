// Package keeper implements the client-manager dispatch of spec §C3/§4.1:
// create/update/upgrade/misbehaviour, split into validate (pure reads) and
// execute (writes + events) per spec §4.6.
package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"

	clienttypes "github.com/tokenize-x/ibc-core/core/02client/types"
	tendermint "github.com/tokenize-x/ibc-core/core/07tendermint/types"
	host "github.com/tokenize-x/ibc-core/core/24host"
	"github.com/tokenize-x/ibc-core/core/api"
	"github.com/tokenize-x/ibc-core/core/exported"
)

// ValidateCreateClient checks the proposed client/consensus state are
// internally well-formed (spec §4.1 "on create").
func ValidateCreateClient(clientState exported.ClientState, consState exported.ConsensusState) error {
	if tm, ok := clientState.(*tendermint.ClientState); ok {
		if err := tm.ValidateBasic(); err != nil {
			return err
		}
	}
	if consState == nil {
		return errorsmod.Wrap(clienttypes.ErrUnknownClientMessageType, "consensus state cannot be nil")
	}
	return nil
}

// ExecuteCreateClient assigns a new ClientId, writes the client and initial
// consensus state, bumps the client counter, and emits CreateClient
// (spec §4.1 "on create", §6.4, scenario S1).
func ExecuteCreateClient(ctx api.ExecutionContext, clientState exported.ClientState, consState exported.ConsensusState) (string, error) {
	any, err := clienttypes.WrapClientState(clientState)
	if err != nil {
		return "", err
	}
	anyCons, err := clienttypes.WrapConsensusState(consState)
	if err != nil {
		return "", err
	}

	counter := ctx.ClientCounter()
	clientID := host.ClientIDFromTypeCounter(clientState.ClientType(), counter)

	ctx.StoreClientState(clientID, any)
	store := ctx.ClientStore(clientID)
	store.SetClientState(any)
	store.SetConsensusState(clientState.LatestHeight(), anyCons)
	store.SetUpdateMeta(clientState.LatestHeight(), ctx.HostTimestamp(), ctx.HostHeight())
	ctx.IncreaseClientCounter()

	ctx.EmitIBCEvent(api.NewEvent(api.EventMessageClient))
	ctx.EmitIBCEvent(api.NewEvent(api.EventCreateClient,
		api.Attr(api.AttrClientID, clientID),
		api.Attr(api.AttrClientType, clientState.ClientType()),
		api.Attr(api.AttrConsensusHeight, api.AttrHeight(clientState.LatestHeight())),
	))

	return clientID, nil
}

// ValidateUpdateClient checks that clientID exists, is not frozen, and that
// msg verifies against its trusted state (spec §4.1 verify_client_message).
// It is shared by both the UpdateClient and Misbehaviour envelope variants
// (spec §6.3): the two differ only in whether CheckForMisbehaviour is
// expected to report true.
func ValidateUpdateClient(ctx context.Context, vctx api.ValidationContext, clientID string, msg exported.ClientMessage) error {
	any, found := vctx.ClientState(clientID)
	if !found {
		return errorsmod.Wrapf(tendermint.ErrClientNotFound, "client %s not found", clientID)
	}
	clientState, err := any.Unwrap()
	if err != nil {
		return err
	}
	store := vctx.ClientStore(clientID)
	if clientState.Status(ctx, store, vctx.HostTimestamp()) == exported.Frozen {
		return errorsmod.Wrapf(tendermint.ErrClientFrozen, "client %s is frozen", clientID)
	}
	goCtx := api.WithHostClock(ctx, vctx)
	return clientState.VerifyClientMessage(goCtx, store, vctx.HostTimestamp(), msg)
}

// ExecuteUpdateClient repeats the verification, then either freezes the
// client (if CheckForMisbehaviour reports true) or writes the new state
// (spec §4.1 update_state / update_state_on_misbehaviour, §4.6 execute).
func ExecuteUpdateClient(ctx context.Context, ectx api.ExecutionContext, clientID string, msg exported.ClientMessage) error {
	any, found := ectx.ClientState(clientID)
	if !found {
		return errorsmod.Wrapf(tendermint.ErrClientNotFound, "client %s not found", clientID)
	}
	clientState, err := any.Unwrap()
	if err != nil {
		return err
	}
	store := ectx.ClientStore(clientID)
	goCtx := api.WithHostClock(ctx, ectx)
	now := ectx.HostTimestamp()

	if clientState.Status(ctx, store, now) == exported.Frozen {
		return errorsmod.Wrapf(tendermint.ErrClientFrozen, "client %s is frozen", clientID)
	}
	if err := clientState.VerifyClientMessage(goCtx, store, now, msg); err != nil {
		return err
	}

	if clientState.CheckForMisbehaviour(goCtx, store, msg) {
		clientState.UpdateStateOnMisbehaviour(goCtx, store, msg)
		wrapped, err := clienttypes.WrapClientState(clientState)
		if err != nil {
			return err
		}
		ectx.StoreClientState(clientID, wrapped)
		ectx.EmitIBCEvent(api.NewEvent(api.EventMessageClient))
		ectx.EmitIBCEvent(api.NewEvent(api.EventClientMisbehaviour,
			api.Attr(api.AttrClientID, clientID),
			api.Attr(api.AttrClientType, clientState.ClientType()),
		))
		return nil
	}

	heights := clientState.UpdateState(goCtx, store, now, msg)
	wrapped, err := clienttypes.WrapClientState(clientState)
	if err != nil {
		return err
	}
	ectx.StoreClientState(clientID, wrapped)

	ectx.EmitIBCEvent(api.NewEvent(api.EventMessageClient))
	attrs := []api.EventAttribute{
		api.Attr(api.AttrClientID, clientID),
		api.Attr(api.AttrClientType, clientState.ClientType()),
	}
	if len(heights) > 0 {
		attrs = append(attrs, api.Attr(api.AttrConsensusHeight, api.AttrHeight(heights[len(heights)-1])))
	}
	ectx.EmitIBCEvent(api.NewEvent(api.EventUpdateClient, attrs...))
	return nil
}

// Status returns Active/Expired/Frozen for clientID (spec §4.1 status).
func Status(ctx context.Context, vctx api.ValidationContext, clientID string) (exported.Status, error) {
	any, found := vctx.ClientState(clientID)
	if !found {
		return exported.Frozen, errorsmod.Wrapf(tendermint.ErrClientNotFound, "client %s not found", clientID)
	}
	clientState, err := any.Unwrap()
	if err != nil {
		return exported.Frozen, err
	}
	store := vctx.ClientStore(clientID)
	return clientState.Status(ctx, store, vctx.HostTimestamp()), nil
}
