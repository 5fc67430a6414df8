// Package keeper implements the ICS-04 channel handshake and packet
// lifecycle (spec §C6, §C7, §4.3, §4.4), each split into Validate (pure
// reads) and Execute (writes + events, plus the bound module's callback)
// per spec §4.6.
package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"

	connectiontypes "github.com/tokenize-x/ibc-core/core/03connection/types"
	commitment "github.com/tokenize-x/ibc-core/core/23commitment"
	types "github.com/tokenize-x/ibc-core/core/04channel/types"
	host "github.com/tokenize-x/ibc-core/core/24host"
	"github.com/tokenize-x/ibc-core/core/api"
)

// connectionAndClient resolves the single connection hop of a channel to
// its ConnectionEnd and the id of the client it is bound to (spec §4.3:
// "connection_hops always has length 1").
func connectionAndClient(vctx api.ValidationContext, connectionHops []string) (connectiontypes.ConnectionEnd, string, error) {
	if len(connectionHops) != 1 {
		return connectiontypes.ConnectionEnd{}, "", errorsmod.Wrapf(types.ErrInvalidConnectionHopsLength, "got %d hops", len(connectionHops))
	}
	conn, found := vctx.ConnectionEnd(connectionHops[0])
	if !found {
		return connectiontypes.ConnectionEnd{}, "", errorsmod.Wrapf(connectiontypes.ErrConnectionNotFound, "connection %s not found", connectionHops[0])
	}
	if conn.State != connectiontypes.Open {
		return connectiontypes.ConnectionEnd{}, "", connectiontypes.WrapInvalidState(connectiontypes.Open, conn.State)
	}
	return conn, conn.ClientID, nil
}

// ValidateChanOpenInit checks the port is bound and the connection hop is
// Open (spec §4.3 ChanOpenInit).
func ValidateChanOpenInit(vctx api.ValidationContext, router *api.Router, portID string, connectionHops []string) error {
	if _, err := router.Route(portID); err != nil {
		return err
	}
	_, _, err := connectionAndClient(vctx, connectionHops)
	return err
}

// ExecuteChanOpenInit assigns a new ChannelId, invokes the bound module's
// OnChanOpenInit to negotiate the initial version, writes the ChannelEnd in
// state Init and emits ChannelOpenInit (spec §4.3, scenario S5).
func ExecuteChanOpenInit(ectx api.ExecutionContext, router *api.Router, portID string, ordering types.Order, connectionHops []string, counterparty types.Counterparty, proposedVersion string) (string, error) {
	if err := ValidateChanOpenInit(ectx, router, portID, connectionHops); err != nil {
		return "", err
	}

	module, err := router.Route(portID)
	if err != nil {
		return "", err
	}
	channelID := host.ChannelIDFromCounter(ectx.ChannelCounter())
	negotiated, err := module.OnChanOpenInit(ectx, ordering, connectionHops, portID, channelID, counterparty, proposedVersion)
	if err != nil {
		return "", errorsmod.Wrap(types.ErrAppModule, err.Error())
	}

	end := types.ChannelEnd{
		State:          types.Init,
		Ordering:       ordering,
		Remote:         counterparty,
		ConnectionHops: connectionHops,
		Version:        negotiated,
	}
	if err := end.ValidateBasic(); err != nil {
		return "", err
	}

	ectx.StoreChannel(portID, channelID, end)
	ectx.IncreaseChannelCounter()
	ectx.StoreNextSequenceSend(portID, channelID, 1)
	ectx.StoreNextSequenceRecv(portID, channelID, 1)
	ectx.StoreNextSequenceAck(portID, channelID, 1)

	ectx.EmitIBCEvent(api.NewEvent(api.EventMessageChannel))
	ectx.EmitIBCEvent(api.NewEvent(api.EventChannelOpenInit,
		api.Attr(api.AttrPortID, portID),
		api.Attr(api.AttrChannelID, channelID),
		api.Attr(api.AttrCounterpartyPortID, counterparty.PortID),
	))
	return channelID, nil
}

// ValidateChanOpenTry checks the port is bound, the connection hop is Open,
// and proofChannel verifies the counterparty's ChannelEnd in state Init
// against its stored state at proofHeight (spec §4.3 ChanOpenTry).
func ValidateChanOpenTry(
	ctx context.Context,
	vctx api.ValidationContext,
	router *api.Router,
	portID string,
	ordering types.Order,
	connectionHops []string,
	counterparty types.Counterparty,
	counterpartyVersion string,
	proofChannel commitment.Proof,
	proofHeight host.Height,
) error {
	if _, err := router.Route(portID); err != nil {
		return err
	}
	conn, clientID, err := connectionAndClient(vctx, connectionHops)
	if err != nil {
		return err
	}

	any, found := vctx.ClientState(clientID)
	if !found {
		return errorsmod.Wrapf(types.ErrChannelNotFound, "client %s not found", clientID)
	}
	clientState, err := any.Unwrap()
	if err != nil {
		return err
	}
	store := vctx.ClientStore(clientID)
	goCtx := api.WithHostClock(ctx, vctx)

	expected := types.ChannelEnd{
		State:          types.Init,
		Ordering:       ordering,
		Remote:         types.Counterparty{PortID: portID, ChannelID: ""},
		ConnectionHops: []string{conn.Counterparty.ConnectionID},
		Version:        counterpartyVersion,
	}
	path, err := commitment.ApplyPrefix(conn.Counterparty.Prefix, host.ChannelEndPath(counterparty.PortID, counterparty.ChannelID))
	if err != nil {
		return err
	}
	return clientState.VerifyMembership(goCtx, store, proofHeight, conn.DelayPeriod, 0, proofChannel, path, expected.Marshal())
}

// ExecuteChanOpenTry repeats validation, invokes OnChanOpenTry, assigns a
// new ChannelId, writes the ChannelEnd in state TryOpen and emits
// ChannelOpenTry (spec §4.3, scenario S5).
func ExecuteChanOpenTry(
	ctx context.Context,
	ectx api.ExecutionContext,
	router *api.Router,
	portID string,
	ordering types.Order,
	connectionHops []string,
	counterparty types.Counterparty,
	counterpartyVersion string,
	proofChannel commitment.Proof,
	proofHeight host.Height,
) (string, error) {
	if err := ValidateChanOpenTry(ctx, ectx, router, portID, ordering, connectionHops, counterparty, counterpartyVersion, proofChannel, proofHeight); err != nil {
		return "", err
	}

	module, err := router.Route(portID)
	if err != nil {
		return "", err
	}
	channelID := host.ChannelIDFromCounter(ectx.ChannelCounter())
	negotiated, err := module.OnChanOpenTry(ectx, ordering, connectionHops, portID, channelID, counterparty, counterpartyVersion)
	if err != nil {
		return "", errorsmod.Wrap(types.ErrAppModule, err.Error())
	}

	end := types.ChannelEnd{
		State:          types.TryOpen,
		Ordering:       ordering,
		Remote:         counterparty,
		ConnectionHops: connectionHops,
		Version:        negotiated,
	}
	if err := end.ValidateBasic(); err != nil {
		return "", err
	}

	ectx.StoreChannel(portID, channelID, end)
	ectx.IncreaseChannelCounter()
	ectx.StoreNextSequenceSend(portID, channelID, 1)
	ectx.StoreNextSequenceRecv(portID, channelID, 1)
	ectx.StoreNextSequenceAck(portID, channelID, 1)

	ectx.EmitIBCEvent(api.NewEvent(api.EventMessageChannel))
	ectx.EmitIBCEvent(api.NewEvent(api.EventChannelOpenTry,
		api.Attr(api.AttrPortID, portID),
		api.Attr(api.AttrChannelID, channelID),
		api.Attr(api.AttrCounterpartyPortID, counterparty.PortID),
		api.Attr(api.AttrCounterpartyChannelID, counterparty.ChannelID),
	))
	return channelID, nil
}

// ValidateChanOpenAck checks the ChannelEnd is in Init and proofTry verifies
// the counterparty's ChannelEnd in state TryOpen (spec §4.3 ChanOpenAck).
func ValidateChanOpenAck(
	ctx context.Context,
	vctx api.ValidationContext,
	portID, channelID string,
	counterpartyChannelID, counterpartyVersion string,
	proofChannel commitment.Proof,
	proofHeight host.Height,
) (types.ChannelEnd, error) {
	end, found := vctx.ChannelEnd(portID, channelID)
	if !found {
		return types.ChannelEnd{}, errorsmod.Wrapf(types.ErrChannelNotFound, "channel %s/%s not found", portID, channelID)
	}
	if end.State != types.Init {
		return types.ChannelEnd{}, types.WrapInvalidChannelState(types.Init, end.State)
	}

	conn, clientID, err := connectionAndClient(vctx, end.ConnectionHops)
	if err != nil {
		return types.ChannelEnd{}, err
	}
	any, found := vctx.ClientState(clientID)
	if !found {
		return types.ChannelEnd{}, errorsmod.Wrapf(types.ErrChannelNotFound, "client %s not found", clientID)
	}
	clientState, err := any.Unwrap()
	if err != nil {
		return types.ChannelEnd{}, err
	}
	store := vctx.ClientStore(clientID)
	goCtx := api.WithHostClock(ctx, vctx)

	expected := types.ChannelEnd{
		State:          types.TryOpen,
		Ordering:       end.Ordering,
		Remote:         types.Counterparty{PortID: portID, ChannelID: channelID},
		ConnectionHops: []string{conn.Counterparty.ConnectionID},
		Version:        counterpartyVersion,
	}
	path, err := commitment.ApplyPrefix(conn.Counterparty.Prefix, host.ChannelEndPath(end.Remote.PortID, counterpartyChannelID))
	if err != nil {
		return types.ChannelEnd{}, err
	}
	if err := clientState.VerifyMembership(goCtx, store, proofHeight, conn.DelayPeriod, 0, proofChannel, path, expected.Marshal()); err != nil {
		return types.ChannelEnd{}, err
	}
	return end, nil
}

// ExecuteChanOpenAck repeats validation, invokes OnChanOpenAck, transitions
// the ChannelEnd to Open and emits ChannelOpenAck (spec §4.3, scenario S5).
func ExecuteChanOpenAck(
	ctx context.Context,
	ectx api.ExecutionContext,
	router *api.Router,
	portID, channelID string,
	counterpartyChannelID, counterpartyVersion string,
	proofChannel commitment.Proof,
	proofHeight host.Height,
) error {
	end, err := ValidateChanOpenAck(ctx, ectx, portID, channelID, counterpartyChannelID, counterpartyVersion, proofChannel, proofHeight)
	if err != nil {
		return err
	}

	module, err := router.Route(portID)
	if err != nil {
		return err
	}
	if err := module.OnChanOpenAck(ectx, portID, channelID, counterpartyVersion); err != nil {
		return errorsmod.Wrap(types.ErrAppModule, err.Error())
	}

	end.State = types.Open
	end.Remote.ChannelID = counterpartyChannelID
	end.Version = counterpartyVersion
	if err := end.ValidateBasic(); err != nil {
		return err
	}
	ectx.StoreChannel(portID, channelID, end)

	ectx.EmitIBCEvent(api.NewEvent(api.EventMessageChannel))
	ectx.EmitIBCEvent(api.NewEvent(api.EventChannelOpenAck,
		api.Attr(api.AttrPortID, portID),
		api.Attr(api.AttrChannelID, channelID),
		api.Attr(api.AttrCounterpartyChannelID, counterpartyChannelID),
	))
	return nil
}

// ValidateChanOpenConfirm checks the ChannelEnd is in TryOpen and proofAck
// verifies the counterparty's ChannelEnd in state Open (spec §4.3
// ChanOpenConfirm).
func ValidateChanOpenConfirm(ctx context.Context, vctx api.ValidationContext, portID, channelID string, proofAck commitment.Proof, proofHeight host.Height) (types.ChannelEnd, error) {
	end, found := vctx.ChannelEnd(portID, channelID)
	if !found {
		return types.ChannelEnd{}, errorsmod.Wrapf(types.ErrChannelNotFound, "channel %s/%s not found", portID, channelID)
	}
	if end.State != types.TryOpen {
		return types.ChannelEnd{}, types.WrapInvalidChannelState(types.TryOpen, end.State)
	}

	conn, clientID, err := connectionAndClient(vctx, end.ConnectionHops)
	if err != nil {
		return types.ChannelEnd{}, err
	}
	any, found := vctx.ClientState(clientID)
	if !found {
		return types.ChannelEnd{}, errorsmod.Wrapf(types.ErrChannelNotFound, "client %s not found", clientID)
	}
	clientState, err := any.Unwrap()
	if err != nil {
		return types.ChannelEnd{}, err
	}
	store := vctx.ClientStore(clientID)
	goCtx := api.WithHostClock(ctx, vctx)

	expected := types.ChannelEnd{
		State:          types.Open,
		Ordering:       end.Ordering,
		Remote:         types.Counterparty{PortID: portID, ChannelID: channelID},
		ConnectionHops: []string{conn.Counterparty.ConnectionID},
		Version:        end.Version,
	}
	path, err := commitment.ApplyPrefix(conn.Counterparty.Prefix, host.ChannelEndPath(end.Remote.PortID, end.Remote.ChannelID))
	if err != nil {
		return types.ChannelEnd{}, err
	}
	if err := clientState.VerifyMembership(goCtx, store, proofHeight, conn.DelayPeriod, 0, proofAck, path, expected.Marshal()); err != nil {
		return types.ChannelEnd{}, err
	}
	return end, nil
}

// ExecuteChanOpenConfirm repeats validation, invokes OnChanOpenConfirm,
// transitions the ChannelEnd to Open and emits ChannelOpenConfirm
// (spec §4.3, scenario S5).
func ExecuteChanOpenConfirm(ctx context.Context, ectx api.ExecutionContext, router *api.Router, portID, channelID string, proofAck commitment.Proof, proofHeight host.Height) error {
	end, err := ValidateChanOpenConfirm(ctx, ectx, portID, channelID, proofAck, proofHeight)
	if err != nil {
		return err
	}

	module, err := router.Route(portID)
	if err != nil {
		return err
	}
	if err := module.OnChanOpenConfirm(ectx, portID, channelID); err != nil {
		return errorsmod.Wrap(types.ErrAppModule, err.Error())
	}

	end.State = types.Open
	ectx.StoreChannel(portID, channelID, end)

	ectx.EmitIBCEvent(api.NewEvent(api.EventMessageChannel))
	ectx.EmitIBCEvent(api.NewEvent(api.EventChannelOpenConfirm,
		api.Attr(api.AttrPortID, portID),
		api.Attr(api.AttrChannelID, channelID),
	))
	return nil
}

// ValidateChanCloseInit checks the ChannelEnd is Open (spec §4.3
// ChanCloseInit: a channel may be closed from either end, self-initiated).
func ValidateChanCloseInit(vctx api.ValidationContext, portID, channelID string) (types.ChannelEnd, error) {
	end, found := vctx.ChannelEnd(portID, channelID)
	if !found {
		return types.ChannelEnd{}, errorsmod.Wrapf(types.ErrChannelNotFound, "channel %s/%s not found", portID, channelID)
	}
	if end.State != types.Open {
		return types.ChannelEnd{}, types.WrapInvalidChannelState(types.Open, end.State)
	}
	return end, nil
}

// ExecuteChanCloseInit invokes OnChanCloseInit, transitions the ChannelEnd
// to Closed and emits ChannelCloseInit (spec §4.3, scenario S6).
func ExecuteChanCloseInit(ectx api.ExecutionContext, router *api.Router, portID, channelID string) error {
	end, err := ValidateChanCloseInit(ectx, portID, channelID)
	if err != nil {
		return err
	}

	module, err := router.Route(portID)
	if err != nil {
		return err
	}
	if err := module.OnChanCloseInit(ectx, portID, channelID); err != nil {
		return errorsmod.Wrap(types.ErrAppModule, err.Error())
	}

	end.State = types.Closed
	ectx.StoreChannel(portID, channelID, end)

	ectx.EmitIBCEvent(api.NewEvent(api.EventMessageChannel))
	ectx.EmitIBCEvent(api.NewEvent(api.EventChannelCloseInit,
		api.Attr(api.AttrPortID, portID),
		api.Attr(api.AttrChannelID, channelID),
	))
	return nil
}

// ValidateChanCloseConfirm checks the ChannelEnd is Open and proofInit
// verifies the counterparty's ChannelEnd is Closed (spec §4.3
// ChanCloseConfirm).
func ValidateChanCloseConfirm(ctx context.Context, vctx api.ValidationContext, portID, channelID string, proofInit commitment.Proof, proofHeight host.Height) (types.ChannelEnd, error) {
	end, found := vctx.ChannelEnd(portID, channelID)
	if !found {
		return types.ChannelEnd{}, errorsmod.Wrapf(types.ErrChannelNotFound, "channel %s/%s not found", portID, channelID)
	}
	if end.State != types.Open {
		return types.ChannelEnd{}, types.WrapInvalidChannelState(types.Open, end.State)
	}

	conn, clientID, err := connectionAndClient(vctx, end.ConnectionHops)
	if err != nil {
		return types.ChannelEnd{}, err
	}
	any, found := vctx.ClientState(clientID)
	if !found {
		return types.ChannelEnd{}, errorsmod.Wrapf(types.ErrChannelNotFound, "client %s not found", clientID)
	}
	clientState, err := any.Unwrap()
	if err != nil {
		return types.ChannelEnd{}, err
	}
	store := vctx.ClientStore(clientID)
	goCtx := api.WithHostClock(ctx, vctx)

	expected := types.ChannelEnd{
		State:          types.Closed,
		Ordering:       end.Ordering,
		Remote:         types.Counterparty{PortID: portID, ChannelID: channelID},
		ConnectionHops: []string{conn.Counterparty.ConnectionID},
		Version:        end.Version,
	}
	path, err := commitment.ApplyPrefix(conn.Counterparty.Prefix, host.ChannelEndPath(end.Remote.PortID, end.Remote.ChannelID))
	if err != nil {
		return types.ChannelEnd{}, err
	}
	if err := clientState.VerifyMembership(goCtx, store, proofHeight, conn.DelayPeriod, 0, proofInit, path, expected.Marshal()); err != nil {
		return types.ChannelEnd{}, err
	}
	return end, nil
}

// ExecuteChanCloseConfirm invokes OnChanCloseConfirm, transitions the
// ChannelEnd to Closed and emits ChannelCloseConfirm (spec §4.3, scenario S6).
func ExecuteChanCloseConfirm(ctx context.Context, ectx api.ExecutionContext, router *api.Router, portID, channelID string, proofInit commitment.Proof, proofHeight host.Height) error {
	end, err := ValidateChanCloseConfirm(ctx, ectx, portID, channelID, proofInit, proofHeight)
	if err != nil {
		return err
	}

	module, err := router.Route(portID)
	if err != nil {
		return err
	}
	if err := module.OnChanCloseConfirm(ectx, portID, channelID); err != nil {
		return errorsmod.Wrap(types.ErrAppModule, err.Error())
	}

	end.State = types.Closed
	ectx.StoreChannel(portID, channelID, end)

	ectx.EmitIBCEvent(api.NewEvent(api.EventMessageChannel))
	ectx.EmitIBCEvent(api.NewEvent(api.EventChannelCloseConfirm,
		api.Attr(api.AttrPortID, portID),
		api.Attr(api.AttrChannelID, channelID),
	))
	return nil
}
