package keeper

import (
	"bytes"
	"context"
	"fmt"

	errorsmod "cosmossdk.io/errors"

	connectiontypes "github.com/tokenize-x/ibc-core/core/03connection/types"
	commitment "github.com/tokenize-x/ibc-core/core/23commitment"
	types "github.com/tokenize-x/ibc-core/core/04channel/types"
	host "github.com/tokenize-x/ibc-core/core/24host"
	"github.com/tokenize-x/ibc-core/core/api"
	"github.com/tokenize-x/ibc-core/core/exported"
)

func marshalSeq(seq uint64) []byte { return []byte(fmt.Sprintf("%d", seq)) }

// openChannelAndConnection looks up a channel end, checks it is Open, and
// resolves its single connection hop plus bound client (spec §4.4 step 1:
// "the channel must be OPEN on both ends").
func openChannelAndConnection(vctx api.ValidationContext, portID, channelID string) (types.ChannelEnd, connectiontypes.ConnectionEnd, exported.ClientState, exported.ClientStore, error) {
	end, found := vctx.ChannelEnd(portID, channelID)
	if !found {
		return types.ChannelEnd{}, connectiontypes.ConnectionEnd{}, nil, nil, errorsmod.Wrapf(types.ErrChannelNotFound, "channel %s/%s not found", portID, channelID)
	}
	if end.State != types.Open {
		return types.ChannelEnd{}, connectiontypes.ConnectionEnd{}, nil, nil, types.WrapInvalidChannelState(types.Open, end.State)
	}
	conn, clientID, err := connectionAndClient(vctx, end.ConnectionHops)
	if err != nil {
		return types.ChannelEnd{}, connectiontypes.ConnectionEnd{}, nil, nil, err
	}
	any, found := vctx.ClientState(clientID)
	if !found {
		return types.ChannelEnd{}, connectiontypes.ConnectionEnd{}, nil, nil, errorsmod.Wrapf(types.ErrChannelNotFound, "client %s not found", clientID)
	}
	clientState, err := any.Unwrap()
	if err != nil {
		return types.ChannelEnd{}, connectiontypes.ConnectionEnd{}, nil, nil, err
	}
	return end, conn, clientState, vctx.ClientStore(clientID), nil
}

// ValidateSendPacket checks packet well-formedness, that the source channel
// is Open, the assigned sequence matches the channel's send counter, and the
// timeout has not already elapsed (spec §4.4 SendPacket).
func ValidateSendPacket(vctx api.ValidationContext, packet types.Packet) error {
	if err := packet.ValidateBasic(); err != nil {
		return err
	}
	end, _, _, _, err := openChannelAndConnection(vctx, packet.Source.PortID, packet.Source.ChannelID)
	if err != nil {
		return err
	}
	if packet.Destination.PortID != end.Remote.PortID || packet.Destination.ChannelID != end.Remote.ChannelID {
		return errorsmod.Wrap(types.ErrInvalidCounterparty, "packet destination does not match channel counterparty")
	}

	next, found := vctx.NextSequenceSend(packet.Source.PortID, packet.Source.ChannelID)
	if !found {
		return types.ErrMissingNextSendSeq
	}
	if packet.Sequence != next {
		return errorsmod.Wrapf(types.ErrInvalidPacketSequence, "expected sequence %d, got %d", next, packet.Sequence)
	}

	if packet.HasTimeoutHeight() && vctx.HostHeight().GTE(packet.TimeoutHeight) {
		return errorsmod.Wrap(types.ErrLowPacketHeight, "timeout height has already elapsed on the sending chain")
	}
	if !packet.TimeoutTimestamp.IsZero() && vctx.HostTimestamp() >= packet.TimeoutTimestamp {
		return errorsmod.Wrap(types.ErrLowPacketTimestamp, "timeout timestamp has already elapsed on the sending chain")
	}
	return nil
}

// ExecuteSendPacket repeats validation, writes the packet commitment, bumps
// the send sequence, and emits SendPacket (spec §4.4 SendPacket).
func ExecuteSendPacket(ectx api.ExecutionContext, packet types.Packet) error {
	if err := ValidateSendPacket(ectx, packet); err != nil {
		return err
	}

	ectx.StorePacketCommitment(packet.Source.PortID, packet.Source.ChannelID, packet.Sequence, types.CommitPacket(packet))
	ectx.StoreNextSequenceSend(packet.Source.PortID, packet.Source.ChannelID, packet.Sequence+1)

	ectx.EmitIBCEvent(api.NewEvent(api.EventSendPacket,
		api.Attr(api.AttrPortID, packet.Source.PortID),
		api.Attr(api.AttrChannelID, packet.Source.ChannelID),
		api.Attr(api.AttrCounterpartyPortID, packet.Destination.PortID),
		api.Attr(api.AttrCounterpartyChannelID, packet.Destination.ChannelID),
		api.Attr(api.AttrPacketSequence, api.AttrUint(packet.Sequence)),
		api.Attr(api.AttrPacketTimeoutHeight, packet.TimeoutHeight.String()),
		api.Attr(api.AttrPacketTimeoutTimestamp, api.AttrUint(uint64(packet.TimeoutTimestamp))),
	))
	return nil
}

// ValidateRecvPacket checks the destination channel is Open, the timeout has
// not elapsed on the receiving chain, the ordering-specific sequence
// constraint, and proofCommitment against the source chain's state
// (spec §4.4 RecvPacket).
func ValidateRecvPacket(ctx context.Context, vctx api.ValidationContext, packet types.Packet, proofCommitment commitment.Proof, proofHeight host.Height) error {
	end, conn, clientState, store, err := openChannelAndConnection(vctx, packet.Destination.PortID, packet.Destination.ChannelID)
	if err != nil {
		return err
	}
	if packet.Source.PortID != end.Remote.PortID || packet.Source.ChannelID != end.Remote.ChannelID {
		return errorsmod.Wrap(types.ErrInvalidCounterparty, "packet source does not match channel counterparty")
	}

	if packet.HasTimeoutHeight() && vctx.HostHeight().GTE(packet.TimeoutHeight) {
		return errorsmod.Wrap(types.ErrLowPacketHeight, "timeout height has already elapsed on the receiving chain")
	}
	if !packet.TimeoutTimestamp.IsZero() && vctx.HostTimestamp() >= packet.TimeoutTimestamp {
		return errorsmod.Wrap(types.ErrLowPacketTimestamp, "timeout timestamp has already elapsed on the receiving chain")
	}

	if end.Ordering == types.Ordered {
		next, found := vctx.NextSequenceRecv(packet.Destination.PortID, packet.Destination.ChannelID)
		if !found {
			return types.ErrMissingNextRecvSeq
		}
		if packet.Sequence != next {
			return errorsmod.Wrapf(types.ErrInvalidPacketSequence, "expected sequence %d, got %d", next, packet.Sequence)
		}
	}

	if _, found := vctx.PacketAcknowledgement(packet.Destination.PortID, packet.Destination.ChannelID, packet.Sequence); found {
		return types.ErrAcknowledgementExists
	}

	goCtx := api.WithHostClock(ctx, vctx)
	path, err := commitment.ApplyPrefix(conn.Counterparty.Prefix, host.PacketCommitmentPath(packet.Source.PortID, packet.Source.ChannelID, packet.Sequence))
	if err != nil {
		return err
	}
	return clientState.VerifyMembership(goCtx, store, proofHeight, conn.DelayPeriod, 0, proofCommitment, path, types.CommitPacket(packet))
}

// ExecuteRecvPacket repeats validation, and unless the packet was already
// received, invokes the bound module's OnRecvPacket, records the
// receipt/ack, and emits RecvPacket plus WriteAcknowledgement. A packet is
// already received, and thus a no-op (spec §4.4 step 5 "idempotent"), when
// an Unordered channel already holds a receipt for it, or when its sequence
// is behind an Ordered channel's next_sequence_recv. alreadyReceived reports
// whether execution was a no-op.
func ExecuteRecvPacket(ctx context.Context, ectx api.ExecutionContext, router *api.Router, packet types.Packet, proofCommitment commitment.Proof, proofHeight host.Height) (alreadyReceived bool, err error) {
	end, found := ectx.ChannelEnd(packet.Destination.PortID, packet.Destination.ChannelID)
	if !found {
		return false, errorsmod.Wrapf(types.ErrChannelNotFound, "channel %s/%s not found", packet.Destination.PortID, packet.Destination.ChannelID)
	}
	if end.Ordering == types.Unordered {
		if ectx.PacketReceipt(packet.Destination.PortID, packet.Destination.ChannelID, packet.Sequence) {
			return true, nil
		}
	} else {
		next, found := ectx.NextSequenceRecv(packet.Destination.PortID, packet.Destination.ChannelID)
		if found && packet.Sequence < next {
			return true, nil
		}
	}

	if err := ValidateRecvPacket(ctx, ectx, packet, proofCommitment, proofHeight); err != nil {
		return false, err
	}

	module, err := router.Route(packet.Destination.PortID)
	if err != nil {
		return false, err
	}
	extras, ackBytes := module.OnRecvPacket(ectx, packet, "")
	for _, ev := range extras.Events {
		ectx.EmitIBCEvent(ev)
	}
	for _, l := range extras.Logs {
		ectx.LogMessage(l)
	}

	if end.Ordering == types.Ordered {
		ectx.StoreNextSequenceRecv(packet.Destination.PortID, packet.Destination.ChannelID, packet.Sequence+1)
	} else {
		ectx.StorePacketReceipt(packet.Destination.PortID, packet.Destination.ChannelID, packet.Sequence)
	}

	ectx.EmitIBCEvent(api.NewEvent(api.EventRecvPacket,
		api.Attr(api.AttrPortID, packet.Destination.PortID),
		api.Attr(api.AttrChannelID, packet.Destination.ChannelID),
		api.Attr(api.AttrPacketSequence, api.AttrUint(packet.Sequence)),
	))

	if len(ackBytes) > 0 {
		ectx.StorePacketAcknowledgement(packet.Destination.PortID, packet.Destination.ChannelID, packet.Sequence, types.CommitAcknowledgement(ackBytes))
		ectx.EmitIBCEvent(api.NewEvent(api.EventWriteAcknowledgement,
			api.Attr(api.AttrPortID, packet.Destination.PortID),
			api.Attr(api.AttrChannelID, packet.Destination.ChannelID),
			api.Attr(api.AttrPacketSequence, api.AttrUint(packet.Sequence)),
			api.Attr(api.AttrPacketAck, string(ackBytes)),
		))
	}
	return false, nil
}

// ValidateAcknowledgePacket checks the source channel is Open, a matching
// commitment still exists (an already-acknowledged packet is a no-op, not
// an error), and proofAcked against the destination chain's state
// (spec §4.4 AcknowledgePacket).
func ValidateAcknowledgePacket(ctx context.Context, vctx api.ValidationContext, packet types.Packet, ackBytes []byte, proofAcked commitment.Proof, proofHeight host.Height) (alreadyAcked bool, err error) {
	_, conn, clientState, store, err := openChannelAndConnection(vctx, packet.Source.PortID, packet.Source.ChannelID)
	if err != nil {
		return false, err
	}

	stored, found := vctx.PacketCommitment(packet.Source.PortID, packet.Source.ChannelID, packet.Sequence)
	if !found {
		return true, nil
	}
	if !bytes.Equal(stored, types.CommitPacket(packet)) {
		return false, types.ErrCommitmentMismatch
	}

	goCtx := api.WithHostClock(ctx, vctx)
	path, err := commitment.ApplyPrefix(conn.Counterparty.Prefix, host.PacketAcknowledgementPath(packet.Destination.PortID, packet.Destination.ChannelID, packet.Sequence))
	if err != nil {
		return false, err
	}
	if err := clientState.VerifyMembership(goCtx, store, proofHeight, conn.DelayPeriod, 0, proofAcked, path, types.CommitAcknowledgement(ackBytes)); err != nil {
		return false, err
	}
	return false, nil
}

// ExecuteAcknowledgePacket repeats validation and, unless the packet was
// already acknowledged, invokes OnAcknowledgementPacket, deletes the packet
// commitment, bumps the ack sequence on Ordered channels, and emits
// AcknowledgePacket.
func ExecuteAcknowledgePacket(ctx context.Context, ectx api.ExecutionContext, router *api.Router, packet types.Packet, ackBytes []byte, proofAcked commitment.Proof, proofHeight host.Height) error {
	alreadyAcked, err := ValidateAcknowledgePacket(ctx, ectx, packet, ackBytes, proofAcked, proofHeight)
	if err != nil {
		return err
	}
	if alreadyAcked {
		return nil
	}

	end, _ := ectx.ChannelEnd(packet.Source.PortID, packet.Source.ChannelID)

	module, err := router.Route(packet.Source.PortID)
	if err != nil {
		return err
	}
	if err := module.OnAcknowledgementPacket(ectx, packet, ackBytes, ""); err != nil {
		return errorsmod.Wrap(types.ErrAppModule, err.Error())
	}

	ectx.DeletePacketCommitment(packet.Source.PortID, packet.Source.ChannelID, packet.Sequence)
	if end.Ordering == types.Ordered {
		ectx.StoreNextSequenceAck(packet.Source.PortID, packet.Source.ChannelID, packet.Sequence+1)
	}

	ectx.EmitIBCEvent(api.NewEvent(api.EventAcknowledgePacket,
		api.Attr(api.AttrPortID, packet.Source.PortID),
		api.Attr(api.AttrChannelID, packet.Source.ChannelID),
		api.Attr(api.AttrPacketSequence, api.AttrUint(packet.Sequence)),
	))
	return nil
}

// verifyTimeoutProof checks the ordering-specific non-delivery proof against
// the destination chain's state at proofHeight (spec §4.4 TimeoutPacket
// step 4): Unordered proves the receipt path is absent; Ordered proves the
// counterparty's next-sequence-recv has not advanced past the packet
// (next-sequence-recv <= packet sequence).
func verifyTimeoutProof(
	ctx context.Context,
	vctx api.ValidationContext,
	end types.ChannelEnd,
	conn connectiontypes.ConnectionEnd,
	clientState exported.ClientState,
	store exported.ClientStore,
	packet types.Packet,
	nextSequenceRecv uint64,
	proof commitment.Proof,
	proofHeight host.Height,
) error {
	goCtx := api.WithHostClock(ctx, vctx)
	if end.Ordering == types.Unordered {
		path, err := commitment.ApplyPrefix(conn.Counterparty.Prefix, host.PacketReceiptPath(packet.Destination.PortID, packet.Destination.ChannelID, packet.Sequence))
		if err != nil {
			return err
		}
		return clientState.VerifyNonMembership(goCtx, store, proofHeight, conn.DelayPeriod, 0, proof, path)
	}

	if nextSequenceRecv > packet.Sequence {
		return errorsmod.Wrap(types.ErrPacketNotSent, "counterparty has already received this sequence")
	}
	path, err := commitment.ApplyPrefix(conn.Counterparty.Prefix, host.NextSequenceRecvPath(packet.Destination.PortID, packet.Destination.ChannelID))
	if err != nil {
		return err
	}
	return clientState.VerifyMembership(goCtx, store, proofHeight, conn.DelayPeriod, 0, proof, path, marshalSeq(nextSequenceRecv))
}

// ValidateTimeoutPacket checks a matching commitment still exists (a missing
// one is reported as alreadyTimedOut before the channel state is read, so a
// replay after an Ordered channel closed is still a no-op), the source
// channel is Open, the timeout height or the timeout timestamp has elapsed
// as observed at proofHeight on the destination chain, and the non-delivery
// proof (spec §4.4 TimeoutPacket).
func ValidateTimeoutPacket(ctx context.Context, vctx api.ValidationContext, packet types.Packet, proofUnreceived commitment.Proof, proofHeight host.Height, nextSequenceRecv uint64) (alreadyTimedOut bool, err error) {
	stored, found := vctx.PacketCommitment(packet.Source.PortID, packet.Source.ChannelID, packet.Sequence)
	if !found {
		return true, nil
	}

	end, conn, clientState, store, err := openChannelAndConnection(vctx, packet.Source.PortID, packet.Source.ChannelID)
	if err != nil {
		return false, err
	}
	if !bytes.Equal(stored, types.CommitPacket(packet)) {
		return false, types.ErrCommitmentMismatch
	}

	heightElapsed := packet.HasTimeoutHeight() && proofHeight.GTE(packet.TimeoutHeight)
	timestampElapsed := false
	if !packet.TimeoutTimestamp.IsZero() {
		if cons, found := store.ConsensusState(proofHeight); found && cons.Timestamp() >= packet.TimeoutTimestamp {
			timestampElapsed = true
		}
	}
	if !heightElapsed && !timestampElapsed {
		return false, errorsmod.Wrap(types.ErrLowPacketHeight, "neither the timeout height nor the timeout timestamp has elapsed at the proven destination height")
	}

	return false, verifyTimeoutProof(ctx, vctx, end, conn, clientState, store, packet, nextSequenceRecv, proofUnreceived, proofHeight)
}

// ExecuteTimeoutPacket repeats validation and, unless the packet was already
// timed out, deletes the packet commitment, closes an Ordered channel
// (spec §4.4 TimeoutPacket step 5: "ordered channels close on timeout"), and
// emits TimeoutPacket.
func ExecuteTimeoutPacket(ctx context.Context, ectx api.ExecutionContext, packet types.Packet, proofUnreceived commitment.Proof, proofHeight host.Height, nextSequenceRecv uint64) error {
	alreadyTimedOut, err := ValidateTimeoutPacket(ctx, ectx, packet, proofUnreceived, proofHeight, nextSequenceRecv)
	if err != nil {
		return err
	}
	if alreadyTimedOut {
		return nil
	}

	end, _ := ectx.ChannelEnd(packet.Source.PortID, packet.Source.ChannelID)
	ectx.DeletePacketCommitment(packet.Source.PortID, packet.Source.ChannelID, packet.Sequence)
	if end.Ordering == types.Ordered {
		end.State = types.Closed
		ectx.StoreChannel(packet.Source.PortID, packet.Source.ChannelID, end)
	}

	ectx.EmitIBCEvent(api.NewEvent(api.EventTimeoutPacket,
		api.Attr(api.AttrPortID, packet.Source.PortID),
		api.Attr(api.AttrChannelID, packet.Source.ChannelID),
		api.Attr(api.AttrPacketSequence, api.AttrUint(packet.Sequence)),
	))
	return nil
}

// ValidateTimeoutOnClose is TimeoutPacket's counterpart for a counterparty
// that closed its channel before the timeout elapsed (spec §4.4
// TimeoutOnClose): it substitutes proofClosed (the counterparty ChannelEnd
// is Closed) for the elapsed-timeout check.
func ValidateTimeoutOnClose(
	ctx context.Context,
	vctx api.ValidationContext,
	packet types.Packet,
	proofUnreceived, proofClosed commitment.Proof,
	proofHeight host.Height,
	nextSequenceRecv uint64,
) (alreadyTimedOut bool, err error) {
	stored, found := vctx.PacketCommitment(packet.Source.PortID, packet.Source.ChannelID, packet.Sequence)
	if !found {
		return true, nil
	}

	end, conn, clientState, store, err := openChannelAndConnection(vctx, packet.Source.PortID, packet.Source.ChannelID)
	if err != nil {
		return false, err
	}
	if !bytes.Equal(stored, types.CommitPacket(packet)) {
		return false, types.ErrCommitmentMismatch
	}

	goCtx := api.WithHostClock(ctx, vctx)
	expectedClosed := types.ChannelEnd{
		State:          types.Closed,
		Ordering:       end.Ordering,
		Remote:         types.Counterparty{PortID: packet.Source.PortID, ChannelID: packet.Source.ChannelID},
		ConnectionHops: []string{conn.Counterparty.ConnectionID},
		Version:        end.Version,
	}
	closedPath, err := commitment.ApplyPrefix(conn.Counterparty.Prefix, host.ChannelEndPath(packet.Destination.PortID, packet.Destination.ChannelID))
	if err != nil {
		return false, err
	}
	if err := clientState.VerifyMembership(goCtx, store, proofHeight, conn.DelayPeriod, 0, proofClosed, closedPath, expectedClosed.Marshal()); err != nil {
		return false, errorsmod.Wrapf(types.ErrInvalidChannelState, "proofClosed: %s", err)
	}

	return false, verifyTimeoutProof(ctx, vctx, end, conn, clientState, store, packet, nextSequenceRecv, proofUnreceived, proofHeight)
}

// ExecuteTimeoutOnClose mirrors ExecuteTimeoutPacket.
func ExecuteTimeoutOnClose(
	ctx context.Context,
	ectx api.ExecutionContext,
	packet types.Packet,
	proofUnreceived, proofClosed commitment.Proof,
	proofHeight host.Height,
	nextSequenceRecv uint64,
) error {
	alreadyTimedOut, err := ValidateTimeoutOnClose(ctx, ectx, packet, proofUnreceived, proofClosed, proofHeight, nextSequenceRecv)
	if err != nil {
		return err
	}
	if alreadyTimedOut {
		return nil
	}

	end, _ := ectx.ChannelEnd(packet.Source.PortID, packet.Source.ChannelID)
	ectx.DeletePacketCommitment(packet.Source.PortID, packet.Source.ChannelID, packet.Sequence)
	if end.Ordering == types.Ordered {
		end.State = types.Closed
		ectx.StoreChannel(packet.Source.PortID, packet.Source.ChannelID, end)
	}

	ectx.EmitIBCEvent(api.NewEvent(api.EventTimeoutPacket,
		api.Attr(api.AttrPortID, packet.Source.PortID),
		api.Attr(api.AttrChannelID, packet.Source.ChannelID),
		api.Attr(api.AttrPacketSequence, api.AttrUint(packet.Sequence)),
	))
	return nil
}
