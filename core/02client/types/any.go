package types

import (
	"context"
	"fmt"

	errorsmod "cosmossdk.io/errors"

	commitment "github.com/tokenize-x/ibc-core/core/23commitment"
	"github.com/tokenize-x/ibc-core/core/exported"
	host "github.com/tokenize-x/ibc-core/core/24host"
	tendermint "github.com/tokenize-x/ibc-core/core/07tendermint/types"
)

// AnyClientState is the closed tagged sum from spec §9
// "Polymorphism across client variants": the set of client variants is
// known at compile time per deployment, so this avoids a dynamic-dispatch
// hierarchy in favor of a small switch over named fields.
type AnyClientState struct {
	Tendermint *tendermint.ClientState
	Mock       *MockClientState
}

var _ exported.ClientState = AnyClientState{}

// WrapClientState wraps a concrete exported.ClientState into the tagged sum.
func WrapClientState(cs exported.ClientState) (AnyClientState, error) {
	switch v := cs.(type) {
	case *tendermint.ClientState:
		return AnyClientState{Tendermint: v}, nil
	case *MockClientState:
		return AnyClientState{Mock: v}, nil
	default:
		return AnyClientState{}, errorsmod.Wrapf(ErrUnknownClientMessageType, "unsupported client state type %T", cs)
	}
}

// Unwrap returns the concrete exported.ClientState carried by the sum.
func (a AnyClientState) Unwrap() (exported.ClientState, error) {
	switch {
	case a.Tendermint != nil:
		return a.Tendermint, nil
	case a.Mock != nil:
		return a.Mock, nil
	default:
		return nil, errorsmod.Wrap(ErrUnknownClientMessageType, "tagged client state sum carries no variant")
	}
}

func (a AnyClientState) mustUnwrap() exported.ClientState {
	cs, err := a.Unwrap()
	if err != nil {
		panic(err)
	}
	return cs
}

func (a AnyClientState) ClientType() string { return a.mustUnwrap().ClientType() }

func (a AnyClientState) LatestHeight() host.Height { return a.mustUnwrap().LatestHeight() }

func (a AnyClientState) Status(ctx context.Context, store exported.ClientStore, now host.Timestamp) exported.Status {
	return a.mustUnwrap().Status(ctx, store, now)
}

func (a AnyClientState) VerifyClientMessage(ctx context.Context, store exported.ClientStore, now host.Timestamp, msg exported.ClientMessage) error {
	return a.mustUnwrap().VerifyClientMessage(ctx, store, now, msg)
}

func (a AnyClientState) CheckForMisbehaviour(ctx context.Context, store exported.ClientStore, msg exported.ClientMessage) bool {
	return a.mustUnwrap().CheckForMisbehaviour(ctx, store, msg)
}

func (a AnyClientState) UpdateState(ctx context.Context, store exported.ClientStore, now host.Timestamp, msg exported.ClientMessage) []host.Height {
	return a.mustUnwrap().UpdateState(ctx, store, now, msg)
}

func (a AnyClientState) UpdateStateOnMisbehaviour(ctx context.Context, store exported.ClientStore, msg exported.ClientMessage) {
	a.mustUnwrap().UpdateStateOnMisbehaviour(ctx, store, msg)
}

func (a AnyClientState) VerifyUpgradeAndUpdateState(
	ctx context.Context,
	store exported.ClientStore,
	newClient exported.ClientState,
	newConsState exported.ConsensusState,
	proofUpgradeClient, proofUpgradeConsState commitment.Proof,
	root commitment.Root,
) error {
	return a.mustUnwrap().VerifyUpgradeAndUpdateState(ctx, store, newClient, newConsState, proofUpgradeClient, proofUpgradeConsState, root)
}

func (a AnyClientState) VerifyMembership(
	ctx context.Context,
	store exported.ClientStore,
	height host.Height,
	delayTimePeriod, delayBlockPeriod uint64,
	proof commitment.Proof,
	path commitment.Path,
	value []byte,
) error {
	return a.mustUnwrap().VerifyMembership(ctx, store, height, delayTimePeriod, delayBlockPeriod, proof, path, value)
}

// Marshal is the canonical proof-value encoding for whichever client state
// variant the sum carries (spec §1: the core does not own wire/protobuf
// serialization; this is the form used on both sides of every
// VerifyMembership check against a stored ClientState).
func (a AnyClientState) Marshal() []byte {
	switch {
	case a.Tendermint != nil:
		return tendermint.MarshalClientState(a.Tendermint)
	case a.Mock != nil:
		return []byte(a.Mock.LatestHeightField.String())
	default:
		return nil
	}
}

func (a AnyClientState) VerifyNonMembership(
	ctx context.Context,
	store exported.ClientStore,
	height host.Height,
	delayTimePeriod, delayBlockPeriod uint64,
	proof commitment.Proof,
	path commitment.Path,
) error {
	return a.mustUnwrap().VerifyNonMembership(ctx, store, height, delayTimePeriod, delayBlockPeriod, proof, path)
}

// AnyConsensusState is the matching tagged sum for exported.ConsensusState.
type AnyConsensusState struct {
	Tendermint *tendermint.ConsensusState
	Mock       *MockConsensusState
}

var _ exported.ConsensusState = AnyConsensusState{}

// WrapConsensusState wraps a concrete exported.ConsensusState.
func WrapConsensusState(cs exported.ConsensusState) (AnyConsensusState, error) {
	switch v := cs.(type) {
	case tendermint.ConsensusState:
		return AnyConsensusState{Tendermint: &v}, nil
	case MockConsensusState:
		return AnyConsensusState{Mock: &v}, nil
	default:
		return AnyConsensusState{}, errorsmod.Wrapf(ErrUnknownClientMessageType, "unsupported consensus state type %T", cs)
	}
}

// Unwrap returns the concrete exported.ConsensusState carried by the sum.
func (a AnyConsensusState) Unwrap() (exported.ConsensusState, error) {
	switch {
	case a.Tendermint != nil:
		return *a.Tendermint, nil
	case a.Mock != nil:
		return *a.Mock, nil
	default:
		return nil, errorsmod.Wrap(ErrUnknownClientMessageType, "tagged consensus state sum carries no variant")
	}
}

func (a AnyConsensusState) ClientType() string {
	cs, err := a.Unwrap()
	if err != nil {
		return ""
	}
	return cs.ClientType()
}

func (a AnyConsensusState) Timestamp() host.Timestamp {
	cs, err := a.Unwrap()
	if err != nil {
		return host.NoTimestamp
	}
	return cs.Timestamp()
}

func (a AnyConsensusState) Root() commitment.Root {
	cs, err := a.Unwrap()
	if err != nil {
		return commitment.Root{}
	}
	return cs.Root()
}

// Marshal is the canonical proof-value encoding for whichever consensus
// state variant the sum carries.
func (a AnyConsensusState) Marshal() []byte {
	switch {
	case a.Tendermint != nil:
		return tendermint.MarshalConsensusState(*a.Tendermint)
	case a.Mock != nil:
		return []byte(fmt.Sprintf("%d", a.Mock.TimeField))
	default:
		return nil
	}
}
