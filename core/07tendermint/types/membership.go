package types

import (
	"context"

	errorsmod "cosmossdk.io/errors"

	commitment "github.com/tokenize-x/ibc-core/core/23commitment"
	"github.com/tokenize-x/ibc-core/core/exported"
	host "github.com/tokenize-x/ibc-core/core/24host"
)

// VerifyMembership implements exported.ClientState (spec §4.2 Delay period,
// §4.4 RecvPacket step 3).
func (cs *ClientState) VerifyMembership(
	ctx context.Context,
	store exported.ClientStore,
	height host.Height,
	delayTimePeriod, delayBlockPeriod uint64,
	proof commitment.Proof,
	path commitment.Path,
	value []byte,
) error {
	root, err := cs.verifiableRoot(ctx, store, height, delayTimePeriod, delayBlockPeriod)
	if err != nil {
		return err
	}
	return proof.VerifyMembership(cs.ProofSpecs, root, path, value)
}

// VerifyNonMembership implements exported.ClientState (spec §4.4
// TimeoutPacket step 4).
func (cs *ClientState) VerifyNonMembership(
	ctx context.Context,
	store exported.ClientStore,
	height host.Height,
	delayTimePeriod, delayBlockPeriod uint64,
	proof commitment.Proof,
	path commitment.Path,
) error {
	root, err := cs.verifiableRoot(ctx, store, height, delayTimePeriod, delayBlockPeriod)
	if err != nil {
		return err
	}
	return proof.VerifyNonMembership(cs.ProofSpecs, root, path)
}

// verifiableRoot resolves and authorizes the consensus root a proof may be
// checked against at height: the client must be live, a consensus state
// must exist at height, and — when a delay is configured — the update that
// produced that consensus state must be old enough by both wall-clock time
// and block count (spec §4.2 Delay period).
func (cs *ClientState) verifiableRoot(
	ctx context.Context,
	store exported.ClientStore,
	height host.Height,
	delayTimePeriod, delayBlockPeriod uint64,
) (commitment.Root, error) {
	if cs.IsFrozen() {
		return commitment.Root{}, errorsmod.Wrap(ErrClientFrozen, "cannot verify proof against a frozen client")
	}
	if height.GT(cs.LatestHeightField) {
		return commitment.Root{}, errorsmod.Wrapf(ErrInvalidProofHeight, "proof height %s is greater than latest height %s", height, cs.LatestHeightField)
	}

	consState, found := store.ConsensusState(height)
	if !found {
		return commitment.Root{}, errorsmod.Wrapf(ErrConsensusStateNotFound, "no consensus state at height %s", height)
	}
	tmConsState, ok := consState.(ConsensusState)
	if !ok {
		return commitment.Root{}, errorsmod.Wrapf(ErrInvalidConsensusState, "consensus state at %s is not a Tendermint consensus state", height)
	}

	if delayTimePeriod > 0 || delayBlockPeriod > 0 {
		processedTime, processedHeight, found := store.UpdateMeta(height)
		if !found {
			return commitment.Root{}, errorsmod.Wrapf(ErrConsensusStateNotFound, "no update metadata at height %s", height)
		}
		if err := checkDelayPeriodPassed(ctx, processedTime, processedHeight, delayTimePeriod, delayBlockPeriod); err != nil {
			return commitment.Root{}, err
		}
	}

	return tmConsState.RootField, nil
}

// delayPeriodClock is satisfied by the host context the caller threads
// through ctx (kept minimal here to avoid a core/07tendermint/types <->
// core/api import cycle: the keepers attach the host's height/timestamp as
// a context value through api.WithHostClock).
type delayPeriodClock interface {
	CurrentTime() host.Timestamp
	CurrentHeight() host.Height
}

type delayClockKey struct{}

// WithDelayClock attaches the host's current time/height to ctx so
// VerifyMembership/VerifyNonMembership can enforce the connection delay
// period without importing core/api.
func WithDelayClock(ctx context.Context, clock delayPeriodClock) context.Context {
	return context.WithValue(ctx, delayClockKey{}, clock)
}

func checkDelayPeriodPassed(ctx context.Context, processedTime host.Timestamp, processedHeight host.Height, delayTimePeriod, delayBlockPeriod uint64) error {
	clock, ok := ctx.Value(delayClockKey{}).(delayPeriodClock)
	if !ok {
		return errorsmod.Wrap(ErrHeaderVerificationFailure, "no host clock available to enforce connection delay period")
	}

	now := clock.CurrentTime()
	if uint64(now) < uint64(processedTime)+delayTimePeriod {
		return errorsmod.Wrapf(ErrHeaderVerificationFailure, "connection delay time period of %dns not yet elapsed", delayTimePeriod)
	}

	currentHeight := clock.CurrentHeight()
	if currentHeight.RevisionHeight < processedHeight.RevisionHeight+delayBlockPeriod {
		return errorsmod.Wrapf(ErrHeaderVerificationFailure, "connection delay block period of %d blocks not yet elapsed", delayBlockPeriod)
	}
	return nil
}
