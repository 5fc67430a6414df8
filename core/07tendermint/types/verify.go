package types

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	cmtmath "github.com/cometbft/cometbft/libs/math"

	"github.com/tokenize-x/ibc-core/core/exported"
	host "github.com/tokenize-x/ibc-core/core/24host"
)

// VerifyClientMessage implements exported.ClientState (spec §4.1
// verify_client_message) for both Header and Misbehaviour messages.
func (cs *ClientState) VerifyClientMessage(ctx context.Context, store exported.ClientStore, now host.Timestamp, msg exported.ClientMessage) error {
	switch m := msg.(type) {
	case *Header:
		return cs.verifyHeader(ctx, store, now, m)
	case *Misbehaviour:
		return cs.verifyMisbehaviour(ctx, store, now, m)
	default:
		return errorsmod.Wrapf(ErrInvalidHeader, "unsupported client message type %T", msg)
	}
}

// verifyHeader is the per-message algorithm of spec §4.1 steps 1-6.
func (cs *ClientState) verifyHeader(_ context.Context, store exported.ClientStore, now host.Timestamp, h *Header) error {
	if err := h.ValidateBasic(); err != nil {
		return err
	}
	if cs.IsFrozen() {
		return errorsmod.Wrap(ErrClientFrozen, "client is frozen, cannot verify header")
	}

	trusted, found := store.ConsensusState(h.TrustedHeight)
	if !found {
		return errorsmod.Wrapf(ErrConsensusStateNotFound, "no consensus state at trusted height %s", h.TrustedHeight)
	}
	trustedCS, ok := trusted.(ConsensusState)
	if !ok {
		return errorsmod.Wrapf(ErrInvalidConsensusState, "consensus state at %s is not a Tendermint consensus state", h.TrustedHeight)
	}

	if uint64(now) > uint64(trustedCS.TimestampField)+uint64(cs.TrustingPeriod.Nanoseconds()) {
		return errorsmod.Wrapf(ErrHeaderNotWithinTrustPeriod, "now %d exceeds trusted time %d + trusting period %s", now, trustedCS.TimestampField, cs.TrustingPeriod)
	}

	headerTime := h.Time()
	if headerTime <= trustedCS.TimestampField {
		return errorsmod.Wrapf(ErrHeaderVerificationFailure, "header time %d must be strictly greater than trusted time %d", headerTime, trustedCS.TimestampField)
	}
	if uint64(headerTime) >= uint64(now)+uint64(cs.MaxClockDrift.Nanoseconds()) {
		return errorsmod.Wrapf(ErrHeaderVerificationFailure, "header time %d violates max clock drift against now %d", headerTime, now)
	}

	return cs.verifyHeaderSignatures(trustedCS, h)
}

// verifyHeaderSignatures dispatches to the adjacent or skipping verification
// path (spec §4.1 step 6).
func (cs *ClientState) verifyHeaderSignatures(trustedCS ConsensusState, h *Header) error {
	if h.IsAdjacent() {
		if !bytesEqual(h.TrustedValidatorSet.Hash(), trustedCS.NextValidatorsHash) {
			return errorsmod.Wrap(ErrHeaderVerificationFailure, "trusted next validator set hash does not match stored next_validators_hash")
		}
		if err := h.ValidatorSet.VerifyCommitLight(
			h.SignedHeader.Header.ChainID,
			h.SignedHeader.Commit.BlockID,
			h.SignedHeader.Header.Height,
			h.SignedHeader.Commit,
		); err != nil {
			return errorsmod.Wrapf(ErrHeaderVerificationFailure, "adjacent header signature verification failed: %s", err)
		}
		return nil
	}

	// Skipping path: signatures from the intersection of the trusted next
	// validator set and the new validator set must carry >= trust_level of
	// the trusted set's voting power, and the committed set itself must
	// carry >= 2/3 of its own power.
	if err := h.TrustedValidatorSet.VerifyCommitLightTrusting(
		h.SignedHeader.Header.ChainID,
		h.SignedHeader.Commit,
		cmtmath.Fraction{Numerator: int64(cs.TrustLevel.Numerator), Denominator: int64(cs.TrustLevel.Denominator)},
	); err != nil {
		return errorsmod.Wrapf(ErrHeaderVerificationFailure, "skipping header failed trust-level verification: %s", err)
	}
	if err := h.ValidatorSet.VerifyCommitLight(
		h.SignedHeader.Header.ChainID,
		h.SignedHeader.Commit.BlockID,
		h.SignedHeader.Header.Height,
		h.SignedHeader.Commit,
	); err != nil {
		return errorsmod.Wrapf(ErrHeaderVerificationFailure, "skipping header failed full commit verification: %s", err)
	}
	return nil
}

// verifyMisbehaviour verifies both headers of a Misbehaviour message
// individually against their own declared trusted state (spec §4.1
// verify_client_message for Misbehaviour).
func (cs *ClientState) verifyMisbehaviour(ctx context.Context, store exported.ClientStore, now host.Timestamp, m *Misbehaviour) error {
	if err := m.ValidateBasic(); err != nil {
		return err
	}
	if cs.IsFrozen() {
		return errorsmod.Wrap(ErrClientFrozen, "client is frozen, cannot verify misbehaviour")
	}
	if err := cs.verifyHeader(ctx, store, now, m.Header1); err != nil {
		return errorsmod.Wrap(ErrInvalidMisbehaviour, err.Error())
	}
	if err := cs.verifyHeader(ctx, store, now, m.Header2); err != nil {
		return errorsmod.Wrap(ErrInvalidMisbehaviour, err.Error())
	}
	return nil
}

// CheckForMisbehaviour implements exported.ClientState (spec §4.1
// check_for_misbehaviour), called only once VerifyClientMessage has already
// succeeded for msg.
func (cs *ClientState) CheckForMisbehaviour(_ context.Context, store exported.ClientStore, msg exported.ClientMessage) bool {
	switch m := msg.(type) {
	case *Header:
		return cs.headerConflictsWithStore(store, m)
	case *Misbehaviour:
		// ValidateBasic already required the two headers to commit to
		// different block hashes at the same height; VerifyClientMessage
		// already checked both verify independently, so misbehaviour is
		// proved once CheckForMisbehaviour is reached for this variant.
		return true
	default:
		return false
	}
}

// headerConflictsWithStore reports whether a just-verified header disagrees
// with an existing consensus state at its height, or breaks monotonicity
// against its stored neighbours (spec §4.1 check_for_misbehaviour, header path).
func (cs *ClientState) headerConflictsWithStore(store exported.ClientStore, h *Header) bool {
	existing, found := store.ConsensusState(h.Height())
	if found {
		ex, ok := existing.(ConsensusState)
		if !ok {
			return true
		}
		derived := NewConsensusStateFromHeader(h)
		if !bytesEqual(ex.RootField.Hash, derived.RootField.Hash) || ex.TimestampField != derived.TimestampField ||
			!bytesEqual(ex.NextValidatorsHash, derived.NextValidatorsHash) {
			return true
		}
	}

	heights := store.ConsensusStateHeights()
	headerTime := h.Time()
	for _, height := range heights {
		neighbour, ok := store.ConsensusState(height)
		if !ok {
			continue
		}
		if height.LT(h.Height()) && neighbour.Timestamp() >= headerTime {
			return true
		}
		if height.GT(h.Height()) && neighbour.Timestamp() <= headerTime {
			return true
		}
	}
	return false
}
