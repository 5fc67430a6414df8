package types

import (
	"context"

	"github.com/tokenize-x/ibc-core/core/exported"
	host "github.com/tokenize-x/ibc-core/core/24host"
)

// sentinelFrozenHeight is "any sentinel >= (0, 1)" per spec §4.1
// update_state_on_misbehaviour.
var sentinelFrozenHeight = host.NewHeight(0, 1)

// UpdateState implements exported.ClientState (spec §4.1 update_state).
// Header messages that replay an already-stored, identical consensus state
// are a no-op success (spec §4.1 Failure model); Misbehaviour messages never
// reach here because the dispatcher routes them to UpdateStateOnMisbehaviour
// instead once CheckForMisbehaviour reports true.
func (cs *ClientState) UpdateState(_ context.Context, store exported.ClientStore, now host.Timestamp, msg exported.ClientMessage) []host.Height {
	h, ok := msg.(*Header)
	if !ok {
		return nil
	}

	newConsState := NewConsensusStateFromHeader(h)
	if existing, found := store.ConsensusState(h.Height()); found {
		if ex, ok := existing.(ConsensusState); ok && ex.TimestampField == newConsState.TimestampField &&
			bytesEqual(ex.RootField.Hash, newConsState.RootField.Hash) &&
			bytesEqual(ex.NextValidatorsHash, newConsState.NextValidatorsHash) {
			return nil
		}
	}
	store.SetConsensusState(h.Height(), newConsState)
	store.SetUpdateMeta(h.Height(), now, h.Height())

	cs.LatestHeightField = host.MaxHeight(cs.LatestHeightField, h.Height())
	store.SetClientState(cs)

	cs.pruneExpiredConsensusStates(store, now)

	return []host.Height{h.Height()}
}

// pruneExpiredConsensusStates drops every stored consensus state whose
// timestamp is older than now - trusting_period (spec §4.1 update_state).
func (cs *ClientState) pruneExpiredConsensusStates(store exported.ClientStore, now host.Timestamp) {
	cutoff := int64(now) - cs.TrustingPeriod.Nanoseconds()
	if cutoff <= 0 {
		return
	}
	for _, height := range store.ConsensusStateHeights() {
		state, found := store.ConsensusState(height)
		if !found {
			continue
		}
		if int64(state.Timestamp()) < cutoff {
			store.DeleteConsensusState(height)
		}
	}
}

// UpdateStateOnMisbehaviour implements exported.ClientState (spec §4.1
// update_state_on_misbehaviour): freeze the client, never touch consensus
// states.
func (cs *ClientState) UpdateStateOnMisbehaviour(_ context.Context, store exported.ClientStore, _ exported.ClientMessage) {
	cs.FrozenHeight = sentinelFrozenHeight
	store.SetClientState(cs)
}
