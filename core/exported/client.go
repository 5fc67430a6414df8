// Package exported declares the language-agnostic capability set a light
// client must expose (spec §C3, §9 "Polymorphism across client variants"):
// Common, Validation and Execution collapsed into a single ClientState
// interface plus the narrow per-client store it operates against.
package exported

import (
	"context"

	commitment "github.com/tokenize-x/ibc-core/core/23commitment"
	host "github.com/tokenize-x/ibc-core/core/24host"
)

// Status is the light client state machine's current state (spec §4.1).
type Status int

const (
	// Active means the client can be updated and used for proof verification.
	Active Status = iota
	// Expired means the trusting period has elapsed with no update.
	Expired
	// Frozen means misbehaviour was proved; terminal until governance recovery.
	Frozen
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case Active:
		return "Active"
	case Expired:
		return "Expired"
	case Frozen:
		return "Frozen"
	default:
		return "Unknown"
	}
}

// ClientMessage is the marker interface for Header and Misbehaviour, the two
// variants accepted by VerifyClientMessage (spec §4.1).
type ClientMessage interface {
	ClientType() string
}

// ConsensusState is the snapshot `(root, timestamp, ...)` sufficient to
// verify Merkle proofs rooted at one block of a remote chain (GLOSSARY).
type ConsensusState interface {
	ClientType() string
	Timestamp() host.Timestamp
	Root() commitment.Root
}

// ClientStore is the narrow, per-client slice of the host Store that a
// ClientState implementation is allowed to touch: the client's own state,
// its consensus state history, and client-update metadata used by the
// connection delay-period check (spec §3 "Client update metadata", §6.1).
type ClientStore interface {
	ClientState() (ClientState, bool)
	SetClientState(ClientState)

	ConsensusState(height host.Height) (ConsensusState, bool)
	SetConsensusState(height host.Height, state ConsensusState)
	DeleteConsensusState(height host.Height)

	// ConsensusStateHeights returns every stored consensus-state height in
	// ascending order (deterministic, spec §5 ordering guarantees).
	ConsensusStateHeights() []host.Height

	SetUpdateMeta(height host.Height, processedTime host.Timestamp, processedHeight host.Height)
	UpdateMeta(height host.Height) (processedTime host.Timestamp, processedHeight host.Height, found bool)
}

// ClientState is the capability set of spec §9: every concrete light client
// variant (Tendermint; Mock in the testing harness) implements this
// interface and is wrapped behind a closed tagged sum by core/02client/types.
type ClientState interface {
	ClientType() string
	LatestHeight() host.Height

	// Status reports Active/Expired/Frozen for the client (spec §4.1 status).
	Status(ctx context.Context, store ClientStore, now host.Timestamp) Status

	// VerifyClientMessage validates a Header or Misbehaviour message against
	// the client's trusted state (spec §4.1 verify_client_message). It does
	// not mutate the store.
	VerifyClientMessage(ctx context.Context, store ClientStore, now host.Timestamp, msg ClientMessage) error

	// CheckForMisbehaviour reports whether applying msg would prove
	// misbehaviour (spec §4.1 check_for_misbehaviour). Called only after
	// VerifyClientMessage has already succeeded.
	CheckForMisbehaviour(ctx context.Context, store ClientStore, msg ClientMessage) bool

	// UpdateState writes the new ConsensusState(s) derived from msg and
	// returns the height(s) written (spec §4.1 update_state).
	UpdateState(ctx context.Context, store ClientStore, now host.Timestamp, msg ClientMessage) []host.Height

	// UpdateStateOnMisbehaviour freezes the client (spec §4.1
	// update_state_on_misbehaviour); it never mutates consensus states.
	UpdateStateOnMisbehaviour(ctx context.Context, store ClientStore, msg ClientMessage)

	// VerifyUpgradeAndUpdateState checks the upgrade proofs against root and,
	// on success, installs the upgraded client/consensus state (spec §4.1
	// verify_upgrade_client + update_state_on_upgrade).
	VerifyUpgradeAndUpdateState(
		ctx context.Context,
		store ClientStore,
		newClient ClientState,
		newConsState ConsensusState,
		proofUpgradeClient, proofUpgradeConsState commitment.Proof,
		root commitment.Root,
	) error

	// VerifyMembership checks a Merkle membership proof of value at path,
	// rooted at the consensus state stored at height, honoring the
	// connection delay period (spec §4.2 Delay period, §4.4 step 3).
	VerifyMembership(
		ctx context.Context,
		store ClientStore,
		height host.Height,
		delayTimePeriod, delayBlockPeriod uint64,
		proof commitment.Proof,
		path commitment.Path,
		value []byte,
	) error

	// VerifyNonMembership is the non-existence counterpart of VerifyMembership
	// (spec §4.4 TimeoutPacket step 4).
	VerifyNonMembership(
		ctx context.Context,
		store ClientStore,
		height host.Height,
		delayTimePeriod, delayBlockPeriod uint64,
		proof commitment.Proof,
		path commitment.Path,
	) error
}
