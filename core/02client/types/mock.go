package types

import (
	"context"

	commitment "github.com/tokenize-x/ibc-core/core/23commitment"
	"github.com/tokenize-x/ibc-core/core/exported"
	host "github.com/tokenize-x/ibc-core/core/24host"
)

// MockClientType identifies the testing-only mock client variant (spec §9
// "Solo-machine client's chain_id is left default" / SPEC_FULL supplemented
// features: a closed sum with a Tendermint arm plus a Mock arm used only by
// the testing harness).
const MockClientType = "06-mock"

// MockHeader is the header accepted by MockClientState: just a height and a
// timestamp, enough to drive scenarios S1-S3 without real Tendermint
// signatures.
type MockHeader struct {
	HeightField host.Height
	TimeField   host.Timestamp
}

var _ exported.ClientMessage = MockHeader{}

// ClientType implements exported.ClientMessage.
func (MockHeader) ClientType() string { return MockClientType }

// MockConsensusState is the trivial consensus state produced by MockHeader.
type MockConsensusState struct {
	TimeField host.Timestamp
}

var _ exported.ConsensusState = MockConsensusState{}

func (MockConsensusState) ClientType() string          { return MockClientType }
func (m MockConsensusState) Timestamp() host.Timestamp { return m.TimeField }
func (MockConsensusState) Root() commitment.Root        { return commitment.Root{Hash: []byte("mock")} }

// MockClientState is a minimal exported.ClientState used only by the
// testing harness to exercise core/02client and core/dispatch without
// pulling in real Tendermint signatures (spec §1: "Non-Tendermint light
// clients ... are optional variants reached through the same ClientState
// interface; only Tendermint is required").
type MockClientState struct {
	LatestHeightField host.Height
	Frozen            bool
}

var _ exported.ClientState = (*MockClientState)(nil)

func (MockClientState) ClientType() string            { return MockClientType }
func (m *MockClientState) LatestHeight() host.Height { return m.LatestHeightField }

func (m *MockClientState) Status(_ context.Context, _ exported.ClientStore, _ host.Timestamp) exported.Status {
	if m.Frozen {
		return exported.Frozen
	}
	return exported.Active
}

func (m *MockClientState) VerifyClientMessage(_ context.Context, _ exported.ClientStore, _ host.Timestamp, msg exported.ClientMessage) error {
	if _, ok := msg.(MockHeader); !ok {
		return ErrUnknownClientMessageType
	}
	return nil
}

func (m *MockClientState) CheckForMisbehaviour(_ context.Context, _ exported.ClientStore, _ exported.ClientMessage) bool {
	return false
}

func (m *MockClientState) UpdateState(_ context.Context, store exported.ClientStore, now host.Timestamp, msg exported.ClientMessage) []host.Height {
	h, ok := msg.(MockHeader)
	if !ok {
		return nil
	}
	store.SetConsensusState(h.HeightField, MockConsensusState{TimeField: h.TimeField})
	store.SetUpdateMeta(h.HeightField, now, h.HeightField)
	m.LatestHeightField = host.MaxHeight(m.LatestHeightField, h.HeightField)
	store.SetClientState(m)
	return []host.Height{h.HeightField}
}

func (m *MockClientState) UpdateStateOnMisbehaviour(_ context.Context, store exported.ClientStore, _ exported.ClientMessage) {
	m.Frozen = true
	store.SetClientState(m)
}

func (m *MockClientState) VerifyUpgradeAndUpdateState(
	_ context.Context,
	store exported.ClientStore,
	newClient exported.ClientState,
	newConsState exported.ConsensusState,
	_, _ commitment.Proof,
	_ commitment.Root,
) error {
	nm, ok := newClient.(*MockClientState)
	if !ok {
		return ErrUnknownClientMessageType
	}
	ncs, ok := newConsState.(MockConsensusState)
	if !ok {
		return ErrUnknownClientMessageType
	}
	*m = *nm
	store.SetClientState(m)
	store.SetConsensusState(m.LatestHeightField, ncs)
	return nil
}

func (m *MockClientState) VerifyMembership(
	_ context.Context,
	_ exported.ClientStore,
	_ host.Height,
	_, _ uint64,
	_ commitment.Proof,
	_ commitment.Path,
	_ []byte,
) error {
	return nil
}

func (m *MockClientState) VerifyNonMembership(
	_ context.Context,
	_ exported.ClientStore,
	_ host.Height,
	_, _ uint64,
	_ commitment.Proof,
	_ commitment.Path,
) error {
	return nil
}
