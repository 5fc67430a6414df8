package types

import (
	commitment "github.com/tokenize-x/ibc-core/core/23commitment"
	"github.com/tokenize-x/ibc-core/core/exported"
	host "github.com/tokenize-x/ibc-core/core/24host"
)

// ConsensusState is `{timestamp, root, next_validators_hash}` (spec §3).
// It is created by a successful client update at the header's height and is
// never mutated thereafter.
type ConsensusState struct {
	TimestampField     host.Timestamp
	RootField          commitment.Root
	NextValidatorsHash []byte
}

var _ exported.ConsensusState = ConsensusState{}

// ClientType implements exported.ConsensusState.
func (ConsensusState) ClientType() string { return host.TendermintClientType }

// Timestamp implements exported.ConsensusState.
func (cs ConsensusState) Timestamp() host.Timestamp { return cs.TimestampField }

// Root implements exported.ConsensusState.
func (cs ConsensusState) Root() commitment.Root { return cs.RootField }

// NewConsensusStateFromHeader builds the ConsensusState a successful update
// writes (spec §4.1 update_state: "root = app_hash, timestamp = header.time,
// next_validators_hash = header.next_validators_hash").
func NewConsensusStateFromHeader(h *Header) ConsensusState {
	return ConsensusState{
		TimestampField:     h.Time(),
		RootField:          commitmentRootFromAppHash(h.SignedHeader.Header.AppHash),
		NextValidatorsHash: append([]byte(nil), h.SignedHeader.Header.NextValidatorsHash...),
	}
}
