package api

import (
	"context"

	clienttypes "github.com/tokenize-x/ibc-core/core/02client/types"
	commitment "github.com/tokenize-x/ibc-core/core/23commitment"
	host "github.com/tokenize-x/ibc-core/core/24host"
	channeltypes "github.com/tokenize-x/ibc-core/core/04channel/types"
	connectiontypes "github.com/tokenize-x/ibc-core/core/03connection/types"
	tmclient "github.com/tokenize-x/ibc-core/core/07tendermint/types"
	"github.com/tokenize-x/ibc-core/core/exported"
)

// ValidationContext is the read-only slice of host capabilities the core
// consumes (spec §6.1): every getter a pure function of committed store
// state, no network I/O, no mutation.
type ValidationContext interface {
	// ClientState / consensus
	ClientState(clientID string) (clienttypes.AnyClientState, bool)
	ClientStore(clientID string) exported.ClientStore
	ClientCounter() uint64
	ValidateSelfClient(clientState exported.ClientState) error

	// Connection
	ConnectionEnd(connectionID string) (connectiontypes.ConnectionEnd, bool)
	ConnectionCounter() uint64

	// Channel
	ChannelEnd(portID, channelID string) (channeltypes.ChannelEnd, bool)
	ChannelCounter() uint64

	// Per-channel sequence counters
	NextSequenceSend(portID, channelID string) (uint64, bool)
	NextSequenceRecv(portID, channelID string) (uint64, bool)
	NextSequenceAck(portID, channelID string) (uint64, bool)

	// Packet state
	PacketCommitment(portID, channelID string, sequence uint64) ([]byte, bool)
	PacketReceipt(portID, channelID string, sequence uint64) bool
	PacketAcknowledgement(portID, channelID string, sequence uint64) ([]byte, bool)

	// Host
	HostHeight() host.Height
	HostTimestamp() host.Timestamp
	HostConsensusState(height host.Height) (exported.ConsensusState, bool)
	CommitmentPrefix() commitment.Prefix
	MaxExpectedTimePerBlock() uint64 // nanoseconds
	ValidateMessageSigner(signer string) error
}

// ExecutionContext extends ValidationContext with the mutating operations
// and event/log emission (spec §6.1): only invoked after the matching
// ValidationContext checks have already succeeded (spec §4.6 dispatch).
type ExecutionContext interface {
	ValidationContext

	StoreClientState(clientID string, state clienttypes.AnyClientState)
	IncreaseClientCounter() uint64

	StoreConnection(connectionID string, end connectiontypes.ConnectionEnd)
	IncreaseConnectionCounter() uint64

	StoreChannel(portID, channelID string, end channeltypes.ChannelEnd)
	IncreaseChannelCounter() uint64

	StoreNextSequenceSend(portID, channelID string, seq uint64)
	StoreNextSequenceRecv(portID, channelID string, seq uint64)
	StoreNextSequenceAck(portID, channelID string, seq uint64)

	StorePacketCommitment(portID, channelID string, sequence uint64, commitment []byte)
	DeletePacketCommitment(portID, channelID string, sequence uint64)
	StorePacketReceipt(portID, channelID string, sequence uint64)
	StorePacketAcknowledgement(portID, channelID string, sequence uint64, ack []byte)
	DeletePacketAcknowledgement(portID, channelID string, sequence uint64)

	EmitIBCEvent(event IbcEvent)
	LogMessage(msg string)
}

// hostClock lets handler code thread the host's current
// time/height into a context.Context for the 07-tendermint client's
// VerifyMembership/VerifyNonMembership to enforce the connection delay
// period (spec §4.2), without the exported/07tendermint packages importing
// this one.
type hostClock struct {
	ctx ValidationContext
}

func (h hostClock) CurrentTime() host.Timestamp { return h.ctx.HostTimestamp() }
func (h hostClock) CurrentHeight() host.Height   { return h.ctx.HostHeight() }

// WithHostClock returns a context.Context carrying the host's current
// time/height, consumable by core/07tendermint/types.WithDelayClock's
// context key.
func WithHostClock(goCtx context.Context, vctx ValidationContext) context.Context {
	return tmclient.WithDelayClock(goCtx, hostClock{ctx: vctx})
}
