// Package testing is the in-memory host reference implementation used by
// this repository's own test suite (spec §8 scenarios S1-S6): a Store that
// satisfies both api.ExecutionContext and, per client, exported.ClientStore,
// backed by two chained core/23commitment.ProvableLayer Merkle layers that
// GenerateProof can build ics23 proofs from. The scenario tests themselves
// use MockClientState, whose VerifyMembership/VerifyNonMembership accept any
// proof.
package testing

import (
	"fmt"

	"cosmossdk.io/log"
	ics23 "github.com/cosmos/ics23/go"

	clienttypes "github.com/tokenize-x/ibc-core/core/02client/types"
	commitment "github.com/tokenize-x/ibc-core/core/23commitment"
	connectiontypes "github.com/tokenize-x/ibc-core/core/03connection/types"
	channeltypes "github.com/tokenize-x/ibc-core/core/04channel/types"
	host "github.com/tokenize-x/ibc-core/core/24host"
	"github.com/tokenize-x/ibc-core/core/api"
	"github.com/tokenize-x/ibc-core/core/exported"
	deterministicmap "github.com/tokenize-x/ibc-core/pkg/deterministicmap"
)

// DefaultPrefix is the commitment prefix every Store applies, matching the
// "ibc" store key used throughout the host path builders (spec §6.2).
var DefaultPrefix = commitment.NewPrefix([]byte("ibc"))

// Store is the reference in-memory host. It is not a production store: its
// two-layer Merkle tree exists to exercise real ics23 proofs end to end, not
// to model an actual chain's IAVL/multistore layout (core/23commitment's
// ProvableLayer doc comment carries the same caveat).
type Store struct {
	storeLayer *commitment.ProvableLayer
	appLayer   *commitment.ProvableLayer
	prefix     commitment.Prefix

	clientCounter     uint64
	connectionCounter uint64
	channelCounter    uint64

	connections *deterministicmap.Map[string, connectiontypes.ConnectionEnd]
	channels    *deterministicmap.Map[string, channeltypes.ChannelEnd]

	nextSeqSend *deterministicmap.Map[string, uint64]
	nextSeqRecv *deterministicmap.Map[string, uint64]
	nextSeqAck  *deterministicmap.Map[string, uint64]

	packetCommitments     *deterministicmap.Map[string, []byte]
	packetReceipts        *deterministicmap.Map[string, bool]
	packetAcknowledgements *deterministicmap.Map[string, []byte]

	clientStates    *deterministicmap.Map[string, clienttypes.AnyClientState]
	clientStores    *deterministicmap.Map[string, *clientStore]
	hostConsStates  *deterministicmap.Map[string, exported.ConsensusState]

	hostHeight    host.Height
	hostTimestamp host.Timestamp
	maxBlockTime  uint64
	allowedSigner string // empty means permissionless (spec §6.1)

	events []api.IbcEvent
	logs   []string
	logger log.Logger
}

// NewStore builds an empty Store at host height 1.
func NewStore() *Store {
	return &Store{
		storeLayer:  commitment.NewProvableLayer(commitment.SDKSpecs()[0]),
		appLayer:    commitment.NewProvableLayer(commitment.SDKSpecs()[1]),
		prefix:      DefaultPrefix,
		logger:      log.NewNopLogger(),
		connections: deterministicmap.New[string, connectiontypes.ConnectionEnd](),
		channels:    deterministicmap.New[string, channeltypes.ChannelEnd](),
		nextSeqSend: deterministicmap.New[string, uint64](),
		nextSeqRecv: deterministicmap.New[string, uint64](),
		nextSeqAck:  deterministicmap.New[string, uint64](),

		packetCommitments:      deterministicmap.New[string, []byte](),
		packetReceipts:         deterministicmap.New[string, bool](),
		packetAcknowledgements: deterministicmap.New[string, []byte](),

		clientStates:   deterministicmap.New[string, clienttypes.AnyClientState](),
		clientStores:   deterministicmap.New[string, *clientStore](),
		hostConsStates: deterministicmap.New[string, exported.ConsensusState](),

		hostHeight:   host.NewHeight(0, 1),
		maxBlockTime: uint64(10 * 1_000_000_000), // 10s, nanoseconds
	}
}

// SetHostTime advances the simulated clock, used by scenario tests to
// exercise expiry/timeout/delay-period checks deterministically.
func (s *Store) SetHostTime(height host.Height, ts host.Timestamp) {
	s.hostHeight = height
	s.hostTimestamp = ts
}

// SetAllowedSigner restricts ValidateMessageSigner to a single relayer
// address; the zero value keeps the default permissionless policy.
func (s *Store) SetAllowedSigner(signer string) { s.allowedSigner = signer }

// commit writes value at the given store-layer path and folds the new
// store-layer root into the app-hash layer under the commitment prefix.
func (s *Store) commit(path string, value []byte) {
	s.storeLayer.Set(path, value)
	root, err := s.storeLayer.Root()
	if err != nil {
		panic(err) // unreachable: we just wrote an entry
	}
	s.appLayer.Set(string(s.prefix.KeyPrefix), root)
}

// GenerateProof builds a real chained ics23 proof of membership for path,
// plus the Root it verifies against, for use as a test fixture.
func (s *Store) GenerateProof(path string) (commitment.Proof, commitment.Root, error) {
	storeProof, err := s.storeLayer.Prove(path)
	if err != nil {
		return commitment.Proof{}, commitment.Root{}, err
	}
	appProof, err := s.appLayer.Prove(string(s.prefix.KeyPrefix))
	if err != nil {
		return commitment.Proof{}, commitment.Root{}, err
	}
	root, err := s.appLayer.Root()
	if err != nil {
		return commitment.Proof{}, commitment.Root{}, err
	}
	return commitment.Proof{Proofs: []*ics23.CommitmentProof{storeProof, appProof}}, commitment.Root{Hash: root}, nil
}

// --- api.ValidationContext / api.ExecutionContext ---

var _ api.ExecutionContext = (*Store)(nil)

func (s *Store) ClientState(clientID string) (clienttypes.AnyClientState, bool) {
	return s.clientStates.Get(clientID)
}

func (s *Store) ClientStore(clientID string) exported.ClientStore {
	if cs, ok := s.clientStores.Get(clientID); ok {
		return cs
	}
	cs := newClientStore(s, clientID)
	s.clientStores.Set(clientID, cs)
	return cs
}

func (s *Store) ClientCounter() uint64 { return s.clientCounter }

func (s *Store) ValidateSelfClient(exported.ClientState) error { return nil }

func (s *Store) ConnectionEnd(connectionID string) (connectiontypes.ConnectionEnd, bool) {
	return s.connections.Get(connectionID)
}

func (s *Store) ConnectionCounter() uint64 { return s.connectionCounter }

func (s *Store) ChannelEnd(portID, channelID string) (channeltypes.ChannelEnd, bool) {
	return s.channels.Get(channelKey(portID, channelID))
}

func (s *Store) ChannelCounter() uint64 { return s.channelCounter }

func (s *Store) NextSequenceSend(portID, channelID string) (uint64, bool) {
	return s.nextSeqSend.Get(channelKey(portID, channelID))
}

func (s *Store) NextSequenceRecv(portID, channelID string) (uint64, bool) {
	return s.nextSeqRecv.Get(channelKey(portID, channelID))
}

func (s *Store) NextSequenceAck(portID, channelID string) (uint64, bool) {
	return s.nextSeqAck.Get(channelKey(portID, channelID))
}

func (s *Store) PacketCommitment(portID, channelID string, sequence uint64) ([]byte, bool) {
	return s.packetCommitments.Get(packetKey(portID, channelID, sequence))
}

func (s *Store) PacketReceipt(portID, channelID string, sequence uint64) bool {
	found, _ := s.packetReceipts.Get(packetKey(portID, channelID, sequence))
	return found
}

func (s *Store) PacketAcknowledgement(portID, channelID string, sequence uint64) ([]byte, bool) {
	return s.packetAcknowledgements.Get(packetKey(portID, channelID, sequence))
}

func (s *Store) HostHeight() host.Height         { return s.hostHeight }
func (s *Store) HostTimestamp() host.Timestamp   { return s.hostTimestamp }

func (s *Store) HostConsensusState(height host.Height) (exported.ConsensusState, bool) {
	return s.hostConsStates.Get(height.String())
}

// SetHostConsensusState lets a scenario test seed the host's own consensus
// states that HostConsensusState returns to ConnOpenTry, ConnOpenAck and
// ValidateUpgradeClient.
func (s *Store) SetHostConsensusState(height host.Height, cs exported.ConsensusState) {
	s.hostConsStates.Set(height.String(), cs)
}

func (s *Store) CommitmentPrefix() commitment.Prefix { return s.prefix }

func (s *Store) MaxExpectedTimePerBlock() uint64 { return s.maxBlockTime }

func (s *Store) ValidateMessageSigner(signer string) error {
	if s.allowedSigner == "" || s.allowedSigner == signer {
		return nil
	}
	return fmt.Errorf("ibc-dispatch: signer %q is not the allowed relayer %q", signer, s.allowedSigner)
}

func (s *Store) StoreClientState(clientID string, state clienttypes.AnyClientState) {
	s.clientStates.Set(clientID, state)
	s.commit(host.ClientStatePath(clientID), state.Marshal())
}

func (s *Store) IncreaseClientCounter() uint64 {
	s.clientCounter++
	return s.clientCounter - 1
}

func (s *Store) StoreConnection(connectionID string, end connectiontypes.ConnectionEnd) {
	s.connections.Set(connectionID, end)
	s.commit(host.ConnectionPath(connectionID), end.Marshal())
}

func (s *Store) IncreaseConnectionCounter() uint64 {
	s.connectionCounter++
	return s.connectionCounter - 1
}

func (s *Store) StoreChannel(portID, channelID string, end channeltypes.ChannelEnd) {
	s.channels.Set(channelKey(portID, channelID), end)
	s.commit(host.ChannelEndPath(portID, channelID), end.Marshal())
}

func (s *Store) IncreaseChannelCounter() uint64 {
	s.channelCounter++
	return s.channelCounter - 1
}

func (s *Store) StoreNextSequenceSend(portID, channelID string, seq uint64) {
	s.nextSeqSend.Set(channelKey(portID, channelID), seq)
	s.commit(host.NextSequenceSendPath(portID, channelID), marshalSeq(seq))
}

func (s *Store) StoreNextSequenceRecv(portID, channelID string, seq uint64) {
	s.nextSeqRecv.Set(channelKey(portID, channelID), seq)
	s.commit(host.NextSequenceRecvPath(portID, channelID), marshalSeq(seq))
}

func (s *Store) StoreNextSequenceAck(portID, channelID string, seq uint64) {
	s.nextSeqAck.Set(channelKey(portID, channelID), seq)
	s.commit(host.NextSequenceAckPath(portID, channelID), marshalSeq(seq))
}

func (s *Store) StorePacketCommitment(portID, channelID string, sequence uint64, commit []byte) {
	s.packetCommitments.Set(packetKey(portID, channelID, sequence), commit)
	s.commit(host.PacketCommitmentPath(portID, channelID, sequence), commit)
}

func (s *Store) DeletePacketCommitment(portID, channelID string, sequence uint64) {
	s.packetCommitments.Delete(packetKey(portID, channelID, sequence))
}

func (s *Store) StorePacketReceipt(portID, channelID string, sequence uint64) {
	s.packetReceipts.Set(packetKey(portID, channelID, sequence), true)
	s.commit(host.PacketReceiptPath(portID, channelID, sequence), []byte{1})
}

func (s *Store) StorePacketAcknowledgement(portID, channelID string, sequence uint64, ack []byte) {
	s.packetAcknowledgements.Set(packetKey(portID, channelID, sequence), ack)
	s.commit(host.PacketAcknowledgementPath(portID, channelID, sequence), ack)
}

func (s *Store) DeletePacketAcknowledgement(portID, channelID string, sequence uint64) {
	s.packetAcknowledgements.Delete(packetKey(portID, channelID, sequence))
}

func (s *Store) EmitIBCEvent(event api.IbcEvent) { s.events = append(s.events, event) }
func (s *Store) LogMessage(msg string) {
	s.logs = append(s.logs, msg)
	s.logger.Debug(msg)
}

// SetLogger swaps the no-op default for a logger that writes somewhere
// observable, mirroring how the teacher's app wires a logger into its
// keepers at construction time rather than through a package-level global.
func (s *Store) SetLogger(logger log.Logger) { s.logger = logger }

// Events returns every IbcEvent emitted so far, in emission order.
func (s *Store) Events() []api.IbcEvent { return s.events }

func channelKey(portID, channelID string) string { return portID + "/" + channelID }

func packetKey(portID, channelID string, sequence uint64) string {
	return fmt.Sprintf("%s/%s/%d", portID, channelID, sequence)
}

func marshalSeq(seq uint64) []byte { return []byte(fmt.Sprintf("%d", seq)) }
