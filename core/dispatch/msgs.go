// Package dispatch is the single entry point a host calls into (spec §C9,
// §4.6): a closed set of message variants, one per client/connection/
// channel/packet operation, each routed to its keeper's Validate then
// Execute pair. Like core/02client/types.AnyClientState, the message set is
// a tagged union rather than a dynamic-dispatch hierarchy (spec §9).
package dispatch

import (
	connectiontypes "github.com/tokenize-x/ibc-core/core/03connection/types"
	commitment "github.com/tokenize-x/ibc-core/core/23commitment"
	channeltypes "github.com/tokenize-x/ibc-core/core/04channel/types"
	host "github.com/tokenize-x/ibc-core/core/24host"
	"github.com/tokenize-x/ibc-core/core/exported"
)

// MsgCreateClient is spec §6.3's CreateClient.
type MsgCreateClient struct {
	ClientState   exported.ClientState
	ConsensusState exported.ConsensusState
	Signer        string
}

// MsgUpdateClient is spec §6.3's UpdateClient.
type MsgUpdateClient struct {
	ClientID string
	Header   exported.ClientMessage
	Signer   string
}

// MsgSubmitMisbehaviour is spec §6.3's Misbehaviour envelope.
type MsgSubmitMisbehaviour struct {
	ClientID     string
	Misbehaviour exported.ClientMessage
	Signer       string
}

// MsgUpgradeClient is spec §6.3's UpgradeClient.
type MsgUpgradeClient struct {
	ClientID               string
	NewClient              exported.ClientState
	NewConsensusState      exported.ConsensusState
	ProofUpgradeClient     commitment.Proof
	ProofUpgradeConsState  commitment.Proof
	Signer                 string
}

// MsgRecoverClient is spec §6.3's RecoverClient (governance-triggered).
type MsgRecoverClient struct {
	SubjectClientID    string
	SubstituteClientID string
	Signer             string
}

// MsgConnectionOpenInit is spec §6.3's ConnOpenInit.
type MsgConnectionOpenInit struct {
	ClientID     string
	Counterparty connectiontypes.Counterparty
	Version      *connectiontypes.Version
	DelayPeriod  uint64
	Signer       string
}

// MsgConnectionOpenTry is spec §6.3's ConnOpenTry.
type MsgConnectionOpenTry struct {
	ClientID              string
	ClientState           exported.ClientState
	Counterparty          connectiontypes.Counterparty
	CounterpartyVersions  []connectiontypes.Version
	DelayPeriod           uint64
	ProofInit             commitment.Proof
	ProofClient           commitment.Proof
	ProofConsensus        commitment.Proof
	ProofHeight           host.Height
	ConsensusHeight       host.Height
	Signer                string
}

// MsgConnectionOpenAck is spec §6.3's ConnOpenAck.
type MsgConnectionOpenAck struct {
	ConnectionID              string
	ClientState               exported.ClientState
	Version                   connectiontypes.Version
	CounterpartyConnectionID  string
	ProofTry                  commitment.Proof
	ProofClient               commitment.Proof
	ProofConsensus            commitment.Proof
	ProofHeight               host.Height
	ConsensusHeight           host.Height
	Signer                    string
}

// MsgConnectionOpenConfirm is spec §6.3's ConnOpenConfirm.
type MsgConnectionOpenConfirm struct {
	ConnectionID string
	ProofAck     commitment.Proof
	ProofHeight  host.Height
	Signer       string
}

// MsgChannelOpenInit is spec §6.3's ChanOpenInit.
type MsgChannelOpenInit struct {
	PortID          string
	Ordering        channeltypes.Order
	ConnectionHops  []string
	Counterparty    channeltypes.Counterparty
	ProposedVersion string
	Signer          string
}

// MsgChannelOpenTry is spec §6.3's ChanOpenTry.
type MsgChannelOpenTry struct {
	PortID               string
	Ordering             channeltypes.Order
	ConnectionHops       []string
	Counterparty         channeltypes.Counterparty
	CounterpartyVersion  string
	ProofChannel         commitment.Proof
	ProofHeight          host.Height
	Signer               string
}

// MsgChannelOpenAck is spec §6.3's ChanOpenAck.
type MsgChannelOpenAck struct {
	PortID                string
	ChannelID             string
	CounterpartyChannelID string
	CounterpartyVersion   string
	ProofChannel          commitment.Proof
	ProofHeight           host.Height
	Signer                string
}

// MsgChannelOpenConfirm is spec §6.3's ChanOpenConfirm.
type MsgChannelOpenConfirm struct {
	PortID      string
	ChannelID   string
	ProofAck    commitment.Proof
	ProofHeight host.Height
	Signer      string
}

// MsgChannelCloseInit is spec §6.3's ChanCloseInit.
type MsgChannelCloseInit struct {
	PortID    string
	ChannelID string
	Signer    string
}

// MsgChannelCloseConfirm is spec §6.3's ChanCloseConfirm.
type MsgChannelCloseConfirm struct {
	PortID      string
	ChannelID   string
	ProofInit   commitment.Proof
	ProofHeight host.Height
	Signer      string
}

// MsgRecvPacket is spec §6.3's RecvPacket.
type MsgRecvPacket struct {
	Packet          channeltypes.Packet
	ProofCommitment commitment.Proof
	ProofHeight     host.Height
	Signer          string
}

// MsgAcknowledgement is spec §6.3's AcknowledgePacket.
type MsgAcknowledgement struct {
	Packet          channeltypes.Packet
	Acknowledgement []byte
	ProofAcked      commitment.Proof
	ProofHeight     host.Height
	Signer          string
}

// MsgTimeout is spec §6.3's TimeoutPacket.
type MsgTimeout struct {
	Packet           channeltypes.Packet
	ProofUnreceived  commitment.Proof
	ProofHeight      host.Height
	NextSequenceRecv uint64
	Signer           string
}

// MsgTimeoutOnClose is spec §6.3's TimeoutOnClose.
type MsgTimeoutOnClose struct {
	Packet           channeltypes.Packet
	ProofUnreceived  commitment.Proof
	ProofClosed      commitment.Proof
	ProofHeight      host.Height
	NextSequenceRecv uint64
	Signer           string
}
