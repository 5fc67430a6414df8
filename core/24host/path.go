package host

import "fmt"

// The path builders below produce the bit-exact strings from spec §6.2.
// They double as Store keys and as the paths passed to Merkle proof
// verification, so their literal form must never change independently on
// the two sides of a connection.

// FullClientPath joins a client id with a sub-path under "clients/{client_id}/...".
func FullClientPath(clientID, path string) string {
	return fmt.Sprintf("clients/%s/%s", clientID, path)
}

// ClientTypePath returns "clients/{client_id}/clientType".
func ClientTypePath(clientID string) string {
	return FullClientPath(clientID, "clientType")
}

// ClientStatePath returns "clients/{client_id}/clientState".
func ClientStatePath(clientID string) string {
	return FullClientPath(clientID, "clientState")
}

// ClientConsensusStatePath returns "clients/{client_id}/consensusStates/{epoch}-{height}".
func ClientConsensusStatePath(clientID string, height Height) string {
	return FullClientPath(clientID, fmt.Sprintf("consensusStates/%s", height.String()))
}

// ClientConnectionsPath returns "clients/{client_id}/connections".
func ClientConnectionsPath(clientID string) string {
	return FullClientPath(clientID, "connections")
}

// ClientCounterPath is the host-local (non-provable) path for the client
// identifier counter.
func ClientCounterPath() string { return "nextClientSequence" }

// ConnectionPath returns "connections/{connection_id}".
func ConnectionPath(connectionID string) string {
	return fmt.Sprintf("connections/%s", connectionID)
}

// ConnectionCounterPath is the host-local path for the connection counter.
func ConnectionCounterPath() string { return "nextConnectionSequence" }

// PortPath returns "ports/{port_id}".
func PortPath(portID string) string {
	return fmt.Sprintf("ports/%s", portID)
}

// ChannelEndPath returns "channelEnds/ports/{port_id}/channels/{channel_id}".
func ChannelEndPath(portID, channelID string) string {
	return fmt.Sprintf("channelEnds/ports/%s/channels/%s", portID, channelID)
}

// ChannelCounterPath is the host-local path for the channel counter.
func ChannelCounterPath() string { return "nextChannelSequence" }

// NextSequenceSendPath returns "nextSequenceSend/ports/{port_id}/channels/{channel_id}".
func NextSequenceSendPath(portID, channelID string) string {
	return fmt.Sprintf("nextSequenceSend/ports/%s/channels/%s", portID, channelID)
}

// NextSequenceRecvPath returns "nextSequenceRecv/ports/{port_id}/channels/{channel_id}".
func NextSequenceRecvPath(portID, channelID string) string {
	return fmt.Sprintf("nextSequenceRecv/ports/%s/channels/%s", portID, channelID)
}

// NextSequenceAckPath returns "nextSequenceAck/ports/{port_id}/channels/{channel_id}".
func NextSequenceAckPath(portID, channelID string) string {
	return fmt.Sprintf("nextSequenceAck/ports/%s/channels/%s", portID, channelID)
}

// PacketCommitmentPath returns "commitments/ports/{port_id}/channels/{channel_id}/sequences/{seq}".
func PacketCommitmentPath(portID, channelID string, seq uint64) string {
	return fmt.Sprintf("commitments/ports/%s/channels/%s/sequences/%d", portID, channelID, seq)
}

// PacketAcknowledgementPath returns "acks/ports/{port_id}/channels/{channel_id}/sequences/{seq}".
func PacketAcknowledgementPath(portID, channelID string, seq uint64) string {
	return fmt.Sprintf("acks/ports/%s/channels/%s/sequences/%d", portID, channelID, seq)
}

// PacketReceiptPath returns "receipts/ports/{port_id}/channels/{channel_id}/sequences/{seq}".
func PacketReceiptPath(portID, channelID string, seq uint64) string {
	return fmt.Sprintf("receipts/ports/%s/channels/%s/sequences/%d", portID, channelID, seq)
}

// UpgradedClientStatePath returns "upgradedIBCState/{height}/upgradedClient".
func UpgradedClientStatePath(height uint64) string {
	return fmt.Sprintf("upgradedIBCState/%d/upgradedClient", height)
}

// UpgradedConsensusStatePath returns "upgradedIBCState/{height}/upgradedConsState".
func UpgradedConsensusStatePath(height uint64) string {
	return fmt.Sprintf("upgradedIBCState/%d/upgradedConsState", height)
}
