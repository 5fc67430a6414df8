package types

import (
	"crypto/sha256"
	"encoding/binary"
)

// CommitmentReceipt is the singleton marker written at
// receipts/{port}/{channel}/sequences/{seq} for Unordered channels (spec §3
// Receipt). Its presence, not its value, is what matters.
const CommitmentReceipt = "OK"

// CommitPacket computes spec §3's packet commitment:
// H(timeout_height || timeout_timestamp || H(data)).
func CommitPacket(p Packet) []byte {
	dataHash := sha256.Sum256(p.Data)

	buf := make([]byte, 0, 8+8+8+sha256.Size)
	buf = binary.BigEndian.AppendUint64(buf, p.TimeoutHeight.RevisionNumber)
	buf = binary.BigEndian.AppendUint64(buf, p.TimeoutHeight.RevisionHeight)
	buf = binary.BigEndian.AppendUint64(buf, uint64(p.TimeoutTimestamp))
	buf = append(buf, dataHash[:]...)

	sum := sha256.Sum256(buf)
	return sum[:]
}

// CommitAcknowledgement hashes the application-produced ack bytes stored at
// acks/{port}/{channel}/sequences/{seq} (spec §3 Acknowledgement).
func CommitAcknowledgement(ackBytes []byte) []byte {
	sum := sha256.Sum256(ackBytes)
	return sum[:]
}

// NewResultAcknowledgement and NewErrorAcknowledgement are the two shapes a
// module's on_recv_packet callback returns (spec §4.4 step 6): the callback
// never aborts the transaction, it encodes failure inside the ack bytes
// instead.
func NewResultAcknowledgement(result []byte) []byte {
	return append([]byte{0x01}, result...)
}

func NewErrorAcknowledgement(errMsg string) []byte {
	return append([]byte{0x00}, []byte(errMsg)...)
}

// IsSuccessAcknowledgement reports whether ackBytes was produced by
// NewResultAcknowledgement.
func IsSuccessAcknowledgement(ackBytes []byte) bool {
	return len(ackBytes) > 0 && ackBytes[0] == 0x01
}
