package types

import (
	errorsmod "cosmossdk.io/errors"

	"github.com/tokenize-x/ibc-core/core/exported"
	host "github.com/tokenize-x/ibc-core/core/24host"
)

// Misbehaviour is two headers at the same height with different
// signed_header hashes, each individually verifiable against its own
// declared trusted state (spec §4.1 verify_client_message for Misbehaviour).
type Misbehaviour struct {
	ClientIDField string
	Header1       *Header
	Header2       *Header
}

var _ exported.ClientMessage = (*Misbehaviour)(nil)

// ClientType implements exported.ClientMessage.
func (Misbehaviour) ClientType() string { return host.TendermintClientType }

// ValidateBasic checks both headers are individually well-formed and share
// a height.
func (m *Misbehaviour) ValidateBasic() error {
	if m.Header1 == nil || m.Header2 == nil {
		return errorsmod.Wrap(ErrInvalidMisbehaviour, "both headers must be set")
	}
	if err := m.Header1.ValidateBasic(); err != nil {
		return errorsmod.Wrap(ErrInvalidMisbehaviour, err.Error())
	}
	if err := m.Header2.ValidateBasic(); err != nil {
		return errorsmod.Wrap(ErrInvalidMisbehaviour, err.Error())
	}
	if m.Header1.Height() != m.Header2.Height() {
		return errorsmod.Wrap(ErrInvalidMisbehaviour, "misbehaviour headers must be at the same height")
	}
	if bytesEqual(m.Header1.SignedHeader.Header.Hash(), m.Header2.SignedHeader.Header.Hash()) {
		return errorsmod.Wrap(ErrInvalidMisbehaviour, "misbehaviour headers must commit to different block hashes")
	}
	return nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
