package types

import (
	"time"

	errorsmod "cosmossdk.io/errors"
	cmttypes "github.com/cometbft/cometbft/types"

	commitment "github.com/tokenize-x/ibc-core/core/23commitment"
	"github.com/tokenize-x/ibc-core/core/exported"
	host "github.com/tokenize-x/ibc-core/core/24host"
)

// Header is the ICS-07 update message: a signed header plus the validator
// sets needed to verify it against a trusted height (spec §3, §4.1).
type Header struct {
	SignedHeader        *cmttypes.SignedHeader
	ValidatorSet        *cmttypes.ValidatorSet
	TrustedHeight       host.Height
	TrustedValidatorSet *cmttypes.ValidatorSet
}

var _ exported.ClientMessage = (*Header)(nil)

// ClientType implements exported.ClientMessage.
func (Header) ClientType() string { return host.TendermintClientType }

// Height returns the header's own height, parsed from the signed header.
func (h *Header) Height() host.Height {
	return host.NewHeight(parseChainRevision(h.SignedHeader.Header.ChainID), uint64(h.SignedHeader.Header.Height))
}

// Time returns the header's block time as a Timestamp.
func (h *Header) Time() host.Timestamp {
	return host.Timestamp(h.SignedHeader.Header.Time.UnixNano())
}

// ValidateBasic performs structural validation independent of any trusted
// state (non-nil fields, trusted height strictly below header height; spec
// §4.1 step 1).
func (h *Header) ValidateBasic() error {
	if h.SignedHeader == nil || h.SignedHeader.Header == nil {
		return errorsmod.Wrap(ErrInvalidHeader, "signed header cannot be nil")
	}
	if h.ValidatorSet == nil {
		return errorsmod.Wrap(ErrInvalidHeader, "validator set cannot be nil")
	}
	if h.TrustedValidatorSet == nil {
		return errorsmod.Wrap(ErrInvalidHeader, "trusted validator set cannot be nil")
	}
	if err := h.SignedHeader.ValidateBasic(h.SignedHeader.Header.ChainID); err != nil {
		return errorsmod.Wrapf(ErrInvalidHeader, "signed header failed basic validation: %s", err)
	}
	if !h.TrustedHeight.LT(h.Height()) {
		return errorsmod.Wrapf(ErrInvalidHeader, "trusted height %s must be less than header height %s", h.TrustedHeight, h.Height())
	}
	return nil
}

// IsAdjacent reports whether the header is exactly one block after the
// trusted height (spec §4.1 step 6 adjacent path).
func (h *Header) IsAdjacent() bool {
	return h.Height().RevisionHeight == h.TrustedHeight.RevisionHeight+1 &&
		h.Height().RevisionNumber == h.TrustedHeight.RevisionNumber
}

func parseChainRevision(chainID string) uint64 {
	_, rev := host.ParseChainID(chainID)
	return rev
}

func unixNanoToTime(ts host.Timestamp) time.Time {
	return time.Unix(0, int64(ts))
}

func commitmentRootFromAppHash(appHash []byte) commitment.Root {
	return commitment.Root{Hash: append([]byte(nil), appHash...)}
}
