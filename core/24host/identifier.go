// Package host defines the validated domain identifiers and canonical Merkle
// store paths shared by every IBC core component (spec §3, §6.2).
package host

import (
	"fmt"
	"strconv"
	"strings"

	errorsmod "cosmossdk.io/errors"
)

const (
	// defaultIdentifierMaxLength is the maximum length of a connection,
	// channel or port identifier.
	defaultIdentifierMaxLength = 64

	// chainIDMaxLength bounds ChainId per spec §3.
	chainIDMaxLength = 64

	// TendermintClientType is the client-type prefix of ICS-07 client ids.
	TendermintClientType = "07-tendermint"

	// ConnectionPrefix / ChannelPrefix are the id prefixes assigned by the host.
	ConnectionPrefix = "connection-"
	ChannelPrefix    = "channel-"
)

// allowed characters for a ChainId, beyond alphanumerics.
const chainIDExtraChars = ".-_+#[]<>"

// ValidateChainID checks the ChainId grammar from spec §3: either "{name}" or
// "{name}-{revision_number}", length <= 64, alphanumeric plus a fixed set of
// punctuation.
func ValidateChainID(chainID string) error {
	if len(chainID) == 0 {
		return errorsmod.Wrap(ErrInvalidID, "chain id cannot be empty")
	}
	if len(chainID) > chainIDMaxLength {
		return errorsmod.Wrapf(ErrInvalidID, "chain id %s exceeds max length %d", chainID, chainIDMaxLength)
	}
	for _, r := range chainID {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case strings.ContainsRune(chainIDExtraChars, r):
		default:
			return errorsmod.Wrapf(ErrInvalidID, "chain id %s contains disallowed character %q", chainID, r)
		}
	}
	return nil
}

// ParseChainID splits a ChainId into its name and revision number. A chain id
// without a trailing "-{revision_number}" has revision number 0.
func ParseChainID(chainID string) (name string, revision uint64) {
	idx := strings.LastIndex(chainID, "-")
	if idx < 0 || idx == len(chainID)-1 {
		return chainID, 0
	}
	rev, err := strconv.ParseUint(chainID[idx+1:], 10, 64)
	if err != nil {
		return chainID, 0
	}
	return chainID[:idx], rev
}

// ClientIDFromTypeCounter deterministically assigns "{client_type}-{counter}".
func ClientIDFromTypeCounter(clientType string, counter uint64) string {
	return fmt.Sprintf("%s-%d", clientType, counter)
}

// ConnectionIDFromCounter assigns "connection-{counter}".
func ConnectionIDFromCounter(counter uint64) string {
	return fmt.Sprintf("%s%d", ConnectionPrefix, counter)
}

// ChannelIDFromCounter assigns "channel-{counter}".
func ChannelIDFromCounter(counter uint64) string {
	return fmt.Sprintf("%s%d", ChannelPrefix, counter)
}

// ValidateIdentifier applies the generic identifier grammar used for
// ClientId, ConnectionId, ChannelId and PortId: not blank, bounded length,
// and free of '/', space, tab and newline. Other characters, including
// non-ASCII ones, are not rejected.
func ValidateIdentifier(id string, maxLen int) error {
	if strings.TrimSpace(id) == "" {
		return errorsmod.Wrap(ErrInvalidID, "identifier cannot be blank")
	}
	if len(id) > maxLen {
		return errorsmod.Wrapf(ErrInvalidID, "identifier %s exceeds max length %d", id, maxLen)
	}
	if strings.ContainsAny(id, "/\n\t ") {
		return errorsmod.Wrapf(ErrInvalidID, "identifier %s contains disallowed characters", id)
	}
	return nil
}

// ValidateClientID validates a ClientId of shape "{client_type}-{counter}".
func ValidateClientID(id string) error {
	if err := ValidateIdentifier(id, defaultIdentifierMaxLength); err != nil {
		return err
	}
	idx := strings.LastIndex(id, "-")
	if idx < 0 {
		return errorsmod.Wrapf(ErrInvalidID, "client id %s missing counter suffix", id)
	}
	if _, err := strconv.ParseUint(id[idx+1:], 10, 64); err != nil {
		return errorsmod.Wrapf(ErrInvalidID, "client id %s has non-numeric counter", id)
	}
	return nil
}

// ValidateConnectionID validates a ConnectionId of shape "connection-{counter}".
func ValidateConnectionID(id string) error {
	if err := ValidateIdentifier(id, defaultIdentifierMaxLength); err != nil {
		return err
	}
	if !strings.HasPrefix(id, ConnectionPrefix) {
		return errorsmod.Wrapf(ErrInvalidID, "connection id %s missing %q prefix", id, ConnectionPrefix)
	}
	if _, err := strconv.ParseUint(strings.TrimPrefix(id, ConnectionPrefix), 10, 64); err != nil {
		return errorsmod.Wrapf(ErrInvalidID, "connection id %s has non-numeric counter", id)
	}
	return nil
}

// ValidateChannelID validates a ChannelId of shape "channel-{counter}".
func ValidateChannelID(id string) error {
	if err := ValidateIdentifier(id, defaultIdentifierMaxLength); err != nil {
		return err
	}
	if !strings.HasPrefix(id, ChannelPrefix) {
		return errorsmod.Wrapf(ErrInvalidID, "channel id %s missing %q prefix", id, ChannelPrefix)
	}
	if _, err := strconv.ParseUint(strings.TrimPrefix(id, ChannelPrefix), 10, 64); err != nil {
		return errorsmod.Wrapf(ErrInvalidID, "channel id %s has non-numeric counter", id)
	}
	return nil
}

// ValidatePortID validates a PortId; ports are free-form identifiers bound to
// exactly one module (spec §4.5).
func ValidatePortID(id string) error {
	return ValidateIdentifier(id, defaultIdentifierMaxLength)
}
