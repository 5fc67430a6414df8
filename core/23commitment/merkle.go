// Package commitment implements the Merkle proof verification primitives of
// spec §C2: prefix application, membership / non-membership checks, and
// proof-spec validation, backed by github.com/cosmos/ics23/go.
package commitment

import (
	"bytes"
	"strings"

	errorsmod "cosmossdk.io/errors"
	ics23 "github.com/cosmos/ics23/go"
)

// ModuleName is the error codespace for this package.
const ModuleName = "ibc-23-commitment"

var (
	// ErrInvalidProof is returned when a proof fails to verify.
	ErrInvalidProof = errorsmod.Register(ModuleName, 2, "invalid commitment proof")
	// ErrInvalidPrefix is returned for a malformed commitment prefix.
	ErrInvalidPrefix = errorsmod.Register(ModuleName, 3, "invalid commitment prefix")
	// ErrInvalidProofSpecs is returned when the proof spec set is empty or malformed.
	ErrInvalidProofSpecs = errorsmod.Register(ModuleName, 4, "invalid proof specs")
)

// Prefix is the store's key prefix, applied to every path before proof
// verification (spec §3 ClientState.upgrade_path, §4.1 verify_upgrade_client).
type Prefix struct {
	KeyPrefix []byte
}

// NewPrefix constructs a Prefix from raw bytes.
func NewPrefix(keyPrefix []byte) Prefix {
	return Prefix{KeyPrefix: append([]byte(nil), keyPrefix...)}
}

// Empty reports whether the prefix carries no bytes.
func (p Prefix) Empty() bool { return len(p.KeyPrefix) == 0 }

// Path is an ordered sequence of keys from root to leaf, e.g.
// []string{"ibc", "clients/07-tendermint-0/clientState"}.
type Path struct {
	KeyPath []string
}

// ApplyPrefix joins a commitment Prefix and a store path into the full
// Merkle Path used for proof verification.
func ApplyPrefix(prefix Prefix, path string) (Path, error) {
	if prefix.Empty() {
		return Path{}, errorsmod.Wrap(ErrInvalidPrefix, "prefix cannot be empty")
	}
	return Path{KeyPath: []string{string(prefix.KeyPrefix), path}}, nil
}

// Proof is a chain of ics23 commitment proofs, one per layer of the Merkle
// tree (innermost store layer first, app-hash layer last), mirroring
// ibc-go's MerkleProof.
type Proof struct {
	Proofs []*ics23.CommitmentProof
}

// Root is the Merkle root the proof is checked against (the consensus
// state's `root`, spec §3).
type Root struct {
	Hash []byte
}

// ValidateProofSpecs requires a non-empty proof-spec set (spec §3 ClientState
// invariant "proof_specs non-empty").
func ValidateProofSpecs(specs []*ics23.ProofSpec) error {
	if len(specs) == 0 {
		return errorsmod.Wrap(ErrInvalidProofSpecs, "proof specs cannot be empty")
	}
	for i, s := range specs {
		if s == nil {
			return errorsmod.Wrapf(ErrInvalidProofSpecs, "proof spec at index %d is nil", i)
		}
	}
	return nil
}

// VerifyMembership proves that (path, value) exists under root. Each layer's
// proof is checked against the root it independently computes; the chain is
// valid only if the outermost computed root equals the supplied root and
// every key in path matches the corresponding layer (spec: standard ICS-23
// chained verification, as used throughout ibc-go's MerkleProof).
func (p Proof) VerifyMembership(specs []*ics23.ProofSpec, root Root, path Path, value []byte) error {
	if err := p.validateShape(specs, path); err != nil {
		return err
	}

	cur := value
	var subRoot []byte
	for i, proof := range p.Proofs {
		var err error
		subRoot, err = ics23.CalculateRoot(proof)
		if err != nil {
			return errorsmod.Wrapf(ErrInvalidProof, "layer %d: %s", i, err)
		}
		key := []byte(path.KeyPath[len(path.KeyPath)-1-i])
		if !ics23.VerifyMembership(specs[i], subRoot, proof, key, cur) {
			return errorsmod.Wrapf(ErrInvalidProof, "membership verification failed at layer %d", i)
		}
		cur = subRoot
	}

	if !bytes.Equal(subRoot, root.Hash) {
		return errorsmod.Wrap(ErrInvalidProof, "accumulated root does not match supplied root")
	}
	return nil
}

// VerifyNonMembership proves that no value is stored at path under root.
// Only the innermost layer is checked for non-membership; enclosing layers
// are still membership proofs of the absent layer's own sub-root, exactly
// as ICS-23 chained proofs require (spec §9 open question: kept strict,
// i.e. true non-existence rather than "absence of a matching membership
// proof").
func (p Proof) VerifyNonMembership(specs []*ics23.ProofSpec, root Root, path Path) error {
	if err := p.validateShape(specs, path); err != nil {
		return err
	}

	leafProof := p.Proofs[0]
	leafKey := []byte(path.KeyPath[len(path.KeyPath)-1])

	leafRoot, err := ics23.CalculateRoot(leafProof)
	if err != nil {
		return errorsmod.Wrapf(ErrInvalidProof, "leaf layer: %s", err)
	}
	if !ics23.VerifyNonMembership(specs[0], leafRoot, leafProof, leafKey) {
		return errorsmod.Wrap(ErrInvalidProof, "non-membership verification failed at leaf layer")
	}

	if len(specs) == 1 {
		if !bytes.Equal(leafRoot, root.Hash) {
			return errorsmod.Wrap(ErrInvalidProof, "leaf layer does not commit to supplied root")
		}
		return nil
	}

	cur := leafRoot
	var subRoot []byte
	for i := 1; i < len(specs); i++ {
		var err error
		subRoot, err = ics23.CalculateRoot(p.Proofs[i])
		if err != nil {
			return errorsmod.Wrapf(ErrInvalidProof, "layer %d: %s", i, err)
		}
		key := []byte(path.KeyPath[len(path.KeyPath)-1-i])
		if !ics23.VerifyMembership(specs[i], subRoot, p.Proofs[i], key, cur) {
			return errorsmod.Wrapf(ErrInvalidProof, "membership verification failed at layer %d", i)
		}
		cur = subRoot
	}

	if !bytes.Equal(subRoot, root.Hash) {
		return errorsmod.Wrap(ErrInvalidProof, "accumulated root does not match supplied root")
	}
	return nil
}

func (p Proof) validateShape(specs []*ics23.ProofSpec, path Path) error {
	if err := ValidateProofSpecs(specs); err != nil {
		return err
	}
	if len(p.Proofs) != len(specs) {
		return errorsmod.Wrapf(ErrInvalidProof, "proof has %d layers, expected %d", len(p.Proofs), len(specs))
	}
	if len(path.KeyPath) != len(specs) {
		return errorsmod.Wrapf(ErrInvalidProof, "path has %d segments, expected %d", len(path.KeyPath), len(specs))
	}
	return nil
}

// JoinPath is a convenience used by handlers building "ports/..." style keys
// before ApplyPrefix.
func JoinPath(segments ...string) string {
	return strings.Join(segments, "/")
}
