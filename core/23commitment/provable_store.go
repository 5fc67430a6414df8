package commitment

import (
	errorsmod "cosmossdk.io/errors"
	ics23 "github.com/cosmos/ics23/go"

	deterministicmap "github.com/tokenize-x/ibc-core/pkg/deterministicmap"
)

// SDKSpecs is the two-layer proof-spec pair (IAVL store layer, multistore
// commitment layer) every ClientState.ProofSpecs in this repo is configured
// with, mirroring ibc-go's commitmenttypes.GetSDKSpecs().
func SDKSpecs() []*ics23.ProofSpec {
	return []*ics23.ProofSpec{ics23.IavlSpec, ics23.TendermintSpec}
}

// ProvableLayer is a single Merkle layer backing one ics23.ProofSpec: an
// append-only, insertion-ordered set of (key, value) pairs committed by
// folding each entry's leaf hash into a running accumulator with the
// previous entries (spec §9 open question "the exact host store/Merkle
// layout is implementation-defined": this is the minimal real ics23
// structure the reference in-memory store and every VerifyMembership call
// in the test suite agree on — not a claim about the production host's
// actual tree shape).
type ProvableLayer struct {
	spec    *ics23.ProofSpec
	entries *deterministicmap.Map[string, []byte]
	order   []string
}

// NewProvableLayer constructs an empty layer under spec.
func NewProvableLayer(spec *ics23.ProofSpec) *ProvableLayer {
	return &ProvableLayer{spec: spec, entries: deterministicmap.New[string, []byte]()}
}

// Set commits key/value into the layer.
func (l *ProvableLayer) Set(key string, value []byte) {
	if _, exists := l.entries.Get(key); !exists {
		l.order = append(l.order, key)
	}
	l.entries.Set(key, append([]byte(nil), value...))
}

// Get reads the committed value for key, if any.
func (l *ProvableLayer) Get(key string) ([]byte, bool) {
	return l.entries.Get(key)
}

// Root computes the layer's current Merkle root by folding every entry's
// leaf hash, in insertion order, through a chain of InnerOps.
func (l *ProvableLayer) Root() ([]byte, error) {
	if len(l.order) == 0 {
		return nil, ErrEmptyLayer
	}
	proof, err := l.proveIndex(len(l.order) - 1)
	if err != nil {
		return nil, err
	}
	return ics23.CalculateRoot(proof)
}

// Prove builds a real ics23.CommitmentProof of membership for key.
func (l *ProvableLayer) Prove(key string) (*ics23.CommitmentProof, error) {
	for i, k := range l.order {
		if k == key {
			return l.proveIndex(i)
		}
	}
	return nil, ErrKeyNotFound
}

// proveIndex builds the existence proof for l.order[i] by first computing
// its own leaf, then folding the leaves of every other entry into it in
// insertion order: entries before i extend the proof's own accumulated
// prefix, entries after i extend it as a literal suffix.
func (l *ProvableLayer) proveIndex(i int) (*ics23.CommitmentProof, error) {
	key := l.order[i]
	value, _ := l.entries.Get(key)

	leaf := l.leafSpec()
	var path []*ics23.InnerOp

	if i > 0 {
		prefixAcc, err := l.foldUpTo(i - 1)
		if err != nil {
			return nil, err
		}
		path = append(path, &ics23.InnerOp{Hash: leaf.Hash, Prefix: prefixAcc})
	}
	for j := i + 1; j < len(l.order); j++ {
		siblingLeaf, err := l.leafHash(l.order[j])
		if err != nil {
			return nil, err
		}
		path = append(path, &ics23.InnerOp{Hash: leaf.Hash, Suffix: siblingLeaf})
	}

	return &ics23.CommitmentProof{
		Proof: &ics23.CommitmentProof_Exist{
			Exist: &ics23.ExistenceProof{
				Key:   []byte(key),
				Value: value,
				Leaf:  leaf,
				Path:  path,
			},
		},
	}, nil
}

// foldUpTo returns the accumulated root of entries [0, i] by chaining their
// leaf hashes, used as the Prefix of the InnerOp that folds a later entry in.
func (l *ProvableLayer) foldUpTo(i int) ([]byte, error) {
	acc, err := l.leafHash(l.order[0])
	if err != nil {
		return nil, err
	}
	leaf := l.leafSpec()
	for j := 1; j <= i; j++ {
		sibling, err := l.leafHash(l.order[j])
		if err != nil {
			return nil, err
		}
		acc, err = (&ics23.InnerOp{Hash: leaf.Hash, Suffix: sibling}).Apply(acc)
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func (l *ProvableLayer) leafHash(key string) ([]byte, error) {
	value, _ := l.entries.Get(key)
	return l.leafSpec().Apply([]byte(key), value)
}

func (l *ProvableLayer) leafSpec() *ics23.LeafOp {
	if l.spec != nil && l.spec.LeafSpec != nil {
		return l.spec.LeafSpec
	}
	return &ics23.LeafOp{Hash: ics23.HashOp_SHA256, Length: ics23.LengthOp_VAR_PROTO}
}

var (
	ErrEmptyLayer  = errorsmod.Wrap(ErrInvalidProof, "layer has no committed entries")
	ErrKeyNotFound = errorsmod.Wrap(ErrInvalidProof, "key not found in layer")
)
