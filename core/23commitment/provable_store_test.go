package commitment

import (
	"testing"

	ics23 "github.com/cosmos/ics23/go"
	"github.com/stretchr/testify/require"
)

// chainedStore mirrors testing.Store's two-layer commit scheme at a scale
// small enough to exercise directly against the real ics23 verifier.
type chainedStore struct {
	prefix Prefix
	store  *ProvableLayer
	app    *ProvableLayer
}

func newChainedStore() *chainedStore {
	specs := SDKSpecs()
	return &chainedStore{
		prefix: NewPrefix([]byte("ibc")),
		store:  NewProvableLayer(specs[0]),
		app:    NewProvableLayer(specs[1]),
	}
}

func (c *chainedStore) commit(path string, value []byte) {
	c.store.Set(path, value)
	root, err := c.store.Root()
	if err != nil {
		panic(err)
	}
	c.app.Set(string(c.prefix.KeyPrefix), root)
}

func (c *chainedStore) proof(path string) (Proof, Root, error) {
	storeProof, err := c.store.Prove(path)
	if err != nil {
		return Proof{}, Root{}, err
	}
	appProof, err := c.app.Prove(string(c.prefix.KeyPrefix))
	if err != nil {
		return Proof{}, Root{}, err
	}
	root, err := c.app.Root()
	if err != nil {
		return Proof{}, Root{}, err
	}
	return Proof{Proofs: []*ics23.CommitmentProof{storeProof, appProof}}, Root{Hash: root}, nil
}

func TestProvableLayerSingleEntryRoundTrip(t *testing.T) {
	c := newChainedStore()
	c.commit("clients/07-tendermint-0/clientState", []byte("client-bytes"))

	proof, root, err := c.proof("clients/07-tendermint-0/clientState")
	require.NoError(t, err)

	path, err := ApplyPrefix(c.prefix, "clients/07-tendermint-0/clientState")
	require.NoError(t, err)

	require.NoError(t, proof.VerifyMembership(SDKSpecs(), root, path, []byte("client-bytes")))
}

// TestProvableLayerMultiEntryRoundTrip commits several keys and checks that
// membership proofs for the first, middle, and most recent entry all verify
// against the single accumulated root, matching the fold-in-insertion-order
// scheme proveIndex/foldUpTo implement.
func TestProvableLayerMultiEntryRoundTrip(t *testing.T) {
	c := newChainedStore()
	c.commit("connections/connection-0", []byte("conn-0"))
	c.commit("connections/connection-1", []byte("conn-1"))
	c.commit("channelEnds/ports/transfer/channels/channel-0", []byte("chan-0"))

	for _, tc := range []struct {
		path  string
		value []byte
	}{
		{"connections/connection-0", []byte("conn-0")},
		{"connections/connection-1", []byte("conn-1")},
		{"channelEnds/ports/transfer/channels/channel-0", []byte("chan-0")},
	} {
		proof, root, err := c.proof(tc.path)
		require.NoError(t, err)

		path, err := ApplyPrefix(c.prefix, tc.path)
		require.NoError(t, err)

		require.NoErrorf(t, proof.VerifyMembership(SDKSpecs(), root, path, tc.value), "path %s", tc.path)
	}
}

// TestProvableLayerRejectsWrongValue confirms the chained verification
// actually checks the leaf value rather than only the accumulated root.
func TestProvableLayerRejectsWrongValue(t *testing.T) {
	c := newChainedStore()
	c.commit("connections/connection-0", []byte("conn-0"))

	proof, root, err := c.proof("connections/connection-0")
	require.NoError(t, err)

	path, err := ApplyPrefix(c.prefix, "connections/connection-0")
	require.NoError(t, err)

	require.Error(t, proof.VerifyMembership(SDKSpecs(), root, path, []byte("tampered")))
}

// TestProvableLayerRootEmpty confirms Root/Prove fail cleanly on an empty
// layer instead of panicking.
func TestProvableLayerRootEmpty(t *testing.T) {
	l := NewProvableLayer(SDKSpecs()[0])
	_, err := l.Root()
	require.ErrorIs(t, err, ErrEmptyLayer)

	_, err = l.Prove("missing")
	require.ErrorIs(t, err, ErrKeyNotFound)
}
