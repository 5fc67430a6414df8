package testing

import (
	host "github.com/tokenize-x/ibc-core/core/24host"
	"github.com/tokenize-x/ibc-core/core/exported"
	deterministicmap "github.com/tokenize-x/ibc-core/pkg/deterministicmap"

	clienttypes "github.com/tokenize-x/ibc-core/core/02client/types"
)

// clientStore is the per-client slice of Store handed out by
// Store.ClientStore, satisfying exported.ClientStore (spec §6.1).
type clientStore struct {
	store    *Store
	clientID string

	clientState exported.ClientState
	consStates  *deterministicmap.Map[string, exported.ConsensusState]
	updateMeta  *deterministicmap.Map[string, updateMetaEntry]
}

type updateMetaEntry struct {
	processedTime   host.Timestamp
	processedHeight host.Height
}

var _ exported.ClientStore = (*clientStore)(nil)

func newClientStore(store *Store, clientID string) *clientStore {
	return &clientStore{
		store:      store,
		clientID:   clientID,
		consStates: deterministicmap.New[string, exported.ConsensusState](),
		updateMeta: deterministicmap.New[string, updateMetaEntry](),
	}
}

func (c *clientStore) ClientState() (exported.ClientState, bool) {
	if c.clientState != nil {
		return c.clientState, true
	}
	any, found := c.store.clientStates.Get(c.clientID)
	if !found {
		return nil, false
	}
	cs, err := any.Unwrap()
	if err != nil {
		return nil, false
	}
	return cs, true
}

func (c *clientStore) SetClientState(state exported.ClientState) {
	c.clientState = state
	wrapped, err := clienttypes.WrapClientState(state)
	if err != nil {
		return
	}
	c.store.StoreClientState(c.clientID, wrapped)
}

func (c *clientStore) ConsensusState(height host.Height) (exported.ConsensusState, bool) {
	return c.consStates.Get(height.String())
}

func (c *clientStore) SetConsensusState(height host.Height, state exported.ConsensusState) {
	c.consStates.Set(height.String(), state)
	wrapped, err := clienttypes.WrapConsensusState(state)
	if err != nil {
		return
	}
	c.store.commit(host.ClientConsensusStatePath(c.clientID, height), wrapped.Marshal())
}

func (c *clientStore) DeleteConsensusState(height host.Height) {
	c.consStates.Delete(height.String())
}

func (c *clientStore) ConsensusStateHeights() []host.Height {
	var out []host.Height
	_ = c.consStates.Range(func(key string, _ exported.ConsensusState) error {
		h, err := host.ParseHeight(key)
		if err != nil {
			return nil
		}
		out = append(out, h)
		return nil
	})
	return sortHeights(out)
}

func (c *clientStore) SetUpdateMeta(height host.Height, processedTime host.Timestamp, processedHeight host.Height) {
	c.updateMeta.Set(height.String(), updateMetaEntry{processedTime: processedTime, processedHeight: processedHeight})
}

func (c *clientStore) UpdateMeta(height host.Height) (host.Timestamp, host.Height, bool) {
	entry, found := c.updateMeta.Get(height.String())
	if !found {
		return host.NoTimestamp, host.Height{}, false
	}
	return entry.processedTime, entry.processedHeight, true
}

// sortHeights orders heights ascending by (revision, height), matching the
// deterministic iteration every other store-backed getter in this package
// already guarantees (spec §5 ordering guarantees).
func sortHeights(heights []host.Height) []host.Height {
	for i := 1; i < len(heights); i++ {
		for j := i; j > 0 && heights[j].LT(heights[j-1]); j-- {
			heights[j], heights[j-1] = heights[j-1], heights[j]
		}
	}
	return heights
}
