package pricefeed

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// CorrelationID derives the key linking a price request to its later
// resolution: keccak256 over the requester address and the raw id bytes
// in caller-supplied order.
func CorrelationID(requester common.Address, ids []common.Hash) common.Hash {
	data := make([]byte, 0, common.AddressLength+len(ids)*common.HashLength)
	data = append(data, requester.Bytes()...)

	for _, id := range ids {
		data = append(data, id.Bytes()...)
	}

	return crypto.Keccak256Hash(data)
}

// correlator tracks pending price requests keyed by correlation id.
// At most one entry exists per key; re-registering overwrites the payer.
// Not internally synchronized; MockPyth serializes access to it.
type correlator struct {
	pending map[common.Hash]common.Address
}

func newCorrelator() *correlator {
	return &correlator{
		pending: make(map[common.Hash]common.Address),
	}
}

// register records payer as owed a resolution for (requester, ids)
func (c *correlator) register(requester common.Address, ids []common.Hash, payer common.Address) common.Hash {
	key := CorrelationID(requester, ids)
	c.pending[key] = payer

	return key
}

// take removes and returns the pending entry for (caller, ids), if any
func (c *correlator) take(caller common.Address, ids []common.Hash) (payer common.Address, key common.Hash, ok bool) {
	key = CorrelationID(caller, ids)

	payer, ok = c.pending[key]
	if ok {
		delete(c.pending, key)
	}

	return payer, key, ok
}
