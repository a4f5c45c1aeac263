// Package pricefeed implements the mock oracle's price feed engine
package pricefeed

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/W3Tools/pyth-crosschain/domain"
)

// Store keeps the latest accepted price feed per asset identifier.
// Presence is tracked by map membership, so a feed whose fields are all
// zero is still distinguishable from a missing one. Store is not
// internally synchronized; MockPyth serializes access to it.
type Store struct {
	feeds map[common.Hash]domain.PriceFeed
}

// NewStore creates an empty price feed store
func NewStore() *Store {
	return &Store{
		feeds: make(map[common.Hash]domain.PriceFeed),
	}
}

// Exists reports whether an update has ever been accepted for id
func (s *Store) Exists(id common.Hash) bool {
	_, ok := s.feeds[id]

	return ok
}

// Query returns the stored feed for id
func (s *Store) Query(id common.Hash) (domain.PriceFeed, error) {
	feed, ok := s.feeds[id]
	if !ok {
		return domain.PriceFeed{}, domain.ErrPriceFeedNotFound
	}

	return feed, nil
}

// Apply reconciles an incoming update against the stored feed. The update
// is accepted if no feed exists yet for its id, or if its publish time is
// strictly newer than the stored one. Equal publish times are not newer.
// On acceptance the stored record is replaced wholesale and the previous
// publish time (0 if none) is returned. Rejection is silent so that
// out-of-order or replayed batches never regress a price backward.
func (s *Store) Apply(update domain.PriceFeed) (accepted bool, prevPublishTime uint64) {
	existing, ok := s.feeds[update.ID]
	if ok && existing.Price.PublishTime >= update.Price.PublishTime {
		return false, 0
	}

	s.feeds[update.ID] = update

	return true, existing.Price.PublishTime
}

// Len returns the number of stored feeds
func (s *Store) Len() int {
	return len(s.feeds)
}

// Snapshot returns a copy of the stored feeds
func (s *Store) Snapshot() map[common.Hash]domain.PriceFeed {
	feeds := make(map[common.Hash]domain.PriceFeed, len(s.feeds))
	for id, feed := range s.feeds {
		feeds[id] = feed
	}

	return feeds
}
