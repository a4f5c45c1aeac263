package domain

import "github.com/ethereum/go-ethereum/common"

// PriceFeedUpdate is emitted once per accepted feed update
type PriceFeedUpdate struct {
	ID              common.Hash // Updated asset identifier
	PrevPublishTime uint64      // Publish time of the replaced record, 0 if none
	Price           int64       // New price value
	Conf            uint64      // New confidence interval
}

// BatchPriceFeedUpdate is emitted once per successfully processed batch
type BatchPriceFeedUpdate struct {
	ChainID        uint16 // Source chain tag of the simulated network
	SequenceNumber uint64 // Batch sequence number before the increment
}

// EventSink receives oracle notifications. Implementations must not block;
// sinks are invoked synchronously inside the oracle's critical section.
type EventSink interface {
	OnPriceFeedUpdate(ev PriceFeedUpdate)
	OnBatchPriceFeedUpdate(ev BatchPriceFeedUpdate)
}

// NopEventSink discards all notifications
type NopEventSink struct{}

func (NopEventSink) OnPriceFeedUpdate(PriceFeedUpdate)           {}
func (NopEventSink) OnBatchPriceFeedUpdate(BatchPriceFeedUpdate) {}
