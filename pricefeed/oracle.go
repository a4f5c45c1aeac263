package pricefeed

import (
	"fmt"
	"log"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/W3Tools/pyth-crosschain/domain"
)

// sourceChainID tags batch events with the single simulated source chain
const sourceChainID uint16 = 1

// MockPyth is an in-memory stand-in for the Pyth oracle contract. It
// accepts price update batches, keeps the freshest price per asset id,
// answers point and windowed queries, and simulates the on-demand
// request/resolve handshake used by consumer contracts. Every public
// operation is atomic: one mutex guards the feed store, the pending
// request map and the batch sequence counter, since the on-behalf-of
// path mutates the first two in one logical transaction.
type MockPyth struct {
	mu sync.Mutex

	validTimePeriod time.Duration
	fees            FeeCalculator
	codec           domain.PriceFeedCodec
	forwarder       domain.PaymentForwarder
	sink            domain.EventSink
	now             func() time.Time

	store   *Store
	pending *correlator
	seq     uint64
}

// Option configures a MockPyth instance
type Option func(*MockPyth)

// WithEventSink routes update notifications to sink
func WithEventSink(sink domain.EventSink) Option {
	return func(m *MockPyth) {
		m.sink = sink
	}
}

// WithPaymentForwarder routes resolved request payments through f
func WithPaymentForwarder(f domain.PaymentForwarder) Option {
	return func(m *MockPyth) {
		m.forwarder = f
	}
}

// WithClock overrides the wall clock used for staleness checks
func WithClock(now func() time.Time) Option {
	return func(m *MockPyth) {
		m.now = now
	}
}

// New creates a mock oracle. validTimePeriod is the age past which a
// stored price counts as stale for GetPrice; singleUpdateFeeWei is the
// per-update fee unit. Both are immutable after construction.
func New(validTimePeriod time.Duration, singleUpdateFeeWei *big.Int, codec domain.PriceFeedCodec, opts ...Option) *MockPyth {
	m := &MockPyth{
		validTimePeriod: validTimePeriod,
		fees:            NewFeeCalculator(singleUpdateFeeWei),
		codec:           codec,
		forwarder:       nopForwarder{},
		sink:            domain.NopEventSink{},
		now:             time.Now,
		store:           NewStore(),
		pending:         newCorrelator(),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// nopForwarder discards forwarded payments
type nopForwarder struct{}

func (nopForwarder) Forward(common.Address, *big.Int) error { return nil }

// GetValidTimePeriod returns the configured staleness window
func (m *MockPyth) GetValidTimePeriod() time.Duration {
	return m.validTimePeriod
}

// GetUpdateFee returns the fee required to submit updateData
func (m *MockPyth) GetUpdateFee(updateData [][]byte) *big.Int {
	return m.fees.ComputeFee(len(updateData))
}

// SequenceNumber returns the current batch sequence counter
func (m *MockPyth) SequenceNumber() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.seq
}

// PriceFeedExists reports whether an update was ever accepted for id
func (m *MockPyth) PriceFeedExists(id common.Hash) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.store.Exists(id)
}

// GetPriceFeed returns the stored feed for id
func (m *MockPyth) GetPriceFeed(id common.Hash) (domain.PriceFeed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.store.Query(id)
}

// PriceFeeds returns a copy of all stored feeds
func (m *MockPyth) PriceFeeds() map[common.Hash]domain.PriceFeed {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.store.Snapshot()
}

// GetPriceUnsafe returns the latest price for id regardless of its age
func (m *MockPyth) GetPriceUnsafe(id common.Hash) (domain.Price, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	feed, err := m.store.Query(id)
	if err != nil {
		return domain.Price{}, err
	}

	return feed.Price, nil
}

// GetPrice returns the latest price for id, requiring it to be no older
// than the configured valid time period
func (m *MockPyth) GetPrice(id common.Hash) (domain.Price, error) {
	return m.GetPriceNoOlderThan(id, m.validTimePeriod)
}

// GetPriceNoOlderThan returns the latest price for id if it was published
// within age of the current time
func (m *MockPyth) GetPriceNoOlderThan(id common.Hash, age time.Duration) (domain.Price, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	feed, err := m.store.Query(id)
	if err != nil {
		return domain.Price{}, err
	}

	return m.requireFresh(feed.Price, age)
}

// GetEmaPriceUnsafe returns the latest EMA price for id regardless of age
func (m *MockPyth) GetEmaPriceUnsafe(id common.Hash) (domain.Price, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	feed, err := m.store.Query(id)
	if err != nil {
		return domain.Price{}, err
	}

	return feed.EmaPrice, nil
}

// GetEmaPrice returns the latest EMA price for id, requiring it to be no
// older than the configured valid time period
func (m *MockPyth) GetEmaPrice(id common.Hash) (domain.Price, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	feed, err := m.store.Query(id)
	if err != nil {
		return domain.Price{}, err
	}

	return m.requireFresh(feed.EmaPrice, m.validTimePeriod)
}

func (m *MockPyth) requireFresh(price domain.Price, age time.Duration) (domain.Price, error) {
	published := time.Unix(int64(price.PublishTime), 0)
	if m.now().Sub(published) > age {
		return domain.Price{}, fmt.Errorf("%w: published at %d", domain.ErrPriceTooOld, price.PublishTime)
	}

	return price, nil
}

// UpdatePriceFeeds processes a batch of encoded update payloads with an
// attached payment. The whole batch is rejected if the payment is below
// the computed fee or any payload fails to decode; there are no partial
// effects. Each accepted update emits a per-feed event, and one batch
// event carrying the pre-increment sequence number is emitted before the
// counter advances.
func (m *MockPyth) UpdatePriceFeeds(updateData [][]byte, payment *big.Int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.updatePriceFeeds(updateData, payment)
}

// updatePriceFeeds is the locked batch update path shared with the
// on-behalf-of flow
func (m *MockPyth) updatePriceFeeds(updateData [][]byte, payment *big.Int) error {
	required := m.fees.ComputeFee(len(updateData))

	paid := payment
	if paid == nil {
		paid = new(big.Int)
	}

	if paid.Cmp(required) < 0 {
		return fmt.Errorf("%w: required %s wei, got %s wei", domain.ErrInsufficientFee, required, paid)
	}

	// Decode everything up front so a malformed payload aborts the batch
	// before any mutation.
	feeds, err := m.decodeBatch(updateData)
	if err != nil {
		return err
	}

	for _, feed := range feeds {
		accepted, prev := m.store.Apply(feed)
		if !accepted {
			continue
		}

		m.sink.OnPriceFeedUpdate(domain.PriceFeedUpdate{
			ID:              feed.ID,
			PrevPublishTime: prev,
			Price:           feed.Price.Price,
			Conf:            feed.Price.Conf,
		})
	}

	m.sink.OnBatchPriceFeedUpdate(domain.BatchPriceFeedUpdate{
		ChainID:        sourceChainID,
		SequenceNumber: m.seq,
	})

	if m.seq+1 == 0 {
		panic("pricefeed: batch sequence number overflow")
	}

	m.seq++

	return nil
}

func (m *MockPyth) decodeBatch(updateData [][]byte) ([]domain.PriceFeed, error) {
	feeds := make([]domain.PriceFeed, 0, len(updateData))

	for i, payload := range updateData {
		feed, err := m.codec.Decode(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to decode update %d: %w", i, err)
		}

		feeds = append(feeds, feed)
	}

	return feeds, nil
}

// ParsePriceFeedUpdates decodes updateData and returns, for each requested
// id, a feed from the batch whose publish time lies in [minTime, maxTime]
// inclusive. The search covers the decoded batch only, never the store,
// and nothing is stored: the call charges the update fee but performs no
// mutation and does not advance the sequence counter.
func (m *MockPyth) ParsePriceFeedUpdates(updateData [][]byte, ids []common.Hash, minTime, maxTime uint64, payment *big.Int) ([]domain.PriceFeed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	required := m.fees.ComputeFee(len(updateData))

	paid := payment
	if paid == nil {
		paid = new(big.Int)
	}

	if paid.Cmp(required) < 0 {
		return nil, fmt.Errorf("%w: required %s wei, got %s wei", domain.ErrInsufficientFee, required, paid)
	}

	candidates, err := m.decodeBatch(updateData)
	if err != nil {
		return nil, err
	}

	feeds := make([]domain.PriceFeed, 0, len(ids))

	for _, id := range ids {
		found := false

		for _, candidate := range candidates {
			if candidate.ID != id {
				continue
			}

			if t := candidate.Price.PublishTime; t >= minTime && t <= maxTime {
				feeds = append(feeds, candidate)
				found = true

				break
			}
		}

		if !found {
			return nil, fmt.Errorf("%w: id %s", domain.ErrPriceFeedNotFoundWithinRange, id.Hex())
		}
	}

	return feeds, nil
}

// UpdatePriceFeedsOnBehalfOf processes updateData as a normal batch update
// and registers payer as owed the payment once a later RequirePriceFeeds
// call proves the prices were needed. A second call with the same
// requester and id set overwrites the recorded payer. Returns the
// correlation id linking the two calls.
func (m *MockPyth) UpdatePriceFeedsOnBehalfOf(requester common.Address, ids []common.Hash, updateData [][]byte, payment *big.Int, payer common.Address) (common.Hash, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.updatePriceFeeds(updateData, payment); err != nil {
		return common.Hash{}, err
	}

	// TODO: reject requests whose update data does not cover every id in
	// ids. Left unchecked to match the contract being mocked.
	return m.pending.register(requester, ids, payer), nil
}

// RequirePriceFeeds resolves a pending price request for (caller, ids),
// forwarding the attached payment to the recorded payer. Forwarding is
// fire-and-forget: a forwarding failure is logged but never surfaced.
// Fails with RequirePriceFeedsError if no matching request is pending, so
// a request resolves exactly once.
func (m *MockPyth) RequirePriceFeeds(caller common.Address, ids []common.Hash, payment *big.Int) (common.Hash, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	payer, key, ok := m.pending.take(caller, ids)
	if !ok {
		return common.Hash{}, &domain.RequirePriceFeedsError{IDs: ids}
	}

	if err := m.forwarder.Forward(payer, payment); err != nil {
		log.Printf("⚠️ payment forwarding to %s failed: %v", payer.Hex(), err)
	}

	return key, nil
}

// CreatePriceFeedUpdateData builds an encoded update payload for tests and
// integrators. The EMA price shares the exponent and publish time of the
// aggregate price.
func (m *MockPyth) CreatePriceFeedUpdateData(id common.Hash, price int64, conf uint64, expo int32, emaPrice int64, emaConf uint64, publishTime uint64) ([]byte, error) {
	return m.codec.Encode(domain.PriceFeed{
		ID: id,
		Price: domain.Price{
			Price:       price,
			Conf:        conf,
			Expo:        expo,
			PublishTime: publishTime,
		},
		EmaPrice: domain.Price{
			Price:       emaPrice,
			Conf:        emaConf,
			Expo:        expo,
			PublishTime: publishTime,
		},
	})
}
