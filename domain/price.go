// Package domain defines core types and interfaces for the mock oracle
package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Price represents a single price sample with its confidence interval
type Price struct {
	Price       int64  // Price value, scaled by 10^Expo
	Conf        uint64 // Confidence interval around the price
	Expo        int32  // Price exponent
	PublishTime uint64 // Unix timestamp the sample was published at
}

// PriceFeed carries the latest price and EMA price for one asset
type PriceFeed struct {
	ID       common.Hash // Asset identifier (e.g. a trading pair)
	Price    Price       // Latest price
	EmaPrice Price       // Exponentially-weighted moving average price
}

// PriceFeedCodec encodes and decodes a price feed to/from an opaque
// update payload. Implementations are pure and stateless.
type PriceFeedCodec interface {
	Encode(feed PriceFeed) ([]byte, error)
	Decode(data []byte) (PriceFeed, error)
}

// PaymentForwarder transfers a payment to the recipient owed a resolved
// price request. Forwarding is best-effort: the oracle logs failures and
// carries on, it never unwinds the enclosing operation.
type PaymentForwarder interface {
	Forward(to common.Address, amount *big.Int) error
}
