// Package codec implements the ABI wire format for price feed update payloads
package codec

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/W3Tools/pyth-crosschain/domain"
)

// updateArgs describes the packed layout of one update payload. The EMA
// price shares the exponent and publish time of the aggregate price.
var updateArgs = abi.Arguments{
	{Name: "id", Type: mustNewType("bytes32")},
	{Name: "price", Type: mustNewType("int64")},
	{Name: "conf", Type: mustNewType("uint64")},
	{Name: "expo", Type: mustNewType("int32")},
	{Name: "emaPrice", Type: mustNewType("int64")},
	{Name: "emaConf", Type: mustNewType("uint64")},
	{Name: "publishTime", Type: mustNewType("uint64")},
}

func mustNewType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(fmt.Sprintf("codec: invalid abi type %s: %v", t, err))
	}

	return typ
}

// ABICodec encodes price feeds as ABI-packed update payloads
type ABICodec struct{}

// NewABICodec creates a new ABI payload codec
func NewABICodec() ABICodec {
	return ABICodec{}
}

// Encode packs a price feed into an update payload
func (ABICodec) Encode(feed domain.PriceFeed) ([]byte, error) {
	data, err := updateArgs.Pack(
		[32]byte(feed.ID),
		feed.Price.Price,
		feed.Price.Conf,
		feed.Price.Expo,
		feed.EmaPrice.Price,
		feed.EmaPrice.Conf,
		feed.Price.PublishTime,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to pack price feed update: %w", err)
	}

	return data, nil
}

// Decode unpacks an update payload into a price feed
func (ABICodec) Decode(data []byte) (domain.PriceFeed, error) {
	vals, err := updateArgs.Unpack(data)
	if err != nil {
		return domain.PriceFeed{}, fmt.Errorf("failed to unpack price feed update: %w", err)
	}

	var (
		id          = vals[0].([32]byte)
		price       = vals[1].(int64)
		conf        = vals[2].(uint64)
		expo        = vals[3].(int32)
		emaPrice    = vals[4].(int64)
		emaConf     = vals[5].(uint64)
		publishTime = vals[6].(uint64)
	)

	return domain.PriceFeed{
		ID: common.Hash(id),
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
	}, nil
}
