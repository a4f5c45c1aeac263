package codec

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"

	"github.com/W3Tools/pyth-crosschain/domain"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	c := NewABICodec()

	feed := domain.PriceFeed{
		ID: common.HexToHash("0xe62df6c8b4a85fe1a67db44dc12de5db330f7ac66b72dc658afedf0f4a415b43"),
		Price: domain.Price{
			Price:       -12345,
			Conf:        99,
			Expo:        -8,
			PublishTime: 1700000000,
		},
		EmaPrice: domain.Price{
			Price:       -12000,
			Conf:        80,
			Expo:        -8,
			PublishTime: 1700000000,
		},
	}

	data, err := c.Encode(feed)
	assert.NoError(t, err)
	assert.NotEmpty(t, data)

	decoded, err := c.Decode(data)
	assert.NoError(t, err)
	assert.Equal(t, feed, decoded)
}

func TestDecodeMalformedPayload(t *testing.T) {
	c := NewABICodec()

	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty payload", data: nil},
		{name: "truncated payload", data: make([]byte, 31)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Decode(tt.data)
			assert.Error(t, err)
		})
	}
}
