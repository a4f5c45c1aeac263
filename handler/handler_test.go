package handler

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"

	"github.com/W3Tools/pyth-crosschain/codec"
	"github.com/W3Tools/pyth-crosschain/pricefeed"
)

var btcID = common.HexToHash("0xe62df6c8b4a85fe1a67db44dc12de5db330f7ac66b72dc658afedf0f4a415b43")

func newTestServer(t *testing.T) (*pricefeed.MockPyth, *httptest.Server) {
	t.Helper()

	oracle := pricefeed.New(60*time.Second, big.NewInt(1), codec.NewABICodec())

	mux := http.NewServeMux()
	NewServer(oracle).Register(mux)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return oracle, server
}

func seedFeed(t *testing.T, oracle *pricefeed.MockPyth) {
	t.Helper()

	data, err := oracle.CreatePriceFeedUpdateData(btcID, 6500000000000, 10, -8, 6400000000000, 8, 1700000000)
	assert.NoError(t, err)
	assert.NoError(t, oracle.UpdatePriceFeeds([][]byte{data}, big.NewInt(1)))
}

func TestListFeeds(t *testing.T) {
	oracle, server := newTestServer(t)
	seedFeed(t, oracle)

	resp, err := http.Get(server.URL + "/feeds")
	assert.NoError(t, err)

	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var views []map[string]any
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&views))
	assert.Len(t, views, 1)
	assert.Equal(t, btcID.Hex(), views[0]["id"])
	assert.Equal(t, "65000", views[0]["price"])
}

func TestGetFeed(t *testing.T) {
	oracle, server := newTestServer(t)
	seedFeed(t, oracle)

	t.Run("known id", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/feeds/" + btcID.Hex())
		assert.NoError(t, err)

		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var view map[string]any
		assert.NoError(t, json.NewDecoder(resp.Body).Decode(&view))
		assert.Equal(t, "65000", view["price"])
		assert.Equal(t, "64000", view["ema_price"])
	})

	t.Run("unknown id", func(t *testing.T) {
		resp, err := http.Get(server.URL + "/feeds/0xdead")
		assert.NoError(t, err)

		defer resp.Body.Close()

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestUpdateFeeds(t *testing.T) {
	oracle, server := newTestServer(t)

	payload, err := oracle.CreatePriceFeedUpdateData(btcID, 100, 10, -8, 100, 8, 10)
	assert.NoError(t, err)

	post := func(req updateRequest) *http.Response {
		body, err := json.Marshal(req)
		assert.NoError(t, err)

		resp, err := http.Post(server.URL+"/feeds", "application/json", bytes.NewReader(body))
		assert.NoError(t, err)

		return resp
	}

	t.Run("applies the batch", func(t *testing.T) {
		resp := post(updateRequest{
			UpdateData: []string{"0x" + hex.EncodeToString(payload)},
			Payment:    "1",
		})
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.True(t, oracle.PriceFeedExists(btcID))
	})

	t.Run("rejects an insufficient fee", func(t *testing.T) {
		resp := post(updateRequest{
			UpdateData: []string{"0x" + hex.EncodeToString(payload)},
			Payment:    "0",
		})
		defer resp.Body.Close()

		assert.Equal(t, http.StatusPaymentRequired, resp.StatusCode)
	})

	t.Run("rejects malformed hex", func(t *testing.T) {
		resp := post(updateRequest{
			UpdateData: []string{"0xzz"},
			Payment:    "1",
		})
		defer resp.Body.Close()

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
