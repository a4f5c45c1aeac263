package main

import (
	"log"
	"net/http"

	"github.com/W3Tools/pyth-crosschain/codec"
	"github.com/W3Tools/pyth-crosschain/config"
	"github.com/W3Tools/pyth-crosschain/domain"
	"github.com/W3Tools/pyth-crosschain/handler"
	"github.com/W3Tools/pyth-crosschain/pricefeed"
)

// logSink prints oracle notifications so integrators can follow updates
type logSink struct{}

func (logSink) OnPriceFeedUpdate(ev domain.PriceFeedUpdate) {
	log.Printf("📥 Price feed update: %s price=%d conf=%d (prev publish time %d)",
		ev.ID.Hex(), ev.Price, ev.Conf, ev.PrevPublishTime)
}

func (logSink) OnBatchPriceFeedUpdate(ev domain.BatchPriceFeedUpdate) {
	log.Printf("📦 Batch update: chain=%d seq=%d", ev.ChainID, ev.SequenceNumber)
}

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	oracle := pricefeed.New(
		cfg.ValidDuration(),
		cfg.SingleUpdateFeeWei(),
		codec.NewABICodec(),
		pricefeed.WithEventSink(logSink{}),
	)

	mux := http.NewServeMux()
	handler.NewServer(oracle).Register(mux)

	log.Printf("📡 Mock oracle listening on %s (valid time period %s, fee %s wei/update)",
		cfg.Addr, cfg.ValidDuration(), cfg.SingleUpdateFee)

	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
