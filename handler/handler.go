// Package handler exposes the mock oracle over a small HTTP inspection API
package handler

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"math/big"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/W3Tools/pyth-crosschain/domain"
	"github.com/W3Tools/pyth-crosschain/pricefeed"
)

// Server serves the mock oracle's feed state over HTTP
type Server struct {
	oracle *pricefeed.MockPyth
}

// NewServer creates a new inspection server around oracle
func NewServer(oracle *pricefeed.MockPyth) *Server {
	return &Server{oracle: oracle}
}

// Register installs the server's routes on mux
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /feeds", s.listFeeds)
	mux.HandleFunc("GET /feeds/{id}", s.getFeed)
	mux.HandleFunc("POST /feeds", s.updateFeeds)
}

// feedView is the JSON rendering of a stored price feed
type feedView struct {
	ID          string `json:"id"`
	Price       string `json:"price"`
	Conf        uint64 `json:"conf"`
	Expo        int32  `json:"expo"`
	PublishTime uint64 `json:"publish_time"`
	EmaPrice    string `json:"ema_price"`
}

func toView(feed domain.PriceFeed) feedView {
	return feedView{
		ID:          feed.ID.Hex(),
		Price:       decimal.New(feed.Price.Price, feed.Price.Expo).String(),
		Conf:        feed.Price.Conf,
		Expo:        feed.Price.Expo,
		PublishTime: feed.Price.PublishTime,
		EmaPrice:    decimal.New(feed.EmaPrice.Price, feed.EmaPrice.Expo).String(),
	}
}

func (s *Server) listFeeds(w http.ResponseWriter, r *http.Request) {
	feeds := s.oracle.PriceFeeds()

	views := make([]feedView, 0, len(feeds))
	for _, feed := range feeds {
		views = append(views, toView(feed))
	}

	writeJSON(w, http.StatusOK, views)
}

func (s *Server) getFeed(w http.ResponseWriter, r *http.Request) {
	id := common.HexToHash(r.PathValue("id"))

	feed, err := s.oracle.GetPriceFeed(id)
	if errors.Is(err, domain.ErrPriceFeedNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)

		return
	}

	writeJSON(w, http.StatusOK, toView(feed))
}

// updateRequest carries hex-encoded update payloads and their payment
type updateRequest struct {
	UpdateData []string `json:"update_data"`
	Payment    string   `json:"payment"`
}

func (s *Server) updateFeeds(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	payment, ok := new(big.Int).SetString(req.Payment, 10)
	if !ok {
		http.Error(w, "invalid payment amount", http.StatusBadRequest)

		return
	}

	updateData := make([][]byte, 0, len(req.UpdateData))

	for _, payload := range req.UpdateData {
		raw, err := hex.DecodeString(strings.TrimPrefix(payload, "0x"))
		if err != nil {
			http.Error(w, "invalid update payload: "+err.Error(), http.StatusBadRequest)

			return
		}

		updateData = append(updateData, raw)
	}

	if err := s.oracle.UpdatePriceFeeds(updateData, payment); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, domain.ErrInsufficientFee) {
			status = http.StatusPaymentRequired
		}

		http.Error(w, err.Error(), status)

		return
	}

	log.Printf("✅ Applied update batch of %d payloads", len(updateData))
	writeJSON(w, http.StatusOK, map[string]uint64{"sequence_number": s.oracle.SequenceNumber()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ Failed to encode response: %v", err)
	}
}
