package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/pashubazaar/settlement-service/internal/delivery/http/dto/request"
	"github.com/pashubazaar/settlement-service/internal/delivery/http/dto/response"
	ledgerdto "github.com/pashubazaar/settlement-service/internal/usecase/dto/ledger"
	"github.com/pashubazaar/settlement-service/internal/usecase/ledger"
	"github.com/shopspring/decimal"
)

type BidHandler struct {
	ledger   ledger.BidLedgerUsecase
	validate *validator.Validate
}

func NewBidHandler(bidLedger ledger.BidLedgerUsecase) *BidHandler {
	return &BidHandler{
		ledger:   bidLedger,
		validate: validator.New(),
	}
}

func (h *BidHandler) SubmitBid(w http.ResponseWriter, r *http.Request) {
	auctionID := chi.URLParam(r, "auctionID")

	var req request.SubmitBidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		var fields []string
		for _, fe := range err.(validator.ValidationErrors) {
			fields = append(fields, fe.Field())
		}
		writeJSON(w, http.StatusBadRequest, JSONResponse{
			"error":  "validation failed",
			"fields": fields,
		})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "amount is not a valid decimal")
		return
	}

	deposit := decimal.Zero
	if req.DepositAmount != "" {
		deposit, err = decimal.NewFromString(req.DepositAmount)
		if err != nil {
			writeError(w, http.StatusBadRequest, "deposit_amount is not a valid decimal")
			return
		}
	}

	out, err := h.ledger.SubmitBid(r.Context(), &ledgerdto.SubmitBidInput{
		AuctionID:     auctionID,
		BidderID:      req.BidderID,
		Amount:        amount,
		IsProxy:       req.IsProxy,
		DepositAmount: deposit,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, response.ToSubmitBidResponse(out))
}

func (h *BidHandler) RankedList(w http.ResponseWriter, r *http.Request) {
	auctionID := chi.URLParam(r, "auctionID")

	ranked, err := h.ledger.RankedList(r.Context(), auctionID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, JSONResponse{
		"auction_id": auctionID,
		"ranked":     response.ToRankedBidResponses(ranked),
	})
}

func (h *BidHandler) ListBids(w http.ResponseWriter, r *http.Request) {
	auctionID := chi.URLParam(r, "auctionID")

	bids, err := h.ledger.ListBids(r.Context(), auctionID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := make([]response.BidResponse, 0, len(bids))
	for _, bid := range bids {
		resp = append(resp, response.ToBidResponse(bid))
	}
	writeJSON(w, http.StatusOK, JSONResponse{
		"auction_id": auctionID,
		"bids":       resp,
	})
}
