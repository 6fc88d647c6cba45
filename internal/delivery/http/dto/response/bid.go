package response

import (
	"time"

	"github.com/pashubazaar/settlement-service/internal/domain"
	ledgerdto "github.com/pashubazaar/settlement-service/internal/usecase/dto/ledger"
)

type BidResponse struct {
	ID              string    `json:"id"`
	AuctionID       string    `json:"auction_id"`
	BidderID        string    `json:"bidder_id"`
	Amount          string    `json:"amount"`
	IsProxy         bool      `json:"is_proxy"`
	DepositRequired string    `json:"deposit_required"`
	DepositPaid     string    `json:"deposit_paid"`
	BelowMinimum    bool      `json:"below_minimum"`
	Status          string    `json:"status"`
	SubmittedAt     time.Time `json:"submitted_at"`
}

type SubmitBidResponse struct {
	Bid              BidResponse `json:"bid"`
	BelowMinimum     bool        `json:"below_minimum"`
	DepositShortfall string      `json:"deposit_shortfall,omitempty"`
	AuctionClosed    bool        `json:"auction_closed"`
	ExtendedUntil    *time.Time  `json:"extended_until,omitempty"`
}

type RankedBidResponse struct {
	Rank int         `json:"rank"`
	Bid  BidResponse `json:"bid"`
}

func ToBidResponse(bid *domain.Bid) BidResponse {
	return BidResponse{
		ID:              bid.ID,
		AuctionID:       bid.AuctionID,
		BidderID:        bid.BidderID,
		Amount:          bid.Amount.StringFixed(2),
		IsProxy:         bid.IsProxy,
		DepositRequired: bid.DepositRequired.StringFixed(2),
		DepositPaid:     bid.DepositPaid.StringFixed(2),
		BelowMinimum:    bid.BelowMinimum,
		Status:          string(bid.Status),
		SubmittedAt:     bid.SubmittedAt,
	}
}

func ToSubmitBidResponse(out *ledgerdto.SubmitBidOutput) SubmitBidResponse {
	resp := SubmitBidResponse{
		Bid:           ToBidResponse(out.Bid),
		BelowMinimum:  out.BelowMinimum,
		AuctionClosed: out.AuctionClosed,
		ExtendedUntil: out.ExtendedUntil,
	}
	if out.DepositShortfall.IsPositive() {
		resp.DepositShortfall = out.DepositShortfall.StringFixed(2)
	}
	return resp
}

func ToRankedBidResponses(ranked []*ledgerdto.RankedBid) []RankedBidResponse {
	resp := make([]RankedBidResponse, 0, len(ranked))
	for _, rb := range ranked {
		resp = append(resp, RankedBidResponse{Rank: rb.Rank, Bid: ToBidResponse(rb.Bid)})
	}
	return resp
}
