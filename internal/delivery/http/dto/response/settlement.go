package response

import (
	"time"

	"github.com/pashubazaar/settlement-service/internal/domain"
	settlementdto "github.com/pashubazaar/settlement-service/internal/usecase/dto/settlement"
)

type SettlementResponse struct {
	SettlementID string `json:"settlement_id"`
	RefCode      string `json:"ref_code"`
	AuctionID    string `json:"auction_id"`
	Status       string `json:"status"`
}

type OpenWindowResponse struct {
	WindowID         string    `json:"window_id"`
	BidderID         string    `json:"bidder_id"`
	Role             string    `json:"role"`
	Rank             int       `json:"rank"`
	AmountDue        string    `json:"amount_due"`
	Deadline         time.Time `json:"deadline"`
	RemainingSeconds int64     `json:"remaining_seconds"`
}

type SettlementStateResponse struct {
	SettlementID string              `json:"settlement_id"`
	RefCode      string              `json:"ref_code"`
	AuctionID    string              `json:"auction_id"`
	Status       string              `json:"status"`
	BuyerID      string              `json:"buyer_id,omitempty"`
	FinalAmount  string              `json:"final_amount,omitempty"`
	OpenWindow   *OpenWindowResponse `json:"open_window,omitempty"`
}

type WindowOutcomeResponse struct {
	ID               string    `json:"id"`
	WindowID         string    `json:"window_id,omitempty"`
	BidderID         string    `json:"bidder_id"`
	Role             string    `json:"role"`
	Rank             int       `json:"rank"`
	AmountDue        string    `json:"amount_due"`
	Status           string    `json:"status"`
	ForfeitedDeposit string    `json:"forfeited_deposit"`
	PaymentRef       string    `json:"payment_ref,omitempty"`
	Reason           string    `json:"reason,omitempty"`
	RecordedAt       time.Time `json:"recorded_at"`
}

func ToSettlementResponse(out *settlementdto.SettlementOutput) SettlementResponse {
	return SettlementResponse{
		SettlementID: out.SettlementID,
		RefCode:      out.RefCode,
		AuctionID:    out.AuctionID,
		Status:       string(out.Status),
	}
}

func ToSettlementStateResponse(out *settlementdto.SettlementStateOutput) SettlementStateResponse {
	resp := SettlementStateResponse{
		SettlementID: out.SettlementID,
		RefCode:      out.RefCode,
		AuctionID:    out.AuctionID,
		Status:       string(out.Status),
		BuyerID:      out.BuyerID,
	}
	if out.FinalAmount.IsPositive() {
		resp.FinalAmount = out.FinalAmount.StringFixed(2)
	}
	if out.OpenWindow != nil {
		resp.OpenWindow = &OpenWindowResponse{
			WindowID:         out.OpenWindow.WindowID,
			BidderID:         out.OpenWindow.BidderID,
			Role:             string(out.OpenWindow.Role),
			Rank:             out.OpenWindow.Rank,
			AmountDue:        out.OpenWindow.AmountDue.StringFixed(2),
			Deadline:         out.OpenWindow.Deadline,
			RemainingSeconds: out.OpenWindow.RemainingSeconds,
		}
	}
	return resp
}

func ToWindowOutcomeResponses(outcomes []*domain.WindowOutcome) []WindowOutcomeResponse {
	resp := make([]WindowOutcomeResponse, 0, len(outcomes))
	for _, o := range outcomes {
		resp = append(resp, WindowOutcomeResponse{
			ID:               o.ID,
			WindowID:         o.WindowID,
			BidderID:         o.BidderID,
			Role:             string(o.Role),
			Rank:             o.Rank,
			AmountDue:        o.AmountDue.StringFixed(2),
			Status:           string(o.Status),
			ForfeitedDeposit: o.ForfeitedDeposit.StringFixed(2),
			PaymentRef:       o.PaymentRef,
			Reason:           o.Reason,
			RecordedAt:       o.RecordedAt,
		})
	}
	return resp
}
