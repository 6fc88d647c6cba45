package ledger

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pashubazaar/settlement-service/internal/domain"
	publisher "github.com/pashubazaar/settlement-service/internal/infrastructure/kafka"
	ledgerdto "github.com/pashubazaar/settlement-service/internal/usecase/dto/ledger"
)

func (uc *DefaultBidLedgerUsecase) SubmitBid(ctx context.Context, input *ledgerdto.SubmitBidInput) (*ledgerdto.SubmitBidOutput, error) {
	auction, err := uc.AuctionRepo.GetAuctionByID(input.AuctionID)
	if err != nil {
		return nil, err
	}

	if auction.Status != domain.AuctionActive {
		uc.recordRejected("auction_not_active")
		return nil, domain.NewValidationError("auction is not accepting bids")
	}

	eligible, err := uc.Directory.IsEligible(ctx, input.BidderID, auction.Eligibility)
	if err != nil {
		return nil, err
	}
	if !eligible {
		uc.recordRejected("bidder_not_eligible")
		return nil, domain.NewValidationError("bidder does not meet the auction eligibility filter")
	}

	if input.IsProxy && !auction.ProxyAllowed {
		uc.recordRejected("proxy_disallowed")
		return nil, domain.NewValidationError("proxy bidding is disabled for this auction")
	}

	if !input.Amount.IsPositive() {
		uc.recordRejected("non_positive_amount")
		return nil, domain.NewValidationError("bid amount must be positive")
	}

	required, err := domain.RequiredDeposit(input.Amount, auction.DepositPercent)
	if err != nil {
		return nil, err
	}

	now := uc.Now()
	bid := &domain.Bid{
		ID:              uuid.NewString(),
		AuctionID:       auction.ID,
		BidderID:        input.BidderID,
		Amount:          input.Amount,
		IsProxy:         input.IsProxy,
		DepositRequired: required,
		DepositPaid:     input.DepositAmount,
		BelowMinimum:    input.Amount.LessThan(auction.MinBidPrice),
		Status:          domain.BidActive,
		SubmittedAt:     now,
	}

	// A higher bid supersedes the bidder's previous one; a lower bid
	// leaves both active for history.
	prev, err := uc.BidRepo.GetActiveBidByBidder(auction.ID, input.BidderID)
	if err != nil {
		return nil, err
	}
	if prev != nil && bid.Amount.GreaterThan(prev.Amount) {
		if err := uc.BidRepo.UpdateBidStatus(prev.ID, domain.BidSuperseded); err != nil {
			return nil, err
		}
	}

	if err := uc.BidRepo.CreateBid(bid); err != nil {
		return nil, err
	}

	output := &ledgerdto.SubmitBidOutput{
		Bid:          bid,
		BelowMinimum: bid.BelowMinimum,
	}
	if shortfall := bid.DepositRequired.Sub(bid.DepositPaid); shortfall.IsPositive() {
		output.DepositShortfall = shortfall
	}

	if bid.Rankable() {
		if extended, newEnd := uc.maybeExtend(auction, now); extended {
			output.ExtendedUntil = &newEnd
		}

		if auction.BuyNowPrice != nil && bid.Amount.GreaterThanOrEqual(*auction.BuyNowPrice) {
			if err := uc.AuctionRepo.UpdateAuctionStatus(auction.ID, domain.AuctionClosed); err != nil {
				return nil, err
			}
			output.AuctionClosed = true
			slog.Info("auction closed by buy-now bid",
				"auction_id", auction.ID, "bid_id", bid.ID, "amount", bid.Amount.String())
		}
	}

	if uc.Metrics != nil {
		uc.Metrics.RecordBidSubmitted(auction.Currency, bid.BelowMinimum)
	}
	uc.publishBidEvent(auction, output)

	return output, nil
}

// maybeExtend applies the auction auto-extend rule for one qualifying bid.
// Each extension moves the end time once; a later bid only extends again
// if it lands within the new closing window.
func (uc *DefaultBidLedgerUsecase) maybeExtend(auction *domain.Auction, at time.Time) (bool, time.Time) {
	if !auction.InExtendWindow(at) {
		return false, time.Time{}
	}
	newEnd := auction.EndsAt.Add(time.Duration(auction.AutoExtend.ExtensionMinutes) * time.Minute)
	if err := uc.AuctionRepo.ExtendAuctionEnd(auction.ID, newEnd); err != nil {
		slog.Error("failed to auto-extend auction", "auction_id", auction.ID, "error", err.Error())
		return false, time.Time{}
	}
	auction.EndsAt = newEnd
	if uc.Metrics != nil {
		uc.Metrics.RecordAuctionExtended(auction.Currency)
	}
	return true, newEnd
}

func (uc *DefaultBidLedgerUsecase) publishBidEvent(auction *domain.Auction, output *ledgerdto.SubmitBidOutput) {
	if uc.Publisher == nil {
		return
	}
	event := publisher.BidEvent{
		BidID:        output.Bid.ID,
		AuctionID:    auction.ID,
		BidderID:     output.Bid.BidderID,
		Amount:       output.Bid.Amount.String(),
		Currency:     auction.Currency,
		BelowMinimum: output.BelowMinimum,
		BuyNow:       output.AuctionClosed,
		ExtendedTo:   output.ExtendedUntil,
	}
	go func(event publisher.BidEvent) {
		v, err := json.Marshal(event)
		if err != nil {
			slog.Error("failed to marshal BidEvent", "error", err.Error())
			return
		}
		msg := domain.Message{Key: []byte(event.AuctionID), Value: v}
		if err := uc.Publisher.Publish(publisher.TopicBidEvents, msg); err != nil {
			slog.Error("failed to publish BidEvent", "error", err.Error())
		}
	}(event)
}

func (uc *DefaultBidLedgerUsecase) recordRejected(reason string) {
	if uc.Metrics != nil {
		uc.Metrics.RecordBidRejected(reason)
	}
}
