package settlement

import (
	"context"
	"log/slog"

	"github.com/pashubazaar/settlement-service/internal/domain"
	publisher "github.com/pashubazaar/settlement-service/internal/infrastructure/kafka"
	"github.com/shopspring/decimal"
)

// closeAndAdvance records the negative outcome of a window that just left
// OPEN, forfeits the defaulting party's deposit, and moves the cascade to
// the next backup.
func (uc *DefaultSettlementUsecase) closeAndAdvance(ctx context.Context, window *domain.PaymentWindow, status domain.WindowStatus, reason string) error {
	settlement, err := uc.SettlementRepo.GetSettlementByID(window.SettlementID)
	if err != nil {
		return err
	}
	auction, err := uc.AuctionRepo.GetAuctionByID(window.AuctionID)
	if err != nil {
		return err
	}

	now := uc.Now()
	// Deposit is forfeited on default: recorded, not refunded.
	forfeited := window.DepositHeld
	outcome := &domain.WindowOutcome{
		ID:               uc.newOutcomeID(),
		SettlementID:     settlement.ID,
		AuctionID:        auction.ID,
		WindowID:         window.ID,
		BidderID:         window.BidderID,
		Role:             window.Role,
		Rank:             window.Rank,
		AmountDue:        window.AmountDue,
		Status:           status,
		Reason:           reason,
		ForfeitedDeposit: forfeited,
		RecordedAt:       now,
	}
	if err := uc.SettlementRepo.AppendWindowOutcome(outcome); err != nil {
		return err
	}

	if uc.Metrics != nil {
		uc.Metrics.RecordWindowClosed(string(status), now.Sub(window.OpenedAt).Seconds())
		if forfeited.IsPositive() {
			amount, _ := forfeited.Float64()
			uc.Metrics.RecordDepositForfeited(auction.Currency, amount)
		}
	}
	if forfeited.IsPositive() {
		slog.Info("deposit forfeited",
			"auction_id", auction.ID, "bidder_id", window.BidderID,
			"amount", forfeited.String())
	}

	uc.publishEvent(publisher.SettlementEvent{
		Kind:             publisher.EventWindowClosed,
		AuctionID:        auction.ID,
		SettlementID:     settlement.ID,
		RefCode:          settlement.RefCode,
		WindowID:         window.ID,
		BidderID:         window.BidderID,
		Role:             string(window.Role),
		WindowStatus:     string(status),
		Currency:         auction.Currency,
		ForfeitedDeposit: forfeited.String(),
		Reason:           reason,
	})

	return uc.advance(ctx, auction, settlement)
}

// advance offers the item to the next ranked backup, skipping parties that
// are no longer eligible, until a window opens, the queue is exhausted, or
// a cancellation pre-empts the cascade.
func (uc *DefaultSettlementUsecase) advance(ctx context.Context, auction *domain.Auction, settlement *domain.Settlement) error {
	if settlement.CancelRequested {
		return uc.finalize(ctx, auction, settlement, domain.SettlementCancelled, "", decimal.Zero, "cancellation requested")
	}

	ranked, err := uc.Ledger.RankedList(ctx, auction.ID)
	if err != nil {
		return err
	}

	for rank := settlement.NextRank; rank < len(ranked); rank++ {
		rb := ranked[rank]

		eligible, err := uc.Directory.IsEligible(ctx, rb.Bid.BidderID, auction.Eligibility)
		if err != nil {
			return err
		}
		if !eligible || !rb.Bid.DepositSatisfied() {
			// Skipped backup: immediate DECLINED outcome, no window, no
			// deadline to wait out.
			outcome := &domain.WindowOutcome{
				ID:               uc.newOutcomeID(),
				SettlementID:     settlement.ID,
				AuctionID:        auction.ID,
				BidderID:         rb.Bid.BidderID,
				Role:             domain.RoleBackup,
				Rank:             rank,
				AmountDue:        rb.Bid.Amount,
				Status:           domain.WindowDeclined,
				Reason:           "backup no longer eligible",
				ForfeitedDeposit: decimal.Zero,
				RecordedAt:       uc.Now(),
			}
			if err := uc.SettlementRepo.AppendWindowOutcome(outcome); err != nil {
				return err
			}
			if err := uc.SettlementRepo.UpdateNextRank(settlement.ID, rank+1); err != nil {
				return err
			}
			settlement.NextRank = rank + 1
			slog.Info("backup skipped, no longer eligible",
				"auction_id", auction.ID, "bidder_id", rb.Bid.BidderID, "rank", rank)
			continue
		}

		return uc.openWindowFor(ctx, auction, settlement, rb)
	}

	// Backup queue exhausted with no acceptance.
	return uc.finalize(ctx, auction, settlement, domain.SettlementUnsold, "", decimal.Zero, "backup queue exhausted")
}

func (uc *DefaultSettlementUsecase) finalize(ctx context.Context, auction *domain.Auction, settlement *domain.Settlement, status domain.SettlementStatus, buyerID string, amount decimal.Decimal, reason string) error {
	if err := uc.SettlementRepo.FinalizeSettlement(settlement.ID, status, buyerID, amount); err != nil {
		return err
	}
	settlement.Status = status

	auctionStatus := map[domain.SettlementStatus]domain.AuctionStatus{
		domain.SettlementSold:      domain.AuctionSettled,
		domain.SettlementUnsold:    domain.AuctionUnsold,
		domain.SettlementCancelled: domain.AuctionCancelled,
	}[status]
	if err := uc.AuctionRepo.UpdateAuctionStatus(auction.ID, auctionStatus); err != nil {
		return err
	}

	if uc.Metrics != nil {
		uc.Metrics.RecordSettlementFinalized(string(status), settlement.NextRank)
	}
	uc.publishEvent(publisher.SettlementEvent{
		Kind:         publisher.EventCascadeOutcome,
		AuctionID:    auction.ID,
		SettlementID: settlement.ID,
		RefCode:      settlement.RefCode,
		BidderID:     buyerID,
		AmountDue:    amount.String(),
		Currency:     auction.Currency,
		Outcome:      string(status),
		Reason:       reason,
	})

	slog.Info("settlement finalized",
		"auction_id", auction.ID, "settlement_id", settlement.ID,
		"outcome", status, "buyer_id", buyerID, "reason", reason)

	return nil
}
