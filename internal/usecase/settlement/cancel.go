package settlement

import (
	"context"
	"log/slog"

	"github.com/pashubazaar/settlement-service/internal/domain"
	publisher "github.com/pashubazaar/settlement-service/internal/infrastructure/kafka"
	"github.com/shopspring/decimal"
)

// CancelSettlement is the seller/platform abort. It sets the cooperative
// cancel flag, force-expires any open window, and finalizes CANCELLED.
// Cancellation pre-empts pending payment: no further backups are offered
// and the force-expired party forfeits nothing.
func (uc *DefaultSettlementUsecase) CancelSettlement(ctx context.Context, auctionID string) error {
	settlement, err := uc.SettlementRepo.GetSettlementByAuctionID(auctionID)
	if err != nil {
		return err
	}
	if settlement == nil {
		return domain.ErrSettlementNotFound
	}
	if settlement.Status.Terminal() {
		return domain.ErrSettlementFinalized
	}

	if err := uc.SettlementRepo.RequestCancel(settlement.ID); err != nil {
		return err
	}
	settlement.CancelRequested = true

	auction, err := uc.AuctionRepo.GetAuctionByID(auctionID)
	if err != nil {
		return err
	}

	window, err := uc.SettlementRepo.GetOpenWindowByAuctionID(auctionID)
	if err != nil {
		return err
	}
	if window != nil {
		now := uc.Now()
		ok, err := uc.SettlementRepo.CloseWindow(window.ID, domain.WindowExpired, "", now)
		if err != nil {
			return err
		}
		if ok {
			if uc.Scheduler != nil {
				uc.Scheduler.Cancel(window.ID)
			}
			outcome := &domain.WindowOutcome{
				ID:               uc.newOutcomeID(),
				SettlementID:     settlement.ID,
				AuctionID:        auctionID,
				WindowID:         window.ID,
				BidderID:         window.BidderID,
				Role:             window.Role,
				Rank:             window.Rank,
				AmountDue:        window.AmountDue,
				Status:           domain.WindowExpired,
				Reason:           "settlement cancelled",
				ForfeitedDeposit: decimal.Zero,
				RecordedAt:       now,
			}
			if err := uc.SettlementRepo.AppendWindowOutcome(outcome); err != nil {
				return err
			}
			// Cancellation is the platform's doing, so the held deposit
			// goes back to the party that was mid-payment.
			if window.DepositHeld.IsPositive() {
				if err := uc.Processor.Refund(ctx, window.BidderID, window.DepositHeld, auction.Currency); err != nil {
					slog.Error("deposit refund failed on cancellation",
						"window_id", window.ID, "bidder_id", window.BidderID,
						"amount", window.DepositHeld.String(), "error", err.Error())
				}
			}
			if uc.Metrics != nil {
				uc.Metrics.RecordWindowClosed(string(domain.WindowExpired), now.Sub(window.OpenedAt).Seconds())
			}
			uc.publishEvent(publisher.SettlementEvent{
				Kind:         publisher.EventWindowClosed,
				AuctionID:    auctionID,
				SettlementID: settlement.ID,
				RefCode:      settlement.RefCode,
				WindowID:     window.ID,
				BidderID:     window.BidderID,
				Role:         string(window.Role),
				WindowStatus: string(domain.WindowExpired),
				Currency:     auction.Currency,
				Reason:       "settlement cancelled",
			})
		}
		// A lost race means the window closed on its own path; that path
		// observes the cancel flag before opening anything new.
	}

	slog.Info("settlement cancelled",
		"auction_id", auctionID, "settlement_id", settlement.ID)

	return uc.finalize(ctx, auction, settlement, domain.SettlementCancelled, "", decimal.Zero, "cancelled by seller or platform")
}
