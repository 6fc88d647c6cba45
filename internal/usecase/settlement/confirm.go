package settlement

import (
	"context"
	"log/slog"

	"github.com/pashubazaar/settlement-service/internal/domain"
	publisher "github.com/pashubazaar/settlement-service/internal/infrastructure/kafka"
	"github.com/shopspring/decimal"
)

// AttemptPayment charges the window's party through the payment processor.
// A processor failure does not terminate the window: it is surfaced as a
// retryable PaymentAttemptError and the countdown keeps running.
func (uc *DefaultSettlementUsecase) AttemptPayment(ctx context.Context, windowID string) error {
	window, err := uc.SettlementRepo.GetWindowByID(windowID)
	if err != nil {
		return err
	}
	if window.Terminal() {
		return domain.ErrWindowClosed
	}

	auction, err := uc.AuctionRepo.GetAuctionByID(window.AuctionID)
	if err != nil {
		return err
	}

	ref, err := uc.Processor.Charge(ctx, window.BidderID, window.AmountDue, auction.Currency)
	if err != nil {
		if uc.Metrics != nil {
			uc.Metrics.RecordPaymentRetry(string(window.Role))
		}
		slog.Warn("payment attempt failed, window stays open",
			"window_id", window.ID, "bidder_id", window.BidderID, "error", err.Error())
		return &domain.PaymentAttemptError{Err: err}
	}

	return uc.confirmWithRef(ctx, window, auction, ref)
}

// ConfirmPayment records an externally-executed charge, e.g. a gateway
// confirmation arriving over the payment-confirmations topic.
func (uc *DefaultSettlementUsecase) ConfirmPayment(ctx context.Context, windowID, paymentRef string) error {
	window, err := uc.SettlementRepo.GetWindowByID(windowID)
	if err != nil {
		return err
	}

	auction, err := uc.AuctionRepo.GetAuctionByID(window.AuctionID)
	if err != nil {
		return err
	}

	return uc.confirmWithRef(ctx, window, auction, paymentRef)
}

func (uc *DefaultSettlementUsecase) confirmWithRef(ctx context.Context, window *domain.PaymentWindow, auction *domain.Auction, paymentRef string) error {
	now := uc.Now()
	ok, err := uc.SettlementRepo.CloseWindow(window.ID, domain.WindowPaid, paymentRef, now)
	if err != nil {
		return err
	}
	if !ok {
		return uc.handleClosedOnConfirm(ctx, window, auction)
	}

	if uc.Scheduler != nil {
		uc.Scheduler.Cancel(window.ID)
	}

	settlement, err := uc.SettlementRepo.GetSettlementByID(window.SettlementID)
	if err != nil {
		return err
	}

	outcome := &domain.WindowOutcome{
		ID:               uc.newOutcomeID(),
		SettlementID:     settlement.ID,
		AuctionID:        auction.ID,
		WindowID:         window.ID,
		BidderID:         window.BidderID,
		Role:             window.Role,
		Rank:             window.Rank,
		AmountDue:        window.AmountDue,
		Status:           domain.WindowPaid,
		Reason:           "payment confirmed",
		ForfeitedDeposit: decimal.Zero,
		PaymentRef:       paymentRef,
		RecordedAt:       now,
	}
	if err := uc.SettlementRepo.AppendWindowOutcome(outcome); err != nil {
		return err
	}

	// The deposit held against the bid is returned once the full amount
	// is paid. A refund failure is not allowed to block the sale.
	if window.DepositHeld.IsPositive() {
		if err := uc.Processor.Refund(ctx, window.BidderID, window.DepositHeld, auction.Currency); err != nil {
			slog.Error("deposit refund failed after payment",
				"window_id", window.ID, "bidder_id", window.BidderID,
				"amount", window.DepositHeld.String(), "error", err.Error())
		}
	}

	if uc.Metrics != nil {
		uc.Metrics.RecordWindowClosed(string(domain.WindowPaid), now.Sub(window.OpenedAt).Seconds())
	}
	uc.publishEvent(publisher.SettlementEvent{
		Kind:         publisher.EventWindowClosed,
		AuctionID:    auction.ID,
		SettlementID: settlement.ID,
		RefCode:      settlement.RefCode,
		WindowID:     window.ID,
		BidderID:     window.BidderID,
		Role:         string(window.Role),
		WindowStatus: string(domain.WindowPaid),
		Currency:     auction.Currency,
	})

	return uc.finalize(ctx, auction, settlement, domain.SettlementSold, window.BidderID, window.AmountDue, "payment received")
}

// handleClosedOnConfirm resolves the race between a late confirmation and
// an expiry that already fired. A repeated confirmation of a PAID window
// is an idempotent no-op; a confirmation after EXPIRED/DECLINED is a late
// payment, never a double sale: the charge that already executed goes
// back through the processor.
func (uc *DefaultSettlementUsecase) handleClosedOnConfirm(ctx context.Context, window *domain.PaymentWindow, auction *domain.Auction) error {
	current, err := uc.SettlementRepo.GetWindowByID(window.ID)
	if err != nil {
		return err
	}
	if current.Status == domain.WindowPaid {
		return nil
	}

	if err := uc.Processor.Refund(ctx, window.BidderID, window.AmountDue, auction.Currency); err != nil {
		slog.Error("refund of late payment failed",
			"window_id", window.ID, "bidder_id", window.BidderID,
			"amount", window.AmountDue.String(), "error", err.Error())
	}

	if uc.Metrics != nil {
		uc.Metrics.RecordLatePayment(string(window.Role))
	}
	uc.publishEvent(publisher.SettlementEvent{
		Kind:         publisher.EventLatePayment,
		AuctionID:    auction.ID,
		SettlementID: window.SettlementID,
		WindowID:     window.ID,
		BidderID:     window.BidderID,
		Role:         string(window.Role),
		AmountDue:    window.AmountDue.String(),
		Currency:     auction.Currency,
		WindowStatus: string(current.Status),
		Reason:       "confirmation arrived after window closed",
	})
	slog.Warn("late payment confirmation rejected",
		"window_id", window.ID, "bidder_id", window.BidderID, "window_status", current.Status)

	return domain.ErrWindowClosed
}
