package background

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/pashubazaar/settlement-service/internal/domain"
	publisher "github.com/pashubazaar/settlement-service/internal/infrastructure/kafka"
	"github.com/pashubazaar/settlement-service/internal/usecase/ledger"
	"github.com/pashubazaar/settlement-service/internal/usecase/settlement"
)

type BackgroundTasks struct {
	Ledger     ledger.BidLedgerUsecase
	Engine     settlement.SettlementUsecase
	Subscriber domain.SubscriberPort

	CloseSweep time.Duration
	StuckSweep time.Duration
}

func NewBackgroundTasks(
	bidLedger ledger.BidLedgerUsecase,
	engine settlement.SettlementUsecase,
	subscriber domain.SubscriberPort,
	closeSweep, stuckSweep time.Duration) *BackgroundTasks {

	return &BackgroundTasks{
		Ledger:     bidLedger,
		Engine:     engine,
		Subscriber: subscriber,
		CloseSweep: closeSweep,
		StuckSweep: stuckSweep,
	}
}

func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	go bt.startAuctionCloseSweep(ctx)
	go bt.startStuckSettlementMonitor(ctx)
	go bt.startPaymentConfirmationLoop(ctx)
}

// startAuctionCloseSweep closes auctions whose end time has passed and
// kicks off their settlement. A settlement that already exists (manual
// start raced the sweep) is not an error.
func (bt *BackgroundTasks) startAuctionCloseSweep(ctx context.Context) {
	ticker := time.NewTicker(bt.CloseSweep)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			closed, err := bt.Ledger.CloseDueAuctions(ctx)
			if err != nil {
				slog.Error("auction close sweep failed", "error", err.Error())
				continue
			}
			for _, auctionID := range closed {
				if _, err := bt.Engine.StartSettlement(ctx, auctionID); err != nil {
					if errors.Is(err, domain.ErrSettlementExists) {
						continue
					}
					slog.Error("failed to start settlement for closed auction",
						"auction_id", auctionID, "error", err.Error())
				}
			}
		}
	}
}

func (bt *BackgroundTasks) startStuckSettlementMonitor(ctx context.Context) {
	ticker := time.NewTicker(bt.StuckSweep)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := bt.Engine.ReviewStuckSettlements(ctx); err != nil {
				slog.Error("stuck settlement sweep failed", "error", err.Error())
			}
		}
	}
}

// startPaymentConfirmationLoop consumes gateway callbacks for charges
// executed out of band. A confirmation for a closed window is expected
// during races and logged at debug only.
func (bt *BackgroundTasks) startPaymentConfirmationLoop(ctx context.Context) {
	if bt.Subscriber == nil {
		return
	}

	msgs, err := bt.Subscriber.Subscribe(publisher.TopicPaymentConfirmations, "settlement-service")
	if err != nil {
		slog.Error("failed to subscribe to payment confirmations", "error", err.Error())
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				slog.Warn("payment confirmation stream closed")
				return
			}
			var confirmation publisher.PaymentConfirmation
			if err := json.Unmarshal(msg.Value, &confirmation); err != nil {
				slog.Error("failed to unmarshal PaymentConfirmation", "error", err.Error())
				continue
			}
			if err := bt.Engine.ConfirmPayment(ctx, confirmation.WindowID, confirmation.PaymentRef); err != nil {
				if errors.Is(err, domain.ErrWindowClosed) {
					slog.Debug("confirmation for closed window",
						"window_id", confirmation.WindowID)
					continue
				}
				slog.Error("failed to apply payment confirmation",
					"window_id", confirmation.WindowID, "error", err.Error())
			}
		}
	}
}
