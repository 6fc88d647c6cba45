package settlement

import (
	"context"
	"log/slog"

	"github.com/pashubazaar/settlement-service/internal/domain"
	settlementdto "github.com/pashubazaar/settlement-service/internal/usecase/dto/settlement"
)

// GetSettlementState serves UI polling: current status plus the live
// countdown of the open window, if any.
func (uc *DefaultSettlementUsecase) GetSettlementState(ctx context.Context, auctionID string) (*settlementdto.SettlementStateOutput, error) {
	settlement, err := uc.SettlementRepo.GetSettlementByAuctionID(auctionID)
	if err != nil {
		return nil, err
	}
	if settlement == nil {
		return nil, domain.ErrSettlementNotFound
	}

	output := &settlementdto.SettlementStateOutput{
		SettlementID: settlement.ID,
		RefCode:      settlement.RefCode,
		AuctionID:    auctionID,
		Status:       settlement.Status,
		BuyerID:      settlement.BuyerID,
		FinalAmount:  settlement.FinalAmount,
	}

	window, err := uc.SettlementRepo.GetOpenWindowByAuctionID(auctionID)
	if err != nil {
		return nil, err
	}
	if window != nil {
		output.OpenWindow = &settlementdto.OpenWindowState{
			WindowID:         window.ID,
			BidderID:         window.BidderID,
			Role:             window.Role,
			Rank:             window.Rank,
			AmountDue:        window.AmountDue,
			Deadline:         window.Deadline,
			RemainingSeconds: int64(window.Remaining(uc.Now()).Seconds()),
		}
	}

	return output, nil
}

// GetAuditTrail returns every window outcome of the settlement in the
// order it was recorded, forfeitures included.
func (uc *DefaultSettlementUsecase) GetAuditTrail(ctx context.Context, auctionID string) ([]*domain.WindowOutcome, error) {
	settlement, err := uc.SettlementRepo.GetSettlementByAuctionID(auctionID)
	if err != nil {
		return nil, err
	}
	if settlement == nil {
		return nil, domain.ErrSettlementNotFound
	}
	return uc.SettlementRepo.ListWindowOutcomes(settlement.ID)
}

// ReviewStuckSettlements flags PENDING settlements that have sat without
// an open window for too long. A healthy cascade always either holds an
// open window or reaches a terminal outcome, so a stall means the run
// died mid-advance and needs an operator.
func (uc *DefaultSettlementUsecase) ReviewStuckSettlements(ctx context.Context) error {
	stuck, err := uc.SettlementRepo.FindStuckSettlements(uc.Now().Add(-uc.StuckAfter))
	if err != nil {
		return err
	}
	for _, settlement := range stuck {
		slog.Warn("stuck settlement detected",
			"settlement_id", settlement.ID, "auction_id", settlement.AuctionID)
		uc.markUnderReview(settlement, "stalled cascade")
	}
	return nil
}
