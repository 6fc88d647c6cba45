package settlement

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pashubazaar/settlement-service/internal/domain"
	publisher "github.com/pashubazaar/settlement-service/internal/infrastructure/kafka"
	ledgerdto "github.com/pashubazaar/settlement-service/internal/usecase/dto/ledger"
	settlementdto "github.com/pashubazaar/settlement-service/internal/usecase/dto/settlement"
)

// StartSettlement creates the settlement record for a closed auction and
// opens the first payment window against the top-ranked bidder. An auction
// that closed with no eligible ranked bids is flagged for manual review
// instead of guessing an outcome.
func (uc *DefaultSettlementUsecase) StartSettlement(ctx context.Context, auctionID string) (*settlementdto.SettlementOutput, error) {
	auction, err := uc.AuctionRepo.GetAuctionByID(auctionID)
	if err != nil {
		return nil, err
	}
	if auction.Status != domain.AuctionClosed {
		return nil, domain.ErrAuctionNotClosed
	}

	existing, err := uc.SettlementRepo.GetSettlementByAuctionID(auctionID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrSettlementExists
	}

	now := uc.Now()
	settlement := &domain.Settlement{
		ID:        uuid.NewString(),
		RefCode:   uc.newRefCode(),
		AuctionID: auctionID,
		Status:    domain.SettlementPending,
		NextRank:  0,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.SettlementRepo.CreateSettlement(settlement); err != nil {
		return nil, err
	}

	ranked, err := uc.Ledger.RankedList(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	if len(ranked) == 0 {
		uc.markUnderReview(settlement, "no eligible bidders")
		return nil, &domain.InvariantViolation{AuctionID: auctionID, Err: domain.ErrNoEligibleBidders}
	}

	if err := uc.openWindowFor(ctx, auction, settlement, ranked[0]); err != nil {
		return nil, err
	}

	slog.Info("settlement started",
		"auction_id", auctionID, "settlement_id", settlement.ID,
		"ref_code", settlement.RefCode, "ranked_bidders", len(ranked))

	return &settlementdto.SettlementOutput{
		SettlementID: settlement.ID,
		RefCode:      settlement.RefCode,
		AuctionID:    auctionID,
		Status:       settlement.Status,
	}, nil
}

// openWindowFor opens the single payment window the cascade allows. A
// window already open for the auction is an invariant breach: two parties
// must never simultaneously believe they can pay for the same item.
func (uc *DefaultSettlementUsecase) openWindowFor(ctx context.Context, auction *domain.Auction, settlement *domain.Settlement, rb *ledgerdto.RankedBid) error {
	open, err := uc.SettlementRepo.GetOpenWindowByAuctionID(auction.ID)
	if err != nil {
		return err
	}
	if open != nil {
		uc.markUnderReview(settlement, "concurrent open window")
		return &domain.InvariantViolation{AuctionID: auction.ID, Err: domain.ErrOpenWindowExists}
	}

	role := domain.RoleBackup
	if rb.Rank == 0 {
		role = domain.RoleWinner
	}

	now := uc.Now()
	window := &domain.PaymentWindow{
		ID:           uuid.NewString(),
		AuctionID:    auction.ID,
		SettlementID: settlement.ID,
		BidID:        rb.Bid.ID,
		BidderID:     rb.Bid.BidderID,
		Role:         role,
		Rank:         rb.Rank,
		// Backups are offered at their own bid amount, not the original
		// winning amount.
		AmountDue:   rb.Bid.Amount,
		DepositHeld: rb.Bid.DepositRequired,
		Status:      domain.WindowOpen,
		OpenedAt:    now,
		Deadline:    now.Add(uc.WindowTTL),
	}
	if err := uc.SettlementRepo.CreateWindow(window); err != nil {
		return err
	}
	if err := uc.SettlementRepo.UpdateNextRank(settlement.ID, rb.Rank+1); err != nil {
		return err
	}
	settlement.NextRank = rb.Rank + 1

	if uc.Scheduler != nil {
		uc.Scheduler.Schedule(window.ID, window.Deadline)
	}
	if uc.Metrics != nil {
		uc.Metrics.RecordWindowOpened(string(role))
	}

	uc.publishEvent(publisher.SettlementEvent{
		Kind:         publisher.EventWindowOpened,
		AuctionID:    auction.ID,
		SettlementID: settlement.ID,
		RefCode:      settlement.RefCode,
		WindowID:     window.ID,
		BidderID:     window.BidderID,
		Role:         string(role),
		AmountDue:    window.AmountDue.String(),
		Currency:     auction.Currency,
		Deadline:     &window.Deadline,
	})

	slog.Info("payment window opened",
		"auction_id", auction.ID, "window_id", window.ID, "bidder_id", window.BidderID,
		"role", role, "rank", rb.Rank, "amount_due", window.AmountDue.String(),
		"deadline", window.Deadline)

	return nil
}
