package ledger

import (
	"context"
	"log/slog"

	"github.com/pashubazaar/settlement-service/internal/domain"
)

// CloseDueAuctions moves ACTIVE auctions past their end time to CLOSED and
// returns every auction awaiting settlement so the caller can start each
// cascade. The returned set is all CLOSED auctions, not just the ones
// closed this sweep: a buy-now closure never passes the ends_at cutoff, and
// settlement start is idempotent for auctions already picked up. Run
// periodically by the background sweeper.
func (uc *DefaultBidLedgerUsecase) CloseDueAuctions(ctx context.Context) ([]string, error) {
	auctions, err := uc.AuctionRepo.FindEndedAuctions(uc.Now())
	if err != nil {
		return nil, err
	}

	for _, auction := range auctions {
		if err := uc.AuctionRepo.UpdateAuctionStatus(auction.ID, domain.AuctionClosed); err != nil {
			slog.Error("failed to close ended auction", "auction_id", auction.ID, "error", err.Error())
			continue
		}
		slog.Info("auction closed", "auction_id", auction.ID)
	}

	pending, err := uc.AuctionRepo.FindAuctionsByStatus(domain.AuctionClosed)
	if err != nil {
		return nil, err
	}

	closed := make([]string, 0, len(pending))
	for _, auction := range pending {
		closed = append(closed, auction.ID)
	}
	return closed, nil
}
