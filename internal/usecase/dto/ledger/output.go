package ledgerdto

import (
	"time"

	"github.com/pashubazaar/settlement-service/internal/domain"
	"github.com/shopspring/decimal"
)

type SubmitBidOutput struct {
	Bid *domain.Bid
	// BelowMinimum flags a bid retained for display but excluded from
	// the ranked list.
	BelowMinimum bool
	// DepositShortfall is the amount still owed before the bid can rank.
	DepositShortfall decimal.Decimal
	// AuctionClosed is set when the bid met the buy-now price and closed
	// the auction on the spot.
	AuctionClosed bool
	// ExtendedUntil is set when the bid triggered an auto-extension.
	ExtendedUntil *time.Time
}

// RankedBid pairs a ranked position with the underlying bid. Rank 0 is the
// provisional winner, the remainder form the backup queue.
type RankedBid struct {
	Rank int
	Bid  *domain.Bid
}
