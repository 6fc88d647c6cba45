package ledger

import (
	"context"
	"sort"

	"github.com/pashubazaar/settlement-service/internal/domain"
	ledgerdto "github.com/pashubazaar/settlement-service/internal/usecase/dto/ledger"
)

// RankedList derives the winner-first ordering: amount descending, ties
// broken by earliest submission, bid ID as the final deterministic
// tie-break. One entry per bidder (their highest rankable bid). The same
// input set always produces the same list, which replay and audit depend
// on.
func (uc *DefaultBidLedgerUsecase) RankedList(ctx context.Context, auctionID string) ([]*ledgerdto.RankedBid, error) {
	bids, err := uc.BidRepo.GetBidsByAuctionID(auctionID)
	if err != nil {
		return nil, err
	}

	// Highest rankable bid per bidder.
	best := make(map[string]*domain.Bid)
	for _, bid := range bids {
		if !bid.Rankable() {
			continue
		}
		current, ok := best[bid.BidderID]
		if !ok || beats(bid, current) {
			best[bid.BidderID] = bid
		}
	}

	entries := make([]*domain.Bid, 0, len(best))
	for _, bid := range best {
		entries = append(entries, bid)
	}

	sort.Slice(entries, func(i, j int) bool {
		return beats(entries[i], entries[j])
	})

	ranked := make([]*ledgerdto.RankedBid, 0, len(entries))
	for rank, bid := range entries {
		ranked = append(ranked, &ledgerdto.RankedBid{Rank: rank, Bid: bid})
	}
	return ranked, nil
}

// beats defines the total order over bids: higher amount first, then
// earlier submission, then lexically smaller ID.
func beats(a, b *domain.Bid) bool {
	if !a.Amount.Equal(b.Amount) {
		return a.Amount.GreaterThan(b.Amount)
	}
	if !a.SubmittedAt.Equal(b.SubmittedAt) {
		return a.SubmittedAt.Before(b.SubmittedAt)
	}
	return a.ID < b.ID
}
