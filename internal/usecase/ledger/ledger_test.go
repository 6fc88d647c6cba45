package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/pashubazaar/settlement-service/internal/domain"
)

// In-memory doubles for the repository and directory ports. Maps keyed the
// same way the postgres repos index their tables.

type fakeAuctionRepo struct {
	auctions map[string]*domain.Auction
}

func newFakeAuctionRepo(auctions ...*domain.Auction) *fakeAuctionRepo {
	repo := &fakeAuctionRepo{auctions: make(map[string]*domain.Auction)}
	for _, a := range auctions {
		repo.auctions[a.ID] = a
	}
	return repo
}

func (r *fakeAuctionRepo) CreateAuction(auction *domain.Auction) error {
	r.auctions[auction.ID] = auction
	return nil
}

func (r *fakeAuctionRepo) GetAuctionByID(auctionID string) (*domain.Auction, error) {
	auction, ok := r.auctions[auctionID]
	if !ok {
		return nil, fmt.Errorf("auction %s not found", auctionID)
	}
	return auction, nil
}

func (r *fakeAuctionRepo) UpdateAuctionStatus(auctionID string, newStatus domain.AuctionStatus) error {
	auction, ok := r.auctions[auctionID]
	if !ok {
		return fmt.Errorf("auction %s not found", auctionID)
	}
	auction.Status = newStatus
	return nil
}

func (r *fakeAuctionRepo) ExtendAuctionEnd(auctionID string, newEnd time.Time) error {
	auction, ok := r.auctions[auctionID]
	if !ok {
		return fmt.Errorf("auction %s not found", auctionID)
	}
	auction.EndsAt = newEnd
	return nil
}

func (r *fakeAuctionRepo) FindEndedAuctions(now time.Time) ([]*domain.Auction, error) {
	var ended []*domain.Auction
	for _, a := range r.auctions {
		if a.Status == domain.AuctionActive && !a.EndsAt.After(now) {
			ended = append(ended, a)
		}
	}
	return ended, nil
}

func (r *fakeAuctionRepo) FindAuctionsByStatus(status domain.AuctionStatus) ([]*domain.Auction, error) {
	var matched []*domain.Auction
	for _, a := range r.auctions {
		if a.Status == status {
			matched = append(matched, a)
		}
	}
	return matched, nil
}

type fakeBidRepo struct {
	bids []*domain.Bid
}

func (r *fakeBidRepo) CreateBid(bid *domain.Bid) error {
	r.bids = append(r.bids, bid)
	return nil
}

func (r *fakeBidRepo) UpdateBidStatus(bidID string, newStatus domain.BidStatus) error {
	for _, b := range r.bids {
		if b.ID == bidID {
			b.Status = newStatus
			return nil
		}
	}
	return fmt.Errorf("bid %s not found", bidID)
}

func (r *fakeBidRepo) GetBidByID(bidID string) (*domain.Bid, error) {
	for _, b := range r.bids {
		if b.ID == bidID {
			return b, nil
		}
	}
	return nil, fmt.Errorf("bid %s not found", bidID)
}

func (r *fakeBidRepo) GetBidsByAuctionID(auctionID string) ([]*domain.Bid, error) {
	var out []*domain.Bid
	for _, b := range r.bids {
		if b.AuctionID == auctionID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBidRepo) GetActiveBidByBidder(auctionID, bidderID string) (*domain.Bid, error) {
	var best *domain.Bid
	for _, b := range r.bids {
		if b.AuctionID != auctionID || b.BidderID != bidderID || b.Status == domain.BidSuperseded {
			continue
		}
		if best == nil || b.Amount.GreaterThan(best.Amount) {
			best = b
		}
	}
	return best, nil
}

type fakeDirectory struct {
	// verified lists bidder IDs that pass a VERIFIED_ONLY filter; every
	// bidder passes ALL unless listed in blocked.
	verified map[string]bool
	blocked  map[string]bool
}

func newFakeDirectory(verifiedIDs ...string) *fakeDirectory {
	d := &fakeDirectory{verified: make(map[string]bool), blocked: make(map[string]bool)}
	for _, id := range verifiedIDs {
		d.verified[id] = true
	}
	return d
}

func (d *fakeDirectory) IsEligible(_ context.Context, bidderID string, filter domain.EligibilityFilter) (bool, error) {
	if d.blocked[bidderID] {
		return false, nil
	}
	if filter == domain.EligibilityVerifiedOnly {
		return d.verified[bidderID], nil
	}
	return true, nil
}
