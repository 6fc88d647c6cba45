package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type BidStatus string

const (
	BidActive     BidStatus = "ACTIVE"
	BidSuperseded BidStatus = "SUPERSEDED"
	BidWinning    BidStatus = "WINNING"
)

// Bid is append-only: status is the only mutable field, rows are never
// deleted (audit requirement).
type Bid struct {
	ID              string
	AuctionID       string
	BidderID        string
	Amount          decimal.Decimal
	IsProxy         bool
	DepositRequired decimal.Decimal
	DepositPaid     decimal.Decimal
	BelowMinimum    bool
	Status          BidStatus
	SubmittedAt     time.Time
}

// DepositSatisfied reports whether the bid is backed by the deposit the
// auction demands. Bids with no deposit requirement always satisfy.
func (b *Bid) DepositSatisfied() bool {
	if !b.DepositRequired.IsPositive() {
		return true
	}
	return b.DepositPaid.GreaterThanOrEqual(b.DepositRequired)
}

// Rankable reports whether the bid may enter the ranked list: active,
// at or above the minimum, and deposit-backed.
func (b *Bid) Rankable() bool {
	return b.Status != BidSuperseded && !b.BelowMinimum && b.DepositSatisfied()
}

type BidRepository interface {
	CreateBid(bid *Bid) error
	UpdateBidStatus(bidID string, newStatus BidStatus) error
	GetBidByID(bidID string) (*Bid, error)
	GetBidsByAuctionID(auctionID string) ([]*Bid, error)
	GetActiveBidByBidder(auctionID, bidderID string) (*Bid, error)
}
