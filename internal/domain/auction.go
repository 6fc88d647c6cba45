package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type AuctionStatus string

const (
	AuctionDraft     AuctionStatus = "DRAFT"
	AuctionActive    AuctionStatus = "ACTIVE"
	AuctionClosed    AuctionStatus = "CLOSED"
	AuctionSettled   AuctionStatus = "SETTLED"
	AuctionUnsold    AuctionStatus = "UNSOLD"
	AuctionCancelled AuctionStatus = "CANCELLED"
)

type BidVisibility string

const (
	VisibilityPublic     BidVisibility = "PUBLIC"
	VisibilitySellerOnly BidVisibility = "SELLER_ONLY"
)

type EligibilityFilter string

const (
	EligibilityAll          EligibilityFilter = "ALL"
	EligibilityVerifiedOnly EligibilityFilter = "VERIFIED_ONLY"
)

// AutoExtendRule pushes the auction end time out when a qualifying bid
// lands within the last ThresholdMinutes of the auction.
type AutoExtendRule struct {
	ThresholdMinutes int
	ExtensionMinutes int
}

type Auction struct {
	ID             string
	SellerID       string
	ItemID         string
	Currency       string
	StartingPrice  decimal.Decimal
	ReservePrice   *decimal.Decimal
	MinBidPrice    decimal.Decimal
	BuyNowPrice    *decimal.Decimal
	DepositPercent decimal.Decimal // zero means no deposit required
	ProxyAllowed   bool
	Eligibility    EligibilityFilter
	BidVisibility  BidVisibility
	AutoExtend     *AutoExtendRule
	Status         AuctionStatus
	StartsAt       time.Time
	EndsAt         time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// InExtendWindow reports whether t falls inside the auto-extend threshold
// before the current end time.
func (a *Auction) InExtendWindow(t time.Time) bool {
	if a.AutoExtend == nil {
		return false
	}
	threshold := time.Duration(a.AutoExtend.ThresholdMinutes) * time.Minute
	return t.After(a.EndsAt.Add(-threshold)) && t.Before(a.EndsAt)
}

func (a *Auction) RequiresDeposit() bool {
	return a.DepositPercent.IsPositive()
}

type AuctionRepository interface {
	CreateAuction(auction *Auction) error
	GetAuctionByID(auctionID string) (*Auction, error)
	UpdateAuctionStatus(auctionID string, newStatus AuctionStatus) error
	ExtendAuctionEnd(auctionID string, newEnd time.Time) error
	FindEndedAuctions(now time.Time) ([]*Auction, error)
	FindAuctionsByStatus(status AuctionStatus) ([]*Auction, error)
}
