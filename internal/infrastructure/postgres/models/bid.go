package models

import (
	"time"

	"github.com/pashubazaar/settlement-service/internal/domain"
	"github.com/shopspring/decimal"
)

type BidModel struct {
	ID              string           `gorm:"primaryKey;type:uuid"`
	AuctionID       string           `gorm:"type:uuid;index:idx_bid_auction"`
	BidderID        string           `gorm:"type:uuid;index:idx_bid_bidder"`
	Amount          decimal.Decimal  `gorm:"type:numeric(14,2);index:idx_bid_amount"`
	IsProxy         bool
	DepositRequired decimal.Decimal  `gorm:"type:numeric(14,2)"`
	DepositPaid     decimal.Decimal  `gorm:"type:numeric(14,2)"`
	BelowMinimum    bool
	Status          domain.BidStatus `gorm:"index:idx_bid_status"`
	SubmittedAt     time.Time        `gorm:"index:idx_bid_submitted"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
