package models

import (
	"time"

	"github.com/pashubazaar/settlement-service/internal/domain"
	"github.com/shopspring/decimal"
)

type SettlementModel struct {
	ID              string                  `gorm:"primaryKey;type:uuid"`
	RefCode         string                  `gorm:"index:idx_settlement_ref"`
	AuctionID       string                  `gorm:"type:uuid;uniqueIndex:idx_settlement_auction"`
	Status          domain.SettlementStatus `gorm:"index:idx_settlement_status"`
	CancelRequested bool
	NextRank        int
	BuyerID         string
	FinalAmount     decimal.Decimal `gorm:"type:numeric(14,2)"`
	ReviewReason    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type PaymentWindowModel struct {
	ID           string              `gorm:"primaryKey;type:uuid"`
	AuctionID    string              `gorm:"type:uuid;index:idx_window_auction_status"`
	SettlementID string              `gorm:"type:uuid;index:idx_window_settlement"`
	BidID        string              `gorm:"type:uuid"`
	BidderID     string              `gorm:"type:uuid"`
	Role         domain.PartyRole
	Rank         int
	AmountDue    decimal.Decimal     `gorm:"type:numeric(14,2)"`
	DepositHeld  decimal.Decimal     `gorm:"type:numeric(14,2)"`
	Status       domain.WindowStatus `gorm:"index:idx_window_auction_status"`
	PaymentRef   string
	OpenedAt     time.Time
	Deadline     time.Time
	ClosedAt     *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// WindowOutcomeModel rows are append-only; ULID primary keys keep the
// trail in recording order.
type WindowOutcomeModel struct {
	ID               string `gorm:"primaryKey"`
	SettlementID     string `gorm:"type:uuid;index:idx_outcome_settlement"`
	AuctionID        string `gorm:"type:uuid;index:idx_outcome_auction"`
	WindowID         string
	BidderID         string
	Role             domain.PartyRole
	Rank             int
	AmountDue        decimal.Decimal     `gorm:"type:numeric(14,2)"`
	Status           domain.WindowStatus
	Reason           string
	ForfeitedDeposit decimal.Decimal     `gorm:"type:numeric(14,2)"`
	PaymentRef       string
	RecordedAt       time.Time
}
