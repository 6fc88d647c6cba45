package models

import (
	"time"

	"github.com/pashubazaar/settlement-service/internal/domain"
	"github.com/shopspring/decimal"
)

type AuctionModel struct {
	ID                 string               `gorm:"primaryKey;type:uuid"`
	SellerID           string               `gorm:"type:uuid;index:idx_seller"`
	ItemID             string               `gorm:"type:uuid"`
	Currency           string
	StartingPrice      decimal.Decimal      `gorm:"type:numeric(14,2)"`
	ReservePrice       *decimal.Decimal     `gorm:"type:numeric(14,2)"`
	MinBidPrice        decimal.Decimal      `gorm:"type:numeric(14,2)"`
	BuyNowPrice        *decimal.Decimal     `gorm:"type:numeric(14,2)"`
	DepositPercent     decimal.Decimal      `gorm:"type:numeric(5,2)"`
	ProxyAllowed       bool
	Eligibility        string
	BidVisibility      string
	AutoExtendEnabled  bool
	ExtendThresholdMin int
	ExtendByMin        int
	Status             domain.AuctionStatus `gorm:"index:idx_status_ends"`
	StartsAt           time.Time
	EndsAt             time.Time            `gorm:"index:idx_status_ends"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
