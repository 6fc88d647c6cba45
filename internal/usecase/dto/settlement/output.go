package settlementdto

import (
	"time"

	"github.com/pashubazaar/settlement-service/internal/domain"
	"github.com/shopspring/decimal"
)

type SettlementOutput struct {
	SettlementID string
	RefCode      string
	AuctionID    string
	Status       domain.SettlementStatus
}

// OpenWindowState is the live countdown payload the UI polls.
type OpenWindowState struct {
	WindowID         string
	BidderID         string
	Role             domain.PartyRole
	Rank             int
	AmountDue        decimal.Decimal
	Deadline         time.Time
	RemainingSeconds int64
}

type SettlementStateOutput struct {
	SettlementID string
	RefCode      string
	AuctionID    string
	Status       domain.SettlementStatus
	BuyerID      string
	FinalAmount  decimal.Decimal
	OpenWindow   *OpenWindowState
}
