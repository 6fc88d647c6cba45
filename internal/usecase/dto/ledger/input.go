package ledgerdto

import "github.com/shopspring/decimal"

type SubmitBidInput struct {
	AuctionID     string
	BidderID      string
	Amount        decimal.Decimal
	IsProxy       bool
	DepositAmount decimal.Decimal
}
