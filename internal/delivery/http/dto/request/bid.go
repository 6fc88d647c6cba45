package request

type SubmitBidRequest struct {
	BidderID      string `json:"bidder_id" validate:"required,uuid4"`
	Amount        string `json:"amount" validate:"required"`
	DepositAmount string `json:"deposit_amount,omitempty"`
	IsProxy       bool   `json:"is_proxy,omitempty"`
}
