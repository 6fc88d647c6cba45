package publisher

import "time"

const (
	TopicSettlementEvents     = "settlement-events"
	TopicPaymentConfirmations = "payment-confirmations"
)

const (
	EventWindowOpened   = "window-opened"
	EventWindowClosed   = "window-closed"
	EventCascadeOutcome = "cascade-outcome"
	EventLatePayment    = "late-payment"
)

// SettlementEvent is the notification/UI boundary payload: screens
// subscribe to render countdowns and backup-offer lists.
type SettlementEvent struct {
	Kind             string     `json:"kind"`
	AuctionID        string     `json:"auction_id"`
	SettlementID     string     `json:"settlement_id"`
	RefCode          string     `json:"ref_code"`
	WindowID         string     `json:"window_id,omitempty"`
	BidderID         string     `json:"bidder_id,omitempty"`
	Role             string     `json:"role,omitempty"`
	AmountDue        string     `json:"amount_due,omitempty"`
	Currency         string     `json:"currency,omitempty"`
	Deadline         *time.Time `json:"deadline,omitempty"`
	WindowStatus     string     `json:"window_status,omitempty"`
	ForfeitedDeposit string     `json:"forfeited_deposit,omitempty"`
	Outcome          string     `json:"outcome,omitempty"`
	Reason           string     `json:"reason,omitempty"`
}

// PaymentConfirmation is consumed from the payment-confirmations topic:
// the gateway reports an already-executed charge for an open window.
type PaymentConfirmation struct {
	WindowID   string `json:"window_id"`
	PaymentRef string `json:"payment_ref"`
}
