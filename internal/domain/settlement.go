package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type WindowStatus string

const (
	WindowOpen     WindowStatus = "OPEN"
	WindowPaid     WindowStatus = "PAID"
	WindowDeclined WindowStatus = "DECLINED"
	WindowExpired  WindowStatus = "EXPIRED"
)

type PartyRole string

const (
	RoleWinner PartyRole = "WINNER"
	RoleBackup PartyRole = "BACKUP"
)

// PaymentWindow is one "pay or be replaced" task: a single party, a single
// amount, a single absolute deadline. Terminal states are final; a window
// is never reopened for the same party.
type PaymentWindow struct {
	ID           string
	AuctionID    string
	SettlementID string
	BidID        string
	BidderID     string
	Role         PartyRole
	Rank         int
	AmountDue    decimal.Decimal
	DepositHeld  decimal.Decimal
	Status       WindowStatus
	PaymentRef   string
	OpenedAt     time.Time
	Deadline     time.Time
	ClosedAt     *time.Time
}

func (w *PaymentWindow) Terminal() bool {
	return w.Status != WindowOpen
}

// Remaining is the wall-clock time left before the deadline, floored at
// zero. Computed from the stored absolute deadline so a process restart
// never resets the timer.
func (w *PaymentWindow) Remaining(now time.Time) time.Duration {
	if !now.Before(w.Deadline) {
		return 0
	}
	return w.Deadline.Sub(now)
}

type SettlementStatus string

const (
	SettlementPending     SettlementStatus = "PENDING"
	SettlementSold        SettlementStatus = "SOLD"
	SettlementUnsold      SettlementStatus = "UNSOLD"
	SettlementCancelled   SettlementStatus = "CANCELLED"
	SettlementUnderReview SettlementStatus = "UNDER_REVIEW"
)

func (s SettlementStatus) Terminal() bool {
	return s == SettlementSold || s == SettlementUnsold || s == SettlementCancelled
}

// Settlement is the per-auction cascade state. NextRank points at the next
// ranked party to offer; CancelRequested is the cooperative cancellation
// flag checked before every advance.
type Settlement struct {
	ID              string
	RefCode         string
	AuctionID       string
	Status          SettlementStatus
	CancelRequested bool
	NextRank        int
	BuyerID         string
	FinalAmount     decimal.Decimal
	ReviewReason    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// WindowOutcome is one entry of the append-only audit trail. WindowID is
// empty when a backup was skipped without a window being opened.
type WindowOutcome struct {
	ID               string
	SettlementID     string
	AuctionID        string
	WindowID         string
	BidderID         string
	Role             PartyRole
	Rank             int
	AmountDue        decimal.Decimal
	Status           WindowStatus
	Reason           string
	ForfeitedDeposit decimal.Decimal
	PaymentRef       string
	RecordedAt       time.Time
}

// SettlementRepository persists settlements, windows and the audit trail.
// The ByAuctionID lookups return (nil, nil) when nothing matches.
type SettlementRepository interface {
	CreateSettlement(settlement *Settlement) error
	GetSettlementByID(settlementID string) (*Settlement, error)
	GetSettlementByAuctionID(auctionID string) (*Settlement, error)
	UpdateNextRank(settlementID string, rank int) error
	RequestCancel(settlementID string) error
	MarkUnderReview(settlementID string, reason string) error
	// FinalizeSettlement sets the terminal outcome. It must refuse to
	// overwrite an already-final record.
	FinalizeSettlement(settlementID string, status SettlementStatus, buyerID string, amount decimal.Decimal) error
	// FindStuckSettlements returns PENDING settlements with no open
	// window not updated since cutoff.
	FindStuckSettlements(cutoff time.Time) ([]*Settlement, error)

	CreateWindow(window *PaymentWindow) error
	GetWindowByID(windowID string) (*PaymentWindow, error)
	GetOpenWindowByAuctionID(auctionID string) (*PaymentWindow, error)
	// CloseWindow transitions a window out of OPEN. The update is
	// conditional on the current status still being OPEN: the first
	// transition wins and a losing caller gets ok=false.
	CloseWindow(windowID string, newStatus WindowStatus, paymentRef string, closedAt time.Time) (bool, error)
	FindOpenWindows() ([]*PaymentWindow, error)

	AppendWindowOutcome(outcome *WindowOutcome) error
	ListWindowOutcomes(settlementID string) ([]*WindowOutcome, error)
}
