package settlement

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pashubazaar/settlement-service/internal/domain"
	ledgerdto "github.com/pashubazaar/settlement-service/internal/usecase/dto/ledger"
)

// In-memory doubles for every port the engine touches. The settlement
// repo reproduces the conditional-update semantics of the postgres
// implementation, since the cascade's race guarantees hang off them.

type fakeSettlementRepo struct {
	mu          sync.Mutex
	settlements map[string]*domain.Settlement
	windows     map[string]*domain.PaymentWindow
	outcomes    []*domain.WindowOutcome
}

func newFakeSettlementRepo() *fakeSettlementRepo {
	return &fakeSettlementRepo{
		settlements: make(map[string]*domain.Settlement),
		windows:     make(map[string]*domain.PaymentWindow),
	}
}

func (r *fakeSettlementRepo) CreateSettlement(s *domain.Settlement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.settlements[s.ID] = &cp
	return nil
}

func (r *fakeSettlementRepo) GetSettlementByID(settlementID string) (*domain.Settlement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.settlements[settlementID]
	if !ok {
		return nil, domain.ErrSettlementNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSettlementRepo) GetSettlementByAuctionID(auctionID string) (*domain.Settlement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.settlements {
		if s.AuctionID == auctionID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeSettlementRepo) UpdateNextRank(settlementID string, rank int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.settlements[settlementID]
	if !ok {
		return domain.ErrSettlementNotFound
	}
	s.NextRank = rank
	return nil
}

func (r *fakeSettlementRepo) RequestCancel(settlementID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.settlements[settlementID]
	if !ok {
		return domain.ErrSettlementNotFound
	}
	s.CancelRequested = true
	return nil
}

func (r *fakeSettlementRepo) MarkUnderReview(settlementID string, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.settlements[settlementID]
	if !ok {
		return domain.ErrSettlementNotFound
	}
	s.Status = domain.SettlementUnderReview
	s.ReviewReason = reason
	return nil
}

func (r *fakeSettlementRepo) FinalizeSettlement(settlementID string, status domain.SettlementStatus, buyerID string, amount decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.settlements[settlementID]
	if !ok {
		return domain.ErrSettlementNotFound
	}
	if s.Status.Terminal() {
		return domain.ErrSettlementFinalized
	}
	s.Status = status
	s.BuyerID = buyerID
	s.FinalAmount = amount
	return nil
}

func (r *fakeSettlementRepo) FindStuckSettlements(cutoff time.Time) ([]*domain.Settlement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var stuck []*domain.Settlement
	for _, s := range r.settlements {
		if s.Status != domain.SettlementPending || !s.UpdatedAt.Before(cutoff) {
			continue
		}
		hasOpen := false
		for _, w := range r.windows {
			if w.SettlementID == s.ID && w.Status == domain.WindowOpen {
				hasOpen = true
				break
			}
		}
		if !hasOpen {
			cp := *s
			stuck = append(stuck, &cp)
		}
	}
	return stuck, nil
}

func (r *fakeSettlementRepo) CreateWindow(w *domain.PaymentWindow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *w
	r.windows[w.ID] = &cp
	return nil
}

func (r *fakeSettlementRepo) GetWindowByID(windowID string) (*domain.PaymentWindow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.windows[windowID]
	if !ok {
		return nil, domain.ErrWindowNotFound
	}
	cp := *w
	return &cp, nil
}

func (r *fakeSettlementRepo) GetOpenWindowByAuctionID(auctionID string) (*domain.PaymentWindow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range r.windows {
		if w.AuctionID == auctionID && w.Status == domain.WindowOpen {
			cp := *w
			return &cp, nil
		}
	}
	return nil, nil
}

// CloseWindow only succeeds while the row is still OPEN: first transition
// wins, matching the conditional UPDATE in postgres.
func (r *fakeSettlementRepo) CloseWindow(windowID string, newStatus domain.WindowStatus, paymentRef string, closedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.windows[windowID]
	if !ok {
		return false, domain.ErrWindowNotFound
	}
	if w.Status != domain.WindowOpen {
		return false, nil
	}
	w.Status = newStatus
	w.PaymentRef = paymentRef
	w.ClosedAt = &closedAt
	return true, nil
}

func (r *fakeSettlementRepo) FindOpenWindows() ([]*domain.PaymentWindow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var open []*domain.PaymentWindow
	for _, w := range r.windows {
		if w.Status == domain.WindowOpen {
			cp := *w
			open = append(open, &cp)
		}
	}
	return open, nil
}

func (r *fakeSettlementRepo) AppendWindowOutcome(outcome *domain.WindowOutcome) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *outcome
	r.outcomes = append(r.outcomes, &cp)
	return nil
}

func (r *fakeSettlementRepo) ListWindowOutcomes(settlementID string) ([]*domain.WindowOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.WindowOutcome
	for _, o := range r.outcomes {
		if o.SettlementID == settlementID {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeAuctionRepo struct {
	auctions map[string]*domain.Auction
}

func newFakeAuctionRepo(auctions ...*domain.Auction) *fakeAuctionRepo {
	repo := &fakeAuctionRepo{auctions: make(map[string]*domain.Auction)}
	for _, a := range auctions {
		repo.auctions[a.ID] = a
	}
	return repo
}

func (r *fakeAuctionRepo) CreateAuction(auction *domain.Auction) error {
	r.auctions[auction.ID] = auction
	return nil
}

func (r *fakeAuctionRepo) GetAuctionByID(auctionID string) (*domain.Auction, error) {
	auction, ok := r.auctions[auctionID]
	if !ok {
		return nil, fmt.Errorf("auction %s not found", auctionID)
	}
	return auction, nil
}

func (r *fakeAuctionRepo) UpdateAuctionStatus(auctionID string, newStatus domain.AuctionStatus) error {
	auction, ok := r.auctions[auctionID]
	if !ok {
		return fmt.Errorf("auction %s not found", auctionID)
	}
	auction.Status = newStatus
	return nil
}

func (r *fakeAuctionRepo) ExtendAuctionEnd(auctionID string, newEnd time.Time) error {
	auction, ok := r.auctions[auctionID]
	if !ok {
		return fmt.Errorf("auction %s not found", auctionID)
	}
	auction.EndsAt = newEnd
	return nil
}

func (r *fakeAuctionRepo) FindEndedAuctions(now time.Time) ([]*domain.Auction, error) {
	return nil, nil
}

func (r *fakeAuctionRepo) FindAuctionsByStatus(status domain.AuctionStatus) ([]*domain.Auction, error) {
	var matched []*domain.Auction
	for _, a := range r.auctions {
		if a.Status == status {
			matched = append(matched, a)
		}
	}
	return matched, nil
}

// fakeLedger serves a fixed ranked list, the way settlement consumes it.
type fakeLedger struct {
	ranked []*ledgerdto.RankedBid
}

func (l *fakeLedger) SubmitBid(_ context.Context, _ *ledgerdto.SubmitBidInput) (*ledgerdto.SubmitBidOutput, error) {
	return nil, errors.New("not used")
}

func (l *fakeLedger) RankedList(_ context.Context, _ string) ([]*ledgerdto.RankedBid, error) {
	return l.ranked, nil
}

func (l *fakeLedger) ListBids(_ context.Context, _ string) ([]*domain.Bid, error) {
	return nil, errors.New("not used")
}

func (l *fakeLedger) CloseDueAuctions(_ context.Context) ([]string, error) {
	return nil, errors.New("not used")
}

// fakeProcessor fails a configurable number of charges before succeeding.
type fakeProcessor struct {
	failures int
	charges  []string
	refunds  []string
}

func (p *fakeProcessor) Charge(_ context.Context, partyID string, amount decimal.Decimal, currency string) (string, error) {
	if p.failures > 0 {
		p.failures--
		return "", errors.New("gateway timeout")
	}
	ref := fmt.Sprintf("pay-%s-%d", partyID, len(p.charges))
	p.charges = append(p.charges, ref)
	return ref, nil
}

func (p *fakeProcessor) Refund(_ context.Context, partyID string, amount decimal.Decimal, currency string) error {
	p.refunds = append(p.refunds, fmt.Sprintf("%s:%s", partyID, amount.StringFixed(2)))
	return nil
}

type fakeDirectory struct {
	blocked map[string]bool
}

func (d *fakeDirectory) IsEligible(_ context.Context, bidderID string, _ domain.EligibilityFilter) (bool, error) {
	return !d.blocked[bidderID], nil
}

// fakeScheduler records arm/disarm calls without real timers.
type fakeScheduler struct {
	scheduled map[string]time.Time
	cancelled []string
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{scheduled: make(map[string]time.Time)}
}

func (s *fakeScheduler) Schedule(windowID string, deadline time.Time) {
	s.scheduled[windowID] = deadline
}

func (s *fakeScheduler) Cancel(windowID string) {
	s.cancelled = append(s.cancelled, windowID)
	delete(s.scheduled, windowID)
}
