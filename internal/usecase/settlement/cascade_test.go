package settlement

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/peterldowns/testy/assert"
	"github.com/shopspring/decimal"

	"github.com/pashubazaar/settlement-service/internal/domain"
	ledgerdto "github.com/pashubazaar/settlement-service/internal/usecase/dto/ledger"
)

var testStart = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

type cascadeEnv struct {
	engine    *DefaultSettlementUsecase
	repo      *fakeSettlementRepo
	auction   *domain.Auction
	processor *fakeProcessor
	scheduler *fakeScheduler
	directory *fakeDirectory
	now       time.Time
}

func (env *cascadeEnv) advanceClock(d time.Duration) {
	env.now = env.now.Add(d)
}

func rankedBid(rank int, bidderID string, amount, deposit int64) *ledgerdto.RankedBid {
	return &ledgerdto.RankedBid{
		Rank: rank,
		Bid: &domain.Bid{
			ID:              "bid-" + bidderID,
			AuctionID:       "auction-1",
			BidderID:        bidderID,
			Amount:          decimal.NewFromInt(amount),
			DepositRequired: decimal.NewFromInt(deposit),
			DepositPaid:     decimal.NewFromInt(deposit),
			Status:          domain.BidActive,
			SubmittedAt:     testStart.Add(-time.Hour),
		},
	}
}

func newCascadeEnv(ranked ...*ledgerdto.RankedBid) *cascadeEnv {
	auction := &domain.Auction{
		ID:             "auction-1",
		SellerID:       "seller-1",
		Currency:       "INR",
		MinBidPrice:    decimal.NewFromInt(2000),
		DepositPercent: decimal.NewFromInt(10),
		Eligibility:    domain.EligibilityAll,
		Status:         domain.AuctionClosed,
		EndsAt:         testStart.Add(-time.Minute),
	}

	env := &cascadeEnv{
		repo:      newFakeSettlementRepo(),
		auction:   auction,
		processor: &fakeProcessor{},
		scheduler: newFakeScheduler(),
		directory: &fakeDirectory{blocked: make(map[string]bool)},
		now:       testStart,
	}

	env.engine = NewDefaultSettlementUsecase(
		env.repo,
		newFakeAuctionRepo(auction),
		&fakeLedger{ranked: ranked},
		env.processor,
		env.directory,
		nil,
		nil,
		env.scheduler,
		10*time.Minute,
		30*time.Minute,
	)
	env.engine.Now = func() time.Time { return env.now }
	return env
}

func (env *cascadeEnv) start(t *testing.T) {
	t.Helper()
	_, err := env.engine.StartSettlement(context.Background(), "auction-1")
	assert.NoError(t, err)
}

func (env *cascadeEnv) openWindow(t *testing.T) *domain.PaymentWindow {
	t.Helper()
	window, err := env.repo.GetOpenWindowByAuctionID("auction-1")
	assert.NoError(t, err)
	assert.NotNil(t, window)
	return window
}

func (env *cascadeEnv) settlement(t *testing.T) *domain.Settlement {
	t.Helper()
	s, err := env.repo.GetSettlementByAuctionID("auction-1")
	assert.NoError(t, err)
	assert.NotNil(t, s)
	return s
}

func TestStartSettlementOpensWinnerWindow(t *testing.T) {
	env := newCascadeEnv(
		rankedBid(0, "winner", 2500, 250),
		rankedBid(1, "backup-1", 2400, 240),
	)

	out, err := env.engine.StartSettlement(context.Background(), "auction-1")
	assert.NoError(t, err)
	assert.Equal(t, domain.SettlementPending, out.Status)
	assert.Equal(t, 10, len(out.RefCode))

	window := env.openWindow(t)
	assert.Equal(t, "winner", window.BidderID)
	assert.Equal(t, domain.RoleWinner, window.Role)
	assert.Equal(t, 0, window.Rank)
	assert.Equal(t, "2500", window.AmountDue.String())
	assert.Equal(t, testStart.Add(10*time.Minute), window.Deadline)

	// The expiry check is armed at the window's absolute deadline.
	assert.Equal(t, window.Deadline, env.scheduler.scheduled[window.ID])
	assert.Equal(t, 1, env.settlement(t).NextRank)
}

func TestStartSettlementRequiresClosedAuction(t *testing.T) {
	env := newCascadeEnv(rankedBid(0, "winner", 2500, 250))
	env.auction.Status = domain.AuctionActive

	_, err := env.engine.StartSettlement(context.Background(), "auction-1")
	assert.True(t, errors.Is(err, domain.ErrAuctionNotClosed))
}

func TestStartSettlementRejectsDuplicate(t *testing.T) {
	env := newCascadeEnv(rankedBid(0, "winner", 2500, 250))
	env.start(t)

	_, err := env.engine.StartSettlement(context.Background(), "auction-1")
	assert.True(t, errors.Is(err, domain.ErrSettlementExists))
}

func TestStartSettlementNoBiddersGoesToReview(t *testing.T) {
	env := newCascadeEnv()

	_, err := env.engine.StartSettlement(context.Background(), "auction-1")
	assert.True(t, domain.IsInvariantViolation(err))
	assert.Equal(t, domain.SettlementUnderReview, env.settlement(t).Status)
}

func TestWinnerExpiryForfeitsDepositAndOffersBackup(t *testing.T) {
	env := newCascadeEnv(
		rankedBid(0, "winner", 2500, 250),
		rankedBid(1, "backup-1", 2400, 240),
	)
	env.start(t)
	winnerWindow := env.openWindow(t)

	env.advanceClock(10*time.Minute + time.Second)
	assert.NoError(t, env.engine.ExpireWindow(context.Background(), winnerWindow.ID))

	outcomes, err := env.repo.ListWindowOutcomes(env.settlement(t).ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(outcomes))
	assert.Equal(t, domain.WindowExpired, outcomes[0].Status)
	assert.Equal(t, "250.00", outcomes[0].ForfeitedDeposit.StringFixed(2))

	// The backup pays their own bid amount, not the winner's.
	backupWindow := env.openWindow(t)
	assert.Equal(t, "backup-1", backupWindow.BidderID)
	assert.Equal(t, domain.RoleBackup, backupWindow.Role)
	assert.Equal(t, "2400", backupWindow.AmountDue.String())
	assert.Equal(t, env.now.Add(10*time.Minute), backupWindow.Deadline)
}

func TestAttemptPaymentFinalizesSold(t *testing.T) {
	env := newCascadeEnv(
		rankedBid(0, "winner", 2500, 250),
		rankedBid(1, "backup-1", 2400, 240),
	)
	env.start(t)
	window := env.openWindow(t)

	assert.NoError(t, env.engine.AttemptPayment(context.Background(), window.ID))

	s := env.settlement(t)
	assert.Equal(t, domain.SettlementSold, s.Status)
	assert.Equal(t, "winner", s.BuyerID)
	assert.Equal(t, "2500", s.FinalAmount.String())
	assert.Equal(t, domain.AuctionSettled, env.auction.Status)

	outcomes, err := env.repo.ListWindowOutcomes(s.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(outcomes))
	assert.Equal(t, domain.WindowPaid, outcomes[0].Status)
	assert.Equal(t, "0.00", outcomes[0].ForfeitedDeposit.StringFixed(2))

	// The buyer's deposit comes back once the full amount is paid.
	assert.Equal(t, []string{"winner:250.00"}, env.processor.refunds)

	// No further windows after the sale.
	open, err := env.repo.GetOpenWindowByAuctionID("auction-1")
	assert.NoError(t, err)
	assert.Nil(t, open)
}

func TestAttemptPaymentFailureKeepsWindowOpen(t *testing.T) {
	env := newCascadeEnv(rankedBid(0, "winner", 2500, 250))
	env.processor.failures = 2
	env.start(t)
	window := env.openWindow(t)

	err := env.engine.AttemptPayment(context.Background(), window.ID)
	assert.True(t, domain.IsPaymentAttemptError(err))

	// The window is untouched: same deadline, still OPEN, retry allowed.
	current, repoErr := env.repo.GetWindowByID(window.ID)
	assert.NoError(t, repoErr)
	assert.Equal(t, domain.WindowOpen, current.Status)
	assert.Equal(t, window.Deadline, current.Deadline)

	err = env.engine.AttemptPayment(context.Background(), window.ID)
	assert.True(t, domain.IsPaymentAttemptError(err))

	assert.NoError(t, env.engine.AttemptPayment(context.Background(), window.ID))
	assert.Equal(t, domain.SettlementSold, env.settlement(t).Status)
}

func TestBackupDeclineAdvancesImmediately(t *testing.T) {
	env := newCascadeEnv(
		rankedBid(0, "winner", 2500, 250),
		rankedBid(1, "backup-1", 2400, 240),
		rankedBid(2, "backup-2", 2300, 230),
	)
	env.start(t)

	env.advanceClock(11 * time.Minute)
	assert.NoError(t, env.engine.ExpireWindow(context.Background(), env.openWindow(t).ID))

	backupWindow := env.openWindow(t)
	assert.Equal(t, "backup-1", backupWindow.BidderID)

	// Declining does not wait out the 10 minutes.
	env.advanceClock(time.Minute)
	assert.NoError(t, env.engine.DeclineWindow(context.Background(), backupWindow.ID))

	next := env.openWindow(t)
	assert.Equal(t, "backup-2", next.BidderID)
	assert.Equal(t, "2300", next.AmountDue.String())

	outcomes, err := env.repo.ListWindowOutcomes(env.settlement(t).ID)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(outcomes))
	assert.Equal(t, domain.WindowDeclined, outcomes[1].Status)
	assert.Equal(t, "240.00", outcomes[1].ForfeitedDeposit.StringFixed(2))
}

func TestWinnerCannotDecline(t *testing.T) {
	env := newCascadeEnv(rankedBid(0, "winner", 2500, 250))
	env.start(t)

	err := env.engine.DeclineWindow(context.Background(), env.openWindow(t).ID)
	assert.True(t, errors.Is(err, domain.ErrDeclineNotAllowed))
}

func TestLateConfirmationAfterExpiryIsRejected(t *testing.T) {
	env := newCascadeEnv(
		rankedBid(0, "winner", 2500, 250),
		rankedBid(1, "backup-1", 2400, 240),
	)
	env.start(t)
	winnerWindow := env.openWindow(t)

	env.advanceClock(11 * time.Minute)
	assert.NoError(t, env.engine.ExpireWindow(context.Background(), winnerWindow.ID))

	// The gateway confirmation loses the race: no double sale, and the
	// amount that was charged is sent back in full.
	err := env.engine.ConfirmPayment(context.Background(), winnerWindow.ID, "pay-late")
	assert.True(t, errors.Is(err, domain.ErrWindowClosed))
	assert.Equal(t, []string{"winner:2500.00"}, env.processor.refunds)

	backupWindow := env.openWindow(t)
	assert.Equal(t, "backup-1", backupWindow.BidderID)
	assert.Equal(t, domain.SettlementPending, env.settlement(t).Status)
}

func TestRepeatedConfirmationIsIdempotent(t *testing.T) {
	env := newCascadeEnv(rankedBid(0, "winner", 2500, 250))
	env.start(t)
	window := env.openWindow(t)

	assert.NoError(t, env.engine.ConfirmPayment(context.Background(), window.ID, "pay-1"))
	assert.NoError(t, env.engine.ConfirmPayment(context.Background(), window.ID, "pay-1"))

	outcomes, err := env.repo.ListWindowOutcomes(env.settlement(t).ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(outcomes))

	// Only the single deposit return, no late-payment reversal.
	assert.Equal(t, []string{"winner:250.00"}, env.processor.refunds)
}

func TestExhaustedQueueEndsUnsold(t *testing.T) {
	env := newCascadeEnv(
		rankedBid(0, "winner", 2500, 250),
		rankedBid(1, "backup-1", 2400, 240),
		rankedBid(2, "backup-2", 2300, 230),
	)
	env.start(t)

	for i := 0; i < 3; i++ {
		window := env.openWindow(t)
		env.advanceClock(11 * time.Minute)
		assert.NoError(t, env.engine.ExpireWindow(context.Background(), window.ID))
	}

	s := env.settlement(t)
	assert.Equal(t, domain.SettlementUnsold, s.Status)
	assert.Equal(t, domain.AuctionUnsold, env.auction.Status)

	// One audit entry per party offered, all with forfeitures.
	outcomes, err := env.repo.ListWindowOutcomes(s.ID)
	assert.NoError(t, err)
	assert.Equal(t, 3, len(outcomes))
	for _, o := range outcomes {
		assert.Equal(t, domain.WindowExpired, o.Status)
		assert.True(t, o.ForfeitedDeposit.IsPositive())
	}
}

func TestIneligibleBackupIsSkippedWithoutWindow(t *testing.T) {
	env := newCascadeEnv(
		rankedBid(0, "winner", 2500, 250),
		rankedBid(1, "backup-1", 2400, 240),
		rankedBid(2, "backup-2", 2300, 230),
	)
	env.start(t)

	// backup-1 loses eligibility between admission and their turn.
	env.directory.blocked["backup-1"] = true

	env.advanceClock(11 * time.Minute)
	assert.NoError(t, env.engine.ExpireWindow(context.Background(), env.openWindow(t).ID))

	next := env.openWindow(t)
	assert.Equal(t, "backup-2", next.BidderID)

	outcomes, err := env.repo.ListWindowOutcomes(env.settlement(t).ID)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(outcomes))

	skipped := outcomes[1]
	assert.Equal(t, "backup-1", skipped.BidderID)
	assert.Equal(t, domain.WindowDeclined, skipped.Status)
	// No window was ever opened for the skipped party.
	assert.Equal(t, "", skipped.WindowID)
	assert.Equal(t, "0.00", skipped.ForfeitedDeposit.StringFixed(2))
}

func TestCancelMidCascadeForceExpiresWithoutForfeit(t *testing.T) {
	env := newCascadeEnv(
		rankedBid(0, "winner", 2500, 250),
		rankedBid(1, "backup-1", 2400, 240),
	)
	env.start(t)
	window := env.openWindow(t)

	assert.NoError(t, env.engine.CancelSettlement(context.Background(), "auction-1"))

	s := env.settlement(t)
	assert.Equal(t, domain.SettlementCancelled, s.Status)
	assert.Equal(t, domain.AuctionCancelled, env.auction.Status)

	// No backup is offered after cancellation.
	open, err := env.repo.GetOpenWindowByAuctionID("auction-1")
	assert.NoError(t, err)
	assert.Nil(t, open)

	// The force-expired party keeps their deposit.
	outcomes, err := env.repo.ListWindowOutcomes(s.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(outcomes))
	assert.Equal(t, window.ID, outcomes[0].WindowID)
	assert.Equal(t, "0.00", outcomes[0].ForfeitedDeposit.StringFixed(2))
	assert.Equal(t, []string{"winner:250.00"}, env.processor.refunds)
	assert.Equal(t, []string{window.ID}, env.scheduler.cancelled)
}

func TestCancelAfterFinalizedIsRejected(t *testing.T) {
	env := newCascadeEnv(rankedBid(0, "winner", 2500, 250))
	env.start(t)
	assert.NoError(t, env.engine.AttemptPayment(context.Background(), env.openWindow(t).ID))

	err := env.engine.CancelSettlement(context.Background(), "auction-1")
	assert.True(t, errors.Is(err, domain.ErrSettlementFinalized))
	assert.Equal(t, domain.SettlementSold, env.settlement(t).Status)
}

func TestEarlyExpiryFireReschedules(t *testing.T) {
	env := newCascadeEnv(rankedBid(0, "winner", 2500, 250))
	env.start(t)
	window := env.openWindow(t)

	// Fires with time still on the clock, e.g. after a reschedule race.
	env.advanceClock(5 * time.Minute)
	assert.NoError(t, env.engine.ExpireWindow(context.Background(), window.ID))

	current, err := env.repo.GetWindowByID(window.ID)
	assert.NoError(t, err)
	assert.Equal(t, domain.WindowOpen, current.Status)
	assert.Equal(t, window.Deadline, env.scheduler.scheduled[window.ID])
}

func TestRescheduleOpenWindowsAfterRestart(t *testing.T) {
	env := newCascadeEnv(rankedBid(0, "winner", 2500, 250))
	env.start(t)
	window := env.openWindow(t)

	// Simulate a restart: a fresh scheduler with no armed timers.
	env.scheduler = newFakeScheduler()
	env.engine.Scheduler = env.scheduler

	assert.NoError(t, env.engine.RescheduleOpenWindows(context.Background()))
	// Re-armed at the stored absolute deadline, not deadline-from-now.
	assert.Equal(t, window.Deadline, env.scheduler.scheduled[window.ID])
}

func TestGetSettlementStateCountdown(t *testing.T) {
	env := newCascadeEnv(rankedBid(0, "winner", 2500, 250))
	env.start(t)

	env.advanceClock(4 * time.Minute)
	state, err := env.engine.GetSettlementState(context.Background(), "auction-1")
	assert.NoError(t, err)
	assert.Equal(t, domain.SettlementPending, state.Status)
	assert.NotNil(t, state.OpenWindow)
	assert.Equal(t, int64(6*60), state.OpenWindow.RemainingSeconds)

	env.advanceClock(20 * time.Minute)
	state, err = env.engine.GetSettlementState(context.Background(), "auction-1")
	assert.NoError(t, err)
	assert.Equal(t, int64(0), state.OpenWindow.RemainingSeconds)
}

func TestGetSettlementStateUnknownAuction(t *testing.T) {
	env := newCascadeEnv(rankedBid(0, "winner", 2500, 250))

	_, err := env.engine.GetSettlementState(context.Background(), "auction-unknown")
	assert.True(t, errors.Is(err, domain.ErrSettlementNotFound))
}

func TestReviewStuckSettlementsFlagsStalledCascade(t *testing.T) {
	env := newCascadeEnv(rankedBid(0, "winner", 2500, 250))
	env.start(t)

	// Kill the open window behind the engine's back: PENDING with no
	// window is exactly the state a crashed advance leaves behind.
	window := env.openWindow(t)
	_, err := env.repo.CloseWindow(window.ID, domain.WindowExpired, "", env.now)
	assert.NoError(t, err)

	// Not stale yet: the monitor leaves it alone.
	assert.NoError(t, env.engine.ReviewStuckSettlements(context.Background()))
	assert.Equal(t, domain.SettlementPending, env.settlement(t).Status)

	env.advanceClock(31 * time.Minute)
	assert.NoError(t, env.engine.ReviewStuckSettlements(context.Background()))
	assert.Equal(t, domain.SettlementUnderReview, env.settlement(t).Status)
	assert.Equal(t, "stalled cascade", env.settlement(t).ReviewReason)
}
