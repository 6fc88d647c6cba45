package settlement

import (
	"context"
	"log/slog"

	"github.com/pashubazaar/settlement-service/internal/domain"
)

// ExpireWindow is the deadline check the scheduler fires once per window.
// Expiry is expected control flow, not an error: it forfeits the deposit
// and moves the cascade to the next backup. A confirmation that won the
// race leaves this a no-op.
func (uc *DefaultSettlementUsecase) ExpireWindow(ctx context.Context, windowID string) error {
	window, err := uc.SettlementRepo.GetWindowByID(windowID)
	if err != nil {
		return err
	}
	if window.Terminal() {
		return nil
	}

	now := uc.Now()
	if now.Before(window.Deadline) {
		// Fired early (clock drift after a reschedule); arm again for
		// the remaining time.
		if uc.Scheduler != nil {
			uc.Scheduler.Schedule(window.ID, window.Deadline)
		}
		return nil
	}

	ok, err := uc.SettlementRepo.CloseWindow(window.ID, domain.WindowExpired, "", now)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	slog.Info("payment window expired",
		"auction_id", window.AuctionID, "window_id", window.ID,
		"bidder_id", window.BidderID, "rank", window.Rank)

	return uc.closeAndAdvance(ctx, window, domain.WindowExpired, "payment deadline elapsed")
}

// RescheduleOpenWindows re-arms expiry checks for every OPEN window after
// a process restart, computing remaining time from the stored deadline.
func (uc *DefaultSettlementUsecase) RescheduleOpenWindows(ctx context.Context) error {
	windows, err := uc.SettlementRepo.FindOpenWindows()
	if err != nil {
		return err
	}
	for _, window := range windows {
		uc.Scheduler.Schedule(window.ID, window.Deadline)
	}
	if len(windows) > 0 {
		slog.Info("rescheduled open payment windows", "count", len(windows))
	}
	return nil
}
