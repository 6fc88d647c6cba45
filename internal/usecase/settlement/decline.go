package settlement

import (
	"context"

	"github.com/pashubazaar/settlement-service/internal/domain"
)

// DeclineWindow records an explicit refusal of a backup offer and advances
// the cascade immediately, without waiting out the deadline. The original
// winner cannot decline; their only exits are payment or expiry.
func (uc *DefaultSettlementUsecase) DeclineWindow(ctx context.Context, windowID string) error {
	window, err := uc.SettlementRepo.GetWindowByID(windowID)
	if err != nil {
		return err
	}
	if window.Terminal() {
		return domain.ErrWindowClosed
	}
	if window.Role != domain.RoleBackup {
		return domain.ErrDeclineNotAllowed
	}

	now := uc.Now()
	ok, err := uc.SettlementRepo.CloseWindow(window.ID, domain.WindowDeclined, "", now)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrWindowClosed
	}

	if uc.Scheduler != nil {
		uc.Scheduler.Cancel(window.ID)
	}

	return uc.closeAndAdvance(ctx, window, domain.WindowDeclined, "declined by backup bidder")
}
