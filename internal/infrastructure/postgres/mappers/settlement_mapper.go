package mappers

import (
	"github.com/pashubazaar/settlement-service/internal/domain"
	"github.com/pashubazaar/settlement-service/internal/infrastructure/postgres/models"
)

func ToDomainSettlement(model *models.SettlementModel) *domain.Settlement {
	return &domain.Settlement{
		ID:              model.ID,
		RefCode:         model.RefCode,
		AuctionID:       model.AuctionID,
		Status:          model.Status,
		CancelRequested: model.CancelRequested,
		NextRank:        model.NextRank,
		BuyerID:         model.BuyerID,
		FinalAmount:     model.FinalAmount,
		ReviewReason:    model.ReviewReason,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

func ToGORMSettlement(settlement *domain.Settlement) *models.SettlementModel {
	return &models.SettlementModel{
		ID:              settlement.ID,
		RefCode:         settlement.RefCode,
		AuctionID:       settlement.AuctionID,
		Status:          settlement.Status,
		CancelRequested: settlement.CancelRequested,
		NextRank:        settlement.NextRank,
		BuyerID:         settlement.BuyerID,
		FinalAmount:     settlement.FinalAmount,
		ReviewReason:    settlement.ReviewReason,
		CreatedAt:       settlement.CreatedAt,
		UpdatedAt:       settlement.UpdatedAt,
	}
}

func ToDomainWindow(model *models.PaymentWindowModel) *domain.PaymentWindow {
	return &domain.PaymentWindow{
		ID:           model.ID,
		AuctionID:    model.AuctionID,
		SettlementID: model.SettlementID,
		BidID:        model.BidID,
		BidderID:     model.BidderID,
		Role:         model.Role,
		Rank:         model.Rank,
		AmountDue:    model.AmountDue,
		DepositHeld:  model.DepositHeld,
		Status:       model.Status,
		PaymentRef:   model.PaymentRef,
		OpenedAt:     model.OpenedAt,
		Deadline:     model.Deadline,
		ClosedAt:     model.ClosedAt,
	}
}

func ToGORMWindow(window *domain.PaymentWindow) *models.PaymentWindowModel {
	return &models.PaymentWindowModel{
		ID:           window.ID,
		AuctionID:    window.AuctionID,
		SettlementID: window.SettlementID,
		BidID:        window.BidID,
		BidderID:     window.BidderID,
		Role:         window.Role,
		Rank:         window.Rank,
		AmountDue:    window.AmountDue,
		DepositHeld:  window.DepositHeld,
		Status:       window.Status,
		PaymentRef:   window.PaymentRef,
		OpenedAt:     window.OpenedAt,
		Deadline:     window.Deadline,
		ClosedAt:     window.ClosedAt,
	}
}

func ToDomainOutcome(model *models.WindowOutcomeModel) *domain.WindowOutcome {
	return &domain.WindowOutcome{
		ID:               model.ID,
		SettlementID:     model.SettlementID,
		AuctionID:        model.AuctionID,
		WindowID:         model.WindowID,
		BidderID:         model.BidderID,
		Role:             model.Role,
		Rank:             model.Rank,
		AmountDue:        model.AmountDue,
		Status:           model.Status,
		Reason:           model.Reason,
		ForfeitedDeposit: model.ForfeitedDeposit,
		PaymentRef:       model.PaymentRef,
		RecordedAt:       model.RecordedAt,
	}
}

func ToGORMOutcome(outcome *domain.WindowOutcome) *models.WindowOutcomeModel {
	return &models.WindowOutcomeModel{
		ID:               outcome.ID,
		SettlementID:     outcome.SettlementID,
		AuctionID:        outcome.AuctionID,
		WindowID:         outcome.WindowID,
		BidderID:         outcome.BidderID,
		Role:             outcome.Role,
		Rank:             outcome.Rank,
		AmountDue:        outcome.AmountDue,
		Status:           outcome.Status,
		Reason:           outcome.Reason,
		ForfeitedDeposit: outcome.ForfeitedDeposit,
		PaymentRef:       outcome.PaymentRef,
		RecordedAt:       outcome.RecordedAt,
	}
}
