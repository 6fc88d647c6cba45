package mappers

import (
	"github.com/pashubazaar/settlement-service/internal/domain"
	"github.com/pashubazaar/settlement-service/internal/infrastructure/postgres/models"
)

func ToDomainBid(model *models.BidModel) *domain.Bid {
	return &domain.Bid{
		ID:              model.ID,
		AuctionID:       model.AuctionID,
		BidderID:        model.BidderID,
		Amount:          model.Amount,
		IsProxy:         model.IsProxy,
		DepositRequired: model.DepositRequired,
		DepositPaid:     model.DepositPaid,
		BelowMinimum:    model.BelowMinimum,
		Status:          model.Status,
		SubmittedAt:     model.SubmittedAt,
	}
}

func ToGORMBid(bid *domain.Bid) *models.BidModel {
	return &models.BidModel{
		ID:              bid.ID,
		AuctionID:       bid.AuctionID,
		BidderID:        bid.BidderID,
		Amount:          bid.Amount,
		IsProxy:         bid.IsProxy,
		DepositRequired: bid.DepositRequired,
		DepositPaid:     bid.DepositPaid,
		BelowMinimum:    bid.BelowMinimum,
		Status:          bid.Status,
		SubmittedAt:     bid.SubmittedAt,
	}
}
