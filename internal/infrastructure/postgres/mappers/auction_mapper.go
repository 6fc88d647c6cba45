package mappers

import (
	"github.com/pashubazaar/settlement-service/internal/domain"
	"github.com/pashubazaar/settlement-service/internal/infrastructure/postgres/models"
)

func ToDomainAuction(model *models.AuctionModel) *domain.Auction {
	auction := &domain.Auction{
		ID:             model.ID,
		SellerID:       model.SellerID,
		ItemID:         model.ItemID,
		Currency:       model.Currency,
		StartingPrice:  model.StartingPrice,
		ReservePrice:   model.ReservePrice,
		MinBidPrice:    model.MinBidPrice,
		BuyNowPrice:    model.BuyNowPrice,
		DepositPercent: model.DepositPercent,
		ProxyAllowed:   model.ProxyAllowed,
		Eligibility:    domain.EligibilityFilter(model.Eligibility),
		BidVisibility:  domain.BidVisibility(model.BidVisibility),
		Status:         model.Status,
		StartsAt:       model.StartsAt,
		EndsAt:         model.EndsAt,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
	if model.AutoExtendEnabled {
		auction.AutoExtend = &domain.AutoExtendRule{
			ThresholdMinutes: model.ExtendThresholdMin,
			ExtensionMinutes: model.ExtendByMin,
		}
	}
	return auction
}

func ToGORMAuction(auction *domain.Auction) *models.AuctionModel {
	model := &models.AuctionModel{
		ID:             auction.ID,
		SellerID:       auction.SellerID,
		ItemID:         auction.ItemID,
		Currency:       auction.Currency,
		StartingPrice:  auction.StartingPrice,
		ReservePrice:   auction.ReservePrice,
		MinBidPrice:    auction.MinBidPrice,
		BuyNowPrice:    auction.BuyNowPrice,
		DepositPercent: auction.DepositPercent,
		ProxyAllowed:   auction.ProxyAllowed,
		Eligibility:    string(auction.Eligibility),
		BidVisibility:  string(auction.BidVisibility),
		Status:         auction.Status,
		StartsAt:       auction.StartsAt,
		EndsAt:         auction.EndsAt,
		CreatedAt:      auction.CreatedAt,
		UpdatedAt:      auction.UpdatedAt,
	}
	if auction.AutoExtend != nil {
		model.AutoExtendEnabled = true
		model.ExtendThresholdMin = auction.AutoExtend.ThresholdMinutes
		model.ExtendByMin = auction.AutoExtend.ExtensionMinutes
	}
	return model
}
