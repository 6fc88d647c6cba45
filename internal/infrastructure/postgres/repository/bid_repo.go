package repository

import (
	"errors"

	"github.com/pashubazaar/settlement-service/internal/domain"
	"github.com/pashubazaar/settlement-service/internal/infrastructure/postgres/mappers"
	"github.com/pashubazaar/settlement-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultBidRepository struct {
	DB *gorm.DB
}

func NewDefaultBidRepository(db *gorm.DB) *DefaultBidRepository {
	return &DefaultBidRepository{DB: db}
}

func (r *DefaultBidRepository) CreateBid(bid *domain.Bid) error {
	bidModel := mappers.ToGORMBid(bid)
	if err := r.DB.Create(bidModel).Error; err != nil {
		return err
	}
	return nil
}

func (r *DefaultBidRepository) UpdateBidStatus(bidID string, newStatus domain.BidStatus) error {
	return r.DB.Model(&models.BidModel{}).
		Where("id = ?", bidID).
		Update("status", newStatus).Error
}

func (r *DefaultBidRepository) GetBidByID(bidID string) (*domain.Bid, error) {
	var bid models.BidModel
	if err := r.DB.First(&bid, "id = ?", bidID).Error; err != nil {
		return nil, err
	}

	return mappers.ToDomainBid(&bid), nil
}

func (r *DefaultBidRepository) GetBidsByAuctionID(auctionID string) ([]*domain.Bid, error) {
	var bidModels []models.BidModel
	if err := r.DB.
		Where("auction_id = ?", auctionID).
		Order("submitted_at ASC").
		Find(&bidModels).Error; err != nil {
		return nil, err
	}

	bids := make([]*domain.Bid, 0, len(bidModels))
	for i := range bidModels {
		bids = append(bids, mappers.ToDomainBid(&bidModels[i]))
	}
	return bids, nil
}

// GetActiveBidByBidder returns the bidder's highest active bid on the
// auction, or (nil, nil) when they have none.
func (r *DefaultBidRepository) GetActiveBidByBidder(auctionID, bidderID string) (*domain.Bid, error) {
	var bid models.BidModel
	err := r.DB.
		Where("auction_id = ? AND bidder_id = ? AND status = ?", auctionID, bidderID, domain.BidActive).
		Order("amount DESC").
		First(&bid).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return mappers.ToDomainBid(&bid), nil
}
