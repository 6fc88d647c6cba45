package repository

import (
	"time"

	"github.com/pashubazaar/settlement-service/internal/domain"
	"github.com/pashubazaar/settlement-service/internal/infrastructure/postgres/mappers"
	"github.com/pashubazaar/settlement-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultAuctionRepository struct {
	DB *gorm.DB
}

func NewDefaultAuctionRepository(db *gorm.DB) *DefaultAuctionRepository {
	return &DefaultAuctionRepository{DB: db}
}

func (r *DefaultAuctionRepository) CreateAuction(auction *domain.Auction) error {
	auctionModel := mappers.ToGORMAuction(auction)
	if err := r.DB.Create(auctionModel).Error; err != nil {
		return err
	}
	return nil
}

func (r *DefaultAuctionRepository) GetAuctionByID(auctionID string) (*domain.Auction, error) {
	var auction models.AuctionModel
	if err := r.DB.First(&auction, "id = ?", auctionID).Error; err != nil {
		return nil, err
	}

	return mappers.ToDomainAuction(&auction), nil
}

func (r *DefaultAuctionRepository) UpdateAuctionStatus(auctionID string, newStatus domain.AuctionStatus) error {
	return r.DB.Model(&models.AuctionModel{}).
		Where("id = ?", auctionID).
		Update("status", newStatus).Error
}

func (r *DefaultAuctionRepository) ExtendAuctionEnd(auctionID string, newEnd time.Time) error {
	return r.DB.Model(&models.AuctionModel{}).
		Where("id = ?", auctionID).
		Update("ends_at", newEnd).Error
}

func (r *DefaultAuctionRepository) FindEndedAuctions(now time.Time) ([]*domain.Auction, error) {
	var auctionModels []models.AuctionModel
	if err := r.DB.
		Where("status = ? AND ends_at <= ?", domain.AuctionActive, now).
		Find(&auctionModels).Error; err != nil {
		return nil, err
	}

	auctions := make([]*domain.Auction, 0, len(auctionModels))
	for i := range auctionModels {
		auctions = append(auctions, mappers.ToDomainAuction(&auctionModels[i]))
	}
	return auctions, nil
}

func (r *DefaultAuctionRepository) FindAuctionsByStatus(status domain.AuctionStatus) ([]*domain.Auction, error) {
	var auctionModels []models.AuctionModel
	if err := r.DB.
		Where("status = ?", status).
		Find(&auctionModels).Error; err != nil {
		return nil, err
	}

	auctions := make([]*domain.Auction, 0, len(auctionModels))
	for i := range auctionModels {
		auctions = append(auctions, mappers.ToDomainAuction(&auctionModels[i]))
	}
	return auctions, nil
}
