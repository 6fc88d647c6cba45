package repository

import (
	"errors"
	"time"

	"github.com/pashubazaar/settlement-service/internal/domain"
	"github.com/pashubazaar/settlement-service/internal/infrastructure/postgres/mappers"
	"github.com/pashubazaar/settlement-service/internal/infrastructure/postgres/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DefaultSettlementRepository struct {
	DB *gorm.DB
}

func NewDefaultSettlementRepository(db *gorm.DB) *DefaultSettlementRepository {
	return &DefaultSettlementRepository{DB: db}
}

func (r *DefaultSettlementRepository) CreateSettlement(settlement *domain.Settlement) error {
	settlementModel := mappers.ToGORMSettlement(settlement)
	if err := r.DB.Create(settlementModel).Error; err != nil {
		return err
	}
	return nil
}

func (r *DefaultSettlementRepository) GetSettlementByID(settlementID string) (*domain.Settlement, error) {
	var settlement models.SettlementModel
	if err := r.DB.First(&settlement, "id = ?", settlementID).Error; err != nil {
		return nil, err
	}

	return mappers.ToDomainSettlement(&settlement), nil
}

func (r *DefaultSettlementRepository) GetSettlementByAuctionID(auctionID string) (*domain.Settlement, error) {
	var settlement models.SettlementModel
	err := r.DB.First(&settlement, "auction_id = ?", auctionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return mappers.ToDomainSettlement(&settlement), nil
}

func (r *DefaultSettlementRepository) UpdateNextRank(settlementID string, rank int) error {
	return r.DB.Model(&models.SettlementModel{}).
		Where("id = ?", settlementID).
		Update("next_rank", rank).Error
}

func (r *DefaultSettlementRepository) RequestCancel(settlementID string) error {
	return r.DB.Model(&models.SettlementModel{}).
		Where("id = ?", settlementID).
		Update("cancel_requested", true).Error
}

func (r *DefaultSettlementRepository) MarkUnderReview(settlementID string, reason string) error {
	return r.DB.Model(&models.SettlementModel{}).
		Where("id = ?", settlementID).
		Updates(map[string]interface{}{
			"status":        domain.SettlementUnderReview,
			"review_reason": reason,
		}).Error
}

// FinalizeSettlement sets the terminal outcome. The WHERE clause refuses
// to overwrite an already-final record.
func (r *DefaultSettlementRepository) FinalizeSettlement(settlementID string, status domain.SettlementStatus, buyerID string, amount decimal.Decimal) error {
	result := r.DB.Model(&models.SettlementModel{}).
		Where("id = ? AND status NOT IN ?", settlementID, []domain.SettlementStatus{
			domain.SettlementSold, domain.SettlementUnsold, domain.SettlementCancelled,
		}).
		Updates(map[string]interface{}{
			"status":       status,
			"buyer_id":     buyerID,
			"final_amount": amount,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrSettlementFinalized
	}
	return nil
}

func (r *DefaultSettlementRepository) FindStuckSettlements(cutoff time.Time) ([]*domain.Settlement, error) {
	var settlementModels []models.SettlementModel
	err := r.DB.
		Where("status = ? AND updated_at < ?", domain.SettlementPending, cutoff).
		Where("auction_id NOT IN (?)",
			r.DB.Model(&models.PaymentWindowModel{}).
				Select("auction_id").
				Where("status = ?", domain.WindowOpen)).
		Find(&settlementModels).Error
	if err != nil {
		return nil, err
	}

	settlements := make([]*domain.Settlement, 0, len(settlementModels))
	for i := range settlementModels {
		settlements = append(settlements, mappers.ToDomainSettlement(&settlementModels[i]))
	}
	return settlements, nil
}

func (r *DefaultSettlementRepository) CreateWindow(window *domain.PaymentWindow) error {
	windowModel := mappers.ToGORMWindow(window)
	if err := r.DB.Create(windowModel).Error; err != nil {
		return err
	}
	return nil
}

func (r *DefaultSettlementRepository) GetWindowByID(windowID string) (*domain.PaymentWindow, error) {
	var window models.PaymentWindowModel
	err := r.DB.First(&window, "id = ?", windowID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrWindowNotFound
		}
		return nil, err
	}

	return mappers.ToDomainWindow(&window), nil
}

func (r *DefaultSettlementRepository) GetOpenWindowByAuctionID(auctionID string) (*domain.PaymentWindow, error) {
	var window models.PaymentWindowModel
	err := r.DB.
		Where("auction_id = ? AND status = ?", auctionID, domain.WindowOpen).
		First(&window).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return mappers.ToDomainWindow(&window), nil
}

// CloseWindow is the compare-and-swap the payment-vs-expiry race depends
// on: the conditional update only succeeds while the row is still OPEN,
// so the first transition wins and the loser gets ok=false.
func (r *DefaultSettlementRepository) CloseWindow(windowID string, newStatus domain.WindowStatus, paymentRef string, closedAt time.Time) (bool, error) {
	result := r.DB.Model(&models.PaymentWindowModel{}).
		Where("id = ? AND status = ?", windowID, domain.WindowOpen).
		Updates(map[string]interface{}{
			"status":      newStatus,
			"payment_ref": paymentRef,
			"closed_at":   closedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *DefaultSettlementRepository) FindOpenWindows() ([]*domain.PaymentWindow, error) {
	var windowModels []models.PaymentWindowModel
	if err := r.DB.
		Where("status = ?", domain.WindowOpen).
		Find(&windowModels).Error; err != nil {
		return nil, err
	}

	windows := make([]*domain.PaymentWindow, 0, len(windowModels))
	for i := range windowModels {
		windows = append(windows, mappers.ToDomainWindow(&windowModels[i]))
	}
	return windows, nil
}

func (r *DefaultSettlementRepository) AppendWindowOutcome(outcome *domain.WindowOutcome) error {
	outcomeModel := mappers.ToGORMOutcome(outcome)
	if err := r.DB.Create(outcomeModel).Error; err != nil {
		return err
	}
	return nil
}

func (r *DefaultSettlementRepository) ListWindowOutcomes(settlementID string) ([]*domain.WindowOutcome, error) {
	var outcomeModels []models.WindowOutcomeModel
	if err := r.DB.
		Where("settlement_id = ?", settlementID).
		Order("id ASC").
		Find(&outcomeModels).Error; err != nil {
		return nil, err
	}

	outcomes := make([]*domain.WindowOutcome, 0, len(outcomeModels))
	for i := range outcomeModels {
		outcomes = append(outcomes, mappers.ToDomainOutcome(&outcomeModels[i]))
	}
	return outcomes, nil
}
