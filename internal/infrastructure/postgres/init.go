package postgres

import (
	"log"

	"github.com/pashubazaar/settlement-service/internal/config"
	"github.com/pashubazaar/settlement-service/internal/infrastructure/logger"
	"github.com/pashubazaar/settlement-service/internal/infrastructure/postgres/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func MustInitDB(cfg *config.SettlementConfig) *gorm.DB {
	dsn := cfg.SettlementDB.Dsn
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to init db: %v\n", err.Error())
	}

	db.AutoMigrate(
		&models.AuctionModel{},
		&models.BidModel{},
		&models.SettlementModel{},
		&models.PaymentWindowModel{},
		&models.WindowOutcomeModel{},
		&logger.SettlementStartedEvent{},
		&logger.SettlementFailedEvent{},
	)

	return db
}
