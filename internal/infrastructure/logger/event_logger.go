package logger

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type SettlementStartedEvent struct {
	ID           uint `gorm:"primaryKey"`
	RequestID    string
	SettlementID string
	AuctionID    string
	RefCode      string
	SellerID     string
	TopBidderID  string
	AmountDue    float64
	Currency     string
	Timestamp    time.Time
}

type SettlementFailedEvent struct {
	ID        uint `gorm:"primaryKey"`
	RequestID string
	AuctionID string
	Reason    string
	Currency  string
	Timestamp time.Time
}

type SettlementEventLogger interface {
	LogSettlementStarted(ctx context.Context, event SettlementStartedEvent) error
	LogSettlementFailed(ctx context.Context, event SettlementFailedEvent) error
}

type PGSettlementEventLogger struct {
	db *gorm.DB
}

func NewPGSettlementEventLogger(db *gorm.DB) *PGSettlementEventLogger {
	return &PGSettlementEventLogger{db: db}
}

func (l *PGSettlementEventLogger) LogSettlementStarted(ctx context.Context, event SettlementStartedEvent) error {
	return l.db.WithContext(ctx).Create(&event).Error
}

func (l *PGSettlementEventLogger) LogSettlementFailed(ctx context.Context, event SettlementFailedEvent) error {
	return l.db.WithContext(ctx).Create(&event).Error
}
