package settlement

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jaevor/go-nanoid"
	"github.com/oklog/ulid/v2"
	"github.com/pashubazaar/settlement-service/internal/domain"
	publisher "github.com/pashubazaar/settlement-service/internal/infrastructure/kafka"
	"github.com/pashubazaar/settlement-service/internal/infrastructure/metrics"
	"github.com/pashubazaar/settlement-service/internal/usecase/ledger"
	settlementdto "github.com/pashubazaar/settlement-service/internal/usecase/dto/settlement"
)

type SettlementUsecase interface {
	StartSettlement(ctx context.Context, auctionID string) (*settlementdto.SettlementOutput, error)
	AttemptPayment(ctx context.Context, windowID string) error
	ConfirmPayment(ctx context.Context, windowID, paymentRef string) error
	DeclineWindow(ctx context.Context, windowID string) error
	ExpireWindow(ctx context.Context, windowID string) error
	CancelSettlement(ctx context.Context, auctionID string) error

	GetSettlementState(ctx context.Context, auctionID string) (*settlementdto.SettlementStateOutput, error)
	GetAuditTrail(ctx context.Context, auctionID string) ([]*domain.WindowOutcome, error)

	RescheduleOpenWindows(ctx context.Context) error
	ReviewStuckSettlements(ctx context.Context) error
}

type DefaultSettlementUsecase struct {
	SettlementRepo domain.SettlementRepository
	AuctionRepo    domain.AuctionRepository
	Ledger         ledger.BidLedgerUsecase
	Processor      domain.PaymentProcessor
	Directory      domain.BidderDirectory
	Publisher      domain.PublisherPort
	Metrics        *metrics.SettlementMetrics
	Scheduler      ExpiryScheduler

	// WindowTTL is the pay-or-be-replaced deadline for every window.
	WindowTTL time.Duration
	// StuckAfter is how long a PENDING settlement may sit without an open
	// window before the monitor flags it.
	StuckAfter time.Duration

	// Now is the clock; replaced in tests.
	Now func() time.Time

	newRefCode func() string
}

func NewDefaultSettlementUsecase(
	settlementRepo domain.SettlementRepository,
	auctionRepo domain.AuctionRepository,
	bidLedger ledger.BidLedgerUsecase,
	processor domain.PaymentProcessor,
	directory domain.BidderDirectory,
	pub domain.PublisherPort,
	settlementMetrics *metrics.SettlementMetrics,
	scheduler ExpiryScheduler,
	windowTTL time.Duration,
	stuckAfter time.Duration) *DefaultSettlementUsecase {

	refCode, _ := nanoid.CustomASCII("0123456789ABCDEFGHJKMNPQRSTVWXYZ", 10)

	return &DefaultSettlementUsecase{
		SettlementRepo: settlementRepo,
		AuctionRepo:    auctionRepo,
		Ledger:         bidLedger,
		Processor:      processor,
		Directory:      directory,
		Publisher:      pub,
		Metrics:        settlementMetrics,
		Scheduler:      scheduler,
		WindowTTL:      windowTTL,
		StuckAfter:     stuckAfter,
		Now:            time.Now,
		newRefCode:     refCode,
	}
}

// newOutcomeID returns a ULID so audit-trail entries sort by creation time.
func (uc *DefaultSettlementUsecase) newOutcomeID() string {
	return ulid.Make().String()
}

func (uc *DefaultSettlementUsecase) publishEvent(event publisher.SettlementEvent) {
	if uc.Publisher == nil {
		return
	}
	go func(event publisher.SettlementEvent) {
		v, err := json.Marshal(event)
		if err != nil {
			slog.Error("failed to marshal SettlementEvent", "error", err.Error())
			return
		}
		msg := domain.Message{Key: []byte(event.AuctionID), Value: v}
		if err := uc.Publisher.Publish(publisher.TopicSettlementEvents, msg); err != nil {
			slog.Error("failed to publish SettlementEvent", "kind", event.Kind, "error", err.Error())
		}
	}(event)
}

// markUnderReview aborts the run: no outcome is guessed, an operator takes
// over.
func (uc *DefaultSettlementUsecase) markUnderReview(settlement *domain.Settlement, reason string) {
	if err := uc.SettlementRepo.MarkUnderReview(settlement.ID, reason); err != nil {
		slog.Error("failed to flag settlement for review",
			"settlement_id", settlement.ID, "reason", reason, "error", err.Error())
		return
	}
	settlement.Status = domain.SettlementUnderReview
	if uc.Metrics != nil {
		uc.Metrics.RecordUnderReview(reason)
	}
	slog.Warn("settlement flagged for manual review",
		"settlement_id", settlement.ID, "auction_id", settlement.AuctionID, "reason", reason)
}
