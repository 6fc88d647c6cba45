package ledger

import (
	"context"
	"time"

	"github.com/pashubazaar/settlement-service/internal/domain"
	"github.com/pashubazaar/settlement-service/internal/infrastructure/metrics"
	ledgerdto "github.com/pashubazaar/settlement-service/internal/usecase/dto/ledger"
)

type BidLedgerUsecase interface {
	SubmitBid(ctx context.Context, input *ledgerdto.SubmitBidInput) (*ledgerdto.SubmitBidOutput, error)
	RankedList(ctx context.Context, auctionID string) ([]*ledgerdto.RankedBid, error)
	ListBids(ctx context.Context, auctionID string) ([]*domain.Bid, error)
	CloseDueAuctions(ctx context.Context) ([]string, error)
}

type DefaultBidLedgerUsecase struct {
	AuctionRepo domain.AuctionRepository
	BidRepo     domain.BidRepository
	Directory   domain.BidderDirectory
	Publisher   domain.PublisherPort
	Metrics     *metrics.SettlementMetrics

	// Now is the clock; replaced in tests.
	Now func() time.Time
}

func NewDefaultBidLedgerUsecase(
	auctionRepo domain.AuctionRepository,
	bidRepo domain.BidRepository,
	directory domain.BidderDirectory,
	pub domain.PublisherPort,
	settlementMetrics *metrics.SettlementMetrics) *DefaultBidLedgerUsecase {

	return &DefaultBidLedgerUsecase{
		AuctionRepo: auctionRepo,
		BidRepo:     bidRepo,
		Directory:   directory,
		Publisher:   pub,
		Metrics:     settlementMetrics,
		Now:         time.Now,
	}
}

func (uc *DefaultBidLedgerUsecase) ListBids(ctx context.Context, auctionID string) ([]*domain.Bid, error) {
	return uc.BidRepo.GetBidsByAuctionID(auctionID)
}
