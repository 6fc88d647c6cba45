package publisher

import (
	"encoding/json"
	"time"

	"github.com/pashubazaar/settlement-service/internal/domain"
)

const TopicBidEvents = "bid-events"

type BidEvent struct {
	BidID        string     `json:"bid_id"`
	AuctionID    string     `json:"auction_id"`
	BidderID     string     `json:"bidder_id"`
	Amount       string     `json:"amount"`
	Currency     string     `json:"currency"`
	BelowMinimum bool       `json:"below_minimum"`
	BuyNow       bool       `json:"buy_now"`
	ExtendedTo   *time.Time `json:"extended_to,omitempty"`
}

func (k *DefaultKafkaPublisher) PublishBidEvent(event BidEvent) error {
	v, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return k.Publish(TopicBidEvents, domain.Message{Key: []byte(event.AuctionID), Value: v})
}
