package commands

import (
	"encoding/json"
	"time"

	"bazaar/contexts/marketplace-core/nft-auction-house/ports"
)

func newAuctionEnvelope(
	eventID string,
	eventType string,
	listingID string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	// Auction events are partitioned by listing so per-listing consumers
	// observe bids and settlement in order.
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "nft-auction-house",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "listing_id",
		PartitionKey:     listingID,
		Data:             payload,
	}, nil
}
