package application

import (
	"encoding/json"
	"time"

	"bazaar/contexts/finance-core/revenue-share-pool/ports"
)

func newPoolEnvelope(
	eventID string,
	eventType string,
	authority string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	// Pool events are partitioned by authority; the pool is a singleton so
	// all distributions land on one partition in order.
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "revenue-share-pool",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "authority",
		PartitionKey:     authority,
		Data:             payload,
	}, nil
}
