package commands

import (
	"encoding/json"
	"time"

	"bazaar/contexts/marketplace-core/component-registry/ports"
)

func newRegistryEnvelope(
	eventID string,
	eventType string,
	componentID string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	// Registry events are partitioned by component so per-component consumers
	// observe listings and purchases in order.
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    "component-registry",
		TraceID:          eventID,
		SchemaVersion:    1,
		PartitionKeyPath: "component_id",
		PartitionKey:     componentID,
		Data:             payload,
	}, nil
}
