package workers

import (
	"context"
	"errors"
	"testing"

	"bazaar/contexts/marketplace-core/component-registry/adapters/memory"
	"bazaar/contexts/marketplace-core/component-registry/application/commands"
	"bazaar/contexts/marketplace-core/component-registry/ports"
)

type capturingPublisher struct {
	published []ports.EventEnvelope
	failOn    string
}

func (p *capturingPublisher) Publish(_ context.Context, _ string, event ports.EventEnvelope) error {
	if p.failOn != "" && event.EventType == p.failOn {
		return errors.New("broker unavailable")
	}
	p.published = append(p.published, event)
	return nil
}

func seededStore(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore(ports.MarketplaceView{Treasury: "treasury", PlatformReserve: "reserve", FeeBps: 300})
	catalog := commands.CatalogUseCase{
		Components: store,
		Config:     store,
		Clock:      store,
		IDGen:      store,
	}
	if _, err := catalog.ListComponent(context.Background(), commands.ListComponentCommand{
		ComponentID: "comp-1",
		Creator:     "alice",
		Price:       1_000,
	}); err != nil {
		t.Fatalf("listing failed: %v", err)
	}
	return store
}

func TestOutboxRelayPublishesAndDrainsPending(t *testing.T) {
	store := seededStore(t)
	publisher := &capturingPublisher{}
	relay := OutboxRelay{Outbox: store, Publisher: publisher, Clock: store}

	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("relay cycle failed: %v", err)
	}
	if len(publisher.published) != 1 {
		t.Fatalf("expected one published event, got %d", len(publisher.published))
	}
	if publisher.published[0].EventType != "component.listed" {
		t.Fatalf("unexpected event type %s", publisher.published[0].EventType)
	}

	publisher.published = nil
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("second relay cycle failed: %v", err)
	}
	if len(publisher.published) != 0 {
		t.Fatalf("published rows must not be relayed twice, got %d", len(publisher.published))
	}
}

func TestOutboxRelayKeepsRowPendingOnPublishFailure(t *testing.T) {
	store := seededStore(t)
	publisher := &capturingPublisher{failOn: "component.listed"}
	relay := OutboxRelay{Outbox: store, Publisher: publisher, Clock: store}

	if err := relay.RunOnce(context.Background()); err == nil {
		t.Fatal("expected publish failure to surface")
	}

	publisher.failOn = ""
	if err := relay.RunOnce(context.Background()); err != nil {
		t.Fatalf("retry cycle failed: %v", err)
	}
	if len(publisher.published) != 1 {
		t.Fatalf("expected the row to relay on retry, got %d", len(publisher.published))
	}
}
