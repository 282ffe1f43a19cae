package workers

import (
	"context"
	"testing"
	"time"

	settlementengine "bazaar/contexts/finance-core/settlement-engine"
	"bazaar/contexts/marketplace-core/nft-auction-house/adapters/memory"
	"bazaar/contexts/marketplace-core/nft-auction-house/application/commands"
	"bazaar/contexts/marketplace-core/nft-auction-house/domain/entities"
	"bazaar/contexts/marketplace-core/nft-auction-house/ports"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

func TestAuctionSweeperSettlesExpiredAuctions(t *testing.T) {
	store := memory.NewStore(ports.MarketplaceView{Treasury: "treasury", FeeBps: 300})
	assets := memory.NewAssetLedger(map[string]string{"mint-1": "seller", "mint-2": "seller"})
	settlement := settlementengine.NewInMemoryModule(map[string]uint64{"alice": 1_000}, nil)
	clock := &fixedClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}

	auctions := commands.AuctionUseCase{
		Listings:   store,
		Config:     store,
		Settlement: settlement.Executor,
		Funds:      settlement.Ledger,
		Assets:     assets,
		Locker:     memory.NewLocker(),
		Clock:      clock,
		IDGen:      store,
	}

	shortEnd := clock.now.Add(time.Minute)
	longEnd := clock.now.Add(time.Hour)
	expiring, err := auctions.CreateListing(context.Background(), commands.CreateListingCommand{
		Seller:          "seller",
		NFTMint:         "mint-1",
		Price:           100,
		MinBidIncrement: 10,
		AuctionEnd:      &shortEnd,
	})
	if err != nil {
		t.Fatalf("create expiring auction failed: %v", err)
	}
	running, err := auctions.CreateListing(context.Background(), commands.CreateListingCommand{
		Seller:          "seller",
		NFTMint:         "mint-2",
		Price:           100,
		MinBidIncrement: 10,
		AuctionEnd:      &longEnd,
	})
	if err != nil {
		t.Fatalf("create running auction failed: %v", err)
	}
	if _, err := auctions.PlaceBid(context.Background(), commands.PlaceBidCommand{
		ListingID: expiring.ListingID,
		Bidder:    "alice",
		Amount:    100,
	}); err != nil {
		t.Fatalf("bid failed: %v", err)
	}

	clock.now = clock.now.Add(2 * time.Minute)
	sweeper := AuctionSweeper{Listings: store, Auctions: auctions, Clock: clock}
	if err := sweeper.RunOnce(context.Background()); err != nil {
		t.Fatalf("sweep failed: %v", err)
	}

	settled, _ := store.GetListing(context.Background(), expiring.ListingID)
	if settled.Status != entities.ListingStatusSettled {
		t.Fatalf("expired auction must settle, status %s", settled.Status)
	}
	if assets.Owner("mint-1") != "alice" {
		t.Fatalf("asset must go to the winner, owner %s", assets.Owner("mint-1"))
	}

	untouched, _ := store.GetListing(context.Background(), running.ListingID)
	if untouched.Status != entities.ListingStatusActive {
		t.Fatalf("running auction must stay active, status %s", untouched.Status)
	}
}
