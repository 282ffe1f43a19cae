package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	settlementengine "bazaar/contexts/finance-core/settlement-engine"
	settlementmemory "bazaar/contexts/finance-core/settlement-engine/adapters/memory"
	settlementerrors "bazaar/contexts/finance-core/settlement-engine/domain/errors"
	"bazaar/contexts/marketplace-core/nft-auction-house/adapters/memory"
	"bazaar/contexts/marketplace-core/nft-auction-house/domain/entities"
	domainerrors "bazaar/contexts/marketplace-core/nft-auction-house/domain/errors"
	"bazaar/contexts/marketplace-core/nft-auction-house/ports"
	"bazaar/internal/shared/keys"
)

var testConfig = ports.MarketplaceView{
	Treasury:        "treasury",
	PlatformReserve: "reserve",
	FeeBps:          300,
	CreatorFeeBps:   500,
	RewardBps:       200,
}

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

func (c *fixedClock) advance(d time.Duration) { c.now = c.now.Add(d) }

type testHarness struct {
	auctions AuctionUseCase
	store    *memory.Store
	ledger   *settlementmemory.Ledger
	assets   *memory.AssetLedger
	clock    *fixedClock
}

func newHarness(balances map[string]uint64, assetOwners map[string]string) testHarness {
	store := memory.NewStore(testConfig)
	assets := memory.NewAssetLedger(assetOwners)
	settlement := settlementengine.NewInMemoryModule(balances, nil)
	clock := &fixedClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	return testHarness{
		auctions: AuctionUseCase{
			Listings:   store,
			Config:     store,
			Settlement: settlement.Executor,
			Funds:      settlement.Ledger,
			Assets:     assets,
			Locker:     memory.NewLocker(),
			Clock:      clock,
			IDGen:      store,
		},
		store:  store,
		ledger: settlement.Ledger,
		assets: assets,
		clock:  clock,
	}
}

func (h testHarness) openAuction(t *testing.T, price, increment uint64, window time.Duration) entities.Listing {
	t.Helper()
	end := h.clock.now.Add(window)
	listing, err := h.auctions.CreateListing(context.Background(), CreateListingCommand{
		Seller:          "seller",
		NFTMint:         "mint-1",
		Creator:         "royalty",
		Price:           price,
		MinBidIncrement: increment,
		AuctionEnd:      &end,
	})
	if err != nil {
		t.Fatalf("create auction failed: %v", err)
	}
	return listing
}

func TestCreateListingEscrowsAssetAndDerivesType(t *testing.T) {
	h := newHarness(nil, map[string]string{"mint-1": "seller"})

	listing, err := h.auctions.CreateListing(context.Background(), CreateListingCommand{
		Seller:  "seller",
		NFTMint: "mint-1",
		Price:   100,
	})
	if err != nil {
		t.Fatalf("create listing failed: %v", err)
	}
	if listing.ListingType != entities.ListingTypeFixedPrice {
		t.Fatalf("expected fixed_price type, got %s", listing.ListingType)
	}
	if h.assets.Owner("mint-1") != CustodyAccount {
		t.Fatalf("asset not in custody, owner %s", h.assets.Owner("mint-1"))
	}
	if listing.ListingID != keys.Listing("seller", "mint-1") {
		t.Fatal("listing id must derive from seller and mint")
	}

	_, err = h.auctions.CreateListing(context.Background(), CreateListingCommand{
		Seller:  "seller",
		NFTMint: "mint-1",
		Price:   999,
	})
	if !errors.Is(err, domainerrors.ErrListingExists) {
		t.Fatalf("expected ErrListingExists, got %v", err)
	}
}

func TestPlaceBidMinimumAndDisplacementRefund(t *testing.T) {
	h := newHarness(map[string]uint64{"alice": 1_000, "bob": 1_000}, map[string]string{"mint-1": "seller"})
	listing := h.openAuction(t, 100, 10, time.Hour)
	escrow := EscrowAccount(listing.ListingID)

	// Below the asking price.
	_, err := h.auctions.PlaceBid(context.Background(), PlaceBidCommand{ListingID: listing.ListingID, Bidder: "alice", Amount: 80})
	if !errors.Is(err, domainerrors.ErrBidTooLow) {
		t.Fatalf("expected ErrBidTooLow for 80, got %v", err)
	}

	// Exactly the asking price.
	if _, err := h.auctions.PlaceBid(context.Background(), PlaceBidCommand{ListingID: listing.ListingID, Bidder: "alice", Amount: 100}); err != nil {
		t.Fatalf("bid 100 failed: %v", err)
	}
	if h.ledger.Balance(escrow) != 100 || h.ledger.Balance("alice") != 900 {
		t.Fatalf("escrow/alice balances wrong: %d/%d", h.ledger.Balance(escrow), h.ledger.Balance("alice"))
	}

	// Below highest bid plus increment.
	_, err = h.auctions.PlaceBid(context.Background(), PlaceBidCommand{ListingID: listing.ListingID, Bidder: "bob", Amount: 109})
	if !errors.Is(err, domainerrors.ErrBidTooLow) {
		t.Fatalf("expected ErrBidTooLow for 109, got %v", err)
	}

	// Displacing bid refunds alice in the same batch.
	updated, err := h.auctions.PlaceBid(context.Background(), PlaceBidCommand{ListingID: listing.ListingID, Bidder: "bob", Amount: 110})
	if err != nil {
		t.Fatalf("bid 110 failed: %v", err)
	}
	if h.ledger.Balance(escrow) != 110 {
		t.Fatalf("escrow must hold exactly the standing bid, got %d", h.ledger.Balance(escrow))
	}
	if h.ledger.Balance("alice") != 1_000 {
		t.Fatalf("displaced bidder must be made whole, got %d", h.ledger.Balance("alice"))
	}
	if updated.HighestBid == nil || updated.HighestBid.Bidder != "bob" || updated.HighestBid.Amount != 110 {
		t.Fatalf("highest bid not updated: %+v", updated.HighestBid)
	}
}

func TestPlaceBidInsufficientFundsLeavesStandingBid(t *testing.T) {
	h := newHarness(map[string]uint64{"alice": 100, "bob": 50}, map[string]string{"mint-1": "seller"})
	listing := h.openAuction(t, 100, 10, time.Hour)
	escrow := EscrowAccount(listing.ListingID)

	if _, err := h.auctions.PlaceBid(context.Background(), PlaceBidCommand{ListingID: listing.ListingID, Bidder: "alice", Amount: 100}); err != nil {
		t.Fatalf("first bid failed: %v", err)
	}
	_, err := h.auctions.PlaceBid(context.Background(), PlaceBidCommand{ListingID: listing.ListingID, Bidder: "bob", Amount: 110})
	if err == nil {
		t.Fatal("expected underfunded bid to fail")
	}
	if h.ledger.Balance(escrow) != 100 || h.ledger.Balance("alice") != 0 || h.ledger.Balance("bob") != 50 {
		t.Fatal("failed bid must not move any funds")
	}

	stored, _ := h.store.GetListing(context.Background(), listing.ListingID)
	if stored.HighestBid == nil || stored.HighestBid.Bidder != "alice" {
		t.Fatalf("standing bid must survive a failed displacement: %+v", stored.HighestBid)
	}
}

func TestPlaceBidRejectedAfterAuctionEnd(t *testing.T) {
	h := newHarness(map[string]uint64{"alice": 1_000}, map[string]string{"mint-1": "seller"})
	listing := h.openAuction(t, 100, 10, time.Hour)

	h.clock.advance(time.Hour)
	_, err := h.auctions.PlaceBid(context.Background(), PlaceBidCommand{ListingID: listing.ListingID, Bidder: "alice", Amount: 100})
	if !errors.Is(err, domainerrors.ErrAuctionEnded) {
		t.Fatalf("expected ErrAuctionEnded, got %v", err)
	}
}

func TestPurchaseListingSplitsFeesAndReleasesAsset(t *testing.T) {
	h := newHarness(map[string]uint64{"buyer": 20_000}, map[string]string{"mint-1": "seller"})
	listing, err := h.auctions.CreateListing(context.Background(), CreateListingCommand{
		Seller:  "seller",
		NFTMint: "mint-1",
		Creator: "royalty",
		Price:   10_000,
	})
	if err != nil {
		t.Fatalf("create listing failed: %v", err)
	}

	sold, err := h.auctions.PurchaseListing(context.Background(), PurchaseListingCommand{
		ListingID: listing.ListingID,
		Buyer:     "buyer",
	})
	if err != nil {
		t.Fatalf("purchase failed: %v", err)
	}
	if sold.Status != entities.ListingStatusSold {
		t.Fatalf("expected sold status, got %s", sold.Status)
	}

	// 300 bps platform and 500 bps royalty on 10_000.
	checks := map[string]uint64{
		"buyer":    10_000,
		"seller":   9_200,
		"royalty":  500,
		"treasury": 300,
	}
	for account, want := range checks {
		if got := h.ledger.Balance(account); got != want {
			t.Fatalf("account %s: expected %d, got %d", account, want, got)
		}
	}
	if h.assets.Owner("mint-1") != "buyer" {
		t.Fatalf("asset must go to buyer, owner %s", h.assets.Owner("mint-1"))
	}
	_, sales, volume := h.store.Counters()
	if sales != 1 || volume != 10_000 {
		t.Fatalf("counters not bumped: sales=%d volume=%d", sales, volume)
	}

	_, err = h.auctions.PurchaseListing(context.Background(), PurchaseListingCommand{ListingID: listing.ListingID, Buyer: "buyer"})
	if !errors.Is(err, domainerrors.ErrListingNotActive) {
		t.Fatalf("expected ErrListingNotActive on sold listing, got %v", err)
	}
}

func TestPurchaseListingRejectsAuction(t *testing.T) {
	h := newHarness(map[string]uint64{"buyer": 1_000}, map[string]string{"mint-1": "seller"})
	listing := h.openAuction(t, 100, 10, time.Hour)

	_, err := h.auctions.PurchaseListing(context.Background(), PurchaseListingCommand{ListingID: listing.ListingID, Buyer: "buyer"})
	if !errors.Is(err, domainerrors.ErrNotFixedPrice) {
		t.Fatalf("expected ErrNotFixedPrice, got %v", err)
	}
}

func TestSettleAuctionWithWinningBid(t *testing.T) {
	h := newHarness(map[string]uint64{"alice": 20_000}, map[string]string{"mint-1": "seller"})
	listing := h.openAuction(t, 10_000, 100, time.Hour)

	if _, err := h.auctions.PlaceBid(context.Background(), PlaceBidCommand{ListingID: listing.ListingID, Bidder: "alice", Amount: 10_000}); err != nil {
		t.Fatalf("bid failed: %v", err)
	}

	_, err := h.auctions.SettleAuction(context.Background(), SettleAuctionCommand{ListingID: listing.ListingID})
	if !errors.Is(err, domainerrors.ErrAuctionNotEnded) {
		t.Fatalf("expected ErrAuctionNotEnded before the window closes, got %v", err)
	}

	h.clock.advance(time.Hour)
	settled, err := h.auctions.SettleAuction(context.Background(), SettleAuctionCommand{ListingID: listing.ListingID})
	if err != nil {
		t.Fatalf("settle failed: %v", err)
	}
	if settled.Status != entities.ListingStatusSettled {
		t.Fatalf("expected settled status, got %s", settled.Status)
	}

	escrow := EscrowAccount(listing.ListingID)
	checks := map[string]uint64{
		escrow:     0,
		"seller":   9_200,
		"royalty":  500,
		"treasury": 300,
		"alice":    10_000,
	}
	for account, want := range checks {
		if got := h.ledger.Balance(account); got != want {
			t.Fatalf("account %s: expected %d, got %d", account, want, got)
		}
	}
	if h.assets.Owner("mint-1") != "alice" {
		t.Fatalf("asset must go to the winner, owner %s", h.assets.Owner("mint-1"))
	}
}

func TestSettleAuctionWithoutBidsReturnsAsset(t *testing.T) {
	h := newHarness(nil, map[string]string{"mint-1": "seller"})
	listing := h.openAuction(t, 10_000, 100, time.Hour)

	h.clock.advance(2 * time.Hour)
	settled, err := h.auctions.SettleAuction(context.Background(), SettleAuctionCommand{ListingID: listing.ListingID})
	if err != nil {
		t.Fatalf("settle failed: %v", err)
	}
	if settled.Status != entities.ListingStatusSettled {
		t.Fatalf("expected settled status, got %s", settled.Status)
	}
	if h.assets.Owner("mint-1") != "seller" {
		t.Fatalf("asset must return to seller, owner %s", h.assets.Owner("mint-1"))
	}
	_, sales, volume := h.store.Counters()
	if sales != 0 || volume != 0 {
		t.Fatal("no-bid settlement must not count a sale")
	}
}

func TestCancelListingRefundsBidAndReturnsAsset(t *testing.T) {
	h := newHarness(map[string]uint64{"alice": 1_000}, map[string]string{"mint-1": "seller"})
	listing := h.openAuction(t, 100, 10, time.Hour)

	if _, err := h.auctions.PlaceBid(context.Background(), PlaceBidCommand{ListingID: listing.ListingID, Bidder: "alice", Amount: 100}); err != nil {
		t.Fatalf("bid failed: %v", err)
	}

	_, err := h.auctions.CancelListing(context.Background(), CancelListingCommand{ListingID: listing.ListingID, Caller: "mallory"})
	if !errors.Is(err, domainerrors.ErrUnauthorizedSeller) {
		t.Fatalf("expected ErrUnauthorizedSeller, got %v", err)
	}

	cancelled, err := h.auctions.CancelListing(context.Background(), CancelListingCommand{ListingID: listing.ListingID, Caller: "seller"})
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if cancelled.Status != entities.ListingStatusCancelled {
		t.Fatalf("expected cancelled status, got %s", cancelled.Status)
	}
	if h.ledger.Balance("alice") != 1_000 {
		t.Fatalf("bidder must be refunded, got %d", h.ledger.Balance("alice"))
	}
	if h.assets.Owner("mint-1") != "seller" {
		t.Fatalf("asset must return to seller, owner %s", h.assets.Owner("mint-1"))
	}
}

func TestOfferLifecycle(t *testing.T) {
	h := newHarness(map[string]uint64{"bob": 20_000}, map[string]string{"mint-1": "seller"})
	listing, err := h.auctions.CreateListing(context.Background(), CreateListingCommand{
		Seller:  "seller",
		NFTMint: "mint-1",
		Creator: "royalty",
		Price:   10_000,
	})
	if err != nil {
		t.Fatalf("create listing failed: %v", err)
	}

	offer, err := h.auctions.MakeOffer(context.Background(), MakeOfferCommand{
		ListingID: listing.ListingID,
		Buyer:     "bob",
		Amount:    8_000,
	})
	if err != nil {
		t.Fatalf("make offer failed: %v", err)
	}
	if h.ledger.Balance("bob") != 20_000 {
		t.Fatal("making an offer must not move funds")
	}

	_, err = h.auctions.MakeOffer(context.Background(), MakeOfferCommand{ListingID: listing.ListingID, Buyer: "bob", Amount: 9_000})
	if !errors.Is(err, domainerrors.ErrOfferExists) {
		t.Fatalf("expected ErrOfferExists, got %v", err)
	}

	if err := h.auctions.CancelOffer(context.Background(), CancelOfferCommand{OfferID: offer.OfferID, Caller: "mallory"}); !errors.Is(err, domainerrors.ErrUnauthorizedBuyer) {
		t.Fatalf("expected ErrUnauthorizedBuyer, got %v", err)
	}

	_, err = h.auctions.AcceptOffer(context.Background(), AcceptOfferCommand{OfferID: offer.OfferID, Caller: "mallory"})
	if !errors.Is(err, domainerrors.ErrUnauthorizedSeller) {
		t.Fatalf("expected ErrUnauthorizedSeller, got %v", err)
	}

	sold, err := h.auctions.AcceptOffer(context.Background(), AcceptOfferCommand{OfferID: offer.OfferID, Caller: "seller"})
	if err != nil {
		t.Fatalf("accept offer failed: %v", err)
	}
	if sold.Status != entities.ListingStatusSold {
		t.Fatalf("expected sold status, got %s", sold.Status)
	}

	// 300 bps platform and 500 bps royalty on the 8_000 offer amount.
	checks := map[string]uint64{
		"bob":      12_000,
		"seller":   7_360,
		"royalty":  400,
		"treasury": 240,
	}
	for account, want := range checks {
		if got := h.ledger.Balance(account); got != want {
			t.Fatalf("account %s: expected %d, got %d", account, want, got)
		}
	}
	if h.assets.Owner("mint-1") != "bob" {
		t.Fatalf("asset must go to the offer buyer, owner %s", h.assets.Owner("mint-1"))
	}

	stored, _ := h.store.GetOffer(context.Background(), offer.OfferID)
	if stored.IsActive {
		t.Fatal("accepted offer must flip inactive")
	}
}

func TestAcceptOfferUnderfundedBuyerKeepsStandingBid(t *testing.T) {
	h := newHarness(map[string]uint64{"alice": 1_000, "bob": 50}, map[string]string{"mint-1": "seller"})
	listing := h.openAuction(t, 100, 10, time.Hour)
	escrow := EscrowAccount(listing.ListingID)

	if _, err := h.auctions.PlaceBid(context.Background(), PlaceBidCommand{ListingID: listing.ListingID, Bidder: "alice", Amount: 100}); err != nil {
		t.Fatalf("bid failed: %v", err)
	}
	offer, err := h.auctions.MakeOffer(context.Background(), MakeOfferCommand{
		ListingID: listing.ListingID,
		Buyer:     "bob",
		Amount:    200,
	})
	if err != nil {
		t.Fatalf("make offer failed: %v", err)
	}

	_, err = h.auctions.AcceptOffer(context.Background(), AcceptOfferCommand{OfferID: offer.OfferID, Caller: "seller"})
	if !errors.Is(err, settlementerrors.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if h.ledger.Balance(escrow) != 100 || h.ledger.Balance("alice") != 900 || h.ledger.Balance("bob") != 50 {
		t.Fatalf("failed acceptance must not move funds: escrow=%d alice=%d bob=%d",
			h.ledger.Balance(escrow), h.ledger.Balance("alice"), h.ledger.Balance("bob"))
	}
	stored, _ := h.store.GetListing(context.Background(), listing.ListingID)
	if stored.HighestBid == nil || stored.HighestBid.Bidder != "alice" || stored.HighestBid.Amount != 100 {
		t.Fatalf("standing bid must survive a failed acceptance: %+v", stored.HighestBid)
	}

	// The listing stays workable: the seller can still cancel and the
	// bidder gets the escrowed funds back.
	if _, err := h.auctions.CancelListing(context.Background(), CancelListingCommand{ListingID: listing.ListingID, Caller: "seller"}); err != nil {
		t.Fatalf("cancel after failed acceptance must succeed: %v", err)
	}
	if h.ledger.Balance("alice") != 1_000 || h.ledger.Balance(escrow) != 0 {
		t.Fatalf("cancel must refund the bidder: alice=%d escrow=%d", h.ledger.Balance("alice"), h.ledger.Balance(escrow))
	}
	if h.assets.Owner("mint-1") != "seller" {
		t.Fatalf("asset must return to seller, owner %s", h.assets.Owner("mint-1"))
	}
}

func TestAcceptOfferRejectedAfterAuctionEnd(t *testing.T) {
	h := newHarness(map[string]uint64{"alice": 1_000, "bob": 20_000}, map[string]string{"mint-1": "seller"})
	listing := h.openAuction(t, 100, 10, time.Hour)
	escrow := EscrowAccount(listing.ListingID)

	if _, err := h.auctions.PlaceBid(context.Background(), PlaceBidCommand{ListingID: listing.ListingID, Bidder: "alice", Amount: 100}); err != nil {
		t.Fatalf("bid failed: %v", err)
	}
	offer, err := h.auctions.MakeOffer(context.Background(), MakeOfferCommand{
		ListingID: listing.ListingID,
		Buyer:     "bob",
		Amount:    150,
	})
	if err != nil {
		t.Fatalf("make offer failed: %v", err)
	}

	h.clock.advance(2 * time.Hour)
	_, err = h.auctions.AcceptOffer(context.Background(), AcceptOfferCommand{OfferID: offer.OfferID, Caller: "seller"})
	if !errors.Is(err, domainerrors.ErrAuctionEnded) {
		t.Fatalf("expected ErrAuctionEnded, got %v", err)
	}
	if h.ledger.Balance(escrow) != 100 {
		t.Fatalf("escrow must keep the winning bid, got %d", h.ledger.Balance(escrow))
	}

	// The closed auction still settles to the winner.
	settled, err := h.auctions.SettleAuction(context.Background(), SettleAuctionCommand{ListingID: listing.ListingID})
	if err != nil {
		t.Fatalf("settle failed: %v", err)
	}
	if settled.Status != entities.ListingStatusSettled {
		t.Fatalf("expected settled status, got %s", settled.Status)
	}
	if h.assets.Owner("mint-1") != "alice" {
		t.Fatalf("asset must go to the auction winner, owner %s", h.assets.Owner("mint-1"))
	}
}

func TestMakeOfferRejectedAfterAuctionEnd(t *testing.T) {
	h := newHarness(map[string]uint64{"bob": 20_000}, map[string]string{"mint-1": "seller"})
	listing := h.openAuction(t, 100, 10, time.Hour)

	h.clock.advance(2 * time.Hour)
	_, err := h.auctions.MakeOffer(context.Background(), MakeOfferCommand{
		ListingID: listing.ListingID,
		Buyer:     "bob",
		Amount:    150,
	})
	if !errors.Is(err, domainerrors.ErrAuctionEnded) {
		t.Fatalf("expected ErrAuctionEnded, got %v", err)
	}
}

func TestAcceptOfferExpiredFlipsInactive(t *testing.T) {
	h := newHarness(map[string]uint64{"bob": 20_000}, map[string]string{"mint-1": "seller"})
	listing, err := h.auctions.CreateListing(context.Background(), CreateListingCommand{
		Seller:  "seller",
		NFTMint: "mint-1",
		Price:   10_000,
	})
	if err != nil {
		t.Fatalf("create listing failed: %v", err)
	}

	expiry := h.clock.now.Add(time.Minute)
	offer, err := h.auctions.MakeOffer(context.Background(), MakeOfferCommand{
		ListingID: listing.ListingID,
		Buyer:     "bob",
		Amount:    8_000,
		ExpiresAt: &expiry,
	})
	if err != nil {
		t.Fatalf("make offer failed: %v", err)
	}

	h.clock.advance(2 * time.Minute)
	_, err = h.auctions.AcceptOffer(context.Background(), AcceptOfferCommand{OfferID: offer.OfferID, Caller: "seller"})
	if !errors.Is(err, domainerrors.ErrOfferNotActive) {
		t.Fatalf("expected ErrOfferNotActive for expired offer, got %v", err)
	}
	stored, _ := h.store.GetOffer(context.Background(), offer.OfferID)
	if stored.IsActive {
		t.Fatal("expired offer must be marked inactive on acceptance attempt")
	}
	if h.ledger.Balance("bob") != 20_000 {
		t.Fatal("expired acceptance must not move funds")
	}
}
