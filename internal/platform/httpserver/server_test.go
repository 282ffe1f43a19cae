package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	revenuepool "bazaar/contexts/finance-core/revenue-share-pool"
	componentregistry "bazaar/contexts/marketplace-core/component-registry"
	registryports "bazaar/contexts/marketplace-core/component-registry/ports"
	marketplaceconfig "bazaar/contexts/marketplace-core/marketplace-config"
	auctionhouse "bazaar/contexts/marketplace-core/nft-auction-house"
	auctionports "bazaar/contexts/marketplace-core/nft-auction-house/ports"
)

func extractJSONField(t *testing.T, body []byte, field string) string {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	value, ok := payload[field].(string)
	if !ok || value == "" {
		t.Fatalf("response missing %q: %s", field, string(body))
	}
	return value
}

func newTestServer() *Server {
	view := registryports.MarketplaceView{
		Treasury:        "treasury",
		PlatformReserve: "reserve",
		FeeBps:          300,
		CreatorFeeBps:   500,
		RewardBps:       200,
	}
	balances := map[string]uint64{
		"alice":   100_000,
		"bob":     100_000,
		"revenue": 100_000,
		"reserve": 100_000,
	}
	return New(
		marketplaceconfig.NewInMemoryModule(nil),
		componentregistry.NewInMemoryModule(view, balances, nil),
		auctionhouse.NewInMemoryModule(auctionports.MarketplaceView{
			Treasury:        view.Treasury,
			PlatformReserve: view.PlatformReserve,
			FeeBps:          view.FeeBps,
			CreatorFeeBps:   view.CreatorFeeBps,
			RewardBps:       view.RewardBps,
		}, balances, map[string]string{"mint-1": "alice"}, nil),
		revenuepool.NewInMemoryModule(balances, nil),
		nil,
		":0",
	)
}

func doJSON(t *testing.T, server *Server, method, path, caller, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if caller != "" {
		req.Header.Set("X-Caller-Id", caller)
	}
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	return rr
}

func TestMarketplaceInitializeIsSingleton(t *testing.T) {
	server := newTestServer()

	body := `{"treasury":"treasury","platform_reserve":"reserve","fee_bps":300,"creator_fee_bps":500}`
	rr := doJSON(t, server, http.MethodPost, "/v1/marketplace", "admin", body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 init, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodPost, "/v1/marketplace", "admin", body)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 second init, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodGet, "/v1/marketplace", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 stats, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestFeeUpdateRejectsNonAuthority(t *testing.T) {
	server := newTestServer()

	rr := doJSON(t, server, http.MethodPost, "/v1/marketplace", "admin",
		`{"treasury":"treasury","platform_reserve":"reserve","fee_bps":300,"creator_fee_bps":500}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 init, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodPut, "/v1/marketplace/fees", "mallory", `{"fee_bps":100,"creator_fee_bps":100}`)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 fee update, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestComponentRoutesRequireCaller(t *testing.T) {
	server := newTestServer()

	rr := doJSON(t, server, http.MethodPost, "/v1/components", "", `{"component_id":"comp-1","price":1000}`)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without caller, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestComponentPurchaseFlow(t *testing.T) {
	server := newTestServer()

	rr := doJSON(t, server, http.MethodPost, "/v1/components", "alice",
		`{"component_id":"comp-1","price":10000,"metadata_uri":"ipfs://comp-1"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 listing, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodPost, "/v1/components/comp-1/purchase", "bob", "")
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 purchase, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodPost, "/v1/components/comp-1/purchase", "bob", "")
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 repeat purchase, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodGet, "/v1/purchases", "bob", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 receipts, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestAuctionBidBelowMinimumRejected(t *testing.T) {
	server := newTestServer()

	end := time.Now().UTC().Add(time.Hour).Format(time.RFC3339)
	rr := doJSON(t, server, http.MethodPost, "/v1/listings", "alice",
		fmt.Sprintf(`{"nft_mint":"mint-1","price":1000,"min_bid_increment":10,"auction_end":%q}`, end))
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 auction, got %d body=%s", rr.Code, rr.Body.String())
	}

	listingID := extractJSONField(t, rr.Body.Bytes(), "listing_id")
	rr = doJSON(t, server, http.MethodPost, "/v1/listings/"+listingID+"/bids", "bob", `{"amount":500}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 low bid, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodPost, "/v1/listings/"+listingID+"/bids", "bob", `{"amount":1000}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 bid, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestFixedPriceListingPurchase(t *testing.T) {
	server := newTestServer()

	rr := doJSON(t, server, http.MethodPost, "/v1/listings", "alice", `{"nft_mint":"mint-1","price":5000}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 listing, got %d body=%s", rr.Code, rr.Body.String())
	}

	listingID := extractJSONField(t, rr.Body.Bytes(), "listing_id")
	rr = doJSON(t, server, http.MethodPost, "/v1/listings/"+listingID+"/purchase", "bob", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 purchase, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodPost, "/v1/listings/"+listingID+"/purchase", "bob", "")
	if rr.Code != http.StatusGone {
		t.Fatalf("expected 410 repeat purchase, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestRevenuePoolDistribution(t *testing.T) {
	server := newTestServer()

	rr := doJSON(t, server, http.MethodPost, "/v1/revenue-pool", "authority",
		`{"creator_account":"creators","platform_account":"platform","creator_share_bps":6000,"platform_share_bps":4000}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 pool init, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodPost, "/v1/revenue-pool/distributions", "mallory",
		`{"source":"revenue","amount":100}`)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 distribution, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodPost, "/v1/revenue-pool/distributions", "authority",
		`{"source":"revenue","amount":100}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 distribution, got %d body=%s", rr.Code, rr.Body.String())
	}
}
