package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	revenuepool "bazaar/contexts/finance-core/revenue-share-pool"
	componentregistry "bazaar/contexts/marketplace-core/component-registry"
	marketplaceconfig "bazaar/contexts/marketplace-core/marketplace-config"
	auctionhouse "bazaar/contexts/marketplace-core/nft-auction-house"

	_ "bazaar/internal/platform/httpserver/docs"

	httpSwagger "github.com/swaggo/http-swagger"
)

type Server struct {
	mux         *http.ServeMux
	logger      *slog.Logger
	addr        string
	marketplace marketplaceconfig.Module
	registry    componentregistry.Module
	auctions    auctionhouse.Module
	revenue     revenuepool.Module
}

func New(
	marketplace marketplaceconfig.Module,
	registry componentregistry.Module,
	auctions auctionhouse.Module,
	revenue revenuepool.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:         http.NewServeMux(),
		logger:      logger,
		addr:        addr,
		marketplace: marketplace,
		registry:    registry,
		auctions:    auctions,
		revenue:     revenue,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /v1/marketplace", s.handleInitializeMarketplace)
	s.mux.HandleFunc("PUT /v1/marketplace/fees", s.handleUpdateFees)
	s.mux.HandleFunc("GET /v1/marketplace", s.handleGetMarketplaceStats)

	s.mux.HandleFunc("POST /v1/components", s.handleListComponent)
	s.mux.HandleFunc("GET /v1/components", s.handleListComponents)
	s.mux.HandleFunc("GET /v1/components/{id}", s.handleGetComponent)
	s.mux.HandleFunc("DELETE /v1/components/{id}", s.handleDelistComponent)
	s.mux.HandleFunc("POST /v1/components/{id}/purchase", s.handlePurchaseComponent)
	s.mux.HandleFunc("GET /v1/purchases", s.handleListPurchases)

	s.mux.HandleFunc("POST /v1/listings", s.handleCreateListing)
	s.mux.HandleFunc("GET /v1/listings", s.handleListListings)
	s.mux.HandleFunc("GET /v1/listings/{id}", s.handleGetListing)
	s.mux.HandleFunc("DELETE /v1/listings/{id}", s.handleCancelListing)
	s.mux.HandleFunc("POST /v1/listings/{id}/bids", s.handlePlaceBid)
	s.mux.HandleFunc("POST /v1/listings/{id}/purchase", s.handlePurchaseListing)
	s.mux.HandleFunc("POST /v1/listings/{id}/offers", s.handleMakeOffer)
	s.mux.HandleFunc("GET /v1/listings/{id}/offers", s.handleListOffers)
	s.mux.HandleFunc("POST /v1/listings/{id}/settle", s.handleSettleAuction)
	s.mux.HandleFunc("DELETE /v1/offers/{id}", s.handleCancelOffer)
	s.mux.HandleFunc("POST /v1/offers/{id}/accept", s.handleAcceptOffer)

	s.mux.HandleFunc("POST /v1/revenue-pool", s.handleInitializePool)
	s.mux.HandleFunc("GET /v1/revenue-pool", s.handleGetPool)
	s.mux.HandleFunc("POST /v1/revenue-pool/distributions", s.handleDistributeRevenue)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// resolveCaller extracts the authenticated caller identity set by the edge
// gateway. Handlers that mutate state reject requests without it.
func resolveCaller(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get("X-Caller-Id"))
}
