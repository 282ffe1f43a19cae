package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"bazaar/contexts/marketplace-core/nft-auction-house/domain/entities"
	domainerrors "bazaar/contexts/marketplace-core/nft-auction-house/domain/errors"
	"bazaar/contexts/marketplace-core/nft-auction-house/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// configSingletonID keys the one marketplace config row owned by the
// marketplace-config module. This repository only bumps its counters.
const configSingletonID = "marketplace"

// Repository is the gorm-backed auction-house store. Writes that the ports
// contract requires to be atomic run inside one database transaction.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

func (r *Repository) GetListing(ctx context.Context, listingID string) (entities.Listing, error) {
	var row listingModel
	err := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Listing{}, domainerrors.ErrListingNotFound
		}
		return entities.Listing{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListListings(ctx context.Context, filter ports.ListingFilter) ([]entities.Listing, error) {
	query := r.db.WithContext(ctx).Model(&listingModel{})
	if filter.ActiveOnly {
		query = query.Where("status = ?", string(entities.ListingStatusActive))
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.Type != "" {
		query = query.Where("listing_type = ?", string(filter.Type))
	}
	if filter.Seller != "" {
		query = query.Where("seller = ?", filter.Seller)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var rows []listingModel
	if err := query.Order("created_at ASC, listing_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	listings := make([]entities.Listing, 0, len(rows))
	for _, row := range rows {
		listings = append(listings, row.toEntity())
	}
	return listings, nil
}

func (r *Repository) ListExpiredAuctions(ctx context.Context, now time.Time, limit int) ([]entities.Listing, error) {
	query := r.db.WithContext(ctx).
		Where("status = ? AND listing_type = ? AND auction_end <= ?",
			string(entities.ListingStatusActive), string(entities.ListingTypeAuction), now.UTC()).
		Order("auction_end ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var rows []listingModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	listings := make([]entities.Listing, 0, len(rows))
	for _, row := range rows {
		listings = append(listings, row.toEntity())
	}
	return listings, nil
}

func (r *Repository) CreateListingWithOutbox(ctx context.Context, listing entities.Listing, event ports.EventEnvelope) error {
	row := listingModelFromEntity(listing)
	outbox, err := outboxModelFromEnvelope(event)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrListingExists
			}
			return err
		}
		if err := bumpConfigCounters(tx, map[string]any{
			"total_listings": gorm.Expr("total_listings + 1"),
			"updated_at":     listing.CreatedAt.UTC(),
		}); err != nil {
			return err
		}
		return tx.Create(&outbox).Error
	})
}

func (r *Repository) UpdateListingWithOutbox(ctx context.Context, listing entities.Listing, event ports.EventEnvelope) error {
	row := listingModelFromEntity(listing)
	outbox, err := outboxModelFromEnvelope(event)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&listingModel{}).
			Where("listing_id = ?", listing.ListingID).
			Updates(row.updateColumns())
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrListingNotFound
		}
		return tx.Create(&outbox).Error
	})
}

func (r *Repository) FinalizeSaleWithOutbox(ctx context.Context, listing entities.Listing, offer *entities.Offer, salePrice uint64, event ports.EventEnvelope) error {
	row := listingModelFromEntity(listing)
	outbox, err := outboxModelFromEnvelope(event)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&listingModel{}).
			Where("listing_id = ?", listing.ListingID).
			Updates(row.updateColumns())
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrListingNotFound
		}
		if offer != nil {
			offerResult := tx.Model(&offerModel{}).
				Where("offer_id = ?", offer.OfferID).
				Updates(map[string]any{
					"is_active":  offer.IsActive,
					"updated_at": offer.UpdatedAt.UTC(),
				})
			if offerResult.Error != nil {
				return offerResult.Error
			}
			if offerResult.RowsAffected == 0 {
				return domainerrors.ErrOfferNotFound
			}
		}
		if err := bumpConfigCounters(tx, map[string]any{
			"total_sales":  gorm.Expr("total_sales + 1"),
			"total_volume": gorm.Expr("total_volume + ?", salePrice),
			"updated_at":   listing.UpdatedAt.UTC(),
		}); err != nil {
			return err
		}
		return tx.Create(&outbox).Error
	})
}

func (r *Repository) GetOffer(ctx context.Context, offerID string) (entities.Offer, error) {
	var row offerModel
	err := r.db.WithContext(ctx).
		Where("offer_id = ?", offerID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Offer{}, domainerrors.ErrOfferNotFound
		}
		return entities.Offer{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListOffersByListing(ctx context.Context, listingID string) ([]entities.Offer, error) {
	var rows []offerModel
	err := r.db.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("created_at ASC, offer_id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	offers := make([]entities.Offer, 0, len(rows))
	for _, row := range rows {
		offers = append(offers, row.toEntity())
	}
	return offers, nil
}

func (r *Repository) CreateOfferWithOutbox(ctx context.Context, offer entities.Offer, event ports.EventEnvelope) error {
	row := offerModelFromEntity(offer)
	outbox, err := outboxModelFromEnvelope(event)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing offerModel
		err := tx.Where("offer_id = ?", offer.OfferID).First(&existing).Error
		switch {
		case err == nil:
			if existing.IsActive {
				return domainerrors.ErrOfferExists
			}
			if err := tx.Model(&offerModel{}).
				Where("offer_id = ?", offer.OfferID).
				Updates(row.updateColumns()).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&row).Error; err != nil {
				if isUniqueViolation(err) {
					return domainerrors.ErrOfferExists
				}
				return err
			}
		default:
			return err
		}
		return tx.Create(&outbox).Error
	})
}

func (r *Repository) UpdateOffer(ctx context.Context, offer entities.Offer) error {
	result := r.db.WithContext(ctx).
		Model(&offerModel{}).
		Where("offer_id = ?", offer.OfferID).
		Updates(map[string]any{
			"is_active":  offer.IsActive,
			"updated_at": offer.UpdatedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrOfferNotFound
	}
	return nil
}

func (r *Repository) GetMarketplaceConfig(ctx context.Context) (ports.MarketplaceView, error) {
	var row configViewModel
	err := r.db.WithContext(ctx).
		Where("config_id = ?", configSingletonID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.MarketplaceView{}, domainerrors.ErrMarketplaceUninitialized
		}
		return ports.MarketplaceView{}, err
	}
	return ports.MarketplaceView{
		Treasury:        row.Treasury,
		PlatformReserve: row.PlatformReserve,
		FeeBps:          row.FeeBps,
		CreatorFeeBps:   row.CreatorFeeBps,
		RewardBps:       row.RewardBps,
	}, nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	query := r.db.WithContext(ctx).
		Where("published_at IS NULL").
		Order("created_at ASC, outbox_id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var rows []outboxModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	messages := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      row.Payload,
			CreatedAt:    row.CreatedAt,
		})
	}
	return messages, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	published := publishedAt.UTC()
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ? AND published_at IS NULL", outboxID).
		Update("published_at", &published)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrOutboxNotFound
	}
	return nil
}

func bumpConfigCounters(tx *gorm.DB, updates map[string]any) error {
	result := tx.Table("marketplace_config").
		Where("config_id = ?", configSingletonID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrMarketplaceUninitialized
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type listingModel struct {
	ListingID       string     `gorm:"column:listing_id;primaryKey"`
	Seller          string     `gorm:"column:seller"`
	NFTMint         string     `gorm:"column:nft_mint"`
	Creator         string     `gorm:"column:creator"`
	Price           uint64     `gorm:"column:price"`
	MinBidIncrement uint64     `gorm:"column:min_bid_increment"`
	AuctionEnd      *time.Time `gorm:"column:auction_end"`
	HighestBidder   *string    `gorm:"column:highest_bidder"`
	HighestBid      *uint64    `gorm:"column:highest_bid"`
	Status          string     `gorm:"column:status"`
	ListingType     string     `gorm:"column:listing_type"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
}

func (listingModel) TableName() string {
	return "auction_listings"
}

func listingModelFromEntity(listing entities.Listing) listingModel {
	row := listingModel{
		ListingID:       listing.ListingID,
		Seller:          listing.Seller,
		NFTMint:         listing.NFTMint,
		Creator:         listing.Creator,
		Price:           listing.Price,
		MinBidIncrement: listing.MinBidIncrement,
		AuctionEnd:      listing.AuctionEnd,
		Status:          string(listing.Status),
		ListingType:     string(listing.ListingType),
		CreatedAt:       listing.CreatedAt.UTC(),
		UpdatedAt:       listing.UpdatedAt.UTC(),
	}
	if listing.HighestBid != nil {
		bidder := listing.HighestBid.Bidder
		amount := listing.HighestBid.Amount
		row.HighestBidder = &bidder
		row.HighestBid = &amount
	}
	return row
}

// updateColumns maps the mutable listing state. Explicit nils clear the bid
// columns, which a struct update would silently skip.
func (m listingModel) updateColumns() map[string]any {
	return map[string]any{
		"highest_bidder": m.HighestBidder,
		"highest_bid":    m.HighestBid,
		"status":         m.Status,
		"updated_at":     m.UpdatedAt,
	}
}

func (m listingModel) toEntity() entities.Listing {
	listing := entities.Listing{
		ListingID:       m.ListingID,
		Seller:          m.Seller,
		NFTMint:         m.NFTMint,
		Creator:         m.Creator,
		Price:           m.Price,
		MinBidIncrement: m.MinBidIncrement,
		AuctionEnd:      m.AuctionEnd,
		Status:          entities.ListingStatus(m.Status),
		ListingType:     entities.ListingType(m.ListingType),
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	if m.HighestBidder != nil && m.HighestBid != nil {
		listing.HighestBid = &entities.Bid{Bidder: *m.HighestBidder, Amount: *m.HighestBid}
	}
	return listing
}

type offerModel struct {
	OfferID   string     `gorm:"column:offer_id;primaryKey"`
	Buyer     string     `gorm:"column:buyer"`
	ListingID string     `gorm:"column:listing_id"`
	Amount    uint64     `gorm:"column:amount"`
	IsActive  bool       `gorm:"column:is_active"`
	ExpiresAt *time.Time `gorm:"column:expires_at"`
	CreatedAt time.Time  `gorm:"column:created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at"`
}

func (offerModel) TableName() string {
	return "auction_offers"
}

func offerModelFromEntity(offer entities.Offer) offerModel {
	return offerModel{
		OfferID:   offer.OfferID,
		Buyer:     offer.Buyer,
		ListingID: offer.ListingID,
		Amount:    offer.Amount,
		IsActive:  offer.IsActive,
		ExpiresAt: offer.ExpiresAt,
		CreatedAt: offer.CreatedAt.UTC(),
		UpdatedAt: offer.UpdatedAt.UTC(),
	}
}

// updateColumns maps the columns an offer replacement rewrites when an
// inactive offer under the same key is renewed.
func (m offerModel) updateColumns() map[string]any {
	return map[string]any{
		"amount":     m.Amount,
		"is_active":  m.IsActive,
		"expires_at": m.ExpiresAt,
		"created_at": m.CreatedAt,
		"updated_at": m.UpdatedAt,
	}
}

func (m offerModel) toEntity() entities.Offer {
	return entities.Offer{
		OfferID:   m.OfferID,
		Buyer:     m.Buyer,
		ListingID: m.ListingID,
		Amount:    m.Amount,
		IsActive:  m.IsActive,
		ExpiresAt: m.ExpiresAt,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type configViewModel struct {
	ConfigID        string `gorm:"column:config_id;primaryKey"`
	Treasury        string `gorm:"column:treasury"`
	PlatformReserve string `gorm:"column:platform_reserve"`
	FeeBps          uint16 `gorm:"column:fee_bps"`
	CreatorFeeBps   uint16 `gorm:"column:creator_fee_bps"`
	RewardBps       uint16 `gorm:"column:reward_bps"`
}

func (configViewModel) TableName() string {
	return "marketplace_config"
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "auction_outbox"
}

func outboxModelFromEnvelope(event ports.EventEnvelope) (outboxModel, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return outboxModel{}, err
	}
	return outboxModel{
		OutboxID:     event.EventID,
		EventType:    event.EventType,
		PartitionKey: event.PartitionKey,
		Payload:      payload,
		CreatedAt:    event.OccurredAt.UTC(),
	}, nil
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
