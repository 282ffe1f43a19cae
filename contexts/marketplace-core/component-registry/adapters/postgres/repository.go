package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"bazaar/contexts/marketplace-core/component-registry/domain/entities"
	domainerrors "bazaar/contexts/marketplace-core/component-registry/domain/errors"
	"bazaar/contexts/marketplace-core/component-registry/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// configSingletonID keys the one marketplace config row owned by the
// marketplace-config module. This repository only bumps its counters.
const configSingletonID = "marketplace"

// Repository is the gorm-backed registry store. Writes that the ports
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

func (r *Repository) GetComponent(ctx context.Context, componentID string) (entities.Component, error) {
	var row componentModel
	err := r.db.WithContext(ctx).
		Where("component_id = ?", componentID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Component{}, domainerrors.ErrComponentNotFound
		}
		return entities.Component{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListComponents(ctx context.Context, filter ports.ComponentListFilter) ([]entities.Component, error) {
	query := r.db.WithContext(ctx).Model(&componentModel{})
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.Creator != "" {
		query = query.Where("creator = ?", filter.Creator)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var rows []componentModel
	if err := query.Order("created_at ASC, component_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	components := make([]entities.Component, 0, len(rows))
	for _, row := range rows {
		components = append(components, row.toEntity())
	}
	return components, nil
}

func (r *Repository) CreateComponentWithOutbox(ctx context.Context, component entities.Component, event ports.EventEnvelope) error {
	row := componentModelFromEntity(component)
	outbox, err := outboxModelFromEnvelope(event)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrComponentExists
			}
			return err
		}
		if err := bumpConfigCounters(tx, map[string]any{
			"total_listings": gorm.Expr("total_listings + 1"),
			"updated_at":     component.CreatedAt.UTC(),
		}); err != nil {
			return err
		}
		return tx.Create(&outbox).Error
	})
}

func (r *Repository) DeactivateComponent(ctx context.Context, componentID string, updatedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&componentModel{}).
		Where("component_id = ?", componentID).
		Updates(map[string]any{
			"is_active":  false,
			"updated_at": updatedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrComponentNotFound
	}
	return nil
}

func (r *Repository) GetPurchase(ctx context.Context, purchaseID string) (entities.Purchase, error) {
	var row purchaseModel
	err := r.db.WithContext(ctx).
		Where("purchase_id = ?", purchaseID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Purchase{}, domainerrors.ErrPurchaseNotFound
		}
		return entities.Purchase{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) ListPurchasesByBuyer(ctx context.Context, buyer string) ([]entities.Purchase, error) {
	var rows []purchaseModel
	err := r.db.WithContext(ctx).
		Where("buyer = ?", buyer).
		Order("purchased_at ASC, purchase_id ASC").
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}
	purchases := make([]entities.Purchase, 0, len(rows))
	for _, row := range rows {
		purchases = append(purchases, row.toEntity())
	}
	return purchases, nil
}

func (r *Repository) FinalizePurchase(ctx context.Context, purchase entities.Purchase, event ports.EventEnvelope) error {
	row := purchaseModelFromEntity(purchase)
	outbox, err := outboxModelFromEnvelope(event)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrAlreadyPurchased
			}
			return err
		}
		result := tx.Model(&componentModel{}).
			Where("component_id = ?", purchase.ComponentID).
			Updates(map[string]any{
				"total_sales":          gorm.Expr("total_sales + 1"),
				"total_rewards_earned": gorm.Expr("total_rewards_earned + ?", purchase.Reward),
				"updated_at":           purchase.PurchasedAt.UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrComponentNotFound
		}
		if err := bumpConfigCounters(tx, map[string]any{
			"total_sales":  gorm.Expr("total_sales + 1"),
			"total_volume": gorm.Expr("total_volume + ?", purchase.Price),
			"updated_at":   purchase.PurchasedAt.UTC(),
		}); err != nil {
			return err
		}
		return tx.Create(&outbox).Error
	})
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

type componentModel struct {
	ComponentID        string    `gorm:"column:component_id;primaryKey"`
	Creator            string    `gorm:"column:creator"`
	Price              uint64    `gorm:"column:price"`
	MetadataURI        string    `gorm:"column:metadata_uri"`
	IsActive           bool      `gorm:"column:is_active"`
	TotalSales         uint64    `gorm:"column:total_sales"`
	TotalRewardsEarned uint64    `gorm:"column:total_rewards_earned"`
	CreatedAt          time.Time `gorm:"column:created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at"`
}

func (componentModel) TableName() string {
	return "registry_components"
}

func componentModelFromEntity(component entities.Component) componentModel {
	return componentModel{
		ComponentID:        component.ComponentID,
		Creator:            component.Creator,
		Price:              component.Price,
		MetadataURI:        component.MetadataURI,
		IsActive:           component.IsActive,
		TotalSales:         component.TotalSales,
		TotalRewardsEarned: component.TotalRewardsEarned,
		CreatedAt:          component.CreatedAt.UTC(),
		UpdatedAt:          component.UpdatedAt.UTC(),
	}
}

func (m componentModel) toEntity() entities.Component {
	return entities.Component{
		ComponentID:        m.ComponentID,
		Creator:            m.Creator,
		Price:              m.Price,
		MetadataURI:        m.MetadataURI,
		IsActive:           m.IsActive,
		TotalSales:         m.TotalSales,
		TotalRewardsEarned: m.TotalRewardsEarned,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

type purchaseModel struct {
	PurchaseID  string    `gorm:"column:purchase_id;primaryKey"`
	Buyer       string    `gorm:"column:buyer"`
	ComponentID string    `gorm:"column:component_id"`
	Price       uint64    `gorm:"column:price"`
	Reward      uint64    `gorm:"column:reward"`
	PurchasedAt time.Time `gorm:"column:purchased_at"`
}

func (purchaseModel) TableName() string {
	return "registry_purchases"
}

func purchaseModelFromEntity(purchase entities.Purchase) purchaseModel {
	return purchaseModel{
		PurchaseID:  purchase.PurchaseID,
		Buyer:       purchase.Buyer,
		ComponentID: purchase.ComponentID,
		Price:       purchase.Price,
		Reward:      purchase.Reward,
		PurchasedAt: purchase.PurchasedAt.UTC(),
	}
}

func (m purchaseModel) toEntity() entities.Purchase {
	return entities.Purchase{
		PurchaseID:  m.PurchaseID,
		Buyer:       m.Buyer,
		ComponentID: m.ComponentID,
		Price:       m.Price,
		Reward:      m.Reward,
		PurchasedAt: m.PurchasedAt,
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
	return "registry_outbox"
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
