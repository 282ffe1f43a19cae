package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"bazaar/contexts/marketplace-core/marketplace-config/domain/entities"
	domainerrors "bazaar/contexts/marketplace-core/marketplace-config/domain/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// singletonID keys the one marketplace config row.
const singletonID = "marketplace"

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

func (r *Repository) CreateConfig(ctx context.Context, config entities.MarketplaceConfig) error {
	row := configModelFromEntity(config)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrMarketplaceExists
		}
		return err
	}
	return nil
}

func (r *Repository) GetConfig(ctx context.Context) (entities.MarketplaceConfig, error) {
	var row configModel
	err := r.db.WithContext(ctx).
		Where("config_id = ?", singletonID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.MarketplaceConfig{}, domainerrors.ErrMarketplaceNotFound
		}
		return entities.MarketplaceConfig{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) UpdateFees(ctx context.Context, feeBps uint16, creatorFeeBps uint16, updatedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&configModel{}).
		Where("config_id = ?", singletonID).
		Updates(map[string]any{
			"fee_bps":         feeBps,
			"creator_fee_bps": creatorFeeBps,
			"updated_at":      updatedAt.UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrMarketplaceNotFound
	}
	return nil
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type configModel struct {
	ConfigID        string    `gorm:"column:config_id;primaryKey"`
	Authority       string    `gorm:"column:authority"`
	Treasury        string    `gorm:"column:treasury"`
	PlatformReserve string    `gorm:"column:platform_reserve"`
	FeeBps          uint16    `gorm:"column:fee_bps"`
	CreatorFeeBps   uint16    `gorm:"column:creator_fee_bps"`
	RewardBps       uint16    `gorm:"column:reward_bps"`
	TotalVolume     uint64    `gorm:"column:total_volume"`
	TotalListings   uint64    `gorm:"column:total_listings"`
	TotalSales      uint64    `gorm:"column:total_sales"`
	CreatedAt       time.Time `gorm:"column:created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at"`
}

func (configModel) TableName() string {
	return "marketplace_config"
}

func configModelFromEntity(config entities.MarketplaceConfig) configModel {
	return configModel{
		ConfigID:        singletonID,
		Authority:       config.Authority,
		Treasury:        config.Treasury,
		PlatformReserve: config.PlatformReserve,
		FeeBps:          config.FeeBps,
		CreatorFeeBps:   config.CreatorFeeBps,
		RewardBps:       config.RewardBps,
		TotalVolume:     config.TotalVolume,
		TotalListings:   config.TotalListings,
		TotalSales:      config.TotalSales,
		CreatedAt:       config.CreatedAt.UTC(),
		UpdatedAt:       config.UpdatedAt.UTC(),
	}
}

func (m configModel) toEntity() entities.MarketplaceConfig {
	return entities.MarketplaceConfig{
		Authority:       m.Authority,
		Treasury:        m.Treasury,
		PlatformReserve: m.PlatformReserve,
		FeeBps:          m.FeeBps,
		CreatorFeeBps:   m.CreatorFeeBps,
		RewardBps:       m.RewardBps,
		TotalVolume:     m.TotalVolume,
		TotalListings:   m.TotalListings,
		TotalSales:      m.TotalSales,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
