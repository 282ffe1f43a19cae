package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"bazaar/contexts/finance-core/revenue-share-pool/domain/entities"
	domainerrors "bazaar/contexts/finance-core/revenue-share-pool/domain/errors"
	"bazaar/contexts/finance-core/revenue-share-pool/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// poolSingletonID keys the one revenue pool row.
const poolSingletonID = "revenue-pool"

// Repository is the gorm-backed pool store. The distribution write commits
// the running total and the outbox row in one database transaction.
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

func (r *Repository) CreatePool(ctx context.Context, pool entities.RevenuePool) error {
	row := poolModelFromEntity(pool)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrPoolExists
		}
		return err
	}
	return nil
}

func (r *Repository) GetPool(ctx context.Context) (entities.RevenuePool, error) {
	var row poolModel
	err := r.db.WithContext(ctx).
		Where("pool_id = ?", poolSingletonID).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.RevenuePool{}, domainerrors.ErrPoolNotFound
		}
		return entities.RevenuePool{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) RecordDistribution(ctx context.Context, totalDistributed uint64, updatedAt time.Time, event ports.EventEnvelope) error {
	outbox, err := outboxModelFromEnvelope(event)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&poolModel{}).
			Where("pool_id = ?", poolSingletonID).
			Updates(map[string]any{
				"total_distributed": totalDistributed,
				"updated_at":        updatedAt.UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrPoolNotFound
		}
		return tx.Create(&outbox).Error
	})
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

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type poolModel struct {
	PoolID           string    `gorm:"column:pool_id;primaryKey"`
	Authority        string    `gorm:"column:authority"`
	CreatorAccount   string    `gorm:"column:creator_account"`
	PlatformAccount  string    `gorm:"column:platform_account"`
	CreatorShareBps  uint16    `gorm:"column:creator_share_bps"`
	PlatformShareBps uint16    `gorm:"column:platform_share_bps"`
	TotalDistributed uint64    `gorm:"column:total_distributed"`
	CreatedAt        time.Time `gorm:"column:created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at"`
}

func (poolModel) TableName() string {
	return "revenue_pool"
}

func poolModelFromEntity(pool entities.RevenuePool) poolModel {
	return poolModel{
		PoolID:           poolSingletonID,
		Authority:        pool.Authority,
		CreatorAccount:   pool.CreatorAccount,
		PlatformAccount:  pool.PlatformAccount,
		CreatorShareBps:  pool.CreatorShareBps,
		PlatformShareBps: pool.PlatformShareBps,
		TotalDistributed: pool.TotalDistributed,
		CreatedAt:        pool.CreatedAt.UTC(),
		UpdatedAt:        pool.UpdatedAt.UTC(),
	}
}

func (m poolModel) toEntity() entities.RevenuePool {
	return entities.RevenuePool{
		Authority:        m.Authority,
		CreatorAccount:   m.CreatorAccount,
		PlatformAccount:  m.PlatformAccount,
		CreatorShareBps:  m.CreatorShareBps,
		PlatformShareBps: m.PlatformShareBps,
		TotalDistributed: m.TotalDistributed,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
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
	return "revenue_pool_outbox"
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
