package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"booking-audit-backend/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	ReplaceSnapshot(ctx context.Context, rows []model.BookingRow) error
	ListBookingRows(ctx context.Context) ([]model.BookingRow, error)
	CreateAuditRun(ctx context.Context, run *model.AuditRun) error
	ListAuditRuns(ctx context.Context, limit int) ([]model.AuditRun, error)
	UpsertSubscription(ctx context.Context, sub *model.PushSubscription) error
	GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error)
	ListSubscriptions(ctx context.Context) ([]model.PushSubscription, error)
	DeleteSubscription(ctx context.Context, endpoint string) error
	DB() *gorm.DB
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// DB exposes the underlying connection for handlers that query directly.
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// ReplaceSnapshot swaps the stored snapshot for a fresh import in one
// transaction. Row insert order is preserved through ascending primary keys,
// which ListBookingRows relies on to keep the original input ordering.
func (s *gormStore) ReplaceSnapshot(ctx context.Context, rows []model.BookingRow) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.BookingRow{}).Error; err != nil {
			return fmt.Errorf("failed to clear previous snapshot: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(&rows, 500).Error; err != nil {
			return fmt.Errorf("failed to insert snapshot rows: %w", err)
		}
		return nil
	})
}

// ListBookingRows returns the full snapshot in original import order.
func (s *gormStore) ListBookingRows(ctx context.Context) ([]model.BookingRow, error) {
	var rows []model.BookingRow
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list booking rows: %w", err)
	}
	return rows, nil
}

// CreateAuditRun persists one audit run summary.
func (s *gormStore) CreateAuditRun(ctx context.Context, run *model.AuditRun) error {
	if err := s.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("failed to create audit run: %w", err)
	}
	return nil
}

// ListAuditRuns returns the most recent run summaries, newest first.
func (s *gormStore) ListAuditRuns(ctx context.Context, limit int) ([]model.AuditRun, error) {
	var runs []model.AuditRun
	if err := s.db.WithContext(ctx).Order("ran_at DESC").Limit(limit).Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list audit runs: %w", err)
	}
	return runs, nil
}

// UpsertSubscription creates or refreshes a push subscription.
func (s *gormStore) UpsertSubscription(ctx context.Context, sub *model.PushSubscription) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth"}),
	}).Create(sub).Error
	if err != nil {
		return fmt.Errorf("failed to upsert subscription: %w", err)
	}
	return nil
}

// GetSubscription looks a subscription up by its endpoint.
func (s *gormStore) GetSubscription(ctx context.Context, endpoint string) (*model.PushSubscription, error) {
	var sub model.PushSubscription
	if err := s.db.WithContext(ctx).First(&sub, "endpoint = ?", endpoint).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// ListSubscriptions returns every stored push subscription.
func (s *gormStore) ListSubscriptions(ctx context.Context) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	if err := s.db.WithContext(ctx).Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return subs, nil
}

// DeleteSubscription removes a subscription by endpoint.
func (s *gormStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	if err := s.db.WithContext(ctx).Delete(&model.PushSubscription{Endpoint: endpoint}).Error; err != nil {
		return fmt.Errorf("failed to delete subscription %s: %w", endpoint, err)
	}
	return nil
}
