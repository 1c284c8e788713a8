package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"goflare.io/minicart/driver"
	"goflare.io/minicart/models"
)

const listProductsSQL = `SELECT id, name, price FROM products ORDER BY id`

var _ Source = (*PostgresSource)(nil)

// PostgresSource 從 products 資料表讀取目錄
type PostgresSource struct {
	tm     *driver.TransactionManager
	logger *zap.Logger
}

func NewPostgresSource(tm *driver.TransactionManager, logger *zap.Logger) *PostgresSource {
	return &PostgresSource{
		tm:     tm,
		logger: logger,
	}
}

func (s *PostgresSource) Load(ctx context.Context) ([]models.Product, error) {
	var products []models.Product

	err := s.tm.ExecuteReadOnly(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, listProductsSQL)
		if err != nil {
			return fmt.Errorf("failed to query products: %w", err)
		}

		products, err = pgx.CollectRows(rows, pgx.RowToStructByName[models.Product])
		if err != nil {
			return fmt.Errorf("failed to scan products: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to load catalog from postgres", zap.Error(err))
		return nil, err
	}

	return products, nil
}
