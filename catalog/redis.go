package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"goflare.io/minicart/models"
)

// DefaultRedisKey is where the catalog JSON array lives unless configured.
const DefaultRedisKey = "minicart:catalog"

var ErrCatalogNotSeeded = errors.New("catalog key not found in redis")

var _ Source = (*RedisSource)(nil)

// RedisSource reads the catalog from a single key holding a JSON array.
type RedisSource struct {
	client redis.UniversalClient
	key    string
	logger *zap.Logger
}

func NewRedisSource(client redis.UniversalClient, key string, logger *zap.Logger) *RedisSource {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisSource{
		client: client,
		key:    key,
		logger: logger,
	}
}

func (s *RedisSource) Load(ctx context.Context) ([]models.Product, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%s: %w", s.key, ErrCatalogNotSeeded)
	}
	if err != nil {
		s.logger.Error("Failed to read catalog from redis", zap.String("key", s.key), zap.Error(err))
		return nil, err
	}

	var products []models.Product
	if err = json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to decode catalog %s: %w", s.key, err)
	}

	return products, nil
}

// Store 寫入目錄，供部署時初始化使用
func (s *RedisSource) Store(ctx context.Context, products []models.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}

	if err = s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		s.logger.Error("Failed to store catalog in redis", zap.String("key", s.key), zap.Error(err))
		return err
	}

	s.logger.Info("Catalog stored in redis", zap.String("key", s.key), zap.Int("products", len(products)))
	return nil
}
