package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"catalog/internal/models"
	"catalog/internal/repository"
)

// Store wraps a ProductStore with a redis read-through cache for single products.
// Cache failures are logged and never fail the call.
//
// Entries are keyed by a per-product version that Update and Delete bump after
// writing, so a reader that loaded the row before the write can only fill an
// entry nobody reads any more.
type Store struct {
	next repository.ProductStore
	rdb  *redis.Client
	ttl  time.Duration
}

func New(next repository.ProductStore, rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{next: next, rdb: rdb, ttl: ttl}
}

// Connect создаёт клиента и проверяет соединение
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("error connecting to Redis: %w", err)
	}
	return rdb, nil
}

func versionKey(id uint) string {
	return fmt.Sprintf("produto:%d:v", id)
}

func entryKey(id uint, version int64) string {
	return fmt.Sprintf("produto:%d:v%d", id, version)
}

func (s *Store) List(ctx context.Context) ([]models.Product, error) {
	return s.next.List(ctx)
}

func (s *Store) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	// версия читается до похода в базу
	version, err := s.rdb.Get(ctx, versionKey(id)).Int64()
	switch {
	case err == redis.Nil:
		version = 0
	case err != nil:
		log.Printf("cache: version of product %d: %v", id, err)
		return s.next.GetByID(ctx, id)
	}
	k := entryKey(id, version)

	raw, err := s.rdb.Get(ctx, k).Bytes()
	switch {
	case err == nil:
		var p models.Product
		if err := json.Unmarshal(raw, &p); err == nil {
			return &p, nil
		}
		log.Printf("cache: corrupt entry for product %d, reloading", id)
	case err != redis.Nil:
		log.Printf("cache: get product %d: %v", id, err)
	}

	p, err := s.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(p); err == nil {
		if err := s.rdb.Set(ctx, k, data, s.ttl).Err(); err != nil {
			log.Printf("cache: set product %d: %v", id, err)
		}
	}
	return p, nil
}

func (s *Store) Create(ctx context.Context, p *models.Product) error {
	return s.next.Create(ctx, p)
}

func (s *Store) Update(ctx context.Context, p *models.Product) error {
	if err := s.next.Update(ctx, p); err != nil {
		return err
	}
	s.invalidate(ctx, p.ID)
	return nil
}

func (s *Store) Delete(ctx context.Context, id uint) error {
	if err := s.next.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// invalidate переключает товар на новую версию; старые записи доживают до TTL
func (s *Store) invalidate(ctx context.Context, id uint) {
	if err := s.rdb.Incr(ctx, versionKey(id)).Err(); err != nil {
		log.Printf("cache: invalidate product %d: %v", id, err)
	}
}
