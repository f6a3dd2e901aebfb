// Package cache holds the optional Redis read cache for the product
// catalog. A nil *ProductCache is valid everywhere and behaves as a
// permanent miss, so the server runs fine without Redis configured.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"foodtruck-ops/models"
)

const DefaultTTL = 60 * time.Second

type ProductCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewProductCache(rdb *redis.Client, ttl time.Duration) *ProductCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ProductCache{rdb: rdb, ttl: ttl}
}

func productKey(id uint) string {
	return fmt.Sprintf("product:%d", id)
}

func listKey(offset, limit int, category string) string {
	return fmt.Sprintf("products:%d:%d:%s", offset, limit, category)
}

func (pc *ProductCache) GetProduct(ctx context.Context, id uint) (*models.Product, bool) {
	if pc == nil {
		return nil, false
	}
	data, err := pc.rdb.Get(ctx, productKey(id)).Bytes()
	if err != nil {
		return nil, false
	}
	var product models.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, false
	}
	return &product, true
}

func (pc *ProductCache) SetProduct(ctx context.Context, product *models.Product) {
	if pc == nil {
		return
	}
	data, err := json.Marshal(product)
	if err != nil {
		return
	}
	pc.rdb.SetEx(ctx, productKey(product.ID), data, pc.ttl)
}

// cachedList carries the table-wide count next to the page so a cache
// hit serves the same pagination envelope as a database read.
type cachedList struct {
	Products   []models.Product `json:"products"`
	TotalCount int64            `json:"total_count"`
}

func (pc *ProductCache) GetList(ctx context.Context, offset, limit int, category string) ([]models.Product, int64, bool) {
	if pc == nil {
		return nil, 0, false
	}
	data, err := pc.rdb.Get(ctx, listKey(offset, limit, category)).Bytes()
	if err != nil {
		return nil, 0, false
	}
	var entry cachedList
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, 0, false
	}
	return entry.Products, entry.TotalCount, true
}

func (pc *ProductCache) SetList(ctx context.Context, offset, limit int, category string, products []models.Product, totalCount int64) {
	if pc == nil {
		return
	}
	data, err := json.Marshal(cachedList{Products: products, TotalCount: totalCount})
	if err != nil {
		return
	}
	pc.rdb.SetEx(ctx, listKey(offset, limit, category), data, pc.ttl)
}

// Invalidate drops a single product entry plus every cached list; list
// keys are cheap to rebuild and enumerating them beats tracking what
// each one contains.
func (pc *ProductCache) Invalidate(ctx context.Context, id uint) {
	if pc == nil {
		return
	}
	pc.rdb.Del(ctx, productKey(id))
	keys, err := pc.rdb.Keys(ctx, "products:*").Result()
	if err != nil || len(keys) == 0 {
		return
	}
	pc.rdb.Del(ctx, keys...)
}
