package service

import (
	"context"
	"fmt"
	"time"

	"github.com/noah-isme/rajbhasha-api/internal/models"
)

const renderCachePrefix = "report:render:"

// RenderCache keeps the last rendered report of each caller so an export
// can reuse it. Entries only match when the requested filter is identical.
type RenderCache struct {
	cache *CacheService
	ttl   time.Duration
}

// NewRenderCache constructs a render cache backed by cache.
func NewRenderCache(cache *CacheService, ttl time.Duration) *RenderCache {
	return &RenderCache{cache: cache, ttl: ttl}
}

func renderCacheKey(owner string) string {
	return fmt.Sprintf("%s%s", renderCachePrefix, owner)
}

// Store replaces the owner's last render.
func (c *RenderCache) Store(ctx context.Context, owner string, rendered *RenderedReport) error {
	if c == nil || owner == "" || rendered == nil {
		return nil
	}
	return c.cache.Set(ctx, renderCacheKey(owner), rendered, c.ttl)
}

// Lookup returns the owner's last render when it was produced for filter.
func (c *RenderCache) Lookup(ctx context.Context, owner string, filter models.ReportFilter) (*RenderedReport, bool) {
	if c == nil || owner == "" {
		return nil, false
	}
	var rendered RenderedReport
	hit, err := c.cache.Get(ctx, renderCacheKey(owner), &rendered)
	if err != nil || !hit {
		return nil, false
	}
	if rendered.Filter != filter || rendered.Document == nil {
		return nil, false
	}
	return &rendered, true
}

// Invalidate drops the owner's entry.
func (c *RenderCache) Invalidate(ctx context.Context, owner string) error {
	if c == nil || owner == "" {
		return nil
	}
	return c.cache.Delete(ctx, renderCacheKey(owner))
}
