// Package samplecache keeps resolved sample sets in process memory.
package samplecache

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	domsample "github.com/kailas-cloud/pairwise/internal/domain/sample"
)

// resolver is the wrapped sample set source.
type resolver interface {
	ListByTask(ctx context.Context, task string) (domsample.Set, error)
}

// Resolver caches sample sets per task for a fixed TTL. Empty sets are not
// cached so a freshly scanned task shows up without waiting for expiry.
type Resolver struct {
	inner      resolver
	cache      *gocache.Cache
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator. A non-positive ttl disables caching.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), may be nil.
func New(inner resolver, ttl time.Duration, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *Resolver {
	var c *gocache.Cache
	if ttl > 0 {
		c = gocache.New(ttl, 2*ttl)
	}
	return &Resolver{
		inner:      inner,
		cache:      c,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// ListByTask returns the cached set or loads it from the inner resolver.
func (r *Resolver) ListByTask(ctx context.Context, task string) (domsample.Set, error) {
	if r.cache != nil {
		if x, found := r.cache.Get(task); found {
			r.inc("hit")
			return x.(domsample.Set), nil
		}
	}
	r.inc("miss")

	set, err := r.inner.ListByTask(ctx, task)
	if err != nil {
		return domsample.Set{}, fmt.Errorf("resolve samples of %s: %w", task, err)
	}
	if r.cache != nil && set.Len() > 0 {
		r.cache.Set(task, set, gocache.DefaultExpiration)
	}
	return set, nil
}

// Invalidate drops the cached set of task.
func (r *Resolver) Invalidate(task string) {
	if r.cache == nil {
		return
	}
	r.cache.Delete(task)
	if r.logger != nil {
		r.logger.Debug("sample set cache invalidated", zap.String("task", task))
	}
}

func (r *Resolver) inc(result string) {
	if r.cacheTotal != nil {
		r.cacheTotal.WithLabelValues(result).Inc()
	}
}
