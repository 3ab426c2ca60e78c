package viewer

import (
	"context"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const defaultLoadConcurrency = 4

// Registry caches prepared profiles by path. Cached profiles are shared:
// callers must create their own View to zoom.
type Registry struct {
	loader *Loader
	cache  *lru.Cache[string, *Profile]
	group  singleflight.Group

	concurrency int
}

func NewRegistry(loader *Loader, size int) (*Registry, error) {
	c, err := lru.New[string, *Profile](size)
	if err != nil {
		return nil, errors.Wrap(err, "create profile cache")
	}
	return &Registry{
		loader:      loader,
		cache:       c,
		concurrency: defaultLoadConcurrency,
	}, nil
}

// Get returns the profile at path, loading it on a cache miss. Concurrent
// misses for the same path share one load, which outlives the cancellation
// of any single caller. Paths are cached in their cleaned form.
func (r *Registry) Get(ctx context.Context, path string) (*Profile, error) {
	key := filepath.Clean(path)
	if p, ok := r.cache.Get(key); ok {
		r.loader.metrics.cacheHits.Inc()
		return p, nil
	}
	ch := r.group.DoChan(key, func() (any, error) {
		p, err := r.loader.Load(context.WithoutCancel(ctx), key)
		if err != nil {
			return nil, err
		}
		r.cache.Add(key, p)
		return p, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Profile), nil
	}
}

// LoadAll loads the profiles concurrently. The first failure cancels the
// remaining loads and is returned; no partial result is returned with it.
func (r *Registry) LoadAll(ctx context.Context, paths []string) ([]*Profile, error) {
	res := make([]*Profile, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			p, err := r.Get(ctx, path)
			if err != nil {
				return err
			}
			res[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *Registry) Len() int { return r.cache.Len() }

// Evict drops the profile from the cache, e.g. after the file changed.
func (r *Registry) Evict(path string) { r.cache.Remove(filepath.Clean(path)) }
