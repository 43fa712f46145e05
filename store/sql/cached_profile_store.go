package sqlstore

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	repositorycache "github.com/goliatone/go-repository-cache/cache"

	"github.com/Awatif2003/marinesafe/core"
)

const profileCacheKeyPrefix = "marinesafe::profile::v1"

type cachedProfile struct {
	Profile core.UserProfile
	Found   bool
}

// CachedProfileStore serves profile reads through the shared cache service
// and invalidates on every write. Tokens are deliberately not cached this
// way: the transport must observe a concurrent token removal, and a cached
// copy would hide it.
type CachedProfileStore struct {
	base    core.ProfileStore
	cache   repositorycache.CacheService
	appName string
}

func NewCachedProfileStore(
	base core.ProfileStore,
	cacheService repositorycache.CacheService,
	appName string,
) (*CachedProfileStore, error) {
	if base == nil {
		return nil, fmt.Errorf("sqlstore: base profile store is required")
	}
	if cacheService == nil {
		return nil, fmt.Errorf("sqlstore: profile cache service is required")
	}
	appName = strings.TrimSpace(appName)
	if appName == "" {
		return nil, fmt.Errorf("sqlstore: app name is required")
	}
	return &CachedProfileStore{
		base:    base,
		cache:   cacheService,
		appName: appName,
	}, nil
}

// ProfileCacheKey returns the deterministic cache key for profile reads:
// marinesafe::profile::v1::<app_name> with the app name URL-path escaped.
func ProfileCacheKey(appName string) string {
	return profileCacheKeyPrefix + "::" + url.PathEscape(strings.TrimSpace(appName))
}

func (s *CachedProfileStore) Get(ctx context.Context) (core.UserProfile, bool, error) {
	if s == nil || s.base == nil || s.cache == nil {
		return core.UserProfile{}, false, fmt.Errorf("sqlstore: cached profile store is not configured")
	}
	entry, err := repositorycache.GetOrFetch(ctx, s.cache, ProfileCacheKey(s.appName), func(ctx context.Context) (cachedProfile, error) {
		profile, found, fetchErr := s.base.Get(ctx)
		if fetchErr != nil {
			return cachedProfile{}, fetchErr
		}
		return cachedProfile{Profile: cloneProfile(profile), Found: found}, nil
	})
	if err != nil {
		return core.UserProfile{}, false, err
	}
	return cloneProfile(entry.Profile), entry.Found, nil
}

func (s *CachedProfileStore) Set(ctx context.Context, profile core.UserProfile) error {
	if s == nil || s.base == nil || s.cache == nil {
		return fmt.Errorf("sqlstore: cached profile store is not configured")
	}
	if err := s.base.Set(ctx, profile); err != nil {
		return err
	}
	return s.cache.Delete(ctx, ProfileCacheKey(s.appName))
}

func (s *CachedProfileStore) Remove(ctx context.Context) error {
	if s == nil || s.base == nil || s.cache == nil {
		return fmt.Errorf("sqlstore: cached profile store is not configured")
	}
	if err := s.base.Remove(ctx); err != nil {
		return err
	}
	return s.cache.Delete(ctx, ProfileCacheKey(s.appName))
}

func cloneProfile(profile core.UserProfile) core.UserProfile {
	cloned := profile
	cloned.Fields = copyAnyMap(profile.Fields)
	return cloned
}

var _ core.ProfileStore = (*CachedProfileStore)(nil)
