package widget

import (
	"context"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"pkt.systems/pslog"
	"pkt.systems/webmentionctl/schema"
)

// DefaultCacheTTL bounds how long a fetched mention list is shared.
const DefaultCacheTTL = time.Minute

// Fetcher performs the public mention lookup for a target.
type Fetcher interface {
	GetTargetMentions(ctx context.Context, endpoint, target string) ([]schema.Mention, error)
}

// Loader fetches target mentions and shares results between widgets that
// mount the same (endpoint, target) pair within the TTL.
type Loader struct {
	fetcher Fetcher
	cache   *cache.Cache
}

// NewLoader constructs a Loader. A ttl <= 0 uses DefaultCacheTTL.
func NewLoader(fetcher Fetcher, ttl time.Duration) *Loader {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Loader{fetcher: fetcher, cache: cache.New(ttl, 2*ttl)}
}

// Load returns the mentions for target, issuing at most one fetch per key
// while the cached entry is alive. Failures are not cached.
func (l *Loader) Load(ctx context.Context, endpoint, target string) ([]schema.Mention, error) {
	key := cacheKey(endpoint, target)
	log := pslog.Ctx(ctx).With("endpoint", endpoint, "target", target)
	if cached, ok := l.cache.Get(key); ok {
		log.Trace("widget cache hit")
		return cached.([]schema.Mention), nil
	}
	mentions, err := l.fetcher.GetTargetMentions(ctx, endpoint, target)
	if err != nil {
		log.Warn("widget fetch failed", "err", err)
		return nil, err
	}
	if mentions == nil {
		mentions = []schema.Mention{}
	}
	l.cache.Set(key, mentions, cache.DefaultExpiration)
	log.Debug("widget fetch ok", "mentions", len(mentions))
	return mentions, nil
}

// Forget drops the cached list for target.
func (l *Loader) Forget(endpoint, target string) {
	l.cache.Delete(cacheKey(endpoint, target))
}

func cacheKey(endpoint, target string) string {
	return strings.TrimRight(endpoint, "/") + "\x00" + target
}
