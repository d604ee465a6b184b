package fixture

import (
	"Slipboard/internal/pkg/consts"
	"Slipboard/internal/pkg/redis"
	"context"
	log "log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Cache 赛程缓存
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

type redisCache struct{}

// NewRedisCache 使用全局 Redis 客户端
func NewRedisCache() Cache {
	return &redisCache{}
}

func (s *redisCache) Get(ctx context.Context, key string) (string, error) {
	return redis.GetValue(ctx, key)
}

func (s *redisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	lockKey := consts.FixtureDayLock + key
	lockValue := uuid.NewString()
	ok, err := redis.TryLock(ctx, lockKey, lockValue, 5*time.Second, 0)
	if err != nil || !ok {
		// 其他实例正在写入同一天的缓存
		return err
	}
	defer redis.UnLock(ctx, lockKey, lockValue)
	return redis.SetWithExpiration(ctx, key, value, ttl)
}

// Provider 带缓存的当日赛程
type Provider struct {
	client *Client
	cache  Cache
	ttl    time.Duration
}

func NewProvider(client *Client, cache Cache, ttl time.Duration) *Provider {
	return &Provider{client: client, cache: cache, ttl: ttl}
}

// TodayFixtures 读取 now 所在日期（UTC）的赛程，缓存失败不影响结果
func (p *Provider) TodayFixtures(ctx context.Context, now time.Time) ([]Fixture, error) {
	day := now.UTC()
	key := consts.FixtureDayKey + day.Format(dateLayout)

	if p.cache != nil {
		if cached, err := p.cache.Get(ctx, key); err != nil {
			log.WarnContext(ctx, "fixture cache get error", "key", key, "err", err)
		} else if cached != "" {
			var fixtures []Fixture
			if err = json.Unmarshal([]byte(cached), &fixtures); err == nil {
				return fixtures, nil
			}
			log.WarnContext(ctx, "fixture cache decode error", "key", key, "err", err)
		}
	}

	fixtures, err := p.client.FixturesByDate(ctx, day)
	if err != nil {
		return nil, err
	}

	if p.cache != nil && p.ttl > 0 {
		if data, err := json.Marshal(fixtures); err == nil {
			if err = p.cache.Set(ctx, key, string(data), p.ttl); err != nil {
				log.WarnContext(ctx, "fixture cache set error", "key", key, "err", err)
			}
		}
	}
	return fixtures, nil
}
