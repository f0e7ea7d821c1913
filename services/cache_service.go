package services

import (
	"bijouterie_server/config"
	"bijouterie_server/structs"
	"bijouterie_server/structs/tables"
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	redisClient *redis.Client
	redisOnce   sync.Once
	redisCtx    = context.Background()
)

const (
	dashboardKey  = "repairs:dashboard"
	statisticsKey = "repairs:statistics"
	repairsPrefix = "repairs:*"
)

// CacheService is the redis layer behind the read models, the token blacklist and rate limiting.
type CacheService struct {
	logger *gecho.Logger
	config *structs.Config
	client *redis.Client
}

func NewCacheService(logger *gecho.Logger, cfg *structs.Config) *CacheService {
	return &CacheService{
		logger: logger,
		config: cfg,
		client: getRedisClient(),
	}
}

func getRedisClient() *redis.Client {
	redisOnce.Do(func() {
		cfg := config.GetConfig()
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Address,
			Username: cfg.Cache.Username,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,

			PoolSize:        cfg.Cache.PoolSize,
			MinIdleConns:    cfg.Cache.MinIdleConns,
			MaxIdleConns:    cfg.Cache.MaxIdleConns,
			PoolTimeout:     cfg.Cache.PoolTimeout,
			ConnMaxIdleTime: cfg.Cache.IdleTimeout,

			DialTimeout:  cfg.Cache.DialTimeout,
			ReadTimeout:  cfg.Cache.ReadTimeout,
			WriteTimeout: cfg.Cache.WriteTimeout,

			MaxRetries:      cfg.Cache.MaxRetries,
			MinRetryBackoff: cfg.Cache.MinRetryBackoff,
			MaxRetryBackoff: cfg.Cache.MaxRetryBackoff,
		})
	})
	return redisClient
}

func (cs *CacheService) Close() error {
	if redisClient != nil {
		return redisClient.Close()
	}
	return nil
}

// withRetry runs a redis operation with exponential backoff and jitter
func (cs *CacheService) withRetry(operation func() error, maxRetries int) error {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == maxRetries || !isRetryableRedisError(err) {
			break
		}

		time.Sleep(redisBackoff(attempt))
	}

	return fmt.Errorf("redis operation failed: %w", lastErr)
}

// redisBackoff doubles from 100ms up to 2s and keeps between half and all of it.
func redisBackoff(attempt int) time.Duration {
	backoff := min(100*(1<<attempt), 2000)

	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return time.Duration(backoff) * time.Millisecond
	}
	jitter := int(binary.BigEndian.Uint32(buf[:]) % uint32(backoff/2+1))

	return time.Duration(backoff/2+jitter) * time.Millisecond
}

func isRetryableRedisError(err error) bool {
	if err == nil || errors.Is(err, redis.Nil) {
		return false
	}

	errStr := err.Error()
	for _, retryable := range []string{
		"connection refused",
		"connection reset",
		"timeout",
		"broken pipe",
		"no such host",
		"network is unreachable",
	} {
		if strings.Contains(errStr, retryable) {
			return true
		}
	}
	return false
}

func (cs *CacheService) Set(key string, value any, ttl time.Duration) error {
	return cs.withRetry(func() error {
		return cs.client.Set(redisCtx, key, value, ttl).Err()
	}, 3)
}

// Get returns "" without error when the key is absent
func (cs *CacheService) Get(key string) (string, error) {
	var result string

	err := cs.withRetry(func() error {
		val, err := cs.client.Get(redisCtx, key).Result()
		if errors.Is(err, redis.Nil) {
			result = ""
			return nil
		}
		if err != nil {
			return err
		}
		result = val
		return nil
	}, 3)

	return result, err
}

func (cs *CacheService) Delete(key string) error {
	return cs.withRetry(func() error {
		return cs.client.Del(redisCtx, key).Err()
	}, 3)
}

func (cs *CacheService) Exists(key string) (bool, error) {
	var result bool

	err := cs.withRetry(func() error {
		count, err := cs.client.Exists(redisCtx, key).Result()
		if err != nil {
			return err
		}
		result = count > 0
		return nil
	}, 3)

	return result, err
}

// BlacklistToken keeps a logged out token id until the token would have expired anyway
func (cs *CacheService) BlacklistToken(jti uuid.UUID, exp time.Time) error {
	ttl := cs.config.Auth.BlacklistCacheTTL
	if exp.After(time.Now()) {
		ttl = time.Until(exp)
	}

	return cs.Set(fmt.Sprintf("blacklist:%s", jti), "true", ttl)
}

func (cs *CacheService) IsTokenBlacklisted(jti uuid.UUID) (bool, error) {
	val, err := cs.Get(fmt.Sprintf("blacklist:%s", jti))
	if err != nil {
		return false, err
	}
	return val == "true", nil
}

func (cs *CacheService) GetUserFromCache(userID uuid.UUID) (*tables.User, error) {
	return getJSON[tables.User](cs, userKey(userID))
}

func (cs *CacheService) SetUserInCache(user *tables.User) error {
	if user == nil {
		return nil
	}
	return setJSON(cs, userKey(user.Id), user, cs.config.Auth.CacheUserTTL)
}

func (cs *CacheService) InvalidateUserCache(userID uuid.UUID) error {
	return cs.Delete(userKey(userID))
}

func userKey(id uuid.UUID) string {
	return fmt.Sprintf("user:%s", id)
}

// IncrementRateLimit bumps the counter of an ip/endpoint window, starting the window on the first hit
func (cs *CacheService) IncrementRateLimit(ip, endpoint string, ttl time.Duration) (int, error) {
	key := fmt.Sprintf("ratelimit:%s:%s", ip, endpoint)

	var result int64
	err := cs.withRetry(func() error {
		val, err := cs.client.Incr(redisCtx, key).Result()
		if err != nil {
			return err
		}
		result = val

		if val == 1 {
			return cs.client.Expire(redisCtx, key, ttl).Err()
		}
		return nil
	}, 3)

	return int(result), err
}

func (cs *CacheService) Ping() error {
	return cs.withRetry(func() error {
		return cs.client.Ping(redisCtx).Err()
	}, 3)
}

func (cs *CacheService) GetConnectionStats() map[string]any {
	stats := cs.client.PoolStats()

	return map[string]any{
		"hits":        stats.Hits,
		"misses":      stats.Misses,
		"timeouts":    stats.Timeouts,
		"total_conns": stats.TotalConns,
		"idle_conns":  stats.IdleConns,
		"stale_conns": stats.StaleConns,
	}
}

// ============================================================================
// Repair read models
// ============================================================================

func (cs *CacheService) GetDashboardStats() (*structs.DashboardStats, error) {
	return getJSON[structs.DashboardStats](cs, dashboardKey)
}

func (cs *CacheService) SetDashboardStats(stats *structs.DashboardStats) error {
	return setJSON(cs, dashboardKey, stats, cs.statsTTL())
}

func (cs *CacheService) GetStatistics() (*structs.Statistics, error) {
	return getJSON[structs.Statistics](cs, statisticsKey)
}

func (cs *CacheService) SetStatistics(stats *structs.Statistics) error {
	return setJSON(cs, statisticsKey, stats, cs.statsTTL())
}

// InvalidateRepairCaches drops every cached read model derived from repairs.
// Failures are returned to the caller, which decides how to log them.
func (cs *CacheService) InvalidateRepairCaches(ctx context.Context) error {
	if err := cs.DeletePattern(ctx, repairsPrefix); err != nil {
		return err
	}
	cs.logger.Debug("Repair caches invalidated")
	return nil
}

// DeletePattern removes all keys matching a pattern using SCAN
func (cs *CacheService) DeletePattern(ctx context.Context, pattern string) error {
	return cs.withRetry(func() error {
		var cursor uint64
		for {
			keys, next, err := cs.client.Scan(ctx, cursor, pattern, 100).Result()
			if err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}

			if len(keys) > 0 {
				if err := cs.client.Del(ctx, keys...).Err(); err != nil {
					return fmt.Errorf("delete failed: %w", err)
				}
			}

			cursor = next
			if cursor == 0 {
				return nil
			}
		}
	}, 3)
}

func (cs *CacheService) ClearAll() error {
	return cs.withRetry(func() error {
		return cs.client.FlushDB(redisCtx).Err()
	}, 3)
}

func (cs *CacheService) statsTTL() time.Duration {
	if cs.config.Cache.StatsTTL > 0 {
		return cs.config.Cache.StatsTTL
	}
	return 5 * time.Minute
}

func setJSON[T any](cs *CacheService, key string, value T, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return cs.Set(key, data, ttl)
}

func getJSON[T any](cs *CacheService, key string) (*T, error) {
	val, err := cs.Get(key)
	if err != nil {
		return nil, err
	}
	if val == "" {
		return nil, nil
	}

	var result T
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		return nil, err
	}
	return &result, nil
}
