package services

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"permafrost/config"
	"permafrost/models"
)

// CacheMode indicates which cache backend is active.
type CacheMode string

const (
	CacheModeRedis    CacheMode = "redis"
	CacheModeInMemory CacheMode = "in-memory"
	CacheModeDisabled CacheMode = "disabled"
)

// cacheItem for the in-memory fallback.
type cacheItem struct {
	data      []byte
	expiresAt time.Time
}

// CacheService caches whole scenario evaluations. The engine is deterministic,
// so a cached evaluation is exactly what recomputing would produce; the cache
// is purely a performance layer and can be cleared at any time. Keys include
// a hash of the scenario contents, so editing a scenario naturally misses.
type CacheService struct {
	cfg *config.Config

	redis       *redis.Client
	redisCancel context.CancelFunc
	mode        CacheMode
	modeMutex   sync.RWMutex

	inMemory sync.Map // key -> cacheItem

	hits   uint64
	misses uint64
	statMu sync.Mutex
}

func NewCacheService(cfg *config.Config) *CacheService {
	cs := &CacheService{cfg: cfg, mode: CacheModeInMemory}

	if !cfg.Cache.Enabled {
		cs.setMode(CacheModeDisabled)
		return cs
	}
	if cfg.Redis.Enabled {
		cs.connectRedis()
	}
	return cs
}

func (cs *CacheService) connectRedis() {
	ctx, cancel := context.WithCancel(context.Background())
	cs.redisCancel = cancel

	options := &redis.Options{
		Addr:         cs.cfg.Redis.Address,
		Password:     cs.cfg.Redis.Password,
		DB:           cs.cfg.Redis.DB,
		DialTimeout:  10 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		PoolSize:     5,
		MinIdleConns: 1,
		MaxRetries:   3,
	}
	if cs.cfg.Redis.UseTLS {
		options.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	cs.redis = redis.NewClient(options)

	pingCtx, pingCancel := context.WithTimeout(ctx, 10*time.Second)
	defer pingCancel()

	if _, err := cs.redis.Ping(pingCtx).Result(); err != nil {
		log.Printf("Redis connection failed: %v", err)
		log.Printf("Cache running in in-memory mode")
		cs.setMode(CacheModeInMemory)
		return
	}

	log.Printf("Redis connected: %s", cs.cfg.Redis.Address)
	cs.setMode(CacheModeRedis)
}

func (cs *CacheService) setMode(mode CacheMode) {
	cs.modeMutex.Lock()
	cs.mode = mode
	cs.modeMutex.Unlock()
}

// GetCacheMode reports the active backend.
func (cs *CacheService) GetCacheMode() CacheMode {
	cs.modeMutex.RLock()
	defer cs.modeMutex.RUnlock()
	return cs.mode
}

// ScenarioKey derives the cache key for a scenario from its id plus a hash
// of its full contents.
func ScenarioKey(scenario models.Scenario) string {
	payload, err := json.Marshal(scenario)
	if err != nil {
		return "scenario:" + scenario.ID
	}
	h := fnv.New64a()
	h.Write(payload)
	return fmt.Sprintf("scenario:%s:%x", scenario.ID, h.Sum64())
}

// GetScenarioEvaluation returns a cached evaluation if present.
func (cs *CacheService) GetScenarioEvaluation(key string) (*models.ScenarioEvaluation, bool) {
	data, found := cs.get(key)
	if !found {
		cs.miss()
		return nil, false
	}

	var eval models.ScenarioEvaluation
	if err := json.Unmarshal(data, &eval); err != nil {
		cs.miss()
		return nil, false
	}
	cs.hit()
	return &eval, true
}

// SetScenarioEvaluation stores an evaluation under the scenario key with the
// configured TTL. Failures are logged and ignored: the cache never gates the
// response.
func (cs *CacheService) SetScenarioEvaluation(key string, eval *models.ScenarioEvaluation) {
	data, err := json.Marshal(eval)
	if err != nil {
		log.Printf("Cache marshal failed for %s: %v", key, err)
		return
	}
	cs.set(key, data)
}

func (cs *CacheService) get(key string) ([]byte, bool) {
	switch cs.GetCacheMode() {
	case CacheModeRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		data, err := cs.redis.Get(ctx, key).Bytes()
		if err != nil {
			return nil, false
		}
		return data, true

	case CacheModeInMemory:
		v, ok := cs.inMemory.Load(key)
		if !ok {
			return nil, false
		}
		item := v.(cacheItem)
		if time.Now().After(item.expiresAt) {
			cs.inMemory.Delete(key)
			return nil, false
		}
		return item.data, true
	}
	return nil, false
}

func (cs *CacheService) set(key string, data []byte) {
	ttl := cs.cfg.CacheTTLDuration()

	switch cs.GetCacheMode() {
	case CacheModeRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		if err := cs.redis.Set(ctx, key, data, ttl).Err(); err != nil {
			log.Printf("Redis set failed, falling back to in-memory: %v", err)
			cs.inMemory.Store(key, cacheItem{data: data, expiresAt: time.Now().Add(ttl)})
		}

	case CacheModeInMemory:
		cs.inMemory.Store(key, cacheItem{data: data, expiresAt: time.Now().Add(ttl)})
	}
}

// Clear drops every cached evaluation.
func (cs *CacheService) Clear() error {
	cs.inMemory.Range(func(key, _ interface{}) bool {
		cs.inMemory.Delete(key)
		return true
	})

	if cs.GetCacheMode() == CacheModeRedis {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return cs.redis.FlushDB(ctx).Err()
	}
	return nil
}

// Status summarizes the cache for the status endpoint.
func (cs *CacheService) Status() map[string]interface{} {
	cs.statMu.Lock()
	hits, misses := cs.hits, cs.misses
	cs.statMu.Unlock()

	return map[string]interface{}{
		"mode":        cs.GetCacheMode(),
		"ttl_seconds": cs.cfg.Cache.TTL,
		"hits":        hits,
		"misses":      misses,
	}
}

func (cs *CacheService) hit() {
	cs.statMu.Lock()
	cs.hits++
	cs.statMu.Unlock()
}

func (cs *CacheService) miss() {
	cs.statMu.Lock()
	cs.misses++
	cs.statMu.Unlock()
}

// Stop closes the Redis connection if one is open.
func (cs *CacheService) Stop() {
	if cs.redisCancel != nil {
		cs.redisCancel()
	}
	if cs.redis != nil {
		if err := cs.redis.Close(); err != nil {
			log.Printf("Error closing Redis connection: %v", err)
		}
	}
}
