package infra

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// NewRedis creates and validates a go-redis client connection.
func NewRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}

// RedisCache is the best-effort byte cache in front of the DRE. Redis
// failures are logged and treated as misses; after repeated failures the
// disjuntor skips Redis altogether until it recovers.
type RedisCache struct {
	rdb       *redis.Client
	disjuntor *Disjuntor
}

func NewRedisCache(rdb *redis.Client) *RedisCache {
	return &RedisCache{rdb: rdb, disjuntor: NovoDisjuntor(ConfigDisjuntor{})}
}

func (c *RedisCache) Get(ctx context.Context, chave string) ([]byte, bool) {
	var b []byte
	err := c.disjuntor.Executar(func() error {
		var err error
		b, err = c.rdb.Get(ctx, chave).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return err
	})
	if err != nil {
		c.registrar(err, chave, "cache: leitura falhou")
		return nil, false
	}
	return b, b != nil
}

func (c *RedisCache) Set(ctx context.Context, chave string, valor []byte, ttl time.Duration) {
	err := c.disjuntor.Executar(func() error {
		return c.rdb.Set(ctx, chave, valor, ttl).Err()
	})
	if err != nil {
		c.registrar(err, chave, "cache: escrita falhou")
	}
}

// InvalidarPrefixo deletes every key starting with prefixo. SCAN keeps
// Redis responsive on large keyspaces. Invalidation bypasses the disjuntor:
// a stale DRE is worse than a slow write.
func (c *RedisCache) InvalidarPrefixo(ctx context.Context, prefixo string) {
	var cursor uint64
	for {
		chaves, prox, err := c.rdb.Scan(ctx, cursor, prefixo+"*", 100).Result()
		if err != nil {
			log.Warn().Err(err).Str("prefixo", prefixo).Msg("cache: invalidação falhou")
			return
		}
		if len(chaves) > 0 {
			if err := c.rdb.Del(ctx, chaves...).Err(); err != nil {
				log.Warn().Err(err).Str("prefixo", prefixo).Msg("cache: invalidação falhou")
				return
			}
		}
		if prox == 0 {
			return
		}
		cursor = prox
	}
}

// EstadoDisjuntor exposes the breaker state to the health check.
func (c *RedisCache) EstadoDisjuntor() EstadoDisjuntor {
	return c.disjuntor.Estado()
}

func (c *RedisCache) registrar(err error, chave, msg string) {
	if errors.Is(err, ErrDisjuntorAberto) {
		log.Debug().Str("chave", chave).Msg("cache: disjuntor aberto, ignorando Redis")
		return
	}
	log.Warn().Err(err).Str("chave", chave).Str("disjuntor", c.disjuntor.Estado().String()).Msg(msg)
}
