package middleware

import (
	"net/http"
	"sync"
	"time"

	"orcamento/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// janela tracks request counts per key within a fixed window.
type janela struct {
	count     int
	windowEnd time.Time
	mu        sync.Mutex
}

type limitador struct {
	nome     string
	limit    int
	window   time.Duration
	entradas map[string]*janela
	mu       sync.Mutex
}

var (
	limitadores   []*limitador
	limitadoresMu sync.Mutex
	purgeOnce     sync.Once
)

func novoLimitador(nome string, limit int, window time.Duration) *limitador {
	l := &limitador{nome: nome, limit: limit, window: window, entradas: make(map[string]*janela)}
	limitadoresMu.Lock()
	limitadores = append(limitadores, l)
	limitadoresMu.Unlock()
	purgeOnce.Do(func() { go purgeExpiredEntries() })
	return l
}

func (l *limitador) handler(chave func(*gin.Context) string, msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		k := chave(c)

		l.mu.Lock()
		entry, exists := l.entradas[k]
		if !exists {
			entry = &janela{}
			l.entradas[k] = entry
		}
		l.mu.Unlock()

		entry.mu.Lock()
		now := time.Now()
		if now.After(entry.windowEnd) {
			entry.count = 0
			entry.windowEnd = now.Add(l.window)
		}
		entry.count++
		excedido := entry.count > l.limit
		fim := entry.windowEnd
		entry.mu.Unlock()

		if excedido {
			c.Header("Retry-After", fim.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(msg))
			return
		}
		c.Next()
	}
}

// RateLimiter limits every request per client IP.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return novoLimitador("api", limit, window).handler(
		func(c *gin.Context) string { return c.ClientIP() },
		"Muitas requisições. Tente novamente em instantes.",
	)
}

// CalculoRateLimiter limits calculation triggers per scenario, so a client
// retrying in a loop cannot keep the advisory lock of a scenario busy.
func CalculoRateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return novoLimitador("calculo", limit, window).handler(
		func(c *gin.Context) string { return c.Param("id") },
		"Muitos cálculos para este cenário. Aguarde um minuto.",
	)
}

// ── Purge goroutine ───────────────────────────────────────────────────────────
// Periodically removes expired entries so keys that never return do not
// accumulate.

const purgeInterval = 5 * time.Minute

func purgeExpiredEntries() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for range ticker.C {
		limitadoresMu.Lock()
		ativos := append([]*limitador(nil), limitadores...)
		limitadoresMu.Unlock()

		now := time.Now()
		for _, l := range ativos {
			l.mu.Lock()
			purged := 0
			for k, entry := range l.entradas {
				entry.mu.Lock()
				if now.After(entry.windowEnd) {
					delete(l.entradas, k)
					purged++
				}
				entry.mu.Unlock()
			}
			restantes := len(l.entradas)
			l.mu.Unlock()

			if purged > 0 {
				log.Debug().
					Str("limitador", l.nome).
					Int("purged", purged).
					Int("remaining", restantes).
					Msg("rate limiter purged")
			}
		}
	}
}
