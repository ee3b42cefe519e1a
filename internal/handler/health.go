package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health pings Postgres and Redis. The DRE cache and the recalculation queue
// both live in Redis, so either being down answers 503. estadoCache, when
// set, reports the cache circuit breaker.
func Health(db *gorm.DB, rdb *redis.Client, estadoCache func() string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		banco := "ok"
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			banco = "erro"
		}
		fila := "ok"
		if rdb.Ping(ctx).Err() != nil {
			fila = "erro"
		}

		status := http.StatusOK
		if banco != "ok" || fila != "ok" {
			status = http.StatusServiceUnavailable
		}
		resp := gin.H{
			"ok":    status == http.StatusOK,
			"db":    banco,
			"redis": fila,
		}
		if estadoCache != nil {
			resp["cache"] = estadoCache()
		}
		c.JSON(status, resp)
	}
}
