package main

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/bookline/booking-api/internal/config"
	dbpkg "github.com/bookline/booking-api/internal/db"
	"github.com/bookline/booking-api/internal/logging"
	"github.com/bookline/booking-api/internal/middleware"
	"github.com/bookline/booking-api/internal/routes"
)

func main() {

	cfg := config.Load()
	log := logging.New(cfg.LogLevel)

	db := dbpkg.New(cfg, log)

	var rdb *redis.Client
	if cfg.RedisEnabled() {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Warn().Err(err).Msg("redis unreachable, falling back to in-process limiter and no cache")
			rdb = nil
		}
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, rdb, cfg, log)

	log.Info().Str("addr", cfg.Addr()).Msg("server running")
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
