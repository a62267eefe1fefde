package handler

import (
	"context"
	"net/http"
	"time"

	"motofix/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type dependencyStatus struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
}

func probe(ping func() error) dependencyStatus {
	start := time.Now()
	st := dependencyStatus{Status: "up"}
	if err := ping(); err != nil {
		st.Status = "down"
	}
	st.LatencyMS = time.Since(start).Milliseconds()
	return st
}

// Health pings Postgres and Redis and reports the job backlog. It answers 503
// when either store is down. Error details are never included.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		pg := probe(func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		})
		rd := probe(func() error { return rdb.Ping(ctx).Err() })

		var queues map[string]worker.QueueStats
		if rd.Status == "up" {
			queues, _ = worker.Stats(ctx, rdb)
		}

		healthy := pg.Status == "up" && rd.Status == "up"
		status := http.StatusOK
		if !healthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"ok":       healthy,
			"postgres": pg,
			"redis":    rd,
			"queues":   queues,
		})
	}
}
