package main

import (
	"time"

	"github.com/matst80/kitchen-catalog/pkg/common"
)

type config struct {
	listenAddress string
	productApiUrl string
	dataDir       string
	redisUrl      string
	redisPassword string
	redisDB       int
	rabbitUrl     string
	topicPrefix   string
	cacheTTL      time.Duration
	loadTimeout   time.Duration
	viewTTL       time.Duration
	evictInterval time.Duration
	timeouts      common.TimeoutConfig
}

func loadConfig() config {
	return config{
		listenAddress: common.EnvString("LISTEN_ADDRESS", ":8080"),
		productApiUrl: common.EnvString("PRODUCT_API_URL", ""),
		dataDir:       common.EnvString("DATA_DIR", "data"),
		redisUrl:      common.EnvString("REDIS_URL", ""),
		redisPassword: common.EnvString("REDIS_PASSWORD", ""),
		redisDB:       common.EnvInt("REDIS_DB", 0),
		rabbitUrl:     common.EnvString("RABBIT_URL", ""),
		topicPrefix:   common.EnvString("CATALOG_TOPIC_PREFIX", "catalog"),
		cacheTTL:      common.EnvSeconds("CACHE_TTL_SECONDS", 5*time.Minute),
		loadTimeout:   common.EnvSeconds("LOAD_TIMEOUT", 30*time.Second),
		viewTTL:       common.EnvSeconds("VIEW_TTL_SECONDS", 30*time.Minute),
		evictInterval: common.EnvSeconds("VIEW_EVICT_INTERVAL_SECONDS", time.Minute),
		timeouts:      common.LoadTimeoutConfig(common.DefaultTimeouts),
	}
}
