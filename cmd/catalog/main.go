package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/matst80/kitchen-catalog/pkg/common"
	"github.com/matst80/kitchen-catalog/pkg/messaging"
	"github.com/matst80/kitchen-catalog/pkg/server"
	"github.com/matst80/kitchen-catalog/pkg/storage"
	"github.com/matst80/kitchen-catalog/pkg/types"

	amqp "github.com/rabbitmq/amqp091-go"
)

type app struct {
	cfg    config
	disk   *storage.DiskStorage
	cached *storage.CachedSource
	cache  *storage.RedisCache
	srv    *server.CatalogServer
	conn   *amqp.Connection
}

func (a *app) sources(ctx context.Context) []storage.Source {
	sources := make([]storage.Source, 0, 3)
	if a.cfg.productApiUrl != "" {
		var api storage.Source = storage.NewHttpSource(a.cfg.productApiUrl)
		if a.cfg.redisUrl != "" {
			cache := storage.NewRedisCache(a.cfg.redisUrl, a.cfg.redisPassword, a.cfg.redisDB)
			if err := cache.Ping(ctx); err != nil {
				log.Printf("redis unavailable, loading without cache: %v", err)
				cache.Close()
			} else {
				a.cache = cache
				a.cached = storage.NewCachedSource(api, cache, a.cfg.cacheTTL)
				api = a.cached
				log.Printf("catalog cache enabled, url: %s", a.cfg.redisUrl)
			}
		}
		sources = append(sources, api)
	}
	return append(sources, a.disk, storage.NewStaticSource())
}

func (a *app) loadCatalog(ctx context.Context) ([]types.CatalogItem, error) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.loadTimeout)
	defer cancel()
	items, err := storage.NewFallbackSource(a.sources(ctx)...).Items(ctx)
	if err != nil {
		return nil, err
	}
	if err := a.disk.SaveItems(items); err != nil {
		log.Printf("failed to save catalog snapshot: %v", err)
	}
	return items, nil
}

func (a *app) onCatalogReplaced(items []types.CatalogItem) error {
	if len(items) == 0 {
		return storage.ErrNoItems
	}
	a.srv.ReplaceCatalog(items)
	if err := a.disk.SaveItems(items); err != nil {
		log.Printf("failed to save catalog snapshot: %v", err)
	}
	if a.cached != nil {
		if err := a.cached.Store(context.Background(), items); err != nil {
			log.Printf("failed to update catalog cache: %v", err)
		}
	}
	return nil
}

func (a *app) connectAmqp() error {
	conn, err := amqp.DialConfig(a.cfg.rabbitUrl, amqp.Config{
		Properties: amqp.NewConnectionProperties(),
	})
	if err != nil {
		return err
	}
	a.conn = conn
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	err = messaging.ListenToTopic(ch, a.cfg.topicPrefix, messaging.CatalogReplaced, messaging.DecodeHandler(a.onCatalogReplaced))
	if err != nil {
		return err
	}
	log.Printf("listening for catalog replacements on %s", a.cfg.topicPrefix)
	return nil
}

func (a *app) close(ctx context.Context) error {
	if a.conn != nil {
		if err := a.conn.Close(); err != nil {
			log.Printf("failed to close amqp connection: %v", err)
		}
	}
	if a.cache != nil {
		return a.cache.Close()
	}
	return nil
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
	common.SetupLogging()

	cfg := loadConfig()
	a := &app{
		cfg:  cfg,
		disk: storage.NewDiskStorage(cfg.dataDir),
	}
	ctx := context.Background()

	items, err := a.loadCatalog(ctx)
	if err != nil {
		log.Fatalf("could not load catalog from any source: %v", err)
	}
	a.srv = server.NewCatalogServer(items, cfg.viewTTL)
	a.srv.StartViewEviction(ctx, cfg.evictInterval)

	if cfg.rabbitUrl != "" {
		if err := a.connectAmqp(); err != nil {
			log.Printf("failed to connect to rabbitmq, reloads disabled: %v", err)
		}
	}

	httpServer := common.NewServerWithTimeouts(cfg.listenAddress, a.srv.Handler(), cfg.timeouts)
	if err := common.RunServerWithShutdown(ctx, httpServer, "catalog", cfg.timeouts, a.close); err != nil {
		log.Fatalf("catalog server failed: %v", err)
	}
}
