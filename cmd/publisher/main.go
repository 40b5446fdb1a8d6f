package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/matst80/kitchen-catalog/pkg/common"
	"github.com/matst80/kitchen-catalog/pkg/messaging"
	"github.com/matst80/kitchen-catalog/pkg/storage"

	amqp "github.com/rabbitmq/amqp091-go"
)

var dataDir = flag.String("data", "data", "directory holding catalog.json.gz")
var apiUrl = flag.String("api", "", "read the catalog from this product api instead of disk")
var useMock = flag.Bool("mock", false, "publish the bundled mock catalog")

func main() {
	_ = godotenv.Load()
	common.SetupLogging()
	flag.Parse()

	rabbitUrl := common.EnvString("RABBIT_URL", "")
	if rabbitUrl == "" {
		log.Fatalf("RABBIT_URL is required")
	}
	prefix := common.EnvString("CATALOG_TOPIC_PREFIX", "catalog")

	var src storage.Source = storage.NewDiskStorage(*dataDir)
	switch {
	case *useMock:
		src = storage.NewStaticSource()
	case *apiUrl != "":
		src = storage.NewHttpSource(*apiUrl)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	items, err := src.Items(ctx)
	if err != nil {
		log.Fatalf("failed to read catalog from %s: %v", src.Name(), err)
	}
	if len(items) == 0 {
		log.Fatalf("refusing to publish an empty catalog")
	}

	conn, err := amqp.Dial(rabbitUrl)
	if err != nil {
		log.Fatalf("failed to connect to rabbitmq: %v", err)
	}
	defer conn.Close()

	if err := messaging.SendChange(ctx, conn, prefix, messaging.CatalogReplaced, items); err != nil {
		log.Fatalf("failed to publish catalog: %v", err)
	}
	log.Printf("published %d items from %s", len(items), src.Name())
}
