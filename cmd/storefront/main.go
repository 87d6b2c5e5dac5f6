package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/dummassdenzel/Mubu/internal/api"
	"github.com/dummassdenzel/Mubu/internal/cart"
	"github.com/dummassdenzel/Mubu/internal/catalog"
	"github.com/dummassdenzel/Mubu/internal/domain"
	"github.com/dummassdenzel/Mubu/internal/kvstore"
	"github.com/dummassdenzel/Mubu/internal/order"
	"github.com/dummassdenzel/Mubu/internal/watcher"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on system environment variables")
	}

	baseURL := getEnv("STOREFRONT_API_URL", "http://localhost:8085")

	kv, err := openKVStore()
	if err != nil {
		log.Fatalf("failed to open client storage: %v", err)
	}

	client := api.New(baseURL, api.WithTokenSource(api.NewStoredTokenSource(kv)))

	cartStore := cart.New(kv)
	products := catalog.New(client)
	orders := order.New(client)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watching := false
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		w := watcher.New(orders, strings.Split(brokers, ","), getEnv("ORDER_STATUS_TOPIC", "order-status"))
		defer w.Close()
		go w.Run(ctx)
		watching = true
	}

	unsubscribe := products.Subscribe(func(list []domain.Product) {
		log.Printf("catalog now shows %d products", len(list))
	})
	defer unsubscribe()

	if err := products.FetchProducts(ctx); err != nil {
		log.Fatalf("failed to fetch products: %v", err)
	}

	for _, p := range products.Products() {
		fmt.Printf("%-4d %-30s %8.2f %s\n", p.ID, p.Name, p.Price, p.Category)
	}

	items := cartStore.Items()
	log.Printf("cart holds %d items (total %.2f)", len(items), cart.Total(items))

	if watching {
		log.Println("watching for order status events, ctrl-c to stop")
		<-ctx.Done()
	}
}

func openKVStore() (kvstore.Store, error) {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		return kvstore.NewRedis(client, "storefront"), nil
	}
	return kvstore.NewFile(getEnv("STOREFRONT_STATE_DIR", defaultStateDir()))
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".storefront"
	}
	return filepath.Join(home, ".storefront")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
