package main

import (
	"fmt"
	"log"

	"github.com/Allan-Sanchez/storefront-client/internal/api"
	"github.com/Allan-Sanchez/storefront-client/internal/app"
	"github.com/Allan-Sanchez/storefront-client/internal/config"
	"github.com/Allan-Sanchez/storefront-client/internal/events"
	"github.com/Allan-Sanchez/storefront-client/internal/localstore"
	"github.com/Allan-Sanchez/storefront-client/internal/logging"
	"github.com/Allan-Sanchez/storefront-client/internal/notify"
	"github.com/Allan-Sanchez/storefront-client/internal/store/cart"
	"github.com/Allan-Sanchez/storefront-client/internal/store/session"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	store, err := openStore(cfg)
	if err != nil {
		log.Fatalf("local store init failed: %v", err)
	}
	defer store.Close()

	mirror := localstore.NewMirror(store, logger)

	cartStore := cart.NewStore(mirror)
	sessionStore := session.NewStore(mirror)
	sessionStore.Hydrate()

	notifier := notify.NewNotifier()

	producer := events.NewProducer(cfg.KafkaBrokers)
	defer producer.Close()

	storefront := app.New(
		logger,
		cartStore,
		sessionStore,
		notifier,
		api.NewAuthClient(cfg.AuthURL, sessionStore),
		api.NewProductsClient(cfg.ProductsURL, sessionStore),
		api.NewOrdersClient(cfg.OrdersURL, sessionStore),
		producer,
	)

	logger.Info("storefront client ready",
		"authenticated", sessionStore.IsAuthenticated(),
		"cartItems", cartStore.TotalItems(),
		"cartTotal", cartStore.TotalPrice(),
		"localStore", cfg.LocalStoreBackend,
		"creatingOrder", storefront.IsCreatingOrder(),
	)

	if user := sessionStore.User(); user != nil {
		logger.Info("restored session", "user", fmt.Sprintf("%s %s", user.FirstName, user.LastName), "email", user.Email)
	}
}

func openStore(cfg *config.Config) (localstore.Store, error) {
	switch cfg.LocalStoreBackend {
	case "redis":
		return localstore.OpenRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	case "memory":
		return localstore.NewMemoryStore(), nil
	default:
		return localstore.OpenSQLite(cfg.LocalStorePath)
	}
}
