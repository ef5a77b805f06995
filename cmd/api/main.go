package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yejielnehmad/community-sales-manager-sub000/api/routes"
	"github.com/yejielnehmad/community-sales-manager-sub000/internal/analysis"
	clientsvc "github.com/yejielnehmad/community-sales-manager-sub000/internal/clients"
	"github.com/yejielnehmad/community-sales-manager-sub000/internal/drafts"
	"github.com/yejielnehmad/community-sales-manager-sub000/internal/llm"
	ordersvc "github.com/yejielnehmad/community-sales-manager-sub000/internal/orders"
	productsvc "github.com/yejielnehmad/community-sales-manager-sub000/internal/products"
	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/config"
	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/db"
	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/db/models"
	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/logger"
	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/metrics"
	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/migrate"
	"github.com/yejielnehmad/community-sales-manager-sub000/pkg/redis"
)

// catalogReader feeds the analysis prompt from the product and client
// services without coupling the analysis package to either.
type catalogReader struct {
	products *productsvc.Service
	clients  *clientsvc.Service
}

func (c catalogReader) ListProducts(ctx context.Context, limit int) ([]models.Product, error) {
	return c.products.ListProducts(ctx, limit)
}

func (c catalogReader) ListClients(ctx context.Context, limit int) ([]models.Client, error) {
	return c.clients.ListClients(ctx, limit)
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	llmClient, err := llm.New(context.Background(), cfg.LLM, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create llm client", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	analysisMetrics := metrics.NewAnalysisMetrics(registry)

	clientsService := clientsvc.NewService(clientsvc.NewRepository(dbClient.DB()))
	productsService := productsvc.NewService(productsvc.NewRepository(dbClient.DB()), dbClient)
	ordersService := ordersvc.NewService(
		ordersvc.NewRepository(dbClient.DB()),
		dbClient,
		productsService,
		clientsService,
	)

	draftStore := drafts.NewStore(redisClient, cfg.Analysis.DraftTTL)
	analysisService := analysis.NewService(analysis.Params{
		LLM:       llmClient,
		Provider:  cfg.LLM.ProviderEnum(),
		Catalog:   catalogReader{products: productsService, clients: clientsService},
		Store:     draftStore,
		Templates: analysis.NewTemplates(redisClient),
		Metrics:   analysisMetrics,
		Logger:    logg,
		Config:    cfg.Analysis,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"provider": cfg.LLM.Provider,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:     cfg,
			Logger:     logg,
			DB:         dbClient,
			Redis:      redisClient,
			Registry:   registry,
			Clients:    clientsService,
			Products:   productsService,
			Orders:     ordersService,
			Analysis:   analysisService,
			DraftStore: draftStore,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
