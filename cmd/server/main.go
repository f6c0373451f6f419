// Copyright (c) 2025 FormHive
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Command server boots the query engine: configuration, stores, cache and
// the domain services. Transport is attached by the embedding deployment;
// this binary wires the core and verifies connectivity.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/formhive/formhive/forms/repository"
	formsServices "github.com/formhive/formhive/forms/services"
	"github.com/formhive/formhive/internal/cache"
	"github.com/formhive/formhive/internal/database/mongodb"
	"github.com/formhive/formhive/internal/database/postgres"
	"github.com/formhive/formhive/internal/pkg/log"
	"github.com/formhive/formhive/internal/platform/config"
	permissions "github.com/formhive/formhive/permissions/services"
	recordsRepository "github.com/formhive/formhive/records/repository"
	recordsServices "github.com/formhive/formhive/records/services"
	refRepository "github.com/formhive/formhive/referencedata/repository"
	refServices "github.com/formhive/formhive/referencedata/services"
)

// application holds the wired domain services for the embedding transport.
type application struct {
	records       *recordsServices.RecordService
	referenceData *refServices.Service
	catalog       *formsServices.CatalogService
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Error("failed to load config: %v", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := mongodb.NewMongoRepository(ctx, &mongodb.Config{
		URI:                    cfg.Database.Mongo.URI,
		Database:               cfg.Database.Mongo.Database,
		MaxPoolSize:            cfg.Database.Mongo.MaxPoolSize,
		MinPoolSize:            cfg.Database.Mongo.MinPoolSize,
		ConnectTimeout:         cfg.Database.Mongo.ConnectTimeout,
		ServerSelectionTimeout: cfg.Database.Mongo.ServerSelectionTimeout,
	})
	if err != nil {
		log.Error("failed to connect to the record store: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := <-db.Ping(ctx); err != nil {
		log.Error("record store unreachable: %v", err)
		os.Exit(1)
	}

	var cacheService *cache.Service
	if cfg.Cache.Enabled {
		backend, err := cache.NewCache(ctx, &cache.Config{
			Enabled:         true,
			Backend:         cache.CacheType(cfg.Cache.Backend),
			CleanupInterval: cfg.Cache.CleanupInterval,
			RedisAddress:    cfg.Cache.Redis.Address,
			RedisPassword:   cfg.Cache.Redis.Password,
			RedisDatabase:   cfg.Cache.Redis.Database,
			RedisPoolSize:   cfg.Cache.Redis.PoolSize,
		})
		if err != nil {
			log.Warn("cache unavailable, continuing without it: %v", err)
		} else {
			defer backend.Close()
			cacheService = cache.NewService(backend, cfg.Cache.Prefix, cfg.Cache.TTL)
		}
	}

	formRepo := repository.NewMongoFormRepository(db)
	catalog := formsServices.NewCatalogService(formRepo, cacheService, cfg.Query.ResolveDepth)

	recordRepo := recordsRepository.NewMongoRecordRepository(db)
	recordService := recordsServices.NewRecordService(recordRepo, formRepo, catalog, permissions.NewOwnershipProvider())

	var pgSource refRepository.ItemSource
	if cfg.Database.Postgres.Username != "" {
		pg, err := postgres.NewClient(ctx, &postgres.Config{
			Host:               cfg.Database.Postgres.Host,
			Port:               cfg.Database.Postgres.Port,
			Username:           cfg.Database.Postgres.Username,
			Password:           cfg.Database.Postgres.Password,
			Database:           cfg.Database.Postgres.Database,
			SSLMode:            cfg.Database.Postgres.SSLMode,
			MaxOpenConnections: cfg.Database.Postgres.MaxOpenConns,
			MaxIdleConnections: cfg.Database.Postgres.MaxIdleConns,
			MaxLifetime:        int(cfg.Database.Postgres.ConnMaxLifetime.Seconds()),
		})
		if err != nil {
			log.Warn("reference data store unavailable: %v", err)
		} else {
			defer pg.Close()
			pgSource = refRepository.NewPostgresSource(pg)
		}
	}
	app := &application{
		records:       recordService,
		referenceData: refServices.NewService(refRepository.NewStaticSource(), pgSource),
		catalog:       catalog,
	}

	log.Info("%s ready (cache=%v, refdata-postgres=%v)", cfg.App.Name, cacheService.Enabled(), pgSource != nil)
	serve(app)
}

// serve blocks until the process is asked to stop. The embedding deployment
// replaces this with its transport of choice.
func serve(app *application) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("shutting down")
}
