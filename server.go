package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"permablog/handlers"
	"permablog/render"
	"permablog/storage"
	"permablog/storage/in_memory"
	"permablog/storage/persistent"
	"permablog/storage/persistent_cached"
	"permablog/utils"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/motemen/go-loghttp/global"
)

type StorageMode string

const (
	InMemory       StorageMode = "inmemory"
	Mongo          StorageMode = "mongo"
	Postgres       StorageMode = "postgres"
	Cached         StorageMode = "cached"
)

type AppMode string

const (
	ServerMode AppMode = "server"
	WorkerMode AppMode = "worker"
)

func CreateRouter(handler *handlers.HTTPHandler) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/maintenance/ping", handler.HealthCheck).Methods("GET")
	r.HandleFunc("/", handler.HandleFrontPage).Methods("GET")
	r.HandleFunc("/newpost", handler.HandleNewPostForm).Methods("GET")
	r.HandleFunc("/newpost", handler.HandleCreatePost).Methods("POST")
	r.HandleFunc("/posts/{postId:[0-9]+}.html", handler.HandleGetPost).Methods("GET")

	return handlers.LogRequests(r)
}

func CreateServer(ctx context.Context) (*http.Server, error) {
	port := utils.GetEnvVarWithDefault("SERVER_PORT", "8080")

	storage, err := CreateStorage(ctx)
	if err != nil {
		return nil, err
	}
	renderer, err := render.NewTemplateRenderer(render.BodyFormat(utils.GetEnvVarWithDefault("BODY_FORMAT", "plain")))
	if err != nil {
		return nil, err
	}
	handler := &handlers.HTTPHandler{Storage: storage, Renderer: renderer}

	return &http.Server{
		Handler:      CreateRouter(handler),
		Addr:         "0.0.0.0:" + port,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}, nil
}

func CreateStorage(ctx context.Context) (storage.Storage, error) {
	storageMode := StorageMode(utils.GetEnvVarWithDefault("STORAGE_MODE", string(InMemory)))
	switch storageMode {
	case InMemory:
		return in_memory.CreateInMemoryStorage(), nil
	case Mongo, Postgres:
		return createPersistentStorage(ctx, storageMode)
	case Cached:
		cache, _, err := createCachedStorage(ctx)
		if err != nil {
			return nil, err
		}
		return cache, nil
	default:
		return nil, fmt.Errorf("invalid 'STORAGE_MODE' %q", storageMode)
	}
}

func createPersistentStorage(ctx context.Context, mode StorageMode) (storage.Storage, error) {
	switch mode {
	case Mongo:
		mongoUrl := utils.GetEnvVar("MONGO_URL")
		mongoDbName := utils.GetEnvVar("MONGO_DBNAME")
		mongoStorage, err := persistent.CreateMongoStorage(ctx, mongoUrl, mongoDbName)
		if err != nil {
			return nil, err
		}
		return mongoStorage, nil
	case Postgres:
		postgresStorage, err := persistent.CreatePostgresStorage(ctx, utils.GetEnvVar("POSTGRES_URL"))
		if err != nil {
			return nil, err
		}
		return postgresStorage, nil
	default:
		return nil, fmt.Errorf("invalid persistent storage %q", mode)
	}
}

// createCachedStorage returns a nil broker when BROKER_URL is unset.
func createCachedStorage(ctx context.Context) (*persistent_cached.PersistentStorageWithCache, *persistent_cached.Broker, error) {
	backend := StorageMode(utils.GetEnvVarWithDefault("CACHE_BACKEND", string(Mongo)))
	persistentStorage, err := createPersistentStorage(ctx, backend)
	if err != nil {
		return nil, nil, err
	}
	redisAddr := utils.GetEnvVar("REDIS_ADDR")
	ttl := utils.GetEnvDurationWithDefault("CACHE_TTL", time.Hour)
	cache := persistent_cached.CreatePersistentStorageCachedWithRedis(persistentStorage, redisAddr, ttl)

	brokerUrl := utils.GetEnvVarWithDefault("BROKER_URL", "")
	if brokerUrl == "" {
		return cache, nil, nil
	}
	broker, err := persistent_cached.CreateBroker(brokerUrl, cache)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start broker: %w", err)
	}
	cache.UseWarmer(broker)
	return cache, broker, nil
}

func CreateWorker(ctx context.Context) error {
	_, broker, err := createCachedStorage(ctx)
	if err != nil {
		return err
	}
	if broker == nil {
		return fmt.Errorf("'BROKER_URL' not specified for worker mode")
	}
	return broker.LaunchWorker()
}

func main() {
	utils.LoadEnvFile()
	ctx := context.Background()

	appMode := AppMode(utils.GetEnvVarWithDefault("APP_MODE", string(ServerMode)))
	switch appMode {
	case ServerMode:
		srv, err := CreateServer(ctx)
		if err != nil {
			log.Fatalf("Failed to create server: %s", err.Error())
		}
		log.Printf("Start serving on %s", srv.Addr)
		log.Fatal(srv.ListenAndServe())
	case WorkerMode:
		log.Fatal(CreateWorker(ctx))
	default:
		panic("Invalid 'APP_MODE'")
	}
}
