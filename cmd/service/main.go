package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/djshizzle/DJRequest-App/internal/catalog"
	"github.com/djshizzle/DJRequest-App/internal/events"
	"github.com/djshizzle/DJRequest-App/internal/httputil"
	"github.com/djshizzle/DJRequest-App/internal/identity"
	"github.com/djshizzle/DJRequest-App/internal/profile"
	"github.com/djshizzle/DJRequest-App/internal/queue"
	"github.com/djshizzle/DJRequest-App/internal/realtime"
	"github.com/djshizzle/DJRequest-App/internal/storage"
)

func main() {
	cfg := loadConfigFromEnv()
	ctx := context.Background()

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("request-service: invalid REDIS_URL: %v", err)
		}
		rdb = redis.NewClient(opt)
		defer rdb.Close()
	}

	backend := openBackend(ctx, cfg, rdb)

	persister := storage.NewPersister(backend, cfg.FlushInterval)

	identityStore := identity.NewStore(persister)
	profileStore := profile.NewStore(persister)
	catalogStore := catalog.NewStore(persister)
	queueStore := queue.NewStore(persister)

	stores := map[string]interface {
		Init(context.Context, storage.Backend) error
		Snapshot() ([]byte, error)
	}{
		identity.DocumentName: identityStore,
		profile.DocumentName:  profileStore,
		catalog.DocumentName:  catalogStore,
		queue.DocumentName:    queueStore,
	}
	for name, st := range stores {
		if err := st.Init(ctx, backend); err != nil {
			log.Fatalf("request-service: load %s: %v", name, err)
		}
		persister.Register(name, st)
	}
	persister.Start(ctx)

	hub := realtime.NewHub()
	go hub.Run()
	rt := realtime.NewServer(hub, rdb)
	go rt.RunRedisSubscriber(ctx)

	var pub events.Publisher
	if rdb != nil {
		pub = events.NewRedisPublisher(rdb)
	} else {
		pub = events.NewLocalPublisher(hub)
	}

	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
	)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"status":  "ok",
			"service": "request-service",
		})
	})

	catalogSrv := catalog.NewServer(catalogStore, identityStore, pub)

	r.Group(func(r chi.Router) {
		// The websocket endpoint cannot take the global timeout.
		r.Use(middleware.Timeout(60 * time.Second))
		r.Mount("/session", identity.NewServer(identityStore, pub).Router())
		r.Mount("/profile", profile.NewServer(profileStore, identityStore, pub).Router())
		r.Mount("/playlists", catalogSrv.Router())
		r.Mount("/songs", catalogSrv.SongsRouter())
		r.Mount("/requests", queue.NewServer(queueStore, identityStore, profileStore, catalogStore, pub).Router())
	})
	r.Mount("/ws", rt.Router())

	log.Printf("request-service listening on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatalf("request-service: %v", err)
	}
}

func openBackend(ctx context.Context, cfg Config, rdb *redis.Client) storage.Backend {
	switch cfg.StorageMode {
	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("request-service: pg: %v", err)
		}
		if err := pool.Ping(ctx); err != nil {
			log.Fatalf("request-service: pg ping: %v", err)
		}
		if err := storage.AutoMigrate(ctx, pool); err != nil {
			log.Fatalf("request-service: migrate: %v", err)
		}
		return storage.NewPostgresBackend(pool)
	case "redis":
		if rdb == nil {
			log.Fatalf("request-service: STORAGE=redis requires REDIS_URL")
		}
		return storage.NewRedisBackend(rdb, "request-service:")
	case "file":
		backend, err := storage.NewFileBackend(cfg.DataDir)
		if err != nil {
			log.Fatalf("request-service: data dir: %v", err)
		}
		return backend
	default:
		log.Fatalf("request-service: unknown STORAGE %q", cfg.StorageMode)
		return nil
	}
}
